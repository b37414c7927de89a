package llm

import (
	"context"
	"fmt"
	"sync"

	"google.golang.org/genai"
)

// GeminiProvider refines text with the Gemini API. The client is created on
// first use because construction needs a context.
type GeminiProvider struct {
	apiKey string
	model  string

	once    sync.Once
	client  *genai.Client
	initErr error
}

// NewGeminiProvider creates a Gemini provider.
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	return &GeminiProvider{apiKey: apiKey, model: model}
}

// Name implements Provider.
func (p *GeminiProvider) Name() string { return "gemini" }

// Validate implements Provider.
func (p *GeminiProvider) Validate() error {
	if p.apiKey == "" {
		return fmt.Errorf("gemini: API key is not set (GOOGLE_API_KEY)")
	}
	if p.model == "" {
		return fmt.Errorf("gemini: model is not set")
	}
	return nil
}

func (p *GeminiProvider) connect(ctx context.Context) (*genai.Client, error) {
	p.once.Do(func() {
		p.client, p.initErr = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  p.apiKey,
			Backend: genai.BackendGeminiAPI,
		})
	})
	if p.initErr != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", p.initErr)
	}
	return p.client, nil
}

// Refine implements Provider.
func (p *GeminiProvider) Refine(ctx context.Context, text string, opts RefineOptions) (*RefineResult, error) {
	client, err := p.connect(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := client.Models.GenerateContent(ctx, p.model, genai.Text(text), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(opts.SystemPrompt(), genai.RoleUser),
		Temperature:       genai.Ptr(float32(opts.Temperature)),
		MaxOutputTokens:   int32(opts.MaxTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content failed: %w", err)
	}
	out := cleanOutput(resp.Text())
	if out == "" {
		return nil, fmt.Errorf("gemini: empty response")
	}
	result := &RefineResult{Text: out, Model: p.model}
	if resp.ModelVersion != "" {
		result.Model = resp.ModelVersion
	}
	if u := resp.UsageMetadata; u != nil {
		result.Usage = TokenUsage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}
	return result, nil
}
