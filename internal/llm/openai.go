package llm

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIProvider refines text with the Chat Completions API. With an endpoint
// it talks to any compatible server, such as Ollama.
type OpenAIProvider struct {
	name     string
	apiKey   string
	model    string
	endpoint string
	client   *openai.Client
}

// NewOpenAIProvider creates an OpenAI provider.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		name:   "openai",
		apiKey: apiKey,
		model:  model,
		client: openai.NewClient(apiKey),
	}
}

// NewOllamaProvider creates a provider for a local Ollama server through its
// OpenAI-compatible endpoint.
func NewOllamaProvider(endpoint, model string) *OpenAIProvider {
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	base := strings.TrimSuffix(endpoint, "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	cfg := openai.DefaultConfig("ollama")
	cfg.BaseURL = base
	return &OpenAIProvider{
		name:     "ollama",
		model:    model,
		endpoint: base,
		client:   openai.NewClientWithConfig(cfg),
	}
}

// Name implements Provider.
func (p *OpenAIProvider) Name() string { return p.name }

// Validate implements Provider.
func (p *OpenAIProvider) Validate() error {
	if p.endpoint == "" && p.apiKey == "" {
		return fmt.Errorf("%s: API key is not set (OPENAI_API_KEY)", p.name)
	}
	if p.model == "" {
		return fmt.Errorf("%s: model is not set", p.name)
	}
	return nil
}

// Refine implements Provider.
func (p *OpenAIProvider) Refine(ctx context.Context, text string, opts RefineOptions) (*RefineResult, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		MaxTokens:   opts.MaxTokens,
		Temperature: float32(opts.Temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: opts.SystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: chat completion failed: %w", p.name, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s: response has no choices", p.name)
	}
	out := cleanOutput(resp.Choices[0].Message.Content)
	if out == "" {
		return nil, fmt.Errorf("%s: empty response", p.name)
	}
	return &RefineResult{
		Text:  out,
		Model: resp.Model,
		Usage: TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}
