// Package llm provides the LLM provider interface and registry used to refine
// text values before they are injected into a presentation.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Provider is the interface that all LLM providers must implement.
type Provider interface {
	// Name returns the provider identifier (e.g., "openai", "anthropic").
	Name() string

	// Refine rewrites a short text value and returns the result.
	Refine(ctx context.Context, text string, opts RefineOptions) (*RefineResult, error)

	// Validate checks if the provider is properly configured.
	Validate() error
}

// RefineOptions contains options for text refinement.
type RefineOptions struct {
	Language    string  `json:"language,omitempty"`    // output language (e.g., "ko", "en")
	MaxTokens   int     `json:"max_tokens,omitempty"`  // maximum tokens for response
	Temperature float64 `json:"temperature,omitempty"` // creativity level (0.0 - 1.0)
	Prompt      string  `json:"prompt,omitempty"`      // custom system prompt
}

// RefineResult contains the result of a refinement.
type RefineResult struct {
	Text  string     `json:"text"`
	Usage TokenUsage `json:"usage"`
	Model string     `json:"model"`
}

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// DefaultRefineOptions returns the default refinement options.
func DefaultRefineOptions() RefineOptions {
	return RefineOptions{
		Language:    "ko",
		MaxTokens:   1024,
		Temperature: 0.3,
	}
}

var languageNames = map[string]string{
	"ko": "Korean",
	"en": "English",
	"ja": "Japanese",
	"zh": "Chinese",
}

// SystemPrompt returns the instruction sent with every refinement.
func (o RefineOptions) SystemPrompt() string {
	if o.Prompt != "" {
		return o.Prompt
	}
	lang := languageNames[o.Language]
	if lang == "" {
		lang = o.Language
	}
	var sb strings.Builder
	sb.WriteString("You polish short text fragments that are placed into presentation slides. ")
	sb.WriteString("Fix spelling, spacing and awkward phrasing. Keep the meaning, facts, numbers and names. ")
	sb.WriteString("Keep line breaks. Do not add quotes, headings, markdown or explanations. ")
	if lang != "" {
		fmt.Fprintf(&sb, "Answer in %s. ", lang)
	}
	sb.WriteString("Reply with the rewritten text only.")
	return sb.String()
}

// cleanOutput strips wrapping a model may add despite the instruction.
func cleanOutput(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") && strings.HasSuffix(s, "```") && len(s) >= 6 {
		s = strings.TrimSpace(s[3 : len(s)-3])
		if i := strings.IndexByte(s, '\n'); i >= 0 && !strings.ContainsAny(s[:i], " \t") {
			// drop a language tag line
			s = strings.TrimSpace(s[i+1:])
		}
	}
	return s
}
