package llm

import (
	"fmt"

	"github.com/roboco-io/pptxinject/internal/config"
)

// New creates the named provider from its configuration entry. Names other
// than the built-in ones are treated as OpenAI-compatible servers and need an
// endpoint.
func New(name string, pc config.Provider) (Provider, error) {
	switch name {
	case "anthropic":
		return NewAnthropicProvider(pc.APIKey, pc.Model), nil
	case "openai":
		return NewOpenAIProvider(pc.APIKey, pc.Model), nil
	case "gemini":
		return NewGeminiProvider(pc.APIKey, pc.Model), nil
	case "ollama":
		return NewOllamaProvider(pc.Endpoint, pc.Model), nil
	}
	if pc.Endpoint == "" {
		return nil, fmt.Errorf("unknown provider %q without endpoint", name)
	}
	p := NewOllamaProvider(pc.Endpoint, pc.Model)
	p.name = name
	p.apiKey = pc.APIKey
	return p, nil
}

// NewRegistryFromConfig registers every configured provider. Providers are
// registered even when they fail Validate, so callers can report why.
func NewRegistryFromConfig(cfg *config.Config) (*Registry, error) {
	r := NewRegistry()
	for name, pc := range cfg.Providers {
		p, err := New(name, pc)
		if err != nil {
			return nil, err
		}
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Select returns the named provider, or the configured default when name is
// empty, and checks its configuration. A non-empty model overrides the
// configured one.
func Select(cfg *config.Config, name, model string) (Provider, error) {
	if name == "" {
		name = cfg.DefaultProvider
	}
	pc, ok := cfg.GetProvider(name)
	if !ok {
		return nil, fmt.Errorf("provider not configured: %s", name)
	}
	if model != "" {
		pc.Model = model
	}
	p, err := New(name, *pc)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
