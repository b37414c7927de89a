package llm

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/roboco-io/pptxinject/internal/config"
)

// Refiner adapts a Provider to the injection engine. Identical inputs are
// sent once; usage is accumulated across calls.
type Refiner struct {
	provider Provider
	opts     RefineOptions
	log      *slog.Logger

	mu    sync.Mutex
	cache map[string]string
	usage TokenUsage
	calls int
}

// NewRefiner creates a refiner. A nil logger discards output.
func NewRefiner(p Provider, opts RefineOptions, log *slog.Logger) *Refiner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Refiner{provider: p, opts: opts, log: log, cache: make(map[string]string)}
}

// OptionsFromConfig builds refinement options from the refine section.
func OptionsFromConfig(rc config.RefineConfig) RefineOptions {
	opts := DefaultRefineOptions()
	if rc.Language != "" {
		opts.Language = rc.Language
	}
	if rc.MaxTokens > 0 {
		opts.MaxTokens = rc.MaxTokens
	}
	opts.Temperature = rc.Temperature
	opts.Prompt = rc.Prompt
	return opts
}

// Refine implements inject.Refiner. Blank text is returned unchanged.
func (r *Refiner) Refine(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	r.mu.Lock()
	if out, ok := r.cache[text]; ok {
		r.mu.Unlock()
		return out, nil
	}
	r.mu.Unlock()

	res, err := r.provider.Refine(ctx, text, r.opts)
	if err != nil {
		return "", err
	}
	r.log.Debug("refined text", "provider", r.provider.Name(), "model", res.Model,
		"input_tokens", res.Usage.InputTokens, "output_tokens", res.Usage.OutputTokens)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cache[text] = res.Text
	r.calls++
	r.usage.InputTokens += res.Usage.InputTokens
	r.usage.OutputTokens += res.Usage.OutputTokens
	r.usage.TotalTokens += res.Usage.TotalTokens
	return res.Text, nil
}

// Usage returns the accumulated token usage and the number of provider calls.
func (r *Refiner) Usage() (TokenUsage, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.usage, r.calls
}
