package inject

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roboco-io/pptxinject/internal/ir"
)

// Refiner rewrites a text value before injection.
type Refiner interface {
	Refine(ctx context.Context, text string) (string, error)
}

// Engine runs the bindings of a registry against a document.
type Engine struct {
	registry *Registry
	logger   *slog.Logger
	refiner  Refiner
	dryRun   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger (default: discard).
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRefiner sets the refiner used by bindings marked Refine.
func WithRefiner(r Refiner) Option {
	return func(e *Engine) { e.refiner = r }
}

// WithDryRun applies bindings to a private copy of the document, leaving the
// caller's document untouched.
func WithDryRun(dry bool) Option {
	return func(e *Engine) { e.dryRun = dry }
}

// NewEngine creates an engine over registry.
func NewEngine(registry *Registry, opts ...Option) *Engine {
	e := &Engine{
		registry: registry,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Applied records one successful binding.
type Applied struct {
	Binding  string
	Strategy string
	Target   Target
	Refined  bool
}

// Report summarizes an engine run.
type Report struct {
	Applied []Applied
	DryRun  bool
}

// Run executes every binding in order. It stops before the next binding when
// ctx is done and aborts on the first error; mutations already applied stay
// applied.
func (e *Engine) Run(ctx context.Context, doc *ir.Presentation, data map[string]any) (*Report, error) {
	report := &Report{DryRun: e.dryRun}
	target := doc
	if e.dryRun {
		clone, err := doc.Clone()
		if err != nil {
			return nil, err
		}
		target = clone
	}

	for _, b := range e.registry.Bindings() {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("injection cancelled before %s: %w", b.Name, err)
		}
		applied, err := e.apply(ctx, target, b, data)
		if err != nil {
			t := b.Injector.Target()
			err = ir.Annotate(err, t.Slide, t.Shape)
			return report, fmt.Errorf("binding %s (%s): %w", b.Name, b.Injector.Strategy(), err)
		}
		report.Applied = append(report.Applied, applied)
	}
	return report, nil
}

func (e *Engine) apply(ctx context.Context, doc *ir.Presentation, b Binding, data map[string]any) (Applied, error) {
	log := e.logger.With("binding", b.Name, "strategy", b.Injector.Strategy(),
		"slide", b.Injector.Target().Slide, "shape", b.Injector.Target().Shape)

	v, err := b.Source.Resolve(data)
	if err != nil {
		return Applied{}, fmt.Errorf("failed to resolve value: %w", err)
	}

	refined := false
	if b.Refine && e.refiner != nil {
		if s, ok := v.Data.(string); ok {
			out, err := e.refiner.Refine(ctx, s)
			if err != nil {
				return Applied{}, fmt.Errorf("failed to refine value: %w", err)
			}
			v.Data = out
			refined = true
		} else {
			log.Debug("refine skipped for non-text value", "type", fmt.Sprintf("%T", v.Data))
		}
	}

	if err := b.Injector.Inject(doc, v); err != nil {
		return Applied{}, err
	}
	log.Info("injected", "refined", refined)
	return Applied{
		Binding:  b.Name,
		Strategy: b.Injector.Strategy(),
		Target:   b.Injector.Target(),
		Refined:  refined,
	}, nil
}

// Check resolves every binding's placeholder without modifying doc.
func Check(doc *ir.Presentation, registry *Registry) []ir.Issue {
	var issues []ir.Issue
	for _, b := range registry.Bindings() {
		c, ok := b.Injector.(Checker)
		if !ok {
			continue
		}
		if err := c.Check(doc); err != nil {
			t := b.Injector.Target()
			loc := ir.Location{SlideID: t.Slide, Shape: t.Shape}
			if l := ir.LocationOf(err); l != nil {
				loc = *l
				if loc.SlideID == "" {
					loc.SlideID = t.Slide
				}
				if loc.Shape == "" {
					loc.Shape = t.Shape
				}
			}
			issues = append(issues, ir.Issue{
				Severity: ir.SeverityError,
				Loc:      loc,
				Message:  fmt.Sprintf("binding %s: %v", b.Name, err),
			})
		}
	}
	return issues
}
