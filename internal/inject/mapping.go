package inject

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roboco-io/pptxinject/internal/ir"
)

// Mapping is a declarative binding table, usually loaded from YAML:
//
//	bindings:
//	  - name: title
//	    strategy: shape_text
//	    slide: title_slide
//	    shape: ELE_TITLE_SHAPE
//	    value: title
type Mapping struct {
	Bindings []MappingEntry `yaml:"bindings"`
}

// MappingEntry declares one binding. Value is an expression evaluated
// against the data context.
type MappingEntry struct {
	Name     string         `yaml:"name"`
	Strategy string         `yaml:"strategy"`
	Slide    string         `yaml:"slide"`
	Shape    string         `yaml:"shape"`
	Marker   string         `yaml:"marker,omitempty"`
	Value    string         `yaml:"value"`
	Meta     map[string]any `yaml:"meta,omitempty"`
	Refine   bool           `yaml:"refine,omitempty"`
}

// ParseMapping decodes a YAML mapping.
func ParseMapping(data []byte) (*Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse mapping: %w", err)
	}
	return &m, nil
}

// LoadMapping reads a YAML mapping file.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping: %w", err)
	}
	return ParseMapping(data)
}

// Lint checks the mapping itself: names, strategies, targets and expression syntax.
func (m *Mapping) Lint() []ir.Issue {
	var issues []ir.Issue
	errf := func(format string, args ...any) {
		issues = append(issues, ir.Issue{Severity: ir.SeverityError, Message: fmt.Sprintf(format, args...)})
	}
	eval := NewEvaluator()
	seen := make(map[string]bool)
	for i, e := range m.Bindings {
		name := e.Name
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
			errf("binding %s: name is required", name)
		} else if seen[name] {
			errf("binding %s: duplicate name", name)
		}
		seen[name] = true
		if !slices.Contains(Strategies, e.Strategy) {
			errf("binding %s: unknown strategy %q", name, e.Strategy)
		}
		if e.Slide == "" || e.Shape == "" {
			errf("binding %s: slide and shape are required", name)
		}
		if e.Strategy == StrategyTableCell && e.Marker == "" {
			errf("binding %s: table_cell requires a marker", name)
		}
		if e.Strategy == StrategyTableRows {
			if _, err := Meta(e.Meta).Int(MetaTemplateRowIndex); err != nil {
				errf("binding %s: %v", name, err)
			}
		}
		if e.Value == "" {
			errf("binding %s: value is required", name)
		} else if err := eval.Compile(e.Value); err != nil {
			errf("binding %s: invalid value expression: %v", name, err)
		}
	}
	return issues
}

// Registry builds the bindings in declaration order. Expression sources share eval.
func (m *Mapping) Registry(eval *Evaluator) (*Registry, error) {
	if eval == nil {
		eval = NewEvaluator()
	}
	reg := NewRegistry()
	for i, e := range m.Bindings {
		inj, err := New(e.Strategy, Target{Slide: e.Slide, Shape: e.Shape, Marker: e.Marker})
		if err != nil {
			return nil, fmt.Errorf("binding %d (%s): %w", i+1, e.Name, err)
		}
		err = reg.Register(Binding{
			Name:     e.Name,
			Injector: inj,
			Source:   NewExprSource(eval, e.Value, Meta(e.Meta)),
			Refine:   e.Refine,
		})
		if err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Validate lints the mapping and resolves every target in doc without
// modifying it.
func (m *Mapping) Validate(doc *ir.Presentation) []ir.Issue {
	issues := m.Lint()
	if ir.HasErrors(issues) {
		return issues
	}
	reg, err := m.Registry(nil)
	if err != nil {
		return append(issues, ir.Issue{Severity: ir.SeverityError, Message: err.Error()})
	}
	return append(issues, Check(doc, reg)...)
}
