package inject

import (
	"fmt"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Source produces the value of a binding from the data context.
type Source interface {
	Resolve(data map[string]any) (Value, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(data map[string]any) (Value, error)

func (f SourceFunc) Resolve(data map[string]any) (Value, error) { return f(data) }

// Static returns a source that always yields v.
func Static(v Value) Source {
	return SourceFunc(func(map[string]any) (Value, error) { return v, nil })
}

// Key returns a source reading a top-level key of the data context.
func Key(name string, meta Meta) Source {
	return SourceFunc(func(data map[string]any) (Value, error) {
		v, ok := data[name]
		if !ok {
			return Value{}, fmt.Errorf("data key not found: %s", name)
		}
		return Value{Data: v, Meta: meta}, nil
	})
}

// Evaluator evaluates expressions against the data context. Compiled
// programs are cached per expression text.
type Evaluator struct {
	cache sync.Map // expression string → compiled *vm.Program
}

// NewEvaluator creates an expression evaluator backed by expr-lang/expr.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate runs expression with data as its environment.
func (e *Evaluator) Evaluate(expression string, data map[string]any) (any, error) {
	if expression == "" {
		return nil, nil
	}
	program, err := e.compile(expression, data)
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", expression, err)
	}
	result, err := expr.Run(program, data)
	if err != nil {
		return nil, fmt.Errorf("evaluate expression %q: %w", expression, err)
	}
	return result, nil
}

// Compile checks the syntax of an expression without data.
func (e *Evaluator) Compile(expression string) error {
	_, err := expr.Compile(expression, expr.AllowUndefinedVariables())
	return err
}

func (e *Evaluator) compile(expression string, env map[string]any) (*vm.Program, error) {
	if cached, ok := e.cache.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, expr.Env(env), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, err
	}
	e.cache.Store(expression, program)
	return program, nil
}

// ExprSource evaluates an expression to produce a binding value.
type ExprSource struct {
	Expr string
	Meta Meta
	eval *Evaluator
}

// NewExprSource creates an expression source using eval; nil creates a private evaluator.
func NewExprSource(eval *Evaluator, expression string, meta Meta) *ExprSource {
	if eval == nil {
		eval = NewEvaluator()
	}
	return &ExprSource{Expr: expression, Meta: meta, eval: eval}
}

func (s *ExprSource) Resolve(data map[string]any) (Value, error) {
	v, err := s.eval.Evaluate(s.Expr, data)
	if err != nil {
		return Value{}, err
	}
	if v == nil {
		return Value{}, fmt.Errorf("expression %q evaluated to nil", s.Expr)
	}
	meta := s.Meta
	if meta == nil {
		meta = Meta{}
	}
	return Value{Data: v, Meta: meta}, nil
}
