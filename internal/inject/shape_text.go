package inject

import "github.com/roboco-io/pptxinject/internal/ir"

// ShapeText replaces the template run of a text shape. The run keeps its
// font, size, bold, italic and color; only the text changes.
type ShapeText struct {
	target Target
	reset  bool
}

// NewShapeText creates the template-preserving text strategy.
func NewShapeText(slide, shape string) *ShapeText {
	return &ShapeText{target: Target{Slide: slide, Shape: shape}}
}

// NewShapeTextReset creates the alternate text strategy that resets bold and
// italic to false on the paragraph and on the new run.
func NewShapeTextReset(slide, shape string) *ShapeText {
	return &ShapeText{target: Target{Slide: slide, Shape: shape}, reset: true}
}

func (s *ShapeText) Target() Target { return s.target }

func (s *ShapeText) Strategy() string {
	if s.reset {
		return StrategyShapeTextReset
	}
	return StrategyShapeText
}

func (s *ShapeText) Check(doc *ir.Presentation) error {
	_, shape, err := resolveShape(doc, s.target, "text")
	if err != nil {
		return err
	}
	_, err = templateRun(shape, s.target)
	return err
}

func (s *ShapeText) Inject(doc *ir.Presentation, v Value) error {
	text, err := AsString(v.Data)
	if err != nil {
		return err
	}
	_, shape, err := resolveShape(doc, s.target, "text")
	if err != nil {
		return err
	}
	tmpl, err := templateRun(shape, s.target)
	if err != nil {
		return err
	}

	run := tmpl.WithText(text)
	para := shape.Text.Paragraphs[0]
	if s.reset {
		para.Bold = ir.Bool(false)
		para.Italic = ir.Bool(false)
		run.Bold = ir.Bool(false)
		run.Italic = ir.Bool(false)
	}
	para.Runs[0] = run
	para.Renumber()
	return nil
}
