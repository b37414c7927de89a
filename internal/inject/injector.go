// Package inject applies externally supplied values to placeholder shapes of a
// presentation IR through typed injection strategies.
package inject

import (
	"fmt"

	"github.com/roboco-io/pptxinject/internal/ir"
)

// Strategy names.
const (
	StrategyShapeText      = "shape_text"
	StrategyShapeTextReset = "shape_text_reset"
	StrategyTableCell      = "table_cell"
	StrategyTableRows      = "table_rows"
	StrategyParagraphList  = "paragraph_list"
	StrategyShapeImage     = "shape_image"
)

// Strategies lists every strategy name in a stable order.
var Strategies = []string{
	StrategyShapeText,
	StrategyShapeTextReset,
	StrategyTableCell,
	StrategyTableRows,
	StrategyParagraphList,
	StrategyShapeImage,
}

// Target addresses a placeholder: a slide by logical inject id, a shape by
// name and, for marker replacement, the marker text of a table cell.
type Target struct {
	Slide  string
	Shape  string
	Marker string
}

func (t Target) String() string {
	if t.Marker != "" {
		return fmt.Sprintf("%s/%s[%s]", t.Slide, t.Shape, t.Marker)
	}
	return t.Slide + "/" + t.Shape
}

// Injector applies one value at one placeholder.
type Injector interface {
	Inject(doc *ir.Presentation, v Value) error
	Target() Target
	Strategy() string
}

// Checker is implemented by injectors that can verify their placeholder
// without modifying the document.
type Checker interface {
	Check(doc *ir.Presentation) error
}

// New creates the injector for a strategy name.
func New(strategy string, target Target) (Injector, error) {
	switch strategy {
	case StrategyShapeText:
		return NewShapeText(target.Slide, target.Shape), nil
	case StrategyShapeTextReset:
		return NewShapeTextReset(target.Slide, target.Shape), nil
	case StrategyTableCell:
		if target.Marker == "" {
			return nil, fmt.Errorf("strategy %s requires a marker", strategy)
		}
		return NewTableCell(target.Slide, target.Shape, target.Marker), nil
	case StrategyTableRows:
		return NewTableRows(target.Slide, target.Shape), nil
	case StrategyParagraphList:
		return NewParagraphList(target.Slide, target.Shape), nil
	case StrategyShapeImage:
		return NewShapeImage(target.Slide, target.Shape), nil
	default:
		return nil, fmt.Errorf("unknown strategy: %s", strategy)
	}
}

// resolveShape finds the target shape and checks it carries the expected payload.
func resolveShape(doc *ir.Presentation, t Target, payload string) (*ir.Slide, *ir.Shape, error) {
	slide, shape, err := doc.Resolve(t.Slide, t.Shape)
	if err != nil {
		return nil, nil, err
	}
	loc := ir.Location{SlideID: t.Slide, SlideNumber: slide.SlideNumber, Shape: t.Shape}
	switch payload {
	case "table":
		if shape.Table == nil {
			return nil, nil, &ir.ValidationError{Field: "table", Msg: "shape has no table", Loc: loc}
		}
	case "text":
		if shape.Table != nil || shape.Image != nil {
			return nil, nil, &ir.ValidationError{Field: "text", Msg: fmt.Sprintf("shape carries a %s, not text", shape.PayloadKind()), Loc: loc}
		}
		if shape.Text == nil {
			return nil, nil, &ir.ValidationError{Field: "text", Msg: "shape has no text body", Loc: loc, Err: ir.ErrMissingTemplate}
		}
	case "image":
		if shape.Table != nil {
			return nil, nil, &ir.ValidationError{Field: "image", Msg: "shape carries a table", Loc: loc}
		}
	}
	return slide, shape, nil
}

// templateRun returns the first run of the first paragraph, the run whose
// style is cloned by the text strategies.
func templateRun(shape *ir.Shape, t Target) (*ir.Run, error) {
	run := shape.Text.FirstRun()
	if run == nil {
		return nil, &ir.ValidationError{
			Field: "text",
			Msg:   "shape has no template paragraph/run",
			Loc:   ir.Location{SlideID: t.Slide, Shape: t.Shape},
			Err:   ir.ErrMissingTemplate,
		}
	}
	return run, nil
}
