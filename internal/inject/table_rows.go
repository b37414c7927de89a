package inject

import (
	"fmt"

	"github.com/roboco-io/pptxinject/internal/ir"
)

// TableRows inserts rows styled like a template row. Meta:
// template_row_index (required), insert_index (default: append) and
// delete_template_row.
type TableRows struct {
	target Target
}

// NewTableRows creates the row insertion strategy.
func NewTableRows(slide, shape string) *TableRows {
	return &TableRows{target: Target{Slide: slide, Shape: shape}}
}

func (r *TableRows) Target() Target { return r.target }

func (r *TableRows) Strategy() string { return StrategyTableRows }

func (r *TableRows) Check(doc *ir.Presentation) error {
	_, _, err := resolveShape(doc, r.target, "table")
	return err
}

func (r *TableRows) Inject(doc *ir.Presentation, v Value) error {
	rows, err := AsRows(v.Data)
	if err != nil {
		return err
	}
	_, shape, err := resolveShape(doc, r.target, "table")
	if err != nil {
		return err
	}
	table := shape.Table

	template, err := v.Meta.Int(MetaTemplateRowIndex)
	if err != nil {
		return &ir.ValidationError{
			Field: MetaTemplateRowIndex,
			Msg:   fmt.Sprintf("a template row is required to clone fill, border and height: %v", err),
			Loc:   ir.Location{SlideID: r.target.Slide, Shape: r.target.Shape},
			Err:   ir.ErrMissingTemplate,
		}
	}
	index := v.Meta.IntOr(MetaInsertIndex, table.Rows)

	err = table.InsertTemplateRows(index, rows, template, v.Meta.Bool(MetaDeleteTemplateRow))
	return ir.Annotate(err, r.target.Slide, r.target.Shape)
}
