package inject

import "github.com/roboco-io/pptxinject/internal/ir"

// TableCell replaces the text of the unique table cell holding a marker.
type TableCell struct {
	target Target
}

// NewTableCell creates the marker replacement strategy.
func NewTableCell(slide, shape, marker string) *TableCell {
	return &TableCell{target: Target{Slide: slide, Shape: shape, Marker: marker}}
}

func (c *TableCell) Target() Target { return c.target }

func (c *TableCell) Strategy() string { return StrategyTableCell }

func (c *TableCell) locate(doc *ir.Presentation) (*ir.Table, int, int, error) {
	_, shape, err := resolveShape(doc, c.target, "table")
	if err != nil {
		return nil, 0, 0, err
	}
	row, col, err := shape.Table.FindCellByText(c.target.Marker)
	if err != nil {
		return nil, 0, 0, ir.Annotate(err, c.target.Slide, c.target.Shape)
	}
	return shape.Table, row, col, nil
}

func (c *TableCell) Check(doc *ir.Presentation) error {
	_, _, _, err := c.locate(doc)
	return err
}

func (c *TableCell) Inject(doc *ir.Presentation, v Value) error {
	text, err := AsString(v.Data)
	if err != nil {
		return err
	}
	table, row, col, err := c.locate(doc)
	if err != nil {
		return err
	}
	return ir.Annotate(table.SetCellText(row, col, text), c.target.Slide, c.target.Shape)
}
