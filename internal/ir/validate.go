package ir

import "fmt"

// Severity indicates the severity of a validation issue.
type Severity int

const (
	SeverityError   Severity = iota // the document violates a model invariant
	SeverityWarning                 // the document is usable but may not render as intended
)

// Issue is a single problem found by Validate.
type Issue struct {
	Severity Severity
	Loc      Location
	Message  string
}

// String formats the issue as "[ERROR] slide s1, shape T: message" or "[WARN] ...".
func (i Issue) String() string {
	sev := "ERROR"
	if i.Severity == SeverityWarning {
		sev = "WARN"
	}
	if loc := i.Loc.String(); loc != "" {
		return fmt.Sprintf("[%s] %s: %s", sev, loc, i.Message)
	}
	return fmt.Sprintf("[%s] %s", sev, i.Message)
}

// HasErrors reports whether any issue has error severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks every model invariant of the document.
func Validate(doc *Presentation) []Issue {
	var issues []Issue
	if doc.SlideWidth <= 0 || doc.SlideHeight <= 0 {
		issues = append(issues, Issue{Severity: SeverityError, Message: fmt.Sprintf("invalid slide size %dx%d", doc.SlideWidth, doc.SlideHeight)})
	}
	for _, s := range doc.Slides {
		loc := Location{SlideID: s.SlideID, SlideNumber: s.SlideNumber}
		for _, sh := range s.Shapes {
			shLoc := loc
			shLoc.Shape = sh.Name
			issues = append(issues, validateShape(sh, shLoc)...)
		}
	}
	return issues
}

func validateShape(sh *Shape, loc Location) []Issue {
	var issues []Issue
	if sh.Position.Width < 0 || sh.Position.Height < 0 {
		issues = append(issues, Issue{Severity: SeverityError, Loc: loc, Message: "negative shape size"})
	}
	if sh.PayloadCount() > 1 {
		issues = append(issues, Issue{Severity: SeverityError, Loc: loc, Message: "shape has more than one payload"})
	}
	if sh.Fill.Kind == ColorUnknown {
		issues = append(issues, Issue{Severity: SeverityWarning, Loc: loc, Message: fmt.Sprintf("unrecognized fill color %q is ignored", sh.Fill.Raw)})
	}
	if sh.Table != nil {
		for _, ti := range sh.Table.Validate() {
			ti.Loc.SlideID, ti.Loc.SlideNumber, ti.Loc.Shape = loc.SlideID, loc.SlideNumber, loc.Shape
			issues = append(issues, ti)
		}
	}
	return issues
}

// Validate checks the grid shape, merge geometry and covered-cell invariants of a table.
func (t *Table) Validate() []Issue {
	var issues []Issue
	errf := func(loc Location, format string, args ...any) {
		issues = append(issues, Issue{Severity: SeverityError, Loc: loc, Message: fmt.Sprintf(format, args...)})
	}

	if t.Rows < 0 || t.Cols < 0 {
		errf(Location{}, "negative table size %dx%d", t.Rows, t.Cols)
		return issues
	}
	grids := []struct {
		name  string
		outer int
		inner func(r int) int
	}{
		{"data", len(t.Data), func(r int) int { return len(t.Data[r]) }},
		{"data_detail", len(t.DataDetail), func(r int) int { return len(t.DataDetail[r]) }},
		{"cell_fills", len(t.CellFills), func(r int) int { return len(t.CellFills[r]) }},
		{"cell_borders", len(t.CellBorders), func(r int) int { return len(t.CellBorders[r]) }},
	}
	shapeOK := true
	for _, g := range grids {
		if g.outer != t.Rows {
			errf(Location{}, "%s has %d rows, table has %d", g.name, g.outer, t.Rows)
			shapeOK = false
			continue
		}
		for r := 0; r < g.outer; r++ {
			if n := g.inner(r); n != t.Cols {
				errf(Location{}.Cell(r, 0), "%s row has %d cells, table has %d columns", g.name, n, t.Cols)
				shapeOK = false
			}
		}
	}
	if len(t.ColWidths) != t.Cols {
		errf(Location{}, "col_widths has %d entries, table has %d columns", len(t.ColWidths), t.Cols)
	}
	if len(t.RowHeights) != t.Rows {
		errf(Location{}, "row_heights has %d entries, table has %d rows", len(t.RowHeights), t.Rows)
	}

	for i, m := range t.MergeInfo {
		if m.RowSpan < 1 || m.ColSpan < 1 {
			errf(Location{}.Cell(m.Row, m.Col), "merge region has span %dx%d", m.RowSpan, m.ColSpan)
			continue
		}
		if m.Row < 0 || m.Col < 0 || m.Row+m.RowSpan > t.Rows || m.Col+m.ColSpan > t.Cols {
			errf(Location{}.Cell(m.Row, m.Col), "merge region %dx%d exceeds table bounds", m.RowSpan, m.ColSpan)
		}
		for _, o := range t.MergeInfo[i+1:] {
			if m.Overlaps(o) {
				errf(Location{}.Cell(m.Row, m.Col), "merge region overlaps region at row %d col %d", o.Row, o.Col)
			}
		}
	}

	if !shapeOK {
		return issues
	}
	for r := 0; r < t.Rows; r++ {
		for c := 0; c < t.Cols; c++ {
			covered := t.IsCovered(r, c)
			detail := t.DataDetail[r][c]
			switch {
			case covered && detail != nil:
				errf(Location{}.Cell(r, c), "covered cell has content")
			case !covered && detail == nil:
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Loc:      Location{}.Cell(r, c),
					Message:  "cell has no rich text, plain data is used",
				})
			case detail != nil && detail.PlainText() != t.Data[r][c]:
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Loc:      Location{}.Cell(r, c),
					Message:  fmt.Sprintf("data %q differs from rich text %q", t.Data[r][c], detail.PlainText()),
				})
			}
		}
	}
	return issues
}
