package ir

import (
	"fmt"
	"slices"
)

// NoTemplate selects "no template row" in BuildDataDetailRow.
const NoTemplate = -1

// Table represents a table shape payload. Every grid-shaped field has Rows
// outer entries of Cols elements each.
type Table struct {
	Rows        int             `json:"rows"`
	Cols        int             `json:"cols"`
	Data        [][]string      `json:"data"`
	DataDetail  [][]*TextBody   `json:"data_detail"` // nil marks a cell covered by a merge
	CellFills   [][]ColorValue  `json:"cell_fills"`
	MergeInfo   []MergeRegion   `json:"merge_info"`
	ColWidths   []int64         `json:"col_widths"`
	RowHeights  []int64         `json:"row_heights"`
	CellBorders [][]*CellBorder `json:"cell_borders"`
}

// MergeRegion is a rectangular merged range described by its origin cell.
type MergeRegion struct {
	Row     int `json:"row"`
	Col     int `json:"col"`
	RowSpan int `json:"row_span"`
	ColSpan int `json:"col_span"`
}

// Contains reports whether (row, col) lies inside the region.
func (m MergeRegion) Contains(row, col int) bool {
	return row >= m.Row && row < m.Row+m.RowSpan && col >= m.Col && col < m.Col+m.ColSpan
}

// Overlaps reports whether two regions share a cell.
func (m MergeRegion) Overlaps(o MergeRegion) bool {
	return m.Row < o.Row+o.RowSpan && o.Row < m.Row+m.RowSpan &&
		m.Col < o.Col+o.ColSpan && o.Col < m.Col+m.ColSpan
}

// TableRow is one row's worth of table data, ready for InsertRow.
type TableRow struct {
	Content []string
	Detail  []*TextBody
	Fills   []ColorValue
	Borders []*CellBorder
	Height  int64
	Merges  []MergeRegion
}

// NewTable creates a table with plain, empty cells.
func NewTable(rows, cols int) *Table {
	t := &Table{
		Rows:        rows,
		Cols:        cols,
		Data:        make([][]string, rows),
		DataDetail:  make([][]*TextBody, rows),
		CellFills:   make([][]ColorValue, rows),
		MergeInfo:   make([]MergeRegion, 0),
		ColWidths:   make([]int64, cols),
		RowHeights:  make([]int64, rows),
		CellBorders: make([][]*CellBorder, rows),
	}
	for r := 0; r < rows; r++ {
		t.Data[r] = make([]string, cols)
		t.DataDetail[r] = make([]*TextBody, cols)
		t.CellFills[r] = make([]ColorValue, cols)
		t.CellBorders[r] = make([]*CellBorder, cols)
		for c := 0; c < cols; c++ {
			t.DataDetail[r][c] = NewTextBody("")
		}
	}
	return t
}

// InsertRow inserts row at index. Existing merge regions whose origin row is at
// or below index move down by one; row.Merges are appended unshifted.
// Nothing is modified when validation fails.
func (t *Table) InsertRow(index int, row TableRow) error {
	if len(row.Content) != t.Cols {
		return lengthMismatch("content", len(row.Content), t.Cols)
	}
	if len(row.Detail) != t.Cols {
		return lengthMismatch("data_detail", len(row.Detail), t.Cols)
	}
	if len(row.Fills) != t.Cols {
		return lengthMismatch("cell_fill", len(row.Fills), t.Cols)
	}
	if len(row.Borders) != t.Cols {
		return lengthMismatch("cell_border", len(row.Borders), t.Cols)
	}
	if index < 0 || index > t.Rows {
		return indexOutOfRange("row index", index, 0, t.Rows)
	}

	t.Data = slices.Insert(t.Data, index, slices.Clone(row.Content))
	t.DataDetail = slices.Insert(t.DataDetail, index, slices.Clone(row.Detail))
	t.CellFills = slices.Insert(t.CellFills, index, slices.Clone(row.Fills))
	t.CellBorders = slices.Insert(t.CellBorders, index, slices.Clone(row.Borders))
	t.RowHeights = slices.Insert(t.RowHeights, index, row.Height)

	for i := range t.MergeInfo {
		if t.MergeInfo[i].Row >= index {
			t.MergeInfo[i].Row++
		}
	}
	t.MergeInfo = append(t.MergeInfo, row.Merges...)

	t.Rows++
	return nil
}

// DeleteRow removes the row at index. A merge region whose origin is the
// deleted row is dropped entirely; regions below move up by one.
func (t *Table) DeleteRow(index int) error {
	if index < 0 || index >= t.Rows {
		return indexOutOfRange("row index", index, 0, t.Rows-1)
	}

	t.Data = slices.Delete(t.Data, index, index+1)
	t.DataDetail = slices.Delete(t.DataDetail, index, index+1)
	t.CellFills = slices.Delete(t.CellFills, index, index+1)
	t.CellBorders = slices.Delete(t.CellBorders, index, index+1)
	t.RowHeights = slices.Delete(t.RowHeights, index, index+1)

	merges := make([]MergeRegion, 0, len(t.MergeInfo))
	for _, m := range t.MergeInfo {
		switch {
		case m.Row < index:
			merges = append(merges, m)
		case m.Row > index:
			m.Row--
			merges = append(merges, m)
		}
	}
	t.MergeInfo = merges

	t.Rows--
	return nil
}

// BuildMergeInfoRow copies the merge regions whose origin row is template and
// relocates the copies to actual. The table is not modified.
func (t *Table) BuildMergeInfoRow(actual, template int) []MergeRegion {
	out := make([]MergeRegion, 0)
	for _, m := range t.MergeInfo {
		if m.Row == template {
			m.Row = actual
			out = append(out, m)
		}
	}
	return out
}

// BuildDataDetailRow builds the rich-text cells for a new row. With a template
// row, each cell is a deep copy of the template cell reduced to its first
// paragraph and first run, carrying the new text. A covered (nil) template cell
// stays nil. With NoTemplate every cell is nil.
func (t *Table) BuildDataDetailRow(content []string, template int) ([]*TextBody, error) {
	if len(content) != t.Cols {
		return nil, lengthMismatch("content", len(content), t.Cols)
	}
	row := make([]*TextBody, t.Cols)
	if template == NoTemplate {
		return row, nil
	}
	if template < 0 || template >= t.Rows {
		return nil, indexOutOfRange("template_row_index", template, 0, t.Rows-1)
	}

	for col, text := range content {
		src := t.DataDetail[template][col]
		if src == nil {
			continue
		}
		if len(src.Paragraphs) == 0 {
			return nil, &ValidationError{
				Field: "data_detail",
				Msg:   "template cell has no paragraphs",
				Loc:   Location{}.Cell(template, col),
				Err:   ErrMissingTemplate,
			}
		}
		if len(src.Paragraphs[0].Runs) == 0 {
			return nil, &ValidationError{
				Field: "data_detail",
				Msg:   "template paragraph has no runs",
				Loc:   Location{}.Cell(template, col),
				Err:   ErrMissingTemplate,
			}
		}
		detail, err := CloneTextBody(src)
		if err != nil {
			return nil, err
		}
		first := detail.Paragraphs[0]
		run := first.Runs[0]
		run.Text = text
		first.Runs = []*Run{run}
		first.Renumber()
		detail.Paragraphs = []*Paragraph{first}
		row[col] = detail
	}
	return row, nil
}

// TemplateRow assembles a new row carrying content and styled like the row at
// template, with its merge regions placed at actual.
func (t *Table) TemplateRow(content []string, template, actual int) (TableRow, error) {
	if template < 0 || template >= t.Rows {
		return TableRow{}, indexOutOfRange("template_row_index", template, 0, t.Rows-1)
	}
	detail, err := t.BuildDataDetailRow(content, template)
	if err != nil {
		return TableRow{}, err
	}
	borders, err := Clone(t.CellBorders[template])
	if err != nil {
		return TableRow{}, err
	}
	// covered cells hold no text
	content = slices.Clone(content)
	for col, d := range detail {
		if d == nil && t.IsCovered(template, col) {
			content[col] = ""
		}
	}
	return TableRow{
		Content: content,
		Detail:  detail,
		Fills:   slices.Clone(t.CellFills[template]),
		Borders: borders,
		Height:  t.RowHeights[template],
		Merges:  t.BuildMergeInfoRow(actual, template),
	}, nil
}

// InsertTemplateRows inserts rows at index, each styled like the template row.
// All rows are built from the unmodified table before the first insertion, so a
// failure leaves the table untouched. When deleteTemplate is set the template
// row is removed afterwards, at its index shifted by the insertion.
func (t *Table) InsertTemplateRows(index int, rows [][]string, template int, deleteTemplate bool) error {
	if index < 0 || index > t.Rows {
		return indexOutOfRange("insert_index", index, 0, t.Rows)
	}
	if template < 0 || template >= t.Rows {
		return indexOutOfRange("template_row_index", template, 0, t.Rows-1)
	}
	built := make([]TableRow, 0, len(rows))
	for i, content := range rows {
		if len(content) != t.Cols {
			return lengthMismatch(fmt.Sprintf("rows[%d]", i), len(content), t.Cols)
		}
		row, err := t.TemplateRow(content, template, index+i)
		if err != nil {
			return err
		}
		built = append(built, row)
	}
	for i, row := range built {
		if err := t.InsertRow(index+i, row); err != nil {
			return err
		}
	}
	if deleteTemplate {
		return t.DeleteRow(ShiftedTemplateIndex(template, index, len(rows)))
	}
	return nil
}

// ShiftedTemplateIndex returns where the template row ends up after inserting
// n rows at index.
func ShiftedTemplateIndex(template, index, n int) int {
	if template >= index {
		return template + n
	}
	return template
}

// IsCovered reports whether (row, col) lies inside a merge region without being its origin.
func (t *Table) IsCovered(row, col int) bool {
	for _, m := range t.MergeInfo {
		if m.Contains(row, col) && (m.Row != row || m.Col != col) {
			return true
		}
	}
	return false
}

// MergeAt returns the merge region whose origin is (row, col).
func (t *Table) MergeAt(row, col int) (MergeRegion, bool) {
	for _, m := range t.MergeInfo {
		if m.Row == row && m.Col == col {
			return m, true
		}
	}
	return MergeRegion{}, false
}

// CellText returns the plain text snapshot of a cell.
func (t *Table) CellText(row, col int) string {
	if row < 0 || row >= len(t.Data) || col < 0 || col >= len(t.Data[row]) {
		return ""
	}
	return t.Data[row][col]
}

// SetCellText replaces the text of a cell. The cell's rich text collapses to a
// single paragraph with a single run styled like the first existing run, or
// like the paragraph default font when the cell has no runs.
func (t *Table) SetCellText(row, col int, text string) error {
	if row < 0 || row >= t.Rows {
		return indexOutOfRange("row index", row, 0, t.Rows-1)
	}
	if col < 0 || col >= t.Cols {
		return indexOutOfRange("column index", col, 0, t.Cols-1)
	}
	if t.IsCovered(row, col) {
		return &ValidationError{
			Field: "data_detail",
			Msg:   "cell is covered by a merge",
			Loc:   Location{}.Cell(row, col),
		}
	}

	tb := t.DataDetail[row][col]
	if tb == nil {
		tb = &TextBody{Format: TextFrameFormat{Margins: DefaultMargins}}
	}

	var para *Paragraph
	if len(tb.Paragraphs) > 0 {
		p, err := CloneParagraph(tb.Paragraphs[0])
		if err != nil {
			return err
		}
		para = p
	} else {
		para = &Paragraph{}
	}

	var run *Run
	for _, p := range tb.Paragraphs {
		if len(p.Runs) > 0 {
			run = p.Runs[0].WithText(text)
			break
		}
	}
	if run == nil {
		run = &Run{Text: text, Font: para.Font.Copy()}
	}

	para.Runs = []*Run{run}
	para.Index = 1
	para.Renumber()
	tb.Paragraphs = []*Paragraph{para}

	t.DataDetail[row][col] = tb
	t.Data[row][col] = text
	return nil
}

// SyncData refreshes the plain text snapshot from the rich text of every cell.
func (t *Table) SyncData() {
	for r := 0; r < t.Rows && r < len(t.DataDetail); r++ {
		for c := 0; c < t.Cols && c < len(t.DataDetail[r]); c++ {
			if tb := t.DataDetail[r][c]; tb != nil {
				t.Data[r][c] = tb.PlainText()
			}
		}
	}
}

func (t *Table) String() string {
	return fmt.Sprintf("table %dx%d (%d merges)", t.Rows, t.Cols, len(t.MergeInfo))
}
