package pptx

import (
	"errors"
	"strings"

	"github.com/roboco-io/pptxinject/internal/ir"
)

func (sc *slideContext) table(xt *xTbl, shape string) (*ir.Table, error) {
	rows, cols := len(xt.Trs), len(xt.TblGrid.GridCols)
	t := &ir.Table{
		Rows:        rows,
		Cols:        cols,
		Data:        make([][]string, rows),
		DataDetail:  make([][]*ir.TextBody, rows),
		CellFills:   make([][]ir.ColorValue, rows),
		MergeInfo:   []ir.MergeRegion{},
		ColWidths:   make([]int64, cols),
		RowHeights:  make([]int64, rows),
		CellBorders: make([][]*ir.CellBorder, rows),
	}
	for c, gc := range xt.TblGrid.GridCols {
		t.ColWidths[c] = gc.W
	}

	for r, tr := range xt.Trs {
		t.RowHeights[r] = tr.H
		t.Data[r] = make([]string, cols)
		t.DataDetail[r] = make([]*ir.TextBody, cols)
		t.CellFills[r] = make([]ir.ColorValue, cols)
		t.CellBorders[r] = make([]*ir.CellBorder, cols)

		for c, tc := range tr.Tcs {
			if c >= cols {
				break
			}
			if tc.HMerge || tc.VMerge {
				continue
			}
			if err := sc.cell(t, r, c, &tc, shape); err != nil {
				return nil, atCell(err, r, c)
			}
		}
	}
	return t, nil
}

func (sc *slideContext) cell(t *ir.Table, r, c int, tc *xTc, shape string) error {
	strict := sc.parser.options.Strict

	body := ir.NewTextBody("")
	if tc.TxBody != nil {
		b, err := sc.textBody(tc.TxBody, shape, strict)
		if err != nil {
			return err
		}
		body = b
	}
	body.Format.Margins = ir.DefaultMargins

	var pr xTcPr
	if tc.TcPr != nil {
		pr = *tc.TcPr
	}
	for _, m := range []struct {
		attr string
		dst  *int64
	}{
		{pr.MarL, &body.Format.Margins.Left},
		{pr.MarR, &body.Format.Margins.Right},
		{pr.MarT, &body.Format.Margins.Top},
		{pr.MarB, &body.Format.Margins.Bottom},
	} {
		if v, ok := parseInt64(m.attr); ok {
			*m.dst = v
		}
	}
	body.Format.Anchor = ir.ParseAnchor(pr.Anchor)
	t.DataDetail[r][c] = body
	t.Data[r][c] = strings.TrimSpace(body.PlainText())

	if strict && pr.NoFill == nil && pr.SolidFill == nil {
		return &ir.ValidationError{Field: "cell_fill", Msg: "cell has no explicit fill", Loc: sc.loc(shape)}
	}
	fill, err := sc.fill(pr.xFill, shape, "cell fill")
	if err != nil {
		return err
	}
	t.CellFills[r][c] = fill

	if tc.GridSpan > 1 || tc.RowSpan > 1 {
		t.MergeInfo = append(t.MergeInfo, ir.MergeRegion{
			Row:     r,
			Col:     c,
			RowSpan: max(tc.RowSpan, 1),
			ColSpan: max(tc.GridSpan, 1),
		})
	}

	border := &ir.CellBorder{}
	for _, side := range []struct {
		ln  *xLine
		dst **ir.BorderStyle
	}{
		{pr.LnL, &border.Left},
		{pr.LnR, &border.Right},
		{pr.LnT, &border.Top},
		{pr.LnB, &border.Bottom},
		{pr.LnTlToBr, &border.DiagonalDown},
		{pr.LnBlToTr, &border.DiagonalUp},
	} {
		if side.ln == nil {
			continue
		}
		b, err := sc.line(side.ln, shape, "cell border")
		if err != nil {
			return err
		}
		*side.dst = b
	}
	t.CellBorders[r][c] = border
	return nil
}

// atCell adds the cell coordinates to a typed reader error.
func atCell(err error, r, c int) error {
	var ve *ir.ValidationError
	if errors.As(err, &ve) && !ve.Loc.HasCell {
		ve.Loc = ve.Loc.Cell(r, c)
	}
	var ue *ir.UnsupportedFeatureError
	if errors.As(err, &ue) && !ue.Loc.HasCell {
		ue.Loc = ue.Loc.Cell(r, c)
	}
	return err
}
