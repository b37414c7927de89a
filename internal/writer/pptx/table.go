package pptx

import (
	"fmt"
	"strings"

	"github.com/roboco-io/pptxinject/internal/ir"
)

func (w *Writer) tableXML(sh *ir.Shape, id int) string {
	t := sh.Table

	var grid strings.Builder
	for _, cw := range t.ColWidths {
		fmt.Fprintf(&grid, `<a:gridCol w="%d"/>`, cw)
	}

	var rows strings.Builder
	for r := 0; r < t.Rows; r++ {
		fmt.Fprintf(&rows, "\n              <a:tr h=\"%d\">", t.RowHeights[r])
		for c := 0; c < t.Cols; c++ {
			rows.WriteString(cellXML(t, r, c))
		}
		rows.WriteString("</a:tr>")
	}

	return fmt.Sprintf(`      <p:graphicFrame>
        <p:nvGraphicFramePr>
          %s
          <p:cNvGraphicFramePr>
            <a:graphicFrameLocks noGrp="1"/>
          </p:cNvGraphicFramePr>
          <p:nvPr/>
        </p:nvGraphicFramePr>
        <p:xfrm>
          <a:off x="%d" y="%d"/>
          <a:ext cx="%d" cy="%d"/>
        </p:xfrm>
        <a:graphic>
          <a:graphicData uri="%s">
            <a:tbl>
              <a:tblPr/>
              <a:tblGrid>%s</a:tblGrid>%s
            </a:tbl>
          </a:graphicData>
        </a:graphic>
      </p:graphicFrame>
`, nvPrXML(sh, id),
		sh.Position.X, sh.Position.Y, sh.Position.Width, sh.Position.Height,
		nsTable, grid.String(), rows.String())
}

// cellXML renders one grid cell. Origins of merges carry the spans; covered
// cells carry hMerge (right of the origin column) and vMerge (below the
// origin row).
func cellXML(t *ir.Table, r, c int) string {
	var attrs string
	for _, m := range t.MergeInfo {
		if !m.Contains(r, c) {
			continue
		}
		if m.Row == r && m.Col == c {
			if m.ColSpan > 1 {
				attrs += fmt.Sprintf(` gridSpan="%d"`, m.ColSpan)
			}
			if m.RowSpan > 1 {
				attrs += fmt.Sprintf(` rowSpan="%d"`, m.RowSpan)
			}
			break
		}
		if c > m.Col {
			attrs += ` hMerge="1"`
		}
		if r > m.Row {
			attrs += ` vMerge="1"`
		}
		return `<a:tc` + attrs + `><a:txBody><a:bodyPr/><a:lstStyle/><a:p/></a:txBody><a:tcPr/></a:tc>`
	}

	body := t.DataDetail[r][c]
	if body == nil {
		body = ir.NewTextBody(t.Data[r][c])
	}
	return `<a:tc` + attrs + `>` + textBodyXML("a:txBody", body, false) + tcPrXML(body.Format, t.CellFills[r][c], t.CellBorders[r][c]) + `</a:tc>`
}

// sideTags maps CellBorder sides to tcPr line elements. Sides() yields them
// in schema order.
var sideTags = map[string]string{
	"left":          "a:lnL",
	"right":         "a:lnR",
	"top":           "a:lnT",
	"bottom":        "a:lnB",
	"diagonal_down": "a:lnTlToBr",
	"diagonal_up":   "a:lnBlToTr",
}

func tcPrXML(f ir.TextFrameFormat, fill ir.ColorValue, border *ir.CellBorder) string {
	attrs := fmt.Sprintf(` marL="%d" marR="%d" marT="%d" marB="%d"`,
		f.Margins.Left, f.Margins.Right, f.Margins.Top, f.Margins.Bottom)
	if v := f.Anchor.XMLValue(); v != "" {
		attrs += fmt.Sprintf(` anchor="%s"`, v)
	}

	var children strings.Builder
	for _, side := range border.Sides() {
		if side.Style != nil {
			children.WriteString(lineXML(sideTags[side.Name], side.Style, true))
		}
	}
	children.WriteString(shapeFillXML(fill))
	return "<a:tcPr" + attrs + ">" + children.String() + "</a:tcPr>"
}
