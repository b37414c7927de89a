package pptx

import (
	"math"
	"strconv"
	"strings"

	"github.com/roboco-io/pptxinject/internal/ir"
)

const uriTable = "http://schemas.openxmlformats.org/drawingml/2006/table"

// slideContext carries what shape conversion needs to know about the slide.
type slideContext struct {
	parser *Parser
	slide  *ir.Slide
	part   string
	rels   *relationships
	index  int // 1-based index of the shape being converted
}

func (sc *slideContext) loc(shape string) ir.Location {
	return ir.Location{SlideNumber: sc.slide.SlideNumber, Shape: shape}
}

func (sc *slideContext) shape(item xTreeItem) (*ir.Shape, error) {
	sc.index++
	switch item.Kind {
	case "sp":
		return sc.autoShape(item.Sp)
	case "pic":
		return sc.picture(item.Pic)
	case "graphicFrame":
		return sc.graphicFrame(item.Frame)
	case "cxnSp":
		s := sc.base(item.Cxn.NvCxnSpPr.CNvPr, ir.ShapeTypeOther, item.Cxn.SpPr.Xfrm)
		border, err := sc.outline(item.Cxn.SpPr.Ln, s.Name)
		if err != nil {
			return nil, err
		}
		s.Border = border
		return s, nil
	default:
		name := ""
		if item.Grp != nil {
			name = item.Grp.NvGrpSpPr.CNvPr.Name
		}
		return nil, &ir.UnsupportedFeatureError{Feature: "group shape (ungroup it first)", Loc: sc.loc(name)}
	}
}

func (sc *slideContext) base(nv xCNvPr, typ ir.ShapeType, xfrm *xXfrm) *ir.Shape {
	s := &ir.Shape{Name: nv.Name, Type: typ, Hidden: nv.Hidden}
	if xfrm != nil {
		s.Position = ir.Position{X: xfrm.Off.X, Y: xfrm.Off.Y, Width: xfrm.Ext.Cx, Height: xfrm.Ext.Cy}
	}
	return s
}

// style reads the fill and outline of spPr.
func (sc *slideContext) style(s *ir.Shape, spPr xSpPr) error {
	fill, err := sc.fill(spPr.xFill, s.Name, "fill")
	if err != nil {
		return err
	}
	s.Fill = fill
	border, err := sc.outline(spPr.Ln, s.Name)
	if err != nil {
		return err
	}
	s.Border = border
	return nil
}

func (sc *slideContext) autoShape(sp *xSp) (*ir.Shape, error) {
	typ := ir.ShapeTypeAutoShape
	switch {
	case sp.NvSpPr.NvPr.Ph != nil:
		typ = ir.ShapeTypePlaceholder
	case sp.NvSpPr.CNvSpPr.TxBox:
		typ = ir.ShapeTypeTextBox
	}
	s := sc.base(sp.NvSpPr.CNvPr, typ, sp.SpPr.Xfrm)
	if err := sc.style(s, sp.SpPr); err != nil {
		return nil, err
	}
	if sp.TxBody != nil {
		// SLIDE_INFO holds JSON, not styled text
		strict := sc.parser.options.Strict && s.Name != ir.SlideInfoShapeName
		body, err := sc.textBody(sp.TxBody, s.Name, strict)
		if err != nil {
			return nil, err
		}
		s.Text = body
	}
	return s, nil
}

func (sc *slideContext) graphicFrame(f *xGraphicFrame) (*ir.Shape, error) {
	xfrm := f.Xfrm
	tbl := f.Graphic.GraphicData.Tbl
	if tbl == nil || (f.Graphic.GraphicData.URI != "" && f.Graphic.GraphicData.URI != uriTable) {
		return sc.base(f.NvGraphicFramePr.CNvPr, ir.ShapeTypeOther, &xfrm), nil
	}
	s := sc.base(f.NvGraphicFramePr.CNvPr, ir.ShapeTypeTable, &xfrm)
	t, err := sc.table(tbl, s.Name)
	if err != nil {
		return nil, err
	}
	s.Table = t
	return s, nil
}

// fill converts a fill choice. No fill element and noFill are None; fills
// other than solid are kept as Unknown so they round-trip as "inherit".
func (sc *slideContext) fill(f xFill, shape, what string) (ir.ColorValue, error) {
	switch {
	case f.SolidFill != nil:
		return sc.color(f.SolidFill, shape, what)
	case f.GradFill != nil:
		return ir.ParseColor("Gradient"), nil
	case f.BlipFill != nil:
		return ir.ParseColor("Picture"), nil
	case f.PattFill != nil:
		return ir.ParseColor("Pattern"), nil
	case f.GrpFill != nil:
		return ir.ParseColor("Group"), nil
	default:
		return ir.ColorValue{}, nil
	}
}

// color converts a DrawingML color choice.
func (sc *slideContext) color(c *xColor, shape, what string) (ir.ColorValue, error) {
	switch {
	case c.SrgbClr != nil:
		return ir.ParseColor("RGB:" + c.SrgbClr.Val), nil
	case c.SysClr != nil:
		if c.SysClr.LastClr != "" {
			return ir.ParseColor("RGB:" + c.SysClr.LastClr), nil
		}
		return ir.ParseColor("System:" + c.SysClr.Val), nil
	case c.SchemeClr != nil:
		if !sc.parser.options.AllowThemeColors {
			return ir.ColorValue{}, &ir.UnsupportedFeatureError{
				Feature: what + " uses theme color " + c.SchemeClr.Val + " without an explicit RGB value",
				Loc:     sc.loc(shape),
			}
		}
		if v, ok := ir.ThemeFromScheme(c.SchemeClr.Val); ok {
			return v, nil
		}
		return ir.ParseColor("Scheme:" + c.SchemeClr.Val), nil
	case c.PrstClr != nil:
		return ir.ParseColor("Preset:" + c.PrstClr.Val), nil
	default:
		return ir.ColorValue{}, nil
	}
}

// outline converts a line to a border. A missing or noFill line is nil.
func (sc *slideContext) outline(ln *xLine, shape string) (*ir.BorderStyle, error) {
	if ln == nil || ln.NoFill != nil || (ln.SolidFill == nil && ln.W == "") {
		return nil, nil
	}
	return sc.line(ln, shape, "outline")
}

func (sc *slideContext) line(ln *xLine, shape, what string) (*ir.BorderStyle, error) {
	b := &ir.BorderStyle{Width: ir.DefaultWidth}
	if ln.SolidFill != nil {
		c, err := sc.color(ln.SolidFill, shape, what)
		if err != nil {
			return nil, err
		}
		b.Color = c
	}
	if w, err := strconv.ParseInt(ln.W, 10, 64); err == nil {
		b.Width = ir.Pt(emuToPt(w))
	}
	if ln.PrstDash != nil {
		b.Dash = ln.PrstDash.Val
	}
	return b, nil
}

// emuToPt converts EMU to points rounded to two decimals.
func emuToPt(emu int64) float64 {
	return math.Round(float64(emu)*100/12700) / 100
}

func parseInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	return n, err == nil
}

func parseInt64(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil
}
