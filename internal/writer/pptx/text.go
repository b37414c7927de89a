package pptx

import (
	"fmt"
	"math"
	"strings"

	"github.com/roboco-io/pptxinject/internal/ir"
)

// textBodyXML renders a text body as p:txBody (shapes) or a:txBody (cells).
// Cell margins and anchor live on tcPr, so bodyPr stays empty for cells.
func textBodyXML(tag string, tb *ir.TextBody, shape bool) string {
	var sb strings.Builder
	sb.WriteString("<" + tag + ">")
	if shape {
		sb.WriteString(bodyPrXML(tb.Format))
	} else {
		sb.WriteString("<a:bodyPr/>")
	}
	sb.WriteString("<a:lstStyle/>")
	if len(tb.Paragraphs) == 0 {
		sb.WriteString("<a:p/>")
	}
	for _, p := range tb.Paragraphs {
		sb.WriteString(paragraphXML(p))
	}
	sb.WriteString("</" + tag + ">")
	return sb.String()
}

func bodyPrXML(f ir.TextFrameFormat) string {
	var attrs strings.Builder
	if f.Wrap != nil {
		if *f.Wrap {
			attrs.WriteString(` wrap="square"`)
		} else {
			attrs.WriteString(` wrap="none"`)
		}
	}
	fmt.Fprintf(&attrs, ` lIns="%d" tIns="%d" rIns="%d" bIns="%d"`,
		f.Margins.Left, f.Margins.Top, f.Margins.Right, f.Margins.Bottom)
	if v := f.Anchor.XMLValue(); v != "" {
		fmt.Fprintf(&attrs, ` anchor="%s"`, v)
	}
	if f.AutoFit != nil && *f.AutoFit {
		return "<a:bodyPr" + attrs.String() + "><a:normAutofit/></a:bodyPr>"
	}
	return "<a:bodyPr" + attrs.String() + "/>"
}

func paragraphXML(p *ir.Paragraph) string {
	var attrs, children strings.Builder
	if v := p.Alignment.XMLValue(); v != "" {
		fmt.Fprintf(&attrs, ` algn="%s"`, v)
	}
	if p.Level > 0 {
		fmt.Fprintf(&attrs, ` lvl="%d"`, p.Level)
	}
	if p.LeftIndent != nil {
		fmt.Fprintf(&attrs, ` marL="%d"`, ptToEMU(*p.LeftIndent))
	}
	if p.FirstLineIndent != nil {
		fmt.Fprintf(&attrs, ` indent="%d"`, ptToEMU(*p.FirstLineIndent))
	}
	if p.LineSpacing != nil {
		fmt.Fprintf(&children, `<a:lnSpc><a:spcPct val="%d"/></a:lnSpc>`, int64(math.Round(*p.LineSpacing*100000)))
	}
	children.WriteString(bulletXML(p.Bullet))
	if !p.Font.IsZero() {
		children.WriteString(rPrXML("a:defRPr", p.Font))
	}

	var sb strings.Builder
	sb.WriteString("<a:p>")
	if attrs.Len() > 0 || children.Len() > 0 {
		if children.Len() > 0 {
			sb.WriteString("<a:pPr" + attrs.String() + ">" + children.String() + "</a:pPr>")
		} else {
			sb.WriteString("<a:pPr" + attrs.String() + "/>")
		}
	}
	for _, r := range p.Runs {
		if r != nil {
			sb.WriteString(runXML(r))
		}
	}
	if !p.Font.IsZero() {
		sb.WriteString(rPrXML("a:endParaRPr", p.Font))
	}
	sb.WriteString("</a:p>")
	return sb.String()
}

func bulletXML(b *ir.Bullet) string {
	if b == nil {
		return ""
	}
	switch b.Kind {
	case ir.BulletChar:
		return fmt.Sprintf(`<a:buChar char="%s"/>`, xmlEscape(b.Char))
	case ir.BulletNumber:
		start := ""
		if b.StartAt > 1 {
			start = fmt.Sprintf(` startAt="%d"`, b.StartAt)
		}
		return fmt.Sprintf(`<a:buAutoNum type="%s"%s/>`, xmlEscape(b.NumberType), start)
	default:
		return ""
	}
}

// runXML renders a run. A newline inside the text becomes a:br, so one IR
// run may produce several a:r elements.
func runXML(r *ir.Run) string {
	rPr := rPrXML("a:rPr", r.Font)
	parts := strings.Split(r.Text, "\n")
	var sb strings.Builder
	for i, part := range parts {
		if i > 0 {
			sb.WriteString("<a:br>" + rPrXML("a:rPr", r.Font) + "</a:br>")
		}
		if part == "" && i > 0 {
			continue
		}
		sb.WriteString("<a:r>" + rPr + "<a:t>" + xmlEscape(part) + "</a:t></a:r>")
	}
	return sb.String()
}

func rPrXML(tag string, f ir.Font) string {
	attrs := ` lang="ko-KR"`
	if f.Size != nil {
		attrs += fmt.Sprintf(` sz="%d"`, int64(math.Round(*f.Size*100)))
	}
	if f.Bold != nil {
		attrs += ` b="` + boolAttr(*f.Bold) + `"`
	}
	if f.Italic != nil {
		attrs += ` i="` + boolAttr(*f.Italic) + `"`
	}
	attrs += ` dirty="0"`

	children := colorFillXML(f.Color)
	if f.Name != "" {
		name := xmlEscape(f.Name)
		children += `<a:latin typeface="` + name + `"/><a:ea typeface="` + name + `"/>`
	}
	if children == "" {
		return "<" + tag + attrs + "/>"
	}
	return "<" + tag + attrs + ">" + children + "</" + tag + ">"
}

func boolAttr(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

// colorXML renders a colour choice; None and Unknown produce nothing.
func colorXML(c ir.ColorValue) string {
	switch c.Kind {
	case ir.ColorRGB:
		return `<a:srgbClr val="` + c.Hex() + `"/>`
	case ir.ColorTheme:
		return `<a:schemeClr val="` + c.SchemeName() + `"/>`
	default:
		return ""
	}
}

// colorFillXML is a solidFill, or nothing when the colour does not apply.
func colorFillXML(c ir.ColorValue) string {
	if clr := colorXML(c); clr != "" {
		return "<a:solidFill>" + clr + "</a:solidFill>"
	}
	return ""
}

// shapeFillXML writes None as noFill; Unknown is left to the defaults.
func shapeFillXML(c ir.ColorValue) string {
	if c.IsNone() {
		return "<a:noFill/>"
	}
	return colorFillXML(c)
}

func outlineXML(b *ir.BorderStyle) string {
	if b == nil {
		return ""
	}
	return lineXML("a:ln", b, false)
}

// lineXML renders a line. Cell sides carry the full attribute set PowerPoint
// writes for table borders.
func lineXML(tag string, b *ir.BorderStyle, cell bool) string {
	attrs := ""
	if !b.Width.IsDefault {
		attrs += fmt.Sprintf(` w="%d"`, b.Width.EMU())
	}
	if cell {
		attrs += ` cap="flat" cmpd="sng" algn="ctr"`
	}
	fill := shapeFillXML(b.Color)
	if b.Color.Kind == ir.ColorUnknown {
		fill = ""
	}
	dash := ""
	if b.Dash != "" {
		dash = `<a:prstDash val="` + xmlEscape(b.Dash) + `"/>`
	}
	if cell {
		dash += `<a:round/><a:headEnd type="none" w="med" len="med"/><a:tailEnd type="none" w="med" len="med"/>`
	}
	return "<" + tag + attrs + ">" + fill + dash + "</" + tag + ">"
}

// ptToEMU converts points to EMU.
func ptToEMU(pt float64) int64 {
	return int64(math.Round(pt * 12700))
}
