package pptx

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roboco-io/pptxinject/internal/ir"
)

func (w *Writer) writeSlide(zw *zip.Writer, sp *slidePlan) error {
	var shapes strings.Builder
	shapeID := 2 // 1 is the group shape
	for _, sh := range sp.slide.Shapes {
		if sh.Name == ir.SlideInfoShapeName && sp.slide.TagInfo != nil {
			info, err := refreshSlideInfo(sh, sp.slide.TagInfo)
			if err != nil {
				return err
			}
			sh = info
		}
		shapes.WriteString(w.shapeXML(sh, sp, shapeID))
		shapeID++
	}
	if sp.info != nil {
		shapes.WriteString(w.shapeXML(sp.info, sp, shapeID))
	}

	content := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">
  <p:cSld>
    <p:spTree>
      <p:nvGrpSpPr>
        <p:cNvPr id="1" name=""/>
        <p:cNvGrpSpPr/>
        <p:nvPr/>
      </p:nvGrpSpPr>
      <p:grpSpPr>
        <a:xfrm>
          <a:off x="0" y="0"/>
          <a:ext cx="0" cy="0"/>
          <a:chOff x="0" y="0"/>
          <a:chExt cx="0" cy="0"/>
        </a:xfrm>
      </p:grpSpPr>
%s    </p:spTree>
  </p:cSld>
  <p:clrMapOvr>
    <a:masterClrMapping/>
  </p:clrMapOvr>
</p:sld>`, nsDrawingML, nsOfficeDocRels, nsPresentationML, shapes.String())

	return writeRawXMLToZip(zw, sp.part(), content)
}

func (w *Writer) writeSlideRels(zw *zip.Writer, sp *slidePlan) error {
	return writeXMLToZip(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", sp.num), newRels(sp.rels...))
}

// shapeXML picks the element by payload: tables become graphic frames,
// images pictures, everything else a shape.
func (w *Writer) shapeXML(sh *ir.Shape, sp *slidePlan, id int) string {
	switch {
	case sh.Table != nil:
		return w.tableXML(sh, id)
	case sh.Image != nil:
		if rid, ok := sp.images[sh]; ok {
			return pictureXML(sh, id, rid)
		}
		// the image could not be loaded; keep the frame so layout is preserved
		return spXML(sh, id)
	case sh.Type == ir.ShapeTypeOther && sh.Text == nil && sh.Border != nil && sh.Fill.IsNone():
		return connectorXML(sh, id)
	default:
		return spXML(sh, id)
	}
}

func nvPrXML(sh *ir.Shape, id int) string {
	name := sh.Name
	if name == "" {
		name = fmt.Sprintf("Shape %d", id)
	}
	hidden := ""
	if sh.Hidden {
		hidden = ` hidden="1"`
	}
	return fmt.Sprintf(`<p:cNvPr id="%d" name="%s"%s/>`, id, xmlEscape(name), hidden)
}

func xfrmXML(p ir.Position) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, p.X, p.Y, p.Width, p.Height)
}

func spXML(sh *ir.Shape, id int) string {
	nvSp := "<p:cNvSpPr/>"
	if sh.Type == ir.ShapeTypeTextBox {
		nvSp = `<p:cNvSpPr txBox="1"/>`
	}
	text := ""
	if sh.Text != nil {
		text = "\n        " + textBodyXML("p:txBody", sh.Text, true)
	}
	return fmt.Sprintf(`      <p:sp>
        <p:nvSpPr>
          %s
          %s
          <p:nvPr/>
        </p:nvSpPr>
        <p:spPr>
          %s
          <a:prstGeom prst="rect"><a:avLst/></a:prstGeom>%s%s
        </p:spPr>%s
      </p:sp>
`, nvPrXML(sh, id), nvSp, xfrmXML(sh.Position),
		prefixed(shapeFillXML(sh.Fill)), prefixed(outlineXML(sh.Border)), text)
}

func pictureXML(sh *ir.Shape, id int, rid string) string {
	return fmt.Sprintf(`      <p:pic>
        <p:nvPicPr>
          %s
          <p:cNvPicPr>
            <a:picLocks noChangeAspect="1"/>
          </p:cNvPicPr>
          <p:nvPr/>
        </p:nvPicPr>
        <p:blipFill>
          <a:blip r:embed="%s"/>
          <a:stretch>
            <a:fillRect/>
          </a:stretch>
        </p:blipFill>
        <p:spPr>
          %s
          <a:prstGeom prst="rect"><a:avLst/></a:prstGeom>%s
        </p:spPr>
      </p:pic>
`, nvPrXML(sh, id), rid, xfrmXML(sh.Position), prefixed(outlineXML(sh.Border)))
}

func connectorXML(sh *ir.Shape, id int) string {
	return fmt.Sprintf(`      <p:cxnSp>
        <p:nvCxnSpPr>
          %s
          <p:cNvCxnSpPr/>
          <p:nvPr/>
        </p:nvCxnSpPr>
        <p:spPr>
          %s
          <a:prstGeom prst="line"><a:avLst/></a:prstGeom>%s
        </p:spPr>
      </p:cxnSp>
`, nvPrXML(sh, id), xfrmXML(sh.Position), prefixed(outlineXML(sh.Border)))
}

func prefixed(s string) string {
	if s == "" {
		return ""
	}
	return "\n          " + s
}

// slideInfoShape synthesizes a hidden SLIDE_INFO text box for a slide that
// carries tags but has no such shape.
func slideInfoShape(s *ir.Slide) (*ir.Shape, error) {
	if s.TagInfo == nil {
		return nil, nil
	}
	if _, err := s.FindShapeByName(ir.SlideInfoShapeName); err == nil {
		return nil, nil
	}
	payload, err := tagJSON(s.TagInfo)
	if err != nil {
		return nil, err
	}
	return &ir.Shape{
		Name:     ir.SlideInfoShapeName,
		Type:     ir.ShapeTypeTextBox,
		Hidden:   true,
		Position: ir.Position{Width: 914400, Height: 369332},
		Text:     ir.NewTextBody(payload),
	}, nil
}

// refreshSlideInfo returns a copy of the SLIDE_INFO shape whose text is the
// current tag map, keeping the styling of its first run.
func refreshSlideInfo(sh *ir.Shape, tags map[string]string) (*ir.Shape, error) {
	payload, err := tagJSON(tags)
	if err != nil {
		return nil, err
	}
	out := *sh
	out.Table, out.Image = nil, nil
	body, err := ir.CloneTextBody(sh.Text)
	if err != nil {
		return nil, err
	}
	if body == nil || len(body.Paragraphs) == 0 {
		out.Text = ir.NewTextBody(payload)
		return &out, nil
	}
	para := body.Paragraphs[0]
	run := ir.NewRun(payload)
	if len(para.Runs) > 0 {
		run = para.Runs[0].WithText(payload)
	}
	para.Runs = []*ir.Run{run}
	para.Renumber()
	body.Paragraphs = body.Paragraphs[:1]
	out.Text = body
	return &out, nil
}

func tagJSON(tags map[string]string) (string, error) {
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode slide tags: %w", err)
	}
	return string(b), nil
}
