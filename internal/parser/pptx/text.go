package pptx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roboco-io/pptxinject/internal/ir"
)

func (sc *slideContext) textBody(tx *xTxBody, shape string, strict bool) (*ir.TextBody, error) {
	body := &ir.TextBody{Format: frameFormat(tx)}
	for i := range tx.Ps {
		p, err := sc.paragraph(&tx.Ps[i], shape, i+1, strict)
		if err != nil {
			return nil, err
		}
		body.Paragraphs = append(body.Paragraphs, p)
	}
	return body, nil
}

func frameFormat(tx *xTxBody) ir.TextFrameFormat {
	bp := tx.BodyPr
	f := ir.TextFrameFormat{Anchor: ir.ParseAnchor(bp.Anchor), Margins: ir.DefaultMargins}
	switch bp.Wrap {
	case "square":
		f.Wrap = ir.Bool(true)
	case "none":
		f.Wrap = ir.Bool(false)
	}
	if bp.NormAutofit != nil || bp.SpAutoFit != nil {
		f.AutoFit = ir.Bool(true)
	}
	for _, m := range []struct {
		attr string
		dst  *int64
	}{
		{bp.LIns, &f.Margins.Left},
		{bp.RIns, &f.Margins.Right},
		{bp.TIns, &f.Margins.Top},
		{bp.BIns, &f.Margins.Bottom},
	} {
		if v, ok := parseInt64(m.attr); ok {
			*m.dst = v
		}
	}
	return f
}

func (sc *slideContext) paragraph(xp *xP, shape string, index int, strict bool) (*ir.Paragraph, error) {
	where := fmt.Sprintf("paragraph %d", index)
	p := &ir.Paragraph{Index: index}

	if pPr := xp.PPr; pPr != nil {
		p.Alignment = ir.ParseAlignment(pPr.Algn)
		if lvl, ok := parseInt(pPr.Lvl); ok {
			p.Level = lvl
		}
		if v, ok := parseInt64(pPr.MarL); ok {
			p.LeftIndent = ir.Float(emuToPt(v))
		}
		if v, ok := parseInt64(pPr.Indent); ok {
			p.FirstLineIndent = ir.Float(emuToPt(v))
		}
		if pPr.LnSpc != nil && pPr.LnSpc.SpcPct != nil {
			if v, ok := parseInt64(pPr.LnSpc.SpcPct.Val); ok {
				p.LineSpacing = ir.Float(float64(v) / 100000)
			}
		}
		switch {
		case pPr.BuChar != nil:
			p.Bullet = ir.NewCharBullet(pPr.BuChar.Char)
		case pPr.BuAutoNum != nil:
			p.Bullet = ir.NewNumberBullet(pPr.BuAutoNum.Type)
			if n, ok := parseInt(pPr.BuAutoNum.StartAt); ok {
				p.Bullet.StartAt = n
			}
		}
		if pPr.DefRPr != nil {
			f, err := sc.font(pPr.DefRPr, shape, where)
			if err != nil {
				return nil, err
			}
			p.Font = f
		}
	}

	for _, xr := range xp.Content {
		if xr.Break {
			if n := len(p.Runs); n > 0 {
				p.Runs[n-1].Text += "\n"
				continue
			}
			xr.T = "\n"
		}
		runWhere := fmt.Sprintf("%s run %d", where, len(p.Runs)+1)
		r := ir.NewRun(xr.T)
		if xr.RPr != nil {
			f, err := sc.font(xr.RPr, shape, runWhere)
			if err != nil {
				return nil, err
			}
			r.Font = f
		}
		if strict && !xr.Break {
			if r.Size == nil {
				return nil, sc.missing("font_size", runWhere+" has no explicit font size", shape)
			}
			if r.Name == "" {
				return nil, sc.missing("font_name", runWhere+" has no explicit font name", shape)
			}
		}
		p.AddRun(r)
	}

	// incomplete paragraph defaults fall back to the first run, then to endParaRPr
	if incomplete(p.Font) {
		var fallback *ir.Font
		if len(p.Runs) > 0 {
			fallback = &p.Runs[0].Font
		} else if xp.EndParaRPr != nil {
			f, err := sc.font(xp.EndParaRPr, shape, where)
			if err != nil {
				return nil, err
			}
			fallback = &f
		}
		if fallback != nil {
			fillFont(&p.Font, fallback.Copy())
		}
	}
	if strict && p.Size == nil {
		return nil, sc.missing("font_size", where+" has no determinable font size", shape)
	}

	p.Text = strings.TrimSpace(p.PlainText())
	return p, nil
}

func (sc *slideContext) missing(field, msg, shape string) error {
	return &ir.ValidationError{Field: field, Msg: msg, Loc: sc.loc(shape), Err: ir.ErrMissingTemplate}
}

func incomplete(f ir.Font) bool {
	return f.Name == "" || f.Size == nil || f.Bold == nil || f.Italic == nil || f.Color.IsNone()
}

// fillFont sets the unset attributes of dst from src.
func fillFont(dst *ir.Font, src ir.Font) {
	if dst.Name == "" {
		dst.Name = src.Name
	}
	if dst.Size == nil {
		dst.Size = src.Size
	}
	if dst.Bold == nil {
		dst.Bold = src.Bold
	}
	if dst.Italic == nil {
		dst.Italic = src.Italic
	}
	if dst.Color.IsNone() {
		dst.Color = src.Color
	}
}

func (sc *slideContext) font(rPr *xRPr, shape, where string) (ir.Font, error) {
	var f ir.Font
	if v, ok := parseInt64(rPr.Sz); ok {
		f.Size = ir.Float(float64(v) / 100)
	}
	f.Bold = parseBool(rPr.B)
	f.Italic = parseBool(rPr.I)
	switch {
	case rPr.Latin != nil && rPr.Latin.Typeface != "":
		f.Name = rPr.Latin.Typeface
	case rPr.Ea != nil && rPr.Ea.Typeface != "":
		f.Name = rPr.Ea.Typeface
	}
	if rPr.SolidFill != nil {
		c, err := sc.color(rPr.SolidFill, shape, where+" font color")
		if err != nil {
			return f, err
		}
		f.Color = c
	}
	return f, nil
}

func parseBool(s string) *bool {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return ir.Bool(v)
}
