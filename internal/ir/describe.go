package ir

import (
	"fmt"
	"io"
	"strings"
)

// DescribeOptions controls Describe output.
type DescribeOptions struct {
	// MaxDepth limits nesting: 1 slides, 2 shapes, 3 paragraphs/rows, 4 runs.
	// Zero means unlimited.
	MaxDepth int
}

type describer struct {
	w       io.Writer
	opts    DescribeOptions
	visited map[any]bool
	err     error
}

// Describe writes a human-readable tree of the document. Shared nodes are
// printed once and later references are marked.
func Describe(w io.Writer, doc *Presentation, opts DescribeOptions) error {
	d := &describer{w: w, opts: opts, visited: make(map[any]bool)}
	d.printf(0, "Presentation %dx%d EMU, %d slides", doc.SlideWidth, doc.SlideHeight, len(doc.Slides))
	if d.allowed(1) {
		for _, s := range doc.Slides {
			d.slide(s)
		}
	}
	return d.err
}

func (d *describer) allowed(depth int) bool {
	return d.opts.MaxDepth == 0 || depth <= d.opts.MaxDepth
}

func (d *describer) printf(depth int, format string, args ...any) {
	if d.err != nil {
		return
	}
	_, d.err = fmt.Fprintf(d.w, "%s%s\n", strings.Repeat("  ", depth), fmt.Sprintf(format, args...))
}

func (d *describer) seen(p any) bool {
	if d.visited[p] {
		return true
	}
	d.visited[p] = true
	return false
}

func (d *describer) slide(s *Slide) {
	if d.seen(s) {
		d.printf(1, "Slide %d (already shown)", s.SlideNumber)
		return
	}
	tag := ""
	if id := s.InjectID(); id != "" {
		tag = " inject_id=" + id
	}
	d.printf(1, "Slide %d id=%s%s, %d shapes", s.SlideNumber, s.SlideID, tag, len(s.Shapes))
	if !d.allowed(2) {
		return
	}
	for _, sh := range s.Shapes {
		d.shape(sh)
	}
}

func (d *describer) shape(sh *Shape) {
	if d.seen(sh) {
		d.printf(2, "#%d %q (already shown)", sh.Index, sh.Name)
		return
	}
	hidden := ""
	if sh.Hidden {
		hidden = " hidden"
	}
	d.printf(2, "#%d %q %s at (%d,%d) %dx%d fill=%s%s",
		sh.Index, sh.Name, sh.Type,
		sh.Position.X, sh.Position.Y, sh.Position.Width, sh.Position.Height,
		sh.Fill, hidden)
	if !d.allowed(3) {
		return
	}
	switch {
	case sh.Table != nil:
		d.table(sh.Table)
	case sh.Image != nil:
		d.printf(3, "image %s (%s, %d bytes)", sh.Image.Filename, sh.Image.ContentType, sh.Image.Size)
	case sh.Text != nil:
		d.text(sh.Text, 3)
	}
}

func (d *describer) table(t *Table) {
	if d.seen(t) {
		d.printf(3, "table (already shown)")
		return
	}
	d.printf(3, "table %dx%d, %d merges", t.Rows, t.Cols, len(t.MergeInfo))
	for _, m := range t.MergeInfo {
		d.printf(3, "merge r%d c%d span %dx%d", m.Row, m.Col, m.RowSpan, m.ColSpan)
	}
	for r, row := range t.Data {
		cells := make([]string, len(row))
		for c, v := range row {
			if t.IsCovered(r, c) {
				cells[c] = "~"
				continue
			}
			cells[c] = fmt.Sprintf("%q", v)
		}
		d.printf(3, "row %d: %s", r, strings.Join(cells, " | "))
	}
}

func (d *describer) text(tb *TextBody, depth int) {
	if d.seen(tb) {
		d.printf(depth, "text (already shown)")
		return
	}
	for _, p := range tb.Paragraphs {
		bullet := ""
		if p.Bullet != nil {
			bullet = fmt.Sprintf(" bullet=%s", p.Bullet.Kind)
		}
		d.printf(depth, "p%d align=%s level=%d%s: %q", p.Index, p.Alignment, p.Level, bullet, p.PlainText())
		if !d.allowed(depth + 1) {
			continue
		}
		for _, r := range p.Runs {
			d.printf(depth+1, "r%d %q %s", r.Index, r.Text, describeFont(r.Font))
		}
	}
}

func describeFont(f Font) string {
	var parts []string
	if f.Name != "" {
		parts = append(parts, f.Name)
	}
	if f.Size != nil {
		parts = append(parts, fmt.Sprintf("%gpt", *f.Size))
	}
	if f.Bold != nil && *f.Bold {
		parts = append(parts, "bold")
	}
	if f.Italic != nil && *f.Italic {
		parts = append(parts, "italic")
	}
	if f.Color.Kind != ColorNone {
		parts = append(parts, f.Color.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}
