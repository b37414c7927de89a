package inject

import (
	"fmt"

	"github.com/roboco-io/pptxinject/internal/ir"
)

// bulletIndent is the hanging indent per bullet level, in points.
const bulletIndent = 18.0

// ParagraphList rebuilds the paragraphs of a text shape from content blocks.
// Every produced paragraph is cloned from the shape's first paragraph and run:
// headings are bold, bullet items get a bullet and their nesting level.
type ParagraphList struct {
	target Target
}

// NewParagraphList creates the block list strategy.
func NewParagraphList(slide, shape string) *ParagraphList {
	return &ParagraphList{target: Target{Slide: slide, Shape: shape}}
}

func (l *ParagraphList) Target() Target { return l.target }

func (l *ParagraphList) Strategy() string { return StrategyParagraphList }

func (l *ParagraphList) Check(doc *ir.Presentation) error {
	_, shape, err := resolveShape(doc, l.target, "text")
	if err != nil {
		return err
	}
	_, err = templateRun(shape, l.target)
	return err
}

func (l *ParagraphList) Inject(doc *ir.Presentation, v Value) error {
	blocks, err := AsBlocks(v.Data)
	if err != nil {
		return err
	}
	_, shape, err := resolveShape(doc, l.target, "text")
	if err != nil {
		return err
	}
	run, err := templateRun(shape, l.target)
	if err != nil {
		return err
	}
	tmpl := shape.Text.Paragraphs[0]

	var paras []*ir.Paragraph
	add := func(text string, configure func(p *ir.Paragraph, r *ir.Run)) error {
		p, err := ir.CloneParagraph(tmpl)
		if err != nil {
			return err
		}
		r := run.WithText(text)
		configure(p, r)
		p.Runs = []*ir.Run{r}
		p.Renumber()
		paras = append(paras, p)
		return nil
	}

	for bi, b := range blocks {
		if b.Heading != "" {
			err := add(b.Heading, func(p *ir.Paragraph, r *ir.Run) {
				p.Bullet, p.Level = nil, 0
				r.Bold = ir.Bool(true)
			})
			if err != nil {
				return err
			}
		}
		for ii, item := range b.Items {
			var configure func(p *ir.Paragraph, r *ir.Run)
			switch item.Type {
			case "", "paragraph":
				configure = func(p *ir.Paragraph, _ *ir.Run) {
					p.Bullet, p.Level = nil, 0
				}
			case "bullet":
				level := max(item.Level, 0)
				configure = func(p *ir.Paragraph, _ *ir.Run) {
					if p.Bullet == nil || p.Bullet.IsNumbered() {
						p.Bullet = ir.NewCharBullet("•")
					}
					p.Level = level
					p.LeftIndent = ir.Float(bulletIndent * float64(level+1))
					p.FirstLineIndent = ir.Float(-bulletIndent)
				}
			default:
				return &ir.ValidationError{
					Field: fmt.Sprintf("blocks[%d].items[%d].type", bi, ii),
					Msg:   fmt.Sprintf("unknown item type %q", item.Type),
					Loc:   ir.Location{SlideID: l.target.Slide, Shape: l.target.Shape},
				}
			}
			if err := add(item.Text, configure); err != nil {
				return err
			}
		}
	}

	if len(paras) == 0 {
		if err := add("", func(*ir.Paragraph, *ir.Run) {}); err != nil {
			return err
		}
	}
	for i, p := range paras {
		p.Index = i + 1
	}
	shape.Text.Paragraphs = paras
	return nil
}
