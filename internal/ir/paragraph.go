package ir

import "strings"

// Alignment is a paragraph alignment. Values follow the PowerPoint object model.
type Alignment int

const (
	AlignInherit    Alignment = 0
	AlignLeft       Alignment = 1
	AlignCenter     Alignment = 2
	AlignRight      Alignment = 3
	AlignJustify    Alignment = 4
	AlignDistribute Alignment = 5
)

var alignmentXML = map[Alignment]string{
	AlignLeft:       "l",
	AlignCenter:     "ctr",
	AlignRight:      "r",
	AlignJustify:    "just",
	AlignDistribute: "dist",
}

// XMLValue returns the DrawingML algn value, or "" for inherited alignment.
func (a Alignment) XMLValue() string {
	return alignmentXML[a]
}

// ParseAlignment converts a DrawingML algn value.
func ParseAlignment(v string) Alignment {
	for a, x := range alignmentXML {
		if x == v {
			return a
		}
	}
	return AlignInherit
}

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	case AlignDistribute:
		return "distribute"
	default:
		return "inherit"
	}
}

// Font holds optional character formatting. Nil means inherited.
type Font struct {
	Name   string     `json:"font_name,omitempty"`
	Size   *float64   `json:"font_size,omitempty"` // points
	Bold   *bool      `json:"bold,omitempty"`
	Italic *bool      `json:"italic,omitempty"`
	Color  ColorValue `json:"font_color"`
}

// IsZero reports whether no attribute is set.
func (f Font) IsZero() bool {
	return f.Name == "" && f.Size == nil && f.Bold == nil && f.Italic == nil && f.Color.Kind == ColorNone
}

// Copy returns a copy of the font that shares no pointers with f.
func (f Font) Copy() Font {
	out := Font{Name: f.Name, Color: f.Color}
	if f.Size != nil {
		out.Size = Float(*f.Size)
	}
	if f.Bold != nil {
		out.Bold = Bool(*f.Bold)
	}
	if f.Italic != nil {
		out.Italic = Bool(*f.Italic)
	}
	return out
}

// Run represents a styled text run within a paragraph.
type Run struct {
	Text  string `json:"text"`
	Font         // inline
	Index int    `json:"run_index"` // 1-based among sibling runs
}

// NewRun creates an unstyled run.
func NewRun(text string) *Run {
	return &Run{Text: text}
}

// WithText returns a copy of the run carrying the template's font and the new text.
func (r *Run) WithText(text string) *Run {
	return &Run{Text: text, Font: r.Font.Copy(), Index: r.Index}
}

// Paragraph represents a text paragraph with its runs and formatting.
type Paragraph struct {
	Alignment       Alignment `json:"alignment"`
	Runs            []*Run    `json:"runs"`
	Index           int       `json:"paragraph_index"` // 1-based
	Text            string    `json:"text,omitempty"`
	Bullet          *Bullet   `json:"bullet,omitempty"`
	LeftIndent      *float64  `json:"left_indent,omitempty"`       // points
	FirstLineIndent *float64  `json:"first_line_indent,omitempty"` // points
	Level           int       `json:"level,omitempty"`
	LineSpacing     *float64  `json:"line_spacing,omitempty"` // multiple of single spacing
	Font                      // paragraph default font
}

// NewParagraph creates a paragraph with a single unstyled run.
func NewParagraph(text string) *Paragraph {
	p := &Paragraph{Index: 1}
	p.AddRun(NewRun(text))
	return p
}

// AddRun appends a run, numbers it and refreshes Text.
func (p *Paragraph) AddRun(r *Run) {
	r.Index = len(p.Runs) + 1
	p.Runs = append(p.Runs, r)
	p.Text = p.PlainText()
}

// PlainText concatenates the run texts.
func (p *Paragraph) PlainText() string {
	var sb strings.Builder
	for _, r := range p.Runs {
		if r != nil {
			sb.WriteString(r.Text)
		}
	}
	return sb.String()
}

// Renumber fixes run indices and the Text snapshot after runs were edited.
func (p *Paragraph) Renumber() {
	for i, r := range p.Runs {
		r.Index = i + 1
	}
	p.Text = p.PlainText()
}

// IsEmpty returns true if the paragraph has no text content.
func (p *Paragraph) IsEmpty() bool {
	return p.PlainText() == ""
}

// Anchor is the vertical anchoring of text in a frame.
type Anchor string

const (
	AnchorDefault Anchor = ""
	AnchorTop     Anchor = "top"
	AnchorMiddle  Anchor = "middle"
	AnchorBottom  Anchor = "bottom"
)

var anchorXML = map[Anchor]string{
	AnchorTop:    "t",
	AnchorMiddle: "ctr",
	AnchorBottom: "b",
}

// XMLValue returns the DrawingML anchor value.
func (a Anchor) XMLValue() string { return anchorXML[a] }

// ParseAnchor converts a DrawingML anchor value.
func ParseAnchor(v string) Anchor {
	for a, x := range anchorXML {
		if x == v {
			return a
		}
	}
	return AnchorDefault
}

// Margins are text insets in EMU.
type Margins struct {
	Left   int64 `json:"left"`
	Right  int64 `json:"right"`
	Top    int64 `json:"top"`
	Bottom int64 `json:"bottom"`
}

// DefaultMargins are the DrawingML defaults for bodyPr and table cells.
var DefaultMargins = Margins{Left: 91440, Right: 91440, Top: 45720, Bottom: 45720}

// TextFrameFormat holds frame-level text layout.
type TextFrameFormat struct {
	Wrap    *bool   `json:"wrap,omitempty"`
	AutoFit *bool   `json:"auto_fit,omitempty"`
	Anchor  Anchor  `json:"vertical_anchor,omitempty"`
	Margins Margins `json:"margin"`
}

// TextBody is a frame format plus ordered paragraphs.
type TextBody struct {
	Format     TextFrameFormat `json:"frame_format"`
	Paragraphs []*Paragraph    `json:"paragraphs"`
}

// NewTextBody creates a text body with one plain paragraph per line of text.
func NewTextBody(text string) *TextBody {
	tb := &TextBody{Format: TextFrameFormat{Margins: DefaultMargins}}
	for _, line := range strings.Split(text, "\n") {
		tb.AddParagraph(NewParagraph(line))
	}
	return tb
}

// AddParagraph appends a paragraph and numbers it.
func (tb *TextBody) AddParagraph(p *Paragraph) {
	p.Index = len(tb.Paragraphs) + 1
	tb.Paragraphs = append(tb.Paragraphs, p)
}

// PlainText joins paragraph texts with newlines.
func (tb *TextBody) PlainText() string {
	if tb == nil {
		return ""
	}
	parts := make([]string, 0, len(tb.Paragraphs))
	for _, p := range tb.Paragraphs {
		parts = append(parts, p.PlainText())
	}
	return strings.Join(parts, "\n")
}

// FirstRun returns the first run of the first paragraph, or nil.
func (tb *TextBody) FirstRun() *Run {
	if tb == nil || len(tb.Paragraphs) == 0 || len(tb.Paragraphs[0].Runs) == 0 {
		return nil
	}
	return tb.Paragraphs[0].Runs[0]
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }
