// Package ir defines the Intermediate Representation for presentation documents.
// IR is the output of the Document Reader, the subject of injection and the input
// of the Document Writer.
package ir

// Version is the IR schema version written by SaveJSON.
const Version = "1.0"

// SlideInfoShapeName is the name of the hidden text shape whose JSON payload
// carries the slide tag map.
const SlideInfoShapeName = "SLIDE_INFO"

// InjectIDKey is the tag map key used for placeholder resolution.
const InjectIDKey = "inject_id"

// Presentation represents the intermediate representation of a presentation document.
type Presentation struct {
	Version     string   `json:"version,omitempty"`
	SlideWidth  int64    `json:"slide_width"`
	SlideHeight int64    `json:"slide_height"`
	Slides      []*Slide `json:"slides"`
}

// Slide represents a single slide.
type Slide struct {
	SlideNumber int               `json:"slide_number"` // 1-based
	SlideID     string            `json:"slide_id"`
	Shapes      []*Shape          `json:"shapes"`
	TagInfo     map[string]string `json:"slide_tag_info,omitempty"`
}

// ShapeType represents the kind of a shape.
type ShapeType string

const (
	ShapeTypeTextBox     ShapeType = "text_box"
	ShapeTypeAutoShape   ShapeType = "auto_shape"
	ShapeTypePlaceholder ShapeType = "placeholder"
	ShapeTypeTable       ShapeType = "table"
	ShapeTypePicture     ShapeType = "picture"
	ShapeTypeOther       ShapeType = "other"
)

// Position is the shape frame in EMU.
type Position struct {
	X      int64 `json:"x"`
	Y      int64 `json:"y"`
	Width  int64 `json:"width"`
	Height int64 `json:"height"`
}

// Shape represents a shape on a slide. At most one of Text, Table and Image is set.
type Shape struct {
	Index    int          `json:"shape_index"` // 1-based
	Name     string       `json:"shape_name"`
	Type     ShapeType    `json:"type"`
	Position Position     `json:"position"`
	Fill     ColorValue   `json:"background_fill_color"`
	Border   *BorderStyle `json:"border,omitempty"`
	Hidden   bool         `json:"hidden,omitempty"`
	Text     *TextBody    `json:"text,omitempty"`
	Table    *Table       `json:"table,omitempty"`
	Image    *ImageRef    `json:"image,omitempty"`
}

// NewPresentation creates an empty presentation with the given slide size.
func NewPresentation(width, height int64) *Presentation {
	return &Presentation{
		Version:     Version,
		SlideWidth:  width,
		SlideHeight: height,
		Slides:      make([]*Slide, 0),
	}
}

// AddSlide appends a slide and numbers it.
func (p *Presentation) AddSlide(s *Slide) {
	s.SlideNumber = len(p.Slides) + 1
	p.Slides = append(p.Slides, s)
}

// NewSlide creates a slide with the given identifier.
func NewSlide(id string) *Slide {
	return &Slide{
		SlideID: id,
		Shapes:  make([]*Shape, 0),
	}
}

// AddShape appends a shape and assigns its index.
func (s *Slide) AddShape(sh *Shape) {
	sh.Index = len(s.Shapes) + 1
	s.Shapes = append(s.Shapes, sh)
}

// InjectID returns the logical inject id of the slide, if tagged.
func (s *Slide) InjectID() string {
	if s.TagInfo == nil {
		return ""
	}
	return s.TagInfo[InjectIDKey]
}

// PayloadCount returns how many of the payload fields are set.
func (sh *Shape) PayloadCount() int {
	n := 0
	if sh.Text != nil {
		n++
	}
	if sh.Table != nil {
		n++
	}
	if sh.Image != nil {
		n++
	}
	return n
}

// PayloadKind returns "text", "table", "image" or "" for a shape.
func (sh *Shape) PayloadKind() string {
	switch {
	case sh.Table != nil:
		return "table"
	case sh.Image != nil:
		return "image"
	case sh.Text != nil:
		return "text"
	default:
		return ""
	}
}
