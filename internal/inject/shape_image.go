package inject

import (
	"path"
	"strings"

	"github.com/roboco-io/pptxinject/internal/ir"
)

// ShapeImage points a placeholder shape at an image asset. The value is the
// asset path relative to the IR file; the bytes are read by the writer.
type ShapeImage struct {
	target Target
}

// NewShapeImage creates the image placement strategy.
func NewShapeImage(slide, shape string) *ShapeImage {
	return &ShapeImage{target: Target{Slide: slide, Shape: shape}}
}

func (s *ShapeImage) Target() Target { return s.target }

func (s *ShapeImage) Strategy() string { return StrategyShapeImage }

func (s *ShapeImage) Check(doc *ir.Presentation) error {
	_, _, err := resolveShape(doc, s.target, "image")
	return err
}

func (s *ShapeImage) Inject(doc *ir.Presentation, v Value) error {
	p, err := AsString(v.Data)
	if err != nil {
		return err
	}
	p = path.Clean(strings.ReplaceAll(p, "\\", "/"))
	_, shape, err := resolveShape(doc, s.target, "image")
	if err != nil {
		return err
	}
	img := ir.NewImageRef(p, 0)
	if !img.IsRaster() && img.ContentType == "application/octet-stream" {
		return &ir.ValidationError{
			Field: "image",
			Msg:   "unsupported image type: " + p,
			Loc:   ir.Location{SlideID: s.target.Slide, Shape: s.target.Shape},
		}
	}
	shape.Image = img
	shape.Text = nil
	shape.Type = ir.ShapeTypePicture
	return nil
}
