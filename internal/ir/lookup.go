package ir

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// FindSlideByInjectID returns the first slide tagged with the logical inject id.
func (p *Presentation) FindSlideByInjectID(id string) (*Slide, error) {
	for _, s := range p.Slides {
		if s.InjectID() == id {
			return s, nil
		}
	}
	return nil, &NotFoundError{Kind: "slide", Key: id, Loc: Location{SlideID: id}}
}

// FindShapeByName returns the first shape on the slide with exactly this name.
func (s *Slide) FindShapeByName(name string) (*Shape, error) {
	for _, sh := range s.Shapes {
		if sh.Name == name {
			return sh, nil
		}
	}
	return nil, &NotFoundError{
		Kind: "shape",
		Key:  name,
		Loc:  Location{SlideID: s.InjectID(), SlideNumber: s.SlideNumber, Shape: name},
	}
}

// Resolve locates a shape by slide inject id and shape name.
func (p *Presentation) Resolve(injectID, shapeName string) (*Slide, *Shape, error) {
	slide, err := p.FindSlideByInjectID(injectID)
	if err != nil {
		return nil, nil, err
	}
	shape, err := slide.FindShapeByName(shapeName)
	if err != nil {
		return nil, nil, err
	}
	return slide, shape, nil
}

// normalizeMarker makes marker comparison insensitive to surrounding space and
// to composed versus decomposed Unicode forms.
func normalizeMarker(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// FindCellByText returns the unique non-covered cell whose text equals marker
// after trimming. A marker found in more than one cell is a validation error.
func (t *Table) FindCellByText(marker string) (row, col int, err error) {
	want := normalizeMarker(marker)
	row, col = -1, -1
	count := 0
	for r := 0; r < t.Rows && r < len(t.Data); r++ {
		for c := 0; c < t.Cols && c < len(t.Data[r]); c++ {
			if t.IsCovered(r, c) {
				continue
			}
			if normalizeMarker(t.Data[r][c]) != want {
				continue
			}
			if count == 0 {
				row, col = r, c
			}
			count++
		}
	}
	switch count {
	case 0:
		return -1, -1, &NotFoundError{Kind: "marker", Key: marker}
	case 1:
		return row, col, nil
	default:
		return -1, -1, &ValidationError{
			Field: "marker",
			Msg:   fmt.Sprintf("%q occurs in %d cells", marker, count),
			Loc:   Location{}.Cell(row, col),
		}
	}
}
