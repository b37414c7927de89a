package ir

import (
	"fmt"

	"github.com/tiendc/go-deepcopy"
)

// Clone returns a deep copy of v. Nothing reachable from the result aliases v.
func Clone[T any](v T) (T, error) {
	var out T
	if err := deepcopy.Copy(&out, &v); err != nil {
		return out, fmt.Errorf("failed to clone %T: %w", v, err)
	}
	return out, nil
}

// CloneTextBody deep-copies a text body; nil stays nil.
func CloneTextBody(tb *TextBody) (*TextBody, error) {
	if tb == nil {
		return nil, nil
	}
	return Clone(tb)
}

// CloneParagraph deep-copies a paragraph.
func CloneParagraph(p *Paragraph) (*Paragraph, error) {
	if p == nil {
		return nil, nil
	}
	return Clone(p)
}

// Clone returns a deep copy of the presentation.
func (p *Presentation) Clone() (*Presentation, error) {
	return Clone(p)
}
