package ir

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIndexOutOfRange is wrapped by validation errors for bad row/column indices.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrLengthMismatch is wrapped by validation errors for rows of the wrong width.
	ErrLengthMismatch = errors.New("length mismatch")
	// ErrMissingTemplate is wrapped when a template paragraph or run is absent.
	ErrMissingTemplate = errors.New("missing template")
)

// Location identifies where in a document an error occurred.
type Location struct {
	SlideID     string
	SlideNumber int
	Shape       string
	Row         int
	Col         int
	HasCell     bool
}

// Cell returns a copy of the location pointing at a table cell.
func (l Location) Cell(row, col int) Location {
	l.Row, l.Col, l.HasCell = row, col, true
	return l
}

func (l Location) String() string {
	var parts []string
	if l.SlideID != "" {
		parts = append(parts, "slide "+l.SlideID)
	} else if l.SlideNumber > 0 {
		parts = append(parts, fmt.Sprintf("slide #%d", l.SlideNumber))
	}
	if l.Shape != "" {
		parts = append(parts, "shape "+l.Shape)
	}
	if l.HasCell {
		parts = append(parts, fmt.Sprintf("row %d col %d", l.Row, l.Col))
	}
	return strings.Join(parts, ", ")
}

func withLocation(msg string, loc Location) string {
	if s := loc.String(); s != "" {
		return msg + " (" + s + ")"
	}
	return msg
}

// ValidationError reports a shape mismatch: wrong array length, index out of
// range or a missing required child element.
type ValidationError struct {
	Field string
	Msg   string
	Loc   Location
	Err   error
}

func (e *ValidationError) Error() string {
	msg := "validation failed"
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	return withLocation(msg, e.Loc)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NotFoundError reports a missing slide, shape or marker cell.
type NotFoundError struct {
	Kind string // slide, shape, marker
	Key  string
	Loc  Location
}

func (e *NotFoundError) Error() string {
	return withLocation(fmt.Sprintf("%s not found: %q", e.Kind, e.Key), e.Loc)
}

// UnsupportedFeatureError reports a document feature with no IR representation.
type UnsupportedFeatureError struct {
	Feature string
	Loc     Location
}

func (e *UnsupportedFeatureError) Error() string {
	return withLocation("unsupported feature: "+e.Feature, e.Loc)
}

// AssetIOError reports a failure to read or write an extracted asset.
type AssetIOError struct {
	Path string
	Loc  Location
	Err  error
}

func (e *AssetIOError) Error() string {
	return withLocation(fmt.Sprintf("asset %s: %v", e.Path, e.Err), e.Loc)
}

func (e *AssetIOError) Unwrap() error { return e.Err }

func lengthMismatch(field string, got, want int) error {
	return &ValidationError{
		Field: field,
		Msg:   fmt.Sprintf("has %d elements, table has %d columns", got, want),
		Err:   ErrLengthMismatch,
	}
}

func indexOutOfRange(field string, idx, lo, hi int) error {
	return &ValidationError{
		Field: field,
		Msg:   fmt.Sprintf("%d not in [%d, %d]", idx, lo, hi),
		Err:   ErrIndexOutOfRange,
	}
}

// LocationOf returns a pointer to the location carried by a typed error in the chain.
func LocationOf(err error) *Location {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return &ve.Loc
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return &nf.Loc
	}
	var uf *UnsupportedFeatureError
	if errors.As(err, &uf) {
		return &uf.Loc
	}
	var ae *AssetIOError
	if errors.As(err, &ae) {
		return &ae.Loc
	}
	return nil
}

// Annotate fills in the slide and shape of a typed error where they are not yet set.
// Errors of other types are returned unchanged.
func Annotate(err error, slideID, shape string) error {
	if err == nil {
		return nil
	}
	if loc := LocationOf(err); loc != nil {
		if loc.SlideID == "" {
			loc.SlideID = slideID
		}
		if loc.Shape == "" {
			loc.Shape = shape
		}
	}
	return err
}
