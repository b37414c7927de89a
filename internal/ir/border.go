package ir

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// LineWidth is a border width in points, or the "Default" sentinel.
type LineWidth struct {
	Points    float64
	IsDefault bool
}

// DefaultWidth is the "use default" line width.
var DefaultWidth = LineWidth{IsDefault: true}

// Pt returns an explicit line width.
func Pt(v float64) LineWidth {
	return LineWidth{Points: v}
}

// EMU returns the width in EMU (12700 per point); zero for Default.
func (w LineWidth) EMU() int64 {
	if w.IsDefault {
		return 0
	}
	return int64(w.Points*12700 + 0.5)
}

func (w LineWidth) String() string {
	if w.IsDefault {
		return "Default"
	}
	return strconv.FormatFloat(w.Points, 'f', -1, 64)
}

// MarshalJSON writes a number, or "Default".
func (w LineWidth) MarshalJSON() ([]byte, error) {
	if w.IsDefault {
		return []byte(`"Default"`), nil
	}
	return json.Marshal(w.Points)
}

// UnmarshalJSON accepts a number; null and any string decode to Default.
func (w *LineWidth) UnmarshalJSON(data []byte) error {
	if string(data) == "null" || (len(data) > 0 && data[0] == '"') {
		*w = DefaultWidth
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("failed to decode line width: %w", err)
	}
	*w = Pt(v)
	return nil
}

// BorderStyle describes a line: a shape outline or one side of a cell.
type BorderStyle struct {
	Color ColorValue `json:"color"`
	Width LineWidth  `json:"width"`
	Dash  string     `json:"dash_type,omitempty"` // prstDash value, e.g. solid, dash
}

// CellBorder holds the six sides of a table cell. A nil side is not drawn.
type CellBorder struct {
	Left         *BorderStyle `json:"left,omitempty"`
	Right        *BorderStyle `json:"right,omitempty"`
	Top          *BorderStyle `json:"top,omitempty"`
	Bottom       *BorderStyle `json:"bottom,omitempty"`
	DiagonalDown *BorderStyle `json:"diagonal_down,omitempty"`
	DiagonalUp   *BorderStyle `json:"diagonal_up,omitempty"`
}

// UniformBorder returns a CellBorder with the same style on the four outer sides.
func UniformBorder(s BorderStyle) *CellBorder {
	l, r, t, b := s, s, s, s
	return &CellBorder{Left: &l, Right: &r, Top: &t, Bottom: &b}
}

// BorderSide names one side of a cell border together with its style.
type BorderSide struct {
	Name  string
	Style *BorderStyle
}

// Sides returns the six sides in a fixed order (left, right, top, bottom, diagonal down, diagonal up).
func (cb *CellBorder) Sides() []BorderSide {
	if cb == nil {
		return nil
	}
	return []BorderSide{
		{"left", cb.Left},
		{"right", cb.Right},
		{"top", cb.Top},
		{"bottom", cb.Bottom},
		{"diagonal_down", cb.DiagonalDown},
		{"diagonal_up", cb.DiagonalUp},
	}
}
