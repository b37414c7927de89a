package ir

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ColorKind distinguishes the variants of ColorValue.
type ColorKind int

const (
	ColorNone    ColorKind = iota // explicitly no colour
	ColorRGB                      // explicit RGB triple
	ColorTheme                    // named theme slot
	ColorUnknown                  // text present but not recognised
)

func (k ColorKind) String() string {
	switch k {
	case ColorNone:
		return "none"
	case ColorRGB:
		return "rgb"
	case ColorTheme:
		return "theme"
	default:
		return "unknown"
	}
}

// ColorValue is a tagged colour: None, RGB, Theme or Unknown.
// The zero value is None.
type ColorValue struct {
	Kind  ColorKind
	R     uint8
	G     uint8
	B     uint8
	Theme string // theme slot name, e.g. ACCENT_1
	Raw   string // original text of an Unknown colour
}

// themeSlots maps theme slot names to the scheme colour values used in DrawingML.
var themeSlots = map[string]string{
	"ACCENT_1":           "accent1",
	"ACCENT_2":           "accent2",
	"ACCENT_3":           "accent3",
	"ACCENT_4":           "accent4",
	"ACCENT_5":           "accent5",
	"ACCENT_6":           "accent6",
	"BACKGROUND_1":       "bg1",
	"BACKGROUND_2":       "bg2",
	"DARK_1":             "dk1",
	"DARK_2":             "dk2",
	"LIGHT_1":            "lt1",
	"LIGHT_2":            "lt2",
	"TEXT_1":             "tx1",
	"TEXT_2":             "tx2",
	"HYPERLINK":          "hlink",
	"FOLLOWED_HYPERLINK": "folHlink",
}

// RGB returns an RGB colour.
func RGB(r, g, b uint8) ColorValue {
	return ColorValue{Kind: ColorRGB, R: r, G: g, B: b}
}

// Theme returns a theme colour for a slot name such as ACCENT_1.
// An unknown slot name yields an Unknown colour.
func Theme(name string) ColorValue {
	slot := strings.ToUpper(strings.TrimSpace(name))
	if _, ok := themeSlots[slot]; !ok {
		return ColorValue{Kind: ColorUnknown, Raw: "Theme:" + name}
	}
	return ColorValue{Kind: ColorTheme, Theme: slot}
}

// ThemeFromScheme converts a DrawingML scheme colour value (accent1, tx1, ...) to a theme colour.
func ThemeFromScheme(val string) (ColorValue, bool) {
	for slot, scheme := range themeSlots {
		if scheme == val {
			return ColorValue{Kind: ColorTheme, Theme: slot}, true
		}
	}
	return ColorValue{}, false
}

// SchemeName returns the DrawingML scheme value of a theme colour.
func (c ColorValue) SchemeName() string {
	return themeSlots[c.Theme]
}

// Hex returns the upper-case RRGGBB form of an RGB colour.
func (c ColorValue) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// IsNone reports whether the colour is explicitly absent.
func (c ColorValue) IsNone() bool { return c.Kind == ColorNone }

// Applicable reports whether the colour can be written as a fill.
func (c ColorValue) Applicable() bool {
	return c.Kind == ColorRGB || c.Kind == ColorTheme
}

// String formats the colour in its serialized form.
func (c ColorValue) String() string {
	switch c.Kind {
	case ColorNone:
		return "None"
	case ColorRGB:
		return "RGB:" + c.Hex()
	case ColorTheme:
		return "Theme:" + c.Theme
	default:
		return c.Raw
	}
}

// ParseColor parses a serialized colour. It never fails: text that is not
// "None", "RGB:RRGGBB", "Theme:NAME" or a bare RRGGBB is returned as Unknown.
func ParseColor(s string) ColorValue {
	t := strings.TrimSpace(s)
	switch {
	case t == "None":
		return ColorValue{}
	case strings.HasPrefix(t, "RGB:"):
		if c, ok := parseHex(strings.TrimSpace(t[len("RGB:"):])); ok {
			return c
		}
	case strings.HasPrefix(t, "Theme:"):
		name := strings.TrimSpace(t[len("Theme:"):])
		if _, ok := themeSlots[strings.ToUpper(name)]; ok && name != "" {
			return ColorValue{Kind: ColorTheme, Theme: strings.ToUpper(name)}
		}
	default:
		if c, ok := parseHex(t); ok {
			return c
		}
	}
	return ColorValue{Kind: ColorUnknown, Raw: s}
}

func parseHex(s string) (ColorValue, bool) {
	if len(s) != 6 {
		return ColorValue{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return ColorValue{}, false
	}
	return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), true
}

// MarshalJSON writes None as null and every other colour as its string form.
func (c ColorValue) MarshalJSON() ([]byte, error) {
	if c.Kind == ColorNone {
		return []byte("null"), nil
	}
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts null or a string.
func (c *ColorValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = ColorValue{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to decode color: %w", err)
	}
	*c = ParseColor(s)
	return nil
}
