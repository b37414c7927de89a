package parser

import (
	"bytes"
	"testing"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected Format
	}{
		{
			name:     "pptx extension",
			path:     "deck.pptx",
			expected: FormatPPTX,
		},
		{
			name:     "PPTX uppercase",
			path:     "DECK.PPTX",
			expected: FormatPPTX,
		},
		{
			name:     "legacy ppt",
			path:     "deck.ppt",
			expected: FormatCFB,
		},
		{
			name:     "ir json",
			path:     "out/deck.json",
			expected: FormatJSON,
		},
		{
			name:     "unknown extension",
			path:     "document.docx",
			expected: FormatUnknown,
		},
		{
			name:     "no extension",
			path:     "deck",
			expected: FormatUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectFormat(tc.path)
			if got != tc.expected {
				t.Errorf("DetectFormat(%q) = %v, want %v", tc.path, got, tc.expected)
			}
		})
	}
}

func TestFormat_String(t *testing.T) {
	tests := []struct {
		format   Format
		expected string
	}{
		{FormatPPTX, "pptx"},
		{FormatCFB, "cfb"},
		{FormatJSON, "json"},
		{FormatUnknown, "unknown"},
		{Format(999), "unknown"},
	}

	for _, tc := range tests {
		got := tc.format.String()
		if got != tc.expected {
			t.Errorf("Format(%d).String() = %q, want %q", int(tc.format), got, tc.expected)
		}
	}
}

func TestDetectFormatFromReader(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected Format
	}{
		{
			name:     "zip",
			data:     []byte{0x50, 0x4B, 0x03, 0x04, 0x00, 0x00, 0x00, 0x00},
			expected: FormatPPTX,
		},
		{
			name:     "compound file",
			data:     []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1},
			expected: FormatCFB,
		},
		{
			name:     "json",
			data:     []byte("  {\"slides\": []}"),
			expected: FormatJSON,
		},
		{
			name:     "json with bom",
			data:     append([]byte{0xEF, 0xBB, 0xBF}, []byte("{}   ")...),
			expected: FormatJSON,
		},
		{
			name:     "unknown",
			data:     []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07},
			expected: FormatUnknown,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectFormatFromReader(bytes.NewReader(tc.data))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.expected {
				t.Errorf("DetectFormatFromReader() = %v, want %v", got, tc.expected)
			}
		})
	}
}

func TestDetectFormatFromReader_ShortData(t *testing.T) {
	_, err := DetectFormatFromReader(bytes.NewReader([]byte{0x50, 0x4B}))
	if err == nil {
		t.Error("expected error for short data")
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if !opts.ExtractImages {
		t.Error("expected ExtractImages to be true by default")
	}
	if !opts.Strict {
		t.Error("expected strict mode by default")
	}
	if opts.AllowThemeColors {
		t.Error("expected theme colors to be rejected by default")
	}
	if opts.Log() == nil {
		t.Error("expected a discard logger")
	}
}
