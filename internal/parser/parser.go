// Package parser provides interfaces and implementations for reading
// presentation documents into the intermediate representation.
package parser

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/roboco-io/pptxinject/internal/ir"
)

// Parser is the interface for document readers.
type Parser interface {
	// Parse reads the document and returns an IR representation.
	Parse() (*ir.Presentation, error)

	// Close releases any resources held by the parser.
	Close() error
}

// Format represents a document format.
type Format int

const (
	FormatUnknown Format = iota
	FormatPPTX
	FormatCFB  // OLE compound file: legacy .ppt or an encrypted package
	FormatJSON // serialized IR
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatPPTX:
		return "pptx"
	case FormatCFB:
		return "cfb"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// DetectFormat detects the document format from the file path.
func DetectFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pptx", ".pptm", ".potx":
		return FormatPPTX
	case ".ppt", ".pot":
		return FormatCFB
	case ".json":
		return FormatJSON
	default:
		return FormatUnknown
	}
}

// DetectFormatFromReader detects the format by reading magic bytes.
func DetectFormatFromReader(r io.ReaderAt) (Format, error) {
	buf := make([]byte, 8)
	n, err := r.ReadAt(buf, 0)
	if err != nil && err != io.EOF {
		return FormatUnknown, fmt.Errorf("failed to read magic bytes: %w", err)
	}
	if n < 4 {
		return FormatUnknown, fmt.Errorf("file too small to detect format")
	}

	// ZIP local file header
	if buf[0] == 'P' && buf[1] == 'K' && buf[2] == 0x03 && buf[3] == 0x04 {
		return FormatPPTX, nil
	}

	if buf[0] == 0xD0 && buf[1] == 0xCF && buf[2] == 0x11 && buf[3] == 0xE0 {
		return FormatCFB, nil
	}

	// JSON, possibly after a BOM or whitespace
	trimmed := strings.TrimLeft(string(buf[:n]), "\uFEFF \t\r\n")
	if strings.HasPrefix(trimmed, "{") {
		return FormatJSON, nil
	}

	return FormatUnknown, nil
}

// Options contains reader configuration options.
type Options struct {
	ExtractImages    bool   // Whether to export pictures as assets
	OutputDir        string // Directory the IR is written to; assets go to OutputDir/asset
	Strict           bool   // Require explicit fonts and cell fills
	AllowThemeColors bool   // Keep scheme colors instead of rejecting them
	Logger           *slog.Logger
}

// DefaultOptions returns default reader options.
func DefaultOptions() Options {
	return Options{
		ExtractImages: true,
		OutputDir:     ".",
		Strict:        true,
	}
}

// Log returns the configured logger, or one that discards everything.
func (o Options) Log() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
