// Package writer provides interfaces for turning the intermediate
// representation back into presentation documents.
package writer

import (
	"io"
	"log/slog"

	"github.com/roboco-io/pptxinject/internal/ir"
)

// Writer is the interface for document writers.
type Writer interface {
	// Write renders doc to the file at path.
	Write(doc *ir.Presentation, path string) error
}

// Options contains writer configuration options.
type Options struct {
	AssetBase string // Directory image filenames are relative to, usually the IR file's directory
	Logger    *slog.Logger
}

// DefaultOptions returns default writer options.
func DefaultOptions() Options {
	return Options{AssetBase: "."}
}

// Log returns the configured logger, or one that discards everything.
func (o Options) Log() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
