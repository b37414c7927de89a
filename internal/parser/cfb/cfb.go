// Package cfb inspects OLE compound files. PowerPoint stores legacy binary
// decks and password-protected packages in this container; neither has an
// IR representation, so the parser only identifies them.
package cfb

import (
	"fmt"
	"os"
	"strings"

	"github.com/richardlehane/mscfb"

	"github.com/roboco-io/pptxinject/internal/ir"
	"github.com/roboco-io/pptxinject/internal/parser"
)

// Kind is the content found inside a compound file.
type Kind int

const (
	KindUnknown Kind = iota
	KindLegacyPowerPoint
	KindEncryptedPackage
)

// Stream names that identify the content.
const (
	StreamPowerPointDocument = "PowerPoint Document"
	StreamEncryptionInfo     = "EncryptionInfo"
	StreamEncryptedPackage   = "EncryptedPackage"
)

func (k Kind) String() string {
	switch k {
	case KindLegacyPowerPoint:
		return "legacy binary PowerPoint (.ppt)"
	case KindEncryptedPackage:
		return "encrypted OOXML package"
	default:
		return "unknown compound file"
	}
}

// Parser identifies the content of a compound file.
type Parser struct {
	path    string
	file    *os.File
	options parser.Options
	streams []string
	kind    Kind
}

// New opens the compound file at path and lists its streams.
func New(path string, opts parser.Options) (*Parser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open compound file: %w", err)
	}

	doc, err := mscfb.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to parse OLE2 container: %w", err)
	}

	p := &Parser{path: path, file: f, options: opts}
	for _, entry := range doc.File {
		name := entry.Name
		if len(entry.Path) > 0 {
			name = strings.Join(entry.Path, "/") + "/" + entry.Name
		}
		p.streams = append(p.streams, name)
	}
	p.kind = Classify(p.streams)
	opts.Log().Debug("inspected compound file", "path", path, "kind", p.kind.String(), "streams", len(p.streams))
	return p, nil
}

// Classify identifies the content from its stream names.
func Classify(streams []string) Kind {
	var info, pkg bool
	for _, s := range streams {
		switch s {
		case StreamPowerPointDocument:
			return KindLegacyPowerPoint
		case StreamEncryptionInfo:
			info = true
		case StreamEncryptedPackage:
			pkg = true
		}
	}
	if info && pkg {
		return KindEncryptedPackage
	}
	return KindUnknown
}

// Kind returns what the file contains.
func (p *Parser) Kind() Kind { return p.kind }

// Streams returns the stream paths in directory order.
func (p *Parser) Streams() []string { return p.streams }

// Parse implements parser.Parser. It always fails: the content must be
// resaved as .pptx first.
func (p *Parser) Parse() (*ir.Presentation, error) {
	feature := p.kind.String()
	switch p.kind {
	case KindLegacyPowerPoint:
		feature += "; resave it as .pptx"
	case KindEncryptedPackage:
		feature += "; remove the password and resave it"
	}
	return nil, &ir.UnsupportedFeatureError{Feature: feature}
}

// Close releases the file.
func (p *Parser) Close() error {
	if p.file != nil {
		err := p.file.Close()
		p.file = nil
		return err
	}
	return nil
}
