package pptx

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roboco-io/pptxinject/internal/ir"
	"github.com/roboco-io/pptxinject/internal/parser"
)

// Parser reads a .pptx package.
type Parser struct {
	path    string
	reader  *zip.ReadCloser
	archive *archive
	options parser.Options
	log     *slog.Logger

	types     contentTypes
	pres      presentation
	presRels  *relationships
	assetErrs []error
}

// New opens the package at path and checks that it is a presentation.
func New(path string, opts parser.Options) (*Parser, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PPTX file: %w", err)
	}

	p := &Parser{
		path:    path,
		reader:  r,
		options: opts,
		log:     opts.Log().With("path", path),
	}
	if err := p.open(&r.Reader); err != nil {
		r.Close()
		return nil, err
	}
	return p, nil
}

// Read parses the package at path and closes it.
func Read(path string, opts parser.Options) (*ir.Presentation, error) {
	p, err := New(path, opts)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return p.Parse()
}

func (p *Parser) open(zr *zip.Reader) error {
	a, err := newArchive(zr)
	if err != nil {
		return err
	}
	p.archive = a

	if !a.has(partContentTypes) {
		return fmt.Errorf("not a presentation package: missing %s", partContentTypes)
	}
	if err := a.decode(partContentTypes, &p.types); err != nil {
		return err
	}
	if !a.has(partPresentation) {
		return fmt.Errorf("not a presentation package: missing %s", partPresentation)
	}
	if err := a.decode(partPresentation, &p.pres); err != nil {
		return err
	}
	rels, err := a.rels(partPresentation)
	if err != nil {
		return err
	}
	p.presRels = rels
	return nil
}

// Close releases the package.
func (p *Parser) Close() error {
	if p.reader != nil {
		err := p.reader.Close()
		p.reader = nil
		return err
	}
	return nil
}

// AssetErrors returns the picture export failures of the last Parse. The
// affected shapes were kept without an image payload.
func (p *Parser) AssetErrors() []error {
	return p.assetErrs
}

// Parse implements parser.Parser. Slides follow the sldIdLst order.
func (p *Parser) Parse() (*ir.Presentation, error) {
	doc := ir.NewPresentation(p.pres.SldSz.Cx, p.pres.SldSz.Cy)
	p.assetErrs = nil

	for i, sid := range p.pres.SldIdLst.SldIds {
		rel, ok := p.presRels.byID(sid.RID)
		if !ok || rel.Type != relTypeSlide {
			return nil, fmt.Errorf("slide %d: relationship %q not found", i+1, sid.RID)
		}
		part := resolveTarget(partPresentation, rel.Target)
		slide := ir.NewSlide(sid.ID)
		doc.AddSlide(slide)
		if err := p.parseSlide(slide, part); err != nil {
			return nil, fmt.Errorf("failed to parse slide %d (%s): %w", slide.SlideNumber, part, err)
		}
	}

	p.log.Debug("parsed presentation", "slides", len(doc.Slides), "asset_errors", len(p.assetErrs))
	return doc, nil
}

func (p *Parser) parseSlide(slide *ir.Slide, part string) error {
	var xs xSlide
	if err := p.archive.decode(part, &xs); err != nil {
		return err
	}
	rels, err := p.archive.rels(part)
	if err != nil {
		return err
	}

	sc := &slideContext{parser: p, slide: slide, part: part, rels: rels}
	for _, item := range xs.CSld.SpTree.Items {
		shape, err := sc.shape(item)
		if err != nil {
			return err
		}
		slide.AddShape(shape)
		if shape.Name == ir.SlideInfoShapeName && shape.Text != nil {
			p.readSlideInfo(slide, shape)
		}
	}
	return nil
}

// readSlideInfo parses the JSON tag text of a SLIDE_INFO shape. Invalid JSON
// leaves the slide without tags.
func (p *Parser) readSlideInfo(slide *ir.Slide, shape *ir.Shape) {
	text := strings.TrimSpace(shape.Text.PlainText())
	var raw map[string]any
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		p.log.Warn("invalid SLIDE_INFO json", "slide", slide.SlideNumber, "error", err)
		slide.TagInfo = nil
		return
	}
	slide.TagInfo = make(map[string]string, len(raw))
	for k, v := range raw {
		switch s := v.(type) {
		case string:
			slide.TagInfo[k] = s
		case nil:
			slide.TagInfo[k] = ""
		default:
			b, _ := json.Marshal(s)
			slide.TagInfo[k] = string(b)
		}
	}
}
