// Package pptx writes the intermediate representation as a PresentationML
// package.
package pptx

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roboco-io/pptxinject/internal/ir"
	"github.com/roboco-io/pptxinject/internal/writer"
)

// Options configures the pptx writer.
type Options struct {
	writer.Options
	Title       string           // dc:title of the package
	Application string           // Application and creator recorded in docProps
	Now         func() time.Time // clock for docProps timestamps
}

// DefaultOptions returns default pptx writer options.
func DefaultOptions() Options {
	return Options{Options: writer.DefaultOptions()}
}

func (o Options) application() string {
	if o.Application != "" {
		return o.Application
	}
	return "pptxinject"
}

// Writer renders a presentation. A Writer is not safe for concurrent use.
type Writer struct {
	opts Options
	log  *slog.Logger

	// per-call state
	doc       *ir.Presentation
	slides    []*slidePlan
	media     []*mediaPart
	byPath    map[string]*mediaPart
	assetErrs []error
}

var _ writer.Writer = (*Writer)(nil)

// NewWriter creates a pptx writer.
func NewWriter(opts Options) *Writer {
	return &Writer{opts: opts, log: opts.Log()}
}

// Write renders doc to path with the given options.
func Write(doc *ir.Presentation, path string, opts Options) error {
	return NewWriter(opts).Write(doc, path)
}

// AssetErrors returns the image failures of the last call. The affected
// shapes were left out of the output.
func (w *Writer) AssetErrors() []error {
	return w.assetErrs
}

func (w *Writer) now() time.Time {
	if w.opts.Now != nil {
		return w.opts.Now()
	}
	return time.Now()
}

// Write implements writer.Writer. The package is written to a temporary file
// next to path and renamed into place, so a failed write leaves no partial
// file behind.
func (w *Writer) Write(doc *ir.Presentation, path string) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.CreateTemp(dir, ".pptxinject-*.pptx")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmp := f.Name()

	writeErr := w.WriteTo(f, doc)
	closeErr := f.Close()
	if writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(tmp)
		return writeErr
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to set file mode: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to move output into place: %w", err)
	}
	w.log.Info("wrote presentation", "path", path, "slides", len(doc.Slides), "asset_errors", len(w.assetErrs))
	return nil
}

// WriteTo renders doc as a package to out.
func (w *Writer) WriteTo(out io.Writer, doc *ir.Presentation) error {
	if doc == nil {
		return fmt.Errorf("presentation is nil")
	}
	for _, issue := range ir.Validate(doc) {
		if issue.Severity == ir.SeverityError {
			return &ir.ValidationError{Field: "document", Msg: issue.Message, Loc: issue.Loc}
		}
	}
	if err := w.plan(doc); err != nil {
		return err
	}

	zw := zip.NewWriter(out)
	steps := []func(*zip.Writer) error{
		w.writeContentTypes,
		w.writeRootRels,
		w.writeAppProperties,
		w.writeCoreProperties,
		w.writePresentation,
		w.writePresentationRels,
		w.writePresProps,
		w.writeViewProps,
		w.writeTableStyles,
		w.writeSlideMaster,
		w.writeSlideLayout,
		w.writeTheme,
	}
	for _, step := range steps {
		if err := step(zw); err != nil {
			return err
		}
	}
	for _, sp := range w.slides {
		if err := w.writeSlide(zw, sp); err != nil {
			return fmt.Errorf("failed to write slide %d: %w", sp.num, err)
		}
		if err := w.writeSlideRels(zw, sp); err != nil {
			return err
		}
	}
	if err := w.writeMedia(zw); err != nil {
		return err
	}
	return zw.Close()
}

// slidePlan holds what is decided about a slide before any XML is written.
type slidePlan struct {
	slide  *ir.Slide
	num    int
	id     int64
	images map[*ir.Shape]string // shape → relationship id
	rels   []xmlRelationship
	info   *ir.Shape // SLIDE_INFO shape synthesized from the tag map
}

func (sp *slidePlan) part() string { return fmt.Sprintf("ppt/slides/slide%d.xml", sp.num) }

func (sp *slidePlan) presRelID() string { return fmt.Sprintf("rId%d", sp.num+1) }

// plan numbers slides, loads images and assigns relationship ids.
func (w *Writer) plan(doc *ir.Presentation) error {
	w.doc = doc
	w.slides = nil
	w.media = nil
	w.byPath = make(map[string]*mediaPart)
	w.assetErrs = nil

	ids := slideIDs(doc.Slides)
	for i, s := range doc.Slides {
		sp := &slidePlan{
			slide:  s,
			num:    i + 1,
			id:     ids[i],
			images: make(map[*ir.Shape]string),
			rels: []xmlRelationship{
				{ID: "rId1", Type: relTypeSlideLayout, Target: "../slideLayouts/slideLayout1.xml"},
			},
		}
		for _, sh := range s.Shapes {
			if sh.Image == nil || sh.Table != nil {
				continue
			}
			m, err := w.loadImage(sh.Image)
			if err != nil {
				ae := &ir.AssetIOError{Path: sh.Image.Filename, Err: err}
				ae.Loc = ir.Location{SlideID: s.SlideID, SlideNumber: sp.num, Shape: sh.Name}
				w.assetErrs = append(w.assetErrs, ae)
				w.log.Warn("image skipped", "slide", sp.num, "shape", sh.Name, "error", err)
				continue
			}
			rid := fmt.Sprintf("rId%d", len(sp.rels)+1)
			sp.rels = append(sp.rels, xmlRelationship{ID: rid, Type: relTypeImage, Target: "../media/" + m.name})
			sp.images[sh] = rid
		}
		info, err := slideInfoShape(s)
		if err != nil {
			return err
		}
		sp.info = info
		w.slides = append(w.slides, sp)
	}
	return nil
}

// slideIDs keeps numeric slide ids that are valid and unique, and assigns
// fresh ones to the rest.
func slideIDs(slides []*ir.Slide) []int64 {
	const minID, maxID = 256, 2147483647
	ids := make([]int64, len(slides))
	used := make(map[int64]bool)
	var top int64 = minID - 1
	for i, s := range slides {
		var id int64
		if _, err := fmt.Sscanf(s.SlideID, "%d", &id); err != nil || fmt.Sprint(id) != s.SlideID {
			continue
		}
		if id < minID || id > maxID || used[id] {
			continue
		}
		ids[i] = id
		used[id] = true
		top = max(top, id)
	}
	for i := range ids {
		if ids[i] != 0 {
			continue
		}
		top++
		for used[top] {
			top++
		}
		ids[i] = top
		used[top] = true
	}
	return ids
}
