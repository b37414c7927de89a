package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/roboco-io/pptxinject/internal/ir"
)

// maxImageFileSize bounds a single image read from the asset directory.
const maxImageFileSize = 50 << 20

type mediaPart struct {
	name        string // file name under ppt/media
	ext         string
	contentType string
	data        []byte
}

// loadImage reads an image referenced by the IR. Relative filenames are
// resolved against AssetBase. Each file is stored once however many shapes
// use it.
func (w *Writer) loadImage(img *ir.ImageRef) (*mediaPart, error) {
	if img.Filename == "" {
		return nil, fmt.Errorf("image has no filename")
	}
	path := filepath.FromSlash(img.Filename)
	if !filepath.IsAbs(path) {
		path = filepath.Join(w.opts.AssetBase, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if m, ok := w.byPath[path]; ok {
		return m, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > maxImageFileSize {
		return nil, fmt.Errorf("image file too large: %d bytes (max %d)", info.Size(), maxImageFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	ext := img.Ext
	if ext == "" {
		ext = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	if ext == "" {
		return nil, fmt.Errorf("image has no extension")
	}
	ref := ir.ImageRef{Ext: ext}
	if ref.IsRaster() {
		if _, format, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("not a valid %s image: %w", ext, err)
		} else if !sameFormat(ext, format) {
			w.log.Warn("image extension does not match its content", "path", path, "ext", ext, "format", format)
		}
	}
	ct := img.ContentType
	if ct == "" || ct == "application/octet-stream" {
		ct = ir.ContentTypeForExt(ext)
	}

	m := &mediaPart{
		name:        fmt.Sprintf("image%d.%s", len(w.media)+1, ext),
		ext:         ext,
		contentType: ct,
		data:        data,
	}
	w.media = append(w.media, m)
	w.byPath[path] = m
	return m, nil
}

func sameFormat(ext, format string) bool {
	switch ext {
	case "jpg", "jpeg":
		return format == "jpeg"
	case "tif", "tiff":
		return format == "tiff"
	default:
		return ext == format
	}
}

func (w *Writer) writeMedia(zw *zip.Writer) error {
	for _, m := range w.media {
		fw, err := zw.CreateHeader(&zip.FileHeader{Name: "ppt/media/" + m.name, Method: zip.Store})
		if err != nil {
			return fmt.Errorf("failed to create media %s: %w", m.name, err)
		}
		if _, err := fw.Write(m.data); err != nil {
			return fmt.Errorf("failed to write media %s: %w", m.name, err)
		}
	}
	return nil
}
