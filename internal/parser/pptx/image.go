package pptx

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/roboco-io/pptxinject/internal/ir"
)

// AssetDir is the directory, relative to the IR file, that pictures are
// exported to.
const AssetDir = "asset"

func (sc *slideContext) picture(pic *xPic) (*ir.Shape, error) {
	s := sc.base(pic.NvPicPr.CNvPr, ir.ShapeTypePicture, pic.SpPr.Xfrm)
	if err := sc.style(s, pic.SpPr); err != nil {
		return nil, err
	}

	img, err := sc.exportImage(pic.BlipFill.Blip.Embed)
	if err != nil {
		var ae *ir.AssetIOError
		if !errors.As(err, &ae) {
			return nil, err
		}
		ae.Loc = sc.loc(s.Name)
		sc.parser.assetErrs = append(sc.parser.assetErrs, ae)
		sc.parser.log.Warn("picture skipped", "slide", sc.slide.SlideNumber, "shape", s.Name, "error", ae.Err)
		return s, nil
	}
	s.Image = img
	return s, nil
}

// exportImage copies the embedded image to the asset directory and returns
// its reference. Names follow img_slide{n}_shape{m}_{md5[:8]}.{ext}.
func (sc *slideContext) exportImage(embed string) (*ir.ImageRef, error) {
	rel, ok := sc.rels.byID(embed)
	if embed == "" || !ok {
		return nil, &ir.AssetIOError{Path: embed, Err: fmt.Errorf("image relationship %q not found", embed)}
	}
	if strings.EqualFold(rel.TargetMode, "External") {
		return nil, &ir.AssetIOError{Path: rel.Target, Err: fmt.Errorf("linked images are not embedded")}
	}
	part := resolveTarget(sc.part, rel.Target)
	data, err := sc.parser.archive.read(part)
	if err != nil {
		return nil, &ir.AssetIOError{Path: part, Err: err}
	}
	if len(data) == 0 {
		return nil, &ir.AssetIOError{Path: part, Err: fmt.Errorf("no image data")}
	}

	sum := md5.Sum(data)
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(part)), ".")
	name := fmt.Sprintf("img_slide%d_shape%d_%s.%s", sc.slide.SlideNumber, sc.index, hex.EncodeToString(sum[:])[:8], ext)

	img := ir.NewImageRef(path.Join(AssetDir, name), int64(len(data)))
	if ct := sc.parser.types.contentType(part); ct != "" {
		img.ContentType = ct
	}
	if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
		img.SetDimensions(cfg.Width, cfg.Height)
	}

	if !sc.parser.options.ExtractImages {
		return img, nil
	}
	dir := filepath.Join(sc.parser.options.OutputDir, AssetDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &ir.AssetIOError{Path: dir, Err: err}
	}
	dst := filepath.Join(dir, name)
	if err := os.WriteFile(dst, data, 0644); err != nil {
		return nil, &ir.AssetIOError{Path: dst, Err: err}
	}
	return img, nil
}
