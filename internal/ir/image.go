package ir

import (
	"path"
	"strings"
)

// ImageRef references an extracted image asset. The bytes live in the asset
// directory, addressed by Filename relative to the IR file.
type ImageRef struct {
	Filename    string `json:"filename"` // e.g. asset/img_slide1_shape3_abcd1234.png
	Ext         string `json:"ext"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`             // bytes
	Width       int    `json:"width,omitempty"`  // pixels, when decodable
	Height      int    `json:"height,omitempty"` // pixels, when decodable
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"webp": "image/webp",
	"emf":  "image/x-emf",
	"wmf":  "image/x-wmf",
	"svg":  "image/svg+xml",
}

// NewImageRef creates an image reference from a relative filename.
func NewImageRef(filename string, size int64) *ImageRef {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), ".")
	return &ImageRef{
		Filename:    filename,
		Ext:         ext,
		ContentType: ContentTypeForExt(ext),
		Size:        size,
	}
}

// ContentTypeForExt returns the MIME type for an image extension.
func ContentTypeForExt(ext string) string {
	if ct, ok := contentTypes[strings.ToLower(strings.TrimPrefix(ext, "."))]; ok {
		return ct
	}
	return "application/octet-stream"
}

// ExtForContentType returns the extension for an image MIME type.
func ExtForContentType(ct string) string {
	switch ct {
	case "image/jpeg":
		return "jpg"
	case "image/tiff":
		return "tiff"
	}
	for ext, t := range contentTypes {
		if t == ct {
			return ext
		}
	}
	return ""
}

// SetDimensions sets the pixel size of the image.
func (img *ImageRef) SetDimensions(width, height int) {
	img.Width = width
	img.Height = height
}

// IsRaster reports whether the image format is decodable as a raster image.
func (img *ImageRef) IsRaster() bool {
	switch img.Ext {
	case "png", "jpg", "jpeg", "gif", "bmp", "tif", "tiff", "webp":
		return true
	}
	return false
}
