package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/roboco-io/pptxinject/internal/ir"
	"github.com/roboco-io/pptxinject/internal/parser"
	"github.com/roboco-io/pptxinject/internal/parser/cfb"
	"github.com/roboco-io/pptxinject/internal/parser/pptx"
)

// detectFormat trusts the file signature over the extension.
func detectFormat(path string) (parser.Format, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return parser.FormatUnknown, fmt.Errorf("파일을 찾을 수 없습니다: %s", path)
		}
		return parser.FormatUnknown, fmt.Errorf("파일 열기 실패: %w", err)
	}
	defer f.Close()

	format, err := parser.DetectFormatFromReader(f)
	if err != nil || format == parser.FormatUnknown {
		format = parser.DetectFormat(path)
	}
	if format == parser.FormatUnknown {
		return format, fmt.Errorf("지원하지 않는 파일 형식입니다: %s", filepath.Ext(path))
	}
	return format, nil
}

// readerOptions builds reader options from the dump section of the
// configuration. Assets go under outputDir/asset.
func readerOptions(outputDir string) parser.Options {
	opts := parser.DefaultOptions()
	opts.OutputDir = outputDir
	opts.Logger = logger
	if appConfig != nil {
		opts.Strict = appConfig.Dump.Strict
		opts.AllowThemeColors = appConfig.Dump.AllowThemeColors
	}
	return opts
}

// loadDocument reads a presentation package or a serialized IR. For an IR
// file the second result is its directory, which image filenames are
// relative to; for a package it is opts.OutputDir.
func loadDocument(path string, opts parser.Options) (*ir.Presentation, string, error) {
	format, err := detectFormat(path)
	if err != nil {
		return nil, "", err
	}
	logger.Debug("reading document", "path", path, "format", format)

	switch format {
	case parser.FormatJSON:
		doc, err := ir.LoadJSON(path)
		if err != nil {
			return nil, "", err
		}
		return doc, filepath.Dir(path), nil

	case parser.FormatPPTX:
		p, err := pptx.New(path, opts)
		if err != nil {
			return nil, "", err
		}
		defer p.Close()
		doc, err := p.Parse()
		if err != nil {
			return nil, "", err
		}
		for _, ae := range p.AssetErrors() {
			logger.Warn("asset export failed", "error", ae)
		}
		return doc, opts.OutputDir, nil

	case parser.FormatCFB:
		p, err := cfb.New(path, opts)
		if err != nil {
			return nil, "", err
		}
		defer p.Close()
		doc, err := p.Parse()
		return doc, "", err

	default:
		return nil, "", fmt.Errorf("알 수 없는 형식: %s", format)
	}
}
