package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Marshal encodes the document as indented UTF-8 JSON without HTML escaping.
func Marshal(doc *Presentation) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode IR: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reads a document from JSON.
func Decode(r io.Reader) (*Presentation, error) {
	var doc Presentation
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode IR: %w", err)
	}
	for i, s := range doc.Slides {
		if s.SlideNumber == 0 {
			s.SlideNumber = i + 1
		}
	}
	return &doc, nil
}

// LoadJSON reads an IR file.
func LoadJSON(path string) (*Presentation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open IR file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// SaveJSON writes an IR file, creating the parent directory if needed.
func SaveJSON(path string, doc *Presentation) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write IR file: %w", err)
	}
	return nil
}
