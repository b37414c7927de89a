// Package pptx reads PresentationML packages into the intermediate representation.
package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"
)

const (
	nsOfficeRels = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	relTypeSlide = nsOfficeRels + "/slide"
	relTypeImage = nsOfficeRels + "/image"

	partContentTypes = "[Content_Types].xml"
	partPresentation = "ppt/presentation.xml"
)

// Part size limits guard against zip bombs.
const (
	maxPartSize = 50 << 20
	maxEntries  = 10000
)

// contentTypes is [Content_Types].xml.
type contentTypes struct {
	XMLName  xml.Name `xml:"Types"`
	Defaults []struct {
		Extension   string `xml:"Extension,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Default"`
	Overrides []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

// contentType returns the declared content type of a part.
func (c *contentTypes) contentType(part string) string {
	name := "/" + strings.TrimPrefix(part, "/")
	for _, o := range c.Overrides {
		if strings.EqualFold(o.PartName, name) {
			return o.ContentType
		}
	}
	ext := strings.TrimPrefix(path.Ext(part), ".")
	for _, d := range c.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return d.ContentType
		}
	}
	return ""
}

// presentation is ppt/presentation.xml.
type presentation struct {
	XMLName  xml.Name `xml:"presentation"`
	SldIdLst struct {
		SldIds []sldID `xml:"sldId"`
	} `xml:"sldIdLst"`
	SldSz struct {
		Cx int64 `xml:"cx,attr"`
		Cy int64 `xml:"cy,attr"`
	} `xml:"sldSz"`
}

// sldID carries both id and r:id, which share a local name, so it is
// decoded by hand.
type sldID struct {
	ID  string
	RID string
}

func (s *sldID) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		if a.Name.Local != "id" {
			continue
		}
		switch a.Name.Space {
		case "":
			s.ID = a.Value
		case nsOfficeRels:
			s.RID = a.Value
		}
	}
	return d.Skip()
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

type relationships struct {
	XMLName xml.Name       `xml:"Relationships"`
	Rels    []relationship `xml:"Relationship"`
}

// byID returns the relationship with id.
func (r *relationships) byID(id string) (relationship, bool) {
	for _, rel := range r.Rels {
		if rel.ID == id {
			return rel, true
		}
	}
	return relationship{}, false
}

// archive indexes the zip entries by name.
type archive struct {
	files map[string]*zip.File
}

func newArchive(zr *zip.Reader) (*archive, error) {
	if len(zr.File) > maxEntries {
		return nil, fmt.Errorf("package contains too many entries (%d > %d)", len(zr.File), maxEntries)
	}
	a := &archive{files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		a.files[strings.TrimPrefix(f.Name, "/")] = f
	}
	return a, nil
}

func (a *archive) has(name string) bool {
	_, ok := a.files[name]
	return ok
}

// read returns the bytes of a part.
func (a *archive) read(name string) ([]byte, error) {
	f, ok := a.files[name]
	if !ok {
		return nil, fmt.Errorf("part not found: %s", name)
	}
	if f.UncompressedSize64 > maxPartSize {
		return nil, fmt.Errorf("part %s exceeds maximum size (%d bytes)", name, maxPartSize)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxPartSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) > maxPartSize {
		return nil, fmt.Errorf("part %s exceeds maximum size (%d bytes)", name, maxPartSize)
	}
	return data, nil
}

// decode unmarshals an XML part into v.
func (a *archive) decode(name string, v any) error {
	data, err := a.read(name)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// rels reads the relationships of a part. A missing rels part is empty.
func (a *archive) rels(part string) (*relationships, error) {
	name := relsPath(part)
	if !a.has(name) {
		return &relationships{}, nil
	}
	var r relationships
	if err := a.decode(name, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// relsPath returns the relationships part of a part: ppt/slides/slide1.xml
// becomes ppt/slides/_rels/slide1.xml.rels.
func relsPath(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// resolveTarget resolves a relationship target against its source part.
func resolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(path.Clean(target), "/")
	}
	return path.Clean(path.Join(path.Dir(source), target))
}
