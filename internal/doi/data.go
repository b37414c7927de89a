package doi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/roboco-io/pptxinject/internal/datactx"
	"github.com/roboco-io/pptxinject/internal/inject"
)

// Inventor is one row of the inventor table.
type Inventor struct {
	No           Number `json:"no"`
	FullName     string `json:"full_name"`
	Contribution string `json:"contribution"` // percentage text, e.g. "50%"
	EmployeeNo   string `json:"employee_no"`
	Status       string `json:"status"`
}

// Row returns the table row tuple for the inventor.
func (inv Inventor) Row() []string {
	return []string{strconv.Itoa(int(inv.No)), inv.FullName, inv.Contribution, inv.EmployeeNo, EmptyCell, inv.Status}
}

// Number is an integer that also decodes from numeric text, as spreadsheet
// cells arrive as strings.
type Number int

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f != float64(int(f)) {
		return fmt.Errorf("invalid number %s", b)
	}
	*n = Number(f)
	return nil
}

// BasicInfo is the cover and basic information of a disclosure.
type BasicInfo struct {
	Title           string     `json:"title"`
	InventionNumber string     `json:"invention_number,omitempty"`
	DateReceived    string     `json:"date_received,omitempty"`
	ReviewDecision  string     `json:"review_decision,omitempty"`
	Department      string     `json:"department"`
	ProjectName     string     `json:"project_name"`
	InventionTitle  string     `json:"invention_title"`
	Inventors       []Inventor `json:"inventors"`
}

// Validate reports missing required fields.
func (b *BasicInfo) Validate() error {
	var missing []string
	for _, f := range []struct{ name, val string }{
		{"title", b.Title},
		{"department", b.Department},
		{"project_name", b.ProjectName},
		{"invention_title", b.InventionTitle},
	} {
		if strings.TrimSpace(f.val) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Section is the content of one background slide.
type Section struct {
	ID     string         `json:"id"`
	Blocks []inject.Block `json:"blocks"`
}

// ImagePath returns the first block image of the section, if any.
func (s Section) ImagePath() string {
	for _, b := range s.Blocks {
		if b.ImagePath != "" {
			return b.ImagePath
		}
	}
	return ""
}

// Data is everything the preset injects.
type Data struct {
	BasicInfo
	Sections []Section `json:"sections,omitempty"`
}

// Section returns the section with id.
func (d *Data) Section(id string) (Section, bool) {
	for _, s := range d.Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// FromContext decodes the preset data from a data context. Basic info fields
// are top-level keys. Sections are either a list of {id, blocks} (or
// {section_id, slides: [{blocks}]}) or, from a spreadsheet, flat rows with
// section, heading, type, text, level and image_path columns.
func FromContext(c *datactx.Context) (*Data, error) {
	var d Data
	if err := c.Decode(&d.BasicInfo); err != nil {
		return nil, fmt.Errorf("failed to decode basic info: %w", err)
	}
	if err := d.BasicInfo.Validate(); err != nil {
		return nil, err
	}

	raw, ok := c.Get("sections")
	if !ok || raw == nil {
		return &d, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("sections: expected a list, got %T", raw)
	}
	sections, err := decodeSections(list)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sections: %w", err)
	}
	d.Sections = sections
	return &d, nil
}

type rawSection struct {
	ID        string         `json:"id"`
	SectionID string         `json:"section_id"`
	Blocks    []inject.Block `json:"blocks"`
	Slides    []struct {
		Blocks []inject.Block `json:"blocks"`
	} `json:"slides"`
}

func decodeSections(list []any) ([]Section, error) {
	if isFlat(list) {
		return groupRows(list)
	}
	b, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	var raws []rawSection
	if err := json.Unmarshal(b, &raws); err != nil {
		return nil, err
	}
	out := make([]Section, 0, len(raws))
	for i, r := range raws {
		s := Section{ID: r.ID, Blocks: r.Blocks}
		if s.ID == "" {
			s.ID = r.SectionID
		}
		if s.ID == "" {
			return nil, fmt.Errorf("section %d: id is required", i)
		}
		for _, slide := range r.Slides {
			s.Blocks = append(s.Blocks, slide.Blocks...)
		}
		out = append(out, s)
	}
	return out, nil
}

func isFlat(list []any) bool {
	if len(list) == 0 {
		return false
	}
	m, ok := list[0].(map[string]any)
	if !ok {
		return false
	}
	_, hasBlocks := m["blocks"]
	_, hasSlides := m["slides"]
	_, hasSection := m["section"]
	return hasSection && !hasBlocks && !hasSlides
}

// groupRows folds spreadsheet rows into sections. A row with a heading
// starts a new block; a row with text adds an item to the current block.
func groupRows(list []any) ([]Section, error) {
	var out []Section
	index := make(map[string]int)
	for i, r := range list {
		row, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("row %d: expected a record, got %T", i, r)
		}
		get := func(k string) string {
			if v, ok := row[k]; ok && v != nil {
				return strings.TrimSpace(fmt.Sprint(v))
			}
			return ""
		}
		id := get("section")
		if id == "" {
			return nil, fmt.Errorf("row %d: section is required", i)
		}
		si, ok := index[id]
		if !ok {
			si = len(out)
			index[id] = si
			out = append(out, Section{ID: id})
		}
		s := &out[si]

		if h := get("heading"); h != "" || len(s.Blocks) == 0 {
			s.Blocks = append(s.Blocks, inject.Block{Heading: h})
		}
		blk := &s.Blocks[len(s.Blocks)-1]
		if p := get("image_path"); p != "" {
			blk.ImagePath = p
		}
		if text := get("text"); text != "" {
			item := inject.Item{Text: text, Type: get("type")}
			if item.Type == "" {
				item.Type = "paragraph"
			}
			if lv := get("level"); lv != "" {
				n, err := strconv.Atoi(lv)
				if err != nil {
					return nil, fmt.Errorf("row %d: invalid level %q", i, lv)
				}
				item.Level = n
			}
			blk.Items = append(blk.Items, item)
		}
	}
	return out, nil
}
