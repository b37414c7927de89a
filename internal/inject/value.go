package inject

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Meta keys understood by the table strategies.
const (
	MetaInsertIndex       = "insert_index"
	MetaTemplateRowIndex  = "template_row_index"
	MetaDeleteTemplateRow = "delete_template_row"
)

// Meta carries strategy options alongside an injected value.
type Meta map[string]any

// Has reports whether key is set.
func (m Meta) Has(key string) bool {
	_, ok := m[key]
	return ok
}

// Int returns key as an integer. Missing keys and values that are not
// integers are errors.
func (m Meta) Int(key string) (int, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, fmt.Errorf("meta %q is required", key)
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	case float64:
		if n != float64(int(n)) {
			return 0, fmt.Errorf("meta %q is not an integer: %v", key, n)
		}
		return int(n), nil
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, fmt.Errorf("meta %q is not an integer: %q", key, n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("meta %q has unsupported type %T", key, v)
	}
}

// IntOr returns key as an integer, or def when it is missing or not an integer.
func (m Meta) IntOr(key string, def int) int {
	i, err := m.Int(key)
	if err != nil {
		return def
	}
	return i
}

// Bool returns key as a boolean; missing keys are false.
func (m Meta) Bool(key string) bool {
	switch b := m[key].(type) {
	case bool:
		return b
	case string:
		v, _ := strconv.ParseBool(b)
		return v
	}
	return false
}

// Value is a value produced by a data source together with its meta options.
type Value struct {
	Data any
	Meta Meta
}

// NewValue creates a value without meta.
func NewValue(data any) Value {
	return Value{Data: data, Meta: Meta{}}
}

// WithMeta returns a copy of v with key set.
func (v Value) WithMeta(key string, val any) Value {
	meta := make(Meta, len(v.Meta)+1)
	for k, x := range v.Meta {
		meta[k] = x
	}
	meta[key] = val
	v.Meta = meta
	return v
}

// AsString converts a scalar value to text.
func AsString(v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", fmt.Errorf("value is nil")
	case string:
		return s, nil
	case fmt.Stringer:
		return s.String(), nil
	case []any, []string, map[string]any:
		return "", fmt.Errorf("expected a scalar value, got %T", v)
	default:
		return scalarString(v), nil
	}
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case bool:
		return strconv.FormatBool(s)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

// AsRows converts a value to table rows. A flat list is a single row.
func AsRows(v any) ([][]string, error) {
	switch rows := v.(type) {
	case [][]string:
		return rows, nil
	case []string:
		return [][]string{rows}, nil
	case []any:
		if len(rows) == 0 {
			return [][]string{}, nil
		}
		if !isList(rows[0]) {
			row, err := asRow(rows)
			if err != nil {
				return nil, err
			}
			return [][]string{row}, nil
		}
		out := make([][]string, 0, len(rows))
		for i, r := range rows {
			if !isList(r) {
				return nil, fmt.Errorf("row %d: expected a list, got %T", i, r)
			}
			row, err := asRow(r)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			out = append(out, row)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list of rows, got %T", v)
	}
}

func isList(v any) bool {
	switch v.(type) {
	case []any, []string:
		return true
	}
	return false
}

func asRow(v any) ([]string, error) {
	switch r := v.(type) {
	case []string:
		return r, nil
	case []any:
		row := make([]string, len(r))
		for i, cell := range r {
			if isList(cell) {
				return nil, fmt.Errorf("cell %d: expected a scalar, got %T", i, cell)
			}
			row[i] = scalarString(cell)
		}
		return row, nil
	default:
		return nil, fmt.Errorf("expected a list, got %T", v)
	}
}

// Item is one line of a content block.
type Item struct {
	Text  string `json:"text" yaml:"text"`
	Type  string `json:"type" yaml:"type"` // paragraph or bullet
	Level int    `json:"level,omitempty" yaml:"level,omitempty"`
}

// Block is a heading followed by paragraph and bullet items.
type Block struct {
	Heading   string `json:"heading,omitempty" yaml:"heading,omitempty"`
	Items     []Item `json:"items" yaml:"items"`
	ImagePath string `json:"image_path,omitempty" yaml:"image_path,omitempty"`
}

// AsBlocks converts a value to content blocks. Generic maps and lists, as
// decoded from YAML or JSON data, are accepted.
func AsBlocks(v any) ([]Block, error) {
	switch b := v.(type) {
	case []Block:
		return b, nil
	case Block:
		return []Block{b}, nil
	case map[string]any:
		v = []any{b}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode blocks: %w", err)
	}
	var blocks []Block
	if err := json.Unmarshal(data, &blocks); err != nil {
		return nil, fmt.Errorf("expected a list of blocks: %w", err)
	}
	return blocks, nil
}
