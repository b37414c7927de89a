// Package datactx loads the data context that injection bindings read from.
package datactx

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Context is a tree of plain values: maps, lists and scalars.
type Context struct {
	data   map[string]any
	source string
}

// New wraps data. A nil map gives an empty context.
func New(data map[string]any) *Context {
	if data == nil {
		data = make(map[string]any)
	}
	return &Context{data: data}
}

// Load reads a data context from a .yaml, .yml, .json or .xlsx file.
func Load(path string) (*Context, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" {
		return loadXLSX(path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var data map[string]any
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &data)
	case ".json":
		err = json.Unmarshal(raw, &data)
	default:
		return nil, fmt.Errorf("unsupported data file format: %s", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse data file %s: %w", path, err)
	}

	c := New(normalizeMap(data))
	c.source = path
	return c, nil
}

// Map returns the underlying data. Bindings evaluate against it directly.
func (c *Context) Map() map[string]any {
	return c.data
}

// Source returns the file the context was loaded from, if any.
func (c *Context) Source() string {
	return c.source
}

// Keys returns the top-level keys in sorted order.
func (c *Context) Keys() []string {
	keys := make([]string, 0, len(c.data))
	for k := range c.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get looks up a dotted path such as "basic_info.department". Numeric
// segments index into lists.
func (c *Context) Get(path string) (any, bool) {
	var cur any = c.data
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			var i int
			if _, err := fmt.Sscanf(seg, "%d", &i); err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// String returns the value at path as text; missing values are "".
func (c *Context) String(path string) string {
	v, ok := c.Get(path)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Set assigns a top-level key.
func (c *Context) Set(key string, v any) {
	c.data[key] = normalize(v)
}

// Merge copies other's top-level keys over c.
func (c *Context) Merge(other *Context) {
	if other == nil {
		return
	}
	for k, v := range other.data {
		c.data[k] = v
	}
}

// Decode converts the context into a typed value through its JSON form.
func (c *Context) Decode(v any) error {
	raw, err := json.Marshal(c.data)
	if err != nil {
		return fmt.Errorf("failed to encode data context: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode data context: %w", err)
	}
	return nil
}

func normalizeMap(m map[string]any) map[string]any {
	if m == nil {
		return make(map[string]any)
	}
	for k, v := range m {
		m[k] = normalize(v)
	}
	return m
}

// normalize turns yaml's map[any]any nodes into map[string]any so the
// expression engine and JSON encoding see one map type.
func normalize(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return normalizeMap(x)
	case map[any]any:
		m := make(map[string]any, len(x))
		for k, val := range x {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case []any:
		for i := range x {
			x[i] = normalize(x[i])
		}
		return x
	default:
		return v
	}
}
