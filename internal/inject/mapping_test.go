package inject

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMapping = `
bindings:
  - name: title
    strategy: shape_text
    slide: title_slide
    shape: ELE_TITLE_SHAPE
    value: title
  - name: department
    strategy: table_cell
    slide: basic_info_slide
    shape: ELE_BASICINFO_TABLE
    marker: ELE_DEPARTMENT_RUN_SAMPLE
    value: department
  - name: members
    strategy: table_rows
    slide: basic_info_slide
    shape: ELE_BASICINFO_TABLE
    value: 'map(members, [.no, .name, .status])'
    meta:
      template_row_index: 2
      delete_template_row: true
`

func TestLoadMapping_AndRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleMapping), 0644))

	m, err := LoadMapping(path)
	require.NoError(t, err)
	require.Len(t, m.Bindings, 3)
	assert.Empty(t, m.Lint())

	reg, err := m.Registry(nil)
	require.NoError(t, err)
	assert.Equal(t, 3, reg.Len())

	doc := testDoc()
	data := map[string]any{
		"title":      "Smart Widget",
		"department": "Research",
		"members": []any{
			map[string]any{"no": 1, "name": "Kim", "status": "active"},
			map[string]any{"no": 2, "name": "Lee", "status": "active"},
			map[string]any{"no": 3, "name": "Park", "status": "left"},
		},
	}
	report, err := NewEngine(reg).Run(context.Background(), doc, data)
	require.NoError(t, err)
	assert.Len(t, report.Applied, 3)

	tbl := doc.Slides[1].Shapes[0].Table
	assert.Equal(t, "Smart Widget", doc.Slides[0].Shapes[0].Text.PlainText())
	assert.Equal(t, "Research", tbl.Data[0][1])
	assert.Equal(t, 5, tbl.Rows)
	assert.Equal(t, []string{"3", "Park", "left"}, tbl.Data[4])
}

func TestMapping_Lint(t *testing.T) {
	m, err := ParseMapping([]byte(`
bindings:
  - name: a
    strategy: nope
    slide: s
    shape: x
    value: a
  - name: a
    strategy: table_cell
    slide: s
    value: 'a +'
  - strategy: table_rows
    slide: s
    shape: x
    value: rows
`))
	require.NoError(t, err)

	var msgs []string
	for _, i := range m.Lint() {
		msgs = append(msgs, i.Message)
	}
	joined := strings.Join(msgs, "\n")
	for _, want := range []string{
		`unknown strategy "nope"`,
		"binding a: duplicate name",
		"slide and shape are required",
		"table_cell requires a marker",
		"invalid value expression",
		"binding #3: name is required",
		`meta "template_row_index" is required`,
	} {
		assert.Contains(t, joined, want)
	}
}

func TestMapping_Validate(t *testing.T) {
	m, err := ParseMapping([]byte(sampleMapping))
	require.NoError(t, err)
	m.Bindings[1].Marker = "ELE_UNKNOWN_RUN_SAMPLE"

	doc := testDoc()
	issues := m.Validate(doc)

	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "department")
	assert.Contains(t, issues[0].Message, "ELE_UNKNOWN_RUN_SAMPLE")
	assert.Equal(t, 3, doc.Slides[1].Shapes[0].Table.Rows)
}

func TestParseMapping_Invalid(t *testing.T) {
	_, err := ParseMapping([]byte("bindings: [unclosed"))
	assert.Error(t, err)
}
