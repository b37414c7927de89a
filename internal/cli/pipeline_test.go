package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboco-io/pptxinject/internal/config"
	"github.com/roboco-io/pptxinject/internal/ir"
	"github.com/roboco-io/pptxinject/internal/parser"
	reader "github.com/roboco-io/pptxinject/internal/parser/pptx"
	writer "github.com/roboco-io/pptxinject/internal/writer/pptx"
)

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the command line with an isolated configuration file.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, filepath.Join(t.TempDir(), "config.yaml"))
	t.Setenv(config.EnvLogLevel, "")
	t.Setenv(config.EnvProvider, "")
	t.Setenv(config.EnvRefine, "")

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	defer func() {
		resetFlags(rootCmd)
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func cellFont() ir.Font {
	return ir.Font{Name: "Malgun Gothic", Size: ir.Float(11), Bold: ir.Bool(false), Italic: ir.Bool(false), Color: ir.RGB(0, 0, 0)}
}

func body(text string) *ir.TextBody {
	tb := &ir.TextBody{Format: ir.TextFrameFormat{Margins: ir.DefaultMargins}}
	p := &ir.Paragraph{Font: cellFont()}
	p.AddRun(&ir.Run{Text: text, Font: cellFont()})
	tb.AddParagraph(p)
	return tb
}

// writeTemplate creates a one-slide package with a title placeholder and a
// member table whose second row is the row template.
func writeTemplate(t *testing.T, dir string) string {
	t.Helper()
	doc := ir.NewPresentation(12192000, 6858000)
	s := ir.NewSlide("256")
	s.TagInfo = map[string]string{ir.InjectIDKey: "cover"}
	doc.AddSlide(s)

	s.AddShape(&ir.Shape{
		Name:     "Title",
		Type:     ir.ShapeTypeTextBox,
		Position: ir.Position{X: 100, Y: 100, Width: 5000000, Height: 500000},
		Text:     body("TITLE_PLACEHOLDER"),
	})

	tbl := ir.NewTable(2, 2)
	cells := [][]string{{"Department", "ELE_DEPT"}, {"no", "name"}}
	for r, row := range cells {
		for c, v := range row {
			tbl.Data[r][c] = v
			tbl.DataDetail[r][c] = body(v)
			tbl.CellFills[r][c] = ir.RGB(0xFF, 0xFF, 0xFF)
		}
		tbl.RowHeights[r] = 300000
	}
	tbl.ColWidths = []int64{2000000, 2000000}
	s.AddShape(&ir.Shape{
		Name:     "Members",
		Type:     ir.ShapeTypeTable,
		Position: ir.Position{X: 100, Y: 1000000, Width: 4000000, Height: 600000},
		Table:    tbl,
	})

	path := filepath.Join(dir, "template.pptx")
	require.NoError(t, writer.NewWriter(writer.DefaultOptions()).Write(doc, path))
	return path
}

const testMapping = `bindings:
  - name: title
    strategy: shape_text
    slide: cover
    shape: Title
    value: title
  - name: department
    strategy: table_cell
    slide: cover
    shape: Members
    marker: ELE_DEPT
    value: department
  - name: members
    strategy: table_rows
    slide: cover
    shape: Members
    value: 'map(members, [.no, .name])'
    meta:
      template_row_index: 1
      delete_template_row: true
`

const testData = `title: 발명신고서
department: 연구소
members:
  - no: 1
    name: Kim
  - no: 2
    name: Lee
`

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readPackage(t *testing.T, path string) *ir.Presentation {
	t.Helper()
	opts := parser.DefaultOptions()
	opts.OutputDir = t.TempDir()
	doc, err := reader.Read(path, opts)
	require.NoError(t, err)
	return doc
}

func findShape(t *testing.T, doc *ir.Presentation, name string) *ir.Shape {
	t.Helper()
	require.NotEmpty(t, doc.Slides)
	for _, sh := range doc.Slides[0].Shapes {
		if sh.Name == name {
			return sh
		}
	}
	t.Fatalf("shape %s not found", name)
	return nil
}

func TestVersionOutput(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "pptxinject ")
}

func TestDumpAndBuild(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir)
	irPath := filepath.Join(dir, "ir", "template.json")

	_, stderr, err := execute(t, "dump", template, "-o", irPath)
	require.NoError(t, err)
	assert.Contains(t, stderr, "IR 덤프 완료")

	doc, err := ir.LoadJSON(irPath)
	require.NoError(t, err)
	require.Len(t, doc.Slides, 1)
	assert.Equal(t, "cover", doc.Slides[0].InjectID())

	out := filepath.Join(dir, "rebuilt.pptx")
	_, _, err = execute(t, "build", irPath, "-o", out, "--title", "Rebuilt")
	require.NoError(t, err)

	rebuilt := readPackage(t, out)
	assert.Equal(t, "TITLE_PLACEHOLDER", findShape(t, rebuilt, "Title").Text.PlainText())
	assert.Equal(t, "ELE_DEPT", findShape(t, rebuilt, "Members").Table.Data[0][1])
}

func TestDump_TextFormat(t *testing.T) {
	template := writeTemplate(t, t.TempDir())

	stdout, _, err := execute(t, "dump", template, "--format", "text", "--no-images")
	require.NoError(t, err)
	assert.Contains(t, stdout, `"Members"`)
	assert.Contains(t, stdout, "inject_id=cover")
}

func TestDescribe_MaxDepth(t *testing.T) {
	template := writeTemplate(t, t.TempDir())

	stdout, _, err := execute(t, "describe", template, "--max-depth", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "inject_id=cover")
	assert.NotContains(t, stdout, `"Title"`)
}

// assertCellFont checks that f is still the template's cell font.
func assertCellFont(t *testing.T, f ir.Font) {
	t.Helper()
	assert.Equal(t, "Malgun Gothic", f.Name)
	if assert.NotNil(t, f.Size) {
		assert.Equal(t, 11.0, *f.Size)
	}
	if assert.NotNil(t, f.Bold) {
		assert.False(t, *f.Bold)
	}
}

func TestInject_Mapping(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir)
	mapPath := writeFile(t, filepath.Join(dir, "map.yaml"), testMapping)
	dataPath := writeFile(t, filepath.Join(dir, "data.yaml"), testData)
	out := filepath.Join(dir, "out.pptx")
	irOut := filepath.Join(dir, "ir", "out.json")

	stdout, _, err := execute(t, "inject", template, "--data", dataPath, "--map", mapPath, "-o", out, "--ir-out", irOut)
	require.NoError(t, err)
	assert.Contains(t, stdout, "적용: 3개 바인딩")

	doc := readPackage(t, out)
	assert.Equal(t, "발명신고서", findShape(t, doc, "Title").Text.PlainText())
	tbl := findShape(t, doc, "Members").Table
	require.Equal(t, 3, tbl.Rows)
	assert.Equal(t, "연구소", tbl.Data[0][1])
	assert.Equal(t, []string{"1", "Kim"}, tbl.Data[1])
	assert.Equal(t, []string{"2", "Lee"}, tbl.Data[2])

	title := findShape(t, doc, "Title").Text.Paragraphs[0].Runs[0]
	assertCellFont(t, title.Font)
	for r := 1; r <= 2; r++ {
		for c := 0; c < 2; c++ {
			assert.Equal(t, ir.RGB(0xFF, 0xFF, 0xFF), tbl.CellFills[r][c], "row %d col %d fill", r, c)
			detail := tbl.DataDetail[r][c]
			require.NotNil(t, detail, "row %d col %d", r, c)
			require.NotEmpty(t, detail.Paragraphs)
			require.NotEmpty(t, detail.Paragraphs[0].Runs)
			assertCellFont(t, detail.Paragraphs[0].Runs[0].Font)
		}
	}

	saved, err := ir.LoadJSON(irOut)
	require.NoError(t, err)
	assert.Equal(t, 3, findShape(t, saved, "Members").Table.Rows)
}

func TestInject_DryRunLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir)
	mapPath := writeFile(t, filepath.Join(dir, "map.yaml"), testMapping)
	dataPath := writeFile(t, filepath.Join(dir, "data.yaml"), testData)
	out := filepath.Join(dir, "out.pptx")

	stdout, _, err := execute(t, "inject", template, "--data", dataPath, "--map", mapPath, "-o", out, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, stdout, "적용 가능: 3개 바인딩")
	assert.NoFileExists(t, out)
}

func TestInject_RequiresOutput(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir)
	mapPath := writeFile(t, filepath.Join(dir, "map.yaml"), testMapping)

	_, _, err := execute(t, "inject", template, "--map", mapPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "출력 경로")
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir)
	good := writeFile(t, filepath.Join(dir, "map.yaml"), testMapping)
	bad := writeFile(t, filepath.Join(dir, "bad.yaml"), `bindings:
  - name: department
    strategy: table_cell
    slide: cover
    shape: Members
    marker: ELE_MISSING
    value: department
`)

	stdout, _, err := execute(t, "validate", template, "--map", good)
	require.NoError(t, err)
	assert.Contains(t, stdout, "문제 없음")

	stdout, _, err = execute(t, "validate", template, "--map", bad)
	require.Error(t, err)
	assert.Contains(t, stdout, "ELE_MISSING")
}

func TestConfigCommands(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	stdout, _, err := execute(t, "--config", cfgPath, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, stdout, cfgPath)

	_, _, err = execute(t, "--config", cfgPath, "config", "set", "refine.language", "en")
	require.NoError(t, err)

	_, _, err = execute(t, "--config", cfgPath, "config", "set", "log.format", "xml")
	require.Error(t, err)

	cfg, err := config.NewLoaderWithPath(cfgPath).LoadRaw()
	require.NoError(t, err)
	assert.Equal(t, "en", cfg.Refine.Language)
	assert.Equal(t, "text", cfg.Log.Format)

	stdout, _, err = execute(t, "--config", cfgPath, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, stdout, cfgPath)
}

func TestProvidersOutput(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	stdout, _, err := execute(t, "providers")
	require.NoError(t, err)
	assert.Contains(t, stdout, "ollama")
	assert.Contains(t, stdout, "anthropic")
	assert.Contains(t, stdout, "(기본)")
}
