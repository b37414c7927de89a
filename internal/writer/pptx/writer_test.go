package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboco-io/pptxinject/internal/ir"
	"github.com/roboco-io/pptxinject/internal/parser"
	reader "github.com/roboco-io/pptxinject/internal/parser/pptx"
	"github.com/roboco-io/pptxinject/internal/writer"
)

func font() ir.Font {
	return ir.Font{
		Name:   "Malgun Gothic",
		Size:   ir.Float(14),
		Bold:   ir.Bool(false),
		Italic: ir.Bool(false),
		Color:  ir.RGB(0x11, 0x22, 0x33),
	}
}

func styledBody(lines ...string) *ir.TextBody {
	tb := &ir.TextBody{Format: ir.TextFrameFormat{Margins: ir.DefaultMargins, Anchor: ir.AnchorMiddle}}
	for _, line := range lines {
		p := &ir.Paragraph{Font: font()}
		p.AddRun(&ir.Run{Text: line, Font: font()})
		tb.AddParagraph(p)
	}
	return tb
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// gridTable is a 3x3 table whose bottom-right 2x2 block is merged.
func gridTable() *ir.Table {
	tbl := ir.NewTable(3, 3)
	tbl.ColWidths = []int64{1000, 2000, 3000}
	tbl.RowHeights = []int64{300, 400, 500}
	tbl.MergeInfo = []ir.MergeRegion{{Row: 1, Col: 1, RowSpan: 2, ColSpan: 2}}
	border := ir.UniformBorder(ir.BorderStyle{Color: ir.RGB(0, 0, 0), Width: ir.Pt(1)})
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if tbl.MergeInfo[0].Contains(r, c) && !(r == 1 && c == 1) {
				tbl.DataDetail[r][c] = nil
				tbl.Data[r][c] = ""
				tbl.CellFills[r][c] = ir.ColorValue{}
				continue
			}
			text := string(rune('A'+r)) + string(rune('1'+c))
			tbl.Data[r][c] = text
			tbl.DataDetail[r][c] = styledBody(text)
			tbl.CellFills[r][c] = ir.RGB(0xD9, 0xD9, uint8(r*16+c))
			tbl.CellBorders[r][c] = border
		}
	}
	return tbl
}

func sampleDoc(t *testing.T, base string) *ir.Presentation {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(base, "asset"), 0755))
	logo := pngBytes(t, 4, 3)
	require.NoError(t, os.WriteFile(filepath.Join(base, "asset", "logo.png"), logo, 0644))

	doc := ir.NewPresentation(12192000, 6858000)
	s := ir.NewSlide("300")
	s.TagInfo = map[string]string{ir.InjectIDKey: "cover"}
	doc.AddSlide(s)

	title := &ir.Shape{
		Name:     "Title",
		Type:     ir.ShapeTypeTextBox,
		Position: ir.Position{X: 10, Y: 20, Width: 3000, Height: 400},
		Fill:     ir.RGB(0xFF, 0xF2, 0xCC),
		Border:   &ir.BorderStyle{Color: ir.RGB(0, 0, 0), Width: ir.Pt(1), Dash: "dash"},
		Text:     styledBody("Hello", "one\ntwo"),
	}
	title.Text.Format.Wrap = ir.Bool(true)
	title.Text.Paragraphs[0].Alignment = ir.AlignCenter
	title.Text.Paragraphs[1].Bullet = ir.NewCharBullet("•")
	title.Text.Paragraphs[1].LeftIndent = ir.Float(18)
	title.Text.Paragraphs[1].FirstLineIndent = ir.Float(-9)
	title.Text.Paragraphs[1].LineSpacing = ir.Float(1.5)
	title.Text.Paragraphs[1].Level = 1
	s.AddShape(title)

	s.AddShape(&ir.Shape{
		Name:     "Grid",
		Type:     ir.ShapeTypeTable,
		Position: ir.Position{X: 0, Y: 500, Width: 6000, Height: 1200},
		Table:    gridTable(),
	})

	img := ir.NewImageRef("asset/logo.png", int64(len(logo)))
	img.SetDimensions(4, 3)
	s.AddShape(&ir.Shape{
		Name:     "Logo",
		Type:     ir.ShapeTypePicture,
		Position: ir.Position{X: 7000, Y: 20, Width: 400, Height: 300},
		Image:    img,
	})
	return doc
}

func writeOptions(base string) Options {
	opts := DefaultOptions()
	opts.AssetBase = base
	opts.Title = "Quarterly report"
	opts.Now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return opts
}

func readBack(t *testing.T, path string) (*ir.Presentation, string) {
	t.Helper()
	out := t.TempDir()
	opts := parser.DefaultOptions()
	opts.OutputDir = out
	doc, err := reader.Read(path, opts)
	require.NoError(t, err)
	return doc, out
}

func TestWrite_RoundTrip(t *testing.T) {
	base := t.TempDir()
	doc := sampleDoc(t, base)
	path := filepath.Join(t.TempDir(), "out", "deck.pptx")

	w := NewWriter(writeOptions(base))
	require.NoError(t, w.Write(doc, path))
	assert.Empty(t, w.AssetErrors())

	got, assetDir := readBack(t, path)
	assert.Equal(t, doc.SlideWidth, got.SlideWidth)
	assert.Equal(t, doc.SlideHeight, got.SlideHeight)
	require.Len(t, got.Slides, 1)

	slide := got.Slides[0]
	assert.Equal(t, "300", slide.SlideID)
	assert.Equal(t, "cover", slide.InjectID())

	names := make([]string, 0, len(slide.Shapes))
	for _, sh := range slide.Shapes {
		names = append(names, sh.Name)
	}
	assert.Equal(t, []string{"Title", "Grid", "Logo", ir.SlideInfoShapeName}, names)

	t.Run("text", func(t *testing.T) {
		want := doc.Slides[0].Shapes[0]
		sh := slide.Shapes[0]
		assert.Equal(t, ir.ShapeTypeTextBox, sh.Type)
		assert.Equal(t, want.Position, sh.Position)
		assert.Equal(t, want.Fill, sh.Fill)
		assert.Equal(t, want.Border, sh.Border)
		require.NotNil(t, sh.Text)
		assert.Equal(t, want.Text.Format, sh.Text.Format)
		assert.Equal(t, "Hello\none\ntwo", sh.Text.PlainText())

		require.Len(t, sh.Text.Paragraphs, 2)
		first, second := sh.Text.Paragraphs[0], sh.Text.Paragraphs[1]
		assert.Equal(t, ir.AlignCenter, first.Alignment)
		assert.Equal(t, font(), first.Font)
		assert.Equal(t, font(), first.Runs[0].Font)

		require.NotNil(t, second.Bullet)
		assert.Equal(t, "•", second.Bullet.Char)
		assert.Equal(t, 18.0, *second.LeftIndent)
		assert.Equal(t, -9.0, *second.FirstLineIndent)
		assert.Equal(t, 1.5, *second.LineSpacing)
		assert.Equal(t, 1, second.Level)
		require.Len(t, second.Runs, 2)
		assert.Equal(t, "one\n", second.Runs[0].Text)
		assert.Equal(t, "two", second.Runs[1].Text)
	})

	t.Run("table", func(t *testing.T) {
		want := doc.Slides[0].Shapes[1].Table
		tbl := slide.Shapes[1].Table
		require.NotNil(t, tbl)
		assert.Equal(t, want.Rows, tbl.Rows)
		assert.Equal(t, want.Cols, tbl.Cols)
		assert.Equal(t, want.Data, tbl.Data)
		assert.Equal(t, want.MergeInfo, tbl.MergeInfo)
		assert.Equal(t, want.ColWidths, tbl.ColWidths)
		assert.Equal(t, want.RowHeights, tbl.RowHeights)
		assert.Equal(t, want.CellFills, tbl.CellFills)

		assert.Nil(t, tbl.DataDetail[1][2])
		assert.Nil(t, tbl.DataDetail[2][1])
		assert.Nil(t, tbl.DataDetail[2][2])
		assert.Equal(t, want.CellBorders[0][0], tbl.CellBorders[0][0])
		assert.Nil(t, tbl.CellBorders[0][0].DiagonalDown)

		cell := tbl.DataDetail[1][1]
		require.NotNil(t, cell)
		assert.Equal(t, ir.AnchorMiddle, cell.Format.Anchor)
		assert.Equal(t, ir.DefaultMargins, cell.Format.Margins)
		assert.Equal(t, font(), cell.Paragraphs[0].Runs[0].Font)
		for _, issue := range tbl.Validate() {
			assert.NotEqual(t, ir.SeverityError, issue.Severity, issue.Message)
		}
	})

	t.Run("image", func(t *testing.T) {
		sh := slide.Shapes[2]
		assert.Equal(t, ir.ShapeTypePicture, sh.Type)
		require.NotNil(t, sh.Image)
		assert.Equal(t, 4, sh.Image.Width)
		assert.Equal(t, 3, sh.Image.Height)
		assert.Equal(t, "image/png", sh.Image.ContentType)

		want, err := os.ReadFile(filepath.Join(base, "asset", "logo.png"))
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(assetDir, filepath.FromSlash(sh.Image.Filename)))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("slide info", func(t *testing.T) {
		sh := slide.Shapes[3]
		assert.True(t, sh.Hidden)
		assert.Equal(t, `{"inject_id":"cover"}`, sh.Text.PlainText())
	})
}

func TestWrite_PackageParts(t *testing.T) {
	base := t.TempDir()
	doc := sampleDoc(t, base)
	// the same file twice is stored once
	second := *doc.Slides[0].Shapes[2]
	second.Name = "Logo 2"
	doc.Slides[0].AddShape(&second)

	var buf bytes.Buffer
	w := NewWriter(writeOptions(base))
	require.NoError(t, w.WriteTo(&buf, doc))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	parts := make(map[string]*zip.File)
	var media []string
	for _, f := range zr.File {
		parts[f.Name] = f
		if strings.HasPrefix(f.Name, "ppt/media/") {
			media = append(media, f.Name)
		}
	}
	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"docProps/app.xml",
		"docProps/core.xml",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/_rels/slide1.xml.rels",
	} {
		assert.Contains(t, parts, name)
	}
	assert.Equal(t, []string{"ppt/media/image1.png"}, media)
	assert.Equal(t, "[Content_Types].xml", zr.File[0].Name)

	core := readPart(t, parts["docProps/core.xml"])
	assert.Contains(t, core, "<dc:title>Quarterly report</dc:title>")
	assert.Contains(t, core, "2026-01-02T03:04:05Z")

	ct := readPart(t, parts["[Content_Types].xml"])
	assert.Contains(t, ct, `Extension="png"`)
	assert.Contains(t, ct, `/ppt/slides/slide1.xml`)
}

func readPart(t *testing.T, f *zip.File) string {
	t.Helper()
	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(rc)
	require.NoError(t, err)
	return buf.String()
}

func TestWrite_MissingImage(t *testing.T) {
	base := t.TempDir()
	doc := sampleDoc(t, base)
	doc.Slides[0].Shapes[2].Image.Filename = "asset/missing.png"
	path := filepath.Join(t.TempDir(), "deck.pptx")

	w := NewWriter(writeOptions(base))
	require.NoError(t, w.Write(doc, path))

	require.Len(t, w.AssetErrors(), 1)
	var ae *ir.AssetIOError
	require.True(t, errors.As(w.AssetErrors()[0], &ae))
	assert.Equal(t, "Logo", ae.Loc.Shape)
	assert.Equal(t, 1, ae.Loc.SlideNumber)
	assert.ErrorIs(t, ae, os.ErrNotExist)

	got, _ := readBack(t, path)
	require.Len(t, got.Slides[0].Shapes, 4)
	logo := got.Slides[0].Shapes[2]
	assert.Equal(t, "Logo", logo.Name)
	assert.Nil(t, logo.Image)
	assert.Equal(t, ir.Position{X: 7000, Y: 20, Width: 400, Height: 300}, logo.Position)
}

func TestWrite_InvalidDocumentLeavesNoFile(t *testing.T) {
	base := t.TempDir()
	doc := sampleDoc(t, base)
	tbl := doc.Slides[0].Shapes[1].Table
	tbl.Data = tbl.Data[:2]

	dir := t.TempDir()
	path := filepath.Join(dir, "deck.pptx")
	err := Write(doc, path, writeOptions(base))
	require.Error(t, err)
	var ve *ir.ValidationError
	assert.True(t, errors.As(err, &ve))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWrite_RefreshesSlideInfo(t *testing.T) {
	doc := ir.NewPresentation(9144000, 6858000)
	s := ir.NewSlide("")
	doc.AddSlide(s)
	info := &ir.Shape{Name: ir.SlideInfoShapeName, Type: ir.ShapeTypeTextBox, Hidden: true, Text: styledBody(`{"inject_id":"old"}`)}
	s.AddShape(info)
	s.TagInfo = map[string]string{ir.InjectIDKey: "new", "owner": "kim"}

	path := filepath.Join(t.TempDir(), "deck.pptx")
	require.NoError(t, Write(doc, path, DefaultOptions()))

	got, _ := readBack(t, path)
	slide := got.Slides[0]
	require.Len(t, slide.Shapes, 1)
	assert.Equal(t, "256", slide.SlideID)
	assert.Equal(t, map[string]string{ir.InjectIDKey: "new", "owner": "kim"}, slide.TagInfo)
	assert.Equal(t, font(), slide.Shapes[0].Text.Paragraphs[0].Runs[0].Font)

	// the input document is left untouched
	assert.Equal(t, `{"inject_id":"old"}`, info.Text.PlainText())
}

func TestWrite_ConnectorLine(t *testing.T) {
	doc := ir.NewPresentation(9144000, 6858000)
	s := ir.NewSlide("")
	doc.AddSlide(s)
	s.AddShape(&ir.Shape{
		Name:     "Divider",
		Type:     ir.ShapeTypeOther,
		Position: ir.Position{X: 0, Y: 100, Width: 5000},
		Border:   &ir.BorderStyle{Color: ir.RGB(0xFF, 0, 0), Width: ir.Pt(2), Dash: "sysDot"},
	})

	path := filepath.Join(t.TempDir(), "deck.pptx")
	require.NoError(t, Write(doc, path, DefaultOptions()))

	got, _ := readBack(t, path)
	sh := got.Slides[0].Shapes[0]
	assert.Equal(t, ir.ShapeTypeOther, sh.Type)
	assert.Equal(t, s.Shapes[0].Border, sh.Border)
}

func TestSlideIDs(t *testing.T) {
	slides := []*ir.Slide{
		ir.NewSlide("300"),
		ir.NewSlide("300"),
		ir.NewSlide("abc"),
		ir.NewSlide("10"),
		ir.NewSlide(""),
		ir.NewSlide("0300"),
	}
	assert.Equal(t, []int64{300, 301, 302, 303, 304, 305}, slideIDs(slides))
}

func TestOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Equal(t, ".", opts.AssetBase)
	assert.Equal(t, "pptxinject", opts.application())
	opts.Application = "deckbot"
	assert.Equal(t, "deckbot", opts.application())

	var _ writer.Writer = NewWriter(opts)
}
