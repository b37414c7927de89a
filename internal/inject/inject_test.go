package inject

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboco-io/pptxinject/internal/ir"
)

func textShape(name, text string, size float64, bold bool) *ir.Shape {
	body := &ir.TextBody{Format: ir.TextFrameFormat{Margins: ir.DefaultMargins}}
	p := &ir.Paragraph{Alignment: ir.AlignLeft, Font: ir.Font{Size: ir.Float(size)}}
	p.AddRun(&ir.Run{Text: text, Font: ir.Font{Name: "Arial", Size: ir.Float(size), Bold: ir.Bool(bold), Italic: ir.Bool(true), Color: ir.RGB(0x33, 0x33, 0x33)}})
	body.AddParagraph(p)
	return &ir.Shape{Name: name, Type: ir.ShapeTypeTextBox, Text: body}
}

func cellBody(text string) *ir.TextBody {
	tb := &ir.TextBody{Format: ir.TextFrameFormat{Margins: ir.DefaultMargins}}
	p := &ir.Paragraph{Alignment: ir.AlignCenter}
	p.AddRun(&ir.Run{Text: text, Font: ir.Font{Name: "Gulim", Size: ir.Float(10), Bold: ir.Bool(true)}})
	tb.AddParagraph(p)
	return tb
}

func infoTable() *ir.Table {
	tbl := ir.NewTable(3, 3)
	cells := [][]string{
		{"Department", "ELE_DEPARTMENT_RUN_SAMPLE", "x"},
		{"Project", "ELE_PROJECTNAME_RUN_SAMPLE", "y"},
		{"no", "name", "status"},
	}
	for r, row := range cells {
		for c, v := range row {
			tbl.Data[r][c] = v
			tbl.DataDetail[r][c] = cellBody(v)
		}
		tbl.RowHeights[r] = 300000
	}
	for c := range tbl.ColWidths {
		tbl.ColWidths[c] = 1000000
	}
	for c := 0; c < 3; c++ {
		tbl.CellFills[2][c] = ir.RGB(0xFF, 0xFF, 0)
	}
	return tbl
}

func testDoc() *ir.Presentation {
	doc := ir.NewPresentation(12192000, 6858000)

	title := ir.NewSlide("256")
	title.TagInfo = map[string]string{ir.InjectIDKey: "title_slide"}
	title.AddShape(textShape("ELE_TITLE_SHAPE", "Hello", 14, false))
	title.AddShape(&ir.Shape{Name: "ELE_IMAGE_CONTENT_AREA", Type: ir.ShapeTypeAutoShape})
	doc.AddSlide(title)

	info := ir.NewSlide("257")
	info.TagInfo = map[string]string{ir.InjectIDKey: "basic_info_slide"}
	info.AddShape(&ir.Shape{Name: "ELE_BASICINFO_TABLE", Type: ir.ShapeTypeTable, Table: infoTable()})
	info.AddShape(textShape("ELE_PARAGRAPH_CONTENT_AREA", "template", 12, false))
	doc.AddSlide(info)
	return doc
}

func TestShapeText_PreservesStyle(t *testing.T) {
	doc := testDoc()

	err := NewShapeText("title_slide", "ELE_TITLE_SHAPE").Inject(doc, NewValue("World"))
	require.NoError(t, err)

	p := doc.Slides[0].Shapes[0].Text.Paragraphs[0]
	require.Len(t, p.Runs, 1)
	run := p.Runs[0]
	assert.Equal(t, "World", run.Text)
	assert.Equal(t, 14.0, *run.Size)
	assert.False(t, *run.Bold)
	assert.True(t, *run.Italic)
	assert.Equal(t, "Arial", run.Name)
	assert.Equal(t, "World", p.Text)
}

func TestShapeTextReset(t *testing.T) {
	doc := testDoc()

	inj := NewShapeTextReset("title_slide", "ELE_TITLE_SHAPE")
	require.NoError(t, inj.Inject(doc, NewValue("World")))

	p := doc.Slides[0].Shapes[0].Text.Paragraphs[0]
	assert.Equal(t, StrategyShapeTextReset, inj.Strategy())
	assert.False(t, *p.Bold)
	assert.False(t, *p.Italic)
	assert.False(t, *p.Runs[0].Italic)
	assert.Equal(t, 14.0, *p.Runs[0].Size)
}

func TestShapeText_Errors(t *testing.T) {
	tests := []struct {
		name   string
		slide  string
		shape  string
		mutate func(*ir.Presentation)
		check  func(t *testing.T, err error)
	}{
		{
			name: "slide not found", slide: "missing_slide", shape: "ELE_TITLE_SHAPE",
			check: func(t *testing.T, err error) {
				var nf *ir.NotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, "slide", nf.Kind)
			},
		},
		{
			name: "shape not found", slide: "title_slide", shape: "NOPE",
			check: func(t *testing.T, err error) {
				var nf *ir.NotFoundError
				require.ErrorAs(t, err, &nf)
				assert.Equal(t, "shape", nf.Kind)
			},
		},
		{
			name: "no runs", slide: "title_slide", shape: "ELE_TITLE_SHAPE",
			mutate: func(d *ir.Presentation) { d.Slides[0].Shapes[0].Text.Paragraphs[0].Runs = nil },
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ir.ErrMissingTemplate)
			},
		},
		{
			name: "no text body", slide: "title_slide", shape: "ELE_IMAGE_CONTENT_AREA",
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, ir.ErrMissingTemplate)
			},
		},
		{
			name: "table shape", slide: "basic_info_slide", shape: "ELE_BASICINFO_TABLE",
			check: func(t *testing.T, err error) {
				var ve *ir.ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Contains(t, ve.Error(), "carries a table")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := testDoc()
			if tt.mutate != nil {
				tt.mutate(doc)
			}
			err := NewShapeText(tt.slide, tt.shape).Inject(doc, NewValue("x"))
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestTableCell(t *testing.T) {
	doc := testDoc()

	err := NewTableCell("basic_info_slide", "ELE_BASICINFO_TABLE", "ELE_DEPARTMENT_RUN_SAMPLE").
		Inject(doc, NewValue("Acme Corp"))
	require.NoError(t, err)

	tbl := doc.Slides[1].Shapes[0].Table
	assert.Equal(t, "Acme Corp", tbl.Data[0][1])
	run := tbl.DataDetail[0][1].FirstRun()
	assert.Equal(t, "Acme Corp", run.Text)
	assert.Equal(t, "Gulim", run.Name)
	assert.True(t, *run.Bold)

	assert.Equal(t, "ELE_PROJECTNAME_RUN_SAMPLE", tbl.Data[1][1], "other cells untouched")
	assert.Equal(t, "Department", tbl.Data[0][0])
}

func TestTableCell_MarkerNotFound(t *testing.T) {
	doc := testDoc()

	err := NewTableCell("basic_info_slide", "ELE_BASICINFO_TABLE", "ELE_TITLE_RUN_SAMPLE").
		Inject(doc, NewValue("Acme Corp"))

	var nf *ir.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "marker", nf.Kind)
	assert.Equal(t, "basic_info_slide", nf.Loc.SlideID)
	assert.Equal(t, "ELE_BASICINFO_TABLE", nf.Loc.Shape)
}

func TestTableRows(t *testing.T) {
	doc := testDoc()
	v := Value{
		Data: []any{
			[]any{1, "Kim", "active"},
			[]any{2, "Lee", "retired"},
		},
		Meta: Meta{MetaTemplateRowIndex: 2, MetaDeleteTemplateRow: true},
	}

	require.NoError(t, NewTableRows("basic_info_slide", "ELE_BASICINFO_TABLE").Inject(doc, v))

	tbl := doc.Slides[1].Shapes[0].Table
	assert.Equal(t, 4, tbl.Rows)
	assert.Equal(t, []string{"1", "Kim", "active"}, tbl.Data[2])
	assert.Equal(t, []string{"2", "Lee", "retired"}, tbl.Data[3])
	assert.Equal(t, ir.RGB(0xFF, 0xFF, 0), tbl.CellFills[3][1])
	assert.Equal(t, "Lee", tbl.DataDetail[3][1].PlainText())
	assert.Equal(t, "Gulim", tbl.DataDetail[3][1].FirstRun().Name)
}

func TestTableRows_InsertIndex(t *testing.T) {
	doc := testDoc()
	v := Value{
		Data: [][]string{{"a", "b", "c"}},
		Meta: Meta{MetaTemplateRowIndex: "2", MetaInsertIndex: 1},
	}

	require.NoError(t, NewTableRows("basic_info_slide", "ELE_BASICINFO_TABLE").Inject(doc, v))

	tbl := doc.Slides[1].Shapes[0].Table
	assert.Equal(t, 4, tbl.Rows)
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Data[1])
	assert.Equal(t, "Project", tbl.Data[2][0])
}

func TestTableRows_Errors(t *testing.T) {
	inj := NewTableRows("basic_info_slide", "ELE_BASICINFO_TABLE")

	err := inj.Inject(testDoc(), NewValue([][]string{{"a", "b", "c"}}))
	assert.ErrorIs(t, err, ir.ErrMissingTemplate, "template_row_index is mandatory")

	err = inj.Inject(testDoc(), Value{Data: [][]string{{"a", "b", "c"}}, Meta: Meta{MetaTemplateRowIndex: 3}})
	assert.ErrorIs(t, err, ir.ErrIndexOutOfRange)

	doc := testDoc()
	err = inj.Inject(doc, Value{Data: [][]string{{"a", "b", "c"}, {"a"}}, Meta: Meta{MetaTemplateRowIndex: 2}})
	assert.ErrorIs(t, err, ir.ErrLengthMismatch)
	assert.Equal(t, 3, doc.Slides[1].Shapes[0].Table.Rows, "no partial insertion")

	err = inj.Inject(testDoc(), Value{Data: "not rows", Meta: Meta{MetaTemplateRowIndex: 2}})
	assert.Error(t, err)
}

func TestParagraphList(t *testing.T) {
	doc := testDoc()
	blocks := []any{
		map[string]any{
			"heading": "Background",
			"items": []any{
				map[string]any{"text": "First paragraph", "type": "paragraph"},
				map[string]any{"text": "A point", "type": "bullet", "level": 1},
			},
		},
	}

	require.NoError(t, NewParagraphList("basic_info_slide", "ELE_PARAGRAPH_CONTENT_AREA").Inject(doc, NewValue(blocks)))

	paras := doc.Slides[1].Shapes[1].Text.Paragraphs
	require.Len(t, paras, 3)
	assert.Equal(t, "Background", paras[0].PlainText())
	assert.True(t, *paras[0].Runs[0].Bold)
	assert.Nil(t, paras[1].Bullet)
	assert.False(t, *paras[1].Runs[0].Bold)
	assert.Equal(t, "A point", paras[2].PlainText())
	require.NotNil(t, paras[2].Bullet)
	assert.Equal(t, ir.BulletChar, paras[2].Bullet.Kind)
	assert.Equal(t, 1, paras[2].Level)
	assert.Equal(t, 36.0, *paras[2].LeftIndent)
	for i, p := range paras {
		assert.Equal(t, i+1, p.Index)
		assert.Equal(t, 12.0, *p.Runs[0].Size)
	}
}

func TestParagraphList_UnknownItemType(t *testing.T) {
	doc := testDoc()
	blocks := []Block{{Items: []Item{{Text: "x", Type: "table"}}}}

	err := NewParagraphList("basic_info_slide", "ELE_PARAGRAPH_CONTENT_AREA").Inject(doc, NewValue(blocks))

	var ve *ir.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "template", doc.Slides[1].Shapes[1].Text.PlainText(), "shape untouched on error")
}

func TestShapeImage(t *testing.T) {
	doc := testDoc()

	require.NoError(t, NewShapeImage("title_slide", "ELE_IMAGE_CONTENT_AREA").Inject(doc, NewValue(`asset\chart.png`)))

	sh := doc.Slides[0].Shapes[1]
	require.NotNil(t, sh.Image)
	assert.Equal(t, "asset/chart.png", sh.Image.Filename)
	assert.Equal(t, "image/png", sh.Image.ContentType)
	assert.Equal(t, ir.ShapeTypePicture, sh.Type)

	err := NewShapeImage("title_slide", "ELE_IMAGE_CONTENT_AREA").Inject(doc, NewValue("notes.txt"))
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	for _, s := range Strategies {
		inj, err := New(s, Target{Slide: "s", Shape: "x", Marker: "m"})
		require.NoError(t, err, s)
		assert.Equal(t, s, inj.Strategy())
	}
	_, err := New("bogus", Target{})
	assert.Error(t, err)
	_, err = New(StrategyTableCell, Target{Slide: "s", Shape: "x"})
	assert.Error(t, err)
}

type upperRefiner struct{ calls int }

func (u *upperRefiner) Refine(_ context.Context, text string) (string, error) {
	u.calls++
	return strings.ToUpper(text), nil
}

func TestEngine_Run(t *testing.T) {
	doc := testDoc()
	reg := NewRegistry()
	reg.MustRegister(Binding{
		Name:     "title",
		Injector: NewShapeText("title_slide", "ELE_TITLE_SHAPE"),
		Source:   Key("title", nil),
		Refine:   true,
	})
	reg.MustRegister(Binding{
		Name:     "department",
		Injector: NewTableCell("basic_info_slide", "ELE_BASICINFO_TABLE", "ELE_DEPARTMENT_RUN_SAMPLE"),
		Source:   NewExprSource(nil, `upper(department)`, nil),
	})
	refiner := &upperRefiner{}

	report, err := NewEngine(reg, WithRefiner(refiner)).Run(context.Background(), doc, map[string]any{
		"title":      "hello world",
		"department": "r&d",
	})
	require.NoError(t, err)

	require.Len(t, report.Applied, 2)
	assert.True(t, report.Applied[0].Refined)
	assert.False(t, report.Applied[1].Refined)
	assert.Equal(t, 1, refiner.calls)
	assert.Equal(t, "HELLO WORLD", doc.Slides[0].Shapes[0].Text.PlainText())
	assert.Equal(t, "R&D", doc.Slides[1].Shapes[0].Table.Data[0][1])
}

func TestEngine_AbortsOnFirstError(t *testing.T) {
	doc := testDoc()
	reg := NewRegistry()
	reg.MustRegister(Binding{Name: "first", Injector: NewShapeText("title_slide", "ELE_TITLE_SHAPE"), Source: Static(NewValue("one"))})
	reg.MustRegister(Binding{Name: "broken", Injector: NewShapeText("title_slide", "MISSING"), Source: Static(NewValue("two"))})
	reg.MustRegister(Binding{Name: "never", Injector: NewTableCell("basic_info_slide", "ELE_BASICINFO_TABLE", "ELE_DEPARTMENT_RUN_SAMPLE"), Source: Static(NewValue("three"))})

	report, err := NewEngine(reg).Run(context.Background(), doc, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "binding broken (shape_text)")
	assert.Contains(t, err.Error(), "MISSING")
	var nf *ir.NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.Len(t, report.Applied, 1)
	assert.Equal(t, "ELE_DEPARTMENT_RUN_SAMPLE", doc.Slides[1].Shapes[0].Table.Data[0][1])
}

func TestEngine_Cancelled(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(Binding{Name: "title", Injector: NewShapeText("title_slide", "ELE_TITLE_SHAPE"), Source: Static(NewValue("x"))})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := testDoc()
	_, err := NewEngine(reg).Run(ctx, doc, nil)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "Hello", doc.Slides[0].Shapes[0].Text.PlainText())
}

func TestEngine_DryRun(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(Binding{Name: "title", Injector: NewShapeText("title_slide", "ELE_TITLE_SHAPE"), Source: Static(NewValue("x"))})

	doc := testDoc()
	report, err := NewEngine(reg, WithDryRun(true)).Run(context.Background(), doc, nil)

	require.NoError(t, err)
	assert.True(t, report.DryRun)
	assert.Len(t, report.Applied, 1)
	assert.Equal(t, "Hello", doc.Slides[0].Shapes[0].Text.PlainText())
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	inj := NewShapeText("s", "x")
	src := Static(NewValue("v"))

	require.NoError(t, reg.Register(Binding{Name: "b", Injector: inj, Source: src}))
	require.NoError(t, reg.Register(Binding{Name: "a", Injector: inj, Source: src}))
	assert.Error(t, reg.Register(Binding{Name: "a", Injector: inj, Source: src}), "duplicate")
	assert.Error(t, reg.Register(Binding{Injector: inj, Source: src}), "empty name")
	assert.Error(t, reg.Register(Binding{Name: "c", Source: src}), "nil injector")
	assert.Error(t, reg.Register(Binding{Name: "c", Injector: inj}), "nil source")

	assert.Equal(t, 2, reg.Len())
	names := []string{}
	for _, b := range reg.Bindings() {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"b", "a"}, names, "registration order")
	_, ok := reg.Get("a")
	assert.True(t, ok)
	assert.Panics(t, func() { reg.MustRegister(Binding{Name: "a", Injector: inj, Source: src}) })
}

func TestCheck(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(Binding{Name: "ok", Injector: NewShapeText("title_slide", "ELE_TITLE_SHAPE"), Source: Static(NewValue("x"))})
	reg.MustRegister(Binding{Name: "bad-marker", Injector: NewTableCell("basic_info_slide", "ELE_BASICINFO_TABLE", "NOPE"), Source: Static(NewValue("x"))})
	reg.MustRegister(Binding{Name: "bad-slide", Injector: NewTableRows("nowhere", "T"), Source: Static(NewValue("x"))})

	doc := testDoc()
	issues := Check(doc, reg)

	require.Len(t, issues, 2)
	assert.Contains(t, issues[0].Message, "bad-marker")
	assert.Equal(t, "ELE_BASICINFO_TABLE", issues[0].Loc.Shape)
	assert.Contains(t, issues[1].Message, "bad-slide")
	assert.Equal(t, "Hello", doc.Slides[0].Shapes[0].Text.PlainText())
}
