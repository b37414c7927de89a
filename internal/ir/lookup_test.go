package ir

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupDoc() *Presentation {
	doc := NewPresentation(12192000, 6858000)

	s1 := NewSlide("256")
	s1.AddShape(&Shape{Name: "Title", Type: ShapeTypeTextBox, Text: NewTextBody("cover")})
	doc.AddSlide(s1)

	s2 := NewSlide("257")
	s2.TagInfo = map[string]string{InjectIDKey: "basic_info_slide"}
	s2.AddShape(&Shape{Name: "ELE_TITLE_SHAPE", Type: ShapeTypeTextBox, Text: NewTextBody("first")})
	s2.AddShape(&Shape{Name: "ELE_TITLE_SHAPE", Type: ShapeTypeTextBox, Text: NewTextBody("second")})
	doc.AddSlide(s2)

	s3 := NewSlide("258")
	s3.TagInfo = map[string]string{InjectIDKey: "basic_info_slide"}
	doc.AddSlide(s3)
	return doc
}

func TestFindSlideByInjectID(t *testing.T) {
	doc := lookupDoc()

	s, err := doc.FindSlideByInjectID("basic_info_slide")
	require.NoError(t, err)
	assert.Equal(t, "257", s.SlideID, "first match wins")
	assert.Equal(t, 2, s.SlideNumber)

	_, err = doc.FindSlideByInjectID("title_slide")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "slide", nf.Kind)
	assert.Equal(t, "title_slide", nf.Key)
}

func TestFindShapeByName(t *testing.T) {
	doc := lookupDoc()
	s := doc.Slides[1]

	sh, err := s.FindShapeByName("ELE_TITLE_SHAPE")
	require.NoError(t, err)
	assert.Equal(t, "first", sh.Text.PlainText())
	assert.Equal(t, 1, sh.Index)

	_, err = s.FindShapeByName("ele_title_shape")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf, "names match exactly")
	assert.Equal(t, "basic_info_slide", nf.Loc.SlideID)
	assert.Contains(t, err.Error(), "ele_title_shape")
}

func TestResolve(t *testing.T) {
	doc := lookupDoc()

	_, sh, err := doc.Resolve("basic_info_slide", "ELE_TITLE_SHAPE")
	require.NoError(t, err)
	assert.Equal(t, "ELE_TITLE_SHAPE", sh.Name)

	_, _, err = doc.Resolve("basic_info_slide", "missing")
	assert.Error(t, err)
}

func TestTable_FindCellByText(t *testing.T) {
	tbl := NewTable(3, 3)
	tbl.Data[1][2] = "  ELE_TITLE_RUN_SAMPLE "
	tbl.Data[2][0] = "other"

	row, col, err := tbl.FindCellByText("ELE_TITLE_RUN_SAMPLE")
	require.NoError(t, err)
	assert.Equal(t, 1, row)
	assert.Equal(t, 2, col)

	_, _, err = tbl.FindCellByText("ELE_MISSING")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "marker", nf.Kind)
}

func TestTable_FindCellByText_Normalization(t *testing.T) {
	tbl := NewTable(1, 2)
	tbl.Data[0][1] = "\uD559\uACFC" // composed
	decomposed := "\u1112\u1161\u11a8\u1100\u116a"

	row, col, err := tbl.FindCellByText(decomposed)
	require.NoError(t, err)
	assert.Equal(t, 0, row)
	assert.Equal(t, 1, col)
}

func TestTable_FindCellByText_Duplicate(t *testing.T) {
	tbl := NewTable(2, 2)
	tbl.Data[0][0] = "MARK"
	tbl.Data[1][1] = "MARK"

	_, _, err := tbl.FindCellByText("MARK")
	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "marker", ve.Field)
}

func TestTable_FindCellByText_SkipsCoveredCells(t *testing.T) {
	tbl := NewTable(1, 2)
	tbl.MergeInfo = []MergeRegion{{Row: 0, Col: 0, RowSpan: 1, ColSpan: 2}}
	tbl.DataDetail[0][1] = nil
	tbl.Data[0][1] = "MARK"

	_, _, err := tbl.FindCellByText("MARK")
	var nf *NotFoundError
	assert.ErrorAs(t, err, &nf)
}
