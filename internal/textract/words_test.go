package textract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWords_BlocksDocument(t *testing.T) {
	doc := `{
		"Blocks": [
			{"BlockType": "PAGE", "Page": 1},
			{"BlockType": "WORD", "Page": 1, "Text": "Invoice",
			 "Geometry": {"BoundingBox": {"Left": 0.1, "Top": 0.05, "Width": 0.2, "Height": 0.03}}},
			{"BlockType": "WORD", "Page": 2, "Text": "Total",
			 "Geometry": {"BoundingBox": {"Left": 0.4, "Top": 0.5, "Width": 0.1, "Height": 0.02}}},
			{"BlockType": "LINE", "Page": 1, "Text": "Invoice 123",
			 "Geometry": {"BoundingBox": {"Left": 0.1, "Top": 0.05, "Width": 0.5, "Height": 0.03}}},
			{"BlockType": "WORD", "Page": 1, "Text": "no-geometry"}
		]
	}`

	pages, err := ParseWords([]byte(doc))
	require.NoError(t, err)
	require.Len(t, pages, 2)

	require.Len(t, pages[1], 1)
	assert.Equal(t, "Invoice", pages[1][0].Text)
	assert.InDelta(t, 0.1, pages[1][0].Box.Left, 1e-9)
	assert.InDelta(t, 0.03, pages[1][0].Box.Height, 1e-9)
	assert.Equal(t, 1, pages[1][0].Page)

	require.Len(t, pages[2], 1)
	assert.Equal(t, "Total", pages[2][0].Text)
}

func TestParseWords_BlocksDefaultPage(t *testing.T) {
	doc := `{"Blocks": [
		{"BlockType": "WORD", "Text": "Paid",
		 "Geometry": {"BoundingBox": {"Left": 0.0, "Top": 0.0, "Width": 0.1, "Height": 0.05}}}
	]}`

	pages, err := ParseWords([]byte(doc))
	require.NoError(t, err)
	require.Len(t, pages[1], 1)
	assert.Equal(t, 1, pages[1][0].Page)
}

func TestParseWords_ItemListAliases(t *testing.T) {
	doc := `[
		{"page": 1, "text": "alpha", "bbox": {"left": 0.1, "top": 0.1, "width": 0.1, "height": 0.05}},
		{"page": 1, "word": "beta", "coordinates": {"Left": 0.3, "Top": 0.1, "Width": 0.1, "Height": 0.05}},
		{"page": 2, "value": "gamma", "Geometry": {"BoundingBox": {"Left": 0.5, "Top": 0.5, "Width": 0.1, "Height": 0.05}}},
		{"text": "delta", "left": 0.7, "top": 0.2, "width": 0.05, "height": 0.05}
	]`

	pages, err := ParseWords([]byte(doc))
	require.NoError(t, err)

	require.Len(t, pages[1], 3)
	assert.Equal(t, "alpha", pages[1][0].Text)
	assert.Equal(t, "beta", pages[1][1].Text)
	assert.InDelta(t, 0.3, pages[1][1].Box.Left, 1e-9)
	assert.Equal(t, "delta", pages[1][2].Text, "missing page defaults to 1")
	assert.InDelta(t, 0.7, pages[1][2].Box.Left, 1e-9)

	require.Len(t, pages[2], 1)
	assert.Equal(t, "gamma", pages[2][0].Text)
	assert.InDelta(t, 0.5, pages[2][0].Box.Top, 1e-9)
}

func TestParseWords_SourceOrderPreserved(t *testing.T) {
	doc := `[
		{"page": 1, "text": "first", "left": 0.9, "top": 0.9, "width": 0.05, "height": 0.05},
		{"page": 1, "text": "second", "left": 0.1, "top": 0.1, "width": 0.05, "height": 0.05}
	]`

	pages, err := ParseWords([]byte(doc))
	require.NoError(t, err)
	require.Len(t, pages[1], 2)
	assert.Equal(t, "first", pages[1][0].Text)
	assert.Equal(t, "second", pages[1][1].Text)
}

func TestParseWords_UnsupportedShapes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"object without Blocks", `{"DocumentMetadata": {"Pages": 2}}`},
		{"scalar", `42`},
		{"empty input", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseWords([]byte(tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedFormat)
		})
	}
}

func TestParseWords_MalformedJSON(t *testing.T) {
	_, err := ParseWords([]byte(`{"Blocks": [`))
	require.Error(t, err)
}
