// Package textract parses OCR word boxes out of Textract-style documents.
// It accepts either the full Textract structure with a flat Blocks list or a
// reduced list of loosely-typed word items.
package textract

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MeKo-Tech/labelbridge/internal/geometry"
	"golang.org/x/text/unicode/norm"
)

// ErrUnsupportedFormat is returned when the source document shape is not
// recognized as either a Blocks document or a word-item list.
var ErrUnsupportedFormat = errors.New("unsupported OCR document shape")

// Word is a single OCR-recognized token with its normalized bounding box,
// owned by the page it belongs to.
type Word struct {
	Text string
	Box  geometry.Box
	Page int
}

// blockTypeWord identifies token-level entries in a Blocks document.
const blockTypeWord = "WORD"

type boundingBox struct {
	Left   float64 `json:"Left"`
	Top    float64 `json:"Top"`
	Width  float64 `json:"Width"`
	Height float64 `json:"Height"`
}

type blockGeometry struct {
	BoundingBox *boundingBox `json:"BoundingBox"`
}

type block struct {
	BlockType string         `json:"BlockType"`
	Page      int            `json:"Page"`
	Text      string         `json:"Text"`
	Geometry  *blockGeometry `json:"Geometry"`
}

type blocksDocument struct {
	Blocks []block `json:"Blocks"`
}

// ParseWords extracts a page -> ordered word list mapping from an OCR source
// document. Source order within a page is preserved. It returns
// ErrUnsupportedFormat when the document is neither a Blocks structure nor a
// list of word items.
func ParseWords(data []byte) (map[int][]Word, error) {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty OCR document: %w", ErrUnsupportedFormat)
	}

	switch trimmed[0] {
	case '{':
		return parseBlocksDocument(data)
	case '[':
		return parseWordItems(data)
	default:
		return nil, fmt.Errorf("OCR document is not a JSON object or array: %w", ErrUnsupportedFormat)
	}
}

// parseBlocksDocument handles the full Textract structure with a Blocks list,
// filtered to WORD blocks that carry a bounding box.
func parseBlocksDocument(data []byte) (map[int][]Word, error) {
	var doc blocksDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing Blocks document: %w", err)
	}
	if doc.Blocks == nil {
		return nil, fmt.Errorf("JSON object has no Blocks list: %w", ErrUnsupportedFormat)
	}

	pages := make(map[int][]Word)
	for _, b := range doc.Blocks {
		if b.BlockType != blockTypeWord || b.Geometry == nil || b.Geometry.BoundingBox == nil {
			continue
		}
		bb := b.Geometry.BoundingBox
		page := b.Page
		if page < 1 {
			page = 1
		}
		pages[page] = append(pages[page], Word{
			Text: norm.NFC.String(b.Text),
			Box:  geometry.NewBox(bb.Left, bb.Top, bb.Width, bb.Height),
			Page: page,
		})
	}
	return pages, nil
}

// Accepted key aliases for the reduced word-item format, checked in priority
// order so behavior stays deterministic across inputs mixing conventions.
var (
	textAliases = []string{"text", "word", "value"}
	boxAliases  = []string{"bbox", "coordinates"}
)

// parseWordItems handles a flat list of loosely-typed word items.
func parseWordItems(data []byte) (map[int][]Word, error) {
	var items []map[string]any
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing word item list: %w", err)
	}

	pages := make(map[int][]Word)
	for _, item := range items {
		page := itemPage(item)
		pages[page] = append(pages[page], Word{
			Text: norm.NFC.String(itemText(item)),
			Box:  itemBox(item),
			Page: page,
		})
	}
	return pages, nil
}

func itemPage(item map[string]any) int {
	if v, ok := item["page"]; ok {
		if n, ok := toFloat(v); ok && int(n) >= 1 {
			return int(n)
		}
	}
	return 1
}

func itemText(item map[string]any) string {
	for _, key := range textAliases {
		if v, ok := item[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func itemBox(item map[string]any) geometry.Box {
	for _, key := range boxAliases {
		if coords, ok := item[key].(map[string]any); ok {
			return boxFromMap(coords)
		}
	}
	if g, ok := item["Geometry"].(map[string]any); ok {
		if bb, ok := g["BoundingBox"].(map[string]any); ok {
			return boxFromMap(bb)
		}
	}
	// Flattened coordinate keys on the item itself.
	return boxFromMap(item)
}

// boxFromMap reads Left/Top/Width/Height from a coordinate map, accepting
// both capitalized (Textract) and lowercase key forms.
func boxFromMap(m map[string]any) geometry.Box {
	return geometry.NewBox(
		mapField(m, "Left", "left"),
		mapField(m, "Top", "top"),
		mapField(m, "Width", "width"),
		mapField(m, "Height", "height"),
	)
}

func mapField(m map[string]any, keys ...string) float64 {
	for _, key := range keys {
		if v, ok := m[key]; ok {
			if n, ok := toFloat(v); ok {
				return n
			}
		}
	}
	return 0.0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}
