// Package align maps model predictions onto OCR word boxes. A word matches a
// prediction when its center falls inside the prediction's union box or when
// the IoU between the two clears a configurable threshold. Ambiguous evidence
// is left for human review: a word may match any number of predictions.
package align

import (
	"github.com/MeKo-Tech/labelbridge/internal/geometry"
	"github.com/MeKo-Tech/labelbridge/internal/model"
	"github.com/MeKo-Tech/labelbridge/internal/textract"
)

// DefaultIoUThreshold is the default overlap threshold for the IoU half of
// the dual match policy.
const DefaultIoUThreshold = 0.20

// Alignment maps page number -> prediction index -> ordered matched word
// indices. Predictions without geometry or without any matching word have no
// entry; this is expected, not an error.
type Alignment map[int]map[int][]int

// Match aligns every prediction with at least one box against the word list
// of its page. Both tests run in normalized coordinates. Word order within a
// page is preserved in the match lists.
func Match(pages map[int][]textract.Word, preds []model.Prediction, threshold float64) Alignment {
	aligned := make(Alignment, len(pages))
	for page := range pages {
		aligned[page] = make(map[int][]int)
	}

	for pi, pred := range preds {
		words := pages[pred.Page]
		if len(words) == 0 {
			continue
		}

		ubox, ok := geometry.UnionBox(pred.Boxes)
		if !ok {
			// Geometry-less prediction, no spatial prefill attempted.
			continue
		}

		var matches []int
		for wi, w := range words {
			if geometry.CenterInside(w.Box, ubox) || geometry.IoU(w.Box, ubox) >= threshold {
				matches = append(matches, wi)
			}
		}
		if len(matches) > 0 {
			aligned[pred.Page][pi] = matches
		}
	}

	return aligned
}
