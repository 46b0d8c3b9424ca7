// Package model parses key/value predictions from the extraction model's
// JSON schema and defines the reconstructed record shape written back for
// retraining.
package model

import (
	"encoding/json"
	"fmt"

	"github.com/MeKo-Tech/labelbridge/internal/geometry"
)

// UnknownKey is the sentinel field label for predictions without a key.
const UnknownKey = "unknown"

// Prediction is one model-inferred key/value pair with zero or more
// supporting boxes. Immutable once parsed.
type Prediction struct {
	Key   string
	Value string
	Page  int
	Boxes []geometry.Box
	Score *float64
}

// Coordinate is the model schema's JSON box representation, normalized [0,1].
type Coordinate struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Record is one reconstructed model-schema entry produced from a reviewed
// annotation export. The human annotation is treated as ground truth, so
// confidences are fixed at full. Key positions are not tracked separately
// in this schema, hence the always-empty KeyCoordinates.
type Record struct {
	Key              string       `json:"key"`
	Value            string       `json:"value"`
	Page             int          `json:"page"`
	ValueCoordinates []Coordinate `json:"valueCoordinates"`
	ValueConfidence  float64      `json:"valueConfidence"`
	KeyConfidence    int          `json:"keyConfidence"`
	KeyCoordinates   []Coordinate `json:"keyCoordinates"`
}

// FullConfidenceRecord builds a Record with the fixed full-confidence markers.
func FullConfidenceRecord(key, value string, page int, boxes []geometry.Box) Record {
	coords := make([]Coordinate, 0, len(boxes))
	for _, b := range boxes {
		coords = append(coords, Coordinate{Left: b.Left, Top: b.Top, Width: b.Width, Height: b.Height})
	}
	return Record{
		Key:              key,
		Value:            value,
		Page:             page,
		ValueCoordinates: coords,
		ValueConfidence:  100.0,
		KeyConfidence:    100,
		KeyCoordinates:   []Coordinate{},
	}
}

type rawPrediction struct {
	Key              *string         `json:"key"`
	Value            string          `json:"value"`
	Page             *int            `json:"page"`
	ValueConfidence  *float64        `json:"valueConfidence"`
	ValueCoordinates json.RawMessage `json:"valueCoordinates"`
}

// ParsePredictions extracts a flat prediction list from a model source
// document. Missing keys default to the "unknown" sentinel, missing pages to
// 1, and an absent or malformed coordinate list yields an empty box list so
// the prediction becomes geometry-less rather than failing the run.
func ParsePredictions(data []byte) ([]Prediction, error) {
	var items []rawPrediction
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing model document: %w", err)
	}

	preds := make([]Prediction, 0, len(items))
	for _, item := range items {
		key := UnknownKey
		if item.Key != nil && *item.Key != "" {
			key = *item.Key
		}
		page := 1
		if item.Page != nil && *item.Page >= 1 {
			page = *item.Page
		}
		preds = append(preds, Prediction{
			Key:   key,
			Value: item.Value,
			Page:  page,
			Boxes: parseBoxes(item.ValueCoordinates),
			Score: item.ValueConfidence,
		})
	}
	return preds, nil
}

// parseBoxes decodes a coordinate list, tolerating absence and malformed
// entries. Anything unusable degrades to an empty list.
func parseBoxes(raw json.RawMessage) []geometry.Box {
	if len(raw) == 0 {
		return nil
	}
	var coords []Coordinate
	if err := json.Unmarshal(raw, &coords); err != nil {
		return nil
	}
	boxes := make([]geometry.Box, 0, len(coords))
	for _, c := range coords {
		boxes = append(boxes, geometry.NewBox(c.Left, c.Top, c.Width, c.Height))
	}
	return boxes
}
