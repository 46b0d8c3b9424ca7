// Package labelstudio builds annotation tasks from aligned OCR words and
// model predictions, and maps reviewed exports back into the model schema.
// The task JSON follows the Label Studio data contract: each task carries
// result fragments that share a region id to bind geometry, field choice,
// value text, and reference text to the same underlying word.
package labelstudio

import "github.com/MeKo-Tech/labelbridge/internal/geometry"

// Fragment types used in task results.
const (
	TypeRectangleLabels = "rectanglelabels"
	TypeChoices         = "choices"
	TypeTextArea        = "textarea"
)

// Control names. These must match the names declared in the labeling
// configuration of the annotation project.
const (
	ToNameDocument = "document"
	FromWordBoxes  = "word_boxes"
	FromField      = "field"
	FromValue      = "value"
	FromOCR        = "ocr"
)

// TokenLabel is the fixed pseudo-label marking raw token regions.
const TokenLabel = "_token"

// DefaultModelVersion tags assembled prediction batches.
const DefaultModelVersion = "v1"

// PagePlaceholder is the substring of an image locator template replaced
// with the 1-based page number.
const PagePlaceholder = "{page}"

// FragmentValue is the typed payload of a result fragment. Exactly one
// family of fields is set depending on the fragment type: the geometry
// fields for rectanglelabels, Choices for choices, Text for textarea.
// Geometry fields are pointers so a legitimate 0 coordinate still serializes.
type FragmentValue struct {
	X               *float64 `json:"x,omitempty"`
	Y               *float64 `json:"y,omitempty"`
	Width           *float64 `json:"width,omitempty"`
	Height          *float64 `json:"height,omitempty"`
	Rotation        *float64 `json:"rotation,omitempty"`
	RectangleLabels []string `json:"rectanglelabels,omitempty"`
	Choices         []string `json:"choices,omitempty"`
	Text            []string `json:"text,omitempty"`
}

// Fragment is one typed piece of annotation data tagged with a region id.
// All fragments sharing an id describe the same word region.
type Fragment struct {
	ID       string        `json:"id"`
	Type     string        `json:"type"`
	Value    FragmentValue `json:"value"`
	ToName   string        `json:"to_name"`
	FromName string        `json:"from_name"`
	Score    *float64      `json:"score,omitempty"`
	Origin   string        `json:"origin,omitempty"`
	Readonly bool          `json:"readonly,omitempty"`
}

// Box returns the geometry payload converted back to a normalized box.
// Valid only for rectanglelabels fragments.
func (f Fragment) Box() geometry.Box {
	p := geometry.Percent{}
	if f.Value.X != nil {
		p.X = *f.Value.X
	}
	if f.Value.Y != nil {
		p.Y = *f.Value.Y
	}
	if f.Value.Width != nil {
		p.Width = *f.Value.Width
	}
	if f.Value.Height != nil {
		p.Height = *f.Value.Height
	}
	return geometry.FromPercent(p)
}

// TaskData is the task payload shown to the annotator.
type TaskData struct {
	Image string `json:"image"`
	// FieldLabels is the derived catalog of distinct prediction keys across
	// the whole input, kept for UI and validation purposes only.
	FieldLabels []string `json:"field_labels"`
}

// PredictionSet is one batch of pre-annotation fragments.
type PredictionSet struct {
	ModelVersion string     `json:"model_version,omitempty"`
	Result       []Fragment `json:"result"`
}

// AnnotationSet is one completed annotation pass from a reviewer.
type AnnotationSet struct {
	Result []Fragment `json:"result"`
}

// Task is one annotation-tool task, one per page on the forward path.
type Task struct {
	Data        TaskData        `json:"data"`
	Predictions []PredictionSet `json:"predictions,omitempty"`
	Annotations []AnnotationSet `json:"annotations,omitempty"`
}

func newRectangleFragment(id string, box geometry.Box, label string) Fragment {
	p := box.ToPercent()
	return Fragment{
		ID:   id,
		Type: TypeRectangleLabels,
		Value: FragmentValue{
			X:               &p.X,
			Y:               &p.Y,
			Width:           &p.Width,
			Height:          &p.Height,
			Rotation:        &p.Rotation,
			RectangleLabels: []string{label},
		},
		ToName:   ToNameDocument,
		FromName: FromWordBoxes,
		// Shown as a suggestion, the annotator confirms or adjusts it.
		Origin: "manual",
	}
}

func newReferenceTextFragment(id, text string) Fragment {
	return Fragment{
		ID:       id,
		Type:     TypeTextArea,
		Value:    FragmentValue{Text: []string{text}},
		ToName:   ToNameDocument,
		FromName: FromOCR,
		Readonly: true,
	}
}

func newFieldFragment(id, key string, score *float64) Fragment {
	return Fragment{
		ID:       id,
		Type:     TypeChoices,
		Value:    FragmentValue{Choices: []string{key}},
		ToName:   ToNameDocument,
		FromName: FromField,
		Score:    score,
	}
}

func newValueFragment(id, value string, score *float64) Fragment {
	return Fragment{
		ID:       id,
		Type:     TypeTextArea,
		Value:    FragmentValue{Text: []string{value}},
		ToName:   ToNameDocument,
		FromName: FromValue,
		Score:    score,
	}
}
