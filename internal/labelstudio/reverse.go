package labelstudio

import (
	"log/slog"

	"github.com/MeKo-Tech/labelbridge/internal/geometry"
	"github.com/MeKo-Tech/labelbridge/internal/model"
)

// regionBundle accumulates the fragments of one region id in encounter order.
type regionBundle struct {
	label string
	value string
	boxes []geometry.Box
}

// ReverseMap regroups an annotation export by region identity and
// reconstructs model-schema records. A region contributes a record only when
// it carries a field label, a non-empty value, and at least one geometry box;
// incomplete regions are dropped silently. The first label fragment and the
// first non-empty value line win when a region carries conflicting edits.
func ReverseMap(tasks []Task) []model.Record {
	records := make([]model.Record, 0)

	for ti, task := range tasks {
		for _, anno := range task.Annotations {
			bundles := make(map[string]*regionBundle)
			// Region ids in first-seen order so output is deterministic.
			var order []string

			for _, frag := range anno.Result {
				if frag.ID == "" {
					slog.Debug("skipping annotation fragment without region id",
						"task", ti, "type", frag.Type)
					continue
				}
				bundle, ok := bundles[frag.ID]
				if !ok {
					bundle = &regionBundle{}
					bundles[frag.ID] = bundle
					order = append(order, frag.ID)
				}
				collect(bundle, frag)
			}

			for _, id := range order {
				b := bundles[id]
				if b.label == "" || b.value == "" || len(b.boxes) == 0 {
					// Incomplete annotation, not an error.
					continue
				}
				records = append(records, model.FullConfidenceRecord(b.label, b.value, 1, b.boxes))
			}
		}
	}

	return records
}

func collect(b *regionBundle, frag Fragment) {
	switch {
	case frag.Type == TypeChoices && frag.FromName == FromField:
		if b.label == "" && len(frag.Value.Choices) > 0 {
			b.label = frag.Value.Choices[0]
		}
	case frag.Type == TypeTextArea && frag.FromName == FromValue:
		if b.value == "" && len(frag.Value.Text) > 0 {
			b.value = frag.Value.Text[0]
		}
	case frag.Type == TypeRectangleLabels:
		b.boxes = append(b.boxes, frag.Box())
	}
}
