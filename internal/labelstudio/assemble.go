package labelstudio

import (
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/MeKo-Tech/labelbridge/internal/align"
	"github.com/MeKo-Tech/labelbridge/internal/model"
	"github.com/MeKo-Tech/labelbridge/internal/textract"
)

// AssembleOptions configures task assembly.
type AssembleOptions struct {
	// ImageSource is a single image path or a template containing the
	// {page} placeholder.
	ImageSource string
	// ModelVersion tags the emitted prediction batch. Empty means
	// DefaultModelVersion.
	ModelVersion string
	// NewID generates region ids. Nil means random UUIDs. Injected so tests
	// can make assembly fully deterministic.
	NewID func() string
}

// AssembleTasks builds one task per page in ascending page order. Every word
// gets a region (geometry fragment plus readonly reference text) and every
// aligned prediction contributes a field/value fragment pair per matched
// word, all bound by the word's region id. The function performs no I/O and
// does not mutate its inputs.
func AssembleTasks(
	pages map[int][]textract.Word,
	preds []model.Prediction,
	aligned align.Alignment,
	opts AssembleOptions,
) []Task {
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	version := opts.ModelVersion
	if version == "" {
		version = DefaultModelVersion
	}

	fieldLabels := collectFieldLabels(preds)

	pageNumbers := make([]int, 0, len(pages))
	for page := range pages {
		pageNumbers = append(pageNumbers, page)
	}
	sort.Ints(pageNumbers)

	tasks := make([]Task, 0, len(pageNumbers))
	for _, page := range pageNumbers {
		words := pages[page]

		regionIDs := make([]string, len(words))
		for i := range words {
			regionIDs[i] = newID()
		}

		result := make([]Fragment, 0, 2*len(words))
		for wi, w := range words {
			result = append(result,
				newRectangleFragment(regionIDs[wi], w.Box, TokenLabel),
				newReferenceTextFragment(regionIDs[wi], w.Text),
			)
		}

		// Prefill model predictions onto matched words, keeping prediction
		// order stable for reproducible output.
		pageAligned := aligned[page]
		predIdxs := make([]int, 0, len(pageAligned))
		for pi := range pageAligned {
			predIdxs = append(predIdxs, pi)
		}
		sort.Ints(predIdxs)

		for _, pi := range predIdxs {
			pred := preds[pi]
			for _, wi := range pageAligned[pi] {
				result = append(result,
					newFieldFragment(regionIDs[wi], pred.Key, pred.Score),
					newValueFragment(regionIDs[wi], pred.Value, pred.Score),
				)
			}
		}

		tasks = append(tasks, Task{
			Data: TaskData{
				Image:       resolveImage(opts.ImageSource, page),
				FieldLabels: fieldLabels,
			},
			Predictions: []PredictionSet{{
				ModelVersion: version,
				Result:       result,
			}},
		})
	}

	return tasks
}

// collectFieldLabels returns the sorted distinct prediction keys across the
// whole input. Derived data, recomputed per run.
func collectFieldLabels(preds []model.Prediction) []string {
	seen := make(map[string]struct{})
	labels := make([]string, 0)
	for _, p := range preds {
		if p.Key == "" {
			continue
		}
		if _, ok := seen[p.Key]; ok {
			continue
		}
		seen[p.Key] = struct{}{}
		labels = append(labels, p.Key)
	}
	sort.Strings(labels)
	return labels
}

// resolveImage substitutes the page placeholder when present, otherwise the
// locator is used verbatim for every page (single-image case).
func resolveImage(source string, page int) string {
	if strings.Contains(source, PagePlaceholder) {
		return strings.ReplaceAll(source, PagePlaceholder, strconv.Itoa(page))
	}
	return source
}
