package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/labelbridge/internal/labelstudio"
	"github.com/MeKo-Tech/labelbridge/internal/testutil"
)

const sampleOCRDoc = `{
	"Blocks": [
		{
			"BlockType": "WORD",
			"Text": "Paid",
			"Page": 1,
			"Geometry": {"BoundingBox": {"Left": 0.1, "Top": 0.1, "Width": 0.1, "Height": 0.05}}
		},
		{
			"BlockType": "WORD",
			"Text": "$100",
			"Page": 1,
			"Geometry": {"BoundingBox": {"Left": 0.25, "Top": 0.1, "Width": 0.1, "Height": 0.05}}
		}
	]
}`

const sampleModelDoc = `[
	{
		"key": "amount",
		"value": "$100",
		"page": 1,
		"valueCoordinates": [{"left": 0.24, "top": 0.09, "width": 0.12, "height": 0.07}]
	}
]`

func TestTasksCommandMetadata(t *testing.T) {
	assert.Equal(t, "tasks", tasksCmd.Name())
	assert.NotEmpty(t, tasksCmd.Short)
	assert.NotEmpty(t, tasksCmd.Long)
	assert.NotNil(t, tasksCmd.Flags().Lookup("out"))
	assert.NotNil(t, tasksCmd.Flags().Lookup("iou"))
	assert.NotNil(t, tasksCmd.Flags().Lookup("model-version"))
}

func TestTasksCommandHelp(t *testing.T) {
	output, err := executeCommandAndCaptureOutput(t, rootCmd, []string{"tasks", "--help"})
	require.NoError(t, err)
	assert.Contains(t, output, "annotation task")
	assert.Contains(t, output, "{page}")
}

func TestTasksCommandRequiresArgs(t *testing.T) {
	_, err := executeCommandAndCaptureOutput(t, rootCmd, []string{"tasks", "only-one.json"})
	require.Error(t, err)
}

func TestTasksCommandWritesTasks(t *testing.T) {
	dir := t.TempDir()
	ocrPath := testutil.WriteJSONFile(t, dir, "ocr.json", sampleOCRDoc)
	modelPath := testutil.WriteJSONFile(t, dir, "model.json", sampleModelDoc)
	outPath := filepath.Join(dir, "tasks.json")

	output, err := executeCommandAndCaptureOutput(t, rootCmd, []string{
		"tasks", ocrPath, modelPath, "doc_page_{page}.png", "--out", outPath,
	})
	require.NoError(t, err)
	assert.Contains(t, output, "Wrote 1 task(s)")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var tasks []labelstudio.Task
	require.NoError(t, json.Unmarshal(data, &tasks))
	require.Len(t, tasks, 1)

	task := tasks[0]
	assert.Equal(t, "doc_page_1.png", task.Data.Image)
	assert.Equal(t, []string{"amount"}, task.Data.FieldLabels)
	require.Len(t, task.Predictions, 1)

	// Two words: each gets a rectangle and an ocr textarea; the matched
	// word additionally gets field and value fragments.
	assert.Len(t, task.Predictions[0].Result, 6)
}

func TestTasksCommandMissingInput(t *testing.T) {
	dir := t.TempDir()
	modelPath := testutil.WriteJSONFile(t, dir, "model.json", sampleModelDoc)

	_, err := executeCommandAndCaptureOutput(t, rootCmd, []string{
		"tasks", filepath.Join(dir, "missing.json"), modelPath, "doc.png",
		"--out", filepath.Join(dir, "tasks.json"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading OCR document")
}

func TestTasksCommandUnsupportedOCR(t *testing.T) {
	dir := t.TempDir()
	ocrPath := testutil.WriteJSONFile(t, dir, "ocr.json", `{"pages": []}`)
	modelPath := testutil.WriteJSONFile(t, dir, "model.json", sampleModelDoc)

	_, err := executeCommandAndCaptureOutput(t, rootCmd, []string{
		"tasks", ocrPath, modelPath, "doc.png",
		"--out", filepath.Join(dir, "tasks.json"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestTasksCommandInvalidThreshold(t *testing.T) {
	dir := t.TempDir()
	ocrPath := testutil.WriteJSONFile(t, dir, "ocr.json", sampleOCRDoc)
	modelPath := testutil.WriteJSONFile(t, dir, "model.json", sampleModelDoc)

	_, err := executeCommandAndCaptureOutput(t, rootCmd, []string{
		"tasks", ocrPath, modelPath, "doc.png", "--iou", "1.5",
		"--out", filepath.Join(dir, "tasks.json"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid IoU threshold")
}
