package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/labelbridge/internal/align"
	"github.com/MeKo-Tech/labelbridge/internal/labelstudio"
	"github.com/MeKo-Tech/labelbridge/internal/model"
	"github.com/MeKo-Tech/labelbridge/internal/textract"
)

// tasksCmd represents the tasks command.
var tasksCmd = &cobra.Command{
	Use:   "tasks <ocr.json> <model.json> <image>",
	Short: "Build annotation tasks from OCR words and model predictions",
	Long: `Build one annotation task per page from an OCR document and a model
prediction document. Every OCR word becomes a selectable token region;
model predictions are aligned onto matching words (center-in-box or IoU
threshold) and prefilled as per-region field and value suggestions.

The image argument is a single image path or a template containing the
{page} placeholder, e.g. '/images/doc_page_{page}.png'.

Examples:
  labelbridge tasks textract.json model.json doc.png
  labelbridge tasks textract.json model.json 'doc_page_{page}.png' --out tasks.json
  labelbridge tasks textract.json model.json doc.png --iou 0.3`,
	Args:         cobra.ExactArgs(3),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		threshold := cfg.Align.IoUThreshold
		if cmd.Flags().Changed("iou") {
			threshold, _ = cmd.Flags().GetFloat64("iou")
		}
		if threshold < 0 || threshold > 1 {
			return fmt.Errorf("invalid IoU threshold: %.2f (must be between 0.0 and 1.0)", threshold)
		}

		modelVersion := cfg.Task.ModelVersion
		if cmd.Flags().Changed("model-version") {
			modelVersion, _ = cmd.Flags().GetString("model-version")
		}

		outFile, _ := cmd.Flags().GetString("out")
		if cfg.Output.File != "" && !cmd.Flags().Changed("out") {
			outFile = cfg.Output.File
		}

		ocrPath, modelPath, imageSource := args[0], args[1], args[2]

		ocrData, err := os.ReadFile(ocrPath) //nolint:gosec // G304: user-provided input path
		if err != nil {
			return fmt.Errorf("reading OCR document %s: %w", ocrPath, err)
		}
		modelData, err := os.ReadFile(modelPath) //nolint:gosec // G304: user-provided input path
		if err != nil {
			return fmt.Errorf("reading model document %s: %w", modelPath, err)
		}

		pages, err := textract.ParseWords(ocrData)
		if err != nil {
			return fmt.Errorf("parsing OCR document %s: %w", ocrPath, err)
		}
		preds, err := model.ParsePredictions(modelData)
		if err != nil {
			return fmt.Errorf("parsing model document %s: %w", modelPath, err)
		}

		aligned := align.Match(pages, preds, threshold)
		tasks := labelstudio.AssembleTasks(pages, preds, aligned, labelstudio.AssembleOptions{
			ImageSource:  imageSource,
			ModelVersion: modelVersion,
		})

		if err := writeJSON(outFile, tasks, cfg.Output.Indent); err != nil {
			return fmt.Errorf("writing tasks to %s: %w", outFile, err)
		}

		slog.Debug("assembled annotation tasks",
			"pages", len(pages), "predictions", len(preds), "iou_threshold", threshold)
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d task(s) to %s\n", len(tasks), outFile); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		return nil
	},
}

// writeJSON marshals v with the configured indent and writes it to path.
func writeJSON(path string, v any, indent string) error {
	data, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644) //nolint:gosec // G306: output document
}

func init() {
	rootCmd.AddCommand(tasksCmd)
	tasksCmd.Flags().String("out", "ls_tasks.json", "output file for the assembled tasks")
	tasksCmd.Flags().Float64("iou", 0.20, "IoU threshold for aligning predictions to words")
	tasksCmd.Flags().String("model-version", "v1", "model version tag for the prediction batch")
}
