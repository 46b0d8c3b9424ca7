package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/labelbridge/internal/labelstudio"
)

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export <ls_export.json>",
	Short: "Convert a reviewed annotation export back into the model schema",
	Long: `Convert an annotation-tool export back into model-schema records for
retraining. Result fragments are regrouped by region id; a region yields a
record only when it carries a field label, a non-empty value, and at least
one geometry box. Incomplete regions are dropped.

Examples:
  labelbridge export ls_export.json
  labelbridge export ls_export.json --out retrain.json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		outFile, _ := cmd.Flags().GetString("out")
		if cfg.Output.File != "" && !cmd.Flags().Changed("out") {
			outFile = cfg.Output.File
		}

		exportPath := args[0]
		data, err := os.ReadFile(exportPath) //nolint:gosec // G304: user-provided input path
		if err != nil {
			return fmt.Errorf("reading export document %s: %w", exportPath, err)
		}

		var tasks []labelstudio.Task
		if err := json.Unmarshal(data, &tasks); err != nil {
			return fmt.Errorf("parsing export document %s: %w", exportPath, err)
		}

		records := labelstudio.ReverseMap(tasks)

		if err := writeJSON(outFile, records, cfg.Output.Indent); err != nil {
			return fmt.Errorf("writing records to %s: %w", outFile, err)
		}

		slog.Debug("reverse-mapped annotation export", "tasks", len(tasks), "records", len(records))
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d record(s) to %s\n", len(records), outFile); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().String("out", "retrain.json", "output file for the reconstructed records")
}
