package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/labelbridge/internal/raster"
)

// rasterizeCmd represents the rasterize command.
var rasterizeCmd = &cobra.Command{
	Use:   "rasterize <document.pdf>",
	Short: "Extract per-page images from a PDF for the annotation tool",
	Long: `Extract one image per PDF page, named <stem>_<page>.png so the files
match the '<stem>_{page}.png' image template used by the tasks command.

Examples:
  labelbridge rasterize invoice.pdf
  labelbridge rasterize invoice.pdf --out-dir images/ --scale 2.0
  labelbridge rasterize invoice.pdf --pages 1-3`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()

		outDir := cfg.Raster.OutputDir
		if cmd.Flags().Changed("out-dir") {
			outDir, _ = cmd.Flags().GetString("out-dir")
		}
		scale := cfg.Raster.Scale
		if cmd.Flags().Changed("scale") {
			scale, _ = cmd.Flags().GetFloat64("scale")
		}
		pageRange := cfg.Raster.PageRange
		if cmd.Flags().Changed("pages") {
			pageRange, _ = cmd.Flags().GetString("pages")
		}

		paths, err := raster.PageImages(args[0], raster.Options{
			OutputDir: outDir,
			Scale:     scale,
			PageRange: pageRange,
		})
		if err != nil {
			return fmt.Errorf("rasterizing %s: %w", args[0], err)
		}

		for _, p := range paths {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), p); err != nil {
				return fmt.Errorf("failed to write to stdout: %w", err)
			}
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Created %d image file(s)\n", len(paths)); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rasterizeCmd)
	rasterizeCmd.Flags().String("out-dir", "", "output directory (default: next to the PDF)")
	rasterizeCmd.Flags().Float64("scale", 2.0, "scale factor for extracted page images")
	rasterizeCmd.Flags().String("pages", "", "page range to extract, e.g. '1-3' or '2,5' (default: all)")
}
