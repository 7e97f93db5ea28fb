package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agrisense/internal/report"
)

// NewAnalyzeCmd creates the 'analyze' command.
func NewAnalyzeCmd(load Loader) *cobra.Command {
	var pdfPath string

	cmd := &cobra.Command{
		Use:   "analyze <crop>",
		Short: "Analyze one crop and print the result",
		Long:  "Runs the configured model once for the crop. Nothing is recorded in the history tables.",
		Example: `  agrisense analyze Tomato
  agrisense analyze Onion --pdf Onion_analysis.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			crop := args[0]
			return withDeps(cmd, load, func(ctx context.Context, d *Deps) error {
				result, err := d.Analyzer.Analyze(ctx, crop)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				for _, f := range result.Fields() {
					fmt.Fprintf(out, "%s: %s\n", f.Label, f.Value)
				}

				if pdfPath == "" {
					return nil
				}
				pdf, err := report.RenderPDF(crop, result)
				if err != nil {
					return err
				}
				if err := os.WriteFile(pdfPath, pdf, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", pdfPath, err)
				}
				fmt.Fprintf(out, "Report written to %s\n", pdfPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Also write the PDF report to this file")
	return cmd
}
