package cmd

import (
	"fmt"

	"github.com/KaramelBytes/moodmap-cli/internal/export"
	"github.com/KaramelBytes/moodmap-cli/internal/report"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	renderOutput    string
	renderDataDir   string
	renderNarrative string
	renderTitle     string
	renderXLSX      string
	renderSQLite    string
	renderJSON      string
	renderPNG       string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Build the HTML report and optional exports",
	Long: `Load the three survey datasets, score and aggregate them, and write the
interactive HTML report. Exports are written only when their flag is set.

Examples:
  moodmap render
  moodmap render --data-dir ./data --output out/report.html
  moodmap render --xlsx out/tables.xlsx --sqlite out/moodmap.db --png out/trend.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		f := cmd.Flags()
		if f.Changed("output") {
			c.OutputPath = renderOutput
		}
		if f.Changed("data-dir") {
			c.DataDir = renderDataDir
		}
		if f.Changed("narrative") {
			c.NarrativeDir = renderNarrative
		}

		res, err := runPipeline(c)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		ok := color.New(color.FgGreen)

		opt := report.Options{Title: renderTitle, PlotlyURL: c.PlotlyCDNURL, NarrativeDir: c.NarrativeDir}
		if err := report.WriteFile(c.OutputPath, res, opt); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		ok.Fprintf(out, "✓ Wrote report to %s\n", c.OutputPath)

		exports := []struct {
			path  string
			label string
			write func(string) error
		}{
			{renderXLSX, "workbook", func(p string) error { return export.WriteXLSX(p, res) }},
			{renderSQLite, "database", func(p string) error { return export.WriteSQLite(p, res) }},
			{renderJSON, "results", func(p string) error { return export.WriteJSON(p, res) }},
			{renderPNG, "trend chart", func(p string) error { return export.WriteTrendPNG(p, res.Trend, res.Thresholds) }},
		}
		for _, e := range exports {
			if e.path == "" {
				continue
			}
			if err := e.write(e.path); err != nil {
				return fmt.Errorf("export %s: %w", e.label, err)
			}
			ok.Fprintf(out, "✓ Wrote %s to %s\n", e.label, e.path)
		}
		fmt.Fprintf(out, "Run %s\n", res.RunID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "HTML report path (overrides output_path)")
	renderCmd.Flags().StringVar(&renderDataDir, "data-dir", "", "directory holding the input files (overrides data_dir)")
	renderCmd.Flags().StringVar(&renderNarrative, "narrative", "", "directory of Markdown narrative overrides (overrides narrative_dir)")
	renderCmd.Flags().StringVar(&renderTitle, "title", "", "report title")
	renderCmd.Flags().StringVar(&renderXLSX, "xlsx", "", "also write an XLSX workbook with one sheet per table")
	renderCmd.Flags().StringVar(&renderSQLite, "sqlite", "", "also append the run to a SQLite database")
	renderCmd.Flags().StringVar(&renderJSON, "json", "", "also dump the full results as JSON")
	renderCmd.Flags().StringVar(&renderPNG, "png", "", "also draw the trend chart as a PNG")
}
