package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/moodmap-cli/internal/dataset"
	"github.com/KaramelBytes/moodmap-cli/internal/survey"
	"github.com/KaramelBytes/moodmap-cli/internal/utils"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	checkDataDir string
	checkProfile bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate input files against the configured columns",
	Long: `Load every input, check that each configured column exists, and show which
columns were picked as PHQ-9 and GAD-7 items. Nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("data-dir") {
			c.DataDir = checkDataDir
		}
		out := cmd.OutOrStdout()

		opt, err := pipelineOptions(c)
		if err != nil {
			return err
		}
		in, err := loadInputs(c)
		if err != nil {
			return err
		}
		t := tablewriter.NewWriter(out)
		t.SetHeader([]string{"Dataset", "Path", "Rows", "Columns"})
		for i, tb := range []*dataset.Table{in.MentalHealth, in.Regions, in.Social} {
			t.Append([]string{tb.Name, utils.ResolvePath(c.DataDir, sources(c)[i].path), strconv.Itoa(tb.Len()), strconv.Itoa(len(tb.Header))})
		}
		t.Render()
		if checkProfile {
			for _, tb := range []*dataset.Table{in.MentalHealth, in.Regions, in.Social} {
				printProfile(out, tb)
			}
		}

		if err := survey.Validate(in, opt); err != nil {
			var mc *dataset.MissingColumnError
			if errors.As(err, &mc) {
				color.New(color.FgRed).Fprintf(out, "✗ %s has no column %q\n", mc.Dataset, mc.Column)
			}
			return err
		}
		phq, gad, err := survey.ResolveItemColumns(in.MentalHealth, opt.Scorer.PHQ9Columns, opt.Scorer.GAD7Columns, logger)
		if err != nil {
			return err
		}
		items := tablewriter.NewWriter(out)
		items.SetHeader([]string{"Instrument", "#", "Column"})
		for i, col := range phq {
			items.Append([]string{"PHQ-9", strconv.Itoa(i + 1), in.MentalHealth.Header[col]})
		}
		for i, col := range gad {
			items.Append([]string{"GAD-7", strconv.Itoa(i + 1), in.MentalHealth.Header[col]})
		}
		items.Render()

		if _, _, unknown, err := survey.ExplodeMentions(in.Social, opt.Social, opt.Vocabulary); err == nil && len(unknown) > 0 {
			color.New(color.FgYellow).Fprintf(out, "⚠ Platforms outside vocabulary %s: %s\n", opt.Vocabulary.Version, strings.Join(unknown, ", "))
		}
		color.New(color.FgGreen).Fprintln(out, "✓ Inputs match the configured columns")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkDataDir, "data-dir", "", "directory holding the input files (overrides data_dir)")
	checkCmd.Flags().BoolVar(&checkProfile, "profile", false, "print a per-column profile of every input")
}

func printProfile(w io.Writer, tb *dataset.Table) {
	color.New(color.FgCyan, color.Bold).Fprintf(w, "\n%s\n", tb.Name)
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Column", "Kind", "Non-empty", "Missing", "Unique", "Range / Mean", "Top values"})
	for _, p := range dataset.Profile(tb, 3) {
		top := make([]string, len(p.TopValues))
		for i, v := range p.TopValues {
			top[i] = fmt.Sprintf("%s (%d)", truncate(v.Value, 24), v.Count)
		}
		t.Append([]string{truncate(p.Name, 48), p.Kind, strconv.Itoa(p.NonEmpty), strconv.Itoa(p.Missing), strconv.Itoa(p.Unique), numericStats(p), strings.Join(top, "; ")})
	}
	t.Render()
}

// numericStats formats min..max / mean for numeric columns, "-" otherwise.
func numericStats(p dataset.ColumnProfile) string {
	if p.Kind != dataset.KindNumeric {
		return "-"
	}
	g := func(x float64) string { return strconv.FormatFloat(x, 'g', 6, 64) }
	return fmt.Sprintf("%s..%s / %s", g(p.Min), g(p.Max), g(p.Mean))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
