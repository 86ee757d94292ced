package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/KaramelBytes/moodmap-cli/internal/survey"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var summaryStates bool

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the aggregate tables to the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		res, err := runPipeline(c)
		if err != nil {
			return err
		}
		printSummary(cmd.OutOrStdout(), res, summaryStates)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
	summaryCmd.Flags().BoolVar(&summaryStates, "states", false, "include the per-state table")
}

func pct(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) + "%" }

func printSummary(w io.Writer, res *survey.Results, withStates bool) {
	head := color.New(color.FgCyan, color.Bold)
	warn := color.New(color.FgYellow)
	d := res.Diagnostics

	head.Fprintf(w, "Run %s (%s)\n", res.RunID, res.GeneratedAt.Format("2006-01-02 15:04:05Z07:00"))
	fmt.Fprintf(w, "Respondents: %d (incomplete %d, excluded %d)\n", d.Respondents, d.Incomplete, d.Excluded)
	fmt.Fprintf(w, "Dropped rows: usage %d, severity %d, trend %d\n", d.UsageDropped, d.SeverityDropped, d.TrendDropped)
	if len(d.UnmatchedStates) > 0 {
		warn.Fprintf(w, "States not on the map: %s\n", strings.Join(d.UnmatchedStates, ", "))
	}
	if len(d.UnknownPlatforms) > 0 {
		warn.Fprintf(w, "Platforms outside vocabulary %s: %s\n", d.VocabularyVersion, strings.Join(d.UnknownPlatforms, ", "))
	}

	head.Fprintln(w, "\nCensus regions")
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"Region", "States", "Respondents", "Anxiety (GAD-7)", "Depression (PHQ-9)"})
	for _, r := range res.Regions {
		t.Append([]string{r.Region, strconv.Itoa(r.States), strconv.Itoa(r.Respondents), pct(r.GAD7Percent), pct(r.PHQ9Percent)})
	}
	t.Render()

	if withStates {
		head.Fprintln(w, "\nStates")
		t = tablewriter.NewWriter(w)
		t.SetHeader([]string{"State", "Code", "Respondents", "Anxiety (GAD-7)", "Depression (PHQ-9)"})
		for _, s := range res.States {
			code := s.Code
			if !s.Mapped() {
				code = "-"
			}
			t.Append([]string{s.State, code, strconv.Itoa(s.Respondents), pct(s.GAD7Percent), pct(s.PHQ9Percent)})
		}
		t.Render()
	}

	head.Fprintln(w, "\nUsage time trend")
	t = tablewriter.NewWriter(w)
	t.SetHeader([]string{"Daily usage", "Respondents", "Anxiety rate", "Depression rate"})
	for _, p := range res.Trend {
		t.Append([]string{p.Bucket, strconv.Itoa(p.Respondents), pct(p.AnxietyRate), pct(p.DepressionRate)})
	}
	t.Render()

	if res.Usage != nil {
		head.Fprintln(w, "\nPlatform mentions")
		t = tablewriter.NewWriter(w)
		t.SetHeader(append([]string{"Daily usage", "Respondents"}, res.Usage.Platforms...))
		for _, b := range res.Usage.Buckets {
			row := []string{b.Bucket, strconv.Itoa(b.Respondents)}
			mentions := make(map[string]int, len(b.Platforms))
			for _, p := range b.Platforms {
				mentions[p.Platform] = p.Mentions
			}
			for _, p := range res.Usage.Platforms {
				row = append(row, strconv.Itoa(mentions[p]))
			}
			t.Append(row)
		}
		t.Render()
	}
}
