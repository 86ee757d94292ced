// Package export writes aggregated survey results to workbooks, databases,
// JSON and static chart images.
package export

import (
	"fmt"

	"github.com/KaramelBytes/moodmap-cli/internal/survey"
	"github.com/KaramelBytes/moodmap-cli/internal/utils"
)

// Column types, spelled as SQLite type names.
const (
	Text    = "TEXT"
	Integer = "INTEGER"
	Real    = "REAL"
)

// Column is a named, typed column of an export table.
type Column struct {
	Name string
	Type string
}

// Table is one aggregate flattened into rows. Every exporter writes the same
// table set.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// Header returns the column names.
func (t Table) Header() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// Tables flattens every aggregate in res, in a fixed order.
func Tables(res *survey.Results) []Table {
	states := Table{
		Name: "states",
		Columns: []Column{
			{"state", Text}, {"code", Text}, {"region", Text}, {"division", Text},
			{"respondents", Integer}, {"gad7_negative", Integer}, {"phq9_negative", Integer},
			{"gad7_negative_percent", Real}, {"phq9_negative_percent", Real},
		},
	}
	for _, s := range res.States {
		states.Rows = append(states.Rows, []any{
			s.State, s.Code, s.Region, s.Division,
			s.Respondents, s.GAD7Negative, s.PHQ9Negative, s.GAD7Percent, s.PHQ9Percent,
		})
	}

	regions := Table{
		Name: "regions",
		Columns: []Column{
			{"region", Text}, {"states", Integer}, {"respondents", Integer},
			{"gad7_negative", Integer}, {"phq9_negative", Integer},
			{"gad7_negative_percent", Real}, {"phq9_negative_percent", Real},
		},
	}
	for _, r := range res.Regions {
		regions.Rows = append(regions.Rows, []any{
			r.Region, r.States, r.Respondents, r.GAD7Negative, r.PHQ9Negative, r.GAD7Percent, r.PHQ9Percent,
		})
	}

	usage := Table{
		Name: "usage",
		Columns: []Column{
			{"bucket", Text}, {"respondents", Integer}, {"total_mentions", Integer},
			{"platform", Text}, {"mentions", Integer}, {"share", Real}, {"scaled", Real},
		},
	}
	if res.Usage != nil {
		for _, b := range res.Usage.Buckets {
			for _, p := range b.Platforms {
				usage.Rows = append(usage.Rows, []any{
					b.Bucket, b.Respondents, b.TotalMentions, p.Platform, p.Mentions, p.Share, p.Scaled,
				})
			}
		}
	}

	severity := Table{
		Name: "severity",
		Columns: []Column{
			{"measure", Text}, {"level", Integer}, {"platform", Text}, {"count", Integer}, {"percent", Real},
		},
	}
	for _, ct := range []*survey.CrossTab{res.Depression, res.Anxiety} {
		if ct == nil {
			continue
		}
		for i, lv := range ct.Levels {
			for j, p := range ct.Platforms {
				severity.Rows = append(severity.Rows, []any{ct.Measure, lv, p, ct.Counts[i][j], ct.Percent[i][j]})
			}
		}
	}

	trend := Table{
		Name: "trend",
		Columns: []Column{
			{"bucket", Text}, {"respondents", Integer},
			{"anxiety_negative", Integer}, {"depression_negative", Integer},
			{"anxiety_rate", Real}, {"depression_rate", Real},
		},
	}
	for _, p := range res.Trend {
		trend.Rows = append(trend.Rows, []any{
			p.Bucket, p.Respondents, p.AnxietyNegative, p.DepressionNegative, p.AnxietyRate, p.DepressionRate,
		})
	}

	return []Table{states, regions, usage, severity, trend}
}

// WriteJSON dumps the full results as indented JSON.
func WriteJSON(path string, res *survey.Results) error {
	b, err := utils.PrettyJSON(res)
	if err != nil {
		return err
	}
	if err := utils.SafeWriteFile(path, append(b, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}
