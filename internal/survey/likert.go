// Package survey turns raw questionnaire tables into screening scores and the
// aggregate tables behind the report charts.
package survey

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/KaramelBytes/moodmap-cli/internal/dataset"
)

// Instrument sizes.
const (
	PHQ9Items = 9
	GAD7Items = 7
)

// LikertScale maps the four frequency labels used by PHQ-9 and GAD-7 items to points.
var LikertScale = map[string]int{
	"Not at all":                 0,
	"Several days":               1,
	"More than half of the days": 2,
	"Nearly every day":           3,
}

// ErrNoLikertColumns is returned when no column holds only Likert labels.
var ErrNoLikertColumns = errors.New("no Likert-scale columns found")

// UnmappedPolicy decides what a missing or unrecognized item answer does to a score.
type UnmappedPolicy string

const (
	// PolicyExclude marks the respondent incomplete and leaves them out of prevalence tables.
	PolicyExclude UnmappedPolicy = "exclude"
	// PolicyZero counts the missing answer as 0 points.
	PolicyZero UnmappedPolicy = "zero"
)

// ParsePolicy accepts "exclude" or "zero", case-insensitively.
func ParsePolicy(s string) (UnmappedPolicy, error) {
	switch UnmappedPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case PolicyExclude, "":
		return PolicyExclude, nil
	case PolicyZero:
		return PolicyZero, nil
	}
	return "", fmt.Errorf("unknown unmapped policy %q", s)
}

// LikertValue maps a label to its points.
func LikertValue(label string) (int, bool) {
	v, ok := LikertScale[strings.TrimSpace(label)]
	return v, ok
}

// DetectLikertColumns returns, in header order, the columns where Likert labels
// make up at least half of the non-empty values. A stray answer such as
// "Prefer not to say" keeps its column and is scored as unmapped.
func DetectLikertColumns(t *dataset.Table) []int {
	var out []int
	for c := range t.Header {
		known, nonEmpty := 0, 0
		for r := range t.Rows {
			v := t.Cell(r, c)
			if strings.TrimSpace(v) == "" {
				continue
			}
			nonEmpty++
			if _, ok := LikertValue(v); ok {
				known++
			}
		}
		if known > 0 && 2*known >= nonEmpty {
			out = append(out, c)
		}
	}
	return out
}

// ResolveItemColumns returns PHQ-9 and GAD-7 column indices. Named columns are
// validated against the header; when both lists are empty the first nine
// detected Likert columns become PHQ-9 items and the rest GAD-7 items.
func ResolveItemColumns(t *dataset.Table, phq9, gad7 []string, logger *slog.Logger) (phqIdx, gadIdx []int, err error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(phq9) > 0 || len(gad7) > 0 {
		if phqIdx, err = t.Require(phq9...); err != nil {
			return nil, nil, err
		}
		if gadIdx, err = t.Require(gad7...); err != nil {
			return nil, nil, err
		}
		return phqIdx, gadIdx, nil
	}

	cols := DetectLikertColumns(t)
	if len(cols) == 0 {
		return nil, nil, fmt.Errorf("%s: %w", t.Name, ErrNoLikertColumns)
	}
	if len(cols) <= PHQ9Items {
		return nil, nil, fmt.Errorf("%s: found %d Likert columns, need more than %d to split PHQ-9 and GAD-7 items", t.Name, len(cols), PHQ9Items)
	}
	phqIdx, gadIdx = cols[:PHQ9Items], cols[PHQ9Items:]
	if len(gadIdx) != GAD7Items {
		logger.Warn("detected GAD-7 item count differs from instrument size", "detected", len(gadIdx), "expected", GAD7Items)
	}
	for _, c := range phqIdx {
		logger.Debug("PHQ-9 item", "column", t.Header[c])
	}
	for _, c := range gadIdx {
		logger.Debug("GAD-7 item", "column", t.Header[c])
	}
	return phqIdx, gadIdx, nil
}
