package survey

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/KaramelBytes/moodmap-cli/internal/dataset"
)

// CrossTab is a severity level × platform contingency table with its
// row-normalized percent view.
type CrossTab struct {
	Measure   string      `json:"measure"`
	Levels    []int       `json:"levels"`
	Platforms []string    `json:"platforms"`
	Counts    [][]int     `json:"counts"`
	Percent   [][]float64 `json:"percent"`
}

// RowTotal returns the mention count of severity row i.
func (c *CrossTab) RowTotal(i int) int {
	total := 0
	for _, n := range c.Counts[i] {
		total += n
	}
	return total
}

// CountsFloat returns the counts as float64 rows for charting.
func (c *CrossTab) CountsFloat() [][]float64 {
	out := make([][]float64, len(c.Counts))
	for i, row := range c.Counts {
		out[i] = make([]float64, len(row))
		for j, n := range row {
			out[i][j] = float64(n)
		}
	}
	return out
}

// ParseSeverity coerces a severity answer to an integer. Integral floats such
// as "3.0" are accepted; infinities and out-of-range values fail.
func ParseSeverity(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

type severityRow struct {
	depression int
	anxiety    int
	platforms  []string
}

// BuildCrossTabs drops rows missing platform or either severity, explodes the
// rest over platform mentions, and pivots severity against platform for
// depression and anxiety. It also returns the number of dropped rows.
func BuildCrossTabs(t *dataset.Table, cols SocialColumns, vocab *Vocabulary) (depression, anxiety *CrossTab, dropped int, err error) {
	idx, err := t.Require(cols.Platform, cols.Depression, cols.Anxiety)
	if err != nil {
		return nil, nil, 0, err
	}
	var rows []severityRow
	platformSet := map[string]bool{}
	for r := range t.Rows {
		field := t.Cell(r, idx[0])
		dep, okD := ParseSeverity(t.Cell(r, idx[1]))
		anx, okA := ParseSeverity(t.Cell(r, idx[2]))
		if field == "" || !okD || !okA {
			dropped++
			continue
		}
		names, _ := vocab.Split(field, cols.Delimiter)
		if len(names) == 0 {
			dropped++
			continue
		}
		for _, n := range names {
			platformSet[n] = true
		}
		rows = append(rows, severityRow{depression: dep, anxiety: anx, platforms: names})
	}

	platforms := make([]string, 0, len(platformSet))
	for p := range platformSet {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)
	platforms = vocab.Order(platforms)

	depression = pivot("depression", rows, platforms, func(r severityRow) int { return r.depression })
	anxiety = pivot("anxiety", rows, platforms, func(r severityRow) int { return r.anxiety })
	return depression, anxiety, dropped, nil
}

func pivot(measure string, rows []severityRow, platforms []string, level func(severityRow) int) *CrossTab {
	col := make(map[string]int, len(platforms))
	for i, p := range platforms {
		col[p] = i
	}
	byLevel := map[int][]int{}
	for _, r := range rows {
		lv := level(r)
		counts := byLevel[lv]
		if counts == nil {
			counts = make([]int, len(platforms))
			byLevel[lv] = counts
		}
		for _, p := range r.platforms {
			counts[col[p]]++
		}
	}

	ct := &CrossTab{Measure: measure, Platforms: platforms}
	for lv := range byLevel {
		ct.Levels = append(ct.Levels, lv)
	}
	sort.Ints(ct.Levels)
	for _, lv := range ct.Levels {
		ct.Counts = append(ct.Counts, byLevel[lv])
	}
	ct.Percent = RowPercent(ct.Counts)
	return ct
}

// RowPercent divides each row by its sum and scales to 100. Rows summing to
// zero stay all zero.
func RowPercent(counts [][]int) [][]float64 {
	out := make([][]float64, len(counts))
	for i, row := range counts {
		out[i] = make([]float64, len(row))
		total := 0
		for _, n := range row {
			total += n
		}
		if total == 0 {
			continue
		}
		for j, n := range row {
			out[i][j] = float64(n) / float64(total) * 100
		}
	}
	return out
}
