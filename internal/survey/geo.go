package survey

import (
	"sort"

	"github.com/KaramelBytes/moodmap-cli/internal/dataset"
)

// RegionColumns names the columns of the state reference table.
type RegionColumns struct {
	State    string
	Code     string
	Region   string
	Division string
}

// RegionRef is one row of the state reference table.
type RegionRef struct {
	State    string `json:"state"`
	Code     string `json:"code"`
	Region   string `json:"region"`
	Division string `json:"division"`
}

// StateSummary is the screening prevalence for one state of residence.
type StateSummary struct {
	State        string  `json:"state"`
	Code         string  `json:"code,omitempty"`
	Region       string  `json:"region,omitempty"`
	Division     string  `json:"division,omitempty"`
	Respondents  int     `json:"respondents"`
	GAD7Negative int     `json:"gad7_negative"`
	PHQ9Negative int     `json:"phq9_negative"`
	GAD7Percent  float64 `json:"gad7_negative_percent"`
	PHQ9Percent  float64 `json:"phq9_negative_percent"`
}

// Mapped reports whether the state joined to a reference row with a code.
func (s StateSummary) Mapped() bool { return s.Code != "" }

// RegionSummary rolls mapped states up to their census region.
type RegionSummary struct {
	Region       string  `json:"region"`
	States       int     `json:"states"`
	Respondents  int     `json:"respondents"`
	GAD7Negative int     `json:"gad7_negative"`
	PHQ9Negative int     `json:"phq9_negative"`
	GAD7Percent  float64 `json:"gad7_negative_percent"`
	PHQ9Percent  float64 `json:"phq9_negative_percent"`
}

// LoadRegionRefs indexes the reference table by exact state name.
func LoadRegionRefs(t *dataset.Table, cols RegionColumns) (map[string]RegionRef, error) {
	idx, err := t.Require(cols.State, cols.Code, cols.Region)
	if err != nil {
		return nil, err
	}
	divIdx := -1
	if cols.Division != "" {
		if i, ok := t.Col(cols.Division); ok {
			divIdx = i
		}
	}
	refs := make(map[string]RegionRef, t.Len())
	for r := range t.Rows {
		ref := RegionRef{
			State:  t.Cell(r, idx[0]),
			Code:   t.Cell(r, idx[1]),
			Region: t.Cell(r, idx[2]),
		}
		if divIdx >= 0 {
			ref.Division = t.Cell(r, divIdx)
		}
		if ref.State == "" {
			continue
		}
		if _, dup := refs[ref.State]; !dup {
			refs[ref.State] = ref
		}
	}
	return refs, nil
}

// SummarizeStates groups scored respondents by state. Respondents without a
// state or not marked Scored are skipped. Output is sorted by state name.
func SummarizeStates(resps []Respondent) []StateSummary {
	byState := map[string]*StateSummary{}
	for _, r := range resps {
		if !r.Scored || r.State == "" {
			continue
		}
		s := byState[r.State]
		if s == nil {
			s = &StateSummary{State: r.State}
			byState[r.State] = s
		}
		s.Respondents++
		if r.GAD7Negative {
			s.GAD7Negative++
		}
		if r.PHQ9Negative {
			s.PHQ9Negative++
		}
	}
	out := make([]StateSummary, 0, len(byState))
	for _, s := range byState {
		s.GAD7Percent = percent(s.GAD7Negative, s.Respondents)
		s.PHQ9Percent = percent(s.PHQ9Negative, s.Respondents)
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State < out[j].State })
	return out
}

// JoinRegions left-joins summaries to the reference table on exact state name.
// Unmatched state names keep empty codes and are returned separately.
func JoinRegions(states []StateSummary, refs map[string]RegionRef) ([]StateSummary, []string) {
	out := make([]StateSummary, len(states))
	var unmatched []string
	for i, s := range states {
		if ref, ok := refs[s.State]; ok {
			s.Code, s.Region, s.Division = ref.Code, ref.Region, ref.Division
		}
		if !s.Mapped() {
			unmatched = append(unmatched, s.State)
		}
		out[i] = s
	}
	return out, unmatched
}

// MappedStates filters to states with a reference code.
func MappedStates(states []StateSummary) []StateSummary {
	out := make([]StateSummary, 0, len(states))
	for _, s := range states {
		if s.Mapped() {
			out = append(out, s)
		}
	}
	return out
}

// RollupRegions sums mapped states per census region, sorted by region name.
func RollupRegions(states []StateSummary) []RegionSummary {
	byRegion := map[string]*RegionSummary{}
	for _, s := range states {
		if !s.Mapped() || s.Region == "" {
			continue
		}
		g := byRegion[s.Region]
		if g == nil {
			g = &RegionSummary{Region: s.Region}
			byRegion[s.Region] = g
		}
		g.States++
		g.Respondents += s.Respondents
		g.GAD7Negative += s.GAD7Negative
		g.PHQ9Negative += s.PHQ9Negative
	}
	out := make([]RegionSummary, 0, len(byRegion))
	for _, g := range byRegion {
		g.GAD7Percent = percent(g.GAD7Negative, g.Respondents)
		g.PHQ9Percent = percent(g.PHQ9Negative, g.Respondents)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Region < out[j].Region })
	return out
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
