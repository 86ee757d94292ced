package survey

import (
	"github.com/KaramelBytes/moodmap-cli/internal/dataset"
)

// TrendConfig holds the 1–5 severity cutoffs used for usage-time trends.
// These are single-question severities, not summed GAD-7/PHQ-9 scores.
type TrendConfig struct {
	AnxietyCutoff    int
	DepressionCutoff int
	Scale            []string
}

// TrendPoint is the screening prevalence of one usage-time bucket.
type TrendPoint struct {
	Bucket             string  `json:"bucket"`
	Respondents        int     `json:"respondents"`
	AnxietyNegative    int     `json:"anxiety_negative"`
	DepressionNegative int     `json:"depression_negative"`
	AnxietyRate        float64 `json:"anxiety_rate"`
	DepressionRate     float64 `json:"depression_rate"`
}

// AggregateTrend classifies each complete row against the severity cutoffs and
// computes per-bucket rates. Only buckets on the scale that have respondents
// appear, in scale order. dropped counts rows missing a field, with a
// non-integer severity, or with an unrecognized bucket.
func AggregateTrend(t *dataset.Table, cols SocialColumns, cfg TrendConfig) (points []TrendPoint, dropped int, err error) {
	idx, err := t.Require(cols.Time, cols.Depression, cols.Anxiety)
	if err != nil {
		return nil, 0, err
	}
	pos := make(map[string]int, len(cfg.Scale))
	for i, s := range cfg.Scale {
		pos[s] = i
	}
	acc := make([]TrendPoint, len(cfg.Scale))
	for r := range t.Rows {
		bucket := t.Cell(r, idx[0])
		dep, okD := ParseSeverity(t.Cell(r, idx[1]))
		anx, okA := ParseSeverity(t.Cell(r, idx[2]))
		i, known := pos[bucket]
		if bucket == "" || !okD || !okA || !known {
			dropped++
			continue
		}
		p := &acc[i]
		p.Bucket = bucket
		p.Respondents++
		if anx >= cfg.AnxietyCutoff {
			p.AnxietyNegative++
		}
		if dep >= cfg.DepressionCutoff {
			p.DepressionNegative++
		}
	}
	for _, p := range acc {
		if p.Respondents == 0 {
			continue
		}
		p.AnxietyRate = percent(p.AnxietyNegative, p.Respondents)
		p.DepressionRate = percent(p.DepressionNegative, p.Respondents)
		points = append(points, p)
	}
	return points, dropped, nil
}
