package survey

import (
	"log/slog"

	"github.com/KaramelBytes/moodmap-cli/internal/dataset"
)

// ScorerConfig names the mental health survey columns and screening cutoffs.
type ScorerConfig struct {
	StateColumn string
	// PHQ9Columns and GAD7Columns pin item columns by name. Leave both empty
	// to fall back to positional Likert detection.
	PHQ9Columns []string
	GAD7Columns []string
	PHQ9Cutoff  int
	GAD7Cutoff  int
	Policy      UnmappedPolicy
}

// Respondent is one scored mental health survey participant.
type Respondent struct {
	State        string
	PHQ9Score    int
	GAD7Score    int
	PHQ9Missing  int
	GAD7Missing  int
	PHQ9Negative bool
	GAD7Negative bool
	// Scored reports whether the respondent counts toward prevalence tables.
	Scored bool
}

// Complete reports whether every item answer mapped to a Likert value.
func (r Respondent) Complete() bool { return r.PHQ9Missing == 0 && r.GAD7Missing == 0 }

// ScoreRespondents sums item points per instrument and applies the cutoffs.
// Item columns come from ResolveItemColumns.
func ScoreRespondents(t *dataset.Table, cfg ScorerConfig, logger *slog.Logger) ([]Respondent, error) {
	if logger == nil {
		logger = slog.Default()
	}
	idx, err := t.Require(cfg.StateColumn)
	if err != nil {
		return nil, err
	}
	phqIdx, gadIdx, err := ResolveItemColumns(t, cfg.PHQ9Columns, cfg.GAD7Columns, logger)
	if err != nil {
		return nil, err
	}
	return ScoreRespondentsAt(t, idx[0], phqIdx, gadIdx, cfg, logger), nil
}

// ScoreRespondentsAt scores using column indices that are already resolved, so
// repeated or blank item headers still address their own columns.
func ScoreRespondentsAt(t *dataset.Table, stateIdx int, phqIdx, gadIdx []int, cfg ScorerConfig, logger *slog.Logger) []Respondent {
	if logger == nil {
		logger = slog.Default()
	}
	out := make([]Respondent, 0, t.Len())
	incomplete := 0
	for r := range t.Rows {
		resp := Respondent{State: t.Cell(r, stateIdx)}
		resp.PHQ9Score, resp.PHQ9Missing = sumItems(t, r, phqIdx)
		resp.GAD7Score, resp.GAD7Missing = sumItems(t, r, gadIdx)
		resp.PHQ9Negative = resp.PHQ9Score >= cfg.PHQ9Cutoff
		resp.GAD7Negative = resp.GAD7Score >= cfg.GAD7Cutoff
		resp.Scored = resp.Complete() || cfg.Policy == PolicyZero
		if !resp.Complete() {
			incomplete++
		}
		out = append(out, resp)
	}
	logger.Info("respondents scored", "respondents", len(out), "incomplete", incomplete, "policy", string(cfg.Policy))
	return out
}

func sumItems(t *dataset.Table, row int, cols []int) (score, missing int) {
	for _, c := range cols {
		v, ok := LikertValue(t.Cell(row, c))
		if !ok {
			missing++
			continue
		}
		score += v
	}
	return score, missing
}
