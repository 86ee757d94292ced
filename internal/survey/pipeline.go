package survey

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/KaramelBytes/moodmap-cli/internal/dataset"
	"github.com/google/uuid"
)

// Inputs are the three loaded source tables.
type Inputs struct {
	MentalHealth *dataset.Table
	Regions      *dataset.Table
	Social       *dataset.Table
}

// Options configures every aggregation stage.
type Options struct {
	Scorer     ScorerConfig
	Regions    RegionColumns
	Social     SocialColumns
	Trend      TrendConfig
	Vocabulary *Vocabulary
}

// Diagnostics records what each stage dropped or could not match.
type Diagnostics struct {
	PHQ9Columns       []string `json:"phq9_columns"`
	GAD7Columns       []string `json:"gad7_columns"`
	Respondents       int      `json:"respondents"`
	Incomplete        int      `json:"incomplete"`
	Excluded          int      `json:"excluded"`
	UnmatchedStates   []string `json:"unmatched_states,omitempty"`
	UsageDropped      int      `json:"usage_dropped"`
	SeverityDropped   int      `json:"severity_dropped"`
	TrendDropped      int      `json:"trend_dropped"`
	UnknownPlatforms  []string `json:"unknown_platforms,omitempty"`
	UnknownBuckets    []string `json:"unknown_buckets,omitempty"`
	VocabularyVersion string   `json:"vocabulary_version"`
}

// Thresholds echoes the cutoffs a run applied.
type Thresholds struct {
	GAD7               int `json:"gad7"`
	PHQ9               int `json:"phq9"`
	AnxietySeverity    int `json:"anxiety_severity"`
	DepressionSeverity int `json:"depression_severity"`
}

// Results bundles every aggregate table produced by one run.
type Results struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	States      []StateSummary  `json:"states"`
	Regions     []RegionSummary `json:"regions"`
	Usage       *UsageTable     `json:"usage"`
	Depression  *CrossTab       `json:"depression"`
	Anxiety     *CrossTab       `json:"anxiety"`
	Trend       []TrendPoint    `json:"trend"`
	Scale       []string        `json:"scale"`
	Thresholds  Thresholds      `json:"thresholds"`
	Diagnostics Diagnostics     `json:"diagnostics"`
}

// MappedStates returns the states that carry a reference code.
func (r *Results) MappedStates() []StateSummary { return MappedStates(r.States) }

// Validate checks every column the pipeline reads before any computation, so
// schema drift surfaces as one diagnostic naming the dataset and column.
func Validate(in Inputs, opt Options) error {
	if in.MentalHealth == nil || in.Regions == nil || in.Social == nil {
		return fmt.Errorf("all three datasets are required")
	}
	mh := append([]string{opt.Scorer.StateColumn}, opt.Scorer.PHQ9Columns...)
	mh = append(mh, opt.Scorer.GAD7Columns...)
	if _, err := in.MentalHealth.Require(mh...); err != nil {
		return err
	}
	if _, err := in.Regions.Require(opt.Regions.State, opt.Regions.Code, opt.Regions.Region); err != nil {
		return err
	}
	s := opt.Social
	if _, err := in.Social.Require(s.Time, s.Platform, s.Depression, s.Anxiety); err != nil {
		return err
	}
	return nil
}

// Run executes scoring and every aggregation in order.
func Run(in Inputs, opt Options, logger *slog.Logger) (*Results, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opt.Vocabulary == nil {
		opt.Vocabulary = DefaultVocabulary()
	}
	if err := Validate(in, opt); err != nil {
		return nil, err
	}
	res := &Results{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		Scale:       opt.Trend.Scale,
		Thresholds: Thresholds{
			GAD7:               opt.Scorer.GAD7Cutoff,
			PHQ9:               opt.Scorer.PHQ9Cutoff,
			AnxietySeverity:    opt.Trend.AnxietyCutoff,
			DepressionSeverity: opt.Trend.DepressionCutoff,
		},
	}
	d := &res.Diagnostics
	d.VocabularyVersion = opt.Vocabulary.Version

	// Mental health scoring and geography
	phqIdx, gadIdx, err := ResolveItemColumns(in.MentalHealth, opt.Scorer.PHQ9Columns, opt.Scorer.GAD7Columns, logger)
	if err != nil {
		return nil, fmt.Errorf("resolve item columns: %w", err)
	}
	d.PHQ9Columns = headerNames(in.MentalHealth, phqIdx)
	d.GAD7Columns = headerNames(in.MentalHealth, gadIdx)
	stateIdx, _ := in.MentalHealth.Col(opt.Scorer.StateColumn)
	resps := ScoreRespondentsAt(in.MentalHealth, stateIdx, phqIdx, gadIdx, opt.Scorer, logger)
	d.Respondents = len(resps)
	for _, r := range resps {
		if !r.Complete() {
			d.Incomplete++
		}
		if !r.Scored {
			d.Excluded++
		}
	}
	refs, err := LoadRegionRefs(in.Regions, opt.Regions)
	if err != nil {
		return nil, fmt.Errorf("load region reference: %w", err)
	}
	res.States, d.UnmatchedStates = JoinRegions(SummarizeStates(resps), refs)
	if len(d.UnmatchedStates) > 0 {
		logger.Warn("states without a reference match left off the map", "states", d.UnmatchedStates)
	}
	res.Regions = RollupRegions(res.States)

	// Social media usage, severity and trend
	res.Usage, err = AggregateUsage(in.Social, opt.Social, opt.Vocabulary, opt.Trend.Scale)
	if err != nil {
		return nil, fmt.Errorf("aggregate usage: %w", err)
	}
	d.UsageDropped = res.Usage.Dropped
	d.UnknownPlatforms = res.Usage.Unknown
	d.UnknownBuckets = res.Usage.UnknownBuckets
	if len(d.UnknownPlatforms) > 0 {
		logger.Warn("platforms outside the vocabulary kept verbatim", "platforms", d.UnknownPlatforms, "vocabulary", d.VocabularyVersion)
	}
	res.Depression, res.Anxiety, d.SeverityDropped, err = BuildCrossTabs(in.Social, opt.Social, opt.Vocabulary)
	if err != nil {
		return nil, fmt.Errorf("build cross tabs: %w", err)
	}
	res.Trend, d.TrendDropped, err = AggregateTrend(in.Social, opt.Social, opt.Trend)
	if err != nil {
		return nil, fmt.Errorf("aggregate trend: %w", err)
	}
	logger.Info("aggregation complete",
		"states", len(res.States),
		"mapped", len(res.MappedStates()),
		"buckets", len(res.Usage.Buckets),
		"platforms", len(res.Usage.Platforms),
		"usage_dropped", d.UsageDropped,
		"severity_dropped", d.SeverityDropped,
		"trend_dropped", d.TrendDropped,
	)
	return res, nil
}

func headerNames(t *dataset.Table, idx []int) []string {
	out := make([]string, len(idx))
	for i, c := range idx {
		out[i] = t.Header[c]
	}
	return out
}
