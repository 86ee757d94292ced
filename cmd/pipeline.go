package cmd

import (
	"fmt"

	cfgpkg "github.com/KaramelBytes/moodmap-cli/internal/config"
	"github.com/KaramelBytes/moodmap-cli/internal/dataset"
	"github.com/KaramelBytes/moodmap-cli/internal/survey"
)

// Dataset names used in diagnostics.
const (
	dsMentalHealth = "mental health survey"
	dsRegions      = "region reference"
	dsSocial       = "social media survey"
)

type source struct {
	name string
	path string
	opt  dataset.Options
}

func sources(c *cfgpkg.Global) []source {
	return []source{
		{dsMentalHealth, c.MentalHealthFile, dataset.Options{HeaderLine: c.MentalHealthHeaderLine, SkipRows: c.MentalHealthSkipRows}},
		{dsRegions, c.RegionsFile, dataset.Options{}},
		{dsSocial, c.SocialMediaFile, dataset.Options{}},
	}
}

// loadInputs reads the three source tables from the configured data dir.
func loadInputs(c *cfgpkg.Global) (survey.Inputs, error) {
	l := dataset.NewLoader(c.DataDir, logger)
	tables := make([]*dataset.Table, 0, 3)
	for _, s := range sources(c) {
		t, err := l.Load(s.name, s.path, s.opt)
		if err != nil {
			return survey.Inputs{}, err
		}
		tables = append(tables, t)
	}
	return survey.Inputs{MentalHealth: tables[0], Regions: tables[1], Social: tables[2]}, nil
}

// pipelineOptions maps config keys onto the aggregation options.
func pipelineOptions(c *cfgpkg.Global) (survey.Options, error) {
	policy, err := survey.ParsePolicy(c.UnmappedPolicy)
	if err != nil {
		return survey.Options{}, err
	}
	vocab := survey.DefaultVocabulary()
	if c.VocabularyFile != "" {
		if vocab, err = survey.LoadVocabulary(c.VocabularyFile); err != nil {
			return survey.Options{}, err
		}
	}
	return survey.Options{
		Scorer: survey.ScorerConfig{
			StateColumn: c.StateColumn,
			PHQ9Columns: c.PHQ9Columns,
			GAD7Columns: c.GAD7Columns,
			PHQ9Cutoff:  c.PHQ9Cutoff,
			GAD7Cutoff:  c.GAD7Cutoff,
			Policy:      policy,
		},
		Regions: survey.RegionColumns{
			State:    c.RegionStateColumn,
			Code:     c.RegionCodeColumn,
			Region:   c.RegionNameColumn,
			Division: c.RegionDivisionColumn,
		},
		Social: survey.SocialColumns{
			Time:       c.TimeColumn,
			Platform:   c.PlatformColumn,
			Depression: c.DepressionColumn,
			Anxiety:    c.AnxietyColumn,
			Delimiter:  c.PlatformDelimiter,
		},
		Trend: survey.TrendConfig{
			AnxietyCutoff:    c.AnxietySeverityCutoff,
			DepressionCutoff: c.DepressionSeverityCutoff,
			Scale:            c.TimeBuckets,
		},
		Vocabulary: vocab,
	}, nil
}

// runPipeline loads, validates and aggregates. Schema problems fail here,
// before anything is written.
func runPipeline(c *cfgpkg.Global) (*survey.Results, error) {
	opt, err := pipelineOptions(c)
	if err != nil {
		return nil, err
	}
	in, err := loadInputs(c)
	if err != nil {
		return nil, err
	}
	res, err := survey.Run(in, opt, logger)
	if err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	return res, nil
}
