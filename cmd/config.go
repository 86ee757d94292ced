package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/moodmap-cli/internal/config"
	"github.com/KaramelBytes/moodmap-cli/internal/survey"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set moodmap configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		b, err := yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(b)
		return err
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long: `Set one key and save the configuration file. List keys (phq9_columns,
gad7_columns, time_buckets) take a '|' separated value; an empty value clears
them.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if err := setKey(c, key, val); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Saved config")
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			dir, err := cfgpkg.Dir()
			if err != nil {
				return err
			}
			path = filepath.Join(dir, "config.yaml")
		}
		if _, err := os.Stat(path); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		if err := cfgpkg.Save(cfgpkg.Default(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote default config to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
}

func splitList(val string) []string {
	if strings.TrimSpace(val) == "" {
		return []string{}
	}
	parts := strings.Split(val, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func setKey(c *cfgpkg.Global, key, val string) error {
	atoi := func() (int, error) {
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return 0, fmt.Errorf("invalid non-negative int for %s: %v", key, val)
		}
		return i, nil
	}
	var err error
	switch key {
	case "data_dir":
		c.DataDir = val
	case "mental_health_file":
		c.MentalHealthFile = val
	case "regions_file":
		c.RegionsFile = val
	case "social_media_file":
		c.SocialMediaFile = val
	case "output_path":
		c.OutputPath = val
	case "plotly_cdn_url":
		c.PlotlyCDNURL = val
	case "narrative_dir":
		c.NarrativeDir = val
	case "mental_health_header_line":
		c.MentalHealthHeaderLine, err = atoi()
	case "mental_health_skip_rows":
		c.MentalHealthSkipRows, err = atoi()
	case "state_column":
		c.StateColumn = val
	case "phq9_columns":
		c.PHQ9Columns = splitList(val)
	case "gad7_columns":
		c.GAD7Columns = splitList(val)
	case "unmapped_policy":
		var p survey.UnmappedPolicy
		if p, err = survey.ParsePolicy(val); err == nil {
			c.UnmappedPolicy = string(p)
		}
	case "region_state_column":
		c.RegionStateColumn = val
	case "region_code_column":
		c.RegionCodeColumn = val
	case "region_name_column":
		c.RegionNameColumn = val
	case "region_division_column":
		c.RegionDivisionColumn = val
	case "time_column":
		c.TimeColumn = val
	case "platform_column":
		c.PlatformColumn = val
	case "depression_column":
		c.DepressionColumn = val
	case "anxiety_column":
		c.AnxietyColumn = val
	case "platform_delimiter":
		c.PlatformDelimiter = val
	case "time_buckets":
		c.TimeBuckets = splitList(val)
	case "vocabulary_file":
		c.VocabularyFile = val
	case "gad7_cutoff":
		c.GAD7Cutoff, err = atoi()
	case "phq9_cutoff":
		c.PHQ9Cutoff, err = atoi()
	case "anxiety_severity_cutoff":
		c.AnxietySeverityCutoff, err = atoi()
	case "depression_severity_cutoff":
		c.DepressionSeverityCutoff, err = atoi()
	case "log_level":
		switch strings.ToLower(val) {
		case "debug", "info", "warn", "error":
			c.LogLevel = strings.ToLower(val)
		default:
			return fmt.Errorf("invalid log_level: %s (use debug, info, warn or error)", val)
		}
	default:
		return fmt.Errorf("unknown key: %s", key)
	}
	return err
}
