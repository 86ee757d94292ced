package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultTimeBuckets is the ordinal scale of daily social media usage.
var DefaultTimeBuckets = []string{
	"Less than an Hour",
	"Between 1 and 2 hours",
	"Between 2 and 3 hours",
	"Between 3 and 4 hours",
	"Between 4 and 5 hours",
	"More than 5 hours",
}

// Global configuration structure.
type Global struct {
	// Inputs
	DataDir          string `mapstructure:"data_dir" yaml:"data_dir"`
	MentalHealthFile string `mapstructure:"mental_health_file" yaml:"mental_health_file"`
	RegionsFile      string `mapstructure:"regions_file" yaml:"regions_file"`
	SocialMediaFile  string `mapstructure:"social_media_file" yaml:"social_media_file"`

	// Outputs
	OutputPath   string `mapstructure:"output_path" yaml:"output_path"`
	PlotlyCDNURL string `mapstructure:"plotly_cdn_url" yaml:"plotly_cdn_url"`
	NarrativeDir string `mapstructure:"narrative_dir" yaml:"narrative_dir"`

	// Mental health survey layout
	MentalHealthHeaderLine int      `mapstructure:"mental_health_header_line" yaml:"mental_health_header_line"`
	MentalHealthSkipRows   int      `mapstructure:"mental_health_skip_rows" yaml:"mental_health_skip_rows"`
	StateColumn            string   `mapstructure:"state_column" yaml:"state_column"`
	PHQ9Columns            []string `mapstructure:"phq9_columns" yaml:"phq9_columns"`
	GAD7Columns            []string `mapstructure:"gad7_columns" yaml:"gad7_columns"`
	UnmappedPolicy         string   `mapstructure:"unmapped_policy" yaml:"unmapped_policy"`

	// Region reference layout
	RegionStateColumn    string `mapstructure:"region_state_column" yaml:"region_state_column"`
	RegionCodeColumn     string `mapstructure:"region_code_column" yaml:"region_code_column"`
	RegionNameColumn     string `mapstructure:"region_name_column" yaml:"region_name_column"`
	RegionDivisionColumn string `mapstructure:"region_division_column" yaml:"region_division_column"`

	// Social media survey layout
	TimeColumn        string   `mapstructure:"time_column" yaml:"time_column"`
	PlatformColumn    string   `mapstructure:"platform_column" yaml:"platform_column"`
	DepressionColumn  string   `mapstructure:"depression_column" yaml:"depression_column"`
	AnxietyColumn     string   `mapstructure:"anxiety_column" yaml:"anxiety_column"`
	PlatformDelimiter string   `mapstructure:"platform_delimiter" yaml:"platform_delimiter"`
	TimeBuckets       []string `mapstructure:"time_buckets" yaml:"time_buckets"`
	VocabularyFile    string   `mapstructure:"vocabulary_file" yaml:"vocabulary_file"`

	// Screening thresholds
	GAD7Cutoff               int `mapstructure:"gad7_cutoff" yaml:"gad7_cutoff"`
	PHQ9Cutoff               int `mapstructure:"phq9_cutoff" yaml:"phq9_cutoff"`
	AnxietySeverityCutoff    int `mapstructure:"anxiety_severity_cutoff" yaml:"anxiety_severity_cutoff"`
	DepressionSeverityCutoff int `mapstructure:"depression_severity_cutoff" yaml:"depression_severity_cutoff"`

	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
}

// Dir returns the directory holding config.yaml, ~/.moodmap.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".moodmap"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.moodmap/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		dir, err := Dir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_dir", "data")
	v.SetDefault("mental_health_file", filepath.Join("MentalHealthSurvey", "Mental_Health_Survey_Feb_20_22.csv"))
	v.SetDefault("regions_file", "USCensusBureau_RegionsAndDivisions.csv")
	v.SetDefault("social_media_file", "smmh.csv")

	v.SetDefault("output_path", "report.html")
	v.SetDefault("plotly_cdn_url", "https://cdn.plot.ly/plotly-2.35.2.min.js")
	v.SetDefault("narrative_dir", "")

	v.SetDefault("mental_health_header_line", 1)
	v.SetDefault("mental_health_skip_rows", 1)
	v.SetDefault("state_column", "In which state do you live? - State")
	v.SetDefault("phq9_columns", []string{})
	v.SetDefault("gad7_columns", []string{})
	v.SetDefault("unmapped_policy", "exclude")

	v.SetDefault("region_state_column", "State")
	v.SetDefault("region_code_column", "State Code")
	v.SetDefault("region_name_column", "Region")
	v.SetDefault("region_division_column", "Division")

	v.SetDefault("time_column", "8. What is the average time you spend on social media every day?")
	v.SetDefault("platform_column", "7. What social media platforms do you commonly use?")
	v.SetDefault("depression_column", "18. How often do you feel depressed or down?")
	v.SetDefault("anxiety_column", "13. On a scale of 1 to 5, how much are you bothered by worries?")
	v.SetDefault("platform_delimiter", ", ")
	v.SetDefault("time_buckets", DefaultTimeBuckets)
	v.SetDefault("vocabulary_file", "")

	v.SetDefault("gad7_cutoff", 10)
	v.SetDefault("phq9_cutoff", 10)
	v.SetDefault("anxiety_severity_cutoff", 4)
	v.SetDefault("depression_severity_cutoff", 3)

	v.SetDefault("log_level", "info")
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A .env file in the working
// directory is read first so its values participate as env.
func Load(cfgFile string) (*Global, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetEnvPrefix("MOODMAP")
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
	} else {
		dir, err := Dir()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// optional read
		_ = v.ReadInConfig()
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns the built-in configuration without reading files or env.
func Default() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	_ = v.Unmarshal(&c)
	return &c
}

// Validate rejects values the pipeline cannot run with.
func (c *Global) Validate() error {
	switch strings.ToLower(c.UnmappedPolicy) {
	case "exclude", "zero":
	default:
		return fmt.Errorf("invalid unmapped_policy: %q (use exclude or zero)", c.UnmappedPolicy)
	}
	if c.MentalHealthHeaderLine < 0 || c.MentalHealthSkipRows < 0 {
		return fmt.Errorf("mental_health_header_line and mental_health_skip_rows must be >= 0")
	}
	if c.PlatformDelimiter == "" {
		return fmt.Errorf("platform_delimiter must not be empty")
	}
	if len(c.TimeBuckets) == 0 {
		return fmt.Errorf("time_buckets must list at least one bucket")
	}
	return nil
}
