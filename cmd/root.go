package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	cfgpkg "github.com/KaramelBytes/moodmap-cli/internal/config"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "moodmap",
	Short: "moodmap: survey data to an interactive mental health and social media report",
	Long: `moodmap scores a GAD-7/PHQ-9 mental health survey, aggregates a social media
habits survey, and renders both into a single static HTML report with
interactive Plotly charts. Aggregates can also be exported to XLSX, SQLite,
JSON and PNG.`,
	SilenceUsage: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.moodmap/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal here: commands that need config report the error themselves
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
	logger = newLogger(cfg.LogLevel, debug)
	slog.SetDefault(logger)
}

// requireConfig returns the loaded config, retrying the load so the real
// error reaches the user.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	return cfg, nil
}

func newLogger(level string, debug bool) *slog.Logger {
	var lv slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lv = slog.LevelDebug
	case "warn", "warning":
		lv = slog.LevelWarn
	case "error":
		lv = slog.LevelError
	default:
		lv = slog.LevelInfo
	}
	if debug {
		lv = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lv}))
}
