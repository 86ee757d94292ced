package cmd

import (
	"fmt"

	"github.com/KaramelBytes/moodmap-cli/internal/survey"
	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X github.com/KaramelBytes/moodmap-cli/cmd.version=..."
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the moodmap version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "moodmap %s (platform vocabulary %s)\n", version, survey.DefaultVocabulary().Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
