package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/moodmap-cli/internal/survey"
	"github.com/KaramelBytes/moodmap-cli/internal/utils"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var vocabExport string

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Show the platform vocabulary in use",
	Long: `Print the canonical platform names and the spellings mapped to them.
Use --export to write the active vocabulary as YAML, edit it, and point
vocabulary_file at the result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		v := survey.DefaultVocabulary()
		source := "built-in"
		if c.VocabularyFile != "" {
			if v, err = survey.LoadVocabulary(c.VocabularyFile); err != nil {
				return err
			}
			source = c.VocabularyFile
		}
		out := cmd.OutOrStdout()

		if vocabExport != "" {
			b, err := yaml.Marshal(v)
			if err != nil {
				return fmt.Errorf("marshal vocabulary: %w", err)
			}
			if err := utils.SafeWriteFile(vocabExport, b); err != nil {
				return err
			}
			fmt.Fprintf(out, "✓ Wrote vocabulary %s to %s\n", v.Version, vocabExport)
			return nil
		}

		fmt.Fprintf(out, "Vocabulary %s (%s)\n", v.Version, source)
		t := tablewriter.NewWriter(out)
		t.SetHeader([]string{"Platform", "Aliases"})
		for _, p := range v.Platforms {
			t.Append([]string{p.Name, strings.Join(p.Aliases, ", ")})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(vocabCmd)
	vocabCmd.Flags().StringVar(&vocabExport, "export", "", "write the vocabulary as YAML to this path")
}
