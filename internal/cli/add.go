package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenthands/caduceus/internal/core"
)

var addCmd = &cobra.Command{
	Use:   "add <disease> <symptom> [<symptom>...]",
	Short: "Append a new fact to the knowledge file",
	Long: `Add validates a disease and its symptoms against the sentence grammar,
appends the canonical sentence to the configured knowledge file and
rebuilds both engines. A fact that fails validation leaves the file
untouched.`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger := newLogger()
		system, err := newSystem(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		corpus := core.FileCorpus{Path: cfg.Knowledge.Path}
		if _, err := system.RebuildFromCorpus(cmd.Context(), corpus); err != nil {
			return fmt.Errorf("load %s: %w", cfg.Knowledge.Path, err)
		}

		summary, err := system.AddFact(cmd.Context(), corpus, args[0], args[1:])
		if err != nil {
			return err
		}

		fmt.Printf("Added %q. Knowledge base now holds %d facts, %d diseases, %d symptoms.\n",
			args[0], summary.Facts, len(system.Diseases()), len(system.Symptoms()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
}
