package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenthands/caduceus/internal/core"
)

var loadCmd = &cobra.Command{
	Use:   "load [file]",
	Short: "Parse a knowledge file and report what was extracted",
	Long: `Load parses every line of a knowledge file, builds the graph and the
Bayesian network, and prints a summary. Lines that do not match the
sentence grammar are reported individually and never abort the load.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			cfg.Knowledge.Path = args[0]
		}

		logger := newLogger()
		system, err := newSystem(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		summary, err := system.RebuildFromCorpus(cmd.Context(), core.FileCorpus{Path: cfg.Knowledge.Path})
		if err != nil {
			return fmt.Errorf("load %s: %w", cfg.Knowledge.Path, err)
		}

		fmt.Printf("Loaded %s: %d lines, %d facts, %d parse failures\n",
			cfg.Knowledge.Path, summary.Lines, summary.Facts, len(summary.Failures))
		for _, failure := range summary.Failures {
			fmt.Printf("  line %d: %s\n", failure.Line, failure.Reason)
		}
		fmt.Printf("Diseases: %d, symptoms: %d\n", len(system.Diseases()), len(system.Symptoms()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)
}
