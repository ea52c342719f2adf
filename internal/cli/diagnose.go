package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenthands/caduceus/internal/core"
	"github.com/agenthands/caduceus/internal/core/bayes"
	"github.com/agenthands/caduceus/internal/core/model"
)

var diagnoseTop int

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose <symptom> [<symptom>...]",
	Short: "Rank diseases for a set of observed symptoms",
	Long: `Diagnose loads the configured knowledge file and prints two ranked
hypothesis lists for the given symptoms: structural overlap scores from
the graph and exact posteriors from the Bayesian network. The lists are
independent and are shown side by side.`,
	Args: cobra.MinimumNArgs(1),
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
		if _, err := system.RebuildFromCorpus(cmd.Context(), core.FileCorpus{Path: cfg.Knowledge.Path}); err != nil {
			return fmt.Errorf("load %s: %w", cfg.Knowledge.Path, err)
		}

		report, err := system.Diagnose(cmd.Context(), args)
		if err != nil {
			var unknown *bayes.UnknownVariableError
			switch {
			case errors.As(err, &unknown), errors.Is(err, bayes.ErrInconsistentEvidence):
				// The graph half still answers; print it with the caveat.
				fmt.Printf("probabilistic engine: %v\n\n", err)
			default:
				return err
			}
		}
		if report == nil {
			return err
		}

		printRanking("Graph overlap", report.GraphResults)
		if report.GraphUnavailable {
			fmt.Println("Graph overlap: store unavailable")
		}
		fmt.Println()
		printRanking("Posterior probability", report.ProbabilisticResults)
		return nil
	},
}

func printRanking(title string, results []model.DiagnosisResult) {
	fmt.Printf("%s:\n", title)
	if len(results) == 0 {
		fmt.Println("  (no candidates)")
		return
	}
	shown := results
	if diagnoseTop > 0 && len(shown) > diagnoseTop {
		shown = shown[:diagnoseTop]
	}
	for i, r := range shown {
		fmt.Printf("  %d. %-30s %.4f\n", i+1, r.Disease.Name, r.Score)
	}
}

func init() {
	diagnoseCmd.Flags().IntVar(&diagnoseTop, "top", 0, "show only the top N candidates per list (0 = all)")
	rootCmd.AddCommand(diagnoseCmd)
}
