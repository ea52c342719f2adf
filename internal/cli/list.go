package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenthands/caduceus/internal/core"
	"github.com/agenthands/caduceus/internal/core/model"
)

var diseasesCmd = &cobra.Command{
	Use:   "diseases",
	Short: "List the diseases in the knowledge base",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listEntities(cmd, func(s *core.System) []model.Entity { return s.Diseases() })
	},
}

var symptomsCmd = &cobra.Command{
	Use:   "symptoms",
	Short: "List the symptoms in the knowledge base",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listEntities(cmd, func(s *core.System) []model.Entity { return s.Symptoms() })
	},
}

func listEntities(cmd *cobra.Command, pick func(*core.System) []model.Entity) error {
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

	for _, e := range pick(system) {
		fmt.Println(e.Name)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(diseasesCmd)
	rootCmd.AddCommand(symptomsCmd)
}
