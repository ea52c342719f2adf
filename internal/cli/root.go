package cli

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/agenthands/caduceus/internal/config"
	"github.com/agenthands/caduceus/internal/core"
	"github.com/agenthands/caduceus/internal/core/bayes"
	"github.com/agenthands/caduceus/internal/core/extraction"
	"github.com/agenthands/caduceus/internal/store"
)

var (
	cfgFile    string
	verbose    bool
	graphStore bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "caduceus",
	Short: "Caduceus - Dual-engine symptom-to-disease diagnosis",
	Long: `Caduceus maps a free-text medical knowledge base into two complementary
diagnostic engines: a labeled disease-symptom graph and a discrete
Bayesian network over the same entities.

Given observed symptoms it returns two independently ranked hypothesis
lists: structural symptom overlap from the graph, and exact posterior
probabilities from variable elimination. The lists are surfaced side by
side and never reconciled.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("caduceus v0.1.0")
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (TOML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&graphStore, "graph-store", false, "publish and match against the configured Memgraph instance instead of the in-memory store")

	rootCmd.AddCommand(versionCmd)
}

func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger
}

// newSystem builds a coordinator for a one-shot CLI invocation. The
// in-memory store is the default; --graph-store targets Memgraph.
func newSystem(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*core.System, error) {
	var st store.GraphStore = store.NewMemoryStore()
	if graphStore {
		memgraph, err := store.NewMemgraphStore(cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
		if err != nil {
			return nil, err
		}
		st = store.NewBreakerStore(memgraph, logger)
	}

	classifier, err := extraction.NewClassifierFromConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return core.NewSystem(st, classifier, bayes.BuildConfig{
		BaseRate:   cfg.Model.BaseRate,
		PriorMin:   cfg.Model.PriorMin,
		PriorMax:   cfg.Model.PriorMax,
		ParentWarn: cfg.Model.ParentWarn,
	}, logger), nil
}
