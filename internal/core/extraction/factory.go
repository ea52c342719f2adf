package extraction

import (
	"context"

	"github.com/agenthands/caduceus/internal/config"
	"github.com/agenthands/caduceus/internal/llm"
)

// NewClassifierFromConfig selects the mention classifier for a configured
// deployment: "llm" wires the configured LLM client behind the rule
// checks, anything else is the plain rule classifier. Every surface that
// reads the config goes through here so they agree on its meaning.
func NewClassifierFromConfig(ctx context.Context, cfg *config.Config) (Classifier, error) {
	if cfg.Extraction.Classifier != "llm" {
		return NewRuleClassifier(), nil
	}
	client, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	return NewLLMClassifier(client), nil
}
