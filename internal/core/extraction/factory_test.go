package extraction

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/caduceus/internal/config"
)

func TestNewClassifierFromConfig(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	classifier, err := NewClassifierFromConfig(ctx, cfg)
	assert.NoError(t, err)
	assert.IsType(t, &RuleClassifier{}, classifier)

	cfg.Extraction.Classifier = "llm"
	cfg.LLM.Provider = "openai"
	cfg.LLM.Model = "gpt-4o-mini"
	cfg.LLM.APIKey = "test-key"
	classifier, err = NewClassifierFromConfig(ctx, cfg)
	assert.NoError(t, err)
	assert.IsType(t, &LLMClassifier{}, classifier)

	cfg.LLM.Provider = "abacus"
	_, err = NewClassifierFromConfig(ctx, cfg)
	assert.Error(t, err)
}
