package extraction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agenthands/caduceus/internal/core/model"
	"github.com/agenthands/caduceus/internal/llm"
)

const classifyPrompt = `You are a medical named-entity tagger.
Answer with exactly one word: Disease, Symptom, or Neither.

Is the following span a disease name, a symptom name, or neither?

Span: %s`

// LLMClassifier validates mention boundaries with a language model. It
// wraps the shape checks of RuleClassifier so obviously malformed spans
// never reach the model.
type LLMClassifier struct {
	Client  llm.LLMClient
	Timeout time.Duration

	rules *RuleClassifier
}

func NewLLMClassifier(client llm.LLMClient) *LLMClassifier {
	return &LLMClassifier{
		Client:  client,
		Timeout: 15 * time.Second,
		rules:   NewRuleClassifier(),
	}
}

func (c *LLMClassifier) Classify(span string) (model.Kind, error) {
	kind, err := c.rules.Classify(span)
	if err != nil {
		return model.KindUnknown, err
	}
	if kind != model.KindUnknown {
		return kind, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	response, err := c.Client.Generate(ctx, fmt.Sprintf(classifyPrompt, span))
	if err != nil {
		// Tagger outage must not abort a knowledge load; fall back to
		// the grammar slot.
		return model.KindUnknown, nil
	}

	switch strings.ToLower(strings.TrimSpace(strings.Trim(response, "."))) {
	case "disease":
		c.rules.Learn(span, model.KindDisease)
		return model.KindDisease, nil
	case "symptom":
		c.rules.Learn(span, model.KindSymptom)
		return model.KindSymptom, nil
	case "neither":
		return model.KindUnknown, fmt.Errorf("span %q rejected by entity tagger", span)
	default:
		return model.KindUnknown, nil
	}
}
