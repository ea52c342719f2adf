package extraction

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/agenthands/caduceus/internal/core/model"
)

// Classifier assigns a kind to a candidate mention span found by the
// sentence grammar. A well-formed span whose kind cannot be determined
// returns KindUnknown; a span that is not a plausible mention at all
// returns an error. The extractor cross-checks the returned kind against
// the grammar slot the span came from.
type Classifier interface {
	Classify(span string) (model.Kind, error)
}

// mentions are words: letters, digits after the first rune, spaces,
// hyphens, apostrophes
var mentionPattern = regexp.MustCompile(`^\p{L}[\p{L}\p{N}'\- ]*$`)

const maxMentionLen = 64

// RuleClassifier validates mention boundaries by shape and classifies via
// optional lexicons. With empty lexicons it accepts any well-formed span as
// KindUnknown, leaving the kind to the grammar slot.
type RuleClassifier struct {
	Diseases map[string]struct{}
	Symptoms map[string]struct{}
}

func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{
		Diseases: make(map[string]struct{}),
		Symptoms: make(map[string]struct{}),
	}
}

func (c *RuleClassifier) Classify(span string) (model.Kind, error) {
	if span == "" {
		return model.KindUnknown, fmt.Errorf("empty mention")
	}
	if utf8.RuneCountInString(span) > maxMentionLen {
		return model.KindUnknown, fmt.Errorf("mention %q exceeds %d characters", span, maxMentionLen)
	}
	if !mentionPattern.MatchString(span) {
		return model.KindUnknown, fmt.Errorf("mention %q is not a well-formed entity name", span)
	}
	key := model.NormalizeName(span)
	if _, ok := c.Diseases[key]; ok {
		return model.KindDisease, nil
	}
	if _, ok := c.Symptoms[key]; ok {
		return model.KindSymptom, nil
	}
	return model.KindUnknown, nil
}

// Learn records a resolved mention so later lines can be cross-checked
// against it.
func (c *RuleClassifier) Learn(name string, kind model.Kind) {
	key := model.NormalizeName(name)
	switch kind {
	case model.KindDisease:
		c.Diseases[key] = struct{}{}
	case model.KindSymptom:
		c.Symptoms[key] = struct{}{}
	}
}
