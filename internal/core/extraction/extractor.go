package extraction

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/agenthands/caduceus/internal/core/model"
)

// Sentence grammar: "<Disease> has symptoms <S1>, <S2>[, ...][ and <Sn>]."
// The connective is case-insensitive; "symptoms include" is an accepted
// variant; the trailing period is optional.
var sentencePattern = regexp.MustCompile(`(?i)^(.+?)\s+(?:has symptoms|symptoms include)\s+(.+?)\s*\.?\s*$`)

// Symptom lists split on commas and "and", with ", and" collapsing to a
// single separator.
var symptomSeparator = regexp.MustCompile(`\s*,\s*(?:and\s+)?|\s+and\s+`)

// ParseFailure records one malformed line. Failures are recovered, counted
// and reported after the load; they never abort it.
type ParseFailure struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

func (f ParseFailure) Error() string {
	return fmt.Sprintf("line %d: %s (%q)", f.Line, f.Reason, f.Text)
}

type LoadSummary struct {
	Lines    int            `json:"lines"`
	Facts    int            `json:"facts"`
	Failures []ParseFailure `json:"failures,omitempty"`
}

// Extractor turns knowledge sentences into Facts. It is a pure function
// over text: the only state is whatever the classifier accumulates.
type Extractor struct {
	classifier Classifier
}

func NewExtractor(classifier Classifier) *Extractor {
	if classifier == nil {
		classifier = NewRuleClassifier()
	}
	return &Extractor{classifier: classifier}
}

// Extract scans newline-delimited sentences and returns the Facts in input
// order plus a summary of what was skipped. Blank and whitespace-only
// lines are not counted. The returned error is only ever a read error.
func (e *Extractor) Extract(r io.Reader) ([]model.Fact, LoadSummary, error) {
	var (
		facts   []model.Fact
		summary LoadSummary
		lineNo  int
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		summary.Lines++

		fact, err := e.ExtractSentence(line)
		if err != nil {
			summary.Failures = append(summary.Failures, ParseFailure{
				Line:   lineNo,
				Text:   line,
				Reason: err.Error(),
			})
			continue
		}
		facts = append(facts, fact)
		summary.Facts++
	}
	if err := scanner.Err(); err != nil {
		return nil, summary, fmt.Errorf("reading knowledge corpus: %w", err)
	}

	return facts, summary, nil
}

// ExtractSentence parses a single knowledge sentence into a Fact.
func (e *Extractor) ExtractSentence(line string) (model.Fact, error) {
	m := sentencePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return model.Fact{}, fmt.Errorf("sentence does not match \"<Disease> has symptoms ...\"")
	}

	disease, err := e.resolveSpan(m[1], model.KindDisease)
	if err != nil {
		return model.Fact{}, err
	}

	var symptoms []model.Entity
	seen := make(map[string]struct{})
	for _, span := range symptomSeparator.Split(m[2], -1) {
		span = strings.TrimSpace(span)
		if span == "" {
			continue
		}
		symptom, err := e.resolveSpan(span, model.KindSymptom)
		if err != nil {
			return model.Fact{}, err
		}
		// Repeated mentions within one sentence collapse to one.
		if _, dup := seen[symptom.ID]; dup {
			continue
		}
		seen[symptom.ID] = struct{}{}
		symptoms = append(symptoms, symptom)
	}
	if len(symptoms) == 0 {
		return model.Fact{}, fmt.Errorf("no symptom mentions after %q", m[1])
	}

	return model.NewFact(disease, symptoms)
}

// resolveSpan validates a mention through the classifier and builds the
// entity for the grammar slot it came from. A classifier verdict that
// contradicts the slot is a parse failure.
func (e *Extractor) resolveSpan(span string, slot model.Kind) (model.Entity, error) {
	kind, err := e.classifier.Classify(strings.TrimSpace(span))
	if err != nil {
		return model.Entity{}, err
	}
	if kind != model.KindUnknown && kind != slot {
		return model.Entity{}, fmt.Errorf("mention %q classified as %s in a %s slot", span, kind, slot)
	}
	return model.NewEntity(span, slot), nil
}

// CanonicalSentence renders a fact back into the grammar's canonical form,
// used when appending knowledge to the corpus.
func CanonicalSentence(disease string, symptoms []string) string {
	cleaned := make([]string, 0, len(symptoms))
	for _, s := range symptoms {
		if s = strings.Join(strings.Fields(s), " "); s != "" {
			cleaned = append(cleaned, s)
		}
	}
	return fmt.Sprintf("%s has symptoms %s.",
		strings.Join(strings.Fields(disease), " "),
		strings.Join(cleaned, ", "))
}
