package extraction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/caduceus/internal/core/model"
)

// TestExtractSentence checks the sentence grammar against its accepted
// variants: both connectives, optional period, comma and "and" separators.
func TestExtractSentence(t *testing.T) {
	extractor := NewExtractor(nil)

	tests := []struct {
		name     string
		line     string
		disease  string
		symptoms []string
	}{
		{
			name:     "basic",
			line:     "Flu has symptoms fever, cough, sore throat.",
			disease:  "Flu",
			symptoms: []string{"fever", "cough", "sore throat"},
		},
		{
			name:     "no trailing period",
			line:     "Flu has symptoms fever, cough",
			disease:  "Flu",
			symptoms: []string{"fever", "cough"},
		},
		{
			name:     "symptoms include variant",
			line:     "Migraine symptoms include headache, nausea.",
			disease:  "Migraine",
			symptoms: []string{"headache", "nausea"},
		},
		{
			name:     "oxford comma with and",
			line:     "Flu has symptoms fever, cough, and fatigue.",
			disease:  "Flu",
			symptoms: []string{"fever", "cough", "fatigue"},
		},
		{
			name:     "bare and separator",
			line:     "Cold has symptoms sneezing and runny nose.",
			disease:  "Cold",
			symptoms: []string{"sneezing", "runny nose"},
		},
		{
			name:     "case-insensitive connective",
			line:     "Flu HAS SYMPTOMS fever.",
			disease:  "Flu",
			symptoms: []string{"fever"},
		},
		{
			name:     "single symptom",
			line:     "Tetanus has symptoms lockjaw.",
			disease:  "Tetanus",
			symptoms: []string{"lockjaw"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fact, err := extractor.ExtractSentence(tt.line)
			assert.NoError(t, err)
			assert.Equal(t, tt.disease, fact.Disease.Name)
			assert.Equal(t, model.KindDisease, fact.Disease.Kind)
			names := make([]string, 0, len(fact.Symptoms))
			for _, s := range fact.Symptoms {
				assert.Equal(t, model.KindSymptom, s.Kind)
				names = append(names, s.Name)
			}
			assert.Equal(t, tt.symptoms, names)
		})
	}
}

func TestExtractSentenceRejectsMalformed(t *testing.T) {
	extractor := NewExtractor(nil)

	lines := []string{
		"",
		"Flu",
		"Flu causes fever.",
		"Flu symptoms Fever", // missing the connective phrase
		"has symptoms fever.",
		"Flu has symptoms .",
	}
	for _, line := range lines {
		_, err := extractor.ExtractSentence(line)
		assert.Error(t, err, "line %q", line)
	}
}

func TestExtractSentenceDedupsRepeatedMentions(t *testing.T) {
	extractor := NewExtractor(nil)

	fact, err := extractor.ExtractSentence("Flu has symptoms fever, Fever, cough.")
	assert.NoError(t, err)
	assert.Len(t, fact.Symptoms, 2)
	// First mention's casing wins.
	assert.Equal(t, "fever", fact.Symptoms[0].Name)
}

// TestExtractRecoversFromBadLines ensures malformed lines are counted and
// reported without aborting the load.
func TestExtractRecoversFromBadLines(t *testing.T) {
	corpus := strings.Join([]string{
		"Flu has symptoms fever, cough.",
		"",
		"this line is not a fact",
		"Cold has symptoms sneezing.",
		"   ",
		"another bad line",
	}, "\n")

	extractor := NewExtractor(nil)
	facts, summary, err := extractor.Extract(strings.NewReader(corpus))

	assert.NoError(t, err)
	assert.Len(t, facts, 2)
	assert.Equal(t, 4, summary.Lines) // blank lines are not counted
	assert.Equal(t, 2, summary.Facts)
	assert.Len(t, summary.Failures, 2)
	assert.Equal(t, 3, summary.Failures[0].Line)
	assert.Equal(t, 6, summary.Failures[1].Line)
}

func TestExtractPreservesFactOrder(t *testing.T) {
	corpus := "Flu has symptoms fever.\nCold has symptoms sneezing.\n"

	extractor := NewExtractor(nil)
	facts, _, err := extractor.Extract(strings.NewReader(corpus))

	assert.NoError(t, err)
	assert.Equal(t, "Flu", facts[0].Disease.Name)
	assert.Equal(t, "Cold", facts[1].Disease.Name)
}

func TestCanonicalSentence(t *testing.T) {
	sentence := CanonicalSentence("  Flu ", []string{" fever", "dry  cough", ""})
	assert.Equal(t, "Flu has symptoms fever, dry cough.", sentence)

	extractor := NewExtractor(nil)
	fact, err := extractor.ExtractSentence(sentence)
	assert.NoError(t, err)
	assert.Equal(t, "Flu", fact.Disease.Name)
	assert.Len(t, fact.Symptoms, 2)
}
