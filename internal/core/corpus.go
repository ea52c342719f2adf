package core

import (
	"context"
	"fmt"
	"os"

	"github.com/agenthands/caduceus/internal/core/extraction"
)

// FileCorpus is the newline-delimited knowledge file the system loads
// from and appends to.
type FileCorpus struct {
	Path string
}

// RebuildFromCorpus loads the corpus file and rebuilds both engines.
func (s *System) RebuildFromCorpus(ctx context.Context, corpus FileCorpus) (extraction.LoadSummary, error) {
	f, err := os.Open(corpus.Path)
	if err != nil {
		return extraction.LoadSummary{}, fmt.Errorf("opening knowledge corpus: %w", err)
	}
	defer f.Close()
	return s.Rebuild(ctx, f)
}

// AddFact validates a new disease-to-symptoms fact against the sentence
// grammar, appends its canonical sentence to the corpus and rebuilds.
// Append and rebuild happen under the rebuild lock, so concurrent AddFact
// calls serialize and the published generation always reflects the last
// append.
func (s *System) AddFact(ctx context.Context, corpus FileCorpus, disease string, symptoms []string) (extraction.LoadSummary, error) {
	sentence := extraction.CanonicalSentence(disease, symptoms)
	if _, err := s.extractor.ExtractSentence(sentence); err != nil {
		return extraction.LoadSummary{}, fmt.Errorf("rejecting new fact: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(corpus.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return extraction.LoadSummary{}, fmt.Errorf("opening knowledge corpus: %w", err)
	}
	if _, err := fmt.Fprintln(f, sentence); err != nil {
		f.Close()
		return extraction.LoadSummary{}, fmt.Errorf("appending knowledge: %w", err)
	}
	if err := f.Close(); err != nil {
		return extraction.LoadSummary{}, err
	}

	r, err := os.Open(corpus.Path)
	if err != nil {
		return extraction.LoadSummary{}, fmt.Errorf("opening knowledge corpus: %w", err)
	}
	defer r.Close()
	return s.rebuildLocked(ctx, r)
}
