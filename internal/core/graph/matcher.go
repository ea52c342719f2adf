package graph

import (
	"context"
	"sort"

	"github.com/agenthands/caduceus/internal/core/model"
	"github.com/agenthands/caduceus/internal/store"
)

// Matcher scores diseases by weighted symptom overlap against the graph
// store, independent of the probabilistic model. Scores are
// |matched| / |disease's linked symptoms|, always within [0,1].
type Matcher struct {
	store store.GraphStore
}

func NewMatcher(st store.GraphStore) *Matcher {
	return &Matcher{store: st}
}

// Match returns every disease with at least one observed symptom, ranked
// by overlap score descending, ties broken by disease name ascending.
// Unknown symptom names simply match nothing.
func (m *Matcher) Match(ctx context.Context, symptoms []string) ([]model.DiagnosisResult, error) {
	observed := make(map[string]struct{}, len(symptoms))
	for _, name := range symptoms {
		observed[model.EntityID(name, model.KindSymptom)] = struct{}{}
	}

	// Candidate diseases: every disease adjacent to an observed symptom.
	candidates := make(map[string]store.Node)
	for id := range observed {
		diseases, err := m.store.Neighbors(ctx, id, store.EdgeHasSymptom)
		if err != nil {
			return nil, err
		}
		for _, d := range diseases {
			candidates[d.ID] = d
		}
	}

	var results []model.DiagnosisResult
	for _, candidate := range candidates {
		linked, err := m.store.Neighbors(ctx, candidate.ID, store.EdgeHasSymptom)
		if err != nil {
			return nil, err
		}
		if len(linked) == 0 {
			continue
		}
		matched := 0
		for _, sym := range linked {
			if _, ok := observed[sym.ID]; ok {
				matched++
			}
		}
		results = append(results, model.DiagnosisResult{
			Disease: model.Entity{ID: candidate.ID, Name: candidate.Name, Kind: model.KindDisease},
			Score:   float64(matched) / float64(len(linked)),
			Source:  model.SourceGraph,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Disease.Name < results[j].Disease.Name
	})
	return results, nil
}
