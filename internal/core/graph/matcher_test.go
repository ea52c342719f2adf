package graph

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenthands/caduceus/internal/core/model"
	"github.com/agenthands/caduceus/internal/store"
)

func publishFixture(t *testing.T) *store.MemoryStore {
	t.Helper()
	snap, err := Compile([]model.Fact{
		fact(t, "Flu", "fever", "cough", "fatigue"),
		fact(t, "Pneumonia", "fever", "cough", "chest pain", "shortness of breath"),
		fact(t, "Cold", "sneezing", "runny nose"),
	})
	assert.NoError(t, err)

	st := store.NewMemoryStore()
	assert.NoError(t, Publish(context.Background(), st, snap))
	return st
}

func TestMatchRanksByOverlap(t *testing.T) {
	matcher := NewMatcher(publishFixture(t))

	results, err := matcher.Match(context.Background(), []string{"fever", "cough"})
	assert.NoError(t, err)
	assert.Len(t, results, 2)

	// Flu matches 2/3, Pneumonia 2/4.
	assert.Equal(t, "Flu", results[0].Disease.Name)
	assert.InDelta(t, 2.0/3.0, results[0].Score, 1e-12)
	assert.Equal(t, "Pneumonia", results[1].Disease.Name)
	assert.InDelta(t, 0.5, results[1].Score, 1e-12)
	for _, r := range results {
		assert.Equal(t, model.SourceGraph, r.Source)
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 1.0)
	}
}

func TestMatchFullOverlapScoresOne(t *testing.T) {
	matcher := NewMatcher(publishFixture(t))

	results, err := matcher.Match(context.Background(), []string{"sneezing", "runny nose"})
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "Cold", results[0].Disease.Name)
	assert.Equal(t, 1.0, results[0].Score)
}

// TestMatchUnknownSymptom ensures unknown names match nothing instead of
// erroring; the probabilistic engine is the strict one.
func TestMatchUnknownSymptom(t *testing.T) {
	matcher := NewMatcher(publishFixture(t))

	results, err := matcher.Match(context.Background(), []string{"glowing"})
	assert.NoError(t, err)
	assert.Empty(t, results)

	// Mixed known and unknown still scores the known one.
	results, err = matcher.Match(context.Background(), []string{"sneezing", "glowing"})
	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Equal(t, "Cold", results[0].Disease.Name)
	assert.InDelta(t, 0.5, results[0].Score, 1e-12)
}

func TestMatchTiesBreakByName(t *testing.T) {
	snap, err := Compile([]model.Fact{
		fact(t, "Zoster", "rash"),
		fact(t, "Measles", "rash"),
	})
	assert.NoError(t, err)
	st := store.NewMemoryStore()
	assert.NoError(t, Publish(context.Background(), st, snap))

	results, err := NewMatcher(st).Match(context.Background(), []string{"rash"})
	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "Measles", results[0].Disease.Name)
	assert.Equal(t, "Zoster", results[1].Disease.Name)
}

// TestPublishReplacesPreviousSnapshot shrinks the knowledge base between
// publishes; entities dropped from the snapshot must not survive in the
// store.
func TestPublishReplacesPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()

	first, err := Compile([]model.Fact{
		fact(t, "Flu", "fever"),
		fact(t, "Plague", "fever", "buboes"),
	})
	assert.NoError(t, err)
	assert.NoError(t, Publish(ctx, st, first))

	second, err := Compile([]model.Fact{fact(t, "Flu", "fever")})
	assert.NoError(t, err)
	assert.NoError(t, Publish(ctx, st, second))

	diseases, err := st.NodesByLabel(ctx, store.LabelDisease)
	assert.NoError(t, err)
	assert.Len(t, diseases, 1)
	assert.Equal(t, "Flu", diseases[0].Name)

	symptoms, err := st.NodesByLabel(ctx, store.LabelSymptom)
	assert.NoError(t, err)
	assert.Len(t, symptoms, 1)
	assert.Equal(t, "fever", symptoms[0].Name)
}

// TestPublishIdempotent republishes the same snapshot and checks the store
// did not grow.
func TestPublishIdempotent(t *testing.T) {
	snap, err := Compile([]model.Fact{fact(t, "Flu", "fever", "cough")})
	assert.NoError(t, err)

	st := store.NewMemoryStore()
	ctx := context.Background()
	assert.NoError(t, Publish(ctx, st, snap))
	assert.NoError(t, Publish(ctx, st, snap))

	diseases, err := st.NodesByLabel(ctx, store.LabelDisease)
	assert.NoError(t, err)
	assert.Len(t, diseases, 1)

	neighbors, err := st.Neighbors(ctx, snap.Nodes[0].ID, store.EdgeHasSymptom)
	assert.NoError(t, err)
	assert.Len(t, neighbors, 2)
}
