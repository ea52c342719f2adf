package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryStoreUpsertAndNeighbors(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, st.UpsertNode(ctx, Node{ID: "d1", Name: "Flu", Label: LabelDisease}))
	assert.NoError(t, st.UpsertNode(ctx, Node{ID: "s1", Name: "fever", Label: LabelSymptom}))
	assert.NoError(t, st.UpsertNode(ctx, Node{ID: "s2", Name: "cough", Label: LabelSymptom}))
	assert.NoError(t, st.UpsertEdge(ctx, "d1", "s1", EdgeHasSymptom))
	assert.NoError(t, st.UpsertEdge(ctx, "d1", "s2", EdgeHasSymptom))

	// Undirected: both endpoints see each other.
	symptoms, err := st.Neighbors(ctx, "d1", EdgeHasSymptom)
	assert.NoError(t, err)
	assert.Len(t, symptoms, 2)
	assert.Equal(t, "fever", symptoms[0].Name)

	diseases, err := st.Neighbors(ctx, "s1", EdgeHasSymptom)
	assert.NoError(t, err)
	assert.Len(t, diseases, 1)
	assert.Equal(t, "Flu", diseases[0].Name)
}

func TestMemoryStoreUpsertIsIdempotent(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.NoError(t, st.UpsertNode(ctx, Node{ID: "d1", Name: "Flu", Label: LabelDisease}))
		assert.NoError(t, st.UpsertNode(ctx, Node{ID: "s1", Name: "fever", Label: LabelSymptom}))
		assert.NoError(t, st.UpsertEdge(ctx, "d1", "s1", EdgeHasSymptom))
	}

	nodes, err := st.NodesByLabel(ctx, LabelDisease)
	assert.NoError(t, err)
	assert.Len(t, nodes, 1)

	neighbors, err := st.Neighbors(ctx, "d1", EdgeHasSymptom)
	assert.NoError(t, err)
	assert.Len(t, neighbors, 1)
}

func TestMemoryStoreNodesByLabelKeepsInsertionOrder(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, st.UpsertNode(ctx, Node{ID: "d2", Name: "Cold", Label: LabelDisease}))
	assert.NoError(t, st.UpsertNode(ctx, Node{ID: "s1", Name: "fever", Label: LabelSymptom}))
	assert.NoError(t, st.UpsertNode(ctx, Node{ID: "d1", Name: "Flu", Label: LabelDisease}))

	diseases, err := st.NodesByLabel(ctx, LabelDisease)
	assert.NoError(t, err)
	assert.Equal(t, []string{"Cold", "Flu"}, []string{diseases[0].Name, diseases[1].Name})
}

func TestMemoryStoreClear(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()

	assert.NoError(t, st.UpsertNode(ctx, Node{ID: "d1", Name: "Flu", Label: LabelDisease}))
	assert.NoError(t, st.UpsertNode(ctx, Node{ID: "s1", Name: "fever", Label: LabelSymptom}))
	assert.NoError(t, st.UpsertEdge(ctx, "d1", "s1", EdgeHasSymptom))

	assert.NoError(t, st.Clear(ctx))

	nodes, err := st.NodesByLabel(ctx, LabelDisease)
	assert.NoError(t, err)
	assert.Empty(t, nodes)
	neighbors, err := st.Neighbors(ctx, "d1", EdgeHasSymptom)
	assert.NoError(t, err)
	assert.Empty(t, neighbors)

	// The store is reusable after a clear.
	assert.NoError(t, st.UpsertNode(ctx, Node{ID: "d2", Name: "Cold", Label: LabelDisease}))
	nodes, err = st.NodesByLabel(ctx, LabelDisease)
	assert.NoError(t, err)
	assert.Len(t, nodes, 1)
}

func TestMemoryStoreUnknownNode(t *testing.T) {
	st := NewMemoryStore()

	neighbors, err := st.Neighbors(context.Background(), "nope", EdgeHasSymptom)
	assert.NoError(t, err)
	assert.Empty(t, neighbors)
}
