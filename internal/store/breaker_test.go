package store

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type flakyStore struct {
	GraphStore
	err error
}

func (s *flakyStore) Neighbors(ctx context.Context, nodeID, edgeType string) ([]Node, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.GraphStore.Neighbors(ctx, nodeID, edgeType)
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestBreakerPassesThroughWhenHealthy(t *testing.T) {
	inner := NewMemoryStore()
	st := NewBreakerStore(inner, quietLogger())
	ctx := context.Background()

	assert.NoError(t, st.UpsertNode(ctx, Node{ID: "d1", Name: "Flu", Label: LabelDisease}))
	assert.NoError(t, st.UpsertNode(ctx, Node{ID: "s1", Name: "fever", Label: LabelSymptom}))
	assert.NoError(t, st.UpsertEdge(ctx, "d1", "s1", EdgeHasSymptom))

	neighbors, err := st.Neighbors(ctx, "d1", EdgeHasSymptom)
	assert.NoError(t, err)
	assert.Len(t, neighbors, 1)

	assert.NoError(t, st.Clear(ctx))
	nodes, err := st.NodesByLabel(ctx, LabelDisease)
	assert.NoError(t, err)
	assert.Empty(t, nodes)
}

// TestBreakerOpensAfterConsecutiveFailures drives the breaker open and
// checks the open state surfaces as ErrStoreUnavailable.
func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	flaky := &flakyStore{GraphStore: NewMemoryStore(), err: errors.New("connection reset")}
	st := NewBreakerStore(flaky, quietLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := st.Neighbors(ctx, "d1", EdgeHasSymptom)
		assert.Error(t, err)
		assert.NotErrorIs(t, err, ErrStoreUnavailable)
	}

	// The breaker is now open; the inner store is not consulted.
	flaky.err = nil
	_, err := st.Neighbors(ctx, "d1", EdgeHasSymptom)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}
