package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// BreakerStore wraps a GraphStore with a circuit breaker so a flapping
// database degrades queries quickly instead of stalling every diagnosis.
// An open breaker surfaces as ErrStoreUnavailable.
type BreakerStore struct {
	inner   GraphStore
	breaker *gobreaker.CircuitBreaker
}

func NewBreakerStore(inner GraphStore, logger *logrus.Logger) *BreakerStore {
	settings := gobreaker.Settings{
		Name:    "graph-store",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("graph store breaker state change")
		},
	}
	return &BreakerStore{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

func (s *BreakerStore) execute(op func() (interface{}, error)) (interface{}, error) {
	result, err := s.breaker.Execute(op)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return result, err
}

func (s *BreakerStore) UpsertNode(ctx context.Context, n Node) error {
	_, err := s.execute(func() (interface{}, error) {
		return nil, s.inner.UpsertNode(ctx, n)
	})
	return err
}

func (s *BreakerStore) UpsertEdge(ctx context.Context, fromID, toID, edgeType string) error {
	_, err := s.execute(func() (interface{}, error) {
		return nil, s.inner.UpsertEdge(ctx, fromID, toID, edgeType)
	})
	return err
}

func (s *BreakerStore) Neighbors(ctx context.Context, nodeID, edgeType string) ([]Node, error) {
	result, err := s.execute(func() (interface{}, error) {
		return s.inner.Neighbors(ctx, nodeID, edgeType)
	})
	if err != nil {
		return nil, err
	}
	nodes, _ := result.([]Node)
	return nodes, nil
}

func (s *BreakerStore) NodesByLabel(ctx context.Context, label string) ([]Node, error) {
	result, err := s.execute(func() (interface{}, error) {
		return s.inner.NodesByLabel(ctx, label)
	})
	if err != nil {
		return nil, err
	}
	nodes, _ := result.([]Node)
	return nodes, nil
}

func (s *BreakerStore) Clear(ctx context.Context) error {
	_, err := s.execute(func() (interface{}, error) {
		return nil, s.inner.Clear(ctx)
	})
	return err
}

func (s *BreakerStore) Close(ctx context.Context) error {
	return s.inner.Close(ctx)
}
