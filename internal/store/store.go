package store

import (
	"context"
	"errors"
)

// ErrStoreUnavailable marks a graph-store outage. Callers degrade rather
// than fail: the probabilistic engine still answers while the graph engine
// reports unavailable.
var ErrStoreUnavailable = errors.New("graph store unavailable")

const (
	LabelDisease = "Disease"
	LabelSymptom = "Symptom"

	EdgeHasSymptom = "HAS_SYMPTOM"
)

type Node struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// GraphStore is the minimal surface the diagnosis core needs from a graph
// database. The HAS_SYMPTOM graph is bipartite, so Neighbors is
// direction-agnostic: a disease's neighbors are its symptoms and a
// symptom's neighbors are the diseases that list it.
type GraphStore interface {
	UpsertNode(ctx context.Context, n Node) error
	UpsertEdge(ctx context.Context, fromID, toID, edgeType string) error
	Neighbors(ctx context.Context, nodeID, edgeType string) ([]Node, error)
	NodesByLabel(ctx context.Context, label string) ([]Node, error)
	// Clear removes every disease and symptom node with its edges. A
	// republish clears first so the store mirrors exactly one snapshot.
	Clear(ctx context.Context) error
	Close(ctx context.Context) error
}
