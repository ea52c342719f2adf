package graph

import (
	"context"
	"fmt"

	"github.com/agenthands/caduceus/internal/store"
)

// Publish replaces the graph store's contents with a snapshot. The store
// must mirror exactly the current knowledge base, so stale nodes from a
// previous load are cleared before the upserts; node ids are derived from
// normalized names, so republishing the same knowledge base is idempotent.
func Publish(ctx context.Context, st store.GraphStore, snap *Snapshot) error {
	if err := st.Clear(ctx); err != nil {
		return fmt.Errorf("clearing graph store: %w", err)
	}
	for _, e := range snap.Nodes {
		node := store.Node{ID: e.ID, Name: e.Name, Label: string(e.Kind)}
		if err := st.UpsertNode(ctx, node); err != nil {
			return fmt.Errorf("publishing node %q: %w", e.Name, err)
		}
	}
	for _, edge := range snap.Edges {
		if err := st.UpsertEdge(ctx, edge.DiseaseID, edge.SymptomID, store.EdgeHasSymptom); err != nil {
			return fmt.Errorf("publishing edge %s->%s: %w", edge.DiseaseID, edge.SymptomID, err)
		}
	}
	return nil
}
