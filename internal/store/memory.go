package store

import (
	"context"
	"sync"
)

// MemoryStore is an in-process GraphStore. It backs tests and store-less
// deployments, and keeps insertion order so rebuilds are reproducible.
type MemoryStore struct {
	mu    sync.RWMutex
	nodes map[string]Node
	order []string
	// adjacency per edge type, undirected, deduplicated
	edges map[string]map[string][]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nodes: make(map[string]Node),
		edges: make(map[string]map[string][]string),
	}
}

func (s *MemoryStore) UpsertNode(ctx context.Context, n Node) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.nodes[n.ID]; !ok {
		s.order = append(s.order, n.ID)
	}
	s.nodes[n.ID] = n
	return nil
}

func (s *MemoryStore) UpsertEdge(ctx context.Context, fromID, toID, edgeType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	adj, ok := s.edges[edgeType]
	if !ok {
		adj = make(map[string][]string)
		s.edges[edgeType] = adj
	}
	if !contains(adj[fromID], toID) {
		adj[fromID] = append(adj[fromID], toID)
	}
	if !contains(adj[toID], fromID) {
		adj[toID] = append(adj[toID], fromID)
	}
	return nil
}

func (s *MemoryStore) Neighbors(ctx context.Context, nodeID, edgeType string) ([]Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var nodes []Node
	for _, id := range s.edges[edgeType][nodeID] {
		if n, ok := s.nodes[id]; ok {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

func (s *MemoryStore) NodesByLabel(ctx context.Context, label string) ([]Node, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var nodes []Node
	for _, id := range s.order {
		if n := s.nodes[id]; n.Label == label {
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nodes = make(map[string]Node)
	s.order = nil
	s.edges = make(map[string]map[string][]string)
	return nil
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
