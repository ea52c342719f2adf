package store

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/sirupsen/logrus"
)

// MemgraphStore persists the disease-symptom graph in Memgraph (or any
// Bolt-speaking Neo4j-compatible database).
type MemgraphStore struct {
	Driver neo4j.DriverWithContext
	log    *logrus.Logger
}

func NewMemgraphStore(uri, username, password string, logger *logrus.Logger) (*MemgraphStore, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, err
	}

	if err := driver.VerifyConnectivity(context.Background()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	logger.WithField("uri", uri).Info("connected to Memgraph")
	return &MemgraphStore{Driver: driver, log: logger}, nil
}

func (s *MemgraphStore) Clear(ctx context.Context) error {
	_, err := s.execute(ctx, clearGraphQuery, nil)
	return err
}

func (s *MemgraphStore) Close(ctx context.Context) error {
	return s.Driver.Close(ctx)
}

func (s *MemgraphStore) execute(ctx context.Context, query string, params map[string]interface{}) (neo4j.EagerResult, error) {
	result, err := neo4j.ExecuteQuery(ctx, s.Driver, query, params, neo4j.EagerResultTransformer)
	if err != nil {
		// All queries here are package constants, so a failed execution
		// means the store itself is unhealthy.
		return neo4j.EagerResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return *result, nil
}

func (s *MemgraphStore) UpsertNode(ctx context.Context, n Node) error {
	var query string
	switch n.Label {
	case LabelDisease:
		query = upsertDiseaseQuery
	case LabelSymptom:
		query = upsertSymptomQuery
	default:
		return fmt.Errorf("unknown node label %q", n.Label)
	}

	_, err := s.execute(ctx, query, map[string]interface{}{
		"uuid": n.ID,
		"name": n.Name,
	})
	return err
}

func (s *MemgraphStore) UpsertEdge(ctx context.Context, fromID, toID, edgeType string) error {
	if edgeType != EdgeHasSymptom {
		return fmt.Errorf("unknown edge type %q", edgeType)
	}
	_, err := s.execute(ctx, upsertHasSymptomQuery, map[string]interface{}{
		"from_uuid": fromID,
		"to_uuid":   toID,
	})
	return err
}

func (s *MemgraphStore) Neighbors(ctx context.Context, nodeID, edgeType string) ([]Node, error) {
	if edgeType != EdgeHasSymptom {
		return nil, fmt.Errorf("unknown edge type %q", edgeType)
	}
	result, err := s.execute(ctx, neighborsQuery, map[string]interface{}{
		"uuid": nodeID,
	})
	if err != nil {
		return nil, err
	}

	var nodes []Node
	for _, record := range result.Records {
		id, _ := record.Get("uuid")
		name, _ := record.Get("name")
		labels, _ := record.Get("labels")

		node := Node{}
		if v, ok := id.(string); ok {
			node.ID = v
		}
		if v, ok := name.(string); ok {
			node.Name = v
		}
		if ls, ok := labels.([]interface{}); ok && len(ls) > 0 {
			if l, ok := ls[0].(string); ok {
				node.Label = l
			}
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func (s *MemgraphStore) NodesByLabel(ctx context.Context, label string) ([]Node, error) {
	var query string
	switch label {
	case LabelDisease:
		query = nodesByLabelDiseaseQuery
	case LabelSymptom:
		query = nodesByLabelSymptomQuery
	default:
		return nil, fmt.Errorf("unknown node label %q", label)
	}

	result, err := s.execute(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	var nodes []Node
	for _, record := range result.Records {
		id, _ := record.Get("uuid")
		name, _ := record.Get("name")
		node := Node{Label: label}
		if v, ok := id.(string); ok {
			node.ID = v
		}
		if v, ok := name.(string); ok {
			node.Name = v
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}
