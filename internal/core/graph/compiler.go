package graph

import (
	"fmt"

	"github.com/agenthands/caduceus/internal/core/model"
)

// Edge is one deduplicated HAS_SYMPTOM relationship.
type Edge struct {
	DiseaseID string `json:"disease_id"`
	SymptomID string `json:"symptom_id"`
}

// Snapshot is an immutable compiled view of the knowledge base: the full
// entity set, the deduplicated edge set, and the fact statistics the
// probabilistic builder derives its tables from. Safe for concurrent reads.
type Snapshot struct {
	Nodes []model.Entity
	Edges []Edge

	// TotalFacts and SymptomOccurrences feed prior estimation:
	// occurrences counts the facts a symptom appears in, not mentions.
	TotalFacts         int
	SymptomOccurrences map[string]int

	byID       map[string]model.Entity
	byName     map[string]string // kind-qualified normalized name -> id
	symptomsOf map[string][]string
	diseasesOf map[string][]string
}

// Compile dedups entities by normalized name, assigns first-seen ordinals
// and builds the node/edge set. Deterministic for a given fact sequence;
// the node and edge *sets* are independent of fact order.
func Compile(facts []model.Fact) (*Snapshot, error) {
	s := &Snapshot{
		TotalFacts:         len(facts),
		SymptomOccurrences: make(map[string]int),
		byID:               make(map[string]model.Entity),
		byName:             make(map[string]string),
		symptomsOf:         make(map[string][]string),
		diseasesOf:         make(map[string][]string),
	}
	edgeSeen := make(map[Edge]struct{})

	for _, fact := range facts {
		disease, err := s.intern(fact.Disease)
		if err != nil {
			return nil, err
		}
		factSeen := make(map[string]struct{})
		for _, symptom := range fact.Symptoms {
			sym, err := s.intern(symptom)
			if err != nil {
				return nil, err
			}
			if _, dup := factSeen[sym.ID]; !dup {
				factSeen[sym.ID] = struct{}{}
				s.SymptomOccurrences[sym.ID]++
			}

			edge := Edge{DiseaseID: disease.ID, SymptomID: sym.ID}
			if _, dup := edgeSeen[edge]; dup {
				continue
			}
			edgeSeen[edge] = struct{}{}
			s.Edges = append(s.Edges, edge)
			s.symptomsOf[disease.ID] = append(s.symptomsOf[disease.ID], sym.ID)
			s.diseasesOf[sym.ID] = append(s.diseasesOf[sym.ID], disease.ID)
		}
	}

	return s, nil
}

// intern resolves an entity to its canonical instance, first mention wins.
func (s *Snapshot) intern(e model.Entity) (model.Entity, error) {
	key := string(e.Kind) + ":" + model.NormalizeName(e.Name)
	if id, ok := s.byName[key]; ok {
		return s.byID[id], nil
	}
	if e.Kind != model.KindDisease && e.Kind != model.KindSymptom {
		return model.Entity{}, fmt.Errorf("entity %q has no kind", e.Name)
	}
	e.Ordinal = len(s.Nodes)
	s.Nodes = append(s.Nodes, e)
	s.byID[e.ID] = e
	s.byName[key] = e.ID
	return e, nil
}

func (s *Snapshot) Entity(id string) (model.Entity, bool) {
	e, ok := s.byID[id]
	return e, ok
}

// Resolve looks an entity up by (raw) name and kind.
func (s *Snapshot) Resolve(name string, kind model.Kind) (model.Entity, bool) {
	id, ok := s.byName[string(kind)+":"+model.NormalizeName(name)]
	if !ok {
		return model.Entity{}, false
	}
	return s.byID[id], true
}

func (s *Snapshot) Diseases() []model.Entity {
	return s.ofKind(model.KindDisease)
}

func (s *Snapshot) Symptoms() []model.Entity {
	return s.ofKind(model.KindSymptom)
}

func (s *Snapshot) ofKind(kind model.Kind) []model.Entity {
	var out []model.Entity
	for _, e := range s.Nodes {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// SymptomsOf returns a disease's linked symptom ids in first-seen order.
func (s *Snapshot) SymptomsOf(diseaseID string) []string {
	return s.symptomsOf[diseaseID]
}

// DiseasesOf returns the diseases linked to a symptom in first-seen order.
func (s *Snapshot) DiseasesOf(symptomID string) []string {
	return s.diseasesOf[symptomID]
}
