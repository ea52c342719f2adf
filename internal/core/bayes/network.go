package bayes

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/agenthands/caduceus/internal/core/graph"
	"github.com/agenthands/caduceus/internal/core/model"
)

// CPT rows must sum to one within this tolerance.
const rowTolerance = 1e-6

// Disease probabilities are kept strictly inside (0,1) so no evidence
// combination collapses the joint to an exact zero.
const cptEpsilon = 1e-4

// ModelBuildError is fatal to a knowledge-base build.
type ModelBuildError struct {
	Entity string
	Reason string
}

func (e *ModelBuildError) Error() string {
	return fmt.Sprintf("model build failed for %q: %s", e.Entity, e.Reason)
}

type BuildConfig struct {
	// BaseRate scales P(disease=present | parent config) before clamping.
	BaseRate float64
	// PriorMin/PriorMax clamp symptom priors away from 0 and 1.
	PriorMin float64
	PriorMax float64
	// ParentWarn is the parent count above which CPT size (2^k rows) is
	// flagged. The build stays exact; the warning is the operator's cue
	// to split overly broad diseases in the knowledge base.
	ParentWarn int
}

func DefaultBuildConfig() BuildConfig {
	return BuildConfig{
		BaseRate:   0.8,
		PriorMin:   0.01,
		PriorMax:   0.99,
		ParentWarn: 20,
	}
}

// Variable is one binary node of the network. Symptoms have no parents;
// a disease's parents are its linked symptoms.
type Variable struct {
	Entity  model.Entity
	Parents []int
	CPT     *Factor
}

// Network is the compiled probabilistic model: a DAG with symptom-to-disease
// edges, the direction-reversed image of the graph store's HAS_SYMPTOM
// edges. Immutable once built.
type Network struct {
	Variables []Variable
	index     map[string]int
}

// Build derives the network from a compiled snapshot. Symptom priors are
// fact frequencies clamped into [PriorMin, PriorMax]; disease tables scale
// the fraction of linked symptoms present by BaseRate.
func Build(snap *graph.Snapshot, cfg BuildConfig, logger *logrus.Logger) (*Network, error) {
	n := &Network{index: make(map[string]int, len(snap.Nodes))}
	for _, e := range snap.Nodes {
		n.index[e.ID] = len(n.Variables)
		n.Variables = append(n.Variables, Variable{Entity: e})
	}

	for i := range n.Variables {
		v := &n.Variables[i]
		switch v.Entity.Kind {
		case model.KindSymptom:
			prior := clamp(
				float64(snap.SymptomOccurrences[v.Entity.ID])/float64(max(snap.TotalFacts, 1)),
				cfg.PriorMin, cfg.PriorMax)
			v.CPT = NewFactor([]int{i}, []int{2})
			v.CPT.Values[StateAbsent] = 1 - prior
			v.CPT.Values[StatePresent] = prior

		case model.KindDisease:
			parents := snap.SymptomsOf(v.Entity.ID)
			if len(parents) == 0 {
				return nil, &ModelBuildError{Entity: v.Entity.Name, Reason: "disease has no symptoms"}
			}
			if len(parents) > cfg.ParentWarn {
				logger.WithFields(logrus.Fields{
					"disease": v.Entity.Name,
					"parents": len(parents),
					"rows":    math.Pow(2, float64(len(parents))),
				}).Warn("large CPT: consider splitting this disease in the knowledge base")
			}
			for _, pid := range parents {
				v.Parents = append(v.Parents, n.index[pid])
			}
			v.CPT = diseaseCPT(i, v.Parents, cfg.BaseRate)
		}
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// diseaseCPT builds P(disease | parents): the fraction of parents present
// in the configuration, scaled by the base rate, clamped into (0,1).
func diseaseCPT(self int, parents []int, baseRate float64) *Factor {
	vars := append(append([]int(nil), parents...), self)
	card := make([]int, len(vars))
	for i := range card {
		card[i] = 2
	}
	f := NewFactor(vars, card)

	k := len(parents)
	configs := 1 << k
	for c := 0; c < configs; c++ {
		presentCount := 0
		for b := 0; b < k; b++ {
			if c&(1<<b) != 0 {
				presentCount++
			}
		}
		p := clamp(baseRate*float64(presentCount)/float64(k), cptEpsilon, 1-cptEpsilon)
		// self is the last variable, so it varies fastest: the row for a
		// parent configuration occupies two adjacent offsets.
		states := make([]int, len(vars))
		for b := 0; b < k; b++ {
			if c&(1<<b) != 0 {
				states[b] = StatePresent
			}
		}
		states[k] = StateAbsent
		f.Values[f.Index(states)] = 1 - p
		states[k] = StatePresent
		f.Values[f.Index(states)] = p
	}
	return f
}

// Validate checks every CPT: the scope must be parents plus self, and each
// row must sum to 1 within tolerance.
func (n *Network) Validate() error {
	for i := range n.Variables {
		v := &n.Variables[i]
		if v.CPT == nil {
			return &ModelBuildError{Entity: v.Entity.Name, Reason: "missing CPT"}
		}
		if len(v.CPT.Vars) != len(v.Parents)+1 || v.CPT.Vars[len(v.Parents)] != i {
			return &ModelBuildError{Entity: v.Entity.Name, Reason: "CPT scope does not match parent set"}
		}
		for j, p := range v.Parents {
			if v.CPT.Vars[j] != p {
				return &ModelBuildError{Entity: v.Entity.Name, Reason: "CPT scope does not match parent set"}
			}
		}

		rows := len(v.CPT.Values) / 2
		for r := 0; r < rows; r++ {
			sum := v.CPT.Values[r*2] + v.CPT.Values[r*2+1]
			if math.Abs(sum-1) > rowTolerance {
				return &ModelBuildError{
					Entity: v.Entity.Name,
					Reason: fmt.Sprintf("CPT row %d sums to %g", r, sum),
				}
			}
		}
	}
	return nil
}

// VariableIndex resolves an entity id to its variable index.
func (n *Network) VariableIndex(entityID string) (int, bool) {
	i, ok := n.index[entityID]
	return i, ok
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
