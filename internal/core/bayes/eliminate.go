package bayes

import (
	"errors"
	"fmt"
	"sort"

	"github.com/agenthands/caduceus/internal/core/model"
)

// Binary variable states.
const (
	StateAbsent  = 0
	StatePresent = 1
)

type State int

// UnknownVariableError is returned when evidence or a query references an
// entity absent from the model.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q", e.Name)
}

// ErrInconsistentEvidence is returned when the supplied evidence is a
// zero-probability event under the model.
var ErrInconsistentEvidence = errors.New("evidence describes a zero-probability event")

// Engine answers posterior queries over an immutable Network by variable
// elimination. Queries are deterministic and safe to run concurrently.
type Engine struct {
	net *Network
}

func NewEngine(net *Network) *Engine {
	return &Engine{net: net}
}

// Posteriors computes P(disease=present | evidence) for every disease not
// fixed by the evidence. Evidence is keyed by entity id.
func (e *Engine) Posteriors(evidence map[string]State) (map[string]float64, error) {
	ev, err := e.resolveEvidence(evidence)
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for i := range e.net.Variables {
		v := &e.net.Variables[i]
		if v.Entity.Kind != model.KindDisease {
			continue
		}
		if _, fixed := ev[i]; fixed {
			continue
		}
		p, err := e.posterior(i, ev, nil)
		if err != nil {
			return nil, err
		}
		out[v.Entity.ID] = p
	}
	return out, nil
}

// Diagnose ranks the posteriors, highest first, ties broken by entity
// insertion order.
func (e *Engine) Diagnose(evidence map[string]State) ([]model.DiagnosisResult, error) {
	posteriors, err := e.Posteriors(evidence)
	if err != nil {
		return nil, err
	}

	var results []model.DiagnosisResult
	for i := range e.net.Variables {
		v := &e.net.Variables[i]
		if p, ok := posteriors[v.Entity.ID]; ok {
			results = append(results, model.DiagnosisResult{
				Disease: v.Entity,
				Score:   p,
				Source:  model.SourceProbabilistic,
			})
		}
	}
	// Pre-sorted by insertion order; a stable sort on score keeps that
	// order within ties.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results, nil
}

func (e *Engine) resolveEvidence(evidence map[string]State) (map[int]State, error) {
	ev := make(map[int]State, len(evidence))
	for id, state := range evidence {
		i, ok := e.net.VariableIndex(id)
		if !ok {
			return nil, &UnknownVariableError{Name: id}
		}
		ev[i] = state
	}
	return ev, nil
}

// posterior runs one variable-elimination query. A nil order means the
// min-degree heuristic; any order over the hidden variables is correct,
// only intermediate factor sizes differ.
func (e *Engine) posterior(query int, evidence map[int]State, order []int) (float64, error) {
	// Restrict every CPT to the observed states up front.
	factors := make([]*Factor, 0, len(e.net.Variables))
	for i := range e.net.Variables {
		f := e.net.Variables[i].CPT
		for v, state := range evidence {
			f = f.Restrict(v, int(state))
		}
		factors = append(factors, f)
	}

	if order == nil {
		order = e.eliminationOrder(factors, query, evidence)
	}
	for _, v := range order {
		factors = eliminate(factors, v)
	}

	// Multiply what is left into a factor over the query variable alone.
	result := factors[0]
	for _, f := range factors[1:] {
		result = result.Product(f)
	}
	for _, v := range result.Vars {
		if v != query {
			result = result.SumOut(v)
		}
	}

	total := result.sum()
	if total <= 0 {
		return 0, ErrInconsistentEvidence
	}
	if len(result.Vars) != 1 || result.Vars[0] != query {
		return 0, fmt.Errorf("elimination left unexpected scope %v", result.Vars)
	}
	return result.Values[StatePresent] / total, nil
}

// eliminate sums v out of the product of all factors mentioning it.
func eliminate(factors []*Factor, v int) []*Factor {
	var touching []*Factor
	rest := factors[:0]
	for _, f := range factors {
		if f.position(v) >= 0 {
			touching = append(touching, f)
		} else {
			rest = append(rest, f)
		}
	}
	if len(touching) == 0 {
		return rest
	}
	product := touching[0]
	for _, f := range touching[1:] {
		product = product.Product(f)
	}
	return append(rest, product.SumOut(v))
}

// eliminationOrder orders hidden variables by min-degree over the factor
// interaction graph, ties broken by variable index for determinism.
func (e *Engine) eliminationOrder(factors []*Factor, query int, evidence map[int]State) []int {
	hidden := make(map[int]struct{})
	neighbors := make(map[int]map[int]struct{})
	for _, f := range factors {
		for _, v := range f.Vars {
			if v == query {
				continue
			}
			if _, fixed := evidence[v]; fixed {
				continue
			}
			hidden[v] = struct{}{}
			if neighbors[v] == nil {
				neighbors[v] = make(map[int]struct{})
			}
			for _, u := range f.Vars {
				if u != v {
					neighbors[v][u] = struct{}{}
				}
			}
		}
	}

	order := make([]int, 0, len(hidden))
	for len(hidden) > 0 {
		best, bestDegree := -1, -1
		for v := range hidden {
			degree := 0
			for u := range neighbors[v] {
				if _, ok := hidden[u]; ok {
					degree++
				}
			}
			if best == -1 || degree < bestDegree || (degree == bestDegree && v < best) {
				best, bestDegree = v, degree
			}
		}
		order = append(order, best)
		delete(hidden, best)
		// Connect the eliminated variable's remaining neighbors.
		for u := range neighbors[best] {
			if _, ok := hidden[u]; !ok {
				continue
			}
			for w := range neighbors[best] {
				if w != u {
					neighbors[u][w] = struct{}{}
				}
			}
		}
	}
	return order
}
