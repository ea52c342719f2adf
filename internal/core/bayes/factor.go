package bayes

// Factor is a tagged factor over discrete variables: an ordered list of
// variable indices plus a flat value array indexed by mixed-radix state
// tuples. The first variable varies slowest. Keeping the representation
// flat makes factor operations allocation-predictable.
type Factor struct {
	Vars   []int
	Card   []int
	Values []float64
}

func NewFactor(vars, card []int) *Factor {
	size := 1
	for _, c := range card {
		size *= c
	}
	return &Factor{
		Vars:   append([]int(nil), vars...),
		Card:   append([]int(nil), card...),
		Values: make([]float64, size),
	}
}

// Index maps a state tuple aligned with f.Vars to the flat offset.
func (f *Factor) Index(states []int) int {
	offset := 0
	for i := range f.Vars {
		offset = offset*f.Card[i] + states[i]
	}
	return offset
}

// decode writes the state tuple for a flat offset into buf.
func (f *Factor) decode(offset int, buf []int) {
	for i := len(f.Vars) - 1; i >= 0; i-- {
		buf[i] = offset % f.Card[i]
		offset /= f.Card[i]
	}
}

func (f *Factor) position(v int) int {
	for i, fv := range f.Vars {
		if fv == v {
			return i
		}
	}
	return -1
}

// Product multiplies two factors over the union of their scopes.
func (f *Factor) Product(g *Factor) *Factor {
	vars := append([]int(nil), f.Vars...)
	card := append([]int(nil), f.Card...)
	for i, v := range g.Vars {
		if f.position(v) < 0 {
			vars = append(vars, v)
			card = append(card, g.Card[i])
		}
	}

	out := NewFactor(vars, card)
	fPos := make([]int, len(f.Vars))
	for i, v := range f.Vars {
		fPos[i] = out.position(v)
	}
	gPos := make([]int, len(g.Vars))
	for i, v := range g.Vars {
		gPos[i] = out.position(v)
	}

	states := make([]int, len(vars))
	fStates := make([]int, len(f.Vars))
	gStates := make([]int, len(g.Vars))
	for i := range out.Values {
		out.decode(i, states)
		for j := range fPos {
			fStates[j] = states[fPos[j]]
		}
		for j := range gPos {
			gStates[j] = states[gPos[j]]
		}
		out.Values[i] = f.Values[f.Index(fStates)] * g.Values[g.Index(gStates)]
	}
	return out
}

// SumOut marginalizes a variable out of the factor. Summing out a variable
// not in scope returns the factor unchanged.
func (f *Factor) SumOut(v int) *Factor {
	pos := f.position(v)
	if pos < 0 {
		return f
	}

	vars := make([]int, 0, len(f.Vars)-1)
	card := make([]int, 0, len(f.Vars)-1)
	for i, fv := range f.Vars {
		if i != pos {
			vars = append(vars, fv)
			card = append(card, f.Card[i])
		}
	}

	out := NewFactor(vars, card)
	states := make([]int, len(f.Vars))
	outStates := make([]int, len(vars))
	for i, val := range f.Values {
		f.decode(i, states)
		k := 0
		for j := range states {
			if j != pos {
				outStates[k] = states[j]
				k++
			}
		}
		out.Values[out.Index(outStates)] += val
	}
	return out
}

// Restrict fixes a variable to an observed state and drops it from scope.
func (f *Factor) Restrict(v, state int) *Factor {
	pos := f.position(v)
	if pos < 0 {
		return f
	}

	vars := make([]int, 0, len(f.Vars)-1)
	card := make([]int, 0, len(f.Vars)-1)
	for i, fv := range f.Vars {
		if i != pos {
			vars = append(vars, fv)
			card = append(card, f.Card[i])
		}
	}

	out := NewFactor(vars, card)
	states := make([]int, len(f.Vars))
	outStates := make([]int, len(vars))
	for i, val := range f.Values {
		f.decode(i, states)
		if states[pos] != state {
			continue
		}
		k := 0
		for j := range states {
			if j != pos {
				outStates[k] = states[j]
				k++
			}
		}
		out.Values[out.Index(outStates)] = val
	}
	return out
}

func (f *Factor) sum() float64 {
	total := 0.0
	for _, v := range f.Values {
		total += v
	}
	return total
}
