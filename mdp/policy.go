package mdp

import "math"

// Policy is a deterministic mapping from states to actions.
type Policy map[State]Action

// Equal is structural equality over the whole mapping.
func (p Policy) Equal(other Policy) bool {
	if len(p) != len(other) {
		return false
	}
	for s, a := range p {
		if oa, ok := other[s]; !ok || oa != a {
			return false
		}
	}
	return true
}

// Diff counts the states of p where other picks a different action (or none).
func (p Policy) Diff(other Policy) int {
	diff := 0
	for s, a := range p {
		if oa, ok := other[s]; !ok || oa != a {
			diff++
		}
	}
	return diff
}

func (p Policy) Clone() Policy {
	out := make(Policy, len(p))
	for s, a := range p {
		out[s] = a
	}
	return out
}

// Validate checks that p covers every state of m with a legal action.
func (p Policy) Validate(m *Model) error {
	for _, s := range m.states {
		a, ok := p[s]
		if !ok {
			return misconfigured(s, "policy has no action")
		}
		if !m.IsLegal(s, a) {
			return &ValidationError{Kind: ErrConfiguration, State: s, Action: a, Reason: "policy picks an illegal action"}
		}
	}
	return nil
}

// ValueFunction maps states to expected discounted return.
type ValueFunction map[State]float64

func (v ValueFunction) Clone() ValueFunction {
	out := make(ValueFunction, len(v))
	for s, x := range v {
		out[s] = x
	}
	return out
}

// Vector lays v out in the state order of m. Missing states read as 0.
func (v ValueFunction) Vector(m *Model) []float64 {
	out := make([]float64, len(m.states))
	for i, s := range m.states {
		out[i] = v[s]
	}
	return out
}

// MaxDiff is the max-norm distance between v and other over the states of v.
func (v ValueFunction) MaxDiff(other ValueFunction) float64 {
	d := 0.0
	for s, x := range v {
		d = math.Max(d, math.Abs(x-other[s]))
	}
	return d
}

// ValuesFromVector is the inverse of Vector.
func ValuesFromVector(m *Model, vec []float64) ValueFunction {
	out := make(ValueFunction, len(m.states))
	for i, s := range m.states {
		out[s] = vec[i]
	}
	return out
}
