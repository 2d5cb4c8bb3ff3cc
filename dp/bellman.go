package dp

import (
	"math"

	"github.com/zeu5/mdp-dp/mdp"
)

// qValue is sum over s' of P(s,a,s') * (R(s,a) + gamma*V(s')) for the action
// in slot of state s. v is indexed by state.
func qValue(m *mdp.Model, s, slot int, v []float64) float64 {
	r := m.RewardAt(s, slot)
	gamma := m.Discount()
	q := 0.0
	for _, succ := range m.Successors(s, slot) {
		q += succ.Prob * (r + gamma*v[succ.Next])
	}
	return q
}

// greedy returns the first slot achieving the maximum Q value of s together
// with that value. The model guarantees at least one legal action.
func greedy(m *mdp.Model, s int, v []float64) (int, float64) {
	best, bestQ := 0, math.Inf(-1)
	for slot := 0; slot < m.NumLegal(s); slot++ {
		if q := qValue(m, s, slot, v); q > bestQ {
			best, bestQ = slot, q
		}
	}
	return best, bestQ
}

func lookupState(m *mdp.Model, s mdp.State) (int, error) {
	i, ok := m.StateIndex(s)
	if !ok {
		return 0, &mdp.ValidationError{Kind: mdp.ErrModelValidation, State: s, Reason: "unknown state"}
	}
	return i, nil
}

func valueVector(m *mdp.Model, v mdp.ValueFunction) ([]float64, error) {
	out := make([]float64, m.NumStates())
	for i := range out {
		s := m.StateAt(i)
		x, ok := v[s]
		if !ok {
			return nil, &mdp.ValidationError{Kind: mdp.ErrConfiguration, State: s, Reason: "value function has no entry"}
		}
		out[i] = x
	}
	return out, nil
}

// QValue is the expected return of taking a in s and following the values V
// afterwards.
func QValue(m *mdp.Model, s mdp.State, a mdp.Action, v mdp.ValueFunction) (float64, error) {
	i, err := lookupState(m, s)
	if err != nil {
		return 0, err
	}
	slot, ok := m.SlotOf(i, a)
	if !ok {
		return 0, &mdp.ValidationError{Kind: mdp.ErrConfiguration, State: s, Action: a, Reason: "action is not legal"}
	}
	vec, err := valueVector(m, v)
	if err != nil {
		return 0, err
	}
	return qValue(m, i, slot, vec), nil
}

// BellmanExpectation is the one-step lookahead value of s under policy p.
func BellmanExpectation(m *mdp.Model, s mdp.State, v mdp.ValueFunction, p mdp.Policy) (float64, error) {
	a, ok := p[s]
	if !ok {
		return 0, &mdp.ValidationError{Kind: mdp.ErrConfiguration, State: s, Reason: "policy has no action"}
	}
	return QValue(m, s, a, v)
}

// BellmanOptimal is the max over legal actions of the one-step lookahead value
// of s. It updates a single state; aggregation over states is left to the
// caller.
func BellmanOptimal(m *mdp.Model, s mdp.State, v mdp.ValueFunction) (float64, error) {
	i, err := lookupState(m, s)
	if err != nil {
		return 0, err
	}
	vec, err := valueVector(m, v)
	if err != nil {
		return 0, err
	}
	_, q := greedy(m, i, vec)
	return q, nil
}
