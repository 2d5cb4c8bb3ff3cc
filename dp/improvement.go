package dp

import "github.com/zeu5/mdp-dp/mdp"

// improve picks the greedy slot of every state against v.
func improve(m *mdp.Model, v []float64) []int {
	out := make([]int, m.NumStates())
	for i := range out {
		out[i], _ = greedy(m, i, v)
	}
	return out
}

func policyFromSlots(m *mdp.Model, slots []int) mdp.Policy {
	p := make(mdp.Policy, len(slots))
	for i, slot := range slots {
		p[m.StateAt(i)] = m.ActionAt(i, slot)
	}
	return p
}

func policySlots(m *mdp.Model, p mdp.Policy) ([]int, error) {
	if err := p.Validate(m); err != nil {
		return nil, err
	}
	slots := make([]int, m.NumStates())
	for i := range slots {
		slots[i], _ = m.SlotOf(i, p[m.StateAt(i)])
	}
	return slots, nil
}

func countChanges(a, b []int) int {
	n := 0
	for i := range a {
		if a[i] != b[i] {
			n++
		}
	}
	return n
}

// InitialPolicy picks the first legal action of every state.
func InitialPolicy(m *mdp.Model) mdp.Policy {
	return policyFromSlots(m, make([]int, m.NumStates()))
}

// ImprovePolicy returns the policy that is greedy with respect to v. Ties go
// to the action listed first among the legal actions of the state.
func ImprovePolicy(m *mdp.Model, v mdp.ValueFunction) (mdp.Policy, error) {
	vec, err := valueVector(m, v)
	if err != nil {
		return nil, err
	}
	return policyFromSlots(m, improve(m, vec)), nil
}

// ExtractPolicy recovers a policy from a converged optimal value function. It
// is the same greedy step as ImprovePolicy.
func ExtractPolicy(m *mdp.Model, v mdp.ValueFunction) (mdp.Policy, error) {
	return ImprovePolicy(m, v)
}
