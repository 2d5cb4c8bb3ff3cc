package mdp

// FromMatrices builds a model from positional tables where every action is
// legal in every state. transitions is indexed [state][action][next] and
// rewards [state][action], following the order of states and actions.
func FromMatrices(name string, states []State, actions []Action, transitions [][][]float64, rewards [][]float64, gamma float64) (*Model, error) {
	if len(transitions) != len(states) {
		return nil, invalid("", "", "transition table has %d rows for %d states", len(transitions), len(states))
	}
	if len(rewards) != len(states) {
		return nil, invalid("", "", "reward table has %d rows for %d states", len(rewards), len(states))
	}

	b := NewBuilder(name).States(states...).Actions(actions...).Discount(gamma)
	for i, s := range states {
		if len(transitions[i]) != len(actions) {
			return nil, invalid(s, "", "transition table has %d actions, want %d", len(transitions[i]), len(actions))
		}
		if len(rewards[i]) != len(actions) {
			return nil, invalid(s, "", "reward table has %d actions, want %d", len(rewards[i]), len(actions))
		}
		for j, a := range actions {
			row := transitions[i][j]
			if len(row) != len(states) {
				return nil, invalid(s, a, "transition row has %d entries, want %d", len(row), len(states))
			}
			d := make(map[State]float64, len(states))
			for k, next := range states {
				if row[k] != 0 {
					d[next] = row[k]
				}
			}
			b.Distribution(s, a, d)
			b.Reward(s, a, rewards[i][j])
		}
	}
	return b.Build()
}
