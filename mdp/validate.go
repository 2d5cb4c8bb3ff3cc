package mdp

func findTerminals(m *Model) []bool {
	terminal := make([]bool, len(m.states))
	for i := range m.states {
		absorbing := true
		for slot := range m.legal[i] {
			succ := m.succ[i][slot]
			if m.reward[i][slot] != 0 || len(succ) != 1 || succ[0].Next != i {
				absorbing = false
				break
			}
		}
		terminal[i] = absorbing
	}
	return terminal
}

// checkAbsorbing guards the undiscounted case. Starting from the terminal
// states it grows the set of states from which every action has a positive
// probability of moving into the set. If every state ends up in the set, each
// policy reaches a terminal state with probability one and the value functions
// are finite.
func checkAbsorbing(m *Model) error {
	good := make([]bool, len(m.states))
	count := 0
	for i, t := range m.terminal {
		if t {
			good[i] = true
			count++
		}
	}
	if count == 0 {
		return misconfigured("", "discount factor 1 requires at least one absorbing terminal state")
	}

	for changed := true; changed; {
		changed = false
		for i := range m.states {
			if good[i] {
				continue
			}
			all := true
			for slot := range m.legal[i] {
				reaches := false
				for _, succ := range m.succ[i][slot] {
					if good[succ.Next] {
						reaches = true
						break
					}
				}
				if !reaches {
					all = false
					break
				}
			}
			if all {
				good[i] = true
				count++
				changed = true
			}
		}
	}

	for i, ok := range good {
		if !ok {
			return misconfigured(m.states[i], "discount factor 1 but some policy never reaches a terminal state from here")
		}
	}
	return nil
}
