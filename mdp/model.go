// Package mdp describes finite Markov decision processes.
//
// A Model is built once (through a Builder or FromMatrices), validated at
// construction time and never mutated afterwards, so it can be shared by
// concurrent solves. Labels are mapped to dense indices when the model is
// built; the solver works on the indices.
package mdp

// State of the process. Only identity matters.
type State string

// Action available to the decision maker.
type Action string

// Successor is one entry of a next-state distribution.
type Successor struct {
	Next int
	Prob float64
}

// Model is an immutable finite MDP.
type Model struct {
	name     string
	discount float64

	states    []State
	actions   []Action
	stateIdx  map[State]int
	actionIdx map[Action]int

	// per state, indexed by slot (position in the legal action list)
	legal  [][]int
	succ   [][][]Successor
	reward [][]float64

	terminal []bool
}

func (m *Model) Name() string {
	return m.name
}

// Discount factor gamma.
func (m *Model) Discount() float64 {
	return m.discount
}

// States in enumeration order. The returned slice is a copy.
func (m *Model) States() []State {
	out := make([]State, len(m.states))
	copy(out, m.states)
	return out
}

// Actions in enumeration order. The returned slice is a copy.
func (m *Model) Actions() []Action {
	out := make([]Action, len(m.actions))
	copy(out, m.actions)
	return out
}

func (m *Model) NumStates() int {
	return len(m.states)
}

func (m *Model) NumActions() int {
	return len(m.actions)
}

func (m *Model) StateIndex(s State) (int, bool) {
	i, ok := m.stateIdx[s]
	return i, ok
}

func (m *Model) ActionIndex(a Action) (int, bool) {
	i, ok := m.actionIdx[a]
	return i, ok
}

// StateAt returns the label of the i-th state.
func (m *Model) StateAt(i int) State {
	return m.states[i]
}

// LegalActions of s in enumeration order. Unknown states have none.
func (m *Model) LegalActions(s State) []Action {
	i, ok := m.stateIdx[s]
	if !ok {
		return nil
	}
	out := make([]Action, len(m.legal[i]))
	for slot, a := range m.legal[i] {
		out[slot] = m.actions[a]
	}
	return out
}

// IsLegal reports whether a can be taken in s.
func (m *Model) IsLegal(s State, a Action) bool {
	_, _, ok := m.slot(s, a)
	return ok
}

// TransitionProb returns P(s, a, next). Illegal or unknown pairs yield 0.
func (m *Model) TransitionProb(s State, a Action, next State) float64 {
	i, slot, ok := m.slot(s, a)
	if !ok {
		return 0
	}
	j, ok := m.stateIdx[next]
	if !ok {
		return 0
	}
	for _, succ := range m.succ[i][slot] {
		if succ.Next == j {
			return succ.Prob
		}
	}
	return 0
}

// Distribution returns the next-state distribution of (s, a) keyed by label.
func (m *Model) Distribution(s State, a Action) map[State]float64 {
	i, slot, ok := m.slot(s, a)
	if !ok {
		return nil
	}
	out := make(map[State]float64, len(m.succ[i][slot]))
	for _, succ := range m.succ[i][slot] {
		out[m.states[succ.Next]] = succ.Prob
	}
	return out
}

// Reward returns R(s, a). Illegal or unknown pairs yield 0.
func (m *Model) Reward(s State, a Action) float64 {
	i, slot, ok := m.slot(s, a)
	if !ok {
		return 0
	}
	return m.reward[i][slot]
}

// IsTerminal reports whether s is absorbing: every action loops back to s with
// probability one and pays nothing.
func (m *Model) IsTerminal(s State) bool {
	i, ok := m.stateIdx[s]
	return ok && m.terminal[i]
}

// TerminalStates in enumeration order.
func (m *Model) TerminalStates() []State {
	out := make([]State, 0)
	for i, t := range m.terminal {
		if t {
			out = append(out, m.states[i])
		}
	}
	return out
}

// Index level accessors used by the solvers.

// NumLegal returns the number of legal actions of state i.
func (m *Model) NumLegal(i int) int {
	return len(m.legal[i])
}

// ActionAt returns the action in the given slot of state i.
func (m *Model) ActionAt(i, slot int) Action {
	return m.actions[m.legal[i][slot]]
}

// SlotOf returns the slot of action a in state i.
func (m *Model) SlotOf(i int, a Action) (int, bool) {
	ai, ok := m.actionIdx[a]
	if !ok {
		return 0, false
	}
	for slot, la := range m.legal[i] {
		if la == ai {
			return slot, true
		}
	}
	return 0, false
}

// Successors of state i under the action in slot, zero-probability entries
// omitted. Callers must not modify the slice.
func (m *Model) Successors(i, slot int) []Successor {
	return m.succ[i][slot]
}

// RewardAt returns the reward of state i under the action in slot.
func (m *Model) RewardAt(i, slot int) float64 {
	return m.reward[i][slot]
}

func (m *Model) slot(s State, a Action) (int, int, bool) {
	i, ok := m.stateIdx[s]
	if !ok {
		return 0, 0, false
	}
	slot, ok := m.SlotOf(i, a)
	return i, slot, ok
}
