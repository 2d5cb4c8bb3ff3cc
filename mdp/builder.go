package mdp

import (
	"math"
	"sort"
)

// DefaultTolerance bounds how far a probability row may drift from one.
const DefaultTolerance = 1e-6

type pair struct {
	s State
	a Action
}

// Builder collects the pieces of a model. Nothing is checked until Build, so
// the calls can come in any order.
type Builder struct {
	name      string
	discount  float64
	tolerance float64

	states  []State
	actions []Action
	legal   map[State][]Action
	dist    map[pair]map[State]float64
	rewards map[pair]float64
}

func NewBuilder(name string) *Builder {
	return &Builder{
		name:      name,
		discount:  1.0,
		tolerance: DefaultTolerance,
		states:    make([]State, 0),
		actions:   make([]Action, 0),
		legal:     make(map[State][]Action),
		dist:      make(map[pair]map[State]float64),
		rewards:   make(map[pair]float64),
	}
}

// States appends states to the enumeration order.
func (b *Builder) States(states ...State) *Builder {
	b.states = append(b.states, states...)
	return b
}

// Actions appends actions to the global enumeration order. Unless Legal is
// called for a state, every action is legal there.
func (b *Builder) Actions(actions ...Action) *Builder {
	b.actions = append(b.actions, actions...)
	return b
}

// Legal restricts the actions of s, in the given order.
func (b *Builder) Legal(s State, actions ...Action) *Builder {
	b.legal[s] = append(make([]Action, 0, len(actions)), actions...)
	return b
}

// Transition sets P(s, a, next) = p.
func (b *Builder) Transition(s State, a Action, next State, p float64) *Builder {
	key := pair{s, a}
	if _, ok := b.dist[key]; !ok {
		b.dist[key] = make(map[State]float64)
	}
	b.dist[key][next] = p
	return b
}

// Distribution replaces the whole next-state distribution of (s, a).
func (b *Builder) Distribution(s State, a Action, d map[State]float64) *Builder {
	row := make(map[State]float64, len(d))
	for next, p := range d {
		row[next] = p
	}
	b.dist[pair{s, a}] = row
	return b
}

// Reward sets R(s, a) = r.
func (b *Builder) Reward(s State, a Action, r float64) *Builder {
	b.rewards[pair{s, a}] = r
	return b
}

func (b *Builder) Discount(gamma float64) *Builder {
	b.discount = gamma
	return b
}

// Tolerance overrides DefaultTolerance for the row-sum check.
func (b *Builder) Tolerance(t float64) *Builder {
	b.tolerance = t
	return b
}

// Build validates the collected definition and returns the model.
// Errors are *ValidationError values wrapping ErrModelValidation or
// ErrConfiguration.
func (b *Builder) Build() (*Model, error) {
	if len(b.states) == 0 {
		return nil, invalid("", "", "model has no states")
	}
	if math.IsNaN(b.discount) || b.discount < 0 || b.discount > 1 {
		return nil, misconfigured("", "discount factor %v outside [0, 1]", b.discount)
	}

	m := &Model{
		name:      b.name,
		discount:  b.discount,
		states:    append(make([]State, 0, len(b.states)), b.states...),
		actions:   append(make([]Action, 0, len(b.actions)), b.actions...),
		stateIdx:  make(map[State]int, len(b.states)),
		actionIdx: make(map[Action]int, len(b.actions)),
	}
	for i, s := range m.states {
		if _, ok := m.stateIdx[s]; ok {
			return nil, invalid(s, "", "duplicate state")
		}
		m.stateIdx[s] = i
	}
	for i, a := range m.actions {
		if _, ok := m.actionIdx[a]; ok {
			return nil, invalid("", a, "duplicate action")
		}
		m.actionIdx[a] = i
	}

	if err := b.buildLegal(m); err != nil {
		return nil, err
	}
	if err := b.checkKeys(m); err != nil {
		return nil, err
	}
	if err := b.buildTables(m); err != nil {
		return nil, err
	}

	m.terminal = findTerminals(m)
	if m.discount == 1 {
		if err := checkAbsorbing(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (b *Builder) buildLegal(m *Model) error {
	for s := range b.legal {
		if _, ok := m.stateIdx[s]; !ok {
			return invalid(s, "", "legal actions given for unknown state")
		}
	}
	m.legal = make([][]int, len(m.states))
	for i, s := range m.states {
		actions, ok := b.legal[s]
		if !ok {
			actions = m.actions
		}
		if len(actions) == 0 {
			return misconfigured(s, "no legal actions")
		}
		seen := make(map[int]bool, len(actions))
		slots := make([]int, 0, len(actions))
		for _, a := range actions {
			ai, ok := m.actionIdx[a]
			if !ok {
				return invalid(s, a, "unknown action")
			}
			if seen[ai] {
				return invalid(s, a, "action listed twice")
			}
			seen[ai] = true
			slots = append(slots, ai)
		}
		m.legal[i] = slots
	}
	return nil
}

// checkKeys rejects transitions or rewards attached to labels or pairs the
// model does not know about.
func (b *Builder) checkKeys(m *Model) error {
	check := func(key pair, what string) error {
		i, ok := m.stateIdx[key.s]
		if !ok {
			return invalid(key.s, key.a, "%s for unknown state", what)
		}
		if _, ok := m.actionIdx[key.a]; !ok {
			return invalid(key.s, key.a, "%s for unknown action", what)
		}
		if _, ok := m.SlotOf(i, key.a); !ok {
			return invalid(key.s, key.a, "%s for illegal action", what)
		}
		return nil
	}
	for _, key := range sortedPairs(b.dist) {
		if err := check(key, "transition"); err != nil {
			return err
		}
		for next := range b.dist[key] {
			if _, ok := m.stateIdx[next]; !ok {
				return invalid(key.s, key.a, "transition to unknown state %q", next)
			}
		}
	}
	for _, key := range sortedPairs(b.rewards) {
		if err := check(key, "reward"); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) buildTables(m *Model) error {
	n := len(m.states)
	m.succ = make([][][]Successor, n)
	m.reward = make([][]float64, n)
	for i, s := range m.states {
		m.succ[i] = make([][]Successor, len(m.legal[i]))
		m.reward[i] = make([]float64, len(m.legal[i]))
		for slot, ai := range m.legal[i] {
			a := m.actions[ai]
			key := pair{s, a}

			row, ok := b.dist[key]
			if !ok {
				return invalid(s, a, "missing transition distribution")
			}
			succ := make([]Successor, 0, len(row))
			sum := 0.0
			for next, p := range row {
				if math.IsNaN(p) || p < 0 || p > 1+b.tolerance {
					return invalid(s, a, "probability %v to %q outside [0, 1]", p, next)
				}
				sum += p
				if p > 0 {
					succ = append(succ, Successor{Next: m.stateIdx[next], Prob: p})
				}
			}
			if math.Abs(sum-1) > b.tolerance {
				return invalid(s, a, "transition probabilities sum to %v", sum)
			}
			sort.Slice(succ, func(x, y int) bool { return succ[x].Next < succ[y].Next })
			m.succ[i][slot] = succ

			r, ok := b.rewards[key]
			if !ok {
				return invalid(s, a, "missing reward")
			}
			if math.IsNaN(r) || math.IsInf(r, 0) {
				return invalid(s, a, "reward %v is not finite", r)
			}
			m.reward[i][slot] = r
		}
	}
	return nil
}

func sortedPairs[V any](m map[pair]V) []pair {
	keys := make([]pair, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].s != keys[j].s {
			return keys[i].s < keys[j].s
		}
		return keys[i].a < keys[j].a
	})
	return keys
}
