package mdp

import (
	"errors"
	"testing"
)

func twoStateBuilder() *Builder {
	return NewBuilder("two").
		States("A", "B").
		Actions("Stay", "Move").
		Transition("A", "Stay", "A", 1).
		Transition("A", "Move", "B", 1).
		Transition("B", "Stay", "B", 1).
		Transition("B", "Move", "A", 0.5).
		Transition("B", "Move", "B", 0.5).
		Reward("A", "Stay", 1).
		Reward("A", "Move", 0).
		Reward("B", "Stay", 0).
		Reward("B", "Move", -1).
		Discount(0.9)
}

func TestBuildAccessors(t *testing.T) {
	m, err := twoStateBuilder().Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if m.NumStates() != 2 || m.NumActions() != 2 {
		t.Fatalf("dims = %d x %d, want 2 x 2", m.NumStates(), m.NumActions())
	}
	if got := m.TransitionProb("B", "Move", "A"); got != 0.5 {
		t.Errorf("TransitionProb(B, Move, A) = %v, want 0.5", got)
	}
	if got := m.TransitionProb("A", "Stay", "B"); got != 0 {
		t.Errorf("TransitionProb(A, Stay, B) = %v, want 0", got)
	}
	if got := m.Reward("B", "Move"); got != -1 {
		t.Errorf("Reward(B, Move) = %v, want -1", got)
	}
	if got := m.Reward("C", "Move"); got != 0 {
		t.Errorf("Reward of unknown state = %v, want 0", got)
	}
	actions := m.LegalActions("A")
	if len(actions) != 2 || actions[0] != "Stay" || actions[1] != "Move" {
		t.Errorf("LegalActions(A) = %v, want [Stay Move]", actions)
	}
	if i, ok := m.StateIndex("B"); !ok || i != 1 {
		t.Errorf("StateIndex(B) = %d, %v", i, ok)
	}
	if d := m.Distribution("B", "Move"); len(d) != 2 || d["A"] != 0.5 {
		t.Errorf("Distribution(B, Move) = %v", d)
	}
	if m.Discount() != 0.9 || m.Name() != "two" {
		t.Errorf("Discount() = %v, Name() = %q", m.Discount(), m.Name())
	}
}

func TestStateDependentActions(t *testing.T) {
	m, err := NewBuilder("legal").
		States("A", "B").
		Actions("Go", "Wait").
		Legal("A", "Wait", "Go").
		Legal("B", "Wait").
		Transition("A", "Go", "B", 1).
		Transition("A", "Wait", "A", 1).
		Transition("B", "Wait", "B", 1).
		Reward("A", "Go", 1).
		Reward("A", "Wait", 0).
		Reward("B", "Wait", 0).
		Discount(0.5).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	actions := m.LegalActions("A")
	if len(actions) != 2 || actions[0] != "Wait" {
		t.Errorf("LegalActions(A) = %v, want declared order [Wait Go]", actions)
	}
	if m.IsLegal("B", "Go") {
		t.Error("Go should not be legal in B")
	}
	if !m.IsTerminal("B") || m.IsTerminal("A") {
		t.Errorf("terminal states = %v, want [B]", m.TerminalStates())
	}
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Builder
		kind  error
	}{
		{
			name: "row does not sum to one",
			build: func() *Builder {
				return twoStateBuilder().Transition("A", "Stay", "A", 0.8)
			},
			kind: ErrModelValidation,
		},
		{
			name: "negative probability",
			build: func() *Builder {
				return twoStateBuilder().Transition("B", "Move", "A", -0.5).Transition("B", "Move", "B", 1.5)
			},
			kind: ErrModelValidation,
		},
		{
			name: "missing reward",
			build: func() *Builder {
				b := twoStateBuilder()
				delete(b.rewards, pair{"A", "Move"})
				return b
			},
			kind: ErrModelValidation,
		},
		{
			name: "missing transition row",
			build: func() *Builder {
				b := twoStateBuilder()
				delete(b.dist, pair{"B", "Stay"})
				return b
			},
			kind: ErrModelValidation,
		},
		{
			name: "transition to unknown state",
			build: func() *Builder {
				return twoStateBuilder().Transition("A", "Move", "C", 0)
			},
			kind: ErrModelValidation,
		},
		{
			name: "reward for unknown action",
			build: func() *Builder {
				return twoStateBuilder().Reward("A", "Jump", 3)
			},
			kind: ErrModelValidation,
		},
		{
			name: "duplicate state",
			build: func() *Builder {
				return twoStateBuilder().States("A")
			},
			kind: ErrModelValidation,
		},
		{
			name: "no legal actions",
			build: func() *Builder {
				return twoStateBuilder().Legal("B")
			},
			kind: ErrConfiguration,
		},
		{
			name: "discount above one",
			build: func() *Builder {
				return twoStateBuilder().Discount(1.2)
			},
			kind: ErrConfiguration,
		},
		{
			name: "undiscounted without terminal",
			build: func() *Builder {
				return twoStateBuilder().Discount(1)
			},
			kind: ErrConfiguration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Build()
			if err == nil {
				t.Fatal("Build() succeeded, want error")
			}
			if !errors.Is(err, tt.kind) {
				t.Errorf("Build() error = %v, want kind %v", err, tt.kind)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Build() error %T is not a *ValidationError", err)
			}
		})
	}
}

func TestUndiscountedAbsorbing(t *testing.T) {
	b := NewBuilder("episodic").
		States("Start", "Mid", "Done").
		Actions("Step", "Stall").
		Distribution("Start", "Step", map[State]float64{"Mid": 1}).
		Distribution("Start", "Stall", map[State]float64{"Start": 0.5, "Mid": 0.5}).
		Distribution("Mid", "Step", map[State]float64{"Done": 1}).
		Distribution("Mid", "Stall", map[State]float64{"Mid": 0.9, "Done": 0.1}).
		Distribution("Done", "Step", map[State]float64{"Done": 1}).
		Distribution("Done", "Stall", map[State]float64{"Done": 1}).
		Reward("Start", "Step", -1).Reward("Start", "Stall", -2).
		Reward("Mid", "Step", -1).Reward("Mid", "Stall", -2).
		Reward("Done", "Step", 0).Reward("Done", "Stall", 0).
		Discount(1)
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if terms := m.TerminalStates(); len(terms) != 1 || terms[0] != "Done" {
		t.Errorf("TerminalStates() = %v, want [Done]", terms)
	}

	// Stall in Start now loops forever.
	b.Distribution("Start", "Stall", map[State]float64{"Start": 1})
	if _, err := b.Build(); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Build() error = %v, want configuration error", err)
	}
}

func TestFromMatrices(t *testing.T) {
	states := []State{"A", "B"}
	actions := []Action{"Stay"}
	m, err := FromMatrices("matrix", states, actions,
		[][][]float64{{{1, 0}}, {{0, 1}}},
		[][]float64{{1}, {0}},
		0.9)
	if err != nil {
		t.Fatalf("FromMatrices() error = %v", err)
	}
	if m.TransitionProb("A", "Stay", "A") != 1 || m.Reward("A", "Stay") != 1 {
		t.Error("FromMatrices() did not carry the tables over")
	}

	_, err = FromMatrices("bad", states, actions,
		[][][]float64{{{1, 0}}},
		[][]float64{{1}, {0}},
		0.9)
	if !errors.Is(err, ErrModelValidation) {
		t.Errorf("short transition table error = %v, want validation error", err)
	}

	_, err = FromMatrices("bad", states, actions,
		[][][]float64{{{1, 0}}, {{0, 1}}},
		[][]float64{{1, 2}, {0}},
		0.9)
	if !errors.Is(err, ErrModelValidation) {
		t.Errorf("wide reward table error = %v, want validation error", err)
	}
}

func TestPolicyHelpers(t *testing.T) {
	m, err := twoStateBuilder().Build()
	if err != nil {
		t.Fatal(err)
	}
	p := Policy{"A": "Stay", "B": "Move"}
	q := p.Clone()
	if !p.Equal(q) || p.Diff(q) != 0 {
		t.Error("clone should equal the original")
	}
	q["B"] = "Stay"
	if p.Equal(q) || p.Diff(q) != 1 {
		t.Errorf("Diff() = %d, want 1", p.Diff(q))
	}
	if err := p.Validate(m); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
	if err := (Policy{"A": "Stay"}).Validate(m); !errors.Is(err, ErrConfiguration) {
		t.Errorf("partial policy Validate() = %v, want configuration error", err)
	}
	if err := (Policy{"A": "Stay", "B": "Fly"}).Validate(m); !errors.Is(err, ErrConfiguration) {
		t.Errorf("illegal action Validate() = %v, want configuration error", err)
	}

	v := ValueFunction{"A": 1, "B": -2}
	vec := v.Vector(m)
	if vec[0] != 1 || vec[1] != -2 {
		t.Errorf("Vector() = %v", vec)
	}
	if back := ValuesFromVector(m, vec); back.MaxDiff(v) != 0 {
		t.Errorf("ValuesFromVector() = %v", back)
	}
}
