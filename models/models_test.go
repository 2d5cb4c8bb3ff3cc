package models

import (
	"errors"
	"math"
	"testing"

	"github.com/zeu5/mdp-dp/dp"
	"github.com/zeu5/mdp-dp/mdp"
)

func TestCatalogModelsBuild(t *testing.T) {
	scenarios := Catalog()
	if len(scenarios) != 3 {
		t.Fatalf("Catalog() has %d scenarios, want 3", len(scenarios))
	}
	for i := 1; i < len(scenarios); i++ {
		if scenarios[i-1].Name >= scenarios[i].Name {
			t.Errorf("Catalog() not sorted: %q before %q", scenarios[i-1].Name, scenarios[i].Name)
		}
	}
	for _, sc := range scenarios {
		m, err := sc.Build(DefaultDiscount)
		if err != nil {
			t.Errorf("%s: Build() error = %v", sc.Name, err)
			continue
		}
		if _, ok := m.StateIndex(sc.Start); !ok {
			t.Errorf("%s: start state %q not in model", sc.Name, sc.Start)
		}
		if m.Discount() != DefaultDiscount {
			t.Errorf("%s: Discount() = %v", sc.Name, m.Discount())
		}
	}

	if _, ok := Lookup("self-driving-car"); !ok {
		t.Error("Lookup(self-driving-car) not found")
	}
	if _, ok := Lookup("chess"); ok {
		t.Error("Lookup(chess) found")
	}
}

func TestSolversAgreeOnCatalog(t *testing.T) {
	for _, sc := range Catalog() {
		t.Run(sc.Name, func(t *testing.T) {
			m, err := sc.Build(DefaultDiscount)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			pi, err := dp.PolicyIteration(m, dp.WithTheta(1e-6))
			if err != nil {
				t.Fatalf("PolicyIteration() error = %v", err)
			}
			vi, err := dp.ValueIteration(m, dp.WithTheta(1e-6))
			if err != nil {
				t.Fatalf("ValueIteration() error = %v", err)
			}
			if d := pi.Values.MaxDiff(vi.Values); d > 1e-3 {
				t.Errorf("value functions differ by %v", d)
			}
			for _, s := range m.States() {
				best, err := dp.BellmanOptimal(m, s, vi.Values)
				if err != nil {
					t.Fatal(err)
				}
				q, err := dp.QValue(m, s, pi.Policy[s], vi.Values)
				if err != nil {
					t.Fatal(err)
				}
				if q < best-1e-3 {
					t.Errorf("state %q: policy iteration picks %q worth %v, best is %v", s, pi.Policy[s], q, best)
				}
			}
		})
	}
}

func TestTerminalStates(t *testing.T) {
	car, err := SelfDrivingCar(DefaultDiscount)
	if err != nil {
		t.Fatal(err)
	}
	terms := car.TerminalStates()
	if len(terms) != 2 || terms[0] != Destination || terms[1] != Accident {
		t.Errorf("TerminalStates() = %v", terms)
	}

	stock, err := StockTrader(DefaultDiscount)
	if err != nil {
		t.Fatal(err)
	}
	if terms := stock.TerminalStates(); len(terms) != 0 {
		t.Errorf("stock TerminalStates() = %v, want none", terms)
	}
}

func TestUndiscountedScenarios(t *testing.T) {
	if _, err := SelfDrivingCar(1); err != nil {
		t.Errorf("SelfDrivingCar(1) error = %v", err)
	}
	if _, err := StockTrader(1); !errors.Is(err, mdp.ErrConfiguration) {
		t.Errorf("StockTrader(1) error = %v, want configuration error", err)
	}
	// Nothing keeps the agent in place forever
	if _, err := GridWorld(2, 2, Position{1, 1}).Model(1); !errors.Is(err, mdp.ErrConfiguration) {
		t.Errorf("grid Model(1) error = %v, want configuration error", err)
	}
}

func TestGridCorridor(t *testing.T) {
	g := GridWorld(1, 3, Position{0, 2})
	m, err := g.Model(0.9)
	if err != nil {
		t.Fatalf("Model() error = %v", err)
	}
	if got := m.LegalActions(Position{0, 0}.State()); len(got) != 2 || got[0] != MovementRight || got[1] != NoMovement {
		t.Errorf("LegalActions(0,0) = %v", got)
	}
	if !m.IsTerminal(Position{0, 2}.State()) {
		t.Error("goal is not terminal")
	}

	res, err := dp.ValueIteration(m, dp.WithTheta(1e-8))
	if err != nil {
		t.Fatal(err)
	}
	want := map[mdp.State]float64{
		Position{0, 0}.State(): -1 + 0.9*10,
		Position{0, 1}.State(): 10,
		Position{0, 2}.State(): 0,
	}
	for s, v := range want {
		if math.Abs(res.Values[s]-v) > 1e-6 {
			t.Errorf("V(%s) = %v, want %v", s, res.Values[s], v)
		}
	}
	if a := res.Policy[Position{0, 0}.State()]; a != MovementRight {
		t.Errorf("policy at (0, 0) = %q, want Right", a)
	}
}

func TestGridSlip(t *testing.T) {
	g := GridWorld(1, 2, Position{0, 1})
	g.Slip = 0.25
	m, err := g.Model(0.9)
	if err != nil {
		t.Fatal(err)
	}
	start := Position{0, 0}.State()
	if p := m.TransitionProb(start, MovementRight, start); p != 0.25 {
		t.Errorf("slip probability = %v", p)
	}
	if r := m.Reward(start, MovementRight); math.Abs(r-(0.75*10-0.25)) > 1e-12 {
		t.Errorf("Reward = %v", r)
	}
}

func TestGridValidation(t *testing.T) {
	cases := []struct {
		name string
		grid *Grid
	}{
		{"empty", GridWorld(0, 3, Position{0, 0})},
		{"goal outside", GridWorld(2, 2, Position{2, 0})},
		{"pit outside", GridWorld(2, 2, Position{1, 1}, Position{-1, 0})},
	}
	for _, c := range cases {
		if _, err := c.grid.Model(0.9); !errors.Is(err, mdp.ErrConfiguration) {
			t.Errorf("%s: error = %v, want configuration error", c.name, err)
		}
	}
	g := GridWorld(2, 2, Position{1, 1})
	g.Slip = 1
	if _, err := g.Model(0.9); !errors.Is(err, mdp.ErrConfiguration) {
		t.Errorf("slip 1: error = %v", err)
	}
}

func TestStockDropHoldRow(t *testing.T) {
	m, err := StockTrader(DefaultDiscount)
	if err != nil {
		t.Fatal(err)
	}
	if p := m.TransitionProb("PD_H", "Hold", "PD_L"); p != 0.1 {
		t.Errorf("P(PD_H, Hold, PD_L) = %v, want 0.1", p)
	}
	sum := 0.0
	for _, p := range m.Distribution("PD_H", "Hold") {
		sum += p
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Errorf("PD_H/Hold row sums to %v", sum)
	}
}
