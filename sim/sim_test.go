package sim

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/zeu5/mdp-dp/mdp"
)

// coinModel pays 1 in Heads and 0 in Tails and flips a fair coin on every
// step. Stop moves to the absorbing End state.
func coinModel(t *testing.T) *mdp.Model {
	t.Helper()
	m, err := mdp.NewBuilder("coin").
		States("Heads", "Tails", "End").
		Actions("Flip", "Stop").
		Legal("End", "Stop").
		Distribution("Heads", "Flip", map[mdp.State]float64{"Heads": 0.5, "Tails": 0.5}).
		Distribution("Tails", "Flip", map[mdp.State]float64{"Heads": 0.5, "Tails": 0.5}).
		Transition("Heads", "Stop", "End", 1).
		Transition("Tails", "Stop", "End", 1).
		Transition("End", "Stop", "End", 1).
		Reward("Heads", "Flip", 1).
		Reward("Tails", "Flip", 0).
		Reward("Heads", "Stop", 0).
		Reward("Tails", "Stop", 0).
		Reward("End", "Stop", 0).
		Discount(0.9).
		Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return m
}

func TestAverageRewardDeterministic(t *testing.T) {
	m := coinModel(t)
	stop := mdp.Policy{"Heads": "Stop", "Tails": "Stop", "End": "Stop"}
	st, err := AverageReward(context.Background(), m, stop, "Heads", Config{Episodes: 20, Horizon: 50})
	if err != nil {
		t.Fatalf("AverageReward() error = %v", err)
	}
	if st.Mean != 0 || st.StdDev != 0 || st.Episodes != 20 {
		t.Errorf("stats = %+v", st)
	}
	// one step into End, then the episode is over
	if st.MeanLength != 1 {
		t.Errorf("MeanLength = %v, want 1", st.MeanLength)
	}
}

func TestAverageRewardFlipping(t *testing.T) {
	m := coinModel(t)
	flip := mdp.Policy{"Heads": "Flip", "Tails": "Flip", "End": "Stop"}
	cfg := Config{Episodes: 2000, Horizon: 20, Seed: 7}
	st, err := AverageReward(context.Background(), m, flip, "Heads", cfg)
	if err != nil {
		t.Fatal(err)
	}
	// first step pays 1, the other 19 pay 1 half the time
	want := 1 + 19*0.5
	if math.Abs(st.Mean-want) > 0.5 {
		t.Errorf("Mean = %v, want about %v", st.Mean, want)
	}
	if st.MeanLength != 20 {
		t.Errorf("MeanLength = %v, want 20", st.MeanLength)
	}

	again, err := AverageReward(context.Background(), m, flip, "Heads", cfg)
	if err != nil {
		t.Fatal(err)
	}
	if again != st {
		t.Errorf("same seed gave %+v and %+v", st, again)
	}
}

func TestAverageRewardErrors(t *testing.T) {
	m := coinModel(t)
	good := mdp.Policy{"Heads": "Flip", "Tails": "Flip", "End": "Stop"}

	if _, err := AverageReward(context.Background(), m, mdp.Policy{"Heads": "Flip"}, "Heads", DefaultConfig()); !errors.Is(err, mdp.ErrConfiguration) {
		t.Errorf("partial policy: error = %v", err)
	}
	if _, err := AverageReward(context.Background(), m, good, "Nowhere", DefaultConfig()); !errors.Is(err, mdp.ErrConfiguration) {
		t.Errorf("unknown start: error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := AverageReward(ctx, m, good, "Heads", DefaultConfig()); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: error = %v", err)
	}
}

func TestRandomAgentTraces(t *testing.T) {
	m := coinModel(t)
	env, err := NewModelEnvironment(m, "Tails", 3)
	if err != nil {
		t.Fatal(err)
	}
	agent := NewAgent(&AgentConfig{
		Episodes:    50,
		Horizon:     10,
		Policy:      NewRandomPolicy(3),
		Environment: env,
	})
	if err := agent.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	traces := agent.Traces()
	if len(traces) != 50 {
		t.Fatalf("got %d traces", len(traces))
	}
	for _, tr := range traces {
		if tr.Len() == 0 || tr.Len() > 10 {
			t.Errorf("trace length %d out of range", tr.Len())
		}
		first, _, _, _, _ := tr.Get(0)
		if first != "Tails" {
			t.Errorf("trace starts in %q", first)
		}
		for i := 0; i < tr.Len(); i++ {
			s, a, _, _, _ := tr.Get(i)
			if !m.IsLegal(s, a) {
				t.Errorf("illegal step %q/%q", s, a)
			}
		}
		if _, _, _, last, _ := tr.Last(); tr.Len() < 10 && last != "End" {
			t.Errorf("short trace ends in %q", last)
		}
	}
}

func TestStepIllegalAction(t *testing.T) {
	m := coinModel(t)
	env, err := NewModelEnvironment(m, "End", 1)
	if err != nil {
		t.Fatal(err)
	}
	env.Reset()
	if _, _, err := env.Step("Flip"); err == nil {
		t.Error("Step(Flip) in End succeeded")
	}
}

func TestTraceJSON(t *testing.T) {
	tr := NewTrace()
	tr.Append("Heads", "Flip", 1, "Tails")
	tr.Append("Tails", "Stop", 0, "End")
	if tr.Return() != 1 {
		t.Errorf("Return() = %v", tr.Return())
	}
	bs, err := json.Marshal(tr)
	if err != nil {
		t.Fatal(err)
	}
	var steps []map[string]interface{}
	if err := json.Unmarshal(bs, &steps); err != nil {
		t.Fatal(err)
	}
	if len(steps) != 2 || steps[1]["next_state"] != "End" {
		t.Errorf("json = %s", bs)
	}
	if _, _, _, _, ok := tr.Get(2); ok {
		t.Error("Get(2) ok on a two step trace")
	}
}
