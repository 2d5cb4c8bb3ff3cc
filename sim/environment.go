// Package sim runs policies against a model by sampling transitions, to
// estimate how much reward they actually collect.
package sim

import (
	"fmt"

	"github.com/zeu5/mdp-dp/mdp"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/sampleuv"
)

// Environment is stepped by an Agent. Step returns the next state and the
// reward earned by the action.
type Environment interface {
	// Reset is called at the start of every episode
	Reset() mdp.State
	Step(mdp.Action) (mdp.State, float64, error)
	// Actions available from the state
	Actions(mdp.State) []mdp.Action
	// Done reports whether an episode ends in the state
	Done(mdp.State) bool
}

// ModelEnvironment samples successors from the transition function of a
// model.
type ModelEnvironment struct {
	model *mdp.Model
	start mdp.State
	cur   mdp.State
	src   rand.Source
}

var _ Environment = &ModelEnvironment{}

func NewModelEnvironment(m *mdp.Model, start mdp.State, seed uint64) (*ModelEnvironment, error) {
	if _, ok := m.StateIndex(start); !ok {
		return nil, mdp.Misconfigured("start state %q is not a state of %s", start, m.Name())
	}
	return &ModelEnvironment{
		model: m,
		start: start,
		cur:   start,
		src:   rand.NewSource(seed),
	}, nil
}

func (e *ModelEnvironment) Reset() mdp.State {
	e.cur = e.start
	return e.cur
}

func (e *ModelEnvironment) Step(a mdp.Action) (mdp.State, float64, error) {
	i, _ := e.model.StateIndex(e.cur)
	slot, ok := e.model.SlotOf(i, a)
	if !ok {
		return "", 0, fmt.Errorf("action %q is not legal in state %q", a, e.cur)
	}
	succ := e.model.Successors(i, slot)
	weights := make([]float64, len(succ))
	for k, s := range succ {
		weights[k] = s.Prob
	}
	k, ok := sampleuv.NewWeighted(weights, e.src).Take()
	if !ok {
		return "", 0, fmt.Errorf("no successor to sample for %q under %q", e.cur, a)
	}
	reward := e.model.RewardAt(i, slot)
	e.cur = e.model.StateAt(succ[k].Next)
	return e.cur, reward, nil
}

func (e *ModelEnvironment) Actions(s mdp.State) []mdp.Action {
	return e.model.LegalActions(s)
}

func (e *ModelEnvironment) Done(s mdp.State) bool {
	return e.model.IsTerminal(s)
}
