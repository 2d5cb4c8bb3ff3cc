package sim

import (
	"encoding/json"

	"github.com/zeu5/mdp-dp/mdp"
)

// Trace of an episode as steps (state, action, reward, nextState)
type Trace struct {
	states     []mdp.State
	actions    []mdp.Action
	rewards    []float64
	nextStates []mdp.State
}

func NewTrace() *Trace {
	return &Trace{
		states:     make([]mdp.State, 0),
		actions:    make([]mdp.Action, 0),
		rewards:    make([]float64, 0),
		nextStates: make([]mdp.State, 0),
	}
}

func (t *Trace) Append(state mdp.State, action mdp.Action, reward float64, nextState mdp.State) {
	t.states = append(t.states, state)
	t.actions = append(t.actions, action)
	t.rewards = append(t.rewards, reward)
	t.nextStates = append(t.nextStates, nextState)
}

func (t *Trace) Len() int {
	return len(t.states)
}

func (t *Trace) Get(i int) (mdp.State, mdp.Action, float64, mdp.State, bool) {
	if i < 0 || i >= len(t.states) {
		return "", "", 0, "", false
	}
	return t.states[i], t.actions[i], t.rewards[i], t.nextStates[i], true
}

func (t *Trace) Last() (mdp.State, mdp.Action, float64, mdp.State, bool) {
	return t.Get(len(t.states) - 1)
}

// Return is the undiscounted sum of rewards along the trace.
func (t *Trace) Return() float64 {
	total := 0.0
	for _, r := range t.rewards {
		total += r
	}
	return total
}

type traceStep struct {
	State     mdp.State  `json:"state"`
	Action    mdp.Action `json:"action"`
	Reward    float64    `json:"reward"`
	NextState mdp.State  `json:"next_state"`
}

func (t *Trace) MarshalJSON() ([]byte, error) {
	steps := make([]traceStep, t.Len())
	for i := range steps {
		steps[i] = traceStep{t.states[i], t.actions[i], t.rewards[i], t.nextStates[i]}
	}
	return json.Marshal(steps)
}
