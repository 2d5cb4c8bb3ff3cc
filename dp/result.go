package dp

import (
	"time"

	"github.com/zeu5/mdp-dp/mdp"
)

type Algorithm string

const (
	AlgorithmPolicyIteration Algorithm = "policy-iteration"
	AlgorithmValueIteration  Algorithm = "value-iteration"
)

func (a Algorithm) String() string {
	return string(a)
}

// Result of a solve. History is empty unless history tracking was requested.
type Result struct {
	Algorithm Algorithm         `json:"algorithm"`
	Values    mdp.ValueFunction `json:"values"`
	Policy    mdp.Policy        `json:"policy"`
	// Iterations are cycles for policy iteration and sweeps for value iteration.
	Iterations int `json:"iterations"`
	// Sweeps counts every full pass over the state space, including the ones
	// inside each policy evaluation.
	Sweeps   int                 `json:"sweeps"`
	History  []mdp.ValueFunction `json:"history,omitempty"`
	Deltas   []float64           `json:"deltas"`
	Duration time.Duration       `json:"duration"`
}

func (r *Result) HasHistory() bool {
	return len(r.History) > 0
}
