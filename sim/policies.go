package sim

import (
	"github.com/zeu5/mdp-dp/mdp"
	"golang.org/x/exp/rand"
)

type Policy interface {
	NextAction(step int, state mdp.State, actions []mdp.Action) (mdp.Action, bool)
}

// FixedPolicy follows a solved policy. States the policy does not cover end
// the episode.
type FixedPolicy struct {
	policy mdp.Policy
}

var _ Policy = &FixedPolicy{}

func NewFixedPolicy(p mdp.Policy) *FixedPolicy {
	return &FixedPolicy{policy: p}
}

func (f *FixedPolicy) NextAction(_ int, state mdp.State, _ []mdp.Action) (mdp.Action, bool) {
	a, ok := f.policy[state]
	return a, ok
}

// RandomPolicy picks uniformly among the available actions.
type RandomPolicy struct {
	rand *rand.Rand
}

var _ Policy = &RandomPolicy{}

func NewRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (r *RandomPolicy) NextAction(_ int, _ mdp.State, actions []mdp.Action) (mdp.Action, bool) {
	if len(actions) == 0 {
		return "", false
	}
	return actions[r.rand.Intn(len(actions))], true
}
