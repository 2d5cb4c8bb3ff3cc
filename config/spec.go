package config

import (
	"github.com/zeu5/mdp-dp/mdp"
)

// DefaultDiscount applies when a model file does not set one.
const DefaultDiscount = 0.9

// ModelSpec is the file representation of a model. Every action is legal in
// every state unless LegalActions lists the actions of that state.
type ModelSpec struct {
	Name     string       `yaml:"name" json:"name"`
	Discount *float64     `yaml:"discount,omitempty" json:"discount,omitempty"`
	Start    mdp.State    `yaml:"start,omitempty" json:"start,omitempty"`
	States   []mdp.State  `yaml:"states" json:"states"`
	Actions  []mdp.Action `yaml:"actions" json:"actions"`

	LegalActions map[mdp.State][]mdp.Action                         `yaml:"legal_actions,omitempty" json:"legal_actions,omitempty"`
	Transitions  map[mdp.State]map[mdp.Action]map[mdp.State]float64 `yaml:"transitions" json:"transitions"`
	Rewards      map[mdp.State]map[mdp.Action]float64               `yaml:"rewards" json:"rewards"`

	// Run optionally carries solver settings next to the model
	Run *RunConfig `yaml:"run,omitempty" json:"run,omitempty"`
}

// Build validates the description and constructs the model.
func (s *ModelSpec) Build() (*mdp.Model, error) {
	gamma := DefaultDiscount
	if s.Discount != nil {
		gamma = *s.Discount
	}
	b := mdp.NewBuilder(s.Name).
		States(s.States...).
		Actions(s.Actions...).
		Discount(gamma)
	for st, actions := range s.LegalActions {
		b.Legal(st, actions...)
	}
	for st, row := range s.Transitions {
		for a, d := range row {
			b.Distribution(st, a, d)
		}
	}
	for st, row := range s.Rewards {
		for a, r := range row {
			b.Reward(st, a, r)
		}
	}
	return b.Build()
}

// StartState is the configured start, or the first state when none is set.
func (s *ModelSpec) StartState(m *mdp.Model) (mdp.State, error) {
	if s.Start == "" {
		return m.StateAt(0), nil
	}
	if _, ok := m.StateIndex(s.Start); !ok {
		return "", mdp.Misconfigured("start state %q is not a state of %s", s.Start, m.Name())
	}
	return s.Start, nil
}
