// Package models holds the example decision processes shipped with the
// solver.
package models

import (
	"sort"

	"github.com/zeu5/mdp-dp/mdp"
)

// DefaultDiscount is the discount used by the commands when none is given.
const DefaultDiscount = 0.9

// Scenario is a named model together with the state its simulations start
// from.
type Scenario struct {
	Name        string
	Description string
	Start       mdp.State
	Build       func(gamma float64) (*mdp.Model, error)
}

var catalog = map[string]Scenario{
	"stock-trader": {
		Name:        "stock-trader",
		Description: "Trading under ten market regimes with Buy, Hold and Sell",
		Start:       "C_H",
		Build:       StockTrader,
	},
	"self-driving-car": {
		Name:        "self-driving-car",
		Description: "Road situations for an autonomous car ending in arrival or accident",
		Start:       ClearRoad,
		Build:       SelfDrivingCar,
	},
	"grid": {
		Name:        "grid",
		Description: "A 4x4 grid with the goal in the far corner and two pits",
		Start:       Position{0, 0}.State(),
		Build: func(gamma float64) (*mdp.Model, error) {
			return GridWorld(4, 4, Position{3, 3}, Position{1, 1}, Position{2, 3}).Model(gamma)
		},
	},
}

// Catalog returns the scenarios sorted by name.
func Catalog() []Scenario {
	out := make([]Scenario, 0, len(catalog))
	for _, s := range catalog {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func Lookup(name string) (Scenario, bool) {
	s, ok := catalog[name]
	return s, ok
}
