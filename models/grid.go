package models

import (
	"fmt"

	"github.com/zeu5/mdp-dp/mdp"
)

type Position struct {
	I int
	J int
}

func (p Position) State() mdp.State {
	return mdp.State(fmt.Sprintf("(%d, %d)", p.I, p.J))
}

func (p Position) Eq(other Position) bool {
	return p.I == other.I && p.J == other.J
}

const (
	MovementUp    mdp.Action = "Up"
	MovementDown  mdp.Action = "Down"
	MovementLeft  mdp.Action = "Left"
	MovementRight mdp.Action = "Right"
	NoMovement    mdp.Action = "Nothing"
)

var AllMovements = []mdp.Action{MovementUp, MovementDown, MovementLeft, MovementRight, NoMovement}

// Grid describes a rectangular world. Landing on the goal or a pit ends the
// episode; every other move costs StepReward. With probability Slip a move
// leaves the agent where it was.
type Grid struct {
	Height int
	Width  int
	Goal   Position
	Pits   []Position

	StepReward float64
	GoalReward float64
	PitReward  float64
	Slip       float64
}

func GridWorld(height, width int, goal Position, pits ...Position) *Grid {
	return &Grid{
		Height:     height,
		Width:      width,
		Goal:       goal,
		Pits:       pits,
		StepReward: -1,
		GoalReward: 10,
		PitReward:  -10,
	}
}

func (g *Grid) inside(p Position) bool {
	return p.I >= 0 && p.I < g.Height && p.J >= 0 && p.J < g.Width
}

func (g *Grid) isPit(p Position) bool {
	for _, pit := range g.Pits {
		if pit.Eq(p) {
			return true
		}
	}
	return false
}

func (g *Grid) final(p Position) bool {
	return g.Goal.Eq(p) || g.isPit(p)
}

// Actions lists the movements available at p. Moves that would leave the grid
// are not offered, and goal and pit cells only allow Nothing.
func (g *Grid) Actions(p Position) []mdp.Action {
	if g.final(p) {
		return []mdp.Action{NoMovement}
	}
	actions := make([]mdp.Action, 0, len(AllMovements))
	if p.I < g.Height-1 {
		actions = append(actions, MovementUp)
	}
	if p.I > 0 {
		actions = append(actions, MovementDown)
	}
	if p.J > 0 {
		actions = append(actions, MovementLeft)
	}
	if p.J < g.Width-1 {
		actions = append(actions, MovementRight)
	}
	return append(actions, NoMovement)
}

// Move is the intended destination of a movement, ignoring slips.
func (g *Grid) Move(p Position, a mdp.Action) Position {
	next := p
	switch a {
	case MovementUp:
		next.I = min(g.Height-1, p.I+1)
	case MovementDown:
		next.I = max(0, p.I-1)
	case MovementLeft:
		next.J = max(0, p.J-1)
	case MovementRight:
		next.J = min(g.Width-1, p.J+1)
	}
	return next
}

func (g *Grid) landing(p Position) float64 {
	switch {
	case g.Goal.Eq(p):
		return g.GoalReward
	case g.isPit(p):
		return g.PitReward
	}
	return g.StepReward
}

// Model enumerates the grid row by row. The reward of a move is its expected
// landing reward.
func (g *Grid) Model(gamma float64) (*mdp.Model, error) {
	if g.Height <= 0 || g.Width <= 0 {
		return nil, mdp.Misconfigured("grid needs positive dimensions, got %dx%d", g.Height, g.Width)
	}
	if !g.inside(g.Goal) {
		return nil, mdp.Misconfigured("goal %v outside the %dx%d grid", g.Goal, g.Height, g.Width)
	}
	for _, pit := range g.Pits {
		if !g.inside(pit) {
			return nil, mdp.Misconfigured("pit %v outside the %dx%d grid", pit, g.Height, g.Width)
		}
	}
	if g.Slip < 0 || g.Slip >= 1 {
		return nil, mdp.Misconfigured("slip probability %v outside [0, 1)", g.Slip)
	}

	b := mdp.NewBuilder(fmt.Sprintf("grid-%dx%d", g.Height, g.Width)).
		Actions(AllMovements...).
		Discount(gamma)
	for i := 0; i < g.Height; i++ {
		for j := 0; j < g.Width; j++ {
			p := Position{I: i, J: j}
			s := p.State()
			b.States(s)
			actions := g.Actions(p)
			b.Legal(s, actions...)

			if g.final(p) {
				b.Transition(s, NoMovement, s, 1).Reward(s, NoMovement, 0)
				continue
			}
			for _, a := range actions {
				next := g.Move(p, a)
				d := map[mdp.State]float64{}
				if next.Eq(p) {
					d[s] = 1
				} else {
					d[next.State()] = 1 - g.Slip
					if g.Slip > 0 {
						d[s] = g.Slip
					}
				}
				r := (1-g.Slip)*g.landing(next) + g.Slip*g.StepReward
				b.Distribution(s, a, d).Reward(s, a, r)
			}
		}
	}
	return b.Build()
}
