// Package compare solves a model with both dynamic programming algorithms
// and reports how the solutions and their costs differ.
package compare

import (
	"context"
	"time"

	"github.com/zeu5/mdp-dp/dp"
	"github.com/zeu5/mdp-dp/mdp"
	"github.com/zeu5/mdp-dp/sim"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

type Options struct {
	Theta   float64
	Workers int
	// MaxSweeps and MaxIterations bound both solves, zero for none.
	MaxSweeps     int
	MaxIterations int
	// Simulation configures the average reward estimate of each policy
	Simulation sim.Config
	Observer   dp.Observer
}

func DefaultOptions() Options {
	return Options{
		Theta:      dp.DefaultTheta,
		Workers:    1,
		Simulation: sim.DefaultConfig(),
	}
}

// Outcome of one algorithm.
type Outcome struct {
	Result *dp.Result `json:"result"`
	Time   float64    `json:"time_seconds"`
	Reward sim.Stats  `json:"reward"`
}

// Report of a comparison. ValueDiff is the sum over states of the absolute
// difference of the two value functions, PolicyDiff the number of states
// where the policies disagree.
type Report struct {
	Model    string      `json:"model"`
	Start    mdp.State   `json:"start"`
	Discount float64     `json:"discount"`
	Theta    float64     `json:"theta"`
	States   []mdp.State `json:"states"`

	PolicyIteration Outcome `json:"policy_iteration"`
	ValueIteration  Outcome `json:"value_iteration"`

	ValueDiff  float64 `json:"value_diff"`
	PolicyDiff int     `json:"policy_diff"`
	// IterationRatio is value iteration sweeps per policy iteration cycle
	IterationRatio float64 `json:"iteration_ratio"`

	model *mdp.Model
}

// Compare runs policy iteration and then value iteration on m, both with
// history, and simulates the two policies from start.
func Compare(ctx context.Context, m *mdp.Model, start mdp.State, opts Options) (*Report, error) {
	if _, ok := m.StateIndex(start); !ok {
		return nil, mdp.Misconfigured("start state %q is not a state of %s", start, m.Name())
	}
	if opts.Theta == 0 {
		opts.Theta = dp.DefaultTheta
	}
	solveOpts := []dp.Option{
		dp.WithTheta(opts.Theta),
		dp.WithWorkers(opts.Workers),
		dp.WithMaxSweeps(opts.MaxSweeps),
		dp.WithMaxIterations(opts.MaxIterations),
		dp.WithHistory(true),
		dp.WithObserver(opts.Observer),
	}

	r := &Report{
		Model:    m.Name(),
		Start:    start,
		Discount: m.Discount(),
		Theta:    opts.Theta,
		States:   m.States(),
		model:    m,
	}

	begin := time.Now()
	pi, err := dp.PolicyIterationContext(ctx, m, solveOpts...)
	if err != nil {
		return nil, err
	}
	r.PolicyIteration = Outcome{Result: pi, Time: time.Since(begin).Seconds()}

	begin = time.Now()
	vi, err := dp.ValueIterationContext(ctx, m, solveOpts...)
	if err != nil {
		return nil, err
	}
	r.ValueIteration = Outcome{Result: vi, Time: time.Since(begin).Seconds()}

	g, gctx := errgroup.WithContext(ctx)
	for _, o := range []*Outcome{&r.PolicyIteration, &r.ValueIteration} {
		o := o
		g.Go(func() error {
			st, err := sim.AverageReward(gctx, m, o.Result.Policy, start, opts.Simulation)
			if err != nil {
				return err
			}
			o.Reward = st
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.ValueDiff = floats.Distance(pi.Values.Vector(m), vi.Values.Vector(m), 1)
	r.PolicyDiff = pi.Policy.Diff(vi.Policy)
	if pi.Iterations > 0 {
		r.IterationRatio = float64(vi.Iterations) / float64(pi.Iterations)
	}
	return r, nil
}

// SpeedRatio is value iteration time over policy iteration time, zero when
// policy iteration was too fast to measure.
func (r *Report) SpeedRatio() float64 {
	if r.PolicyIteration.Time == 0 {
		return 0
	}
	return r.ValueIteration.Time / r.PolicyIteration.Time
}

// Agreement is the number of states where both policies match.
func (r *Report) Agreement() int {
	return len(r.States) - r.PolicyDiff
}
