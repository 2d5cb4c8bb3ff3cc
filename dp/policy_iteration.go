package dp

import (
	"context"
	"math"
	"time"

	"github.com/zeu5/mdp-dp/mdp"
	"gonum.org/v1/gonum/floats"
)

// PolicyIteration alternates policy evaluation and greedy improvement,
// starting from the first legal action in every state, until improvement
// leaves the policy unchanged.
func PolicyIteration(m *mdp.Model, opts ...Option) (*Result, error) {
	return PolicyIterationContext(context.Background(), m, opts...)
}

// PolicyIterationContext is PolicyIteration with cancellation checked between
// sweeps. A cancelled solve returns the context error and no result.
func PolicyIterationContext(ctx context.Context, m *mdp.Model, opts ...Option) (*Result, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	n := m.NumStates()
	policy := make([]int, n)
	prev := make([]float64, n)
	res := &Result{
		Algorithm: AlgorithmPolicyIteration,
		Deltas:    make([]float64, 0),
	}
	if o.TrackHistory {
		res.History = make([]mdp.ValueFunction, 0)
	}

	for iter := 1; ; iter++ {
		if o.MaxIterations > 0 && iter > o.MaxIterations {
			return nil, ErrNotConverged
		}
		v, sweeps, _, err := evaluate(ctx, m, policy, o)
		if err != nil {
			return nil, err
		}
		res.Sweeps += sweeps

		delta := floats.Distance(v, prev, math.Inf(1))
		res.Deltas = append(res.Deltas, delta)
		if o.TrackHistory {
			res.History = append(res.History, mdp.ValuesFromVector(m, v))
		}

		improved := improve(m, v)
		changes := countChanges(policy, improved)
		if o.Observer != nil {
			o.Observer(Progress{
				Algorithm:     AlgorithmPolicyIteration,
				Iteration:     iter,
				Sweeps:        sweeps,
				Values:        mdp.ValuesFromVector(m, v),
				Delta:         delta,
				PolicyChanges: changes,
			})
		}

		prev = v
		if changes == 0 {
			res.Values = mdp.ValuesFromVector(m, v)
			res.Policy = policyFromSlots(m, policy)
			res.Iterations = iter
			res.Duration = time.Since(start)
			return res, nil
		}
		policy = improved
	}
}
