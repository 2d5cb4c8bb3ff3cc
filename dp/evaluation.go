package dp

import (
	"context"

	"github.com/zeu5/mdp-dp/mdp"
)

// evaluate computes the value of the policy given as one action slot per
// state. Every sweep reads only the previous sweep's values. It returns the
// values, the number of sweeps and the last delta.
func evaluate(ctx context.Context, m *mdp.Model, policy []int, o *Options) ([]float64, int, float64, error) {
	n := m.NumStates()
	v := make([]float64, n)
	next := make([]float64, n)
	update := func(i int) float64 {
		return qValue(m, i, policy[i], v)
	}

	for sweeps := 1; ; sweeps++ {
		if o.MaxSweeps > 0 && sweeps > o.MaxSweeps {
			return nil, sweeps - 1, 0, ErrNotConverged
		}
		if err := ctx.Err(); err != nil {
			return nil, sweeps - 1, 0, err
		}
		delta := sweep(o.Workers, v, next, update)
		v, next = next, v
		if delta < o.Theta {
			return v, sweeps, delta, nil
		}
	}
}

// EvaluatePolicy returns the state-value function of a fixed policy, iterating
// the Bellman expectation equation from V = 0 until the largest change in a
// sweep drops below the threshold.
func EvaluatePolicy(m *mdp.Model, p mdp.Policy, opts ...Option) (mdp.ValueFunction, error) {
	return EvaluatePolicyContext(context.Background(), m, p, opts...)
}

func EvaluatePolicyContext(ctx context.Context, m *mdp.Model, p mdp.Policy, opts ...Option) (mdp.ValueFunction, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	slots, err := policySlots(m, p)
	if err != nil {
		return nil, err
	}
	v, _, _, err := evaluate(ctx, m, slots, o)
	if err != nil {
		return nil, err
	}
	return mdp.ValuesFromVector(m, v), nil
}
