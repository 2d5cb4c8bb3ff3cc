package dp

import (
	"context"
	"time"

	"github.com/zeu5/mdp-dp/mdp"
)

// ValueIteration applies the Bellman optimality update to every state, from
// V = 0, until the largest change in a sweep drops below the threshold, then
// extracts the greedy policy from the final values.
func ValueIteration(m *mdp.Model, opts ...Option) (*Result, error) {
	return ValueIterationContext(context.Background(), m, opts...)
}

// ValueIterationContext is ValueIteration with cancellation checked between
// sweeps.
func ValueIterationContext(ctx context.Context, m *mdp.Model, opts ...Option) (*Result, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	n := m.NumStates()
	v := make([]float64, n)
	next := make([]float64, n)
	res := &Result{
		Algorithm: AlgorithmValueIteration,
		Deltas:    make([]float64, 0),
	}
	if o.TrackHistory {
		// the zero start so the history begins at the origin
		res.History = []mdp.ValueFunction{mdp.ValuesFromVector(m, v)}
	}

	update := func(i int) float64 {
		_, q := greedy(m, i, v)
		return q
	}

	for iter := 1; ; iter++ {
		if o.MaxSweeps > 0 && iter > o.MaxSweeps {
			return nil, ErrNotConverged
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		delta := sweep(o.Workers, v, next, update)
		v, next = next, v

		res.Deltas = append(res.Deltas, delta)
		if o.TrackHistory {
			res.History = append(res.History, mdp.ValuesFromVector(m, v))
		}
		if o.Observer != nil {
			o.Observer(Progress{
				Algorithm: AlgorithmValueIteration,
				Iteration: iter,
				Sweeps:    1,
				Values:    mdp.ValuesFromVector(m, v),
				Delta:     delta,
			})
		}

		if delta < o.Theta {
			res.Iterations = iter
			res.Sweeps = iter
			break
		}
	}

	res.Values = mdp.ValuesFromVector(m, v)
	res.Policy = policyFromSlots(m, improve(m, v))
	res.Duration = time.Since(start)
	return res, nil
}
