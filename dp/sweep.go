package dp

import (
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// sweep writes update(i) into next[i] for every state, reading only prev
// through update, and returns max |next[i] - prev[i]|. States are independent
// within a sweep, so they may be split across workers.
func sweep(workers int, prev, next []float64, update func(int) float64) float64 {
	n := len(prev)
	if workers > n {
		workers = n
	}
	if workers < 2 {
		return sweepRange(0, n, prev, next, update)
	}

	deltas := make([]float64, workers)
	chunk := (n + workers - 1) / workers
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		lo, hi := w*chunk, min((w+1)*chunk, n)
		g.Go(func() error {
			deltas[w] = sweepRange(lo, hi, prev, next, update)
			return nil
		})
	}
	// workers never fail
	_ = g.Wait()
	return floats.Max(deltas)
}

func sweepRange(lo, hi int, prev, next []float64, update func(int) float64) float64 {
	delta := 0.0
	for i := lo; i < hi; i++ {
		next[i] = update(i)
		delta = math.Max(delta, math.Abs(next[i]-prev[i]))
	}
	return delta
}
