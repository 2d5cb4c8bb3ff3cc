package dp

import (
	"errors"
	"fmt"
	"math"

	"github.com/zeu5/mdp-dp/mdp"
)

// DefaultTheta is the convergence threshold used when none is given.
const DefaultTheta = 1e-3

var (
	// ErrInvalidThreshold is returned for a non-positive convergence threshold.
	ErrInvalidThreshold = fmt.Errorf("%w: convergence threshold must be positive", mdp.ErrConfiguration)
	// ErrNotConverged is returned when a sweep or iteration bound is reached
	// before the values settle. No partial result accompanies it.
	ErrNotConverged = errors.New("dp: iteration bound reached before convergence")
)

// Options configures a solve.
type Options struct {
	// Theta stops a sweep loop once the largest value change drops below it.
	Theta float64
	// MaxSweeps bounds the sweeps of a single loop (one policy evaluation or
	// value iteration). Zero means unbounded.
	MaxSweeps int
	// MaxIterations bounds policy iteration cycles. Zero means unbounded.
	MaxIterations int
	// Workers splits each sweep over this many goroutines. Values below two
	// sweep sequentially.
	Workers int
	// TrackHistory keeps a value function snapshot per iteration.
	TrackHistory bool
	// Observer, if set, is invoked once per iteration.
	Observer Observer
}

type Option func(*Options)

func DefaultOptions() *Options {
	return &Options{
		Theta:   DefaultTheta,
		Workers: 1,
	}
}

func WithTheta(theta float64) Option {
	return func(o *Options) {
		o.Theta = theta
	}
}

func WithMaxSweeps(n int) Option {
	return func(o *Options) {
		o.MaxSweeps = n
	}
}

func WithMaxIterations(n int) Option {
	return func(o *Options) {
		o.MaxIterations = n
	}
}

func WithWorkers(n int) Option {
	return func(o *Options) {
		o.Workers = n
	}
}

func WithHistory(track bool) Option {
	return func(o *Options) {
		o.TrackHistory = track
	}
}

func WithObserver(obs Observer) Option {
	return func(o *Options) {
		o.Observer = obs
	}
}

func newOptions(opts []Option) (*Options, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if math.IsNaN(o.Theta) || o.Theta <= 0 {
		return nil, ErrInvalidThreshold
	}
	if o.MaxSweeps < 0 || o.MaxIterations < 0 {
		return nil, mdp.Misconfigured("iteration bounds must not be negative")
	}
	return o, nil
}

// Progress is handed to an Observer after every iteration. For value
// iteration an iteration is one sweep; for policy iteration it is one
// evaluate/improve cycle.
type Progress struct {
	Algorithm Algorithm
	Iteration int
	// Sweeps performed by this iteration (always 1 for value iteration).
	Sweeps int
	Values mdp.ValueFunction
	// Delta is the largest change in value against the previous iteration.
	Delta float64
	// PolicyChanges counts states whose action changed (policy iteration only).
	PolicyChanges int
}

// Observer receives progress reports. Value iteration reports every sweep.
// Policy iteration reports once per evaluate/improve cycle, not per
// evaluation sweep; Progress.Sweeps carries the sweeps of that cycle. An
// Observer must not retain Values across calls if it mutates them.
type Observer func(Progress)
