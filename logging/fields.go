package logging

import (
	"strconv"
	"time"

	"github.com/felixgeelhaar/bolt/v3"
	"github.com/zeu5/mdp-dp/dp"
)

// Field is a function that applies structured data to a log event.
type Field func(*bolt.Event) *bolt.Event

func RunID(id string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("run_id", id)
	}
}

func Model(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("model", name)
	}
}

func Algorithm(a dp.Algorithm) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("algorithm", string(a))
	}
}

func Iteration(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("iteration", n)
	}
}

func Sweeps(n int) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int("sweeps", n)
	}
}

// Delta adds the largest value change of a sweep.
func Delta(d float64) Field {
	return Float("delta", d)
}

func Float(key string, v float64) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, strconv.FormatFloat(v, 'g', 6, 64))
	}
}

// Duration adds a duration field in milliseconds.
func Duration(d time.Duration) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Int64("duration_ms", d.Milliseconds())
	}
}

func ErrorField(err error) Field {
	return func(e *bolt.Event) *bolt.Event {
		if err == nil {
			return e
		}
		return e.Err(err)
	}
}

// Component adds a component field for categorization.
func Component(name string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str("component", name)
	}
}

func Str(key, value string) Field {
	return func(e *bolt.Event) *bolt.Event {
		return e.Str(key, value)
	}
}

// SweepObserver logs every progress report of a solve at debug level.
func SweepObserver(logger *bolt.Logger) dp.Observer {
	return func(p dp.Progress) {
		ev := NewEvent(logger.Debug()).Add(
			Algorithm(p.Algorithm),
			Iteration(p.Iteration),
			Sweeps(p.Sweeps),
			Delta(p.Delta),
		)
		if p.Algorithm == dp.AlgorithmPolicyIteration {
			ev.Add(func(e *bolt.Event) *bolt.Event { return e.Int("policy_changes", p.PolicyChanges) })
		}
		ev.Msg("sweep")
	}
}

// Solved logs the summary of a finished solve.
func Solved(logger *bolt.Logger, model string, r *dp.Result) {
	NewEvent(logger.Info()).Add(
		Model(model),
		Algorithm(r.Algorithm),
		Iteration(r.Iterations),
		Sweeps(r.Sweeps),
		Duration(r.Duration),
	).Msg("solved")
}
