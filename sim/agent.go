package sim

import (
	"context"
	"fmt"

	"github.com/zeu5/mdp-dp/mdp"
	"gonum.org/v1/gonum/stat"
)

type AgentConfig struct {
	Episodes    int
	Horizon     int
	Policy      Policy
	Environment Environment
}

// Agent runs a policy in an environment. Traces are only populated once Run
// returns.
type Agent struct {
	config      *AgentConfig
	traces      []*Trace
	policy      Policy
	environment Environment
}

func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config:      config,
		traces:      make([]*Trace, 0, config.Episodes),
		policy:      config.Policy,
		environment: config.Environment,
	}
}

// Run the agent for the configured number of episodes. Cancellation is
// checked between episodes.
func (a *Agent) Run(ctx context.Context) error {
	for i := 0; i < a.config.Episodes; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		trace, err := a.runEpisode()
		if err != nil {
			return fmt.Errorf("episode %d: %w", i, err)
		}
		a.traces = append(a.traces, trace)
	}
	return nil
}

func (a *Agent) Traces() []*Trace {
	return a.traces
}

// an episode stops at the horizon, in a state where the episode is done, or
// when the policy has nothing to offer
func (a *Agent) runEpisode() (*Trace, error) {
	state := a.environment.Reset()
	trace := NewTrace()

	for i := 0; i < a.config.Horizon; i++ {
		if a.environment.Done(state) {
			break
		}
		actions := a.environment.Actions(state)
		if len(actions) == 0 {
			break
		}
		action, ok := a.policy.NextAction(i, state, actions)
		if !ok {
			break
		}
		next, reward, err := a.environment.Step(action)
		if err != nil {
			return trace, err
		}
		trace.Append(state, action, reward, next)
		state = next
	}
	return trace, nil
}

const (
	DefaultEpisodes = 1000
	DefaultHorizon  = 100
)

type Config struct {
	Episodes int
	Horizon  int
	Seed     uint64
}

func DefaultConfig() Config {
	return Config{
		Episodes: DefaultEpisodes,
		Horizon:  DefaultHorizon,
		Seed:     1,
	}
}

// Stats summarise the undiscounted returns of a batch of episodes.
type Stats struct {
	Mean       float64 `json:"mean"`
	StdDev     float64 `json:"std_dev"`
	Episodes   int     `json:"episodes"`
	MeanLength float64 `json:"mean_length"`
}

// Summarize computes return statistics over traces.
func Summarize(traces []*Trace) Stats {
	if len(traces) == 0 {
		return Stats{}
	}
	returns := make([]float64, len(traces))
	lengths := make([]float64, len(traces))
	for i, t := range traces {
		returns[i] = t.Return()
		lengths[i] = float64(t.Len())
	}
	st := Stats{Episodes: len(traces), MeanLength: stat.Mean(lengths, nil)}
	if len(traces) == 1 {
		st.Mean = returns[0]
		return st
	}
	st.Mean, st.StdDev = stat.MeanStdDev(returns, nil)
	return st
}

// AverageReward simulates p from start and returns the statistics of the
// episode returns. Zero values in cfg fall back to the defaults.
func AverageReward(ctx context.Context, m *mdp.Model, p mdp.Policy, start mdp.State, cfg Config) (Stats, error) {
	if cfg.Episodes <= 0 {
		cfg.Episodes = DefaultEpisodes
	}
	if cfg.Horizon <= 0 {
		cfg.Horizon = DefaultHorizon
	}
	if err := p.Validate(m); err != nil {
		return Stats{}, err
	}
	env, err := NewModelEnvironment(m, start, cfg.Seed)
	if err != nil {
		return Stats{}, err
	}
	agent := NewAgent(&AgentConfig{
		Episodes:    cfg.Episodes,
		Horizon:     cfg.Horizon,
		Policy:      NewFixedPolicy(p),
		Environment: env,
	})
	if err := agent.Run(ctx); err != nil {
		return Stats{}, err
	}
	return Summarize(agent.Traces()), nil
}
