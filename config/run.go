package config

import (
	"github.com/zeu5/mdp-dp/dp"
	"github.com/zeu5/mdp-dp/mdp"
	"github.com/zeu5/mdp-dp/sim"
)

// RunConfig holds the solver and simulation settings shared by the commands
// and the server.
type RunConfig struct {
	Theta         float64 `yaml:"theta" json:"theta"`
	MaxSweeps     int     `yaml:"max_sweeps" json:"max_sweeps"`
	MaxIterations int     `yaml:"max_iterations" json:"max_iterations"`
	Workers       int     `yaml:"workers" json:"workers"`
	Episodes      int     `yaml:"episodes" json:"episodes"`
	Horizon       int     `yaml:"horizon" json:"horizon"`
	Seed          uint64  `yaml:"seed" json:"seed"`
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Theta:    dp.DefaultTheta,
		Workers:  1,
		Episodes: sim.DefaultEpisodes,
		Horizon:  sim.DefaultHorizon,
		Seed:     1,
	}
}

// Merge overlays the non-zero fields of other.
func (c RunConfig) Merge(other RunConfig) RunConfig {
	if other.Theta != 0 {
		c.Theta = other.Theta
	}
	if other.MaxSweeps != 0 {
		c.MaxSweeps = other.MaxSweeps
	}
	if other.MaxIterations != 0 {
		c.MaxIterations = other.MaxIterations
	}
	if other.Workers != 0 {
		c.Workers = other.Workers
	}
	if other.Episodes != 0 {
		c.Episodes = other.Episodes
	}
	if other.Horizon != 0 {
		c.Horizon = other.Horizon
	}
	if other.Seed != 0 {
		c.Seed = other.Seed
	}
	return c
}

func (c RunConfig) Validate() error {
	if !(c.Theta > 0) {
		return dp.ErrInvalidThreshold
	}
	if c.MaxSweeps < 0 || c.MaxIterations < 0 || c.Workers < 0 || c.Episodes < 0 || c.Horizon < 0 {
		return mdp.Misconfigured("run settings must not be negative")
	}
	return nil
}

func (c RunConfig) SolveOptions() []dp.Option {
	return []dp.Option{
		dp.WithTheta(c.Theta),
		dp.WithMaxSweeps(c.MaxSweeps),
		dp.WithMaxIterations(c.MaxIterations),
		dp.WithWorkers(c.Workers),
	}
}

func (c RunConfig) Simulation() sim.Config {
	return sim.Config{
		Episodes: c.Episodes,
		Horizon:  c.Horizon,
		Seed:     c.Seed,
	}
}
