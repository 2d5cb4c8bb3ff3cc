// Package commands wires the solvers into the mdp command line.
package commands

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/zeu5/mdp-dp/config"
	"github.com/zeu5/mdp-dp/dp"
	"github.com/zeu5/mdp-dp/logging"
	"github.com/zeu5/mdp-dp/mdp"
	"github.com/zeu5/mdp-dp/models"
)

var (
	modelName string
	modelFile string
	gamma     float64
	theta     float64
	maxSweeps int
	workers   int
	episodes  int
	horizon   int
	seed      uint64
	saveDir   string
	logLevel  string
	logFormat string
)

func GetRootCommand() *cobra.Command {
	rootCommand := &cobra.Command{
		Use:           "mdp",
		Short:         "Solve finite Markov decision processes with policy and value iteration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(logging.Config{Level: logLevel, Format: logFormat, Output: cmd.ErrOrStderr()})
		},
	}
	flags := rootCommand.PersistentFlags()
	flags.StringVarP(&modelName, "model", "m", "self-driving-car", "Name of a built-in model")
	flags.StringVarP(&modelFile, "file", "f", "", "Load the model from a YAML or JSON file instead")
	flags.Float64Var(&gamma, "gamma", models.DefaultDiscount, "Discount factor in [0, 1]")
	flags.Float64Var(&theta, "theta", dp.DefaultTheta, "Convergence threshold")
	flags.IntVar(&maxSweeps, "max-sweeps", 0, "Bound on sweeps per loop, 0 for none")
	flags.IntVar(&workers, "workers", 1, "Goroutines per sweep")
	flags.IntVarP(&episodes, "episodes", "e", 1000, "Number of simulated episodes")
	flags.IntVar(&horizon, "horizon", 100, "Horizon of each simulated episode")
	flags.Uint64Var(&seed, "seed", 1, "Seed of the simulations")
	flags.StringVarP(&saveDir, "save", "s", "", "Save the result data in the specified folder")
	flags.StringVar(&logLevel, "log-level", "info", "Log level (trace, debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "console", "Log format (console or json)")
	// adding the subcommands here
	rootCommand.AddCommand(SolveCommand())
	rootCommand.AddCommand(CompareCommand())
	rootCommand.AddCommand(ServeCommand())
	rootCommand.AddCommand(ShowCommand())
	rootCommand.AddCommand(RunsCommand())
	rootCommand.AddCommand(ModelsCommand())
	return rootCommand
}

// interruptContext is cancelled on an interrupt or once done is called.
func interruptContext() (context.Context, func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	doneCh := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-doneCh:
		}
		signal.Stop(sigCh)
		cancel()
	}()
	return ctx, func() { close(doneCh) }
}

// runConfig merges, in increasing priority, the defaults, the run section of
// a model file and the flags set on the command line.
func runConfig(cmd *cobra.Command, fromFile *config.RunConfig) (config.RunConfig, error) {
	c := config.DefaultRunConfig()
	if fromFile != nil {
		c = c.Merge(*fromFile)
	}
	flags := cmd.Flags()
	if flags.Changed("theta") {
		c.Theta = theta
	}
	if flags.Changed("max-sweeps") {
		c.MaxSweeps = maxSweeps
	}
	if flags.Changed("workers") {
		c.Workers = workers
	}
	if flags.Changed("episodes") {
		c.Episodes = episodes
	}
	if flags.Changed("horizon") {
		c.Horizon = horizon
	}
	if flags.Changed("seed") {
		c.Seed = seed
	}
	return c, c.Validate()
}

// loadModel resolves --file or --model into a model, its start state and the
// run settings.
func loadModel(cmd *cobra.Command) (*mdp.Model, mdp.State, config.RunConfig, error) {
	if modelFile != "" {
		spec, err := config.NewLoader().LoadModelFile(modelFile)
		if err != nil {
			return nil, "", config.RunConfig{}, err
		}
		if cmd.Flags().Changed("gamma") {
			g := gamma
			spec.Discount = &g
		}
		run, err := runConfig(cmd, spec.Run)
		if err != nil {
			return nil, "", run, err
		}
		m, err := spec.Build()
		if err != nil {
			return nil, "", run, err
		}
		start, err := spec.StartState(m)
		return m, start, run, err
	}

	sc, ok := models.Lookup(modelName)
	if !ok {
		return nil, "", config.RunConfig{}, mdp.Misconfigured("unknown model %q, see the models command", modelName)
	}
	run, err := runConfig(cmd, nil)
	if err != nil {
		return nil, "", run, err
	}
	m, err := sc.Build(gamma)
	return m, sc.Start, run, err
}
