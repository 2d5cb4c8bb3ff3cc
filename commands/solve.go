package commands

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/spf13/cobra"
	"github.com/zeu5/mdp-dp/dp"
	"github.com/zeu5/mdp-dp/logging"
	"github.com/zeu5/mdp-dp/mdp"
	"github.com/zeu5/mdp-dp/store"
	"github.com/zeu5/mdp-dp/util"
)

var (
	algorithm    string
	redisAddress string
	history      bool
)

func SolveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve a model with policy or value iteration",
		RunE:  solve,
	}
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "pi", "Algorithm to run: pi or vi")
	cmd.Flags().StringVar(&redisAddress, "redis", "", "Store the result in the Redis server at this address")
	cmd.Flags().BoolVar(&history, "history", false, "Keep the value function of every iteration")
	return cmd
}

func solve(cmd *cobra.Command, args []string) error {
	alg, err := dp.ParseAlgorithm(algorithm)
	if err != nil {
		return err
	}
	m, _, run, err := loadModel(cmd)
	if err != nil {
		return err
	}

	ctx, done := interruptContext()
	defer done()

	logger := logging.Get()
	opts := append(run.SolveOptions(),
		dp.WithHistory(history || saveDir != ""),
		dp.WithObserver(logging.SweepObserver(logger)),
	)
	res, err := dp.Solve(ctx, m, alg, opts...)
	if err != nil {
		return err
	}
	logging.Solved(logger, m.Name(), res)

	printSolution(cmd.OutOrStdout(), m, res)

	if saveDir != "" {
		file := path.Join(saveDir, fmt.Sprintf("%s_%s.json", m.Name(), res.Algorithm))
		if err := util.WriteJSON(file, res); err != nil {
			return err
		}
		logging.Info().Add(logging.Str("file", file)).Msg("saved result")
	}

	if redisAddress != "" {
		runs, err := store.New(store.DefaultConfig(), store.WithAddress(redisAddress))
		if err != nil {
			return err
		}
		defer runs.Close()
		id, err := runs.Save(ctx, m.Name(), res)
		if err != nil {
			return err
		}
		logging.Info().Add(logging.RunID(id), logging.Model(m.Name())).Msg("stored result")
		fmt.Fprintf(cmd.OutOrStdout(), "Run ID: %s\n", id)
	}
	return nil
}

func printSolution(w io.Writer, m *mdp.Model, res *dp.Result) {
	width := len("State")
	for _, s := range m.States() {
		if len(s) > width {
			width = len(s)
		}
	}
	fmt.Fprintf(w, "%s on %s (gamma %.3g)\n", res.Algorithm, m.Name(), m.Discount())
	fmt.Fprintf(w, "Iterations: %d, sweeps: %d, time: %s\n\n", res.Iterations, res.Sweeps, res.Duration)
	fmt.Fprintf(w, "%-*s  %-20s  %s\n", width, "State", "Action", "Value")
	fmt.Fprintln(w, strings.Repeat("-", width+36))
	for _, s := range m.States() {
		fmt.Fprintf(w, "%-*s  %-20s  %.4f\n", width, s, res.Policy[s], res.Values[s])
	}
}
