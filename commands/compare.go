package commands

import (
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/mdp-dp/compare"
	"github.com/zeu5/mdp-dp/logging"
)

var (
	plots  bool
	frames int
)

func CompareCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run both algorithms on a model and compare the solutions",
		RunE:  compareAlgorithms,
	}
	cmd.Flags().BoolVar(&plots, "plots", false, "Draw value evolution and convergence plots into the save folder")
	cmd.Flags().IntVar(&frames, "frames", 0, "Also draw up to this many value function frames per algorithm")
	return cmd
}

func compareAlgorithms(cmd *cobra.Command, args []string) error {
	m, start, run, err := loadModel(cmd)
	if err != nil {
		return err
	}
	dir := saveDir
	if dir == "" && (plots || frames > 0) {
		dir = "results"
	}

	ctx, done := interruptContext()
	defer done()

	opts := compare.Options{
		Theta:         run.Theta,
		Workers:       run.Workers,
		MaxSweeps:     run.MaxSweeps,
		MaxIterations: run.MaxIterations,
		Simulation:    run.Simulation(),
		Observer:      logging.SweepObserver(logging.Get()),
	}
	report, err := compare.Compare(ctx, m, start, opts)
	if err != nil {
		return err
	}
	report.Print(cmd.OutOrStdout())

	if dir == "" {
		return nil
	}
	if err := report.Record(dir); err != nil {
		return err
	}
	written := []string{path.Join(dir, "comparison.json")}
	if plots {
		files, err := compare.PlotValueEvolution(report, dir)
		if err != nil {
			return err
		}
		conv, err := compare.PlotConvergence(report, dir)
		if err != nil {
			return err
		}
		written = append(append(written, files...), conv)
	}
	if frames > 0 {
		for _, o := range []compare.Outcome{report.PolicyIteration, report.ValueIteration} {
			files, err := compare.PlotValueFrames(m, o.Result, path.Join(dir, "frames"), frames)
			if err != nil {
				return err
			}
			written = append(written, files...)
		}
	}
	for _, f := range written {
		logging.Info().Add(logging.Str("file", f)).Msg("saved")
	}
	return nil
}
