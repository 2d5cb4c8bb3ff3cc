package compare

import (
	"fmt"
	"math"
	"os"
	"path"

	"github.com/zeu5/mdp-dp/dp"
	"github.com/zeu5/mdp-dp/mdp"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

func algorithmTitle(a dp.Algorithm) string {
	if a == dp.AlgorithmPolicyIteration {
		return "Policy Iteration"
	}
	return "Value Iteration"
}

// PlotValueEvolution draws, per algorithm, the value of every non-terminal
// state against the iteration. Files are named value_evolution_<algorithm>.png.
func PlotValueEvolution(r *Report, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	files := make([]string, 0, 2)
	for _, o := range []Outcome{r.PolicyIteration, r.ValueIteration} {
		res := o.Result
		if !res.HasHistory() {
			return nil, fmt.Errorf("%s result has no history", res.Algorithm)
		}
		p := plot.New()
		p.Title.Text = algorithmTitle(res.Algorithm) + ": State Value Evolution"
		p.X.Label.Text = "Iteration"
		p.Y.Label.Text = "State Value"
		p.Add(plotter.NewGrid())

		line := 0
		for _, s := range r.States {
			if r.model != nil && r.model.IsTerminal(s) {
				continue
			}
			points := make(plotter.XYs, len(res.History))
			for i, v := range res.History {
				points[i] = plotter.XY{X: float64(i), Y: v[s]}
			}
			l, sc, err := plotter.NewLinePoints(points)
			if err != nil {
				continue
			}
			l.Color = plotutil.Color(line)
			sc.Color = plotutil.Color(line)
			sc.Shape = plotutil.Shape(line)
			p.Add(l, sc)
			p.Legend.Add(string(s), l, sc)
			line++
		}
		p.Legend.Top = true

		file := path.Join(dir, "value_evolution_"+string(res.Algorithm)+".png")
		if err := p.Save(10*vg.Inch, 6*vg.Inch, file); err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

// PlotConvergence draws the largest value change of every iteration of both
// algorithms on a log scale. Iterations without change are left out.
func PlotConvergence(r *Report, dir string) (string, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	p := plot.New()
	p.Title.Text = "Convergence Speed Comparison"
	p.X.Label.Text = "Iteration"
	p.Y.Label.Text = "Maximum Value Change"
	p.Add(plotter.NewGrid())

	positive := 0
	for i, o := range []Outcome{r.PolicyIteration, r.ValueIteration} {
		points := make(plotter.XYs, 0, len(o.Result.Deltas))
		for j, d := range o.Result.Deltas {
			if d > 0 && !math.IsInf(d, 0) {
				points = append(points, plotter.XY{X: float64(j + 1), Y: d})
			}
		}
		if len(points) == 0 {
			continue
		}
		positive += len(points)
		l, sc, err := plotter.NewLinePoints(points)
		if err != nil {
			return "", err
		}
		l.Color = plotutil.Color(i)
		sc.Color = plotutil.Color(i)
		sc.Shape = plotutil.Shape(i)
		p.Add(l, sc)
		p.Legend.Add(algorithmTitle(o.Result.Algorithm), l, sc)
	}
	if positive > 0 {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
		p.Y.Label.Text += " (log scale)"
	}

	file := path.Join(dir, "convergence_comparison.png")
	if err := p.Save(10*vg.Inch, 6*vg.Inch, file); err != nil {
		return "", err
	}
	return file, nil
}

// PlotValueFrames renders the value function after each iteration as a bar
// chart, one file per frame, so the frames can be stitched into an animation.
// At most maxFrames evenly spaced frames are drawn, always including the last.
func PlotValueFrames(m *mdp.Model, res *dp.Result, dir string, maxFrames int) ([]string, error) {
	if !res.HasHistory() {
		return nil, fmt.Errorf("%s result has no history", res.Algorithm)
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	states := m.States()
	names := make([]string, len(states))
	for i, s := range states {
		names[i] = string(s)
	}

	lo, hi := 0.0, 0.0
	for _, v := range res.History {
		for _, x := range v {
			lo, hi = math.Min(lo, x), math.Max(hi, x)
		}
	}
	if hi == lo {
		hi = lo + 1
	}

	files := make([]string, 0)
	for _, i := range frameIndices(len(res.History), maxFrames) {
		values := make(plotter.Values, len(states))
		for j, s := range states {
			values[j] = res.History[i][s]
		}
		p := plot.New()
		p.Title.Text = fmt.Sprintf("%s: iteration %d", algorithmTitle(res.Algorithm), i)
		p.Y.Label.Text = "State Value"
		p.Y.Min, p.Y.Max = lo, hi
		p.X.Tick.Label.Rotation = math.Pi / 6

		bars, err := plotter.NewBarChart(values, vg.Points(20))
		if err != nil {
			return nil, err
		}
		bars.Color = plotutil.Color(0)
		p.Add(bars)
		p.NominalX(names...)

		file := path.Join(dir, fmt.Sprintf("%s_%04d.png", res.Algorithm, i))
		if err := p.Save(10*vg.Inch, 6*vg.Inch, file); err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func frameIndices(n, limit int) []int {
	if limit <= 0 || limit >= n {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	out := make([]int, 0, limit)
	if limit == 1 {
		return append(out, n-1)
	}
	step := float64(n-1) / float64(limit-1)
	for k := 0; k < limit; k++ {
		i := int(math.Round(float64(k) * step))
		if len(out) == 0 || out[len(out)-1] != i {
			out = append(out, i)
		}
	}
	return out
}
