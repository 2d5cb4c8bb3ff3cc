package compare

import (
	"fmt"
	"io"
	"math"
	"path"
	"sort"
	"strings"

	"github.com/zeu5/mdp-dp/mdp"
	"github.com/zeu5/mdp-dp/util"
)

const barWidth = 30

func rule(w io.Writer, n int) {
	fmt.Fprintln(w, strings.Repeat("-", n))
}

func bar(frac float64) string {
	if math.IsNaN(frac) || frac < 0 {
		frac = 0
	}
	n := int(frac * barWidth)
	if n > barWidth {
		n = barWidth
	}
	return strings.Repeat("█", n) + strings.Repeat(" ", barWidth-n)
}

// Print writes the comparison in a human readable layout.
func (r *Report) Print(w io.Writer) {
	pi, vi := r.PolicyIteration, r.ValueIteration

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "ALGORITHM COMPARISON: %s (gamma %.3g, theta %.3g)\n", r.Model, r.Discount, r.Theta)
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintln(w, "\nPERFORMANCE")
	rule(w, 40)
	fmt.Fprintf(w, "Policy Iteration Time:    %.4f seconds (%d cycles, %d sweeps)\n", pi.Time, pi.Result.Iterations, pi.Result.Sweeps)
	fmt.Fprintf(w, "Value Iteration Time:     %.4f seconds (%d sweeps)\n", vi.Time, vi.Result.Iterations)
	fmt.Fprintf(w, "Speed Ratio (VI/PI):      %.2fx\n", r.SpeedRatio())
	fmt.Fprintf(w, "Iteration Ratio (VI/PI):  %.1fx\n", r.IterationRatio)

	fmt.Fprintf(w, "\nPolicy Iteration Avg Reward:  %.2f (sd %.2f over %d episodes)\n", pi.Reward.Mean, pi.Reward.StdDev, pi.Reward.Episodes)
	fmt.Fprintf(w, "Value Iteration Avg Reward:   %.2f (sd %.2f over %d episodes)\n", vi.Reward.Mean, vi.Reward.StdDev, vi.Reward.Episodes)
	fmt.Fprintf(w, "Reward Difference:            %.2f\n", math.Abs(pi.Reward.Mean-vi.Reward.Mean))

	fmt.Fprintln(w, "\nSOLUTION QUALITY")
	rule(w, 40)
	fmt.Fprintf(w, "Value Function Difference:    %.6f\n", r.ValueDiff)
	fmt.Fprintf(w, "Policy Differences:           %d actions differ\n", r.PolicyDiff)
	fmt.Fprintf(w, "Policy Match:                 %d / %d states\n", r.Agreement(), len(r.States))

	width := 20
	for _, s := range r.States {
		if len(s) > width {
			width = len(s)
		}
	}

	fmt.Fprintln(w, "\nPOLICY COMPARISON")
	rule(w, width+40)
	fmt.Fprintf(w, "%-*s %-15s %-15s %s\n", width, "State", "Policy Iter", "Value Iter", "Match")
	rule(w, width+40)
	for _, s := range r.States {
		pa, va := pi.Result.Policy[s], vi.Result.Policy[s]
		match := "yes"
		if pa != va {
			match = "no"
		}
		fmt.Fprintf(w, "%-*s %-15s %-15s %s\n", width, s, pa, va, match)
	}

	fmt.Fprintln(w, "\nVALUE FUNCTIONS (Top 5)")
	rule(w, width+45)
	fmt.Fprintf(w, "%-*s %-15s %-15s %s\n", width, "State", "Policy Iter", "Value Iter", "Difference")
	rule(w, width+45)
	for _, s := range r.topStates(5) {
		pv, vv := pi.Result.Values[s], vi.Result.Values[s]
		fmt.Fprintf(w, "%-*s %-15.3f %-15.3f %.6f\n", width, s, pv, vv, math.Abs(pv-vv))
	}

	fmt.Fprintln(w, "\nCONVERGENCE")
	rule(w, 40)
	longest := math.Max(pi.Time, vi.Time)
	fmt.Fprintf(w, "Policy Iteration:  %s %.4fs\n", bar(pi.Time/longest), pi.Time)
	fmt.Fprintf(w, "Value Iteration:   %s %.4fs\n", bar(vi.Time/longest), vi.Time)
	if n := len(r.States); n > 0 {
		fmt.Fprintf(w, "\nPolicy Agreement:  %s %d/%d\n", bar(float64(r.Agreement())/float64(n)), r.Agreement(), n)
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

// topStates by policy iteration value, highest first, ties in enumeration
// order.
func (r *Report) topStates(k int) []mdp.State {
	states := append([]mdp.State(nil), r.States...)
	values := r.PolicyIteration.Result.Values
	sort.SliceStable(states, func(i, j int) bool {
		return values[states[i]] > values[states[j]]
	})
	if len(states) > k {
		states = states[:k]
	}
	return states
}

// Record writes the report as comparison.json and the value history of each
// algorithm as one JSON line per iteration under dir.
func (r *Report) Record(dir string) error {
	if err := util.WriteJSON(path.Join(dir, "comparison.json"), r); err != nil {
		return err
	}
	for _, o := range []Outcome{r.PolicyIteration, r.ValueIteration} {
		file := path.Join(dir, "history", string(o.Result.Algorithm)+".jsonl")
		if err := util.WriteToFile(file); err != nil {
			return err
		}
		if err := util.AppendJSONLines(file, o.Result.History); err != nil {
			return err
		}
	}
	return nil
}
