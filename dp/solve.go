package dp

import (
	"context"
	"strings"

	"github.com/zeu5/mdp-dp/mdp"
)

// ParseAlgorithm accepts the full algorithm names and the short forms pi and
// vi.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch strings.ToLower(s) {
	case "pi", string(AlgorithmPolicyIteration):
		return AlgorithmPolicyIteration, nil
	case "vi", string(AlgorithmValueIteration):
		return AlgorithmValueIteration, nil
	}
	return "", mdp.Misconfigured("unknown algorithm %q", s)
}

// Solve runs the named algorithm.
func Solve(ctx context.Context, m *mdp.Model, alg Algorithm, opts ...Option) (*Result, error) {
	switch alg {
	case AlgorithmPolicyIteration:
		return PolicyIterationContext(ctx, m, opts...)
	case AlgorithmValueIteration:
		return ValueIterationContext(ctx, m, opts...)
	}
	return nil, mdp.Misconfigured("unknown algorithm %q", alg)
}
