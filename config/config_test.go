package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/zeu5/mdp-dp/dp"
	"github.com/zeu5/mdp-dp/mdp"
)

const coinYAML = `
name: coin
discount: ${COIN_DISCOUNT}
start: Tails
states: [Heads, Tails, End]
actions: [Flip, Stop]
legal_actions:
  End: [Stop]
transitions:
  Heads:
    Flip: {Heads: 0.5, Tails: 0.5}
    Stop: {End: 1}
  Tails:
    Flip: {Heads: 0.5, Tails: 0.5}
    Stop: {End: 1}
  End:
    Stop: {End: 1}
rewards:
  Heads: {Flip: 1, Stop: 0}
  Tails: {Flip: 0, Stop: 0}
  End: {Stop: 0}
run:
  theta: 0.0001
  episodes: 10
`

const coinJSON = `{
  "states": ["A", "B"],
  "actions": ["Stay"],
  "transitions": {"A": {"Stay": {"A": 1}}, "B": {"Stay": {"B": 1}}},
  "rewards": {"A": {"Stay": 1}, "B": {"Stay": 0}}
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	t.Setenv("COIN_DISCOUNT", "0.5")
	spec, err := NewLoader().LoadModelFile(writeFile(t, "coin.yaml", coinYAML))
	if err != nil {
		t.Fatalf("LoadModelFile() error = %v", err)
	}
	m, err := spec.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if m.Name() != "coin" || m.Discount() != 0.5 || m.NumStates() != 3 {
		t.Errorf("model = %s gamma %v, %d states", m.Name(), m.Discount(), m.NumStates())
	}
	if got := m.LegalActions("End"); len(got) != 1 || got[0] != "Stop" {
		t.Errorf("LegalActions(End) = %v", got)
	}
	if start, err := spec.StartState(m); err != nil || start != "Tails" {
		t.Errorf("StartState() = %q, %v", start, err)
	}
	if spec.Run == nil || spec.Run.Theta != 0.0001 || spec.Run.Episodes != 10 {
		t.Errorf("Run = %+v", spec.Run)
	}
}

func TestLoadJSONDefaults(t *testing.T) {
	spec, err := NewLoader().LoadModelFile(writeFile(t, "geometric.json", coinJSON))
	if err != nil {
		t.Fatal(err)
	}
	if spec.Name != "geometric" {
		t.Errorf("Name = %q, want the file name", spec.Name)
	}
	m, err := spec.Build()
	if err != nil {
		t.Fatal(err)
	}
	if m.Discount() != DefaultDiscount {
		t.Errorf("Discount() = %v", m.Discount())
	}
	if start, _ := spec.StartState(m); start != "A" {
		t.Errorf("StartState() = %q, want first state", start)
	}
}

func TestLoadErrors(t *testing.T) {
	l := NewLoader()
	if _, err := l.LoadModelFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing file: error = %v", err)
	}
	if _, err := l.LoadModelFile(writeFile(t, "model.toml", "")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("toml: error = %v", err)
	}
	if _, err := l.LoadModelFile(t.TempDir() + "/"); err == nil {
		t.Error("directory accepted")
	}
	_, err := l.LoadString("states: [A\n", FormatYAML)
	if !errors.Is(err, ErrInvalidFormat) || !errors.Is(err, mdp.ErrModelValidation) {
		t.Errorf("broken yaml: error = %v", err)
	}

	strict := &Loader{ExpandEnv: true, StrictEnv: true}
	if _, err := strict.LoadString("name: $MDP_DP_UNSET_VARIABLE", FormatYAML); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("strict env: error = %v", err)
	}
}

func TestBuildRejectsBadRows(t *testing.T) {
	spec, err := NewLoader().LoadString(`
states: [A]
actions: [Go]
transitions: {A: {Go: {A: 0.7}}}
rewards: {A: {Go: 1}}
`, FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	var verr *mdp.ValidationError
	if _, err := spec.Build(); !errors.As(err, &verr) || verr.Kind != mdp.ErrModelValidation {
		t.Errorf("Build() error = %v", err)
	}

	spec.Start = "Z"
	spec.Transitions["A"]["Go"]["A"] = 1
	m, err := spec.Build()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := spec.StartState(m); !errors.Is(err, mdp.ErrConfiguration) {
		t.Errorf("StartState() error = %v", err)
	}
}

func TestRunConfig(t *testing.T) {
	c := DefaultRunConfig()
	if err := c.Validate(); err != nil {
		t.Fatalf("default Validate() error = %v", err)
	}
	merged := c.Merge(RunConfig{Theta: 1e-6, Workers: 4})
	if merged.Theta != 1e-6 || merged.Workers != 4 || merged.Episodes != c.Episodes {
		t.Errorf("Merge() = %+v", merged)
	}
	if sc := merged.Simulation(); sc.Episodes != c.Episodes || sc.Horizon != c.Horizon {
		t.Errorf("Simulation() = %+v", sc)
	}
	if len(merged.SolveOptions()) != 4 {
		t.Errorf("SolveOptions() = %d options", len(merged.SolveOptions()))
	}

	bad := c
	bad.Theta = 0
	if err := bad.Validate(); !errors.Is(err, dp.ErrInvalidThreshold) {
		t.Errorf("theta 0: error = %v", err)
	}
	bad = c
	bad.Horizon = -1
	if err := bad.Validate(); !errors.Is(err, mdp.ErrConfiguration) {
		t.Errorf("negative horizon: error = %v", err)
	}
}
