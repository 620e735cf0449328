package commands

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rlfisheries/onefish/agent/linear/actorcritic"
	"github.com/rlfisheries/onefish/environment/envconfig"
	"github.com/rlfisheries/onefish/environment/fishery"
	"github.com/rlfisheries/onefish/environment/wrappers"
	"github.com/rlfisheries/onefish/experiment/tracker"
	"github.com/rlfisheries/onefish/utils/matutils/initializers/weights"
)

// deterministicConfig writes a noiseless fishery configuration to a
// temporary file and returns its path
func deterministicConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fishery.yaml")
	config := "horizon: 5\ngrowth_rate: 0.1\ncarrying_capacity: 1\n" +
		"volatility: 0\nharvest_cost: 0\ninitial_population: 0.8\n"
	if err := os.WriteFile(path, []byte(config), 0o644); err != nil {
		t.Fatalf("writeFile: %v", err)
	}
	return path
}

// run executes the root command with args and returns its output and
// error output
func run(t *testing.T, stdin string, args ...string) (string, string,
	error) {
	t.Helper()
	cmd := GetRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestSimulate(t *testing.T) {
	config := deterministicConfig(t)
	out, errOut, err := run(t, "", "simulate", "--config", config,
		"--effort", "0.2")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	steps, err := tracker.ReadCSV(strings.NewReader(out))
	if err != nil {
		t.Fatalf("readCSV: %v", err)
	}
	if len(steps) != 5 {
		t.Fatalf("steps: have %d want 5", len(steps))
	}
	if steps[1].Action != 0.2 || math.Abs(steps[1].X-0.66304) > 1e-12 {
		t.Errorf("step 1: have %+v", steps[1])
	}
	if !strings.Contains(errOut, "0.577190") {
		t.Errorf("summary: have %q, want total reward 0.577190", errOut)
	}
}

func TestSimulateToFile(t *testing.T) {
	config := deterministicConfig(t)
	path := filepath.Join(t.TempDir(), "trajectory.csv")
	out, _, err := run(t, "", "simulate", "--config", config,
		"--escapement", "0.5", "--horizon", "3", "--out", path)
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if out != "" {
		t.Errorf("nothing should be written to stdout, have %q", out)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()
	steps, err := tracker.ReadCSV(file)
	if err != nil {
		t.Fatalf("readCSV: %v", err)
	}
	if len(steps) != 3 || math.Abs(steps[0].Action-0.375) > 1e-12 {
		t.Errorf("steps: have %+v", steps)
	}
}

func TestSimulateRandom(t *testing.T) {
	config := deterministicConfig(t)
	first, _, err := run(t, "", "simulate", "--config", config, "--random",
		"--seed", "3")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	second, _, err := run(t, "", "simulate", "--config", config, "--random",
		"--seed", "3")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if first != second {
		t.Errorf("random harvests with the same seed differ")
	}

	steps, err := tracker.ReadCSV(strings.NewReader(first))
	if err != nil {
		t.Fatalf("readCSV: %v", err)
	}
	for _, s := range steps {
		if s.Action < 0 || s.Action > 1 {
			t.Errorf("step %d: effort %v outside [0, 1]", s.T, s.Action)
		}
	}
}

func TestSimulateErrors(t *testing.T) {
	config := deterministicConfig(t)
	tests := [][]string{
		{"simulate", "--config", config},
		{"simulate", "--config", config, "--effort", "0.1",
			"--escapement", "0.5"},
		{"simulate", "--config", config, "--effort", "1.5"},
		{"simulate", "--config", config, "--effort", "0.5", "--random"},
		{"simulate", "--config", config, "--escapement=-1"},
		{"simulate", "--config", config, "--effort", "0.1", "--horizon",
			"0"},
		{"simulate", "--config", config, "--effort", "0.1", "--weights",
			"weights.bin"},
		{"simulate", "--config", config, "--weights",
			filepath.Join(t.TempDir(), "missing.bin")},
	}
	for _, args := range tests {
		if _, _, err := run(t, "", args...); err == nil {
			t.Errorf("%v: expected an error", args)
		}
	}
}

func TestSweep(t *testing.T) {
	config := deterministicConfig(t)
	path := filepath.Join(t.TempDir(), "sweep.csv")
	out, _, err := run(t, "", "sweep", "--config", config, "--points", "11",
		"--reps", "1", "--out", path, "--quiet")
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if !strings.HasPrefix(out, "best effort: ") {
		t.Errorf("output: have %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("readFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 12 || lines[0] != "effort,mean_return,std_return" {
		t.Errorf("sweep file: have %q", lines)
	}
}

func TestPlay(t *testing.T) {
	config := deterministicConfig(t)
	path := filepath.Join(t.TempDir(), "play.csv")

	// Bad input is asked for again, and input ends after three efforts
	out, _, err := run(t, "0.2\nlots\n0.2\n0.2\n", "play", "--config",
		config, "--out", path, "--render")
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if !strings.Contains(out, `"lots" is not an effort`) {
		t.Errorf("output should reject bad input, have %q", out)
	}
	if !strings.Contains(out, "over 3 steps") {
		t.Errorf("output should report 3 steps, have %q", out)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer file.Close()
	steps, err := tracker.ReadCSV(file)
	if err != nil {
		t.Fatalf("readCSV: %v", err)
	}
	if len(steps) != 3 || math.Abs(steps[1].X-0.66304) > 1e-12 ||
		math.Abs(steps[2].Reward-0.292608) > 1e-12 {
		t.Errorf("steps: have %+v", steps)
	}
}

func TestTrain(t *testing.T) {
	config := deterministicConfig(t)
	dir := t.TempDir()
	returnsFile := filepath.Join(dir, "returns.bin")
	weightsFile := filepath.Join(dir, "weights.bin")
	trajectoryFile := filepath.Join(dir, "trajectory.csv")

	out, _, err := run(t, "", "train", "--config", config, "--steps", "60",
		"--tilings", "2", "--tiles", "4", "--eval", "2", "--checkpoint", "30",
		"--returns", returnsFile, "--weights", weightsFile,
		"--trajectory", trajectoryFile)
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if !strings.Contains(out, "greedy return over 2 episodes") {
		t.Errorf("output: have %q", out)
	}

	returns, err := tracker.LoadData(returnsFile)
	if err != nil {
		t.Fatalf("loadData: %v", err)
	}
	if len(returns) != 10 {
		t.Errorf("returns: have %d episodes want 10", len(returns))
	}

	for _, name := range []string{"weights.bin", "weights-1.bin",
		"weights-2.bin", "trajectory.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%v was not written: %v", name, err)
		}
	}

	// The saved weights can be loaded by an agent of the same shape
	c, err := envconfig.Load(config)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f, _, err := fishery.New(c.Config, c.Discount, 0)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	tc, _ := wrappers.NewTileCoding(f, [][]int{{4}, {4}}, 0)
	a, err := actorcritic.NewLinearGaussian(tc, actorcritic.DefaultConfig(),
		weights.Zero, 0)
	if err != nil {
		t.Fatalf("newLinearGaussian: %v", err)
	}
	if err := a.Load(weightsFile); err != nil {
		t.Errorf("load: %v", err)
	}
}

func TestTrainCheckpointNaming(t *testing.T) {
	config := deterministicConfig(t)
	dir := t.TempDir()
	weightsFile := filepath.Join(dir, "weights.bin")

	_, _, err := run(t, "", "train", "--config", config, "--steps", "60",
		"--tilings", "2", "--tiles", "4", "--eval", "0", "--checkpoint", "30",
		"--checkpoint-naming", "time", "--weights", weightsFile, "--quiet")
	if err != nil {
		t.Fatalf("train: %v", err)
	}

	checkpoints, err := filepath.Glob(filepath.Join(dir, "weights-*.bin"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(checkpoints) != 2 {
		t.Errorf("checkpoints: have %v want 2 files", checkpoints)
	}
	for _, name := range checkpoints {
		if strings.HasSuffix(name, "weights-1.bin") ||
			strings.HasSuffix(name, "weights-2.bin") {
			t.Errorf("checkpoint %v should be named by time", name)
		}
	}

	if _, _, err := run(t, "", "train", "--config", config, "--steps", "10",
		"--checkpoint-naming", "never", "--quiet"); err == nil {
		t.Errorf("expected an error for an unknown checkpoint naming")
	}
}

func TestTrainInitScale(t *testing.T) {
	config := deterministicConfig(t)
	if _, _, err := run(t, "", "train", "--config", config, "--steps", "10",
		"--tilings", "2", "--tiles", "4", "--eval", "1", "--init-scale",
		"0.05", "--quiet"); err != nil {
		t.Errorf("train: %v", err)
	}
	if _, _, err := run(t, "", "train", "--config", config, "--steps", "10",
		"--init-scale=-1", "--quiet"); err == nil {
		t.Errorf("expected an error for a negative init scale")
	}
}

func TestSimulateLearned(t *testing.T) {
	config := deterministicConfig(t)
	weightsFile := filepath.Join(t.TempDir(), "weights.bin")
	if _, _, err := run(t, "", "train", "--config", config, "--steps", "60",
		"--tilings", "2", "--tiles", "4", "--eval", "0", "--seed", "5",
		"--weights", weightsFile, "--quiet"); err != nil {
		t.Fatalf("train: %v", err)
	}

	out, errOut, err := run(t, "", "simulate", "--config", config,
		"--weights", weightsFile, "--tilings", "2", "--tiles", "4",
		"--seed", "5")
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}
	if !strings.Contains(errOut, "Learned(weights: ") {
		t.Errorf("summary: have %q", errOut)
	}
	steps, err := tracker.ReadCSV(strings.NewReader(out))
	if err != nil {
		t.Fatalf("readCSV: %v", err)
	}
	if len(steps) != 5 {
		t.Fatalf("steps: have %d want 5", len(steps))
	}

	// The first effort is the greedy action on the tile-coded initial
	// population
	c, err := envconfig.Load(config)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f, _, err := fishery.New(c.Config, c.Discount, 5)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	tc, _ := wrappers.NewTileCoding(f, [][]int{{4}, {4}}, 5)
	a, err := actorcritic.NewLinearGaussian(tc, actorcritic.DefaultConfig(),
		weights.Zero, 5)
	if err != nil {
		t.Fatalf("newLinearGaussian: %v", err)
	}
	if err := a.Load(weightsFile); err != nil {
		t.Fatalf("load: %v", err)
	}
	population := f.PopulationUnits(f.LastTimeStep().Observation)
	want := a.Mean(tc.Encode(f.StateUnits(population)))
	if math.Abs(steps[0].Action-want) > 1e-12 {
		t.Errorf("first effort: have %v want %v", steps[0].Action, want)
	}

	// Weights of another tile coding do not fit
	if _, _, err := run(t, "", "simulate", "--config", config,
		"--weights", weightsFile, "--seed", "5"); err == nil {
		t.Errorf("expected an error for weights of a different tiling")
	}
}

func TestTrainCheckpointNeedsWeights(t *testing.T) {
	config := deterministicConfig(t)
	if _, _, err := run(t, "", "train", "--config", config,
		"--checkpoint", "10"); err == nil {
		t.Errorf("expected an error for --checkpoint without --weights")
	}
}
