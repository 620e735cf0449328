package fishery

import (
	"math"
	"testing"

	"golang.org/x/exp/rand"

	ts "github.com/rlfisheries/onefish/timestep"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const tol = 1e-12

// deterministic returns the configuration of the canonical noise-free
// fishery
func deterministic() Config {
	return Config{
		Horizon:           5,
		GrowthRate:        0.1,
		CarryingCapacity:  1.0,
		Volatility:        0.0,
		HarvestCost:       0.0,
		InitialPopulation: 0.8,
	}
}

func newOneFish(t testing.TB, c Config, seed uint64) (*OneFish, ts.TimeStep) {
	t.Helper()
	f, step, err := New(c, 1.0, seed)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return f, step
}

func action(a float64) *mat.VecDense {
	return mat.NewVecDense(1, []float64{a})
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.Horizon != 200 || c.GrowthRate != 0.1 || c.CarryingCapacity != 1.0 ||
		c.Volatility != 0.1 || c.HarvestCost != 0.0 ||
		c.InitialPopulation != 0.8 {
		t.Errorf("unexpected defaults: %v", c)
	}
	if c.Bound() != 2.0 {
		t.Errorf("bound: have %v want 2", c.Bound())
	}
	if err := c.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	invalid := []func(c *Config){
		func(c *Config) { c.Horizon = 0 },
		func(c *Config) { c.GrowthRate = 0 },
		func(c *Config) { c.CarryingCapacity = -1 },
		func(c *Config) { c.Volatility = -0.1 },
		func(c *Config) { c.HarvestCost = -1 },
		func(c *Config) { c.InitialPopulation = -0.5 },
	}

	for i, modify := range invalid {
		c := DefaultConfig()
		modify(&c)
		if _, _, err := New(c, 1.0, 1); err == nil {
			t.Errorf("config %d (%v): expected an error", i, c)
		}
	}
}

func TestSpecs(t *testing.T) {
	f, _ := newOneFish(t, DefaultConfig(), 1)

	as := f.ActionSpec()
	if as.LowerBound.AtVec(0) != 0 || as.UpperBound.AtVec(0) != 1 {
		t.Errorf("action spec: have [%v, %v] want [0, 1]",
			as.LowerBound.AtVec(0), as.UpperBound.AtVec(0))
	}
	os := f.ObservationSpec()
	if os.LowerBound.AtVec(0) != -1 || os.UpperBound.AtVec(0) != 1 {
		t.Errorf("observation spec: have [%v, %v] want [-1, 1]",
			os.LowerBound.AtVec(0), os.UpperBound.AtVec(0))
	}
	if f.Horizon() != DefaultHorizon {
		t.Errorf("horizon: have %v want %v", f.Horizon(), DefaultHorizon)
	}
}

// TestReset checks that the first observation is the initial
// population plus one normalized-unit noise draw from the seeded source
func TestReset(t *testing.T) {
	c := DefaultConfig()
	c.Volatility = 0.3

	for _, seed := range []uint64{0, 1, 42, 1234567} {
		f, step := newOneFish(t, c, seed)

		z := distuv.Normal{Mu: 0, Sigma: 1, Src: rand.NewSource(seed)}.Rand()
		want := StateUnits(c.InitialPopulation, c.Bound()) + c.Volatility*z

		if !step.First() || step.Number != 0 {
			t.Errorf("seed %d: reset step should be first with number 0, "+
				"have %v", seed, step)
		}
		if obs := step.Observation.AtVec(0); math.Abs(obs-want) > tol {
			t.Errorf("seed %d: observation have %v want %v", seed, obs, want)
		}

		pop := f.PopulationUnits(step.Observation)
		wantPop := math.Max(c.InitialPopulation+z*c.Volatility*c.Bound()/2, 0)
		if math.Abs(pop-wantPop) > tol {
			t.Errorf("seed %d: population have %v want %v", seed, pop, wantPop)
		}
		if pop < 0 {
			t.Errorf("seed %d: negative population %v", seed, pop)
		}
	}
}

func TestResetSeedReproducible(t *testing.T) {
	c := DefaultConfig()
	c.Volatility = 0.5

	f1, _ := newOneFish(t, c, 7)
	f2, _ := newOneFish(t, c, 99)

	first1 := f1.ResetSeed(2021)
	first2 := f2.ResetSeed(2021)
	if first1.Observation.AtVec(0) != first2.Observation.AtVec(0) {
		t.Fatalf("reset with equal seeds: %v != %v",
			first1.Observation.AtVec(0), first2.Observation.AtVec(0))
	}

	for i := 0; i < 50; i++ {
		s1, _ := f1.Step(action(0.3))
		s2, _ := f2.Step(action(0.3))
		if s1.Observation.AtVec(0) != s2.Observation.AtVec(0) ||
			s1.Reward != s2.Reward {
			t.Fatalf("step %d: trajectories diverged", i+1)
		}
	}
}

func TestResetObservationNotClipped(t *testing.T) {
	c := DefaultConfig()
	c.InitialPopulation = 2 * c.CarryingCapacity // state 1
	c.Volatility = 1.0

	above := false
	for seed := uint64(0); seed < 32; seed++ {
		_, step := newOneFish(t, c, seed)
		if step.Observation.AtVec(0) > MaxObservation {
			above = true
			break
		}
	}
	if !above {
		t.Errorf("expected some reset observation above %v", MaxObservation)
	}
}

// TestCanonical checks the noise-free regression trajectory with a
// constant effort of 0.2
func TestCanonical(t *testing.T) {
	f, step := newOneFish(t, deterministic(), 0)

	if obs := step.Observation.AtVec(0); math.Abs(obs-(-0.2)) > tol {
		t.Fatalf("reset observation: have %v want -0.2", obs)
	}

	want := []struct {
		reward     float64
		population float64
		state      float64
		last       bool
	}{
		{0.16000000000000003, 0.66304, -0.33696000000000004, false},
		{0.132608, 0.5553393893376, -0.44466061066240004, false},
		{0.11106787786752, 0.46896094502669705, -0.531039054973303, false},
		{0.09379218900533942, 0.3986104720740321, -0.6013895279259679, false},
		{0.07972209441480643, 0.34060823568453497, -0.659391764315465, false},
		{0.06812164713690701, 0.2923103533085584, -0.7076896466914415, true},
	}

	for i, w := range want {
		step, last := f.Step(action(0.2))

		if step.Number != i+1 {
			t.Errorf("step %d: number %d", i+1, step.Number)
		}
		if math.Abs(step.Reward-w.reward) > tol {
			t.Errorf("step %d: reward have %v want %v", i+1, step.Reward,
				w.reward)
		}
		if pop := f.Population(); math.Abs(pop-w.population) > tol {
			t.Errorf("step %d: population have %v want %v", i+1, pop,
				w.population)
		}
		if obs := step.Observation.AtVec(0); math.Abs(obs-w.state) > tol {
			t.Errorf("step %d: state have %v want %v", i+1, obs, w.state)
		}
		if last != w.last || step.Last() != w.last {
			t.Errorf("step %d: last have %v want %v", i+1, last, w.last)
		}
		if step.Truncated() {
			t.Errorf("step %d: steps should never be truncated", i+1)
		}
	}
}

func TestTermination(t *testing.T) {
	for _, horizon := range []int{1, 5, 200} {
		c := DefaultConfig()
		c.Horizon = horizon
		f, _ := newOneFish(t, c, 3)

		for i := 1; i <= horizon; i++ {
			if step, last := f.Step(action(0.1)); last || step.Last() {
				t.Fatalf("horizon %d: episode ended early on step %d",
					horizon, i)
			}
		}

		step, last := f.Step(action(0.1))
		if !last || !step.Terminated() {
			t.Errorf("horizon %d: step %d should terminate", horizon,
				horizon+1)
		}
	}
}

func TestZeroEffort(t *testing.T) {
	c := deterministic()
	c.Horizon = 50
	f, _ := newOneFish(t, c, 0)

	for i := 0; i < c.Horizon; i++ {
		before := f.Population()
		step, _ := f.Step(action(0))

		if step.Reward != 0 {
			t.Errorf("step %d: reward have %v want 0", i+1, step.Reward)
		}
		want := Grow(before, c.GrowthRate, c.CarryingCapacity, 0, 0)
		if pop := f.Population(); math.Abs(pop-want) > tol {
			t.Errorf("step %d: population have %v want %v", i+1, pop, want)
		}
	}

	// Logistic growth without harvest approaches the carrying capacity
	if math.Abs(f.Population()-c.CarryingCapacity) > 0.05 {
		t.Errorf("population %v should approach %v", f.Population(),
			c.CarryingCapacity)
	}
}

func TestFullHarvest(t *testing.T) {
	c := DefaultConfig()
	c.HarvestCost = 0.05
	c.Volatility = 0.4
	f, _ := newOneFish(t, c, 11)

	before := f.Population()
	step, _ := f.Step(action(1))

	if want := before - c.HarvestCost; math.Abs(step.Reward-want) > tol {
		t.Errorf("reward have %v want %v", step.Reward, want)
	}
	if f.Population() != 0 {
		t.Errorf("population after full harvest: have %v want 0",
			f.Population())
	}
	if obs := step.Observation.AtVec(0); obs != -1 {
		t.Errorf("state after full harvest: have %v want -1", obs)
	}

	// Nothing left to harvest, so only the cost remains
	step, _ = f.Step(action(1))
	if want := -c.HarvestCost; math.Abs(step.Reward-want) > tol {
		t.Errorf("reward on empty stock: have %v want %v", step.Reward, want)
	}
}

func TestActionClipping(t *testing.T) {
	tests := []struct {
		action, clipped float64
	}{
		{-0.5, 0},
		{-1, 0},
		{1.7, 1},
		{math.Inf(1), 1},
		{0.4, 0.4},
	}

	for _, test := range tests {
		c := DefaultConfig()
		c.HarvestCost = 0.1

		f1, _ := newOneFish(t, c, 5)
		f2, _ := newOneFish(t, c, 5)

		s1, _ := f1.Step(action(test.action))
		s2, _ := f2.Step(action(test.clipped))

		if s1.Reward != s2.Reward ||
			s1.Observation.AtVec(0) != s2.Observation.AtVec(0) {
			t.Errorf("action %v should behave like %v", test.action,
				test.clipped)
		}
	}
}

func TestCostMakesRewardNegative(t *testing.T) {
	c := deterministic()
	c.InitialPopulation = 0.01
	c.HarvestCost = 1.0
	f, _ := newOneFish(t, c, 0)

	step, _ := f.Step(action(0.5))
	want := 0.5*0.01 - 0.5
	if math.Abs(step.Reward-want) > tol {
		t.Errorf("reward have %v want %v", step.Reward, want)
	}
}

// TestNonNegativePopulation checks that no sequence of legal actions
// drives the stock negative, even under extreme noise
func TestNonNegativePopulation(t *testing.T) {
	c := DefaultConfig()
	c.Volatility = 3.0
	c.GrowthRate = 2.5
	c.Horizon = 1000
	f, _ := newOneFish(t, c, 17)

	src := rand.NewSource(23)
	effort := distuv.Uniform{Min: 0, Max: 1, Src: src}

	for i := 0; i < c.Horizon; i++ {
		step, _ := f.Step(action(effort.Rand()))
		if pop := f.PopulationUnits(step.Observation); pop < 0 {
			t.Fatalf("step %d: negative population %v", i+1, pop)
		}
		if obs := step.Observation.AtVec(0); obs < MinObservation {
			t.Fatalf("step %d: state %v below %v", i+1, obs, MinObservation)
		}
	}
}

func TestStepPanicsOnWrongDims(t *testing.T) {
	f, _ := newOneFish(t, DefaultConfig(), 1)

	defer func() {
		if recover() == nil {
			t.Errorf("expected a panic for a 2-dimensional action")
		}
	}()
	f.Step(mat.NewVecDense(2, []float64{0.1, 0.2}))
}

func TestResetAfterTermination(t *testing.T) {
	c := deterministic()
	c.Horizon = 2
	f, _ := newOneFish(t, c, 0)

	for {
		if _, last := f.Step(action(0.5)); last {
			break
		}
	}

	step := f.Reset()
	if !step.First() || step.Number != 0 {
		t.Errorf("reset after termination: have %v", step)
	}
	if pop := f.Population(); math.Abs(pop-c.InitialPopulation) > tol {
		t.Errorf("population after reset: have %v want %v", pop,
			c.InitialPopulation)
	}
	if step, last := f.Step(action(0.5)); last || step.Number != 1 {
		t.Errorf("first step after reset: have %v", step)
	}
}

func TestUnitConversions(t *testing.T) {
	bound := 2.0

	states := floats.Span(make([]float64, 41), -1, 3)
	for _, s := range states {
		got := StateUnits(PopulationUnits(s, bound), bound)
		if math.Abs(got-s) > tol {
			t.Errorf("round trip of %v: have %v", s, got)
		}
	}

	if got := PopulationUnits(-1.5, bound); got != 0 {
		t.Errorf("population below -1 should clip to 0, have %v", got)
	}
	if got := StateUnits(-0.3, bound); got != -1 {
		t.Errorf("negative population should map to -1, have %v", got)
	}

	efforts := floats.Span(make([]float64, 11), 0, 1)
	for _, e := range efforts {
		a := EffortToAction(e)
		if a < -1 || a > 1 {
			t.Errorf("action %v out of [-1, 1]", a)
		}
		if got := ActionToEffort(a); math.Abs(got-e) > tol {
			t.Errorf("effort round trip of %v: have %v", e, got)
		}
	}
}

func TestYieldTask(t *testing.T) {
	task := NewYield(2, 0.25, 10)
	state := mat.NewVecDense(1, []float64{0}) // population 1.0

	reward := task.GetReward(state, action(0.5), nil)
	if math.Abs(reward-(0.5-0.125)) > tol {
		t.Errorf("reward have %v want %v", reward, 0.5-0.125)
	}
	if task.Min() != -0.25 || !math.IsInf(task.Max(), 1) {
		t.Errorf("reward bounds: have [%v, %v]", task.Min(), task.Max())
	}
}

func BenchmarkStep(b *testing.B) {
	f, _ := newOneFish(b, DefaultConfig(), 1)
	a := action(0.1)

	for i := 0; i < b.N; i++ {
		if _, last := f.Step(a); last {
			f.Reset()
		}
	}
}
