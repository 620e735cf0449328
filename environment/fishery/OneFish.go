// Package fishery implements a single-species fishery environment.
//
// A fish stock grows logistically with multiplicative noise. On each
// step, an agent chooses what fraction of the stock to harvest and is
// rewarded for the harvest, less the cost of its effort. Harvest
// happens before growth.
//
// The environment stores only a normalized state in [-1, 1]. The stock
// in natural units is always recovered from it through the affine map
//
//	population = max((state + 1) * bound / 2, 0)
//
// where bound is twice the carrying capacity.
package fishery

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/exp/rand"

	env "github.com/rlfisheries/onefish/environment"
	ts "github.com/rlfisheries/onefish/timestep"
	"github.com/rlfisheries/onefish/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	ActionDims      int = 1
	ObservationDims int = 1

	MinAction      float64 = 0.0
	MaxAction      float64 = 1.0
	MinObservation float64 = -1.0
	MaxObservation float64 = 1.0
)

// OneFish implements a single-species fishery with stochastic logistic
// growth.
//
// Actions are continuous and 1-dimensional: the fraction of the current
// stock to harvest, bounded by [0, 1] = [MinAction, MaxAction]. Actions
// outside of this range are clipped to stay within it.
//
// Observations are continuous and 1-dimensional: the normalized stock.
// The declared observation bounds are [-1, 1], but observations are
// not clipped to them. Noise added at reset can push an observation
// outside of these bounds, and any stock above twice the carrying
// capacity maps above 1.
//
// Noise enters in normalized units at reset and in natural units on
// each step.
//
// OneFish is not safe for concurrent use.
//
// OneFish implements the environment.Environment interface
type OneFish struct {
	env.Task
	config       Config
	bound        float64
	actionBounds r1.Interval
	obsBounds    r1.Interval
	discount     float64

	state    float64
	lastStep ts.TimeStep

	seed  uint64
	noise distuv.Normal
}

// New creates and returns a new OneFish environment along with the
// first timestep of its first episode
func New(c Config, discount float64, seed uint64) (*OneFish,
	ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	task := NewYield(c.Bound(), c.HarvestCost, c.Horizon)

	f := &OneFish{
		Task:         task,
		config:       c,
		bound:        c.Bound(),
		actionBounds: r1.Interval{Min: MinAction, Max: MaxAction},
		obsBounds:    r1.Interval{Min: MinObservation, Max: MaxObservation},
		discount:     discount,
		noise:        distuv.Normal{Mu: 0, Sigma: 1},
	}
	firstStep := f.ResetSeed(seed)

	return f, firstStep, nil
}

// Reset resets the environment to the start of a new episode and
// returns the first timestep of the episode.
//
// The initial population is converted to normalized units and a single
// Gaussian perturbation with standard deviation equal to the volatility
// is added to it. The resulting observation is not clipped.
func (f *OneFish) Reset() ts.TimeStep {
	f.state = StateUnits(f.config.InitialPopulation, f.bound)
	f.state += f.config.Volatility * f.noise.Rand()

	startStep := ts.New(ts.First, 0, f.discount, f.observation(), 0)
	f.lastStep = startStep

	return startStep
}

// ResetSeed reseeds the random source of the environment and then
// resets the environment
func (f *OneFish) ResetSeed(seed uint64) ts.TimeStep {
	f.seed = seed
	f.noise.Src = rand.NewSource(seed)
	return f.Reset()
}

// Step takes one environmental step given action a and returns the next
// timestep as a timestep.TimeStep and a bool indicating whether or not
// the episode has ended. Actions are 1-dimensional and continuous,
// consisting of the fraction of the stock to harvest. Actions outside
// the legal range of [0, 1] are clipped to stay within this range.
//
// The episode ends on the first step whose number exceeds the horizon.
// The returned TimeStep is never truncated.
func (f *OneFish) Step(a *mat.VecDense) (ts.TimeStep, bool) {
	// Ensure action is 1-dimensional
	if a.Len() != ActionDims {
		panic(fmt.Sprintf("step: actions should be %d-dimensional, have %d",
			ActionDims, a.Len()))
	}

	effort := floatutils.ClipInterval(a.AtVec(0), f.actionBounds)
	action := mat.NewVecDense(ActionDims, []float64{effort})
	state := f.observation()

	// Harvest, then recruit from the escapement
	population := f.Population()
	escapement, _ := Harvest(population, effort)
	population = Grow(escapement, f.config.GrowthRate,
		f.config.CarryingCapacity, f.config.Volatility, f.noise.Rand())

	f.state = StateUnits(population, f.bound)
	nextState := f.observation()

	// The reward is the harvest taken from state, which is pre-harvest
	reward := f.GetReward(state, action, nextState)
	nextStep := ts.New(ts.Mid, reward, f.discount, nextState,
		f.lastStep.Number+1)

	// Check if the step is the last in the episode and adjust step type
	// if necessary
	f.End(&nextStep)

	f.lastStep = nextStep
	return nextStep, nextStep.Last()
}

// observation returns the current observation, which is the
// normalized state itself
func (f *OneFish) observation() *mat.VecDense {
	return mat.NewVecDense(ObservationDims, []float64{f.state})
}

// Population returns the current stock in natural units
func (f *OneFish) Population() float64 {
	return PopulationUnits(f.state, f.bound)
}

// PopulationUnits converts an observation of the environment into a
// stock in natural units
func (f *OneFish) PopulationUnits(obs mat.Vector) float64 {
	return PopulationUnits(obs.AtVec(0), f.bound)
}

// StateUnits converts a stock in natural units into an observation of
// the environment
func (f *OneFish) StateUnits(population float64) *mat.VecDense {
	return mat.NewVecDense(ObservationDims,
		[]float64{StateUnits(population, f.bound)})
}

// EffortUnits converts an action in [-1, 1] into a harvest effort in
// [0, 1], the action space of the environment
func (f *OneFish) EffortUnits(action float64) float64 {
	return ActionToEffort(action)
}

// Horizon returns the maximum number of steps in an episode
func (f *OneFish) Horizon() int {
	return f.config.Horizon
}

// Config returns the configuration of the environment
func (f *OneFish) Config() Config {
	return f.config
}

// Bound returns the span of natural units mapped onto the observation
// range
func (f *OneFish) Bound() float64 {
	return f.bound
}

// Seed returns the seed the random source was last seeded with
func (f *OneFish) Seed() uint64 {
	return f.seed
}

// LastTimeStep returns the last TimeStep that occurred in the
// environment
func (f *OneFish) LastTimeStep() ts.TimeStep {
	return f.lastStep
}

// ActionSpec returns the action specification of the environment
func (f *OneFish) ActionSpec() env.Spec {
	return env.NewBoxSpec(env.Action, f.actionBounds.Min,
		f.actionBounds.Max)
}

// ObservationSpec returns the observation specification of the
// environment
func (f *OneFish) ObservationSpec() env.Spec {
	return env.NewBoxSpec(env.Observation, f.obsBounds.Min,
		f.obsBounds.Max)
}

// DiscountSpec returns the discount specification of the environment
func (f *OneFish) DiscountSpec() env.Spec {
	return env.NewBoxSpec(env.Discount, f.discount, f.discount)
}

// String converts the environment to a string representation
func (f *OneFish) String() string {
	str := "OneFish  |  t: %v  |  state: %.4f  |  population: %.4f\n"
	return fmt.Sprintf(str, f.lastStep.Number, f.state, f.Population())
}

// Render writes a text-based view of the current stock to w, with the
// bar filled in proportion to the stock's share of the natural-unit
// bound
func (f *OneFish) Render(w io.Writer) {
	width := 40
	share := floatutils.Clip(f.Population()/f.bound, 0, 1)
	filled := int(share * float64(width))

	var bar strings.Builder
	bar.WriteString("|")
	bar.WriteString(strings.Repeat("█", filled))
	bar.WriteString(strings.Repeat(" ", width-filled))
	bar.WriteString("|")

	fmt.Fprintf(w, "t: %4d  %s  %.4f\n", f.lastStep.Number, bar.String(),
		f.Population())
}
