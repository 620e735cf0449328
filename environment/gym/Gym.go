// Package gym adapts environments to the reset/step calling convention
// of Gymnasium-style reinforcement learning frameworks.
//
// Frameworks of this kind exchange plain float slices rather than
// TimeSteps, report termination and truncation separately, and pass an
// info map alongside every observation. Env provides exactly this
// surface over any environment.Environment, so that a training loop
// written against it need not know about TimeSteps at all.
package gym

import (
	"fmt"

	env "github.com/rlfisheries/onefish/environment"
	"gonum.org/v1/gonum/mat"
)

// Box describes a bounded continuous space, one bound per dimension
type Box struct {
	Low  []float64
	High []float64
}

// NewBox returns the Box with the bounds of s
func NewBox(s env.Spec) Box {
	return Box{
		Low:  mat.Col(nil, 0, s.LowerBound),
		High: mat.Col(nil, 0, s.UpperBound),
	}
}

// Shape returns the number of dimensions of the Box
func (b Box) Shape() int {
	return len(b.Low)
}

// Contains returns whether x lies within the bounds of the Box
func (b Box) Contains(x []float64) bool {
	if len(x) != len(b.Low) {
		return false
	}
	for i := range x {
		if x[i] < b.Low[i] || x[i] > b.High[i] {
			return false
		}
	}
	return true
}

func (b Box) String() string {
	return fmt.Sprintf("Box(low: %v, high: %v)", b.Low, b.High)
}

// Env wraps an environment.Environment in a Gymnasium-style interface.
//
// Like the environment it wraps, Env is not safe for concurrent use.
type Env struct {
	env.Environment
}

// New returns a new Env wrapping e
func New(e env.Environment) *Env {
	return &Env{e}
}

// Reset starts a new episode and returns its first observation along
// with an info map. If seed is not nil, the random source of the
// wrapped environment is reseeded first, in which case the wrapped
// environment must implement environment.Seeder.
func (g *Env) Reset(seed *uint64) ([]float64, map[string]any) {
	if seed == nil {
		step := g.Environment.Reset()
		return obsSlice(step.Observation), map[string]any{}
	}

	seeder, ok := g.Environment.(env.Seeder)
	if !ok {
		panic(fmt.Sprintf("reset: environment %T cannot be seeded",
			g.Environment))
	}
	step := seeder.ResetSeed(*seed)
	return obsSlice(step.Observation), map[string]any{}
}

// Step takes one step in the wrapped environment with the given action.
// It returns the next observation, the reward for the transition,
// whether the episode terminated, whether it was truncated, and an
// info map.
func (g *Env) Step(action []float64) (obs []float64, reward float64,
	terminated, truncated bool, info map[string]any) {
	a := mat.NewVecDense(len(action), append([]float64(nil), action...))
	step, _ := g.Environment.Step(a)

	return obsSlice(step.Observation), step.Reward, step.Terminated(),
		step.Truncated(), map[string]any{}
}

// ActionSpace returns the space of legal actions
func (g *Env) ActionSpace() Box {
	return NewBox(g.ActionSpec())
}

// ObservationSpace returns the declared space of observations.
// Observations are not guaranteed to lie within it.
func (g *Env) ObservationSpace() Box {
	return NewBox(g.ObservationSpec())
}

// Horizon returns the maximum number of steps in an episode of the
// wrapped environment, or 0 if the environment has no fixed horizon
func (g *Env) Horizon() int {
	if h, ok := g.Environment.(env.Horizoner); ok {
		return h.Horizon()
	}
	return 0
}

// Unwrap returns the wrapped environment
func (g *Env) Unwrap() env.Environment {
	return g.Environment
}

// obsSlice copies an observation into a new slice so that callers may
// modify it freely
func obsSlice(obs *mat.VecDense) []float64 {
	return mat.Col(nil, 0, obs)
}
