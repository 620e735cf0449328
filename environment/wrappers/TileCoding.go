// Package wrappers provides wrappers for environments
package wrappers

import (
	"fmt"

	env "github.com/rlfisheries/onefish/environment"
	ts "github.com/rlfisheries/onefish/timestep"
	"github.com/rlfisheries/onefish/utils/floatutils"
	"github.com/rlfisheries/onefish/utils/matutils/tilecoder"
	"gonum.org/v1/gonum/mat"
)

// TileCoding wraps an environment and returns tile-coded observations.
// The tilings cover the declared observation bounds of the wrapped
// environment. Observations outside these bounds are coded into the
// outermost tiles. All tile-coded representations contain a bias unit
// as the first feature.
//
// TileCoding itself implements the environment.Environment interface
// and is therefore itself an environment.
type TileCoding struct {
	env.Environment
	coder *tilecoder.TileCoder
}

// NewTileCoding creates and returns a new TileCoding environment,
// wrapping an existing environment. The wrapped environment is reset
// and the tile-coded first step is returned.
//
// The tiles parameter specifies both how many tilings to use as well
// as the number of tiles per tiling. The length of the outer slice is
// the number of tilings. The lengths of the inner slices are the
// number of tiles per dimension for that tiling.
//
// See tilecoder.TileCoder for more details.
func NewTileCoding(e env.Environment, tiles [][]int,
	seed uint64) (*TileCoding, ts.TimeStep) {
	obsSpec := e.ObservationSpec()
	coder := tilecoder.New(obsSpec.LowerBound, obsSpec.UpperBound, tiles,
		seed, true)

	t := &TileCoding{e, coder}
	return t, t.Reset()
}

// Reset resets the environment to some starting state
func (t *TileCoding) Reset() ts.TimeStep {
	return t.encode(t.Environment.Reset())
}

// ResetSeed reseeds the wrapped environment and resets it. It panics
// if the wrapped environment cannot be seeded.
func (t *TileCoding) ResetSeed(seed uint64) ts.TimeStep {
	seeder, ok := t.Environment.(env.Seeder)
	if !ok {
		panic(fmt.Sprintf("resetSeed: environment %T cannot be seeded",
			t.Environment))
	}
	return t.encode(seeder.ResetSeed(seed))
}

// Step takes one environmental step given action a and returns the next
// state as a timestep.TimeStep and a bool indicating whether or not the
// episode has ended
func (t *TileCoding) Step(a *mat.VecDense) (ts.TimeStep, bool) {
	step, last := t.Environment.Step(a)
	return t.encode(step), last
}

// LastTimeStep returns the last TimeStep that occurred in the
// environment, with a tile-coded observation
func (t *TileCoding) LastTimeStep() ts.TimeStep {
	return t.encode(t.Environment.LastTimeStep())
}

// Horizon returns the horizon of the wrapped environment, or 0 if it
// has none
func (t *TileCoding) Horizon() int {
	if h, ok := t.Environment.(env.Horizoner); ok {
		return h.Horizon()
	}
	return 0
}

// Encode returns the tile-coded representation of an observation of
// the wrapped environment
func (t *TileCoding) Encode(obs mat.Vector) *mat.VecDense {
	return t.coder.Encode(obs)
}

func (t *TileCoding) encode(step ts.TimeStep) ts.TimeStep {
	step.Observation = t.Encode(step.Observation)
	return step
}

// ObservationSpec returns the observation specification of the
// environment
func (t *TileCoding) ObservationSpec() env.Spec {
	length := t.coder.VecLength()
	shape := mat.NewVecDense(length, nil)
	lowerBound := mat.NewVecDense(length, nil)
	upperBound := mat.NewVecDense(length, floatutils.Ones(length))

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Discrete)
}

// String returns a string representation of the TileCoding environment
func (t *TileCoding) String() string {
	return fmt.Sprintf("TileCoding(%v): %v", t.coder, t.Environment)
}
