package wrappers

import (
	"fmt"

	env "github.com/rlfisheries/onefish/environment"
	ts "github.com/rlfisheries/onefish/timestep"
	"github.com/rlfisheries/onefish/utils/matutils"
	"gonum.org/v1/gonum/mat"
)

// Rescale wraps an environment and reports its observations in natural
// units. Each dimension of the declared observation bounds of the
// wrapped environment is mapped affinely onto [low, high], and the
// result is clipped below at low. Observations above the declared upper
// bound map above high and are not clipped. Actions pass through
// unchanged.
//
// Rescale lets people play in the units they think in while agents keep
// working with normalized observations.
type Rescale struct {
	env.Environment
	obsLow, obsSpan *mat.VecDense
	low, high, span *mat.VecDense
}

// NewRescale returns a new Rescale environment mapping the observation
// bounds of e onto [low, high]. The wrapped environment is not reset.
func NewRescale(e env.Environment, low, high *mat.VecDense) (*Rescale,
	error) {
	obsSpec := e.ObservationSpec()
	dims := obsSpec.Shape.Len()
	if low.Len() != dims || high.Len() != dims {
		return nil, fmt.Errorf("newRescale: bounds should have %d "+
			"dimensions, have %d and %d", dims, low.Len(), high.Len())
	}
	for i := 0; i < dims; i++ {
		if obsSpec.UpperBound.AtVec(i) <= obsSpec.LowerBound.AtVec(i) {
			return nil, fmt.Errorf("newRescale: observation dimension %d "+
				"has empty bounds", i)
		}
	}

	obsSpan := mat.NewVecDense(dims, nil)
	obsSpan.SubVec(obsSpec.UpperBound, obsSpec.LowerBound)
	span := mat.NewVecDense(dims, nil)
	span.SubVec(high, low)

	return &Rescale{
		Environment: e,
		obsLow:      obsSpec.LowerBound,
		obsSpan:     obsSpan,
		low:         low,
		high:        high,
		span:        span,
	}, nil
}

// Natural converts an observation of the wrapped environment into
// natural units
func (r *Rescale) Natural(obs mat.Vector) *mat.VecDense {
	natural := mat.NewVecDense(obs.Len(), nil)
	matutils.Affine(natural, obs, r.obsLow, r.obsSpan, r.low, r.span)
	matutils.VecFloorAt(natural, r.low)
	return natural
}

// Reset resets the environment to some starting state
func (r *Rescale) Reset() ts.TimeStep {
	return r.rescale(r.Environment.Reset())
}

// ResetSeed reseeds the wrapped environment and resets it. It panics
// if the wrapped environment cannot be seeded.
func (r *Rescale) ResetSeed(seed uint64) ts.TimeStep {
	seeder, ok := r.Environment.(env.Seeder)
	if !ok {
		panic(fmt.Sprintf("resetSeed: environment %T cannot be seeded",
			r.Environment))
	}
	return r.rescale(seeder.ResetSeed(seed))
}

// Step takes one environmental step given action a and returns the next
// state, in natural units, as a timestep.TimeStep and a bool indicating
// whether or not the episode has ended
func (r *Rescale) Step(a *mat.VecDense) (ts.TimeStep, bool) {
	step, last := r.Environment.Step(a)
	return r.rescale(step), last
}

// LastTimeStep returns the last TimeStep that occurred in the
// environment, with its observation in natural units
func (r *Rescale) LastTimeStep() ts.TimeStep {
	return r.rescale(r.Environment.LastTimeStep())
}

// Horizon returns the horizon of the wrapped environment, or 0 if it
// has none
func (r *Rescale) Horizon() int {
	if h, ok := r.Environment.(env.Horizoner); ok {
		return h.Horizon()
	}
	return 0
}

// ObservationSpec returns the observation specification of the
// environment in natural units
func (r *Rescale) ObservationSpec() env.Spec {
	shape := mat.NewVecDense(r.low.Len(), nil)
	return env.NewSpec(shape, env.Observation, r.low, r.high,
		env.Continuous)
}

func (r *Rescale) rescale(step ts.TimeStep) ts.TimeStep {
	step.Observation = r.Natural(step.Observation)
	return step
}

// String returns a string representation of the Rescale environment
func (r *Rescale) String() string {
	return fmt.Sprintf("Rescale: %v", r.Environment)
}
