// Package actorcritic implements linear Actor-Critic algorithms
package actorcritic

import (
	"encoding/gob"
	"fmt"
	"os"

	"github.com/rlfisheries/onefish/agent"
	"github.com/rlfisheries/onefish/agent/linear/policy"
	env "github.com/rlfisheries/onefish/environment"
	ts "github.com/rlfisheries/onefish/timestep"
	"github.com/rlfisheries/onefish/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/mat"
)

// CriticWeightsKey is the key of the critic weights in the map
// returned by Weights
const CriticWeightsKey string = "critic"

// LinearGaussian implements the Linear-Gaussian Actor-Critic algorithm:
//
// https://hal.inria.fr/hal-00764281/PDF/DegrisACC2012.pdf
//
// This algorithm uses linear function approximation to learn both
// a linear state value function critic and a Gaussian policy actor
// over 1-dimensional actions. The algorithm uses eligibility traces
// for both actor and critic gradients.
//
// Features should be sparse and bounded, such as those produced by the
// wrappers.TileCoding environment.
type LinearGaussian struct {
	*policy.Gaussian

	step     ts.TimeStep
	action   mat.Vector
	nextStep ts.TimeStep

	criticWeights *mat.VecDense

	// Eligibility traces
	meanTrace   *mat.VecDense
	stdTrace    *mat.VecDense
	criticTrace *mat.VecDense

	actorLR      float64
	criticLR     float64
	decay        float64
	scaleActorLR bool
	seed         uint64
}

// NewLinearGaussian returns a new LinearGaussian. The weights of the
// actor and the critic are initialized using init. The eligibility
// traces are always initialized to 0.
func NewLinearGaussian(e env.Environment, c Config,
	init weights.Initializer, seed uint64) (*LinearGaussian, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newLinearGaussian: %w", err)
	}
	if e.ActionSpec().Cardinality != env.Continuous {
		return nil, fmt.Errorf("newLinearGaussian: actions must be " +
			"continuous")
	}

	p, err := policy.NewGaussian(seed, e)
	if err != nil {
		return nil, fmt.Errorf("newLinearGaussian: %w", err)
	}

	features := e.ObservationSpec().Shape.Len()
	criticWeights := mat.NewVecDense(features, nil)

	w := p.Weights()
	init.Initialize(w[policy.MeanWeightsKey])
	init.Initialize(w[policy.StdWeightsKey])
	init.Initialize(criticWeights)

	return &LinearGaussian{
		Gaussian:      p,
		criticWeights: criticWeights,
		meanTrace:     mat.NewVecDense(features, nil),
		stdTrace:      mat.NewVecDense(features, nil),
		criticTrace:   mat.NewVecDense(features, nil),
		actorLR:       c.ActorLearningRate,
		criticLR:      c.CriticLearningRate,
		decay:         c.Decay,
		scaleActorLR:  c.ScaleActorLR,
		seed:          seed,
	}, nil
}

// value returns the critic's estimate of the value of a timestep.
// Terminal timesteps have value 0.
func (l *LinearGaussian) value(t ts.TimeStep) float64 {
	if t.Terminated() {
		return 0
	}
	return mat.Dot(l.criticWeights, t.Observation)
}

// TdError computes the TD error of the algorithm at a given transition
func (l *LinearGaussian) TdError(t ts.Transition) float64 {
	stateValue := mat.Dot(l.criticWeights, t.State)
	nextStateValue := mat.Dot(l.criticWeights, t.NextState)

	return t.Reward + t.Discount*nextStateValue - stateValue
}

// Step updates the weights of the actor and the critic using the last
// observed transition
func (l *LinearGaussian) Step() {
	// If in evaluation mode or no action was observed, do not step
	if l.IsEval() || l.action == nil {
		return
	}

	state := l.step.Observation
	r := l.nextStep.Reward
	ℽ := l.nextStep.Discount
	δ := r + ℽ*l.value(l.nextStep) - l.value(l.step)

	// Update the critic
	l.criticTrace.AddScaledVec(state, ℽ*l.decay, l.criticTrace)
	l.criticWeights.AddScaledVec(l.criticWeights, l.criticLR*δ,
		l.criticTrace)

	// Gradients of the log-likelihood of the action
	mean := l.Mean(state)
	std := l.Std(state)
	diff := l.action.AtVec(0) - mean
	meanGradScale := diff / (std * std)
	stdGradScale := (diff*diff)/(std*std) - 1.0

	// Update the actor traces
	l.meanTrace.ScaleVec(ℽ*l.decay, l.meanTrace)
	l.meanTrace.AddScaledVec(l.meanTrace, meanGradScale, state)
	l.stdTrace.ScaleVec(ℽ*l.decay, l.stdTrace)
	l.stdTrace.AddScaledVec(l.stdTrace, stdGradScale, state)

	// Update the actor
	actorLR := l.actorLR
	if l.scaleActorLR {
		actorLR *= std * std
	}
	w := l.Weights()
	w[policy.MeanWeightsKey].AddScaledVec(w[policy.MeanWeightsKey],
		actorLR*δ, l.meanTrace)
	w[policy.StdWeightsKey].AddScaledVec(w[policy.StdWeightsKey],
		actorLR*δ, l.stdTrace)
}

// Observe records the previously selected action and the timestep
// that it led to
func (l *LinearGaussian) Observe(a mat.Vector, nextStep ts.TimeStep) {
	if a.Len() != 1 {
		panic(fmt.Sprintf("observe: actions should be 1-dimensional, "+
			"have %d", a.Len()))
	}
	l.step = l.nextStep
	l.action = a
	l.nextStep = nextStep
}

// ObserveFirst observes the first timestep in an episode
func (l *LinearGaussian) ObserveFirst(t ts.TimeStep) {
	if !t.First() {
		fmt.Fprintf(os.Stderr, "warning: ObserveFirst() called on %v "+
			"timestep\n", t.StepType)
	}
	l.step = ts.TimeStep{}
	l.action = nil
	l.nextStep = t
}

// EndEpisode resets the eligibility traces after an episode has
// completed
func (l *LinearGaussian) EndEpisode() {
	l.criticTrace.Zero()
	l.meanTrace.Zero()
	l.stdTrace.Zero()
}

// Value returns the critic's estimate of the value of observation obs
func (l *LinearGaussian) Value(obs mat.Vector) float64 {
	return mat.Dot(l.criticWeights, obs)
}

// Weights returns the weights of the actor and the critic
func (l *LinearGaussian) Weights() map[string]*mat.VecDense {
	w := l.Gaussian.Weights()
	w[CriticWeightsKey] = l.criticWeights
	return w
}

// SetWeights replaces the weights of the actor and the critic
func (l *LinearGaussian) SetWeights(w map[string]*mat.VecDense) error {
	critic, ok := w[CriticWeightsKey]
	if !ok {
		return fmt.Errorf("setWeights: no weights named \"%v\"",
			CriticWeightsKey)
	}
	if critic.Len() != l.criticWeights.Len() {
		return fmt.Errorf("setWeights: critic weights should have %d "+
			"features, have %d", l.criticWeights.Len(), critic.Len())
	}
	if err := l.Gaussian.SetWeights(w); err != nil {
		return fmt.Errorf("setWeights: %w", err)
	}
	l.criticWeights = critic
	return nil
}

// Save gob encodes the weights of the actor and the critic to filename
func (l *LinearGaussian) Save(filename string) error {
	data := make(map[string][]float64)
	for key, w := range l.Weights() {
		data[key] = mat.Col(nil, 0, w)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(data); err != nil {
		return fmt.Errorf("save: could not encode weights: %w", err)
	}
	return nil
}

// Load replaces the weights of the actor and the critic with those
// saved to filename by Save
func (l *LinearGaussian) Load(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("load: could not open weights file: %w", err)
	}
	defer file.Close()

	var data map[string][]float64
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return fmt.Errorf("load: could not decode weights: %w", err)
	}

	w := make(map[string]*mat.VecDense, len(data))
	for key, values := range data {
		if len(values) == 0 {
			return fmt.Errorf("load: empty %v weights", key)
		}
		w[key] = mat.NewVecDense(len(values), values)
	}
	if err := l.SetWeights(w); err != nil {
		return fmt.Errorf("load: %w", err)
	}
	return nil
}

// String returns a string representation of the agent
func (l *LinearGaussian) String() string {
	return fmt.Sprintf("LinearGaussian(actor lr: %v  |  critic lr: %v  |  "+
		"λ: %v  |  features: %d)", l.actorLR, l.criticLR, l.decay,
		l.criticWeights.Len())
}

// Ensure LinearGaussian satisfies the agent interfaces
var (
	_ agent.Agent     = &LinearGaussian{}
	_ agent.TdErrorer = &LinearGaussian{}
)

