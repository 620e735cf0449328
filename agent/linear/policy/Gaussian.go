// Package policy implements linear continuous-action policies
package policy

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	env "github.com/rlfisheries/onefish/environment"
	ts "github.com/rlfisheries/onefish/timestep"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// StdOffset is added to the standard deviation of the policy so that
// it never collapses to 0
const StdOffset float64 = 1e-3

const (
	// Keys for the weights map: map[string]*mat.VecDense
	MeanWeightsKey string = "mean"
	StdWeightsKey  string = "standard deviation"
)

// Gaussian implements a linear Gaussian policy over 1-dimensional
// actions. The mean of the policy is linear in the features and the
// log of its standard deviation is linear in the features:
//
//	μ(s) = θ_μ · s
//	σ(s) = exp(θ_σ · s) + StdOffset
//
// In evaluation mode the policy acts greedily, selecting the mean.
type Gaussian struct {
	meanWeights *mat.VecDense
	stdWeights  *mat.VecDense
	normal      distuv.Normal
	eval        bool
}

// NewGaussian creates a new Gaussian policy for environment e, with all
// weights initialized to 0
func NewGaussian(seed uint64, e env.Environment) (*Gaussian, error) {
	if dims := e.ActionSpec().Shape.Len(); dims != 1 {
		return nil, fmt.Errorf("newGaussian: actions must be "+
			"1-dimensional, have %d", dims)
	}
	features := e.ObservationSpec().Shape.Len()

	return &Gaussian{
		meanWeights: mat.NewVecDense(features, nil),
		stdWeights:  mat.NewVecDense(features, nil),
		normal: distuv.Normal{
			Mu:    0,
			Sigma: 1,
			Src:   rand.NewSource(seed),
		},
	}, nil
}

// Mean gets the mean of the policy given some state observation obs
func (g *Gaussian) Mean(obs mat.Vector) float64 {
	return mat.Dot(g.meanWeights, obs)
}

// Std gets the standard deviation of the policy given some state
// observation obs
func (g *Gaussian) Std(obs mat.Vector) float64 {
	return math.Exp(mat.Dot(g.stdWeights, obs)) + StdOffset
}

// SelectAction selects an action from the policy for a given timestep
func (g *Gaussian) SelectAction(t ts.TimeStep) *mat.VecDense {
	mean := g.Mean(t.Observation)
	if g.eval {
		return mat.NewVecDense(1, []float64{mean})
	}

	action := mean + g.Std(t.Observation)*g.normal.Rand()
	return mat.NewVecDense(1, []float64{action})
}

// Eval sets the policy to evaluation mode
func (g *Gaussian) Eval() {
	g.eval = true
}

// Train sets the policy to training mode
func (g *Gaussian) Train() {
	g.eval = false
}

// IsEval returns whether the policy is in evaluation mode
func (g *Gaussian) IsEval() bool {
	return g.eval
}

// Weights returns the weights of the policy. The returned weights are
// shared with the policy, so changes to them change the policy.
func (g *Gaussian) Weights() map[string]*mat.VecDense {
	return map[string]*mat.VecDense{
		MeanWeightsKey: g.meanWeights,
		StdWeightsKey:  g.stdWeights,
	}
}

// SetWeights replaces the weights of the policy
func (g *Gaussian) SetWeights(weights map[string]*mat.VecDense) error {
	for _, key := range []string{MeanWeightsKey, StdWeightsKey} {
		w, ok := weights[key]
		if !ok {
			return fmt.Errorf("setWeights: no weights named \"%v\"", key)
		}
		if w.Len() != g.meanWeights.Len() {
			return fmt.Errorf("setWeights: %v weights should have %d "+
				"features, have %d", key, g.meanWeights.Len(), w.Len())
		}
	}

	g.meanWeights = weights[MeanWeightsKey]
	g.stdWeights = weights[StdWeightsKey]
	return nil
}
