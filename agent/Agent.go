// Package agent defines the interfaces of agents which act in, and
// learn from, environments
package agent

import (
	ts "github.com/rlfisheries/onefish/timestep"
	"gonum.org/v1/gonum/mat"
)

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns weights, and a Policy
// which chooses actions in each state. The Policy chooses which actions
// are taken, and the Learner uses these actions to update the Policy.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that defines how weights are
// updated.
//
// A Learner determines how weights are changed, and therefore how a
// Policy changes over time. The Learner and Policy of an Agent should
// share weights so that the Learner can use the transitions chosen by
// the Policy to update the weights appropriately.
type Learner interface {
	Step() // Performs an update
	Observe(action mat.Vector, nextStep ts.TimeStep)
	ObserveFirst(ts.TimeStep)
	EndEpisode()
}

// TdErrorer is a Learner that can return the TD error of some
// transition
type TdErrorer interface {
	Learner
	TdError(t ts.Transition) float64
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. In evaluation mode a
// Policy acts greedily and its Learner does not update.
type Policy interface {
	SelectAction(t ts.TimeStep) *mat.VecDense
	Eval()        // Set policy to evaluation mode
	Train()       // Set policy to training mode
	IsEval() bool // Indicates if in evaluation mode
}

// Predictor maps an observation directly to an action. Hand-written
// harvest rules are Predictors, and so is any Policy wrapped with
// NewPredictor.
type Predictor interface {
	Predict(obs mat.Vector) *mat.VecDense
}

// policyPredictor adapts a Policy to the Predictor interface
type policyPredictor struct {
	Policy
}

// NewPredictor returns a Predictor which selects actions using p. The
// Policy is switched to evaluation mode.
func NewPredictor(p Policy) Predictor {
	p.Eval()
	return policyPredictor{p}
}

// Predict returns the action selected by the Policy for a step with
// observation obs
func (p policyPredictor) Predict(obs mat.Vector) *mat.VecDense {
	o := mat.VecDenseCopyOf(obs)
	return p.SelectAction(ts.New(ts.Mid, 0, 1, o, 0))
}
