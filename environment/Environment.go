// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	ts "github.com/rlfisheries/onefish/timestep"
	"gonum.org/v1/gonum/mat"
)

// Ender determines whether a TimeStep ends its episode. When it does,
// End marks the TimeStep as the last in the episode.
type Ender interface {
	End(t *ts.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some
// environment, as well as the rule for ending episodes
type Task interface {
	Ender

	// GetReward returns the reward for taking action in state and
	// transitioning to nextState
	GetReward(state, action, nextState mat.Vector) float64

	// RewardSpec returns the reward specification of the Task
	RewardSpec() Spec
}

// Environment implements a simulated environment, which includes a Task
// to complete.
//
// Environments are not safe for concurrent use. Callers that explore in
// parallel must construct one Environment per goroutine.
type Environment interface {
	Reset() ts.TimeStep // Resets between episodes
	Step(action *mat.VecDense) (ts.TimeStep, bool)
	LastTimeStep() ts.TimeStep

	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}

// Seeder is an Environment whose random source can be reseeded at
// the start of an episode
type Seeder interface {
	Environment
	ResetSeed(seed uint64) ts.TimeStep
}

// Horizoner is an Environment with a fixed maximum number of steps per
// episode. Callers that build their own rollout loop use the horizon
// to bound it.
type Horizoner interface {
	Environment
	Horizon() int
}
