// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType denotes why an episode ended. Terminal episodes ended because
// the environment reached a terminal condition, Timeout episodes were
// cut off externally. Only Last steps carry a meaningful EndType.
type EndType int

const (
	Unended EndType = iota
	Terminal
	Timeout
)

func (e EndType) String() string {
	switch e {
	case Terminal:
		return "Terminal"
	case Timeout:
		return "Timeout"
	default:
		return "Unended"
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType
	EndType
	Reward      float64
	Discount    float64
	Observation *mat.VecDense
	Number      int
}

// New returns a new TimeStep. The EndType is Unended until an Ender
// marks the step as the last in the episode.
func New(t StepType, r, d float64, o *mat.VecDense, n int) TimeStep {
	return TimeStep{
		StepType:    t,
		EndType:     Unended,
		Reward:      r,
		Discount:    d,
		Observation: o,
		Number:      n,
	}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd marks the TimeStep as the last in its episode with end type e
func (t *TimeStep) SetEnd(e EndType) {
	t.StepType = Last
	t.EndType = e
}

// Terminated returns whether the episode ended in a terminal state
func (t *TimeStep) Terminated() bool {
	return t.Last() && t.EndType == Terminal
}

// Truncated returns whether the episode was cut off before reaching a
// terminal state
func (t *TimeStep) Truncated() bool {
	return t.Last() && t.EndType == Timeout
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.4f  |  Discount: %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number)
}

// Transition packages together the SARSA tuple (S, A, R, S', A') of a
// single environment transition
type Transition struct {
	State      *mat.VecDense
	Action     *mat.VecDense
	Reward     float64
	Discount   float64
	NextState  *mat.VecDense
	NextAction *mat.VecDense
}

// NewTransition returns the Transition from step to nextStep when
// action was taken in step and nextAction will be taken in nextStep
func NewTransition(step TimeStep, action *mat.VecDense, nextStep TimeStep,
	nextAction *mat.VecDense) Transition {
	return Transition{
		State:      step.Observation,
		Action:     action,
		Reward:     nextStep.Reward,
		Discount:   nextStep.Discount,
		NextState:  nextStep.Observation,
		NextAction: nextAction,
	}
}
