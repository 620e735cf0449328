package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// SpecType determines what kind of specification a Spec is. A Spec can
// specify the layout of an acion, an observation, a discount, or a reward
type SpecType int

const (
	Action SpecType = iota
	Observation
	Discount
	Reward
)

func (s SpecType) String() string {
	switch s {
	case Action:
		return "Action"
	case Observation:
		return "Observation"
	case Discount:
		return "Discount"
	default:
		return "Reward"
	}
}

// Cardinality determines the cardinality of a number (discrete or continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec implements an environment specification, which tells the type,
// shape, and bounds of an action, observation, discount, or reward in
// an environment
type Spec struct {
	Shape      *mat.VecDense
	Type       SpecType
	LowerBound *mat.VecDense
	UpperBound *mat.VecDense
	Cardinality
}

// NewSpec constructs a new environment specification
// The shape argument outlines the shape of the data described by the
// specification. The argument t outlines what the specification is
// describing (e.g. actions, observations, etc.). The cardinality
// arguments describes whether the values that the spec describes are
// continuous or discrete.
func NewSpec(shape *mat.VecDense, t SpecType, lowerBound,
	upperBound *mat.VecDense, cardinality Cardinality) Spec {
	if shape.Len() != lowerBound.Len() {
		panic(fmt.Sprintf("shape length %v must match lower bounds length %v",
			shape.Len(), lowerBound.Len()))
	}
	if shape.Len() != upperBound.Len() {
		panic(fmt.Sprintf("shape length %v must match upper bounds length %v",
			shape.Len(), upperBound.Len()))
	}
	return Spec{shape, t, lowerBound, upperBound, cardinality}
}

// NewBoxSpec returns a continuous 1-dimensional Spec bounded by
// [min, max]
func NewBoxSpec(t SpecType, min, max float64) Spec {
	shape := mat.NewVecDense(1, nil)
	lower := mat.NewVecDense(1, []float64{min})
	upper := mat.NewVecDense(1, []float64{max})

	return NewSpec(shape, t, lower, upper, Continuous)
}

// Contains returns whether v lies within the bounds of the Spec.
//
// Environments declare bounds but do not necessarily enforce them on
// their observations, so callers should not assume Contains holds for
// every observation they receive.
func (s Spec) Contains(v mat.Vector) bool {
	if v.Len() != s.Shape.Len() {
		return false
	}
	for i := 0; i < v.Len(); i++ {
		if v.AtVec(i) < s.LowerBound.AtVec(i) ||
			v.AtVec(i) > s.UpperBound.AtVec(i) {
			return false
		}
	}
	return true
}

func (s Spec) String() string {
	return fmt.Sprintf("%v Spec  |  %v  |  low: %v  |  high: %v", s.Type,
		s.Cardinality, mat.Formatted(s.LowerBound.T()),
		mat.Formatted(s.UpperBound.T()))
}
