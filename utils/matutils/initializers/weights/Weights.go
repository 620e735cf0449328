// Package weights implements initializers for the weights of linear
// function approximators
package weights

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Initializer initializes weights
type Initializer interface {
	Initialize(weights *mat.VecDense) // initializes weights
}

// UV initializes every weight independently with a draw from a
// univariate distribution
type UV struct {
	distuv.Rander
}

// NewUV creates and returns a new UV initializer
func NewUV(rand distuv.Rander) UV {
	if rand == nil {
		panic("newUV: rand cannot be nil")
	}
	return UV{rand}
}

// Initialize initializes a vector of weights using values drawn from
// the initializer's distribution
func (u UV) Initialize(weights *mat.VecDense) {
	if weights == nil {
		return
	}
	for i := 0; i < weights.Len(); i++ {
		weights.SetVec(i, u.Rand())
	}
}

// Constant initializes all weights to the same value
type Constant float64

// Initialize sets all weights to c
func (c Constant) Initialize(weights *mat.VecDense) {
	if weights == nil {
		return
	}
	for i := 0; i < weights.Len(); i++ {
		weights.SetVec(i, float64(c))
	}
}

// Zero initializes all weights to 0
var Zero Initializer = Constant(0)
