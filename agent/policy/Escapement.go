package policy

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Escapement harvests the stock down to a target escapement. Stocks at
// or below the target are left alone, so the effort is
//
//	max(population - escapement, 0) / population
type Escapement struct {
	escapement float64
}

// NewEscapement returns a new Escapement policy with the given target
// escapement in natural units
func NewEscapement(escapement float64) (*Escapement, error) {
	if escapement < 0 {
		return nil, fmt.Errorf("newEscapement: escapement must be "+
			"non-negative, have %v", escapement)
	}
	return &Escapement{escapement}, nil
}

// Predict returns the effort which leaves the target escapement of the
// stock obs, given in natural units
func (e *Escapement) Predict(obs mat.Vector) *mat.VecDense {
	population := obs.AtVec(0)
	if population <= 0 {
		return mat.NewVecDense(1, []float64{0})
	}

	harvest := math.Max(population-e.escapement, 0)
	return mat.NewVecDense(1, []float64{harvest / population})
}

// Escapement returns the target escapement of the policy
func (e *Escapement) Escapement() float64 {
	return e.escapement
}

func (e *Escapement) String() string {
	return fmt.Sprintf("Escapement(target: %v)", e.escapement)
}
