// Package policy implements hand-written harvest rules. Each rule is
// an agent.Predictor which takes the stock in natural units and returns
// a harvest effort in [0, 1].
package policy

import (
	"fmt"

	"github.com/rlfisheries/onefish/utils/floatutils"
	"gonum.org/v1/gonum/mat"
)

// Fixed harvests the same fraction of the stock on every step
type Fixed struct {
	effort float64
}

// NewFixed returns a new Fixed policy with the given effort. The effort
// is clipped to [0, 1].
func NewFixed(effort float64) *Fixed {
	return &Fixed{floatutils.Clip(effort, 0, 1)}
}

// Predict returns the fixed effort, regardless of obs
func (f *Fixed) Predict(_ mat.Vector) *mat.VecDense {
	return mat.NewVecDense(1, []float64{f.effort})
}

// Effort returns the effort of the policy
func (f *Fixed) Effort() float64 {
	return f.effort
}

func (f *Fixed) String() string {
	return fmt.Sprintf("Fixed(effort: %v)", f.effort)
}
