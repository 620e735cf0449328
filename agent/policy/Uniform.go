package policy

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Uniform selects efforts uniformly at random from [0, 1]
type Uniform struct {
	dist distuv.Uniform
}

// NewUniform returns a new Uniform policy
func NewUniform(seed uint64) *Uniform {
	src := rand.NewSource(seed)
	return &Uniform{distuv.Uniform{Min: 0, Max: 1, Src: src}}
}

// Predict returns a random effort, regardless of obs
func (u *Uniform) Predict(_ mat.Vector) *mat.VecDense {
	return mat.NewVecDense(1, []float64{u.dist.Rand()})
}

func (u *Uniform) String() string {
	return "Uniform(0, 1)"
}
