package weights

import (
	"testing"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestInitializers(t *testing.T) {
	w := mat.NewVecDense(16, nil)

	Constant(0.5).Initialize(w)
	for i := 0; i < w.Len(); i++ {
		if w.AtVec(i) != 0.5 {
			t.Fatalf("constant: weight %d is %v", i, w.AtVec(i))
		}
	}

	Zero.Initialize(w)
	if mat.Sum(w) != 0 {
		t.Errorf("zero: weights sum to %v", mat.Sum(w))
	}

	src := rand.NewSource(1)
	NewUV(distuv.Uniform{Min: 1, Max: 2, Src: src}).Initialize(w)
	for i := 0; i < w.Len(); i++ {
		if w.AtVec(i) < 1 || w.AtVec(i) > 2 {
			t.Errorf("uniform: weight %d is %v", i, w.AtVec(i))
		}
	}

	// Nil weights are ignored
	Zero.Initialize(nil)
}
