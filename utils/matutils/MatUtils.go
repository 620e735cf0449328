// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Format formats a matrix for printing on a single line
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// VecFloorAt raises each element of a to at least the corresponding
// element of floor. It panics if the lengths differ.
func VecFloorAt(a *mat.VecDense, floor mat.Vector) {
	if a.Len() != floor.Len() {
		panic(fmt.Sprintf("vecFloorAt: lengths differ: %d and %d", a.Len(),
			floor.Len()))
	}
	for i := 0; i < a.Len(); i++ {
		a.SetVec(i, math.Max(a.AtVec(i), floor.AtVec(i)))
	}
}

// Affine maps x element-wise from the box [fromLow, fromLow+fromSpan]
// onto [toLow, toLow+toSpan], storing the result in dst
func Affine(dst *mat.VecDense, x, fromLow, fromSpan, toLow,
	toSpan mat.Vector) {
	dst.SubVec(x, fromLow)
	dst.DivElemVec(dst, fromSpan)
	dst.MulElemVec(dst, toSpan)
	dst.AddVec(dst, toLow)
}
