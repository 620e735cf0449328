// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"

	"gonum.org/v1/gonum/spatial/r1"
)

// Clip returns value limited to the closed interval [min, max]
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// ClipInterval limits value to the closed interval
func ClipInterval(value float64, interval r1.Interval) float64 {
	return Clip(value, interval.Min, interval.Max)
}

// NonNegative clips value to [0, +Inf)
func NonNegative(value float64) float64 {
	return Clip(value, 0, math.Inf(1))
}

// Ones returns a slice of n 1.0's
func Ones(n int) []float64 {
	ones := make([]float64, n)
	for i := range ones {
		ones[i] = 1.0
	}
	return ones
}
