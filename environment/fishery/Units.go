package fishery

import "github.com/rlfisheries/onefish/utils/floatutils"

// PopulationUnits converts a normalized state into a population in
// natural units. The population is clipped to be non-negative.
func PopulationUnits(state, bound float64) float64 {
	return floatutils.NonNegative((state + 1) * bound / 2)
}

// StateUnits converts a population in natural units into a normalized
// state. Negative populations are clipped to 0 before conversion, so
// the result is never below -1. It is the inverse of PopulationUnits
// for non-negative populations.
func StateUnits(population, bound float64) float64 {
	population = floatutils.NonNegative(population)
	return 2*population/bound - 1
}

// ActionToEffort converts an action in [-1, 1] into a harvest effort
// fraction in [0, 1]
func ActionToEffort(action float64) float64 {
	return (action + 1) / 2
}

// EffortToAction converts a harvest effort fraction in [0, 1] into an
// action in [-1, 1]
func EffortToAction(effort float64) float64 {
	return 2*effort - 1
}
