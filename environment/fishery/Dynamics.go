package fishery

// Harvest removes a fraction effort of the population. It returns the
// escapement (the population left after harvest) and the amount
// harvested.
func Harvest(population, effort float64) (escapement, harvest float64) {
	harvest = effort * population
	escapement = population - harvest
	return escapement, harvest
}

// Grow applies one step of stochastic logistic growth to population:
//
//	X' = X + r X (1 - X/K) + σ X z
//
// where z is a standard normal draw. The result is not clipped and may
// be negative for large noise.
func Grow(population, r, K, sigma, z float64) float64 {
	return population + (r*population*(1-population/K) +
		sigma*population*z)
}
