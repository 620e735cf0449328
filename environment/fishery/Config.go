package fishery

import "fmt"

// Default model parameters
const (
	DefaultHorizon           int     = 200
	DefaultGrowthRate        float64 = 0.1
	DefaultCarryingCapacity  float64 = 1.0
	DefaultVolatility        float64 = 0.1
	DefaultHarvestCost       float64 = 0.0
	DefaultInitialPopulation float64 = 0.8
)

// Config holds the parameters of a single-species fishery. A Config is
// fixed for the lifetime of the environment constructed from it.
// Configs are JSON serializable.
type Config struct {
	// Horizon is the maximum number of steps in an episode
	Horizon int `json:"horizon" mapstructure:"horizon"`

	// GrowthRate is the intrinsic logistic growth rate r
	GrowthRate float64 `json:"growth_rate" mapstructure:"growth_rate"`

	// CarryingCapacity is the logistic carrying capacity K
	CarryingCapacity float64 `json:"carrying_capacity" mapstructure:"carrying_capacity"`

	// Volatility is the standard deviation σ of growth noise
	Volatility float64 `json:"volatility" mapstructure:"volatility"`

	// HarvestCost is subtracted from the reward per unit of effort
	HarvestCost float64 `json:"harvest_cost" mapstructure:"harvest_cost"`

	// InitialPopulation is the stock, in natural units, at the start of
	// each episode before any noise is applied
	InitialPopulation float64 `json:"initial_population" mapstructure:"initial_population"`
}

// DefaultConfig returns the default fishery configuration
func DefaultConfig() Config {
	return Config{
		Horizon:           DefaultHorizon,
		GrowthRate:        DefaultGrowthRate,
		CarryingCapacity:  DefaultCarryingCapacity,
		Volatility:        DefaultVolatility,
		HarvestCost:       DefaultHarvestCost,
		InitialPopulation: DefaultInitialPopulation,
	}
}

// Bound returns the span of natural units which is mapped onto the
// normalized [-1, 1] observation range
func (c Config) Bound() float64 {
	return 2 * c.CarryingCapacity
}

// Validate returns an error describing why the Config cannot be used
// to construct an environment, or nil if it can
func (c Config) Validate() error {
	if c.Horizon <= 0 {
		return fmt.Errorf("validate: horizon must be positive, have %d",
			c.Horizon)
	}
	if c.GrowthRate <= 0 {
		return fmt.Errorf("validate: growth rate must be positive, have %v",
			c.GrowthRate)
	}
	if c.CarryingCapacity <= 0 {
		return fmt.Errorf("validate: carrying capacity must be positive, "+
			"have %v", c.CarryingCapacity)
	}
	if c.Volatility < 0 {
		return fmt.Errorf("validate: volatility must be non-negative, "+
			"have %v", c.Volatility)
	}
	if c.HarvestCost < 0 {
		return fmt.Errorf("validate: harvest cost must be non-negative, "+
			"have %v", c.HarvestCost)
	}
	if c.InitialPopulation < 0 {
		return fmt.Errorf("validate: initial population must be "+
			"non-negative, have %v", c.InitialPopulation)
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("r: %v  |  K: %v  |  σ: %v  |  cost: %v  |  "+
		"initial population: %v  |  horizon: %v", c.GrowthRate,
		c.CarryingCapacity, c.Volatility, c.HarvestCost, c.InitialPopulation,
		c.Horizon)
}
