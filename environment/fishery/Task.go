package fishery

import (
	"math"

	env "github.com/rlfisheries/onefish/environment"
	"gonum.org/v1/gonum/mat"
)

// Yield implements a task where the agent is rewarded for the fish it
// harvests, less the cost of the effort spent harvesting. Episodes end
// once they run past a fixed horizon.
type Yield struct {
	*env.HorizonEnder
	bound float64
	cost  float64
}

// NewYield creates and returns a new Yield task for a fishery whose
// natural units span bound, with a per-unit-effort cost
func NewYield(bound, cost float64, horizon int) *Yield {
	return &Yield{env.NewHorizonEnder(horizon), bound, cost}
}

// GetReward returns the reward for harvesting with effort action in the
// normalized state. The action should already be clipped to [0, 1].
//
// The harvest, and not the net reward, is clipped to be non-negative,
// so costly effort can produce negative rewards.
func (y *Yield) GetReward(state, action, _ mat.Vector) float64 {
	population := PopulationUnits(state.AtVec(0), y.bound)
	effort := action.AtVec(0)
	_, harvest := Harvest(population, effort)

	return math.Max(harvest, 0) - y.cost*effort
}

// Min returns the minimum possible reward
func (y *Yield) Min() float64 {
	return -y.cost
}

// Max returns the maximum possible reward. Harvests are bounded only
// by the population, which is unbounded above.
func (y *Yield) Max() float64 {
	return math.Inf(1)
}

// RewardSpec returns the reward specification of the Task
func (y *Yield) RewardSpec() env.Spec {
	return env.NewBoxSpec(env.Reward, y.Min(), y.Max())
}
