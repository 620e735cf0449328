package experiment

import (
	"github.com/rlfisheries/onefish/agent"
	"github.com/rlfisheries/onefish/environment/fishery"
	"github.com/rlfisheries/onefish/experiment/tracker"
	"gonum.org/v1/gonum/mat"
)

// Simulate runs a single evaluation episode of a harvest rule in a
// fishery and returns its trajectory along with the total reward.
//
// On each step the Predictor is given the stock in natural units and
// returns the harvest effort. Each row of the trajectory records the
// step number, the reward accumulated before the step, the effort, and
// the stock on which the effort was chosen. At most Horizon steps are
// taken, and the episode stops early if the fishery ends it.
//
// The fishery is reset at the start of the episode, so its random
// source continues from its current state.
func Simulate(pred agent.Predictor, f *fishery.OneFish) ([]tracker.Step,
	float64) {
	return simulate(pred, f, true)
}

// simulate runs one episode, recording rows only if timeseries is true
func simulate(pred agent.Predictor, f *fishery.OneFish,
	timeseries bool) ([]tracker.Step, float64) {
	var steps []tracker.Step
	if timeseries {
		steps = make([]tracker.Step, 0, f.Horizon())
	}

	episodeReward := 0.0
	step := f.Reset()
	for t := 0; t < f.Horizon(); t++ {
		population := f.PopulationUnits(step.Observation)
		action := pred.Predict(mat.NewVecDense(1, []float64{population}))

		if timeseries {
			steps = append(steps, tracker.Step{
				T:      t,
				Action: action.AtVec(0),
				Reward: episodeReward,
				X:      population,
			})
		}

		var last bool
		step, last = f.Step(action)
		episodeReward += step.Reward
		if last {
			break
		}
	}

	return steps, episodeReward
}
