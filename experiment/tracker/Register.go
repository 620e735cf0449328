package tracker

import (
	env "github.com/rlfisheries/onefish/environment"
	ts "github.com/rlfisheries/onefish/timestep"
	"gonum.org/v1/gonum/mat"
)

// registeredTracker registers an Environment with some Tracker so
// that the Tracker tracks data from the registered Environment only.
// registeredTracker itself is a Tracker.
//
// This is useful when an experiment runs on an Environment wrapper but
// data from another view of the same environment should be tracked.
// For example, an agent may learn from tile-coded observations while a
// Trajectory records the stock in natural units through a
// wrappers.Rescale around the same fishery.
type registeredTracker struct {
	Tracker
	env env.Environment
}

// Register returns a Tracker which tracks the most recent TimeStep of e
// in place of the TimeSteps it is given. If t is an ActionTracker, so is
// the returned Tracker.
//
// Note: the underlying concrete type of the registered Tracker is
// lost when registering an Environment with a Tracker.
func Register(t Tracker, e env.Environment) Tracker {
	r := &registeredTracker{t, e}
	if a, ok := t.(ActionTracker); ok {
		return &registeredActionTracker{r, a}
	}
	return r
}

// Track calls Track() on the embedded Tracker using the most recent
// TimeStep from the registered Environment. The argument is ignored.
func (r *registeredTracker) Track(ts.TimeStep) {
	r.Tracker.Track(r.env.LastTimeStep())
}

type registeredActionTracker struct {
	*registeredTracker
	actions ActionTracker
}

func (r *registeredActionTracker) TrackAction(a mat.Vector) {
	r.actions.TrackAction(a)
}
