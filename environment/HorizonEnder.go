package environment

import ts "github.com/rlfisheries/onefish/timestep"

// HorizonEnder implements the Ender interface to end episodes once
// they run past a fixed horizon.
//
// An episode is ended on the first TimeStep whose Number exceeds the
// horizon, so an environment stepped exactly horizon times from a reset
// is never ended; the episode ends on step horizon+1.
type HorizonEnder struct {
	horizon int
}

// NewHorizonEnder creates and returns a new HorizonEnder
func NewHorizonEnder(horizon int) *HorizonEnder {
	return &HorizonEnder{horizon}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended End() marks the timestep as the last in the episode
// with end type timestep.Terminal.
func (h *HorizonEnder) End(t *ts.TimeStep) bool {
	if t.Number > h.horizon {
		t.SetEnd(ts.Terminal)
		return true
	}
	return false
}

// Horizon returns the horizon of the HorizonEnder
func (h *HorizonEnder) Horizon() int {
	return h.horizon
}
