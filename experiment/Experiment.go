// Package experiment implements functionality for running experiments:
// online training of agents, evaluation rollouts of fixed harvest
// rules, and parallel sweeps over constant efforts.
package experiment

import (
	"github.com/rlfisheries/onefish/experiment/checkpointer"
	"github.com/rlfisheries/onefish/experiment/tracker"
)

// Experiment outlines structs that can run experiments. Experiments
// send each TimeStep to their Trackers, which cache the data to be
// saved to disk by Save once the experiment is over. Run runs episodes
// until the step limit of the experiment is reached, while RunEpisode
// runs a single episode.
type Experiment interface {
	Run() error
	RunEpisode() (bool, error) // Returns whether the step limit was reached

	// Save all tracked data to disk
	Save() error

	// Register adds a new tracker.Tracker to the (possibly already
	// running) experiment
	Register(t tracker.Tracker)

	// AddCheckpointer adds a checkpointer.Checkpointer to the
	// experiment
	AddCheckpointer(c checkpointer.Checkpointer)
}
