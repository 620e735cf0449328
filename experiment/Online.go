package experiment

import (
	"fmt"

	"github.com/rlfisheries/onefish/agent"
	env "github.com/rlfisheries/onefish/environment"
	"github.com/rlfisheries/onefish/experiment/checkpointer"
	"github.com/rlfisheries/onefish/experiment/tracker"
	ts "github.com/rlfisheries/onefish/timestep"
	"gonum.org/v1/gonum/mat"
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps      uint
	currentSteps  uint
	episodes      int
	trackers      []tracker.Tracker
	checkpointers []checkpointer.Checkpointer

	// OnEpisode, if not nil, is called after each finished episode with
	// the number of episodes and steps run so far
	OnEpisode func(episodes int, steps uint)
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many timesteps the experiment is run for, and the t parameter
// determines what data is tracked.
func NewOnline(e env.Environment, a agent.Agent, steps uint,
	t ...tracker.Tracker) *Online {
	return &Online{
		Environment: e,
		Agent:       a,
		maxSteps:    steps,
		trackers:    t,
	}
}

// Register registers a tracker.Tracker with the experiment
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// AddCheckpointer registers a checkpointer.Checkpointer with the
// experiment
func (o *Online) AddCheckpointer(c checkpointer.Checkpointer) {
	o.checkpointers = append(o.checkpointers, c)
}

// RunEpisode runs a single episode of the experiment. It returns
// whether the step limit of the experiment has been reached.
func (o *Online) RunEpisode() (bool, error) {
	step := o.Environment.Reset()
	o.Agent.ObserveFirst(step)
	o.track(step)

	for !step.Last() && o.currentSteps < o.maxSteps {
		o.currentSteps++

		// Select action, step in environment
		action := o.Agent.SelectAction(step)
		o.trackAction(action)
		step, _ = o.Environment.Step(action)
		o.track(step)

		// Observe the timestep and step the agent
		o.Agent.Observe(action, step)
		o.Agent.Step()

		if err := o.checkpoint(step); err != nil {
			return true, fmt.Errorf("runEpisode: %w", err)
		}
	}

	if step.Last() {
		o.Agent.EndEpisode()
		o.episodes++
		if o.OnEpisode != nil {
			o.OnEpisode(o.episodes, o.currentSteps)
		}
	}

	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() error {
	for {
		ended, err := o.RunEpisode()
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		if ended {
			return nil
		}
	}
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// Steps returns the number of steps run so far
func (o *Online) Steps() uint {
	return o.currentSteps
}

// Episodes returns the number of episodes finished so far
func (o *Online) Episodes() int {
	return o.episodes
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tr := range o.trackers {
		tr.Track(t)
	}
}

// trackAction sends the selected action to each ActionTracker
func (o *Online) trackAction(a mat.Vector) {
	for _, tr := range o.trackers {
		if at, ok := tr.(tracker.ActionTracker); ok {
			at.TrackAction(a)
		}
	}
}

func (o *Online) checkpoint(t ts.TimeStep) error {
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(t); err != nil {
			return err
		}
	}
	return nil
}
