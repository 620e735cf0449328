// Package checkpointer implements periodic saving of learners during
// an experiment
package checkpointer

import (
	"fmt"
	"time"

	ts "github.com/rlfisheries/onefish/timestep"
)

// Saver is an object which can save itself to a file
type Saver interface {
	Save(filename string) error
}

// Checkpointer checkpoints/saves objects based on timestep.TimeSteps
type Checkpointer interface {
	Checkpoint(ts.TimeStep) error
}

// nStep implements checkpointing every N steps
type nStep struct {
	interval int
	steps    int
	object   Saver

	// filename returns the name of the file to save the next
	// checkpoint in. See FilenameEnumerator and FileTimer.
	filename func() string
}

// NewNStep returns a Checkpointer that saves object every n
// environmental steps, counted across episodes. First TimeSteps are
// not counted.
func NewNStep(n int, object Saver, filename func() string) Checkpointer {
	if n < 1 {
		panic(fmt.Sprintf("newNStep: interval must be positive, have %d", n))
	}
	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}
}

// Checkpoint saves the tracked object if the interval has elapsed
func (n *nStep) Checkpoint(t ts.TimeStep) error {
	if t.First() {
		return nil
	}

	n.steps++
	if n.steps%n.interval == 0 {
		if err := n.object.Save(n.filename()); err != nil {
			return fmt.Errorf("checkpoint: %w", err)
		}
	}
	return nil
}

// FilenameEnumerator returns a function which returns filenames with a
// counter suffix. Each call increments the counter, starting at
// start+1:
//
//	file1.bin, file2.bin, ..., fileK.bin
func FilenameEnumerator(start int, filename, extension string) func() string {
	i := start
	return func() string {
		i++
		return fmt.Sprintf("%v%v%v", filename, i, extension)
	}
}

// FileTimer returns a function which appends to a filename the number
// of nanoseconds since January 1, 1970
func FileTimer(filename, extension string) func() string {
	return func() string {
		return fmt.Sprintf("%v-%v%v", filename, time.Now().UnixNano(),
			extension)
	}
}
