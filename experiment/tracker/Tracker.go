// Package tracker implements Trackers, which track and save data in an
// experiment
package tracker

import (
	"encoding/gob"
	"fmt"
	"os"

	ts "github.com/rlfisheries/onefish/timestep"
	"gonum.org/v1/gonum/mat"
)

// Tracker keeps track of experiment data and saves the data after the
// experiment has finished
type Tracker interface {
	Track(t ts.TimeStep)
	Save() error
}

// ActionTracker is a Tracker which also tracks the actions taken. An
// experiment calls TrackAction with the action selected on the most
// recently tracked TimeStep.
type ActionTracker interface {
	Tracker
	TrackAction(a mat.Vector)
}

// save gob encodes data to filename
func save(filename string, data interface{}) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(data); err != nil {
		return fmt.Errorf("save: could not encode data: %w", err)
	}
	return nil
}

// load gob decodes the data in filename into data
func load(filename string, data interface{}) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("load: could not open data file: %w", err)
	}
	defer file.Close()

	if err := gob.NewDecoder(file).Decode(data); err != nil {
		return fmt.Errorf("load: could not decode data: %w", err)
	}
	return nil
}

// LoadData loads and returns the episodic returns saved by a Return
// Tracker
func LoadData(filename string) ([]float64, error) {
	var data []float64
	err := load(filename, &data)
	return data, err
}

// LoadLengths loads and returns the episode lengths saved by an
// EpisodeLength Tracker
func LoadLengths(filename string) ([]int, error) {
	var data []int
	err := load(filename, &data)
	return data, err
}
