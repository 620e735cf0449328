package tracker

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	ts "github.com/rlfisheries/onefish/timestep"
	"gonum.org/v1/gonum/mat"
)

// TrajectoryHeader is the header of the CSV files written by Trajectory
var TrajectoryHeader = []string{"t", "action", "reward", "X"}

// Step is one row of a trajectory: the action taken at timestep T, the
// return accumulated before that action, and the first component of
// the observation on which the action was taken
type Step struct {
	T      int
	Action float64
	Reward float64
	X      float64
}

// Trajectory tracks the most recent episode of an experiment and saves
// it as a CSV file with columns t, action, reward, X. The reward column
// is the return accumulated before the action on that row was taken.
//
// The last TimeStep of an episode has no action, so it produces no row.
type Trajectory struct {
	steps    []Step
	pending  *Step
	ret      float64
	filename string
}

// NewTrajectory returns a new Trajectory Tracker which saves its data
// at filename
func NewTrajectory(filename string) *Trajectory {
	return &Trajectory{filename: filename}
}

// Track records the observation of a TimeStep. A First TimeStep starts
// a new trajectory, discarding the previous one.
func (t *Trajectory) Track(step ts.TimeStep) {
	if step.First() {
		t.steps = t.steps[:0]
		t.ret = 0
	}
	t.ret += step.Reward

	if step.Last() {
		t.pending = nil
		return
	}
	t.pending = &Step{
		T:      step.Number,
		Reward: t.ret,
		X:      step.Observation.AtVec(0),
	}
}

// TrackAction records the action taken on the most recently tracked
// TimeStep
func (t *Trajectory) TrackAction(a mat.Vector) {
	if t.pending == nil {
		return
	}
	t.pending.Action = a.AtVec(0)
	t.steps = append(t.steps, *t.pending)
	t.pending = nil
}

// Steps returns the rows of the most recent trajectory
func (t *Trajectory) Steps() []Step {
	return append([]Step(nil), t.steps...)
}

// Save writes the most recent trajectory to disk as CSV
func (t *Trajectory) Save() error {
	file, err := os.Create(t.filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer file.Close()

	if err := WriteCSV(file, t.steps); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// WriteCSV writes steps to w as CSV, preceded by TrajectoryHeader
func WriteCSV(w io.Writer, steps []Step) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(TrajectoryHeader); err != nil {
		return fmt.Errorf("writeCSV: %w", err)
	}

	for _, s := range steps {
		record := []string{
			strconv.Itoa(s.T),
			strconv.FormatFloat(s.Action, 'g', -1, 64),
			strconv.FormatFloat(s.Reward, 'g', -1, 64),
			strconv.FormatFloat(s.X, 'g', -1, 64),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writeCSV: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ReadCSV reads steps written by WriteCSV
func ReadCSV(r io.Reader) ([]Step, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("readCSV: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("readCSV: missing header")
	}

	steps := make([]Step, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) != len(TrajectoryHeader) {
			return nil, fmt.Errorf("readCSV: row %d has %d fields, want %d",
				i+1, len(record), len(TrajectoryHeader))
		}

		var s Step
		if s.T, err = strconv.Atoi(record[0]); err != nil {
			return nil, fmt.Errorf("readCSV: row %d: %w", i+1, err)
		}
		values := []*float64{&s.Action, &s.Reward, &s.X}
		for j, v := range values {
			if *v, err = strconv.ParseFloat(record[j+1], 64); err != nil {
				return nil, fmt.Errorf("readCSV: row %d: %w", i+1, err)
			}
		}
		steps = append(steps, s)
	}
	return steps, nil
}
