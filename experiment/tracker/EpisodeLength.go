package tracker

import ts "github.com/rlfisheries/onefish/timestep"

// EpisodeLength tracks and saves the lengths of episodes in an
// experiment.
//
// Note that an episode must finish for this Tracker to save its data.
type EpisodeLength struct {
	episodeLengths []int
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength Tracker which will save
// its data at the specified location filename
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{filename: filename}
}

// Track caches the episode length if the timestep passed to it is the
// last timestep in the episode
func (e *EpisodeLength) Track(t ts.TimeStep) {
	if t.Last() {
		e.episodeLengths = append(e.episodeLengths, t.Number)
	}
}

// Lengths returns the lengths of all episodes completed so far
func (e *EpisodeLength) Lengths() []int {
	return append([]int(nil), e.episodeLengths...)
}

// Save saves the data tracked by the EpisodeLength Tracker to disk
func (e *EpisodeLength) Save() error {
	return save(e.filename, e.episodeLengths)
}
