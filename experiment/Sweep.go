package experiment

import (
	"context"
	"fmt"
	"sync"

	"github.com/rlfisheries/onefish/agent/policy"
	"github.com/rlfisheries/onefish/environment/fishery"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// SweepPoint is the outcome of repeatedly simulating one constant
// effort
type SweepPoint struct {
	Effort     float64
	MeanReturn float64
	StdReturn  float64
	Returns    []float64
}

// SweepResult is the outcome of a sweep over constant efforts
type SweepResult struct {
	Points []SweepPoint
	Best   SweepPoint // point with the highest mean return
}

// SweepConfig configures a constant-effort sweep
type SweepConfig struct {
	Fishery fishery.Config
	Efforts []float64
	Reps    int // episodes simulated per effort
	Seed    uint64

	// Workers limits the number of efforts simulated concurrently. If
	// not positive, all efforts are simulated concurrently.
	Workers int

	// OnDone, if not nil, is called after each effort has been
	// simulated. It may be called concurrently.
	OnDone func(p SweepPoint)
}

// Sweep searches for the constant harvest effort with the highest
// expected return, the maximum sustainable yield effort, by simulating
// each effort Reps times.
//
// Each effort is simulated in its own goroutine on its own fishery,
// seeded with Seed plus the index of the effort, so results do not
// depend on scheduling. Sweep stops early if ctx is cancelled.
func Sweep(ctx context.Context, c SweepConfig) (SweepResult, error) {
	if len(c.Efforts) == 0 {
		return SweepResult{}, fmt.Errorf("sweep: no efforts to sweep")
	}
	if c.Reps < 1 {
		return SweepResult{}, fmt.Errorf("sweep: reps must be positive, "+
			"have %d", c.Reps)
	}
	if err := c.Fishery.Validate(); err != nil {
		return SweepResult{}, fmt.Errorf("sweep: %w", err)
	}

	points := make([]SweepPoint, len(c.Efforts))
	g, ctx := errgroup.WithContext(ctx)
	if c.Workers > 0 {
		g.SetLimit(c.Workers)
	}
	var mu sync.Mutex

	for i, effort := range c.Efforts {
		i, effort := i, effort
		g.Go(func() error {
			f, _, err := fishery.New(c.Fishery, 1.0, c.Seed+uint64(i))
			if err != nil {
				return err
			}
			pred := policy.NewFixed(effort)

			returns := make([]float64, c.Reps)
			for rep := range returns {
				if err := ctx.Err(); err != nil {
					return err
				}
				_, returns[rep] = simulate(pred, f, false)
			}

			mean, std := stat.MeanStdDev(returns, nil)
			if c.Reps == 1 {
				std = 0
			}
			points[i] = SweepPoint{
				Effort:     effort,
				MeanReturn: mean,
				StdReturn:  std,
				Returns:    returns,
			}

			if c.OnDone != nil {
				mu.Lock()
				c.OnDone(points[i])
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return SweepResult{}, fmt.Errorf("sweep: %w", err)
	}

	best := points[0]
	for _, p := range points[1:] {
		if p.MeanReturn > best.MeanReturn {
			best = p
		}
	}
	return SweepResult{Points: points, Best: best}, nil
}

// Efforts returns n efforts evenly spaced over [0, 1]
func Efforts(n int) []float64 {
	switch {
	case n < 1:
		return nil
	case n == 1:
		return []float64{0}
	}
	return floats.Span(make([]float64, n), 0, 1)
}
