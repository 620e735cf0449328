package commands

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rlfisheries/onefish/experiment"
	"github.com/rlfisheries/onefish/utils/progressbar"
	"github.com/spf13/cobra"
)

// SweepCommand returns the command which searches for the maximum
// sustainable yield effort
func SweepCommand(o *options) *cobra.Command {
	var points, reps, workers int
	var out string
	var quiet bool

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Search for the constant effort with the highest mean return",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := o.envConfig(cmd)
			if err != nil {
				return err
			}

			cfg := experiment.SweepConfig{
				Fishery: c.Config,
				Efforts: experiment.Efforts(points),
				Reps:    reps,
				Seed:    o.seed,
				Workers: workers,
			}

			if !quiet {
				bar := progressbar.New(cmd.ErrOrStderr(), 40, points)
				cfg.OnDone = func(p experiment.SweepPoint) {
					bar.SetStatus(fmt.Sprintf("effort %.2f", p.Effort))
					bar.Increment()
				}
				bar.Start()
				defer bar.Stop()
			}

			result, err := experiment.Sweep(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			if out != "" {
				if err := writeSweep(out, result); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "best effort: %.4f  mean return: "+
				"%.6f  std: %.6f\n", result.Best.Effort,
				result.Best.MeanReturn, result.Best.StdReturn)
			return nil
		},
	}
	cmd.Flags().IntVar(&points, "points", 101,
		"Number of efforts, evenly spaced over [0, 1], to simulate")
	cmd.Flags().IntVar(&reps, "reps", 30, "Episodes simulated per effort")
	cmd.Flags().IntVar(&workers, "workers", 0,
		"Maximum number of efforts simulated concurrently, 0 for no limit")
	cmd.Flags().StringVarP(&out, "out", "o", "",
		"File to write per-effort results to as CSV")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false,
		"Do not draw a progress bar")
	return cmd
}

// writeSweep writes the mean and standard deviation of the return of
// each effort in a sweep as CSV
func writeSweep(filename string, result experiment.SweepResult) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("could not create sweep file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	w.Write([]string{"effort", "mean_return", "std_return"})
	for _, p := range result.Points {
		w.Write([]string{
			strconv.FormatFloat(p.Effort, 'g', -1, 64),
			strconv.FormatFloat(p.MeanReturn, 'g', -1, 64),
			strconv.FormatFloat(p.StdReturn, 'g', -1, 64),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("could not write sweep file: %w", err)
	}
	return file.Close()
}
