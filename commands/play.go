package commands

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/rlfisheries/onefish/environment/gym"
	"github.com/rlfisheries/onefish/environment/wrappers"
	"github.com/rlfisheries/onefish/experiment/tracker"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

// PlayCommand returns the command which lets a person choose the
// harvest effort on each step of an episode
func PlayCommand(o *options) *cobra.Command {
	var out string
	var render bool

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Manage the fishery by hand, in natural units",
		Long: "Manage the fishery by hand. On each step the stock is " +
			"shown in natural units and a harvest effort in [0, 1] is " +
			"read from stdin. The episode ends at the horizon or at the " +
			"end of input.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := o.fishery(cmd)
			if err != nil {
				return err
			}
			natural, err := wrappers.NewRescale(f,
				mat.NewVecDense(1, []float64{0}),
				mat.NewVecDense(1, []float64{f.Bound()}))
			if err != nil {
				return err
			}
			g := gym.New(natural)

			prompt := cmd.OutOrStdout()
			in := bufio.NewScanner(cmd.InOrStdin())

			var steps []tracker.Step
			total := 0.0
			obs, _ := g.Reset(&o.seed)

		episode:
			for t := 0; t < g.Horizon(); t++ {
				if render {
					f.Render(prompt)
				}

				var effort float64
				for {
					fmt.Fprintf(prompt, "t: %d, stock: %.3f, profits: %.2f. "+
						"Set harvest effort [0,1]: ", t, obs[0], total)
					if !in.Scan() {
						fmt.Fprintln(prompt)
						break episode
					}
					effort, err = strconv.ParseFloat(
						strings.TrimSpace(in.Text()), 64)
					if err == nil && effort >= 0 && effort <= 1 {
						break
					}
					fmt.Fprintf(prompt, "%q is not an effort in [0, 1]\n",
						in.Text())
				}

				steps = append(steps, tracker.Step{
					T:      t,
					Action: effort,
					Reward: total,
					X:      obs[0],
				})

				var reward float64
				var terminated bool
				obs, reward, terminated, _, _ = g.Step([]float64{effort})
				total += reward
				if terminated {
					break
				}
			}
			if err := in.Err(); err != nil {
				return fmt.Errorf("could not read effort: %w", err)
			}

			fmt.Fprintf(prompt, "total reward: %.6f over %d steps\n", total,
				len(steps))
			if out != "" {
				return writeTrajectory(cmd, out, steps)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "",
		"File to write the trajectory CSV to")
	cmd.Flags().BoolVar(&render, "render", false,
		"Draw the stock before each step")
	return cmd
}
