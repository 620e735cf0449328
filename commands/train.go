package commands

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/rlfisheries/onefish/agent"
	"github.com/rlfisheries/onefish/agent/linear/actorcritic"
	"github.com/rlfisheries/onefish/environment/wrappers"
	"github.com/rlfisheries/onefish/experiment"
	"github.com/rlfisheries/onefish/experiment/checkpointer"
	"github.com/rlfisheries/onefish/experiment/tracker"
	"github.com/rlfisheries/onefish/utils/progressbar"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// TrainCommand returns the command which trains a linear actor-critic
// agent online on tile-coded observations of the fishery
func TrainCommand(o *options) *cobra.Command {
	var (
		steps           uint
		tilings, tiles  int
		evalEpisodes    int
		checkpointEvery int
		returnsFile     string
		weightsFile     string
		trajectoryFile  string
		naming          string
		quiet           bool
	)
	ac := actorcritic.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train a linear Gaussian actor-critic harvest rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if tilings < 1 || tiles < 1 {
				return fmt.Errorf("tilings and tiles must be positive, "+
					"have %d and %d", tilings, tiles)
			}
			if checkpointEvery > 0 && weightsFile == "" {
				return fmt.Errorf("--checkpoint requires --weights")
			}
			filename, err := checkpointNames(naming, weightsFile)
			if err != nil {
				return err
			}

			f, err := o.fishery(cmd)
			if err != nil {
				return err
			}
			tc, _ := wrappers.NewTileCoding(f, tiling(tilings, tiles), o.seed)

			var c agent.Config = ac
			created, err := c.CreateAgent(tc, o.seed)
			if err != nil {
				return err
			}
			a := created.(*actorcritic.LinearGaussian)
			run := uuid.New().String()
			logger := log.New(cmd.ErrOrStderr(), "train "+run[:8]+": ",
				log.LstdFlags)
			logger.Printf("run %v: %v on %v", run, a, tc)

			returns := tracker.NewReturn(returnsFile)
			e := experiment.NewOnline(tc, a, steps, returns)

			// The trajectory is recorded in natural units
			natural, err := wrappers.NewRescale(f,
				mat.NewVecDense(1, []float64{0}),
				mat.NewVecDense(1, []float64{f.Bound()}))
			if err != nil {
				return err
			}
			trajectory := tracker.NewTrajectory(trajectoryFile)
			e.Register(tracker.Register(trajectory, natural))

			if checkpointEvery > 0 {
				e.AddCheckpointer(checkpointer.NewNStep(checkpointEvery, a,
					filename))
			}

			if !quiet {
				episodeLen := uint(f.Horizon() + 1)
				bar := progressbar.New(cmd.ErrOrStderr(), 40,
					int((steps+episodeLen-1)/episodeLen))
				e.OnEpisode = func(episodes int, _ uint) {
					r := returns.Returns()
					bar.SetStatus(fmt.Sprintf("return %.4f", r[len(r)-1]))
					bar.Increment()
				}
				bar.Start()
				defer bar.Stop()
			}

			if err := e.Run(); err != nil {
				return err
			}
			logger.Printf("trained for %d steps over %d episodes", e.Steps(),
				e.Episodes())

			if returnsFile != "" {
				if err := returns.Save(); err != nil {
					return err
				}
			}
			if trajectoryFile != "" {
				if err := trajectory.Save(); err != nil {
					return err
				}
			}
			if weightsFile != "" {
				if err := a.Save(weightsFile); err != nil {
					return err
				}
			}

			if evalEpisodes > 0 {
				a.Eval()
				evalReturns := tracker.NewReturn("")
				eval := experiment.NewOnline(tc, a,
					uint(evalEpisodes*(f.Horizon()+1)), evalReturns)
				if err := eval.Run(); err != nil {
					return err
				}
				mean, std := stat.MeanStdDev(evalReturns.Returns(), nil)
				fmt.Fprintf(cmd.OutOrStdout(), "greedy return over %d "+
					"episodes: %.6f ± %.6f\n", evalEpisodes, mean, std)
			}
			return nil
		},
	}
	cmd.Flags().UintVar(&steps, "steps", 100_000, "Number of training steps")
	cmd.Flags().IntVar(&tilings, "tilings", 8, "Number of tilings")
	cmd.Flags().IntVar(&tiles, "tiles", 16, "Number of tiles per tiling")
	cmd.Flags().Float64Var(&ac.ActorLearningRate, "actor-lr",
		ac.ActorLearningRate, "Actor learning rate")
	cmd.Flags().Float64Var(&ac.CriticLearningRate, "critic-lr",
		ac.CriticLearningRate, "Critic learning rate")
	cmd.Flags().Float64Var(&ac.Decay, "decay", ac.Decay,
		"Eligibility trace decay rate λ")
	cmd.Flags().BoolVar(&ac.ScaleActorLR, "scale-actor-lr", ac.ScaleActorLR,
		"Scale the actor learning rate by the policy variance")
	cmd.Flags().Float64Var(&ac.InitScale, "init-scale", ac.InitScale,
		"Draw initial weights uniformly from [-scale, scale], 0 for zeros")
	cmd.Flags().IntVar(&evalEpisodes, "eval", 10,
		"Number of greedy evaluation episodes run after training")
	cmd.Flags().IntVar(&checkpointEvery, "checkpoint", 0,
		"Save the weights every this many steps, 0 to disable")
	cmd.Flags().StringVar(&returnsFile, "returns", "",
		"File to save the training returns to")
	cmd.Flags().StringVar(&naming, "checkpoint-naming", "enumerate",
		"How checkpoints are named, one of enumerate or time")
	cmd.Flags().StringVarP(&weightsFile, "weights", "w", "",
		"File to save the learned weights to")
	cmd.Flags().StringVar(&trajectoryFile, "trajectory", "",
		"File to write the last training episode to as CSV")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false,
		"Do not draw a progress bar")
	return cmd
}

// checkpointNames returns the function naming checkpoint files of
// weightsFile. Enumerated names count up from 1 and timed names carry
// the time of the checkpoint in nanoseconds.
func checkpointNames(naming, weightsFile string) (func() string, error) {
	name := strings.TrimSuffix(weightsFile, ".bin")
	switch naming {
	case "enumerate":
		return checkpointer.FilenameEnumerator(0, name+"-", ".bin"), nil

	case "time":
		return checkpointer.FileTimer(name, ".bin"), nil
	}
	return nil, fmt.Errorf("unknown checkpoint naming %q, want enumerate "+
		"or time", naming)
}
