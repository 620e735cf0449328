package commands

import (
	"fmt"
	"os"

	"github.com/rlfisheries/onefish/agent"
	"github.com/rlfisheries/onefish/agent/linear/actorcritic"
	"github.com/rlfisheries/onefish/agent/policy"
	"github.com/rlfisheries/onefish/environment/fishery"
	"github.com/rlfisheries/onefish/environment/wrappers"
	"github.com/rlfisheries/onefish/experiment"
	"github.com/rlfisheries/onefish/experiment/tracker"
	"github.com/rlfisheries/onefish/utils/matutils/initializers/weights"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

// rules holds the flags which select a harvest rule
type rules struct {
	effort, escapement float64
	random             bool
	weights            string
	tilings, tiles     int
}

// SimulateCommand returns the command which simulates one episode of a
// constant effort, constant escapement, random, or learned harvest rule
func SimulateCommand(o *options) *cobra.Command {
	var r rules
	var out string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate one episode of a fixed harvest rule",
		Long: "Simulate one episode of a fixed harvest rule and print its " +
			"trajectory as CSV. Exactly one of --effort, --escapement, " +
			"--random, and --weights must be given. Weights saved by train " +
			"are loaded with the same --seed, --tilings, and --tiles used " +
			"to train them and harvest greedily.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := o.fishery(cmd)
			if err != nil {
				return err
			}
			pred, err := harvestRule(cmd, r, f, o.seed)
			if err != nil {
				return err
			}

			steps, total := experiment.Simulate(pred, f)

			if err := writeTrajectory(cmd, out, steps); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%v: total reward %.6f over %d "+
				"steps\n", pred, total, len(steps))
			return nil
		},
	}
	cmd.Flags().Float64Var(&r.effort, "effort", 0,
		"Constant fraction of the stock harvested each step")
	cmd.Flags().Float64Var(&r.escapement, "escapement", 0,
		"Stock, in natural units, left after each harvest")
	cmd.Flags().BoolVar(&r.random, "random", false,
		"Harvest a uniformly random effort each step")
	cmd.Flags().StringVarP(&r.weights, "weights", "w", "",
		"Harvest greedily with actor-critic weights saved by train")
	cmd.Flags().IntVar(&r.tilings, "tilings", 8,
		"Number of tilings the weights were trained with")
	cmd.Flags().IntVar(&r.tiles, "tiles", 16,
		"Number of tiles per tiling the weights were trained with")
	cmd.Flags().StringVarP(&out, "out", "o", "",
		"File to write the trajectory CSV to instead of stdout")
	return cmd
}

// harvestRule returns the Predictor selected by the --effort,
// --escapement, --random, and --weights flags
func harvestRule(cmd *cobra.Command, r rules, f *fishery.OneFish,
	seed uint64) (agent.Predictor, error) {
	byEffort := cmd.Flags().Changed("effort")
	byEscapement := cmd.Flags().Changed("escapement")
	learned := r.weights != ""

	given := 0
	for _, b := range []bool{byEffort, byEscapement, r.random, learned} {
		if b {
			given++
		}
	}

	switch {
	case given > 1:
		return nil, fmt.Errorf("only one of --effort, --escapement, " +
			"--random, and --weights may be given")

	case r.random:
		return policy.NewUniform(seed), nil

	case byEffort:
		if r.effort < 0 || r.effort > 1 {
			return nil, fmt.Errorf("effort must be in [0, 1], have %v",
				r.effort)
		}
		return policy.NewFixed(r.effort), nil

	case byEscapement:
		return policy.NewEscapement(r.escapement)

	case learned:
		return newLearnedRule(r, f, seed)
	}
	return nil, fmt.Errorf("one of --effort, --escapement, --random, and " +
		"--weights must be given")
}

// learnedRule harvests with the greedy action of a trained linear
// Gaussian actor-critic agent. Populations are tile coded the way they
// were during training.
type learnedRule struct {
	agent.Predictor
	f    *fishery.OneFish
	tc   *wrappers.TileCoding
	file string
}

// newLearnedRule loads the weights named by r into an agent acting on
// the same tile coding of f that train builds from seed
func newLearnedRule(r rules, f *fishery.OneFish, seed uint64) (learnedRule,
	error) {
	if r.tilings < 1 || r.tiles < 1 {
		return learnedRule{}, fmt.Errorf("tilings and tiles must be "+
			"positive, have %d and %d", r.tilings, r.tiles)
	}

	// Building the tile coding resets f, so restore its noise stream
	tc, _ := wrappers.NewTileCoding(f, tiling(r.tilings, r.tiles), seed)
	f.ResetSeed(seed)

	a, err := actorcritic.NewLinearGaussian(tc, actorcritic.DefaultConfig(),
		weights.Zero, seed)
	if err != nil {
		return learnedRule{}, err
	}
	if err := a.Load(r.weights); err != nil {
		return learnedRule{}, err
	}
	return learnedRule{agent.NewPredictor(a), f, tc, r.weights}, nil
}

// Predict returns the greedy effort for the population obs, given in
// natural units
func (l learnedRule) Predict(obs mat.Vector) *mat.VecDense {
	state := l.f.StateUnits(obs.AtVec(0))
	return l.Predictor.Predict(l.tc.Encode(state))
}

func (l learnedRule) String() string {
	return fmt.Sprintf("Learned(weights: %v)", l.file)
}

// tiling returns the tile specification of tilings one-dimensional
// tilings with tiles tiles each
func tiling(tilings, tiles int) [][]int {
	t := make([][]int, tilings)
	for i := range t {
		t[i] = []int{tiles}
	}
	return t
}

// writeTrajectory writes steps as CSV to the file out, or to the
// command's output if out is empty
func writeTrajectory(cmd *cobra.Command, out string,
	steps []tracker.Step) error {
	if out == "" {
		return tracker.WriteCSV(cmd.OutOrStdout(), steps)
	}

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("could not create trajectory file: %w", err)
	}
	if err := tracker.WriteCSV(file, steps); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
