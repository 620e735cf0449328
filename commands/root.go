// Package commands implements the fishery command line interface
package commands

import (
	"fmt"

	"github.com/rlfisheries/onefish/environment/envconfig"
	"github.com/rlfisheries/onefish/environment/fishery"
	"github.com/spf13/cobra"
)

// DotEnvFiles are searched, in order, for environment variables before
// any command runs
var DotEnvFiles = []string{".env"}

// options holds the flags shared by all commands
type options struct {
	config  string
	seed    uint64
	horizon int
}

// envConfig loads the environment configuration, applying the
// --horizon flag if it was given
func (o *options) envConfig(cmd *cobra.Command) (envconfig.Config, error) {
	c, err := envconfig.Load(o.config)
	if err != nil {
		return envconfig.Config{}, err
	}
	if cmd.Flags().Changed("horizon") {
		c.Horizon = o.horizon
		if err := c.Validate(); err != nil {
			return envconfig.Config{}, err
		}
	}
	return c, nil
}

// fishery creates the environment described by the configuration
func (o *options) fishery(cmd *cobra.Command) (*fishery.OneFish, error) {
	c, err := o.envConfig(cmd)
	if err != nil {
		return nil, err
	}
	f, _, err := c.Create(o.seed)
	return f, err
}

// GetRootCommand returns the root command with all subcommands added
func GetRootCommand() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:   "fishery",
		Short: "Simulate, optimize, and learn harvest rules for a " +
			"single-species fishery",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := envconfig.LoadDotEnv(DotEnvFiles...); err != nil {
				return fmt.Errorf("could not load .env: %w", err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&o.config, "config", "c", "",
		"Configuration file (JSON, YAML, or TOML) for the fishery")
	root.PersistentFlags().Uint64Var(&o.seed, "seed", 0,
		"Seed of the environment's random source")
	root.PersistentFlags().IntVar(&o.horizon, "horizon",
		fishery.DefaultHorizon, "Maximum number of steps in an episode")

	root.AddCommand(SimulateCommand(o))
	root.AddCommand(SweepCommand(o))
	root.AddCommand(PlayCommand(o))
	root.AddCommand(TrainCommand(o))
	return root
}
