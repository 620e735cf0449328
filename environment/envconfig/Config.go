// Package envconfig provides configuration for constructing fishery
// environments from configuration files and environment variables.
// Configurations in this package are JSON serializable.
package envconfig

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rlfisheries/onefish/environment/fishery"
	ts "github.com/rlfisheries/onefish/timestep"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables which override
// configuration values, e.g. FISHERY_GROWTH_RATE
const EnvPrefix string = "FISHERY"

// DefaultDiscount is the discount used when none is configured
const DefaultDiscount float64 = 1.0

// Config describes a fishery environment along with the discount of
// the TimeSteps it produces
type Config struct {
	fishery.Config `mapstructure:",squash"`
	Discount       float64 `json:"discount" mapstructure:"discount"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Config:   fishery.DefaultConfig(),
		Discount: DefaultDiscount,
	}
}

// Validate returns an error if the Config cannot be used to create an
// environment
func (c Config) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount must be in [0, 1], have %v",
			c.Discount)
	}
	return nil
}

// Load reads a Config. Values are taken, in decreasing priority, from
// FISHERY_* environment variables, the configuration file at path, and
// Default. If path is empty, no configuration file is read. Any of
// JSON, YAML, or TOML files may be used.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults must be registered for every key so that Unmarshal
	// looks each of them up in the environment
	d := Default()
	v.SetDefault("horizon", d.Horizon)
	v.SetDefault("growth_rate", d.GrowthRate)
	v.SetDefault("carrying_capacity", d.CarryingCapacity)
	v.SetDefault("volatility", d.Volatility)
	v.SetDefault("harvest_cost", d.HarvestCost)
	v.SetDefault("initial_population", d.InitialPopulation)
	v.SetDefault("discount", d.Discount)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("load: could not read config: %w",
				err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("load: could not decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}
	return c, nil
}

// LoadDotEnv adds the variables in the first of the given .env files
// that exists to the environment. Variables already set are not
// overridden. It is not an error if none of the files exist.
func LoadDotEnv(files ...string) error {
	for _, file := range files {
		err := godotenv.Load(file)
		if err == nil {
			return nil
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("loadDotEnv: %w", err)
		}
	}
	return nil
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment
func (c Config) Create(seed uint64) (*fishery.OneFish, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}
	return fishery.New(c.Config, c.Discount, seed)
}
