package actorcritic

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/rlfisheries/onefish/agent"
	env "github.com/rlfisheries/onefish/environment"
	"github.com/rlfisheries/onefish/utils/matutils/initializers/weights"
	"gonum.org/v1/gonum/stat/distuv"
)

// Config represents a configuration for a LinearGaussian agent
type Config struct {
	ActorLearningRate  float64 `json:"actor_learning_rate" mapstructure:"actor_learning_rate"`
	CriticLearningRate float64 `json:"critic_learning_rate" mapstructure:"critic_learning_rate"`
	Decay              float64 `json:"decay" mapstructure:"decay"`

	// ScaleActorLR scales the actor learning rate by the variance of
	// the policy
	ScaleActorLR bool `json:"scale_actor_lr" mapstructure:"scale_actor_lr"`

	// InitScale, if positive, draws the initial weights uniformly from
	// [-InitScale, InitScale]. Otherwise weights start at zero.
	InitScale float64 `json:"init_scale" mapstructure:"init_scale"`
}

// DefaultConfig returns a Config suited to tile-coded fishery
// observations
func DefaultConfig() Config {
	return Config{
		ActorLearningRate:  0.01,
		CriticLearningRate: 0.1,
		Decay:              0.5,
		ScaleActorLR:       true,
	}
}

// CreateAgent creates the agent from the Config. Weights are initialized
// by Initializer.
func (c Config) CreateAgent(e env.Environment, seed uint64) (agent.Agent,
	error) {
	return NewLinearGaussian(e, c, c.Initializer(seed), seed)
}

// Initializer returns the weight initializer described by InitScale
func (c Config) Initializer(seed uint64) weights.Initializer {
	if c.InitScale <= 0 {
		return weights.Zero
	}
	return weights.NewUV(distuv.Uniform{
		Min: -c.InitScale,
		Max: c.InitScale,
		Src: rand.NewSource(seed),
	})
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*LinearGaussian)
	return ok
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	if c.ActorLearningRate <= 0 {
		return fmt.Errorf("validate: actor learning rate must be "+
			"positive, have %v", c.ActorLearningRate)
	}
	if c.CriticLearningRate <= 0 {
		return fmt.Errorf("validate: critic learning rate must be "+
			"positive, have %v", c.CriticLearningRate)
	}
	if c.Decay < 0 || c.Decay > 1 {
		return fmt.Errorf("validate: decay must be in [0, 1], have %v",
			c.Decay)
	}
	if c.InitScale < 0 {
		return fmt.Errorf("validate: init scale must be non-negative, "+
			"have %v", c.InitScale)
	}
	return nil
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.GaussianActorCriticLinear
}
