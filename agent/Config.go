package agent

import (
	env "github.com/rlfisheries/onefish/environment"
)

// Type represents a specific type of an agent Config. Config's with
// this type can create Agents of the corresponding type.
type Type string

const (
	GaussianActorCriticLinear Type = "GaussianActorCritic-Linear"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes
	CreateAgent(e env.Environment, seed uint64) (Agent, error)

	// ValidAgent returns whether the argument agent is valid for the
	// Config
	ValidAgent(Agent) bool

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error

	// Type returns the type of agent the Config creates
	Type() Type
}
