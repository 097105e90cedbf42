package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvPrefix is prepended to every environment override
const EnvPrefix = "STARTUP_SIM_"

// envOverrides lists the settings that may come from the environment.
// Unset variables leave the pointer nil and the config untouched.
type envOverrides struct {
	Seed          *int64   `env:"SEED"`
	Profile       *string  `env:"PROFILE"`
	SavePath      *string  `env:"SAVE_PATH"`
	Autosave      *bool    `env:"AUTOSAVE"`
	MaxActions    *int     `env:"MAX_ACTIONS"`
	EventWeight   *float64 `env:"EVENT_WEIGHT"`
	EventsPerTurn *int     `env:"EVENTS_PER_TURN"`
	Economy       *bool    `env:"ECONOMY"`
	Variance      *bool    `env:"ECONOMY_VARIANCE"`
	MaxTurns      *int     `env:"MAX_TURNS"`
}

// ApplyEnv overlays STARTUP_SIM_* variables onto the config.
// A nil environ reads the process environment.
func (c *Config) ApplyEnv(environ map[string]string) error {
	var o envOverrides
	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if o.Seed != nil {
		c.Seed = *o.Seed
	}
	if o.Profile != nil {
		c.Profile = *o.Profile
	}
	if o.SavePath != nil {
		c.SavePath = *o.SavePath
	}
	if o.Autosave != nil {
		c.Autosave = *o.Autosave
	}
	if o.MaxActions != nil {
		c.Actions.PerTurn = *o.MaxActions
	}
	if o.EventWeight != nil {
		c.Events.ChanceWeight = *o.EventWeight
	}
	if o.EventsPerTurn != nil {
		c.Events.MaxPerTurn = *o.EventsPerTurn
	}
	if o.Economy != nil {
		c.Economy.Enabled = *o.Economy
	}
	if o.Variance != nil {
		c.Economy.Variance = *o.Variance
	}
	if o.MaxTurns != nil {
		c.EndConditions.MaxTurns = *o.MaxTurns
	}
	c.Normalize()
	return nil
}
