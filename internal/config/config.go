package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the service configuration, loaded from the environment. The
// drift threshold and tick interval are empirical sync constants, kept
// tunable rather than baked in.
type Config struct {
	Addr             string        `env:"PIPEVIEW_ADDR" envDefault:":8080"`
	DBPath           string        `env:"PIPEVIEW_DB" envDefault:"pipeview.db"`
	TaxonomySource   string        `env:"PIPEVIEW_TAXONOMY"`
	DriftThreshold   float64       `env:"PIPEVIEW_DRIFT_THRESHOLD" envDefault:"0.5"`
	TickInterval     time.Duration `env:"PIPEVIEW_TICK_INTERVAL" envDefault:"1s"`
	EventMinInterval time.Duration `env:"PIPEVIEW_EVENT_MIN_INTERVAL" envDefault:"100ms"`
}

// FromEnv parses the configuration out of the process environment.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
