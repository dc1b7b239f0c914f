// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"remixin/options"
)

type Config struct {
	// Validate enables every contract check.
	Validate bool `env:"REMIXIN_VALIDATE" envDefault:"false"`
	// CheckNames enables individual checks, on top of Validate.
	CheckNames []string `env:"REMIXIN_CHECKS" envSeparator:","`

	LogMode       string        `env:"REMIXIN_LOG_MODE" envDefault:"production"`
	ScriptTimeout time.Duration `env:"REMIXIN_SCRIPT_TIMEOUT" envDefault:"1s"`
}

// Load reads a Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.ScriptTimeout < 0 {
		return Config{}, fmt.Errorf("parse env: REMIXIN_SCRIPT_TIMEOUT must not be negative, got %s", cfg.ScriptTimeout)
	}

	if _, err := cfg.Checks(); err != nil {
		return Config{}, fmt.Errorf("parse env: REMIXIN_CHECKS: %w", err)
	}

	return cfg, nil
}

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}

// Checks resolves the configured contract checks.
func (c Config) Checks() (options.CheckEnum, error) {
	checks, err := options.ParseChecks(c.CheckNames...)
	if err != nil {
		return options.CheckNone, err
	}

	if c.Validate {
		checks |= options.CheckAll
	}

	return checks, nil
}
