// Package config loads dicer settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds environment defaults for the CLI and the HTTP service.
// Command-line flags override these values.
type Config struct {
	Host         string `env:"DICER_HOST" envDefault:"0.0.0.0"`
	Port         int    `env:"DICER_PORT" envDefault:"8787"`
	Color        string `env:"DICER_COLOR" envDefault:"auto"`
	Format       string `env:"DICER_FORMAT" envDefault:"text"`
	HistoryLimit int    `env:"DICER_HISTORY_LIMIT" envDefault:"1000"`
}

func parseEnv(target *Config) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load returns the Config read from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := parseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ValidatePort reports whether port can be listened on. Only serve binds a
// port, so Load leaves the check to it.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range (want 1-65535)", port)
	}
	return nil
}
