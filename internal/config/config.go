// Package config loads server configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server's runtime settings. Defaults match the stock
// deployment: game protocol and discovery share port 1234.
type Config struct {
	TCPHost          string        `env:"ASKGOD_TCP_HOST" envDefault:""`
	TCPPort          int           `env:"ASKGOD_TCP_PORT" envDefault:"1234"`
	HTTPPort         int           `env:"ASKGOD_HTTP_PORT" envDefault:"8080"`
	DiscoveryPort    int           `env:"ASKGOD_DISCOVERY_PORT" envDefault:"1234"`
	AnnouncePayload  string        `env:"ASKGOD_ANNOUNCE_PAYLOAD" envDefault:"Serveur_askgod number 1"`
	AnnounceInterval time.Duration `env:"ASKGOD_ANNOUNCE_INTERVAL" envDefault:"2s"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
