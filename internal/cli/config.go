package cli

import (
	"os"
	"time"
)

// Config holds CLI configuration
type Config struct {
	Server  string
	Port    int
	Timeout time.Duration
	NoColor bool
	Verbose bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Server:  os.Getenv("ASKGOD_SERVER"),
		Port:    1234,
		Timeout: 30 * time.Second,
	}
}
