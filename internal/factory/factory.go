// Package factory wires the application components together.
package factory

import (
	"context"
	"io"
	"log/slog"

	"github.com/mcoot/askgod-go/internal/dependencies/clock"
	"github.com/mcoot/askgod-go/internal/model"
	"github.com/mcoot/askgod-go/internal/registry"
	"github.com/mcoot/askgod-go/internal/storage"
	"github.com/mcoot/askgod-go/internal/storage/memory"
)

// App contains all wired application components
type App struct {
	Storage  storage.Storage
	Clock    clock.Clock
	Registry *registry.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// Challenges overrides the default challenge seed (optional)
	Challenges []model.Challenge
}

// New creates a new application with all dependencies wired and the
// challenge set seeded.
func New(ctx context.Context, cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	store := memory.New()
	clk := clock.New()
	reg := registry.New(store, clk, logger)

	challenges := cfg.Challenges
	if challenges == nil {
		challenges = registry.DefaultChallenges()
	}
	if err := reg.SeedChallenges(ctx, challenges); err != nil {
		return nil, err
	}

	return &App{
		Storage:  store,
		Clock:    clk,
		Registry: reg,
	}, nil
}
