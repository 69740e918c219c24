package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/askgod-go/internal/api"
	"github.com/mcoot/askgod-go/internal/config"
	"github.com/mcoot/askgod-go/internal/discovery"
	"github.com/mcoot/askgod-go/internal/factory"
	"github.com/mcoot/askgod-go/internal/server"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create application factory
	app, err := factory.New(ctx, factory.Config{Logger: logger})
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Game protocol server
	tcpConfig := server.DefaultConfig()
	tcpConfig.Host = cfg.TCPHost
	tcpConfig.Port = cfg.TCPPort
	tcpServer := server.New(app.Registry, tcpConfig, logger)

	// Presence broadcaster
	broadcaster, err := discovery.NewBroadcaster(cfg.DiscoveryPort, cfg.AnnouncePayload, cfg.AnnounceInterval, logger)
	if err != nil {
		logger.Error("failed to create broadcaster", slog.String("error", err.Error()))
		os.Exit(1)
	}
	go broadcaster.Run(ctx)

	// Read-only status API
	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Registry: app.Registry,
	})
	httpConfig := api.DefaultServerConfig()
	httpConfig.Port = cfg.HTTPPort
	httpServer := api.NewServer(router, httpConfig, logger)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	errCh := make(chan error, 2)
	go func() {
		errCh <- tcpServer.Start()
	}()
	go func() {
		errCh <- httpServer.Start()
	}()

	// Wait for shutdown or a fatal startup error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx := context.Background()
		if err := tcpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("tcp shutdown error", slog.String("error", err.Error()))
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown error", slog.String("error", err.Error()))
		}
	}

	logger.Info("server stopped")
}
