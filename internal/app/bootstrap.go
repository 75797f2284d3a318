package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"quiver/internal/config"
	"quiver/pkg/logging"
)

// Application bundles the bootstrap settings and the initialized services.
//
// Initialization happens in two phases:
//  1. Bootstrap: load configuration, initialize logging, assemble services
//  2. Execution: Run serves the HTTP API until the context is cancelled
//
// CLI commands that only query the registry or dispatch a single command
// use Services directly and never call Run.
type Application struct {
	config   *Config
	services *Services
}

// NewApplication loads configuration (unless cfg.QuiverConfig is already
// set), configures logging and initializes every service.
func NewApplication(ctx context.Context, cfg *Config) (*Application, error) {
	var logOutput io.Writer = os.Stderr
	if cfg.Silent {
		logOutput = io.Discard
	}
	logging.InitForCLI(logLevel(cfg, ""), logOutput)

	if cfg.QuiverConfig == nil {
		quiverCfg, err := config.LoadConfig(cfg.configDir())
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration from %s", cfg.configDir())
			return nil, fmt.Errorf("failed to load configuration from %s: %w", cfg.configDir(), err)
		}
		cfg.QuiverConfig = &quiverCfg
	}
	logging.InitForCLI(logLevel(cfg, cfg.QuiverConfig.LogLevel), logOutput)

	services, err := InitializeServices(ctx, cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// logLevel prefers --debug over the configured level.
func logLevel(cfg *Config, configured string) logging.LogLevel {
	if cfg.Debug {
		return logging.LevelDebug
	}
	return logging.ParseLevel(configured)
}

// Services returns the initialized component graph.
func (a *Application) Services() *Services {
	return a.services
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (a *Application) Run(ctx context.Context) error {
	return runServer(ctx, a.services)
}

// Close releases store connections and flushes pending spans.
func (a *Application) Close(ctx context.Context) error {
	return a.services.Close(ctx)
}
