// Package cli provides common process bootstrap for cmd/bilancio and
// cmd/bilancio-worker.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"bilancio/internal/config"
	"bilancio/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the root logger at the given level and installs it as
// the slog default. Unknown levels fall back to info.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	if lvl, err := log.ParseLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// Bootstrap loads the environment and configuration, sets up logging and
// validates the result with validate (typically (*config.Config).Validate).
func Bootstrap(validate func(*config.Config) error) (*config.Config, *log.Logger, error) {
	LoadEnvFile()
	cfg := config.Load()
	logger := SetupLogger(cfg.LogLevel)
	if err := validate(cfg); err != nil {
		return nil, logger, err
	}
	return cfg, logger, nil
}

// MustBootstrap is Bootstrap that exits the process on invalid configuration.
func MustBootstrap(validate func(*config.Config) error) (*config.Config, *log.Logger) {
	cfg, logger, err := Bootstrap(validate)
	if err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg, logger
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
