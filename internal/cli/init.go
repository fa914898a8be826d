// Package cli provides common initialization utilities for the entry points:
// logging, environment loading, configuration and store setup.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/config"
	applog "github.com/matiasfalconaro/Tkinter-expense-manager/internal/log"
	"github.com/matiasfalconaro/Tkinter-expense-manager/internal/storage"
)

// SetupLogger initializes structured logging with the given level and sets
// the result as the process default.
func SetupLogger(cfg *config.Config) *applog.Logger {
	logCfg := applog.DefaultConfig()
	if cfg != nil {
		if lvl, err := cfg.SlogLevel(); err == nil {
			logCfg.Level = lvl
		}
		logCfg.Handler = nil
	}
	logger := applog.New(logCfg)
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitStore opens the SQLite-backed record store and runs migrations.
// Returns the store or exits the process on failure.
func InitStore(logger *applog.Logger, dbPath string) *storage.Store {
	store, err := storage.Open(dbPath)
	if err != nil {
		logger.Error("Failed to open record store", applog.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	return store
}
