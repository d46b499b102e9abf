// Package config loads runtime settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/sadopc/stepr/internal/store"
)

type Config struct {
	DBPath            string        `env:"STEPR_DB_PATH"`
	LogFile           string        `env:"STEPR_LOG_FILE"`
	ReconcileInterval time.Duration `env:"STEPR_RECONCILE_INTERVAL" envDefault:"30s"`
	Sensor            SensorConfig
}

// SensorConfig drives the simulated pedometer used on machines without
// motion hardware.
type SensorConfig struct {
	Available  bool   `env:"STEPR_SENSOR_AVAILABLE" envDefault:"true"`
	Permission string `env:"STEPR_SENSOR_PERMISSION" envDefault:"undetermined"`
	Grant      bool   `env:"STEPR_SENSOR_GRANT" envDefault:"true"`
	Cadence    int    `env:"STEPR_SENSOR_CADENCE" envDefault:"80"`
	Seed       uint64 `env:"STEPR_SENSOR_SEED" envDefault:"0"`
}

// Load reads dotenv (if it exists) into the environment and parses Config.
// Variables already set in the environment take precedence over the file.
func Load(dotenv string) (Config, error) {
	if dotenv != "" {
		if err := godotenv.Load(dotenv); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", dotenv, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.ReconcileInterval <= 0 {
		return Config{}, fmt.Errorf("STEPR_RECONCILE_INTERVAL must be positive, got %s", cfg.ReconcileInterval)
	}
	if cfg.Sensor.Cadence <= 0 {
		return Config{}, fmt.Errorf("STEPR_SENSOR_CADENCE must be positive, got %d", cfg.Sensor.Cadence)
	}

	if cfg.DBPath == "" || cfg.LogFile == "" {
		dbPath, err := store.DefaultDBPath()
		if err != nil {
			return Config{}, fmt.Errorf("locate config dir: %w", err)
		}
		if cfg.DBPath == "" {
			cfg.DBPath = dbPath
		}
		if cfg.LogFile == "" {
			cfg.LogFile = filepath.Join(filepath.Dir(dbPath), "stepr.log")
		}
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
