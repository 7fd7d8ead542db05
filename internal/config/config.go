// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 OpenTeam Contributors

// Package config loads service configuration from a YAML file with
// command-line flag overrides.
package config

import (
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config is the full service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Metrics  MetricsConfig  `koanf:"metrics"`
	Database DatabaseConfig `koanf:"database"`
	Log      LogConfig      `koanf:"log"`
	Sweep    SweepConfig    `koanf:"sweep"`
}

// ServerConfig configures the REST listener.
type ServerConfig struct {
	Addr string `koanf:"addr"`
}

// MetricsConfig configures the observability listener.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `koanf:"format"` // "json" or "text"
}

// SweepConfig configures the periodic expired-session sweep.
type SweepConfig struct {
	Schedule string `koanf:"schedule"` // cron spec or @every duration
}

// Default returns the configuration defaults. The database URL has no
// default; it must come from the file, a flag, or DATABASE_URL.
func Default() Config {
	return Config{
		Server:  ServerConfig{Addr: ":8080"},
		Metrics: MetricsConfig{Addr: "127.0.0.1:9090"},
		Log:     LogConfig{Format: "json"},
		Sweep:   SweepConfig{Schedule: "@every 15m"},
	}
}

// Load reads configuration in precedence order: defaults, then the YAML file
// (if path is non-empty), then flag overrides (if flags is non-nil), then the
// DATABASE_URL environment variable as a final fallback for the one secret.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if cfg.Database.URL == "" {
		cfg.Database.URL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}

// Validate checks that required settings are present.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database.url is required (or set DATABASE_URL)")
	}
	if c.Server.Addr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("server.addr cannot be empty")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("format", c.Log.Format).
			Errorf("log.format must be json or text")
	}
	return nil
}
