// Package config loads server settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Log formats.
const (
	FormatTint = "tint"
	FormatJSON = "json"
)

// Config holds every server setting.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Token   TokenConfig   `yaml:"token"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type ServerConfig struct {
	Port int `yaml:"port"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"` // "memory" | "sqlite"
	Path   string `yaml:"path"`   // SQLite database file
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // "tint" | "json"
}

type TokenConfig struct {
	// Decimals scales human amounts into the token's smallest unit.
	Decimals int32 `yaml:"decimals"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Server:  ServerConfig{Port: 8080},
		Storage: StorageConfig{Driver: DriverMemory, Path: "./data/vesting.db"},
		Log:     LogConfig{Level: "info", Format: FormatTint},
		Token:   TokenConfig{Decimals: 18},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

// Load reads path (if non-empty) over the defaults, applies environment
// overrides, and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func (c *Config) applyEnv() error {
	var err error
	if c.Server.Port, err = envInt("PORT", c.Server.Port); err != nil {
		return err
	}
	c.Storage.Driver = getEnv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.Path = getEnv("DB_PATH", c.Storage.Path)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
	c.Metrics.Path = getEnv("METRICS_PATH", c.Metrics.Path)

	decimals, err := envInt("TOKEN_DECIMALS", int(c.Token.Decimals))
	if err != nil {
		return err
	}
	c.Token.Decimals = int32(decimals)

	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("METRICS_ENABLED=%q: %w", v, err)
		}
		c.Metrics.Enabled = enabled
	}
	return nil
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q: %w", key, v, err)
	}
	return n, nil
}

// Validate rejects settings the server can't run with.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q: must be %s or %s", c.Storage.Driver, DriverMemory, DriverSQLite)
	}
	switch strings.ToLower(c.Log.Format) {
	case FormatTint, FormatJSON:
	default:
		return fmt.Errorf("unknown log.format %q: must be %s or %s", c.Log.Format, FormatTint, FormatJSON)
	}
	if c.Token.Decimals < 0 || c.Token.Decimals > 36 {
		return fmt.Errorf("token.decimals %d out of range 0..36", c.Token.Decimals)
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path %q must start with /", c.Metrics.Path)
	}
	return nil
}
