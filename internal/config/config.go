// Package config loads service settings from an optional TOML file, a .env
// file and the process environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"learnmint-calculator/internal/expr"
	"learnmint-calculator/internal/history"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds the calculator service settings.
type Config struct {
	Addr       string        `toml:"addr"`
	Locale     string        `toml:"locale"`
	AngleMode  string        `toml:"angle_mode"`
	LogLevel   string        `toml:"log_level"`
	OTLPLogs   bool          `toml:"otlp_logs"`
	SessionTTL time.Duration `toml:"session_ttl"`
	RateLimit  float64       `toml:"rate_limit"` // requests per second per client, 0 disables
	RateBurst  int           `toml:"rate_burst"`
	History    History       `toml:"history"`
}

// History selects where calculation history is persisted.
type History struct {
	Backend string `toml:"backend"` // memory, file or sqlite
	Path    string `toml:"path"`    // directory for file, database file for sqlite
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:       ":8080",
		Locale:     "en",
		AngleMode:  "deg",
		LogLevel:   "info",
		SessionTTL: 30 * time.Minute,
		RateLimit:  20,
		RateBurst:  50,
		History: History{
			Backend: history.BackendFile,
		},
	}
}

// Load builds the configuration: defaults, then the TOML file named by
// CALC_CONFIG (if set), then environment variables. A .env file in the
// working directory is loaded first without overriding the environment.
func Load() (Config, error) {
	if err := LoadDotEnv(); err != nil {
		return Config{}, err
	}

	cfg := Default()

	if path := os.Getenv("CALC_CONFIG"); path != "" {
		if err := LoadFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func LoadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// LoadFile decodes the TOML file at path over cfg.
func LoadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config %s: unknown keys %v", path, undecoded)
	}

	return nil
}

func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}

	setString("CALC_ADDR", &cfg.Addr)
	setString("CALC_LOCALE", &cfg.Locale)
	setString("CALC_ANGLE_MODE", &cfg.AngleMode)
	setString("CALC_LOG_LEVEL", &cfg.LogLevel)
	setString("CALC_HISTORY_BACKEND", &cfg.History.Backend)
	setString("CALC_HISTORY_PATH", &cfg.History.Path)

	if v := os.Getenv("CALC_OTLP_LOGS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("CALC_OTLP_LOGS: %w", err)
		}
		cfg.OTLPLogs = b
	}

	if v := os.Getenv("CALC_SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CALC_SESSION_TTL: %w", err)
		}
		cfg.SessionTTL = d
	}

	if v := os.Getenv("CALC_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("CALC_RATE_LIMIT: %w", err)
		}
		cfg.RateLimit = f
	}

	if v := os.Getenv("CALC_RATE_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CALC_RATE_BURST: %w", err)
		}
		cfg.RateBurst = n
	}

	return nil
}

// Validate rejects settings the service cannot start with.
func (c Config) Validate() error {
	if _, err := expr.ParseAngleMode(c.AngleMode); err != nil {
		return fmt.Errorf("angle_mode: %w", err)
	}

	switch c.History.Backend {
	case history.BackendMemory, history.BackendFile, history.BackendSQLite:
	default:
		return fmt.Errorf("history.backend: %w: %q", history.ErrUnknownBackend, c.History.Backend)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %s", c.SessionTTL)
	}

	if c.RateLimit < 0 || c.RateBurst < 0 {
		return fmt.Errorf("rate_limit and rate_burst must not be negative")
	}
	if c.RateLimit > 0 && c.RateBurst == 0 {
		return errors.New("rate_burst must be positive when rate_limit is set")
	}

	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}

	return nil
}

// Mode returns the default angle mode. It assumes Validate passed.
func (c Config) Mode() expr.AngleMode {
	m, _ := expr.ParseAngleMode(c.AngleMode)
	return m
}
