// Package config loads fracdex settings: built-in defaults, then an optional
// TOML file, then FRACDEX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const appName = "fracdex"

// Config holds runtime settings for the CLI.
type Config struct {
	// JitterRange is how many digit steps a generated digit may move away
	// from the exact midpoint. Zero gives deterministic keys.
	JitterRange int `toml:"jitter_range" env:"FRACDEX_JITTER_RANGE"`
	// Seed seeds the jitter source. Zero uses the shared global source.
	Seed int64 `toml:"seed" env:"FRACDEX_SEED"`

	RedisURL    string `toml:"redis_url" env:"FRACDEX_REDIS_URL"`
	RedisPrefix string `toml:"redis_prefix" env:"FRACDEX_REDIS_PREFIX"`

	// MaxKeyLength triggers a list rebalance once a key grows past it.
	MaxKeyLength int `toml:"max_key_length" env:"FRACDEX_MAX_KEY_LENGTH"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		RedisPrefix: appName,
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/fracdex/config.toml, falling back to
// ~/.config/fracdex/config.toml.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load builds a Config. An empty path reads DefaultPath if it exists; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := decodeFile(path, cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, err
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("config: %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("config: %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.JitterRange < 0 {
		return fmt.Errorf("config: jitter_range must not be negative, got %d", c.JitterRange)
	}
	if c.MaxKeyLength != 0 && c.MaxKeyLength < 3 {
		return fmt.Errorf("config: max_key_length must be 0 or at least 3, got %d", c.MaxKeyLength)
	}
	return nil
}
