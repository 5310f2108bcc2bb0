// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading for tutor-tui.
//
// Sources, in order of precedence:
//   - TUTOR_* environment variables
//   - ~/.tutor/config.toml
//   - Built-in defaults
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURE
// =============================================================================

// Config is the complete tutor-tui configuration.
type Config struct {
	// ServerURL is the tutor service base URL.
	ServerURL string `toml:"server_url"`

	// TimeoutSecs bounds non-streaming requests.
	TimeoutSecs int `toml:"timeout_secs"`

	// HealthTimeoutSecs bounds the liveness probe.
	HealthTimeoutSecs int `toml:"health_timeout_secs"`

	// UI holds terminal display preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig contains terminal display preferences.
type UIConfig struct {
	// Theme selects the glamour style for assistant markdown: "dark",
	// "light", or "auto".
	Theme string `toml:"theme"`

	// MouseSelection enables capturing transcript selections with the mouse.
	MouseSelection bool `toml:"mouse_selection"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		ServerURL:         "http://127.0.0.1:8000",
		TimeoutSecs:       30,
		HealthTimeoutSecs: 5,
		UI: UIConfig{
			Theme:          "auto",
			MouseSelection: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the configuration directory (~/.tutor).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tutor"), nil
}

// Path returns the configuration file path (~/.tutor/config.toml).
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration from the default path, applies environment
// overrides, and validates. A missing file is not an error: defaults apply.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		// No home directory: run on defaults plus environment.
		cfg := Default()
		cfg.applyEnv()
		return cfg, cfg.Validate()
	}
	return LoadFrom(path)
}

// LoadFrom reads the configuration from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv applies TUTOR_* environment overrides.
func (c *Config) applyEnv() {
	if v := os.Getenv("TUTOR_SERVER_URL"); v != "" {
		c.ServerURL = v
	}
	if v := os.Getenv("TUTOR_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.TimeoutSecs = n
		}
	}
	if v := os.Getenv("TUTOR_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// Validate checks the configuration for coherence.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server_url %q: %w", c.ServerURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server_url %q must use http or https", c.ServerURL)
	}
	if u.Host == "" {
		return fmt.Errorf("server_url %q has no host", c.ServerURL)
	}

	if c.TimeoutSecs <= 0 {
		return fmt.Errorf("timeout_secs must be positive, got %d", c.TimeoutSecs)
	}
	if c.HealthTimeoutSecs <= 0 {
		return fmt.Errorf("health_timeout_secs must be positive, got %d", c.HealthTimeoutSecs)
	}

	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		return fmt.Errorf("ui.theme %q must be dark, light, or auto", c.UI.Theme)
	}
	return nil
}

// =============================================================================
// SAVING
// =============================================================================

// Save writes the configuration to the given path, creating the directory if
// needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}
