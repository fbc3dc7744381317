// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; the session token goes to the
// OS keychain.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"queryforge/cli/internal/xdg"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:5000"

// Config holds non-sensitive CLI settings.
type Config struct {
	BaseURL  string `json:"base_url"`
	LogLevel string `json:"log_level"`
	PerPage  int    `json:"per_page"`
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
// The QUERYFORGE_URL environment variable overrides the stored base URL.
func Load() (Config, error) {
	var c Config
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c = defaults()
			applyEnv(&c)
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.PerPage <= 0 {
		c.PerPage = 20
	}
	applyEnv(&c)
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

func defaults() Config {
	return Config{
		BaseURL:  DefaultBaseURL,
		LogLevel: "info",
		PerPage:  20,
	}
}

func applyEnv(c *Config) {
	if env := strings.TrimSpace(os.Getenv("QUERYFORGE_URL")); env != "" {
		c.BaseURL = strings.TrimRight(env, "/")
	}
}
