// Package userconfig manages the persistent resolver settings stored in
// $VERSIONS_HOME/config.toml, edited with `versions config set`.
package userconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/tsukumogami/versions/internal/config"
	"github.com/tsukumogami/versions/internal/version"
)

// Config represents user-configurable settings. Zero values mean "not set"
// so that environment variables and built-in defaults apply.
type Config struct {
	// Mirrors lists manifest URLs in priority order.
	Mirrors []string `toml:"mirrors,omitempty"`

	// Timeout is the per-request timeout as a Go duration string ("3s").
	Timeout string `toml:"timeout,omitempty"`

	// Strategy is "sequential" or "race".
	Strategy string `toml:"strategy,omitempty"`
}

// DefaultConfig returns an empty Config; every setting falls through to
// the environment or built-in defaults.
func DefaultConfig() *Config {
	return &Config{}
}

// Load reads the config file and returns the configuration.
// Returns default values if the file doesn't exist.
// Returns an error only for file parsing issues, not missing files.
func Load() (*Config, error) {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return DefaultConfig(), nil
	}

	return loadFromPath(cfg.ConfigFile)
}

// loadFromPath reads config from a specific file path (for testing).
func loadFromPath(path string) (*Config, error) {
	userCfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return userCfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := toml.Decode(string(data), userCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := userCfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}

	return userCfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	cfg, err := config.DefaultConfig()
	if err != nil {
		return fmt.Errorf("failed to get config path: %w", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	return c.saveToPath(cfg.ConfigFile)
}

// saveToPath writes config to a specific file path (for testing).
func (c *Config) saveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// TimeoutDuration returns the parsed, clamped timeout and whether one is set.
func (c *Config) TimeoutDuration() (time.Duration, bool) {
	if c.Timeout == "" {
		return 0, false
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, false
	}
	return config.ClampTimeout("config timeout", d), true
}

func (c *Config) validate() error {
	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
	}
	if c.Strategy != "" {
		if _, err := version.ParseStrategy(c.Strategy); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value of a config key as a string.
// Returns empty string and false if the key doesn't exist.
func (c *Config) Get(key string) (string, bool) {
	switch strings.ToLower(key) {
	case "mirrors":
		return strings.Join(c.Mirrors, ","), true
	case "timeout":
		return c.Timeout, true
	case "strategy":
		return c.Strategy, true
	default:
		return "", false
	}
}

// Set updates a config value from a string. An empty value clears the key.
// Returns an error if the key doesn't exist or the value is invalid.
func (c *Config) Set(key, value string) error {
	value = strings.TrimSpace(value)

	switch strings.ToLower(key) {
	case "mirrors":
		c.Mirrors = config.ParseMirrorList(value)
		return nil
	case "timeout":
		if value != "" {
			if _, err := time.ParseDuration(value); err != nil {
				return fmt.Errorf("invalid value for timeout: must be a duration like 3s or 500ms")
			}
		}
		c.Timeout = value
		return nil
	case "strategy":
		if value != "" {
			s, err := version.ParseStrategy(value)
			if err != nil {
				return fmt.Errorf("invalid value for strategy: %w", err)
			}
			value = s.String()
		}
		c.Strategy = value
		return nil
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
}

// AvailableKeys returns a list of all configurable keys with descriptions.
func AvailableKeys() map[string]string {
	return map[string]string{
		"mirrors":  "Manifest URLs in priority order (comma-separated)",
		"timeout":  "Per-request timeout (e.g. 3s, 500ms)",
		"strategy": "How mirrors are combined (sequential/race)",
	}
}

// SortedKeys returns the configurable keys in a stable order.
func SortedKeys() []string {
	keys := make([]string, 0, len(AvailableKeys()))
	for k := range AvailableKeys() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
