package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tsukumogami/versions/internal/version"
)

const (
	// EnvHome overrides the directory holding config.toml (default ~/.versions)
	EnvHome = "VERSIONS_HOME"

	// EnvMirrors overrides the mirror list: comma- or whitespace-separated URLs
	EnvMirrors = "VERSIONS_MIRRORS"

	// EnvTimeout configures the per-request timeout (Go duration string)
	EnvTimeout = "VERSIONS_TIMEOUT"

	// EnvStrategy selects "sequential" or "race"
	EnvStrategy = "VERSIONS_STRATEGY"

	// DefaultTimeout is the per-request timeout used when nothing is configured
	DefaultTimeout = version.DefaultTimeout

	// MinTimeout and MaxTimeout bound configured timeouts
	MinTimeout = 100 * time.Millisecond
	MaxTimeout = 2 * time.Minute
)

// ClampTimeout limits d to [MinTimeout, MaxTimeout], printing a warning to
// stderr naming source when it had to adjust the value.
func ClampTimeout(source string, d time.Duration) time.Duration {
	if d < MinTimeout {
		fmt.Fprintf(os.Stderr, "Warning: %s too low (%v), using minimum %v\n", source, d, MinTimeout)
		return MinTimeout
	}
	if d > MaxTimeout {
		fmt.Fprintf(os.Stderr, "Warning: %s too high (%v), using maximum %v\n", source, d, MaxTimeout)
		return MaxTimeout
	}
	return d
}

// LookupTimeout returns the timeout from VERSIONS_TIMEOUT and whether it was set.
// Invalid values print a warning and report unset; out-of-range values are clamped.
// Accepts duration strings like "500ms", "3s", "1m".
func LookupTimeout() (time.Duration, bool) {
	envValue := os.Getenv(EnvTimeout)
	if envValue == "" {
		return 0, false
	}

	duration, err := time.ParseDuration(envValue)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: invalid %s value %q, ignoring\n", EnvTimeout, envValue)
		return 0, false
	}

	return ClampTimeout(EnvTimeout, duration), true
}

// ParseMirrorList splits a mirror list on commas and whitespace, dropping
// empty entries. Order is preserved.
func ParseMirrorList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// LookupMirrors returns the mirror list from VERSIONS_MIRRORS and whether
// it was set to at least one URL.
func LookupMirrors() ([]string, bool) {
	mirrors := ParseMirrorList(os.Getenv(EnvMirrors))
	return mirrors, len(mirrors) > 0
}

// LookupStrategy returns the normalized VERSIONS_STRATEGY value and whether
// it was set. Validation happens where the strategy is parsed.
func LookupStrategy() (string, bool) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(EnvStrategy)))
	return v, v != ""
}

// DefaultHomeOverride can be set by the binary's main package (via ldflags)
// to change the default home directory. VERSIONS_HOME still takes precedence.
var DefaultHomeOverride string

// Config holds filesystem locations.
type Config struct {
	HomeDir    string // $VERSIONS_HOME
	ConfigFile string // $VERSIONS_HOME/config.toml
}

// DefaultConfig returns the default configuration
func DefaultConfig() (*Config, error) {
	home := os.Getenv(EnvHome)
	if home == "" {
		if DefaultHomeOverride != "" {
			home = DefaultHomeOverride
		} else {
			userHome, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get user home directory: %w", err)
			}
			home = filepath.Join(userHome, ".versions")
		}
	}

	return &Config{
		HomeDir:    home,
		ConfigFile: filepath.Join(home, "config.toml"),
	}, nil
}

// EnsureDirectories creates the home directory
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.HomeDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.HomeDir, err)
	}
	return nil
}
