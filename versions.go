// Package versions resolves software identifiers to semantic versions using
// a centrally hosted manifest served by one or more mirrors.
//
// The package-level GetVersion uses the layered default configuration:
// built-in mirrors, then $VERSIONS_HOME/config.toml, then the VERSIONS_*
// environment variables. Programs that need explicit control build a
// Resolver with NewResolver and options.
package versions

import (
	"context"
	"fmt"
	"time"

	"github.com/tsukumogami/versions/internal/config"
	"github.com/tsukumogami/versions/internal/userconfig"
	"github.com/tsukumogami/versions/internal/version"
)

type (
	Version   = version.Version
	Manifest  = version.Manifest
	Resolver  = version.Resolver
	Option    = version.Option
	Strategy  = version.Strategy
	Fetcher   = version.Fetcher
	ErrorType = version.ErrorType

	ResolverError  = version.ResolverError
	ExhaustedError = version.ExhaustedError
	MirrorError    = version.MirrorError
)

const (
	StrategySequential = version.StrategySequential
	StrategyRace       = version.StrategyRace
)

var (
	ErrInvalidVersion    = version.ErrInvalidVersion
	ErrMalformedManifest = version.ErrMalformedManifest
	ErrNoMirrors         = version.ErrNoMirrors
	ErrUnknownStrategy   = version.ErrUnknownStrategy
	ErrExhausted         = version.ErrExhausted
)

var (
	WithMirrors    = version.WithMirrors
	WithTimeout    = version.WithTimeout
	WithStrategy   = version.WithStrategy
	WithHTTPClient = version.WithHTTPClient
	WithFetcher    = version.WithFetcher
	WithLogger     = version.WithLogger

	ParseVersion  = version.ParseVersion
	ParseManifest = version.ParseManifest
	ParseStrategy = version.ParseStrategy
	IsNetwork     = version.IsNetwork
	IsDecode      = version.IsDecode
)

// Settings is the effective resolver configuration.
type Settings struct {
	Mirrors  []string
	Timeout  time.Duration
	Strategy Strategy
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		Mirrors:  append([]string(nil), version.DefaultMirrors...),
		Timeout:  version.DefaultTimeout,
		Strategy: version.DefaultStrategy,
	}
}

// LoadSettings layers the config file and then the environment over
// DefaultSettings. A missing config file is not an error.
func LoadSettings() (Settings, error) {
	s := DefaultSettings()

	uc, err := userconfig.Load()
	if err != nil {
		return s, err
	}
	if len(uc.Mirrors) > 0 {
		s.Mirrors = append([]string(nil), uc.Mirrors...)
	}
	if d, ok := uc.TimeoutDuration(); ok {
		s.Timeout = d
	}
	if uc.Strategy != "" {
		st, err := version.ParseStrategy(uc.Strategy)
		if err != nil {
			return s, fmt.Errorf("config file: %w", err)
		}
		s.Strategy = st
	}

	if mirrors, ok := config.LookupMirrors(); ok {
		s.Mirrors = mirrors
	}
	if d, ok := config.LookupTimeout(); ok {
		s.Timeout = d
	}
	if raw, ok := config.LookupStrategy(); ok {
		st, err := version.ParseStrategy(raw)
		if err != nil {
			return s, fmt.Errorf("%s: %w", config.EnvStrategy, err)
		}
		s.Strategy = st
	}

	return s, nil
}

// Options converts the settings into Resolver options.
func (s Settings) Options() []Option {
	return []Option{
		WithMirrors(s.Mirrors...),
		WithTimeout(s.Timeout),
		WithStrategy(s.Strategy),
	}
}

// NewResolver creates a Resolver. Without options it uses the built-in
// defaults and ignores the config file and environment.
func NewResolver(opts ...Option) *Resolver {
	return version.New(opts...)
}

// GetVersion resolves identifier with the default configuration.
//
// The result is (v, nil) when the manifest lists identifier, (nil, nil)
// when it does not, and (nil, err) when no mirror could supply a manifest.
// An error never means the identifier is unknown.
func GetVersion(ctx context.Context, identifier string) (*Version, error) {
	s, err := LoadSettings()
	if err != nil {
		return nil, err
	}
	return version.New(s.Options()...).GetVersion(ctx, identifier)
}

// GetVersions fetches and parses the manifest at a single mirror URL,
// without fallback.
func GetVersions(ctx context.Context, mirrorURL string) (*Manifest, error) {
	s, err := LoadSettings()
	if err != nil {
		return nil, err
	}
	return version.New(WithTimeout(s.Timeout)).GetVersions(ctx, mirrorURL)
}
