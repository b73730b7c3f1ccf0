package version

import (
	"net/http"
	"time"

	"github.com/tsukumogami/versions/internal/log"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithMirrors sets the mirror list, in priority order. The slice is copied.
func WithMirrors(mirrors ...string) Option {
	return func(r *Resolver) {
		r.mirrors = append([]string(nil), mirrors...)
	}
}

// WithTimeout sets the per-request timeout. Non-positive values are ignored.
// It has no effect when WithHTTPClient or WithFetcher is also given.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithStrategy selects sequential fallback or racing.
func WithStrategy(s Strategy) Option {
	return func(r *Resolver) {
		if s != "" {
			r.strategy = s
		}
	}
}

// WithHTTPClient sets the HTTP client used by the default fetcher.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Resolver) {
		r.httpClient = client
	}
}

// WithFetcher replaces the manifest fetcher entirely.
func WithFetcher(f Fetcher) Option {
	return func(r *Resolver) {
		r.fetcher = f
	}
}

// WithLogger sets the logger for mirror attempts and failures.
func WithLogger(l log.Logger) Option {
	return func(r *Resolver) {
		r.logger = l
	}
}
