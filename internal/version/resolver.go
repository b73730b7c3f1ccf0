package version

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tsukumogami/versions/internal/httputil"
	"github.com/tsukumogami/versions/internal/log"
)

// DefaultTimeout is the per-request timeout used when none is configured.
const DefaultTimeout = 3 * time.Second

// DefaultMirrors are the hosted manifests consulted when no mirror list is
// configured, in priority order.
var DefaultMirrors = []string{
	"https://raw.githubusercontent.com/gwy15/versions/main/versions.toml",
	"https://raw.fastgit.org/gwy15/versions/main/versions.toml",
}

// Resolver resolves identifiers to versions using a list of mirrors that
// all host the same manifest. A Resolver holds no state between calls and
// is safe for concurrent use.
type Resolver struct {
	mirrors    []string
	timeout    time.Duration
	strategy   Strategy
	httpClient *http.Client // shared by the default fetcher (injectable for testing)
	fetcher    Fetcher
	logger     log.Logger
}

// NewHTTPClient creates the shared manifest client with the given
// per-request timeout. Redirects are HTTPS-only and SSRF-checked.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return httputil.NewSecureClient(httputil.ClientOptions{
		Timeout:      timeout,
		DialTimeout:  timeout,
		MaxRedirects: 5,
	})
}

// New creates a Resolver. Without options it uses DefaultMirrors,
// DefaultTimeout and DefaultStrategy.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		mirrors:  append([]string(nil), DefaultMirrors...),
		timeout:  DefaultTimeout,
		strategy: DefaultStrategy,
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.logger == nil {
		r.logger = log.Default()
	}
	if r.fetcher == nil {
		if r.httpClient == nil {
			r.httpClient = NewHTTPClient(r.timeout)
		}
		r.fetcher = NewHTTPFetcher(r.httpClient)
	}

	return r
}

// Mirrors returns a copy of the configured mirror list.
func (r *Resolver) Mirrors() []string {
	return append([]string(nil), r.mirrors...)
}

// Strategy returns the configured strategy.
func (r *Resolver) Strategy() Strategy {
	return r.strategy
}

// Timeout returns the configured per-request timeout.
func (r *Resolver) Timeout() time.Duration {
	return r.timeout
}

// GetVersions fetches and parses the manifest from a single mirror.
// Fetch and parse errors are returned unchanged.
func (r *Resolver) GetVersions(ctx context.Context, url string) (*Manifest, error) {
	text, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	m, err := parseManifest(url, text)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("manifest loaded", "mirror", url, "entries", m.Len())
	return m, nil
}

// Resolve retrieves one complete manifest using the configured strategy.
// Mirror failures are logged and trigger fallback; only exhaustion of the
// whole list is reported, as an *ExhaustedError.
func (r *Resolver) Resolve(ctx context.Context) (*Manifest, error) {
	if len(r.mirrors) == 0 {
		return nil, ErrNoMirrors
	}

	var (
		m   *Manifest
		err error
	)
	switch r.strategy {
	case StrategySequential:
		m, err = r.sequential(ctx)
	case StrategyRace:
		m, err = r.race(ctx)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownStrategy, r.strategy)
	}
	if err != nil {
		r.logger.Warn("all mirrors failed", "mirrors", len(r.mirrors), "strategy", r.strategy.String(), "error", err)
		return nil, err
	}
	return m, nil
}

// GetVersion resolves identifier to a version. A nil version with a nil
// error means the manifest was retrieved but does not list identifier.
// A non-nil error means the version service was unreachable; it never
// means the identifier does not exist.
func (r *Resolver) GetVersion(ctx context.Context, identifier string) (*Version, error) {
	m, err := r.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	v, ok := m.Get(identifier)
	if !ok {
		r.logger.Debug("identifier not in manifest", "identifier", identifier, "mirror", m.Source())
		return nil, nil
	}
	return v, nil
}
