package version

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"
)

// MaxManifestSize bounds the manifest body, before and after decompression.
const MaxManifestSize = 1 << 20

// Fetcher retrieves the raw manifest text from a single mirror.
// Implementations must not retry; falling back is the Resolver's job.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]byte, error)

// Fetch calls f(ctx, url).
func (f FetcherFunc) Fetch(ctx context.Context, url string) ([]byte, error) {
	return f(ctx, url)
}

// HTTPFetcher fetches manifests with a plain GET. The client's Timeout is
// the per-request timeout.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns an HTTPFetcher using client.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{Client: client}
}

// Fetch performs one GET against url and returns the decoded body.
// All failures are returned as *ResolverError with Source set to url.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ResolverError{
			Type:    ErrTypeNetwork,
			Source:  url,
			Message: "failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Accept", "application/toml, text/plain;q=0.9, */*;q=0.1")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, WrapNetworkError(err, url, "failed to fetch manifest")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errType := ErrTypeNetwork
		switch resp.StatusCode {
		case http.StatusNotFound:
			errType = ErrTypeNotFound
		case http.StatusTooManyRequests:
			errType = ErrTypeRateLimit
		}
		return nil, &ResolverError{
			Type:    errType,
			Source:  url,
			Message: fmt.Sprintf("mirror returned status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxManifestSize+1))
	if err != nil {
		return nil, WrapNetworkError(err, url, "failed to read manifest body")
	}
	if len(body) > MaxManifestSize {
		return nil, &ResolverError{
			Type:    ErrTypeNetwork,
			Source:  url,
			Message: fmt.Sprintf("manifest body exceeds %d bytes", MaxManifestSize),
		}
	}

	body, err = decompress(DetectCompression(url), body, MaxManifestSize)
	if err != nil {
		return nil, decodeError(url, "failed to decompress manifest", err)
	}

	if !utf8.Valid(body) {
		return nil, &ResolverError{
			Type:    ErrTypeNetwork,
			Source:  url,
			Message: "manifest body is not valid UTF-8",
		}
	}

	return body, nil
}
