package version

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"testing"
)

// timeoutError satisfies net.Error with Timeout() == true.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestResolverError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ResolverError
		expected string
	}{
		{
			name: "with source and underlying error",
			err: &ResolverError{
				Type:    ErrTypeConnection,
				Source:  "https://a.example/versions.toml",
				Message: "failed to fetch manifest",
				Err:     errors.New("connection refused"),
			},
			expected: "https://a.example/versions.toml: failed to fetch manifest: connection refused",
		},
		{
			name: "without underlying error",
			err: &ResolverError{
				Type:    ErrTypeNotFound,
				Source:  "https://a.example/versions.toml",
				Message: "mirror returned status 404",
			},
			expected: "https://a.example/versions.toml: mirror returned status 404",
		},
		{
			name: "without source",
			err: &ResolverError{
				Type:    ErrTypeDecode,
				Message: "manifest is not a flat table of strings",
			},
			expected: "manifest: manifest is not a flat table of strings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestResolverError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := &ResolverError{Type: ErrTypeNetwork, Err: underlying}

	if !errors.Is(err, underlying) {
		t.Errorf("errors.Is(err, underlying) = false")
	}
	if (&ResolverError{}).Unwrap() != nil {
		t.Errorf("Unwrap() with nil underlying should be nil")
	}
}

func TestResolverError_IsMalformedManifest(t *testing.T) {
	decode := &ResolverError{Type: ErrTypeDecode, Message: "bad"}
	network := &ResolverError{Type: ErrTypeNetwork, Message: "bad"}

	if !errors.Is(decode, ErrMalformedManifest) {
		t.Error("decode error should match ErrMalformedManifest")
	}
	if errors.Is(network, ErrMalformedManifest) {
		t.Error("network error should not match ErrMalformedManifest")
	}
	if !IsDecode(fmt.Errorf("wrapped: %w", decode)) || IsDecode(network) {
		t.Error("IsDecode misclassified")
	}
	if !IsNetwork(network) || IsNetwork(decode) || IsNetwork(errors.New("plain")) {
		t.Error("IsNetwork misclassified")
	}
}

func TestErrorType_String(t *testing.T) {
	types := []ErrorType{
		ErrTypeNetwork, ErrTypeNotFound, ErrTypeRateLimit, ErrTypeTimeout,
		ErrTypeDNS, ErrTypeConnection, ErrTypeTLS, ErrTypeDecode,
	}

	seen := make(map[string]bool)
	for _, et := range types {
		s := et.String()
		if seen[s] {
			t.Errorf("duplicate ErrorType name %q", s)
		}
		seen[s] = true
	}
	if got := ErrorType(99).String(); got != "ErrorType(99)" {
		t.Errorf("unknown type String() = %q", got)
	}
}

func TestResolverError_Suggestion(t *testing.T) {
	tests := []struct {
		errorType  ErrorType
		wantSubstr string
	}{
		{ErrTypeRateLimit, "Wait a few minutes"},
		{ErrTypeTimeout, "VERSIONS_TIMEOUT"},
		{ErrTypeDNS, "DNS settings"},
		{ErrTypeConnection, "mirror may be down"},
		{ErrTypeTLS, "certificate issue"},
		{ErrTypeNotFound, "mirror URL"},
		{ErrTypeDecode, "broken manifest"},
		{ErrTypeNetwork, "internet connection"},
	}

	for _, tt := range tests {
		t.Run(tt.errorType.String(), func(t *testing.T) {
			s := (&ResolverError{Type: tt.errorType}).Suggestion()
			if !strings.Contains(s, tt.wantSubstr) {
				t.Errorf("Suggestion() = %q, want substring %q", s, tt.wantSubstr)
			}
		})
	}
}

func TestExhaustedError(t *testing.T) {
	first := &ResolverError{Type: ErrTypeDNS, Source: "https://a/v.toml", Message: "failed to fetch manifest"}
	last := &ResolverError{Type: ErrTypeDecode, Source: "https://b/v.toml", Message: "invalid version"}

	err := &ExhaustedError{Attempts: []MirrorError{
		{URL: "https://a/v.toml", Err: first},
		{URL: "https://b/v.toml", Err: last},
	}}

	if !errors.Is(err, ErrExhausted) {
		t.Error("errors.Is(err, ErrExhausted) = false")
	}
	if err.Last() != last {
		t.Errorf("Last() = %v, want last attempt", err.Last())
	}

	var rerr *ResolverError
	if !errors.As(err, &rerr) || rerr != last {
		t.Errorf("errors.As should reach the representative error, got %v", rerr)
	}
	if !IsDecode(err) {
		t.Error("exhaustion should expose the decode class of the last error")
	}
	if !strings.Contains(err.Error(), "2 tried") || !strings.Contains(err.Error(), last.Error()) {
		t.Errorf("Error() = %q", err.Error())
	}

	empty := &ExhaustedError{}
	if empty.Last() != nil || empty.Error() != ErrExhausted.Error() {
		t.Errorf("empty ExhaustedError = %q", empty.Error())
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType ErrorType
	}{
		{"nil error", nil, ErrTypeNetwork},
		{"context deadline exceeded", context.DeadlineExceeded, ErrTypeTimeout},
		{"context canceled", context.Canceled, ErrTypeNetwork},
		{"DNS error", &net.DNSError{Err: "no such host", Name: "mirror.example"}, ErrTypeDNS},
		{"DNS timeout", &net.DNSError{Err: "timeout", Name: "mirror.example", IsTimeout: true}, ErrTypeTimeout},
		{"OpError timeout", &net.OpError{Op: "read", Net: "tcp", Err: timeoutError{}}, ErrTypeTimeout},
		{"OpError refused", &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}, ErrTypeConnection},
		{
			"OpError wrapping DNS",
			&net.OpError{Op: "dial", Net: "tcp", Err: &net.DNSError{Err: "no such host", Name: "mirror.example"}},
			ErrTypeDNS,
		},
		{"url.Error timeout", &url.Error{Op: "Get", URL: "https://mirror.example", Err: timeoutError{}}, ErrTypeTimeout},
		{"url.Error x509", &url.Error{Op: "Get", URL: "https://mirror.example", Err: errors.New("x509: certificate has expired")}, ErrTypeTLS},
		{
			"url.Error wrapping OpError",
			&url.Error{Op: "Get", URL: "https://mirror.example", Err: &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}},
			ErrTypeConnection,
		},
		{"generic error", errors.New("something else"), ErrTypeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.wantType {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.wantType)
			}
		})
	}
}

func TestWrapNetworkError(t *testing.T) {
	err := WrapNetworkError(context.DeadlineExceeded, "https://a/v.toml", "failed to fetch manifest")
	if err.Type != ErrTypeTimeout || err.Source != "https://a/v.toml" {
		t.Errorf("WrapNetworkError() = %+v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("wrapped error should unwrap to the cause")
	}
}
