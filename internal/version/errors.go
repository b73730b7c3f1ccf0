package version

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrorType classifies resolver errors for better handling
type ErrorType int

const (
	// ErrTypeNetwork indicates a generic network-related error (fallback when specific type is unknown)
	ErrTypeNetwork ErrorType = iota
	// ErrTypeNotFound indicates the mirror returned HTTP 404 for the manifest
	ErrTypeNotFound
	// ErrTypeRateLimit indicates the mirror returned HTTP 429
	ErrTypeRateLimit
	// ErrTypeTimeout indicates a request timeout
	ErrTypeTimeout
	// ErrTypeDNS indicates DNS resolution failure
	ErrTypeDNS
	// ErrTypeConnection indicates connection refused or reset
	ErrTypeConnection
	// ErrTypeTLS indicates TLS/SSL certificate errors
	ErrTypeTLS
	// ErrTypeDecode indicates the manifest body could not be decoded
	// (bad TOML structure, invalid version string, corrupt compression)
	ErrTypeDecode
)

// String returns a short lowercase name for the error type.
func (t ErrorType) String() string {
	switch t {
	case ErrTypeNetwork:
		return "network"
	case ErrTypeNotFound:
		return "not_found"
	case ErrTypeRateLimit:
		return "rate_limit"
	case ErrTypeTimeout:
		return "timeout"
	case ErrTypeDNS:
		return "dns"
	case ErrTypeConnection:
		return "connection"
	case ErrTypeTLS:
		return "tls"
	case ErrTypeDecode:
		return "decode"
	default:
		return fmt.Sprintf("ErrorType(%d)", int(t))
	}
}

// IsNetwork reports whether the type belongs to the network class: anything
// that prevented a manifest body from being retrieved.
func (t ErrorType) IsNetwork() bool {
	return t != ErrTypeDecode
}

var (
	// ErrInvalidVersion is matched by errors returned from ParseVersion.
	ErrInvalidVersion = errors.New("invalid semantic version")

	// ErrMalformedManifest is matched by every decode-class ResolverError.
	ErrMalformedManifest = errors.New("malformed manifest")

	// ErrNoMirrors is returned when a resolution is attempted with an empty mirror list.
	ErrNoMirrors = errors.New("no mirrors configured")

	// ErrUnknownStrategy is returned for a strategy other than sequential or race.
	ErrUnknownStrategy = errors.New("unknown strategy")

	// ErrExhausted is matched by every *ExhaustedError.
	ErrExhausted = errors.New("all mirrors failed")
)

// ResolverError provides structured error information for a single mirror attempt
type ResolverError struct {
	Type    ErrorType
	Source  string // Mirror URL the error came from (empty for direct parses)
	Message string // Human-readable error message
	Err     error  // Underlying error (if any)
}

// Error implements the error interface
func (e *ResolverError) Error() string {
	prefix := "manifest"
	if e.Source != "" {
		prefix = e.Source
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error for error chain support
func (e *ResolverError) Unwrap() error {
	return e.Err
}

// Is lets decode-class errors match ErrMalformedManifest.
func (e *ResolverError) Is(target error) bool {
	return target == ErrMalformedManifest && e.Type == ErrTypeDecode
}

// Suggestion returns an actionable suggestion for the user based on the error type.
// Returns an empty string if no specific suggestion is available.
func (e *ResolverError) Suggestion() string {
	switch e.Type {
	case ErrTypeRateLimit:
		return "Wait a few minutes before trying again"
	case ErrTypeTimeout:
		return "Check your internet connection, or raise VERSIONS_TIMEOUT"
	case ErrTypeDNS:
		return "Check your DNS settings and internet connection"
	case ErrTypeConnection:
		return "The mirror may be down or blocked. Check if you can access it in a browser"
	case ErrTypeTLS:
		return "There may be a certificate issue. Check your system time is correct"
	case ErrTypeNotFound:
		return "Verify the mirror URL points at a versions manifest"
	case ErrTypeDecode:
		return "The mirror is serving a broken manifest. Try another mirror"
	case ErrTypeNetwork:
		return "Check your internet connection and try again"
	default:
		return ""
	}
}

// MirrorError records the outcome of one failed mirror attempt.
type MirrorError struct {
	URL string
	Err error
}

// ExhaustedError is returned when every configured mirror failed.
// The last observed error is the representative one: Error and Unwrap
// both expose it unchanged. Attempts keeps every failure in the order it
// was observed.
type ExhaustedError struct {
	Attempts []MirrorError
}

// Last returns the representative (last observed) error.
func (e *ExhaustedError) Last() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1].Err
}

func (e *ExhaustedError) Error() string {
	last := e.Last()
	if last == nil {
		return ErrExhausted.Error()
	}
	return fmt.Sprintf("%s (%d tried): %v", ErrExhausted, len(e.Attempts), last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last()
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrExhausted
}

// IsNetwork reports whether err is, or wraps, a network-class ResolverError.
func IsNetwork(err error) bool {
	var rerr *ResolverError
	return errors.As(err, &rerr) && rerr.Type.IsNetwork()
}

// IsDecode reports whether err is, or wraps, a decode-class ResolverError.
func IsDecode(err error) bool {
	return errors.Is(err, ErrMalformedManifest)
}

// ClassifyError examines an error and returns the most specific ErrorType.
// This function uses Go's error unwrapping to detect specific network error types.
func ClassifyError(err error) ErrorType {
	if err == nil {
		return ErrTypeNetwork
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTypeTimeout
	}

	// Check for context canceled (caller gave up or race lost)
	if errors.Is(err, context.Canceled) {
		return ErrTypeNetwork
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return ErrTypeTimeout
		}
		return ErrTypeDNS
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return ErrTypeTLS
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return ErrTypeTimeout
		}
		var innerDNS *net.DNSError
		if errors.As(opErr.Err, &innerDNS) {
			return ErrTypeDNS
		}
		// Connection refused, reset, etc.
		return ErrTypeConnection
	}

	// url.Error wraps transport errors from http.Client
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return ErrTypeTimeout
		}
		msg := urlErr.Err.Error()
		if strings.Contains(msg, "certificate") ||
			strings.Contains(msg, "tls") ||
			strings.Contains(msg, "x509") {
			return ErrTypeTLS
		}
		return ClassifyError(urlErr.Err)
	}

	return ErrTypeNetwork
}

// WrapNetworkError wraps an error with the appropriate error type based on classification.
func WrapNetworkError(err error, source, message string) *ResolverError {
	return &ResolverError{
		Type:    ClassifyError(err),
		Source:  source,
		Message: message,
		Err:     err,
	}
}

func decodeError(source, message string, err error) *ResolverError {
	return &ResolverError{
		Type:    ErrTypeDecode,
		Source:  source,
		Message: message,
		Err:     err,
	}
}
