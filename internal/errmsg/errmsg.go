// Package errmsg provides enhanced error message formatting with actionable suggestions.
package errmsg

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/tsukumogami/versions/internal/version"
)

// ErrorContext provides additional context for error formatting
type ErrorContext struct {
	Identifier string // The identifier being looked up (for suggestions)
}

// Format returns a formatted error message with possible causes and suggestions.
// The context parameter is optional - pass nil for generic formatting.
func Format(err error, ctx *ErrorContext) string {
	if err == nil {
		return ""
	}

	var exhausted *version.ExhaustedError
	if errors.As(err, &exhausted) {
		return formatExhaustedError(exhausted, ctx)
	}

	if errors.Is(err, version.ErrNoMirrors) {
		return formatNoMirrorsError(err)
	}

	var resolverErr *version.ResolverError
	if errors.As(err, &resolverErr) {
		return formatResolverError(err.Error(), resolverErr)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return formatNetworkError(netErr)
	}

	return err.Error()
}

// Fprint writes the formatted error to w, prefixed with "Error: ".
func Fprint(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "Error: %s\n", strings.TrimRight(Format(err, nil), "\n"))
}

// FprintWithContext is like Fprint with an ErrorContext.
func FprintWithContext(w io.Writer, err error, ctx *ErrorContext) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "Error: %s\n", strings.TrimRight(Format(err, ctx), "\n"))
}

func formatExhaustedError(err *version.ExhaustedError, ctx *ErrorContext) string {
	var sb strings.Builder
	sb.WriteString("the version service is unreachable: ")
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	if len(err.Attempts) > 1 {
		sb.WriteString("\nMirrors tried:\n")
		for _, a := range err.Attempts {
			fmt.Fprintf(&sb, "  - %s: %v\n", a.URL, a.Err)
		}
	}

	sb.WriteString("\nThis does not mean ")
	if ctx != nil && ctx.Identifier != "" {
		fmt.Fprintf(&sb, "%q", ctx.Identifier)
	} else {
		sb.WriteString("the identifier")
	}
	sb.WriteString(" is unknown; no manifest could be retrieved.\n")

	var last *version.ResolverError
	if errors.As(err.Last(), &last) {
		writeCausesAndSuggestions(&sb, last)
	} else {
		sb.WriteString("\nSuggestions:\n")
		sb.WriteString("  - Check your internet connection\n")
		sb.WriteString("  - Try again in a few minutes\n")
	}

	return sb.String()
}

func formatNoMirrorsError(err error) string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n")
	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Pass --mirror <url>, set VERSIONS_MIRRORS, or run 'versions config set mirrors <url>'\n")
	return sb.String()
}

func formatResolverError(msg string, err *version.ResolverError) string {
	var sb strings.Builder
	sb.WriteString(msg)
	sb.WriteString("\n")
	writeCausesAndSuggestions(&sb, err)
	return sb.String()
}

func writeCausesAndSuggestions(sb *strings.Builder, err *version.ResolverError) {
	switch err.Type {
	case version.ErrTypeDecode:
		sb.WriteString("\nPossible causes:\n")
		sb.WriteString("  - The mirror serves a manifest that is not a flat TOML table\n")
		sb.WriteString("  - An entry is not a valid semantic version (MAJOR.MINOR.PATCH)\n")
		sb.WriteString("  - A compressed mirror URL serves uncompressed data\n")

	case version.ErrTypeTimeout:
		sb.WriteString("\nPossible causes:\n")
		sb.WriteString("  - Request timed out\n")
		sb.WriteString("  - Slow or unstable network connection\n")

	case version.ErrTypeNotFound:
		sb.WriteString("\nPossible causes:\n")
		sb.WriteString("  - The mirror URL is wrong or the manifest was moved\n")

	case version.ErrTypeRateLimit:
		sb.WriteString("\nPossible causes:\n")
		sb.WriteString("  - Too many requests to the mirror\n")

	default:
		sb.WriteString("\nPossible causes:\n")
		sb.WriteString("  - Network connectivity issue\n")
		sb.WriteString("  - Mirror temporarily unavailable\n")
		sb.WriteString("  - Firewall or proxy blocking the connection\n")
	}

	sb.WriteString("\nSuggestions:\n")
	if s := err.Suggestion(); s != "" {
		fmt.Fprintf(sb, "  - %s\n", s)
	}
	sb.WriteString("  - Add another mirror with --mirror or VERSIONS_MIRRORS\n")
}

func formatNetworkError(err net.Error) string {
	var sb strings.Builder
	sb.WriteString(err.Error())
	sb.WriteString("\n")

	sb.WriteString("\nPossible causes:\n")
	if err.Timeout() {
		sb.WriteString("  - Request timed out\n")
		sb.WriteString("  - Slow or unstable network connection\n")
	} else {
		sb.WriteString("  - Network connectivity issue\n")
		sb.WriteString("  - DNS resolution failure\n")
	}

	sb.WriteString("\nSuggestions:\n")
	sb.WriteString("  - Check your internet connection\n")
	sb.WriteString("  - Try again in a few minutes\n")

	return sb.String()
}
