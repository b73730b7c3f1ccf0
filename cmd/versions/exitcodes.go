package main

import (
	"errors"

	"github.com/tsukumogami/versions/internal/version"
)

// Exit codes for different error types.
// These enable scripts to distinguish between failure modes.
const (
	// ExitSuccess indicates the identifier was found
	ExitSuccess = 0

	// ExitGeneral indicates a general error
	ExitGeneral = 1

	// ExitUsage indicates invalid arguments, flags or configuration values
	ExitUsage = 2

	// ExitNetwork indicates no mirror could supply a manifest
	ExitNetwork = 3

	// ExitNotFound indicates the manifest was retrieved but does not list the identifier
	ExitNotFound = 4
)

// exitError carries the exit code for an error returned from a command.
type exitError struct {
	code       int
	err        error
	identifier string // for error formatting, when known
	reported   bool   // already written to stderr
}

func (e *exitError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError(err error) error {
	return &exitError{code: ExitUsage, err: err}
}

// exitCodeFor maps an error returned by Execute to a process exit code.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}

	if errors.Is(err, version.ErrExhausted) || errors.Is(err, version.ErrNoMirrors) || version.IsNetwork(err) || version.IsDecode(err) {
		return ExitNetwork
	}

	return ExitGeneral
}
