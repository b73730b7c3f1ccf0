package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsukumogami/versions/internal/errmsg"
)

// isTruthy returns true if the value represents a truthy boolean.
func isTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// printJSON marshals the given value to JSON and writes it to w.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// printError writes err to w with causes and suggestions when available.
func printError(w io.Writer, err error) {
	var ee *exitError
	if errors.As(err, &ee) {
		if ee.reported || ee.err == nil {
			return
		}
		errmsg.FprintWithContext(w, ee.err, &errmsg.ErrorContext{Identifier: ee.identifier})
		return
	}
	errmsg.Fprint(w, err)
}

// wrapArgs marks argument validation failures as usage errors.
func wrapArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}
