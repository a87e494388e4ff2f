// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Error types returned by the commands.
//
// Commands always return errors and never print them; main prints
// "Error: ..." and exits non-zero.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError represents invalid user input.
type ValidationError struct {
	Field   string
	Value   string
	Reason  string
	Example string
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Value != "" {
		msg += fmt.Sprintf(" (got: %s)", e.Value)
	}
	if e.Example != "" {
		msg += fmt.Sprintf("\nExample: %s", e.Example)
	}
	return msg
}

// NotFoundError represents a missing resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrMissingArgument reports a missing required argument.
func ErrMissingArgument(argName, usage string) error {
	return &ValidationError{Field: argName, Reason: "required argument missing", Example: usage}
}

// ErrUnsupportedFormat reports an unknown export format.
func ErrUnsupportedFormat(format string, supported []string) error {
	return &ValidationError{
		Field:   "format",
		Value:   format,
		Reason:  "unsupported format",
		Example: "supported formats: " + strings.Join(supported, ", "),
	}
}

// ErrUnknownSubcommand reports an unknown subcommand.
func ErrUnknownSubcommand(command, sub string, known []string) error {
	reason := "unknown subcommand"
	if s := suggest(sub, known); s != "" {
		reason += fmt.Sprintf(" (did you mean %q?)", s)
	}
	return &ValidationError{
		Field:   command + " subcommand",
		Value:   sub,
		Reason:  reason,
		Example: "pocketstudio " + command + " [" + strings.Join(known, "|") + "]",
	}
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFoundError reports whether err is a NotFoundError.
func IsNotFoundError(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
