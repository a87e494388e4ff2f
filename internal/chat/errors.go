// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// ValidationError rejects a send before any state changes. The UI ignores
// it silently.
type ValidationError struct {
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "send rejected: " + e.Reason
}

// Is implements errors.Is support for comparing validation errors.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Reason == t.Reason
}

var (
	// ErrEmptyInput rejects a send with neither text nor image.
	ErrEmptyInput = &ValidationError{Reason: "empty input"}

	// ErrBusy rejects a send while another is in flight.
	ErrBusy = &ValidationError{Reason: "a reply is already streaming"}
)
