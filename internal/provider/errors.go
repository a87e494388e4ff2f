// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("provider API key not configured")

	// ErrAuthFailed indicates the key was rejected.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the requested model does not exist.
	ErrModelNotFound = errors.New("model not found")

	// ErrInvalidImage indicates a malformed data URL.
	ErrInvalidImage = errors.New("invalid image data URL")
)

// ProviderError is a transport failure or a rejection by the remote service.
type ProviderError struct {
	Provider string
	Op       string // "stream", "synthesize"
	Status   int    // HTTP status, 0 for transport errors
	Message  string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Provider)
	sb.WriteString(" ")
	sb.WriteString(e.Op)
	if e.Status != 0 {
		fmt.Fprintf(&sb, " (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	if e.Message != "" && (e.Err == nil || !strings.Contains(e.Err.Error(), e.Message)) {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	return sb.String()
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error { return e.Err }

// UserMessage returns a short explanation suitable for a toast.
func (e *ProviderError) UserMessage() string {
	switch {
	case errors.Is(e, ErrNotConfigured):
		return "No API key configured. Set GEMINI_API_KEY or run 'pocketstudio config init'."
	case errors.Is(e, ErrAuthFailed):
		return "The API key was rejected."
	case errors.Is(e, ErrRateLimited):
		return "Too many requests. Please wait a moment."
	case errors.Is(e, ErrModelNotFound):
		return "The configured model does not exist."
	case errors.Is(e, context.DeadlineExceeded):
		return "The request timed out."
	default:
		return "Something went wrong talking to the assistant. Please try again."
	}
}

type apiErrorBody struct {
	Error struct {
		Code    json.RawMessage `json:"code"`
		Message string          `json:"message"`
		Status  string          `json:"status"`
	} `json:"error"`
}

// FromResponse maps a non-2xx response to a *ProviderError. body may be
// nil.
func FromResponse(providerName, op string, status int, body []byte) *ProviderError {
	pe := &ProviderError{Provider: providerName, Op: op, Status: status}

	var apiErr apiErrorBody
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		pe.Message = apiErr.Error.Message
	} else if len(body) > 0 {
		pe.Message = strings.TrimSpace(string(body))
		if len(pe.Message) > 200 {
			pe.Message = pe.Message[:200]
		}
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		pe.Err = ErrAuthFailed
	case http.StatusNotFound:
		pe.Err = ErrModelNotFound
	case http.StatusTooManyRequests:
		pe.Err = ErrRateLimited
	case http.StatusBadRequest:
		// Gemini reports bad keys as INVALID_ARGUMENT.
		if strings.Contains(strings.ToLower(pe.Message), "api key") {
			pe.Err = ErrAuthFailed
		}
	}
	return pe
}

// Transport wraps a network-level failure.
func Transport(providerName, op string, err error) *ProviderError {
	return &ProviderError{Provider: providerName, Op: op, Err: err}
}

// NotConfigured returns the error for a missing API key.
func NotConfigured(providerName, op string) *ProviderError {
	return &ProviderError{Provider: providerName, Op: op, Err: ErrNotConfigured}
}
