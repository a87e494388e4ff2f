// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Well-known keys.
const (
	KeySessions   = "ai_studio_sessions"
	KeyUser       = "ai_studio_user"
	KeyOnboarding = "has_seen_onboarding"
	KeyFeedback   = "ai_studio_feedback"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// KV is a string-keyed blob store. Implementations must be safe for
// concurrent use.
type KV interface {
	// Load returns the blob for key. ok is false when the key is absent.
	Load(key string) (data []byte, ok bool, err error)
	// Save replaces the blob for key.
	Save(key string, data []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
	// Close releases backend resources.
	Close() error
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrInvalidKey is returned for keys outside [a-z0-9_].
	ErrInvalidKey = errors.New("invalid storage key")

	// ErrUnknownBackend is returned by Open for unrecognized backend names.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("storage closed")
)

// Error describes a failed backend operation.
type Error struct {
	Op  string
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

var keyPattern = regexp.MustCompile(`^[a-z0-9_]{1,64}$`)

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// =============================================================================
// OPEN
// =============================================================================

// Open returns the backend named by backend, rooted at dir. dir is ignored
// for the memory backend.
func Open(backend, dir string) (KV, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		return NewFileKV(dir)
	case BackendSQLite:
		return NewSQLiteKV(filepath.Join(dir, "pocketstudio.db"))
	case BackendMemory:
		return NewMemoryKV(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// DefaultDir returns ~/.pocketstudio/data.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".pocketstudio", "data"), nil
}
