// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the key-value persistence port used by
// pocketstudio for sessions, the user profile, the onboarding flag and
// feedback entries.
//
// Three backends implement KV:
//
//   - FileKV: one JSON file per key, written atomically with fsync
//   - SQLiteKV: a single kv table in a pure-Go SQLite database
//   - MemoryKV: process-local map for tests and --ephemeral runs
//
// Blobs are opaque bytes to the backends. LoadJSON decodes and validates a
// blob against a JSON schema; callers treat any failure as "no data".
package storage
