// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the canonical collection of chat sessions.
//
// The Store keeps an immutable snapshot of the collection: every mutation
// builds a new slice that shares unchanged sessions and messages with the
// previous snapshot, persists the whole collection through a storage.KV and
// notifies subscribers. Readers may hold a snapshot returned by List or Get
// for as long as they like but must not modify it.
//
// Sessions are ordered newest first.
package session
