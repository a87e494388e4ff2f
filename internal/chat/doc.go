// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat drives one send from user input to a settled reply.
//
// A send moves through these states:
//
//	Idle -> SessionResolved -> UserMessageAppended -> Streaming -> Folding* -> Settled | Failed
//
// The Reducer resolves (or creates) the active session, appends the user
// message, opens a provider stream, appends an empty model message and
// folds each fragment into it through the session store. Only one send may
// be in flight per Reducer; a second is rejected with ErrBusy.
//
// Failures after the stream opened are reported through a Notifier. An
// empty placeholder is removed; a placeholder holding partial text is kept
// and marked failed. Cancel ends the stream early and the send settles with
// whatever text arrived.
package chat
