// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

// State is the position of the most recent send in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateSessionResolved
	StateUserMessageAppended
	StateStreaming
	StateFolding
	StateSettled
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSessionResolved:
		return "session-resolved"
	case StateUserMessageAppended:
		return "user-message-appended"
	case StateStreaming:
		return "streaming"
	case StateFolding:
		return "folding"
	case StateSettled:
		return "settled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

