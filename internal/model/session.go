// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// CHAT SESSION
// =============================================================================

// ChatSession holds one conversation with its ordered messages.
type ChatSession struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt int64     `json:"createdAt"`
}

// Created returns the creation timestamp as a time.Time.
func (s ChatSession) Created() time.Time {
	return time.UnixMilli(s.CreatedAt)
}

// MessageCount returns the number of messages in the session.
func (s ChatSession) MessageCount() int {
	return len(s.Messages)
}

// IndexOf returns the position of the message with the given id, or -1.
func (s ChatSession) IndexOf(messageID string) int {
	for i := range s.Messages {
		if s.Messages[i].ID == messageID {
			return i
		}
	}
	return -1
}

// LastReply returns the most recent model message with text.
func (s ChatSession) LastReply() (Message, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		if s.Messages[i].Role == RoleModel && s.Messages[i].Text != "" {
			return s.Messages[i], true
		}
	}
	return Message{}, false
}

// Clone returns a copy whose message slice does not alias s.
func (s ChatSession) Clone() ChatSession {
	out := s
	out.Messages = make([]Message, len(s.Messages))
	copy(out.Messages, s.Messages)
	return out
}
