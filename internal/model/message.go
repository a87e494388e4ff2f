// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleModel:
		return "Assistant"
	default:
		return string(r)
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModel
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a chat session.
type Message struct {
	ID        string `json:"id"`
	Role      Role   `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`

	// Image is a data URL ("data:<mime>;base64,<payload>"). Only user
	// messages carry one.
	Image string `json:"image,omitempty"`

	// Failed marks a model reply whose stream broke after partial text.
	Failed bool `json:"failed,omitempty"`
}

// NewMessageID returns a fresh opaque message identifier.
func NewMessageID() string {
	return uuid.NewString()
}

// NowMillis returns the current time as Unix milliseconds.
func NowMillis() int64 {
	return time.Now().UnixMilli()
}

// NewUserMessage creates a user message stamped with the current time.
func NewUserMessage(text, image string) Message {
	return Message{
		ID:        NewMessageID(),
		Role:      RoleUser,
		Text:      text,
		Image:     image,
		Timestamp: NowMillis(),
	}
}

// NewModelMessage creates an empty model reply used as a fold target while
// a stream is in flight.
func NewModelMessage() Message {
	return Message{
		ID:        NewMessageID(),
		Role:      RoleModel,
		Timestamp: NowMillis(),
	}
}

// HasImage reports whether the message carries an image attachment.
func (m Message) HasImage() bool {
	return m.Image != ""
}

// Time returns the message timestamp as a time.Time.
func (m Message) Time() time.Time {
	return time.UnixMilli(m.Timestamp)
}
