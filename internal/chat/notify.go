// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "time"

// Level is the severity of a Notification.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelError
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is a user-visible message.
type Notification struct {
	Level   Level
	Message string
	Err     error
	At      time.Time
}

// Notifier receives notifications. Implementations must not block.
type Notifier interface {
	Notify(Notification)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notification)

// Notify implements Notifier.
func (f NotifierFunc) Notify(n Notification) { f(n) }

// Notifications buffers notifications on a channel for a UI loop to drain.
// When the buffer is full new notifications are dropped.
type Notifications struct {
	ch chan Notification
}

// NewNotifications returns an adapter with the given buffer size.
func NewNotifications(size int) *Notifications {
	if size < 1 {
		size = 1
	}
	return &Notifications{ch: make(chan Notification, size)}
}

// Notify implements Notifier.
func (n *Notifications) Notify(note Notification) {
	select {
	case n.ch <- note:
	default:
	}
}

// C returns the receive side.
func (n *Notifications) C() <-chan Notification { return n.ch }

type discard struct{}

func (discard) Notify(Notification) {}
