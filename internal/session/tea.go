// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	tea "github.com/charmbracelet/bubbletea"
)

// ChangedMsg is delivered to a Bubble Tea program after a store mutation.
type ChangedMsg struct {
	Event Event
}

// Watcher forwards store events to a Bubble Tea update loop.
type Watcher struct {
	ch    chan Event
	unsub func()
}

// Watch subscribes to s. Events beyond a backlog of 64 are dropped;
// receivers re-read the snapshot on every ChangedMsg.
func Watch(s *Store) *Watcher {
	w := &Watcher{ch: make(chan Event, 64)}
	w.unsub = s.Subscribe(func(ev Event) {
		select {
		case w.ch <- ev:
		default:
		}
	})
	return w
}

// Next returns a command that waits for the following event.
func (w *Watcher) Next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-w.ch
		if !ok {
			return nil
		}
		return ChangedMsg{Event: ev}
	}
}

// Stop unsubscribes from the store.
func (w *Watcher) Stop() {
	w.unsub()
}
