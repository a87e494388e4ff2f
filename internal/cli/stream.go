// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/session"
)

// replyEcho copies model reply text to w as the store folds fragments in.
type replyEcho struct {
	store *session.Store
	w     io.Writer

	mu      sync.Mutex
	printed map[string]int
	unsub   func()
}

func echoReplies(store *session.Store, w io.Writer) *replyEcho {
	e := &replyEcho{store: store, w: w, printed: make(map[string]int)}
	e.unsub = store.Subscribe(e.handle)
	return e
}

func (e *replyEcho) handle(ev session.Event) {
	if ev.Kind != session.EventUpdated || ev.MessageID == "" {
		return
	}
	s, ok := e.store.Get(ev.SessionID)
	if !ok {
		return
	}
	for _, m := range s.Messages {
		if m.ID != ev.MessageID || m.Role != model.RoleModel {
			continue
		}
		e.mu.Lock()
		if n := e.printed[m.ID]; len(m.Text) > n {
			_, _ = io.WriteString(e.w, m.Text[n:])
			e.printed[m.ID] = len(m.Text)
		}
		e.mu.Unlock()
		return
	}
}

// wrote reports whether any text was echoed.
func (e *replyEcho) wrote() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.printed) > 0
}

func (e *replyEcho) stop() { e.unsub() }

var (
	markdownOnce     sync.Once
	markdownRenderer *glamour.TermRenderer
)

// renderMarkdown renders content for the terminal, or returns it unchanged
// when the renderer cannot be built.
func renderMarkdown(content string) string {
	markdownOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(min(GetTerminalWidth(), 100)),
		)
		if err == nil {
			markdownRenderer = r
		}
	})
	if markdownRenderer == nil {
		return content
	}
	out, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return out
}
