// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pocketstudio/internal/ui/styles"
)

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	ToastKindInfo ToastKind = iota
	ToastKindSuccess
	ToastKindError
)

// Auto-dismiss durations.
const (
	DefaultToastDuration = 3 * time.Second
	ErrorToastDuration   = 6 * time.Second
)

// Toast is a transient notification drawn above the navigation bar.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// Expired reports whether the toast should be dismissed at now.
func (t Toast) Expired(now time.Time) bool {
	return now.Sub(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager keeps the visible toasts, newest first. It is owned by the
// Bubble Tea model and is not safe for concurrent use.
type ToastManager struct {
	toasts    []Toast
	nextID    int
	maxToasts int
	now       func() time.Time
}

// NewToastManager creates a new toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{nextID: 1, maxToasts: 3, now: time.Now}
}

// Add shows a toast and returns the tick command that dismisses it.
func (m *ToastManager) Add(kind ToastKind, message string) tea.Cmd {
	d := DefaultToastDuration
	if kind == ToastKindError {
		d = ErrorToastDuration
	}
	t := Toast{ID: m.nextID, Message: message, Kind: kind, CreatedAt: m.now(), Duration: d}
	m.nextID++

	m.toasts = append([]Toast{t}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
	return ToastTickCmd(d)
}

// Tick drops expired toasts.
func (m *ToastManager) Tick() {
	now := m.now()
	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.Expired(now) {
			active = append(active, t)
		}
	}
	m.toasts = active
}

// Dismiss removes all toasts.
func (m *ToastManager) Dismiss() {
	m.toasts = nil
}

// Toasts returns the visible toasts.
func (m *ToastManager) Toasts() []Toast {
	return append([]Toast(nil), m.toasts...)
}

// ToastTickMsg asks the manager to drop expired toasts.
type ToastTickMsg struct{}

// ToastTickCmd fires a ToastTickMsg after d.
func ToastTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return ToastTickMsg{} })
}

// =============================================================================
// TOAST RENDERING
// =============================================================================

// RenderToasts stacks the toasts, newest at the bottom, right-aligned.
func RenderToasts(theme *styles.Theme, toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	maxWidth := min(60, max(width-4, 20))
	lines := make([]string, 0, len(toasts))
	for i := len(toasts) - 1; i >= 0; i-- {
		t := toasts[i]
		style, icon := theme.ToastInfo, styles.StatusIndicators.Info
		switch t.Kind {
		case ToastKindSuccess:
			style, icon = theme.ToastSuccess, styles.StatusIndicators.Success
		case ToastKindError:
			style, icon = theme.ToastError, styles.StatusIndicators.Error
		}
		lines = append(lines, style.MaxWidth(maxWidth).Render(icon+" "+t.Message))
	}
	stack := lipgloss.JoinVertical(lipgloss.Right, lines...)
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, stack)
}
