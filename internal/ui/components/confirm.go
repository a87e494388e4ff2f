// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pocketstudio/internal/ui/styles"
)

// ConfirmResult is sent when the dialog closes.
type ConfirmResult struct {
	ID        string
	Confirmed bool
}

// Confirm is a modal yes/no dialog. "No" is preselected so a stray Enter
// never confirms a destructive action.
type Confirm struct {
	id       string
	prompt   string
	yes, no  string
	visible  bool
	selected int // 0 = yes, 1 = no
	theme    *styles.Theme
}

// NewConfirm creates a hidden dialog.
func NewConfirm(theme *styles.Theme) *Confirm {
	return &Confirm{theme: theme, selected: 1}
}

// Show opens the dialog. id is echoed in the ConfirmResult.
func (c *Confirm) Show(id, prompt, yes, no string) {
	c.id, c.prompt, c.yes, c.no = id, prompt, yes, no
	c.visible = true
	c.selected = 1
}

// Visible reports whether the dialog is open.
func (c *Confirm) Visible() bool { return c.visible }

// Update handles keys while visible. handled is false when the dialog is
// closed and the key belongs to the caller.
func (c *Confirm) Update(msg tea.Msg) (cmd tea.Cmd, handled bool) {
	if !c.visible {
		return nil, false
	}
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil, false
	}
	switch km.String() {
	case "left", "right", "tab", "shift+tab", "h", "l":
		c.selected = 1 - c.selected
	case "y":
		return c.close(true), true
	case "n", "esc":
		return c.close(false), true
	case "enter", " ":
		return c.close(c.selected == 0), true
	}
	return nil, true
}

func (c *Confirm) close(confirmed bool) tea.Cmd {
	c.visible = false
	res := ConfirmResult{ID: c.id, Confirmed: confirmed}
	return func() tea.Msg { return res }
}

// View renders the dialog centered in width x height.
func (c *Confirm) View(width, height int) string {
	if !c.visible {
		return ""
	}
	yes, no := c.theme.ButtonAlt.Render(c.yes), c.theme.Button.Render(c.no)
	if c.selected == 0 {
		yes, no = c.theme.Button.Render(c.yes), c.theme.ButtonAlt.Render(c.no)
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Center, yes, "  ", no)
	box := c.theme.Dialog.Render(lipgloss.JoinVertical(lipgloss.Center,
		c.theme.Title.Render(c.prompt), "", buttons))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
