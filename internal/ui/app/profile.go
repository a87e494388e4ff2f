// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pocketstudio/internal/nav"
	"github.com/jeranaias/pocketstudio/internal/ui/i18n"
	"github.com/jeranaias/pocketstudio/internal/util"
)

const confirmClearHistory = "clear-history"

func (m *Model) updateProfile(msg tea.KeyMsg) tea.Cmd {
	n := m.sessions.Len()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.profileCursor > 0 {
			m.profileCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.profileCursor < n-1 {
			m.profileCursor++
		}
	case key.Matches(msg, m.keys.Select):
		list := m.sessions.List()
		if m.profileCursor >= len(list) {
			return nil
		}
		if !m.reducer.Select(list[m.profileCursor].ID) {
			return nil
		}
		return m.navigate(nav.ActionOpenSession)
	case key.Matches(msg, m.keys.ClearHistory):
		if n == 0 {
			return nil
		}
		m.confirm.Show(confirmClearHistory,
			m.tr.T("Delete all %d chats? This cannot be undone.", n),
			m.tr.T("Delete"), m.tr.T("Cancel"))
	case key.Matches(msg, m.keys.Logout):
		m.reducer.Cancel()
		m.reducer.Deselect()
		m.logger.Info("signed out")
		return m.navigate(nav.ActionLogout)
	case key.Matches(msg, m.keys.Back):
		return m.navigate(nav.ActionBack)
	}
	return nil
}

func (m *Model) clampCursors() {
	if n := m.sessions.Len(); m.profileCursor >= n {
		m.profileCursor = max(n-1, 0)
	}
}

func (m *Model) viewProfile() string {
	p := m.profiles.Profile()
	width := min(max(m.width-4, 30), 80)

	card := m.theme.Card.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Center,
		m.theme.Avatar.Render(p.Initial()),
		"  ",
		lipgloss.JoinVertical(lipgloss.Left,
			m.theme.Title.Render(p.Name),
			m.theme.Muted.Render(p.Email),
			m.theme.Muted.Render(i18n.LanguageName(p.Language)),
		),
	))

	list := m.sessions.List()
	rows := []string{m.theme.Subtitle.Render(m.tr.T("Recent chats"))}
	if len(list) == 0 {
		rows = append(rows, m.theme.Muted.Render(m.tr.T("No chats yet")))
	}
	titleWidth := max(width-28, 8)
	for i, s := range list {
		meta := fmt.Sprintf("%s · %s", s.Created().Format("2006-01-02"), m.tr.T("%d messages", len(s.Messages)))
		line := util.PadRight(util.TruncateWidth(s.Title, titleWidth), titleWidth) + "  " + m.theme.Muted.Render(meta)
		if i == m.profileCursor {
			line = m.theme.Selected.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		rows = append(rows, line)
	}

	actions := lipgloss.JoinHorizontal(lipgloss.Center,
		m.theme.Danger.Render("x "+m.tr.T("Clear history")),
		"   ",
		m.theme.Muted.Render("o "+m.tr.T("Log out")),
	)

	return lipgloss.JoinVertical(lipgloss.Left, card, "", lipgloss.JoinVertical(lipgloss.Left, rows...), "", actions)
}
