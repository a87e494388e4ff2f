// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pocketstudio/internal/nav"
	"github.com/jeranaias/pocketstudio/internal/profile"
	"github.com/jeranaias/pocketstudio/internal/ui/components"
)

func (m *Model) updateFeedback(msg tea.KeyMsg) tea.Cmd {
	if m.feedbackSent {
		switch {
		case key.Matches(msg, m.keys.Select):
			m.feedbackSent = false
			return m.focusScreen()
		case key.Matches(msg, m.keys.Back):
			return m.navigate(nav.ActionBack)
		}
		return nil
	}

	switch {
	case key.Matches(msg, m.keys.Send):
		return m.submitFeedback()
	case key.Matches(msg, m.keys.Back):
		return m.navigate(nav.ActionBack)
	}
	var cmd tea.Cmd
	m.feedback, cmd = m.feedback.Update(msg)
	return cmd
}

func (m *Model) submitFeedback() tea.Cmd {
	_, err := m.profiles.SubmitFeedback(m.feedback.Value())
	switch {
	case errors.Is(err, profile.ErrEmptyFeedback):
		return m.toast(components.ToastKindInfo, m.tr.T("Please write something first"))
	case err != nil:
		m.logger.Warn("saving feedback failed", "error", err)
		return m.toast(components.ToastKindError, m.tr.T("Could not send feedback"))
	}

	m.feedback.Reset()
	m.feedback.Blur()
	m.feedbackSent = true
	m.bannerSeq++
	seq := m.bannerSeq
	return tea.Tick(FeedbackBannerDuration, func(time.Time) tea.Msg { return bannerExpiredMsg{seq: seq} })
}

func (m *Model) viewFeedback() string {
	width := min(max(m.width-4, 30), 74)
	if m.feedbackSent {
		return m.theme.Banner.Width(width).Render(lipgloss.JoinVertical(lipgloss.Center,
			m.theme.Title.Render("✓ "+m.tr.T("Thanks! Your feedback was sent.")),
			"",
			m.theme.Muted.Render(m.tr.T("Press Enter to send another")),
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Title.Render(m.tr.T("Send feedback")),
		m.theme.Muted.Render(m.tr.T("What works well? What should we improve?")),
		"",
		m.theme.InputBoxActive.Render(m.feedback.View()),
	)
}
