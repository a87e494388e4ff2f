// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pocketstudio/internal/nav"
)

type onboardingStep struct {
	icon, title, body string
}

var onboardingSteps = []onboardingStep{
	{"◆", "Chat with AI", "Ask questions and get answers that stream in as they are written."},
	{"▣", "Understand images", "Attach a photo and ask about what is in it."},
	{"♪", "Listen to replies", "Have any answer read aloud with a natural voice."},
}

func (m *Model) updateOnboarding(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Skip):
		return m.finishOnboarding()
	case key.Matches(msg, m.keys.Left), key.Matches(msg, m.keys.Up):
		if m.onboardingPage > 0 {
			m.onboardingPage--
		}
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.Select):
		if m.onboardingPage == len(onboardingSteps)-1 {
			return m.finishOnboarding()
		}
		m.onboardingPage++
	}
	return nil
}

func (m *Model) finishOnboarding() tea.Cmd {
	if err := m.profiles.CompleteOnboarding(); err != nil {
		m.logger.Warn("saving onboarding flag failed", "error", err)
	}
	return m.navigate(nav.ActionOnboardingDone)
}

func (m *Model) viewOnboarding() string {
	step := onboardingSteps[m.onboardingPage]

	dots := make([]string, len(onboardingSteps))
	for i := range onboardingSteps {
		if i == m.onboardingPage {
			dots[i] = m.theme.Selected.Render("●")
		} else {
			dots[i] = m.theme.Muted.Render("○")
		}
	}

	next := m.tr.T("Next")
	if m.onboardingPage == len(onboardingSteps)-1 {
		next = m.tr.T("Get started")
	}

	return m.theme.Card.Width(min(max(m.width-8, 30), 60)).Render(lipgloss.JoinVertical(lipgloss.Center,
		m.theme.Title.Render(step.icon),
		m.theme.Title.Render(m.tr.T(step.title)),
		"",
		lipgloss.NewStyle().Width(min(max(m.width-14, 24), 52)).Align(lipgloss.Center).Render(m.tr.T(step.body)),
		"",
		strings.Join(dots, " "),
		"",
		m.theme.Button.Render(next),
	))
}
