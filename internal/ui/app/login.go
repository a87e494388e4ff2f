// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pocketstudio/internal/nav"
	"github.com/jeranaias/pocketstudio/internal/profile"
	"github.com/jeranaias/pocketstudio/internal/ui/components"
)

var loginOptions = []struct {
	identity profile.Identity
	label    string
}{
	{profile.GoogleIdentity, "Continue with Google"},
	{profile.EmailIdentity, "Sign in with email"},
}

// =============================================================================
// LOGIN
// =============================================================================

func (m *Model) updateLogin(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Left):
		m.loginCursor = (m.loginCursor + len(loginOptions) - 1) % len(loginOptions)
	case key.Matches(msg, m.keys.Down), key.Matches(msg, m.keys.Right):
		m.loginCursor = (m.loginCursor + 1) % len(loginOptions)
	case key.Matches(msg, m.keys.LoginGoogle):
		return m.login(profile.GoogleIdentity)
	case key.Matches(msg, m.keys.LoginEmail):
		return m.login(profile.EmailIdentity)
	case key.Matches(msg, m.keys.Select):
		return m.login(loginOptions[m.loginCursor].identity)
	}
	return nil
}

func (m *Model) login(id profile.Identity) tea.Cmd {
	showOnboarding, err := m.profiles.Login(id)
	if err != nil {
		m.logger.Warn("saving profile after login failed", "error", err)
	}
	m.logger.Info("signed in", "provider", id.Provider, "onboarding", showOnboarding)
	m.applyProfile(m.profiles.Profile())

	action := nav.ActionLoggedIn
	if showOnboarding {
		m.onboardingPage = 0
		action = nav.ActionLoggedInFirstTime
	}
	cmd := m.navigate(action)
	if err != nil {
		return tea.Batch(cmd, m.toast(components.ToastKindError, m.tr.T("Could not save your profile")))
	}
	return cmd
}

func (m *Model) viewLogin() string {
	logo := m.theme.Title.Render("◆ AI Studio")
	subtitle := m.theme.Subtitle.Render(m.tr.T("Your pocket AI assistant"))

	buttons := make([]string, 0, len(loginOptions))
	for i, opt := range loginOptions {
		style := m.theme.ButtonAlt
		if i == m.loginCursor {
			style = m.theme.Button
		}
		buttons = append(buttons, style.Width(32).Align(lipgloss.Center).Render(m.tr.T(opt.label)))
	}

	return m.theme.Card.Render(lipgloss.JoinVertical(lipgloss.Center,
		logo,
		subtitle,
		"",
		lipgloss.JoinVertical(lipgloss.Center, buttons...),
		"",
		m.theme.Muted.Render(m.tr.T("No password needed. This is a demo sign-in.")),
	))
}
