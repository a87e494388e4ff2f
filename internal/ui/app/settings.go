// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/nav"
	"github.com/jeranaias/pocketstudio/internal/ui/components"
	"github.com/jeranaias/pocketstudio/internal/ui/i18n"
	"github.com/jeranaias/pocketstudio/internal/util"
)

const (
	settingDark = iota
	settingFont
	settingLanguage
	settingCount
)

func (m *Model) updateSettings(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.settingsCursor > 0 {
			m.settingsCursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.settingsCursor < settingCount-1 {
			m.settingsCursor++
		}
	case key.Matches(msg, m.keys.Select):
		return m.changeSetting(m.settingsCursor)
	case key.Matches(msg, m.keys.ToggleDark):
		return m.changeSetting(settingDark)
	case key.Matches(msg, m.keys.CycleFont):
		return m.changeSetting(settingFont)
	case key.Matches(msg, m.keys.ToggleLang):
		return m.changeSetting(settingLanguage)
	case key.Matches(msg, m.keys.Back):
		return m.navigate(nav.ActionBack)
	}
	return nil
}

func (m *Model) changeSetting(which int) tea.Cmd {
	var (
		p   model.UserProfile
		err error
	)
	switch which {
	case settingDark:
		p, err = m.profiles.ToggleDarkMode()
	case settingFont:
		p, err = m.profiles.CycleFontSize()
	case settingLanguage:
		p, err = m.profiles.ToggleLanguage()
	default:
		return nil
	}
	m.settingsCursor = which
	m.applyProfile(p)
	if err != nil {
		m.logger.Warn("saving settings failed", "error", err)
		return m.toast(components.ToastKindError, m.tr.T("Could not save settings"))
	}
	return nil
}

func (m *Model) viewSettings() string {
	p := m.profiles.Profile()
	width := min(max(m.width-4, 30), 70)

	onOff := m.tr.T("Off")
	if p.DarkMode {
		onOff = m.tr.T("On")
	}
	if m.cfg.UI.Theme != "profile" && m.cfg.UI.Theme != "" {
		onOff += " " + m.theme.Muted.Render(m.tr.T("(overridden by config)"))
	}

	rows := []struct{ label, value, hint string }{
		{m.tr.T("Dark mode"), onOff, "d"},
		{m.tr.T("Font size"), m.tr.T(fontLabel(p.FontSize)), "f"},
		{m.tr.T("Language"), i18n.LanguageName(p.Language), "L"},
	}

	lines := []string{m.theme.Subtitle.Render(m.tr.T("Appearance")), ""}
	for i, r := range rows {
		label := util.PadRight(r.label, 16)
		line := label + m.theme.Selected.Render(r.value) + "  " + m.theme.Muted.Render("["+r.hint+"]")
		if i == m.settingsCursor {
			line = m.theme.Selected.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}

	sample := m.theme.ModelBubble.Width(m.theme.BubbleWidth(m.cfg.UI.WordWrap) / 2).
		Render(m.tr.T("Preview: this is how replies look."))

	return lipgloss.JoinVertical(lipgloss.Left,
		m.theme.Card.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
		"",
		sample,
	)
}

func fontLabel(fs model.FontSize) string {
	switch fs {
	case model.FontSmall:
		return "Small"
	case model.FontLarge:
		return "Large"
	}
	return "Medium"
}
