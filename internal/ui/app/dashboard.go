// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pocketstudio/internal/audio"
	"github.com/jeranaias/pocketstudio/internal/export"
	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/provider"
	"github.com/jeranaias/pocketstudio/internal/ui/components"
)

// =============================================================================
// DASHBOARD UPDATE
// =============================================================================

func (m *Model) updateDashboard(msg tea.KeyMsg) tea.Cmd {
	if m.attaching {
		return m.updateAttach(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Send):
		return m.send()

	case key.Matches(msg, m.keys.Cancel):
		if m.reducer.Cancel() {
			m.logger.Debug("reply canceled by user")
		}
		return nil

	case key.Matches(msg, m.keys.NewChat):
		if m.reducer.Thinking() {
			return nil
		}
		m.reducer.StartNewChat()
		m.input.Reset()
		m.refreshChat()
		return nil

	case key.Matches(msg, m.keys.AttachImage):
		m.attaching = true
		m.pathInput.SetValue("")
		m.layout()
		return m.focusScreen()

	case key.Matches(msg, m.keys.ClearImage):
		m.reducer.ClearImage()
		m.layout()
		return nil

	case key.Matches(msg, m.keys.CopyReply):
		return m.copyReply()

	case key.Matches(msg, m.keys.SpeakReply):
		return m.speakReply()

	case key.Matches(msg, m.keys.Share):
		return m.share()

	case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.layout()
	return cmd
}

func (m *Model) updateAttach(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.attaching = false
		m.layout()
		return m.focusScreen()
	case tea.KeyEnter:
		path := strings.Trim(strings.TrimSpace(m.pathInput.Value()), `"'`)
		if path == "" {
			return nil
		}
		if err := m.reducer.AttachImageFile(path); err != nil {
			m.logger.Warn("attach image failed", "path", path, "error", err)
			return m.toast(components.ToastKindError, m.tr.T("Could not attach image: %v", err))
		}
		m.attaching = false
		m.layout()
		return tea.Batch(m.focusScreen(), m.toast(components.ToastKindSuccess, m.tr.T("Image attached")))
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return cmd
}

// send starts a send on a background command. Empty input and a busy
// reducer are ignored here so the field is only cleared for real sends.
func (m *Model) send() tea.Cmd {
	text := m.input.Value()
	image := m.reducer.Image()
	if strings.TrimSpace(text) == "" && image == "" {
		return nil
	}
	if m.sending || m.reducer.Thinking() {
		return nil
	}
	m.sending = true
	m.input.Reset()
	m.layout()

	r, ctx := m.reducer, m.ctx
	run := func() tea.Msg {
		res, err := r.Send(ctx, text, image)
		return sendDoneMsg{result: res, err: err}
	}
	return tea.Batch(run, m.spinner.Tick)
}

// lastReply returns the newest non-empty reply of the active session.
func (m *Model) lastReply() (model.Message, bool) {
	s, ok := m.reducer.Active()
	if !ok {
		return model.Message{}, false
	}
	msg, ok := s.LastReply()
	if !ok || strings.TrimSpace(msg.Text) == "" {
		return model.Message{}, false
	}
	return msg, true
}

func (m *Model) copyReply() tea.Cmd {
	msg, ok := m.lastReply()
	if !ok {
		return m.toast(components.ToastKindInfo, m.tr.T("Nothing to copy yet"))
	}
	if err := m.copyText(msg.Text); err != nil {
		m.logger.Warn("clipboard write failed", "error", err)
		return m.toast(components.ToastKindError, m.tr.T("Clipboard is not available"))
	}
	return m.toast(components.ToastKindSuccess, m.tr.T("Reply copied"))
}

func (m *Model) speakReply() tea.Cmd {
	if m.speaker == nil {
		return m.toast(components.ToastKindError, m.tr.T("Speech is not available"))
	}
	if m.speaker.Stop() {
		return nil
	}
	msg, ok := m.lastReply()
	if !ok {
		return m.toast(components.ToastKindInfo, m.tr.T("Nothing to read aloud yet"))
	}
	sp, ctx, text := m.speaker, m.ctx, msg.Text
	return tea.Batch(
		m.toast(components.ToastKindInfo, m.tr.T("Speaking…")),
		func() tea.Msg { return speakDoneMsg{err: sp.Speak(ctx, text)} },
	)
}

// speakFailed turns a playback error into a toast. Interruptions are quiet.
func (m *Model) speakFailed(err error) tea.Cmd {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	m.logger.Warn("speech failed", "error", err)
	var pe *provider.ProviderError
	if errors.As(err, &pe) {
		return m.toast(components.ToastKindError, m.tr.T(pe.UserMessage()))
	}
	if errors.Is(err, audio.ErrNoOutput) {
		return m.toast(components.ToastKindError, m.tr.T("No audio player found"))
	}
	return m.toast(components.ToastKindError, m.tr.T("Could not play audio"))
}

func (m *Model) share() tea.Cmd {
	s, ok := m.reducer.Active()
	if !ok || len(s.Messages) == 0 {
		return m.toast(components.ToastKindInfo, m.tr.T("Nothing to share yet"))
	}
	opts := export.DefaultOptions()
	opts.OutputDir = m.exportDir
	return func() tea.Msg {
		exp, err := export.ForFormat("markdown", opts)
		if err != nil {
			return shareDoneMsg{err: err}
		}
		path, err := export.ExportToFile(&s, exp, opts)
		if err == nil {
			if abs, aerr := filepath.Abs(path); aerr == nil {
				path = abs
			}
		}
		return shareDoneMsg{path: path, err: err}
	}
}

// =============================================================================
// DASHBOARD VIEW
// =============================================================================

// refreshChat re-renders the transcript into the viewport, keeping the
// scroll pinned to the bottom when it already was.
func (m *Model) refreshChat() {
	if !m.ready || m.screen != model.ScreenDashboard {
		return
	}
	atBottom := m.viewport.AtBottom() || m.viewport.TotalLineCount() <= m.viewport.Height

	s, ok := m.reducer.Active()
	if !ok {
		m.viewport.SetContent(m.emptyChatView())
		m.viewport.GotoTop()
		return
	}
	thinking := ""
	if m.reducer.Thinking() {
		thinking = m.spinner.View() + " " + m.tr.T("Thinking…")
	}
	m.viewport.SetContent(m.messages.View(s, max(m.viewport.Width-2, 10), thinking))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

func (m *Model) emptyChatView() string {
	p := m.profiles.Profile()
	card := lipgloss.JoinVertical(lipgloss.Center,
		m.theme.Title.Render(m.tr.T("Hello, %s", p.Name)),
		m.theme.Subtitle.Render(m.tr.T("How can I help you today?")),
		"",
		m.theme.Muted.Render(m.tr.T("Type a message or attach an image to start")),
	)
	return lipgloss.Place(m.viewport.Width, m.viewport.Height, lipgloss.Center, lipgloss.Center, m.theme.Card.Render(card))
}

func (m *Model) composerView() string {
	var lines []string
	if img := m.reducer.Image(); img != "" {
		lines = append(lines, m.theme.ImageChip.Render(components.ImageLabel(img))+" "+
			m.theme.Muted.Render(m.tr.T("C-x to remove")))
	}
	if m.attaching {
		lines = append(lines, m.theme.InputBoxActive.Width(max(m.width-2, 10)).Render(m.pathInput.View()))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}
	box := m.theme.InputBox
	if m.input.Focused() {
		box = m.theme.InputBoxActive
	}
	lines = append(lines, box.Width(max(m.width-2, 10)).Render(m.input.View()))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m *Model) viewDashboard() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), m.composerView())
}
