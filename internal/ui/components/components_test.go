// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/provider"
	"github.com/jeranaias/pocketstudio/internal/ui/i18n"
	"github.com/jeranaias/pocketstudio/internal/ui/styles"
)

func testTheme() *styles.Theme {
	th := styles.NewTheme(false, model.FontMedium)
	th.SetSize(100, 40)
	return th
}

func TestToastManager_AddAndExpire(t *testing.T) {
	now := time.Unix(1000, 0)
	m := NewToastManager()
	m.now = func() time.Time { return now }

	require.NotNil(t, m.Add(ToastKindInfo, "saved"))
	m.Add(ToastKindError, "failed")
	toasts := m.Toasts()
	require.Len(t, toasts, 2)
	assert.Equal(t, "failed", toasts[0].Message, "newest first")
	assert.Equal(t, ErrorToastDuration, toasts[0].Duration)

	now = now.Add(DefaultToastDuration)
	m.Tick()
	toasts = m.Toasts()
	require.Len(t, toasts, 1)
	assert.Equal(t, "failed", toasts[0].Message)

	now = now.Add(ErrorToastDuration)
	m.Tick()
	assert.Empty(t, m.Toasts())
}

func TestToastManager_Cap(t *testing.T) {
	m := NewToastManager()
	for _, s := range []string{"a", "b", "c", "d"} {
		m.Add(ToastKindInfo, s)
	}
	toasts := m.Toasts()
	require.Len(t, toasts, 3)
	assert.Equal(t, "d", toasts[0].Message)

	m.Dismiss()
	assert.Empty(t, m.Toasts())
}

func TestRenderToasts(t *testing.T) {
	th := testTheme()
	assert.Empty(t, RenderToasts(th, nil, 80))
	out := RenderToasts(th, []Toast{{Message: "copied", Kind: ToastKindSuccess}}, 80)
	assert.Contains(t, out, "copied")
	assert.Contains(t, out, styles.StatusIndicators.Success)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func confirmResult(t *testing.T, cmd tea.Cmd) ConfirmResult {
	t.Helper()
	require.NotNil(t, cmd)
	res, ok := cmd().(ConfirmResult)
	require.True(t, ok)
	return res
}

func TestConfirm(t *testing.T) {
	c := NewConfirm(testTheme())

	_, handled := c.Update(keyMsg("y"))
	assert.False(t, handled, "hidden dialog passes keys through")

	t.Run("enter defaults to no", func(t *testing.T) {
		c.Show("clear", "Clear?", "Yes", "No")
		cmd, handled := c.Update(keyMsg("enter"))
		assert.True(t, handled)
		assert.Equal(t, ConfirmResult{ID: "clear"}, confirmResult(t, cmd))
		assert.False(t, c.Visible())
	})

	t.Run("toggle then enter confirms", func(t *testing.T) {
		c.Show("clear", "Clear?", "Yes", "No")
		cmd, _ := c.Update(keyMsg("left"))
		assert.Nil(t, cmd)
		cmd, _ = c.Update(keyMsg("enter"))
		assert.True(t, confirmResult(t, cmd).Confirmed)
	})

	t.Run("y and esc", func(t *testing.T) {
		c.Show("x", "?", "Yes", "No")
		cmd, _ := c.Update(keyMsg("y"))
		assert.True(t, confirmResult(t, cmd).Confirmed)

		c.Show("x", "?", "Yes", "No")
		cmd, _ = c.Update(keyMsg("esc"))
		assert.False(t, confirmResult(t, cmd).Confirmed)
	})

	t.Run("other keys are swallowed", func(t *testing.T) {
		c.Show("x", "Really?", "Yes", "No")
		cmd, handled := c.Update(keyMsg("q"))
		assert.Nil(t, cmd)
		assert.True(t, handled)
		assert.Contains(t, c.View(60, 10), "Really?")
	})
}

func TestImageLabel(t *testing.T) {
	assert.Empty(t, ImageLabel(""))
	assert.Equal(t, "▣ image/png", ImageLabel(provider.EncodeDataURL("image/png", []byte{1, 2, 3})))
	assert.Equal(t, "▣ image", ImageLabel("not a data url"))
}

func TestMessageList_View(t *testing.T) {
	th := testTheme()
	l := NewMessageList(th, i18n.New("en"), 0, false)

	user := model.NewUserMessage("what is this", provider.EncodeDataURL("image/jpeg", []byte{0xff}))
	reply := model.NewModelMessage()
	reply.Text = "a **cat**"
	s := model.ChatSession{ID: "s1", Messages: []model.Message{user, reply}}

	out := l.View(s, 80, "")
	assert.Contains(t, out, "what is this")
	assert.Contains(t, out, "image/jpeg")
	assert.Contains(t, out, "cat")

	out = l.View(s, 80, "Thinking")
	assert.Contains(t, out, "Thinking")

	reply.Failed = true
	s.Messages[1] = reply
	assert.Contains(t, l.View(s, 80, ""), "Reply interrupted")
}

func TestMessageList_CachesReplies(t *testing.T) {
	l := NewMessageList(testTheme(), i18n.New("en"), 0, false)
	reply := model.NewModelMessage()
	reply.Text = "first"
	s := model.ChatSession{Messages: []model.Message{reply}}

	l.View(s, 80, "")
	require.Contains(t, l.cache, reply.ID)
	assert.Equal(t, "first", l.cache[reply.ID].text)

	s.Messages[0].Text = "first second"
	assert.Contains(t, l.View(s, 80, ""), "second")
	assert.Equal(t, "first second", l.cache[reply.ID].text)
}

func TestRenderNavBar(t *testing.T) {
	th := testTheme()
	out := RenderNavBar(th, i18n.New("en"), model.ScreenSettings, 100)
	assert.Contains(t, out, "Settings")
	assert.Contains(t, out, "Feedback")

	th.SetSize(40, 20)
	out = RenderNavBar(th, i18n.New("en"), model.ScreenSettings, 40)
	assert.NotContains(t, out, "Settings")
	assert.Contains(t, out, "⚙")
}

func TestRenderHeader(t *testing.T) {
	p := model.DefaultProfile()
	p.Name = "Dana"
	out := RenderHeader(testTheme(), "AI Studio", "", p, 80)
	assert.Contains(t, out, "AI Studio")
	assert.Contains(t, out, "D")
}
