// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines the keyboard bindings of the app. Screens with a text
// field only react to modified keys so typing is never intercepted.
type KeyMap struct {
	// Global
	Quit     key.Binding
	Help     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	JumpTab  key.Binding
	Back     key.Binding
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	PageUp   key.Binding
	PageDown key.Binding

	// Dashboard
	Send        key.Binding
	Newline     key.Binding
	Cancel      key.Binding
	NewChat     key.Binding
	AttachImage key.Binding
	ClearImage  key.Binding
	CopyReply   key.Binding
	SpeakReply  key.Binding
	Share       key.Binding

	// Login
	LoginGoogle key.Binding
	LoginEmail  key.Binding

	// Onboarding
	Skip key.Binding

	// Profile
	ClearHistory key.Binding
	Logout       key.Binding

	// Settings
	ToggleDark key.Binding
	CycleFont  key.Binding
	ToggleLang key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1", "?"),
			key.WithHelp("F1/?", "toggle help"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next screen"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-Tab", "previous screen"),
		),
		JumpTab: key.NewBinding(
			key.WithKeys("alt+1", "alt+2", "alt+3", "alt+4"),
			key.WithHelp("M-1..4", "jump to screen"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("Enter", "select"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),

		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter", "ctrl+j"),
			key.WithHelp("M-Enter", "new line"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "stop reply"),
		),
		NewChat: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("C-n", "new chat"),
		),
		AttachImage: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("C-o", "attach image"),
		),
		ClearImage: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("C-x", "remove image"),
		),
		CopyReply: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy reply"),
		),
		SpeakReply: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("C-s", "speak reply"),
		),
		Share: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("C-e", "share chat"),
		),

		LoginGoogle: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "Google"),
		),
		LoginEmail: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "email"),
		),

		Skip: key.NewBinding(
			key.WithKeys("s", "esc"),
			key.WithHelp("s", "skip"),
		),

		ClearHistory: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "clear history"),
		),
		Logout: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "log out"),
		),

		ToggleDark: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "dark mode"),
		),
		CycleFont: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "font size"),
		),
		ToggleLang: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "language"),
		),
	}
}

// dashboardHelp is shown on the chat screen.
type dashboardHelp struct{ k KeyMap }

func (h dashboardHelp) ShortHelp() []key.Binding {
	return []key.Binding{h.k.Send, h.k.NewChat, h.k.AttachImage, h.k.Cancel, h.k.Help}
}

func (h dashboardHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{h.k.Send, h.k.Newline, h.k.Cancel, h.k.PageUp, h.k.PageDown},
		{h.k.NewChat, h.k.AttachImage, h.k.ClearImage},
		{h.k.CopyReply, h.k.SpeakReply, h.k.Share},
		{h.k.NextTab, h.k.JumpTab, h.k.Help, h.k.Quit},
	}
}

// screenHelp is shown on the list screens.
type screenHelp struct {
	k     KeyMap
	extra []key.Binding
}

func (h screenHelp) ShortHelp() []key.Binding {
	return append(append([]key.Binding{}, h.extra...), h.k.NextTab, h.k.Help)
}

func (h screenHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		h.extra,
		{h.k.Up, h.k.Down, h.k.Select, h.k.Back},
		{h.k.NextTab, h.k.PrevTab, h.k.JumpTab, h.k.Quit},
	}
}
