// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/jeranaias/pocketstudio/internal/model"
)

// Theme holds all the styled components for the application.
type Theme struct {
	Dark         bool
	FontSize     model.FontSize
	ColorProfile termenv.Profile
	Palette      Palette

	Width  int
	Height int

	App    lipgloss.Style
	Screen lipgloss.Style

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	Avatar      lipgloss.Style

	UserBubble   lipgloss.Style
	ModelBubble  lipgloss.Style
	FailedBubble lipgloss.Style
	Timestamp    lipgloss.Style
	ImageChip    lipgloss.Style
	Thinking     lipgloss.Style

	InputBox       lipgloss.Style
	InputBoxActive lipgloss.Style

	NavBar        lipgloss.Style
	NavItem       lipgloss.Style
	NavItemActive lipgloss.Style

	Card      lipgloss.Style
	Title     lipgloss.Style
	Subtitle  lipgloss.Style
	Muted     lipgloss.Style
	Selected  lipgloss.Style
	Button    lipgloss.Style
	ButtonAlt lipgloss.Style
	Danger    lipgloss.Style
	Banner    lipgloss.Style
	Dialog    lipgloss.Style
	Help      lipgloss.Style

	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastError   lipgloss.Style
}

// NewTheme creates a theme for the given mode and font size.
func NewTheme(dark bool, fs model.FontSize) *Theme {
	t := &Theme{
		Dark:         dark,
		FontSize:     fs,
		ColorProfile: termenv.ColorProfile(),
		Palette:      PaletteFor(dark),
		Width:        80,
		Height:       24,
	}
	t.initStyles()
	return t
}

// TerminalIsDark reports whether the terminal background is dark.
func TerminalIsDark() bool {
	return termenv.HasDarkBackground()
}

// Apply rebuilds the styles after a settings change.
func (t *Theme) Apply(dark bool, fs model.FontSize) {
	t.Dark = dark
	t.FontSize = fs
	t.Palette = PaletteFor(dark)
	t.initStyles()
}

func (t *Theme) initStyles() {
	p := t.Palette
	pad := t.BubblePadding()

	t.App = lipgloss.NewStyle().Foreground(p.Text)
	t.Screen = lipgloss.NewStyle().Padding(0, 1)

	t.Header = lipgloss.NewStyle().
		Foreground(p.Text).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(p.Border).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(p.Accent)
	t.Avatar = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.TextOnAcc).
		Background(p.Accent).
		Padding(0, 1)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(p.UserBubbleFg).
		Background(p.UserBubbleBg).
		Padding(pad[0], pad[1])
	t.ModelBubble = lipgloss.NewStyle().
		Foreground(p.ModelBubbleFg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(pad[0], pad[1])
	t.FailedBubble = t.ModelBubble.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.Danger)
	t.Timestamp = lipgloss.NewStyle().Foreground(p.TextMuted).Italic(true)
	t.ImageChip = lipgloss.NewStyle().
		Foreground(p.Accent).
		Background(p.AccentSoft).
		Padding(0, 1)
	t.Thinking = lipgloss.NewStyle().Foreground(p.TextMuted).Italic(true)

	t.InputBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)
	t.InputBoxActive = t.InputBox.BorderForeground(p.Accent)

	t.NavBar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(p.Border)
	t.NavItem = lipgloss.NewStyle().Foreground(p.TextMuted).Padding(0, 1)
	t.NavItemActive = lipgloss.NewStyle().Foreground(p.Accent).Bold(true).Padding(0, 1)

	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 2)
	t.Title = lipgloss.NewStyle().Bold(true).Foreground(p.Text)
	t.Subtitle = lipgloss.NewStyle().Foreground(p.TextMuted)
	t.Muted = lipgloss.NewStyle().Foreground(p.TextMuted)
	t.Selected = lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
	t.Button = lipgloss.NewStyle().
		Foreground(p.TextOnAcc).
		Background(p.Accent).
		Bold(true).
		Padding(0, 2)
	t.ButtonAlt = lipgloss.NewStyle().
		Foreground(p.Text).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 2)
	t.Danger = lipgloss.NewStyle().Foreground(p.Danger).Bold(true)
	t.Banner = lipgloss.NewStyle().
		Foreground(p.Success).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Success).
		Padding(0, 2)
	t.Dialog = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(p.Danger).
		Padding(1, 3)
	t.Help = lipgloss.NewStyle().Foreground(p.TextMuted)

	toast := lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).Padding(0, 1)
	t.ToastInfo = toast.BorderForeground(p.Accent).Foreground(p.Text)
	t.ToastSuccess = toast.BorderForeground(p.Success).Foreground(p.Success)
	t.ToastError = toast.BorderForeground(p.Danger).Foreground(p.Danger)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// =============================================================================
// FONT SIZE METRICS
// =============================================================================

// BubbleRatio is the share of the width a message bubble may use.
func (t *Theme) BubbleRatio() float64 {
	switch t.FontSize {
	case model.FontSmall:
		return 0.90
	case model.FontLarge:
		return 0.70
	default:
		return 0.80
	}
}

// BubbleWidth returns the maximum bubble width for the current size. A
// positive fixed width from config wins.
func (t *Theme) BubbleWidth(fixed int) int {
	if fixed > 0 {
		return min(fixed, max(t.Width-2, 20))
	}
	return max(int(float64(t.Width)*t.BubbleRatio()), 20)
}

// BubblePadding returns vertical and horizontal padding.
func (t *Theme) BubblePadding() [2]int {
	switch t.FontSize {
	case model.FontSmall:
		return [2]int{0, 1}
	case model.FontLarge:
		return [2]int{1, 2}
	default:
		return [2]int{0, 2}
	}
}

// MessageGap is the number of blank lines between messages.
func (t *Theme) MessageGap() int {
	switch t.FontSize {
	case model.FontSmall:
		return 0
	case model.FontLarge:
		return 2
	default:
		return 1
	}
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)
