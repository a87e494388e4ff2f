// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/provider"
	"github.com/jeranaias/pocketstudio/internal/ui/i18n"
	"github.com/jeranaias/pocketstudio/internal/ui/styles"
)

// =============================================================================
// MESSAGE LIST
// =============================================================================

// MessageList renders a session as chat bubbles. Rendered replies are
// cached by message ID and text so only the streaming reply is re-rendered.
type MessageList struct {
	theme          *styles.Theme
	tr             *i18n.Printer
	fixedWidth     int
	showTimestamps bool

	renderer      *glamour.TermRenderer
	rendererWidth int
	rendererDark  bool
	cache         map[string]cachedBubble
}

type cachedBubble struct {
	text     string
	width    int
	dark     bool
	failed   bool
	rendered string
}

// NewMessageList creates a list. fixedWidth > 0 pins the bubble width.
func NewMessageList(theme *styles.Theme, tr *i18n.Printer, fixedWidth int, showTimestamps bool) *MessageList {
	return &MessageList{
		theme:          theme,
		tr:             tr,
		fixedWidth:     fixedWidth,
		showTimestamps: showTimestamps,
		cache:          make(map[string]cachedBubble),
	}
}

// SetPrinter swaps the language.
func (l *MessageList) SetPrinter(tr *i18n.Printer) {
	l.tr = tr
	l.cache = make(map[string]cachedBubble)
}

// View renders every message. thinking appends the waiting indicator.
func (l *MessageList) View(s model.ChatSession, width int, thinking string) string {
	gap := strings.Repeat("\n", l.theme.MessageGap())
	parts := make([]string, 0, len(s.Messages)+1)
	for _, m := range s.Messages {
		parts = append(parts, l.bubble(m, width))
	}
	if thinking != "" {
		parts = append(parts, l.theme.Thinking.Render(thinking))
	}
	return strings.Join(parts, "\n"+gap)
}

func (l *MessageList) bubble(m model.Message, width int) string {
	bw := min(l.theme.BubbleWidth(l.fixedWidth), width)

	var body string
	if m.Role == model.RoleUser {
		body = l.userBubble(m, bw)
	} else {
		body = l.modelBubble(m, bw)
	}

	if l.showTimestamps {
		stamp := l.theme.Timestamp.Render(m.Time().Format("15:04"))
		body = lipgloss.JoinVertical(align(m), body, stamp)
	}
	if m.Role == model.RoleUser {
		return lipgloss.PlaceHorizontal(width, lipgloss.Right, body)
	}
	return body
}

func align(m model.Message) lipgloss.Position {
	if m.Role == model.RoleUser {
		return lipgloss.Right
	}
	return lipgloss.Left
}

func (l *MessageList) userBubble(m model.Message, width int) string {
	style := l.theme.UserBubble
	inner := width - style.GetHorizontalFrameSize()
	var lines []string
	if chip := ImageLabel(m.Image); chip != "" {
		lines = append(lines, l.theme.ImageChip.Render(chip))
	}
	if m.Text != "" {
		lines = append(lines, lipgloss.NewStyle().Width(min(inner, lipgloss.Width(m.Text))).Render(m.Text))
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (l *MessageList) modelBubble(m model.Message, width int) string {
	if c, ok := l.cache[m.ID]; ok && c.text == m.Text && c.width == width && c.dark == l.theme.Dark && c.failed == m.Failed {
		return c.rendered
	}

	style := l.theme.ModelBubble
	if m.Failed {
		style = l.theme.FailedBubble
	}
	inner := max(width-style.GetHorizontalFrameSize(), 10)

	text := l.markdown(m.Text, inner)
	if m.Failed {
		text += "\n" + l.theme.Danger.Render(l.tr.T("Reply interrupted"))
	}
	rendered := style.Render(text)
	l.cache[m.ID] = cachedBubble{text: m.Text, width: width, dark: l.theme.Dark, failed: m.Failed, rendered: rendered}
	return rendered
}

// markdown renders reply text with glamour, falling back to plain wrapped
// text when the renderer cannot be built.
func (l *MessageList) markdown(text string, width int) string {
	if strings.TrimSpace(text) == "" {
		return "…"
	}
	if l.renderer == nil || l.rendererWidth != width || l.rendererDark != l.theme.Dark {
		style := "light"
		if l.theme.Dark {
			style = "dark"
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return lipgloss.NewStyle().Width(width).Render(text)
		}
		l.renderer, l.rendererWidth, l.rendererDark = r, width, l.theme.Dark
	}
	out, err := l.renderer.Render(text)
	if err != nil {
		return lipgloss.NewStyle().Width(width).Render(text)
	}
	return strings.Trim(out, "\n")
}

// ImageLabel describes an attached data URL for display, e.g. "▣ image/png".
func ImageLabel(dataURL string) string {
	if dataURL == "" {
		return ""
	}
	mime, _, err := provider.ParseDataURL(dataURL)
	if err != nil {
		return "▣ image"
	}
	return "▣ " + mime
}
