// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/ui/styles"
	"github.com/jeranaias/pocketstudio/internal/util"
)

// RenderHeader draws the top bar: title on the left, status and the
// profile avatar on the right.
func RenderHeader(theme *styles.Theme, title, status string, p model.UserProfile, width int) string {
	avatar := theme.Avatar.Render(p.Initial())
	right := avatar
	if status != "" {
		right = theme.Muted.Render(status) + " " + avatar
	}
	inner := max(width-theme.Header.GetHorizontalFrameSize(), 10)
	titleWidth := inner - lipgloss.Width(right) - 1
	left := theme.HeaderTitle.Render(util.TruncateWidth(title, max(titleWidth, 4)))
	gap := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	line := left + lipgloss.NewStyle().Width(gap).Render("") + right
	return theme.Header.Width(width).Render(line)
}
