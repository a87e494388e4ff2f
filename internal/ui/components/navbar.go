// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/nav"
	"github.com/jeranaias/pocketstudio/internal/ui/i18n"
	"github.com/jeranaias/pocketstudio/internal/ui/styles"
)

// RenderNavBar draws the bottom tab bar with the active screen highlighted.
// Narrow terminals get icons and keys only.
func RenderNavBar(theme *styles.Theme, tr *i18n.Printer, active model.Screen, width int) string {
	compact := theme.GetLayoutMode() == styles.LayoutNarrow
	items := make([]string, 0, len(nav.Bar))
	for _, it := range nav.Bar {
		label := it.Key + " " + it.Icon
		if !compact {
			label += " " + tr.T(it.Screen.Title())
		}
		style := theme.NavItem
		if it.Screen == active {
			style = theme.NavItemActive
		}
		items = append(items, style.Render(label))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, items...)
	return theme.NavBar.Width(width).Render(lipgloss.PlaceHorizontal(width, lipgloss.Center, row))
}
