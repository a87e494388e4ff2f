// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the pocketstudio TUI.

# Color System (colors.go)

Two palettes mirror the app's light and dark modes. The profile's dark-mode
flag picks one; the terminal background is only consulted when the UI theme
is forced.

  - Accent - brand blue for the header, user bubbles and the active tab
  - Surface/Card - page and card backgrounds
  - Success, Danger, Warning - toast and banner colors

# Theme (theme.go)

Theme builds every lipgloss.Style from a palette and the profile font size.
Font size controls bubble width, padding and the gap between messages:

	small  - wide bubbles, no padding, no gap
	medium - default
	large  - narrow bubbles, padded, blank line between messages

Call SetSize on every tea.WindowSizeMsg; the width-dependent helpers read it.
*/
package styles
