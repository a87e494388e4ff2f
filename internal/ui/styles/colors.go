// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// =============================================================================
// PALETTES
// =============================================================================

// Palette is one complete set of colors.
type Palette struct {
	Accent     lipgloss.Color
	AccentSoft lipgloss.Color

	Surface lipgloss.Color
	Card    lipgloss.Color
	Border  lipgloss.Color

	Text      lipgloss.Color
	TextMuted lipgloss.Color
	TextOnAcc lipgloss.Color

	UserBubbleBg  lipgloss.Color
	UserBubbleFg  lipgloss.Color
	ModelBubbleBg lipgloss.Color
	ModelBubbleFg lipgloss.Color

	Success lipgloss.Color
	Danger  lipgloss.Color
	Warning lipgloss.Color
}

// LightPalette matches the app's default look.
var LightPalette = Palette{
	Accent:     "#2563EB",
	AccentSoft: "#DBEAFE",

	Surface: "#F3F4F6",
	Card:    "#FFFFFF",
	Border:  "#E5E7EB",

	Text:      "#111827",
	TextMuted: "#6B7280",
	TextOnAcc: "#FFFFFF",

	UserBubbleBg:  "#2563EB",
	UserBubbleFg:  "#FFFFFF",
	ModelBubbleBg: "#F9FAFB",
	ModelBubbleFg: "#1F2937",

	Success: "#059669",
	Danger:  "#DC2626",
	Warning: "#D97706",
}

// DarkPalette is used when dark mode is on.
var DarkPalette = Palette{
	Accent:     "#3B82F6",
	AccentSoft: "#1E3A5F",

	Surface: "#111827",
	Card:    "#1F2937",
	Border:  "#4B5563",

	Text:      "#F9FAFB",
	TextMuted: "#9CA3AF",
	TextOnAcc: "#FFFFFF",

	UserBubbleBg:  "#3B82F6",
	UserBubbleFg:  "#FFFFFF",
	ModelBubbleBg: "#374151",
	ModelBubbleFg: "#F3F4F6",

	Success: "#34D399",
	Danger:  "#F87171",
	Warning: "#FBBF24",
}

// PaletteFor returns the palette for a dark-mode flag.
func PaletteFor(dark bool) Palette {
	if dark {
		return DarkPalette
	}
	return LightPalette
}

// =============================================================================
// STATUS INDICATORS
// =============================================================================

// StatusIndicators give every status a shape as well as a color.
var StatusIndicators = struct {
	Success string
	Error   string
	Info    string
}{
	Success: "[OK]",
	Error:   "[X]",
	Info:    "[i]",
}
