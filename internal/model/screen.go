// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Screen identifies one navigable view.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenOnboarding
	ScreenDashboard
	ScreenProfile
	ScreenSettings
	ScreenFeedback
)

// String returns the screen name.
func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenOnboarding:
		return "onboarding"
	case ScreenDashboard:
		return "dashboard"
	case ScreenProfile:
		return "profile"
	case ScreenSettings:
		return "settings"
	case ScreenFeedback:
		return "feedback"
	default:
		return "unknown"
	}
}

// Title returns the header label for the screen.
func (s Screen) Title() string {
	switch s {
	case ScreenLogin:
		return "Sign in"
	case ScreenOnboarding:
		return "Welcome"
	case ScreenDashboard:
		return "AI Studio"
	case ScreenProfile:
		return "Profile"
	case ScreenSettings:
		return "Settings"
	case ScreenFeedback:
		return "Feedback"
	default:
		return ""
	}
}
