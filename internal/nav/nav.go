// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package nav decides which screen follows a user action.
package nav

import "github.com/jeranaias/pocketstudio/internal/model"

// Action is a navigation intent.
type Action int

const (
	ActionNone Action = iota
	ActionLoggedIn
	ActionLoggedInFirstTime
	ActionOnboardingDone
	ActionLogout
	ActionGoDashboard
	ActionGoProfile
	ActionGoSettings
	ActionGoFeedback
	ActionOpenSession
	ActionBack
)

// Item is one entry of the bottom navigation bar.
type Item struct {
	Screen model.Screen
	Key    string
	Icon   string
}

// Bar lists the bottom bar entries in display order.
var Bar = []Item{
	{Screen: model.ScreenDashboard, Key: "1", Icon: "◆"},
	{Screen: model.ScreenProfile, Key: "2", Icon: "●"},
	{Screen: model.ScreenSettings, Key: "3", Icon: "⚙"},
	{Screen: model.ScreenFeedback, Key: "4", Icon: "✉"},
}

// Next returns the screen after applying action on current.
func Next(current model.Screen, action Action) model.Screen {
	switch action {
	case ActionLoggedIn, ActionOnboardingDone, ActionGoDashboard, ActionOpenSession:
		return model.ScreenDashboard
	case ActionLoggedInFirstTime:
		return model.ScreenOnboarding
	case ActionLogout:
		return model.ScreenLogin
	case ActionGoProfile:
		return model.ScreenProfile
	case ActionGoSettings:
		return model.ScreenSettings
	case ActionGoFeedback:
		return model.ScreenFeedback
	case ActionBack:
		if ShowsChrome(current) {
			return model.ScreenDashboard
		}
		return current
	}
	return Valid(current)
}

// Valid maps unknown screens to the dashboard.
func Valid(s model.Screen) model.Screen {
	switch s {
	case model.ScreenLogin, model.ScreenOnboarding, model.ScreenDashboard,
		model.ScreenProfile, model.ScreenSettings, model.ScreenFeedback:
		return s
	}
	return model.ScreenDashboard
}

// ShowsChrome reports whether the header and bottom bar are drawn.
func ShowsChrome(s model.Screen) bool {
	return s != model.ScreenLogin && s != model.ScreenOnboarding
}

// ForKey returns the bar screen bound to key.
func ForKey(key string) (model.Screen, bool) {
	for _, it := range Bar {
		if it.Key == key {
			return it.Screen, true
		}
	}
	return 0, false
}

// Cycle moves delta steps along the bar, wrapping. Screens outside the bar
// start from the dashboard.
func Cycle(current model.Screen, delta int) model.Screen {
	idx := 0
	for i, it := range Bar {
		if it.Screen == current {
			idx = i
			break
		}
	}
	n := len(Bar)
	return Bar[((idx+delta)%n+n)%n].Screen
}
