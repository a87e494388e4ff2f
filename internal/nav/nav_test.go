// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/pocketstudio/internal/model"
)

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		current model.Screen
		action  Action
		want    model.Screen
	}{
		{"returning user", model.ScreenLogin, ActionLoggedIn, model.ScreenDashboard},
		{"first login", model.ScreenLogin, ActionLoggedInFirstTime, model.ScreenOnboarding},
		{"onboarding done", model.ScreenOnboarding, ActionOnboardingDone, model.ScreenDashboard},
		{"profile tab", model.ScreenDashboard, ActionGoProfile, model.ScreenProfile},
		{"settings tab", model.ScreenProfile, ActionGoSettings, model.ScreenSettings},
		{"feedback tab", model.ScreenSettings, ActionGoFeedback, model.ScreenFeedback},
		{"open session", model.ScreenProfile, ActionOpenSession, model.ScreenDashboard},
		{"back from settings", model.ScreenSettings, ActionBack, model.ScreenDashboard},
		{"back on login", model.ScreenLogin, ActionBack, model.ScreenLogin},
		{"logout", model.ScreenProfile, ActionLogout, model.ScreenLogin},
		{"no-op", model.ScreenFeedback, ActionNone, model.ScreenFeedback},
		{"unknown screen", model.Screen(42), ActionNone, model.ScreenDashboard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.current, tt.action))
		})
	}
}

func TestShowsChrome(t *testing.T) {
	assert.False(t, ShowsChrome(model.ScreenLogin))
	assert.False(t, ShowsChrome(model.ScreenOnboarding))
	assert.True(t, ShowsChrome(model.ScreenDashboard))
	assert.True(t, ShowsChrome(model.ScreenFeedback))
}

func TestForKeyAndCycle(t *testing.T) {
	s, ok := ForKey("3")
	assert.True(t, ok)
	assert.Equal(t, model.ScreenSettings, s)
	_, ok = ForKey("9")
	assert.False(t, ok)

	assert.Equal(t, model.ScreenProfile, Cycle(model.ScreenDashboard, 1))
	assert.Equal(t, model.ScreenFeedback, Cycle(model.ScreenDashboard, -1))
	assert.Equal(t, model.ScreenDashboard, Cycle(model.ScreenFeedback, 1))
}
