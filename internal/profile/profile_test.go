// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/storage"
)

func TestOpen_DefaultsToGuest(t *testing.T) {
	s := Open(storage.NewMemoryKV(), nil)
	assert.Equal(t, model.DefaultProfile(), s.Profile())
	assert.False(t, s.HasSeenOnboarding())
}

func TestOpen_CorruptProfileFallsBack(t *testing.T) {
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Save(storage.KeyUser, []byte(`{"name": 5}`)))
	require.NoError(t, kv.Save(storage.KeyOnboarding, []byte(`"yes"`)))

	s := Open(kv, nil)
	assert.Equal(t, model.DefaultProfile(), s.Profile())
	assert.False(t, s.HasSeenOnboarding())
}

func TestLogin_RoutesByOnboardingFlag(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := Open(kv, nil)

	show, err := s.Login(GoogleIdentity)
	require.NoError(t, err)
	assert.True(t, show)
	assert.Equal(t, "user@google.com", s.Profile().Email)

	require.NoError(t, s.CompleteOnboarding())

	reopened := Open(kv, nil)
	assert.True(t, reopened.HasSeenOnboarding())
	show, err = reopened.Login(EmailIdentity)
	require.NoError(t, err)
	assert.False(t, show)
	assert.Equal(t, EmailIdentity.Name, reopened.Profile().Name)
}

func TestSettings_PersistWholeProfile(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := Open(kv, nil)

	var seen []model.UserProfile
	s.OnChange(func(p model.UserProfile) { seen = append(seen, p) })

	_, err := s.ToggleDarkMode()
	require.NoError(t, err)
	_, err = s.CycleFontSize()
	require.NoError(t, err)
	p, err := s.ToggleLanguage()
	require.NoError(t, err)

	assert.True(t, p.DarkMode)
	assert.Equal(t, model.FontLarge, p.FontSize)
	assert.Equal(t, "en", p.Language)
	assert.Len(t, seen, 3)

	assert.Equal(t, p, Open(kv, nil).Profile())
}

func TestSet(t *testing.T) {
	s := Open(storage.NewMemoryKV(), nil)

	p, err := s.Set("font_size", "small")
	require.NoError(t, err)
	assert.Equal(t, model.FontSmall, p.FontSize)

	p, err = s.Set("language", "en-GB")
	require.NoError(t, err)
	assert.Equal(t, "en", p.Language)

	p, err = s.Set("dark", "on")
	require.NoError(t, err)
	assert.True(t, p.DarkMode)

	_, err = s.Set("font_size", "gigantic")
	assert.Error(t, err)
	_, err = s.Set("shoe_size", "42")
	assert.Error(t, err)
}

func TestSubmitFeedback(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := Open(kv, nil)

	_, err := s.SubmitFeedback("   ")
	assert.ErrorIs(t, err, ErrEmptyFeedback)

	_, err = s.SubmitFeedback("great app")
	require.NoError(t, err)
	_, err = s.SubmitFeedback("found a bug")
	require.NoError(t, err)

	entries := Open(kv, nil).Feedback()
	require.Len(t, entries, 2)
	assert.Equal(t, "great app", entries[0].Text)
	assert.Equal(t, "guest@example.com", entries[1].Email)
}
