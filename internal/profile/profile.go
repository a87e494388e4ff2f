// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package profile persists the user profile, the onboarding flag and
// submitted feedback.
package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/storage"
)

// Identity is a mock sign-in result merged into the profile.
type Identity struct {
	Provider string
	Name     string
	Email    string
}

// Mock sign-in identities.
var (
	GoogleIdentity = Identity{Provider: "google", Name: "משתמש גוגל", Email: "user@google.com"}
	EmailIdentity  = Identity{Provider: "email", Name: "משתמש אפליקציה", Email: "user@example.com"}
)

// ErrEmptyFeedback rejects blank feedback.
var ErrEmptyFeedback = errors.New("feedback text is empty")

// FeedbackEntry is one submitted feedback message.
type FeedbackEntry struct {
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
	Email     string `json:"email,omitempty"`
}

// Store holds the profile in memory and writes it through on every change.
type Store struct {
	kv     storage.KV
	logger *slog.Logger

	mu        sync.RWMutex
	profile   model.UserProfile
	onboarded bool
	observers []func(model.UserProfile)
}

// Open loads the profile and onboarding flag. Unreadable data falls back
// to the guest profile.
func Open(kv storage.KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{kv: kv, logger: logger, profile: model.DefaultProfile()}

	var p model.UserProfile
	switch err := storage.LoadJSON(kv, storage.KeyUser, storage.ProfileSchema, &p); {
	case err == nil:
		s.profile = p.Normalize()
	case !errors.Is(err, storage.ErrNotFound):
		logger.Debug("discarding stored profile", "error", err)
	}

	var seen bool
	switch err := storage.LoadJSON(kv, storage.KeyOnboarding, storage.BoolSchema, &seen); {
	case err == nil:
		s.onboarded = seen
	case !errors.Is(err, storage.ErrNotFound):
		logger.Debug("discarding onboarding flag", "error", err)
	}
	return s
}

// Profile returns the current profile.
func (s *Store) Profile() model.UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// OnChange registers fn to run after every profile change.
func (s *Store) OnChange(fn func(model.UserProfile)) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Update applies fn to a copy of the profile and persists the result as a
// whole.
func (s *Store) Update(fn func(*model.UserProfile)) (model.UserProfile, error) {
	s.mu.Lock()
	next := s.profile
	fn(&next)
	next = next.Normalize()
	s.profile = next
	obs := append(([]func(model.UserProfile))(nil), s.observers...)
	s.mu.Unlock()

	err := storage.SaveJSON(s.kv, storage.KeyUser, next)
	if err != nil {
		s.logger.Warn("failed to persist profile", "error", err)
	}
	for _, fn := range obs {
		fn(next)
	}
	return next, err
}

// Login merges id into the profile. It reports whether onboarding should
// be shown next.
func (s *Store) Login(id Identity) (showOnboarding bool, err error) {
	_, err = s.Update(func(p *model.UserProfile) {
		p.Name = id.Name
		p.Email = id.Email
	})
	s.logger.Info("signed in", "provider", id.Provider)
	return !s.HasSeenOnboarding(), err
}

// HasSeenOnboarding reports whether onboarding was completed.
func (s *Store) HasSeenOnboarding() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.onboarded
}

// CompleteOnboarding stores the onboarding flag.
func (s *Store) CompleteOnboarding() error {
	s.mu.Lock()
	s.onboarded = true
	s.mu.Unlock()
	return storage.SaveJSON(s.kv, storage.KeyOnboarding, true)
}

// =============================================================================
// SETTINGS
// =============================================================================

// ToggleDarkMode flips dark mode.
func (s *Store) ToggleDarkMode() (model.UserProfile, error) {
	return s.Update(func(p *model.UserProfile) { p.DarkMode = !p.DarkMode })
}

// CycleFontSize advances small -> medium -> large -> small.
func (s *Store) CycleFontSize() (model.UserProfile, error) {
	return s.Update(func(p *model.UserProfile) { p.FontSize = p.FontSize.Next() })
}

// ToggleLanguage switches between Hebrew and English.
func (s *Store) ToggleLanguage() (model.UserProfile, error) {
	return s.Update(func(p *model.UserProfile) {
		if p.Language == "he" {
			p.Language = "en"
		} else {
			p.Language = "he"
		}
	})
}

// Set assigns a profile field by name, as used by "profile set".
func (s *Store) Set(key, value string) (model.UserProfile, error) {
	var apply func(*model.UserProfile)
	switch strings.ToLower(key) {
	case "name":
		apply = func(p *model.UserProfile) { p.Name = value }
	case "email":
		apply = func(p *model.UserProfile) { p.Email = value }
	case "avatar":
		apply = func(p *model.UserProfile) { p.Avatar = value }
	case "language", "lang":
		lang, err := model.ParseLanguage(value)
		if err != nil {
			return s.Profile(), err
		}
		apply = func(p *model.UserProfile) { p.Language = lang }
	case "font_size", "fontsize", "font":
		fs, err := model.ParseFontSize(value)
		if err != nil {
			return s.Profile(), err
		}
		apply = func(p *model.UserProfile) { p.FontSize = fs }
	case "dark_mode", "darkmode", "dark":
		switch strings.ToLower(value) {
		case "true", "on", "1", "yes":
			apply = func(p *model.UserProfile) { p.DarkMode = true }
		case "false", "off", "0", "no":
			apply = func(p *model.UserProfile) { p.DarkMode = false }
		default:
			return s.Profile(), fmt.Errorf("invalid boolean %q", value)
		}
	default:
		return s.Profile(), fmt.Errorf("unknown profile field %q", key)
	}
	return s.Update(apply)
}

// =============================================================================
// FEEDBACK
// =============================================================================

// SubmitFeedback appends a non-empty entry to the feedback log.
func (s *Store) SubmitFeedback(text string) (FeedbackEntry, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return FeedbackEntry{}, ErrEmptyFeedback
	}
	entry := FeedbackEntry{Text: text, Timestamp: time.Now().UnixMilli(), Email: s.Profile().Email}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.feedbackLocked()
	entries = append(entries, entry)
	if err := storage.SaveJSON(s.kv, storage.KeyFeedback, entries); err != nil {
		return FeedbackEntry{}, err
	}
	s.logger.Info("feedback submitted", "chars", len([]rune(text)))
	return entry, nil
}

// Feedback returns all stored entries.
func (s *Store) Feedback() []FeedbackEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.feedbackLocked()
}

func (s *Store) feedbackLocked() []FeedbackEntry {
	var entries []FeedbackEntry
	if err := storage.LoadJSON(s.kv, storage.KeyFeedback, storage.FeedbackSchema, &entries); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.logger.Debug("discarding feedback log", "error", err)
		return nil
	}
	return entries
}
