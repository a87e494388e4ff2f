// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// =============================================================================
// FONT SIZE
// =============================================================================

// FontSize is an ordered display size tier.
type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

var fontOrder = []FontSize{FontSmall, FontMedium, FontLarge}

// Rank returns the tier position (small=0, medium=1, large=2), or -1.
func (f FontSize) Rank() int {
	for i, v := range fontOrder {
		if v == f {
			return i
		}
	}
	return -1
}

// Next cycles to the following tier, wrapping after large.
func (f FontSize) Next() FontSize {
	r := f.Rank()
	if r < 0 {
		return FontMedium
	}
	return fontOrder[(r+1)%len(fontOrder)]
}

// ParseFontSize parses a tier name.
func ParseFontSize(s string) (FontSize, error) {
	f := FontSize(strings.ToLower(strings.TrimSpace(s)))
	if f.Rank() < 0 {
		return "", fmt.Errorf("invalid font size %q (want small, medium or large)", s)
	}
	return f, nil
}

// =============================================================================
// LANGUAGE
// =============================================================================

// Supported interface languages.
var (
	LangHebrew  = language.Hebrew
	LangEnglish = language.English
)

var languageMatcher = language.NewMatcher([]language.Tag{LangHebrew, LangEnglish})

// ParseLanguage validates a BCP-47 tag and maps it to a supported language
// code ("he" or "en").
func ParseLanguage(s string) (string, error) {
	tag, err := language.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", s, err)
	}
	_, idx, conf := languageMatcher.Match(tag)
	if conf == language.No {
		return "", fmt.Errorf("unsupported language %q (want he or en)", s)
	}
	if idx == 0 {
		return "he", nil
	}
	return "en", nil
}

// =============================================================================
// USER PROFILE
// =============================================================================

// UserProfile holds the identity shown in the UI and display preferences.
type UserProfile struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Avatar   string   `json:"avatar"`
	Language string   `json:"language"`
	DarkMode bool     `json:"darkMode"`
	FontSize FontSize `json:"fontSize"`
}

// DefaultProfile returns the guest profile used before login.
func DefaultProfile() UserProfile {
	return UserProfile{
		Name:     "משתמש אורח",
		Email:    "guest@example.com",
		Avatar:   "https://picsum.photos/seed/user/200",
		Language: "he",
		DarkMode: false,
		FontSize: FontMedium,
	}
}

// Normalize fills invalid preference fields from the defaults.
func (p UserProfile) Normalize() UserProfile {
	def := DefaultProfile()
	if p.FontSize.Rank() < 0 {
		p.FontSize = def.FontSize
	}
	if lang, err := ParseLanguage(p.Language); err == nil {
		p.Language = lang
	} else {
		p.Language = def.Language
	}
	if p.Name == "" {
		p.Name = def.Name
	}
	if p.Avatar == "" {
		p.Avatar = def.Avatar
	}
	return p
}

// Initial returns the first rune of the name, upper-cased, for avatars.
func (p UserProfile) Initial() string {
	for _, r := range p.Name {
		return strings.ToUpper(string(r))
	}
	return "?"
}
