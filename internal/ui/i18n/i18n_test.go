// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrinter_Translates(t *testing.T) {
	he := New("he")
	assert.Equal(t, "he", he.Lang())
	assert.True(t, he.RTL())
	assert.Equal(t, "הגדרות", he.T("Settings"))
	assert.Equal(t, "שלום, Dana", he.T("Hello, %s", "Dana"))
	assert.Equal(t, "3 הודעות", he.T("%d messages", 3))

	en := New("en")
	assert.False(t, en.RTL())
	assert.Equal(t, "Settings", en.T("Settings"))
	assert.Equal(t, "Hello, Dana", en.T("Hello, %s", "Dana"))
}

func TestPrinter_MissingKeyPrintsKey(t *testing.T) {
	assert.Equal(t, "no such string", New("he").T("no such string"))
}

func TestNew_UnknownLanguageDefaultsToHebrew(t *testing.T) {
	assert.Equal(t, "he", New("klingon").Lang())
	assert.Equal(t, "en", New("EN").Lang())
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "English", LanguageName("en"))
	assert.Equal(t, "עברית", LanguageName("he"))
}
