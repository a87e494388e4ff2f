// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package i18n translates UI strings. English format strings are the keys;
// a missing translation prints the key.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/jeranaias/pocketstudio/internal/model"
)

var builder = catalog.NewBuilder(catalog.Fallback(language.English))

func init() {
	for key, he := range hebrew {
		if err := builder.SetString(language.Hebrew, key, he); err != nil {
			panic("i18n: " + key + ": " + err.Error())
		}
	}
}

// Printer formats strings for one language.
type Printer struct {
	lang string
	p    *message.Printer
}

// New returns a printer for "he" or "en". Other values are matched to the
// closest supported language.
func New(lang string) *Printer {
	code, err := model.ParseLanguage(lang)
	if err != nil {
		code = "he"
	}
	tag := language.English
	if code == "he" {
		tag = language.Hebrew
	}
	return &Printer{lang: code, p: message.NewPrinter(tag, message.Catalog(builder))}
}

// T translates key and formats args into it.
func (p *Printer) T(key string, args ...any) string {
	return p.p.Sprintf(key, args...)
}

// Lang returns the language code.
func (p *Printer) Lang() string { return p.lang }

// RTL reports whether the language is written right to left.
func (p *Printer) RTL() bool { return p.lang == "he" }

// LanguageName returns the display name of a language code.
func LanguageName(code string) string {
	if code == "he" {
		return "עברית"
	}
	return "English"
}
