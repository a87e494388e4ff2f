// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and saves pocketstudio settings.
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (POCKETSTUDIO_*, GEMINI_API_KEY, OPENAI_API_KEY),
//     including those read from .env files
//   - ~/.pocketstudio/config.toml
//   - ~/.pocketstudio/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    slog.Warn("using defaults", "error", err)
//	}
//	p, err := provider.New(cfg.ProviderConfig(logger))
package config
