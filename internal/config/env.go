// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// EnvOverrides holds the environment variables that override file settings.
type EnvOverrides struct {
	Provider    string   `env:"POCKETSTUDIO_PROVIDER"`
	Model       string   `env:"POCKETSTUDIO_MODEL"`
	APIKey      string   `env:"POCKETSTUDIO_API_KEY"`
	GeminiKey   string   `env:"GEMINI_API_KEY"`
	OpenAIKey   string   `env:"OPENAI_API_KEY"`
	LegacyKey   string   `env:"API_KEY"`
	BaseURL     string   `env:"POCKETSTUDIO_BASE_URL"`
	Temperature *float64 `env:"POCKETSTUDIO_TEMPERATURE"`
	Storage     string   `env:"POCKETSTUDIO_STORAGE"`
	DataDir     string   `env:"POCKETSTUDIO_DATA_DIR"`
	Player      string   `env:"POCKETSTUDIO_PLAYER"`
	Theme       string   `env:"POCKETSTUDIO_THEME"`
}

// DotEnvFiles are read before the environment is parsed. Variables already
// set in the process environment win.
func DotEnvFiles() []string {
	files := []string{".env"}
	if dir, err := ConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, ".env"))
	}
	return files
}

// LoadDotEnv loads each existing file in order. Missing files are skipped.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ReadEnvOverrides parses the process environment.
func ReadEnvOverrides() (EnvOverrides, error) {
	var o EnvOverrides
	if err := env.Parse(&o); err != nil {
		return o, fmt.Errorf("parse environment: %w", err)
	}
	return o, nil
}

// ApplyEnvOverrides loads .env files, then applies POCKETSTUDIO_* and the
// provider key variables over c.
//
// Key precedence: POCKETSTUDIO_API_KEY, then the active provider's own
// variable (GEMINI_API_KEY or OPENAI_API_KEY), then API_KEY, then the file.
func (c *Config) ApplyEnvOverrides() error {
	if err := LoadDotEnv(DotEnvFiles()...); err != nil {
		return err
	}
	o, err := ReadEnvOverrides()
	if err != nil {
		return err
	}
	o.Apply(c)
	return nil
}

// Apply copies the non-empty overrides into c.
func (o EnvOverrides) Apply(c *Config) {
	if o.Provider != "" {
		c.Provider.Name = strings.ToLower(o.Provider)
	}
	if o.Model != "" {
		c.Provider.Model = o.Model
	}
	if o.BaseURL != "" {
		c.Provider.BaseURL = o.BaseURL
	}
	if o.Temperature != nil {
		c.Provider.Temperature = *o.Temperature
	}

	switch {
	case o.APIKey != "":
		c.Provider.APIKey = o.APIKey
	case c.Provider.Name == "gemini" && o.GeminiKey != "":
		c.Provider.APIKey = o.GeminiKey
	case c.Provider.Name == "openai" && o.OpenAIKey != "":
		c.Provider.APIKey = o.OpenAIKey
	case c.Provider.APIKey == "" && o.LegacyKey != "":
		c.Provider.APIKey = o.LegacyKey
	}

	if o.Storage != "" {
		c.Storage.Backend = strings.ToLower(o.Storage)
	}
	if o.DataDir != "" {
		c.Storage.Dir = o.DataDir
	}
	if o.Player != "" {
		c.Audio.Player = o.Player
	}
	if o.Theme != "" {
		c.UI.Theme = strings.ToLower(o.Theme)
	}
}
