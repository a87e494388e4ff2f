// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/pocketstudio/internal/provider"
	"github.com/jeranaias/pocketstudio/internal/storage"
	"github.com/jeranaias/pocketstudio/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete pocketstudio configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	Provider ProviderConfig `toml:"provider" json:"provider"`
	Storage  StorageConfig  `toml:"storage" json:"storage"`
	Audio    AudioConfig    `toml:"audio" json:"audio"`
	UI       UIConfig       `toml:"ui" json:"ui"`
}

// ProviderConfig selects the model backend.
type ProviderConfig struct {
	// Name is one of "gemini", "openai" or "scripted".
	Name     string `toml:"name" json:"name"`
	Model    string `toml:"model" json:"model"`
	TTSModel string `toml:"tts_model" json:"tts_model"`
	Voice    string `toml:"voice" json:"voice"`
	APIKey   string `toml:"api_key" json:"api_key"`
	// BaseURL overrides the service endpoint (OpenAI-compatible gateways).
	BaseURL           string  `toml:"base_url" json:"base_url"`
	Temperature       float64 `toml:"temperature" json:"temperature"`
	SystemInstruction string  `toml:"system_instruction" json:"system_instruction"`
	// RequestsPerMinute caps outgoing requests; 0 disables the limiter.
	RequestsPerMinute int `toml:"requests_per_minute" json:"requests_per_minute"`
	TimeoutSecs       int `toml:"timeout_secs" json:"timeout_secs"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	// Backend is "file", "sqlite" or "memory".
	Backend string `toml:"backend" json:"backend"`
	// Dir is the data directory; empty means ~/.pocketstudio/data.
	Dir string `toml:"dir" json:"dir"`
}

// AudioConfig controls reply playback.
type AudioConfig struct {
	// Player forces an external player; empty auto-detects.
	Player     string `toml:"player" json:"player"`
	SampleRate int    `toml:"sample_rate" json:"sample_rate"`
	Channels   int    `toml:"channels" json:"channels"`
}

// UIConfig contains terminal rendering settings.
type UIConfig struct {
	// Theme is "profile" (follow the profile's dark mode), "terminal",
	// "light" or "dark".
	Theme string `toml:"theme" json:"theme"`
	// WordWrap fixes the bubble width in cells; 0 derives it from the
	// terminal width and the profile font size.
	WordWrap       int  `toml:"word_wrap" json:"word_wrap"`
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
}

// =============================================================================
// DEFAULT CONFIG
// =============================================================================

// CurrentVersion is written into new config files.
const CurrentVersion = "1"

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Provider: ProviderConfig{
			Name:              "gemini",
			Voice:             provider.DefaultVoice,
			Temperature:       provider.DefaultTemperature,
			RequestsPerMinute: 30,
			TimeoutSecs:       int(provider.DefaultTimeout / time.Second),
		},
		Storage: StorageConfig{
			Backend: storage.BackendFile,
		},
		Audio: AudioConfig{
			SampleRate: provider.DefaultSampleRate,
			Channels:   1,
		},
		UI: UIConfig{
			Theme: "profile",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the pocketstudio configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".pocketstudio"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ensureSecurePermissions tightens config files to 0600; they may hold API keys.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads ~/.pocketstudio/config.toml, then config.json, then falls back
// to defaults. Environment overrides are applied last. A broken file is
// reported alongside the defaults so callers can warn and carry on.
func Load() (*Config, error) {
	var loadErr error
	for _, pathFn := range []func() (string, error){ConfigPathTOML, ConfigPathJSON} {
		path, err := pathFn()
		if err != nil {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		cfg, err := LoadFromPath(path)
		if err == nil {
			return cfg, nil
		}
		loadErr = err
		break
	}

	cfg := Default()
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, loadErr
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		slog.Warn("could not secure config permissions", "path", path, "error", err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		slog.Warn("could not secure config permissions", "path", path, "error", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads a specific file with defaults, env overrides and
// validation applied. The format follows the extension; anything but
// .json is read as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	load := LoadTOML
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		load = LoadJSON
	}
	if err := load(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SetDefaults fills zero values left by a partial file.
func (c *Config) SetDefaults() {
	def := Default()
	if c.Version == "" {
		c.Version = def.Version
	}
	if c.Provider.Name == "" {
		c.Provider.Name = def.Provider.Name
	}
	c.Provider.Name = strings.ToLower(c.Provider.Name)
	if c.Provider.Voice == "" {
		c.Provider.Voice = def.Provider.Voice
	}
	if c.Provider.Temperature == 0 {
		c.Provider.Temperature = def.Provider.Temperature
	}
	if c.Provider.TimeoutSecs == 0 {
		c.Provider.TimeoutSecs = def.Provider.TimeoutSecs
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = def.Storage.Backend
	}
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = def.Audio.SampleRate
	}
	if c.Audio.Channels == 0 {
		c.Audio.Channels = def.Audio.Channels
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg as TOML with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var b strings.Builder
	b.WriteString("# pocketstudio configuration file\n")
	b.WriteString("# Environment variables (POCKETSTUDIO_*, GEMINI_API_KEY, OPENAI_API_KEY) take precedence.\n\n")
	if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes cfg as indented JSON with 0600 permissions.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// KnownProviders lists the accepted provider names.
var KnownProviders = []string{"gemini", "openai", "scripted"}

var knownPlayers = []string{"", "ffplay", "paplay", "aplay", "play"}

// Validate checks every section and returns ValidateErrors when anything is
// out of range.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if !contains(KnownProviders, strings.ToLower(c.Provider.Name)) {
		add("provider.name", "must be one of %s (got %q)", strings.Join(KnownProviders, ", "), c.Provider.Name)
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 2 {
		add("provider.temperature", "must be between 0 and 2 (got %g)", c.Provider.Temperature)
	}
	if c.Provider.RequestsPerMinute < 0 {
		add("provider.requests_per_minute", "must not be negative")
	}
	if c.Provider.TimeoutSecs < 0 || c.Provider.TimeoutSecs > 600 {
		add("provider.timeout_secs", "must be between 0 and 600 (got %d)", c.Provider.TimeoutSecs)
	}
	if c.Provider.BaseURL != "" {
		u, err := url.Parse(c.Provider.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			add("provider.base_url", "must be an http(s) URL (got %q)", c.Provider.BaseURL)
		}
	}

	switch c.Storage.Backend {
	case storage.BackendFile, storage.BackendSQLite, storage.BackendMemory:
	default:
		add("storage.backend", "must be file, sqlite or memory (got %q)", c.Storage.Backend)
	}

	if !contains(knownPlayers, c.Audio.Player) {
		add("audio.player", "unsupported player %q", c.Audio.Player)
	}
	if c.Audio.SampleRate < 8000 || c.Audio.SampleRate > 192000 {
		add("audio.sample_rate", "must be between 8000 and 192000 (got %d)", c.Audio.SampleRate)
	}
	if c.Audio.Channels < 1 || c.Audio.Channels > 2 {
		add("audio.channels", "must be 1 or 2 (got %d)", c.Audio.Channels)
	}

	switch c.UI.Theme {
	case "profile", "terminal", "light", "dark":
	default:
		add("ui.theme", "must be profile, terminal, light or dark (got %q)", c.UI.Theme)
	}
	if c.UI.WordWrap != 0 && (c.UI.WordWrap < 20 || c.UI.WordWrap > 400) {
		add("ui.word_wrap", "must be 0 or between 20 and 400 (got %d)", c.UI.WordWrap)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// =============================================================================
// DERIVED SETTINGS
// =============================================================================

// ProviderConfig converts the [provider] section for provider.New.
func (c *Config) ProviderConfig(logger *slog.Logger) provider.Config {
	p := c.Provider
	return provider.Config{
		Name:              p.Name,
		Model:             p.Model,
		TTSModel:          p.TTSModel,
		Voice:             p.Voice,
		APIKey:            p.APIKey,
		BaseURL:           p.BaseURL,
		Temperature:       p.Temperature,
		SystemInstruction: p.SystemInstruction,
		RequestsPerMinute: p.RequestsPerMinute,
		Timeout:           time.Duration(p.TimeoutSecs) * time.Second,
		Logger:            logger,
	}
}

// DataDir resolves the storage directory.
func (c *Config) DataDir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	return storage.DefaultDir()
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String renders the config as JSON with the API key replaced by its
// fingerprint.
func (c *Config) String() string {
	safe := c.Clone()
	if safe.Provider.APIKey != "" {
		safe.Provider.APIKey = "[REDACTED " + util.Fingerprint(safe.Provider.APIKey) + "]"
	}
	data, _ := json.MarshalIndent(safe, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration, loading it on first access.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			slog.Warn("config load failed, using defaults", "error", err)
		}
		if cfg == nil {
			cfg = Default()
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal replaces the global configuration.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting clears the global config between tests.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
