// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points the home directory at a temp dir so Load never reads the
// developer's real config, and clears variables that would override it.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, k := range []string{
		"POCKETSTUDIO_PROVIDER", "POCKETSTUDIO_MODEL", "POCKETSTUDIO_API_KEY",
		"GEMINI_API_KEY", "OPENAI_API_KEY", "API_KEY", "POCKETSTUDIO_BASE_URL",
		"POCKETSTUDIO_TEMPERATURE", "POCKETSTUDIO_STORAGE", "POCKETSTUDIO_DATA_DIR",
		"POCKETSTUDIO_PLAYER", "POCKETSTUDIO_THEME",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return home
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "gemini", cfg.Provider.Name)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, 24000, cfg.Audio.SampleRate)
	assert.Equal(t, "profile", cfg.UI.Theme)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown provider", func(c *Config) { c.Provider.Name = "llama" }, "provider.name"},
		{"temperature", func(c *Config) { c.Provider.Temperature = 3 }, "provider.temperature"},
		{"negative rpm", func(c *Config) { c.Provider.RequestsPerMinute = -1 }, "provider.requests_per_minute"},
		{"base url", func(c *Config) { c.Provider.BaseURL = "ftp://x" }, "provider.base_url"},
		{"backend", func(c *Config) { c.Storage.Backend = "redis" }, "storage.backend"},
		{"player", func(c *Config) { c.Audio.Player = "vlc" }, "audio.player"},
		{"sample rate", func(c *Config) { c.Audio.SampleRate = 10 }, "audio.sample_rate"},
		{"channels", func(c *Config) { c.Audio.Channels = 6 }, "audio.channels"},
		{"theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"word wrap", func(c *Config) { c.UI.WordWrap = 5 }, "ui.word_wrap"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verrs ValidateErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}

func TestConfig_SaveAndLoadTOML(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := Default()
	cfg.Provider.Name = "openai"
	cfg.Provider.Model = "gpt-4o-mini"
	cfg.Storage.Backend = "sqlite"
	cfg.UI.WordWrap = 72
	require.NoError(t, SaveTOML(cfg, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Provider, loaded.Provider)
	assert.Equal(t, cfg.Storage, loaded.Storage)
	assert.Equal(t, 72, loaded.UI.WordWrap)
}

func TestConfig_PartialFileGetsDefaults(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[provider]\nname = \"scripted\"\n"), 0600))

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "scripted", cfg.Provider.Name)
	assert.Equal(t, 1, cfg.Audio.Channels)
	assert.Equal(t, "file", cfg.Storage.Backend)
}

func TestConfig_LoadFallsBackToJSON(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".pocketstudio")
	cfg := Default()
	cfg.Provider.Name = "scripted"
	require.NoError(t, SaveJSON(cfg, filepath.Join(dir, "config.json")))

	loaded, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "scripted", loaded.Provider.Name)
}

func TestConfig_LoadBrokenFileReturnsDefaults(t *testing.T) {
	home := isolate(t)
	dir := filepath.Join(home, ".pocketstudio")
	require.NoError(t, os.MkdirAll(dir, 0700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[provider\n"), 0600))

	cfg, err := Load()
	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, Default().Provider, cfg.Provider)
}

func TestEnvOverrides_KeyPrecedence(t *testing.T) {
	cfg := Default()
	EnvOverrides{GeminiKey: "g", OpenAIKey: "o", LegacyKey: "l"}.Apply(cfg)
	assert.Equal(t, "g", cfg.Provider.APIKey)

	cfg = Default()
	EnvOverrides{Provider: "OpenAI", GeminiKey: "g", OpenAIKey: "o"}.Apply(cfg)
	assert.Equal(t, "openai", cfg.Provider.Name)
	assert.Equal(t, "o", cfg.Provider.APIKey)

	cfg = Default()
	EnvOverrides{APIKey: "explicit", GeminiKey: "g"}.Apply(cfg)
	assert.Equal(t, "explicit", cfg.Provider.APIKey)

	cfg = Default()
	cfg.Provider.APIKey = "from-file"
	EnvOverrides{LegacyKey: "l"}.Apply(cfg)
	assert.Equal(t, "from-file", cfg.Provider.APIKey)
}

func TestEnvOverrides_FromEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("POCKETSTUDIO_STORAGE", "memory")
	t.Setenv("POCKETSTUDIO_TEMPERATURE", "1.25")
	t.Setenv("GEMINI_API_KEY", "secret")

	cfg := Default()
	require.NoError(t, cfg.ApplyEnvOverrides())
	assert.Equal(t, "memory", cfg.Storage.Backend)
	assert.InDelta(t, 1.25, cfg.Provider.Temperature, 1e-9)
	assert.Equal(t, "secret", cfg.Provider.APIKey)
}

func TestLoadDotEnv(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("POCKETSTUDIO_PLAYER=aplay\n"), 0600))

	require.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env"), envFile))
	t.Cleanup(func() { os.Unsetenv("POCKETSTUDIO_PLAYER") })

	o, err := ReadEnvOverrides()
	require.NoError(t, err)
	assert.Equal(t, "aplay", o.Player)
}

func TestConfig_StringRedactsKey(t *testing.T) {
	cfg := Default()
	cfg.Provider.APIKey = "sk-very-secret"
	s := cfg.String()
	assert.NotContains(t, s, "sk-very-secret")
	assert.Contains(t, s, "REDACTED")
}

func TestConfig_GetSet(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Set("provider.model", "gemini-2.0"))
	v, err := cfg.Get("provider.model")
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0", v)

	require.NoError(t, cfg.Set("provider.api_key", "k"))
	assert.Equal(t, "k", cfg.Provider.APIKey)

	require.NoError(t, cfg.Set("ui.word_wrap", "80"))
	assert.Equal(t, 80, cfg.UI.WordWrap)

	require.NoError(t, cfg.Set("ui.show_timestamps", "yes"))
	assert.True(t, cfg.UI.ShowTimestamps)

	assert.Error(t, cfg.Set("ui.word_wrap", "wide"))
	assert.Error(t, cfg.Set("nope.field", "x"))
	_, err = cfg.Get("provider")
	assert.Error(t, err)
}

func TestGetAllKeys(t *testing.T) {
	keys := GetAllKeys()
	assert.Contains(t, keys, "provider.api_key")
	assert.Contains(t, keys, "storage.backend")
	assert.Contains(t, keys, "ui.word_wrap")

	cfg := Default()
	for _, k := range keys {
		_, err := cfg.Get(k)
		assert.NoError(t, err, k)
	}
}

func TestConfig_ProviderConfig(t *testing.T) {
	cfg := Default()
	cfg.Provider.TimeoutSecs = 5
	pc := cfg.ProviderConfig(nil)
	assert.Equal(t, "gemini", pc.Name)
	assert.Equal(t, 5*time.Second, pc.Timeout)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, SaveTOML(Default(), path))

	got := make(chan *Config, 4)
	w, err := Watch(path, func(cfg *Config, err error) {
		if err == nil {
			got <- cfg
		}
	})
	require.NoError(t, err)
	defer w.Close()

	cfg := Default()
	cfg.UI.Theme = "dark"
	require.NoError(t, SaveTOML(cfg, path))

	select {
	case c := <-got:
		assert.Equal(t, "dark", c.UI.Theme)
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

// TestConfig_ConcurrentAccess checks Global and SetGlobal under the race detector.
func TestConfig_ConcurrentAccess(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			SetGlobal(Default())
		}()
		go func() {
			defer wg.Done()
			assert.NotNil(t, Global())
		}()
	}
	wg.Wait()
}

func TestConfig_ConcurrentReload(t *testing.T) {
	isolate(t)
	ResetGlobalForTesting()
	t.Cleanup(ResetGlobalForTesting)
	_ = Global()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ReloadGlobal()
		}()
	}
	for i := 0; i < 80; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NotNil(t, Global())
		}()
	}
	wg.Wait()
}
