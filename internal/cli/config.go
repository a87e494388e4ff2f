// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation.
//
// Command: config [subcommand]
//
// Subcommands:
//   show (default)      Print the effective configuration, API key redacted
//   path                Print the configuration file path
//   init [--force]      Write a default configuration file
//   get <key>           Print one value, e.g. provider.model
//   set <key> <value>   Change one value in the file and save it
//
// "show" and "get" report the effective values, environment included;
// "set" edits the file alone so environment secrets are never written.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jeranaias/pocketstudio/internal/config"
	"github.com/jeranaias/pocketstudio/internal/util"
)

var configSubcommands = []string{"show", "path", "init", "get", "set", "keys"}

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}
	return RunConfig(args, config.Global(), path)
}

// configFilePath prefers config.toml, falling back to an existing
// config.json.
func configFilePath() (string, error) {
	tomlPath, err := config.ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	if jsonPath, err := config.ConfigPathJSON(); err == nil {
		if _, err := os.Stat(jsonPath); err == nil {
			return jsonPath, nil
		}
	}
	return tomlPath, nil
}

// RunConfig dispatches a config subcommand. effective is the loaded
// configuration; path is the file that set and init write.
func RunConfig(args Args, effective *config.Config, path string) error {
	p := NewArgParser(args.Raw, "force", "f")
	switch sub := p.Subcommand(); sub {
	case "", "show":
		return showConfig(ApplyFlags(effective, args), path, args.JSON)

	case "path":
		fmt.Fprintln(stdout, path)
		return nil

	case "keys":
		for _, k := range config.GetAllKeys() {
			fmt.Fprintln(stdout, k)
		}
		return nil

	case "init":
		if _, err := os.Stat(path); err == nil && !p.BoolFlag("force", "f") {
			return &ValidationError{Field: "config", Value: path, Reason: "file already exists", Example: "pocketstudio config init --force"}
		}
		if err := saveConfig(config.Default(), path); err != nil {
			return err
		}
		fmt.Fprintln(stdout, SuccessStyle.Render("Wrote ")+path)
		return nil

	case "get":
		key := p.Positional(1)
		if key == "" {
			return ErrMissingArgument("key", "pocketstudio config get provider.model")
		}
		v, err := ApplyFlags(effective, args).Get(key)
		if err != nil {
			return &ValidationError{Field: "key", Value: key, Reason: err.Error()}
		}
		if strings.EqualFold(key, "provider.api_key") {
			v = redact(fmt.Sprint(v))
		}
		fmt.Fprintln(stdout, v)
		return nil

	case "set":
		key, value := p.Positional(1), strings.Join(p.PositionalFrom(2), " ")
		if key == "" || p.PositionalCount() < 3 {
			return ErrMissingArgument("key and value", "pocketstudio config set provider.model gemini-2.5-flash")
		}
		cfg, err := fileConfig(path)
		if err != nil {
			return err
		}
		if err := cfg.Set(key, value); err != nil {
			return &ValidationError{Field: "key", Value: key, Reason: err.Error()}
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := saveConfig(cfg, path); err != nil {
			return err
		}
		shown := value
		if strings.EqualFold(key, "provider.api_key") {
			shown = redact(value)
		}
		fmt.Fprintln(stdout, SuccessStyle.Render("Set ")+key+" = "+shown)
		return nil

	default:
		return ErrUnknownSubcommand("config", sub, configSubcommands)
	}
}

func redact(key string) string {
	if key == "" {
		return ""
	}
	return "[REDACTED " + util.Fingerprint(key) + "]"
}

func showConfig(cfg *config.Config, path string, jsonMode bool) error {
	if jsonMode {
		// String redacts the API key.
		return NewJSONResponse("config show", json.RawMessage(cfg.String())).Print()
	}
	fmt.Fprintln(stdout, TitleStyle.Render("Configuration"))
	fmt.Fprintln(stdout, field("File", path))
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, TitleStyle.Render("[provider]"))
	fmt.Fprintln(stdout, field("name", cfg.Provider.Name))
	fmt.Fprintln(stdout, field("model", cfg.Provider.Model))
	fmt.Fprintln(stdout, field("tts_model", cfg.Provider.TTSModel))
	fmt.Fprintln(stdout, field("voice", cfg.Provider.Voice))
	fmt.Fprintln(stdout, field("api_key", orNone(redact(cfg.Provider.APIKey))))
	fmt.Fprintln(stdout, field("base_url", orNone(cfg.Provider.BaseURL)))
	fmt.Fprintln(stdout, field("temperature", fmt.Sprint(cfg.Provider.Temperature)))
	fmt.Fprintln(stdout, field("timeout_secs", fmt.Sprint(cfg.Provider.TimeoutSecs)))
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, TitleStyle.Render("[storage]"))
	fmt.Fprintln(stdout, field("backend", cfg.Storage.Backend))
	dir, _ := cfg.DataDir()
	fmt.Fprintln(stdout, field("dir", dir))
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, TitleStyle.Render("[audio]"))
	fmt.Fprintln(stdout, field("player", orNone(cfg.Audio.Player)))
	fmt.Fprintln(stdout, field("sample_rate", fmt.Sprint(cfg.Audio.SampleRate)))
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, TitleStyle.Render("[ui]"))
	fmt.Fprintln(stdout, field("theme", orNone(cfg.UI.Theme)))
	fmt.Fprintln(stdout, field("word_wrap", fmt.Sprint(cfg.UI.WordWrap)))
	fmt.Fprintln(stdout, field("show_timestamps", fmt.Sprint(cfg.UI.ShowTimestamps)))
	return nil
}

func orNone(s string) string {
	if s == "" {
		return DimStyle.Render("(none)")
	}
	return s
}

// fileConfig reads path over the defaults without environment overrides.
func fileConfig(path string) (*config.Config, error) {
	cfg := config.Default()
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	load := config.LoadTOML
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		load = config.LoadJSON
	}
	if err := load(cfg, path); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	return cfg, nil
}

func saveConfig(cfg *config.Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}
