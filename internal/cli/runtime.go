// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// runtime.go - Wires configuration, storage, provider and reducer for a command.
package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jeranaias/pocketstudio/internal/audio"
	"github.com/jeranaias/pocketstudio/internal/chat"
	"github.com/jeranaias/pocketstudio/internal/config"
	"github.com/jeranaias/pocketstudio/internal/profile"
	"github.com/jeranaias/pocketstudio/internal/provider"
	"github.com/jeranaias/pocketstudio/internal/session"
	"github.com/jeranaias/pocketstudio/internal/storage"
)

// Runtime holds the long-lived objects shared by the UI and the CLI commands.
type Runtime struct {
	Config   *config.Config
	KV       storage.KV
	Sessions *session.Store
	Profiles *profile.Store
	Provider provider.Provider
	Reducer  *chat.Reducer
	Notes    *chat.Notifications
	Speaker  *audio.Speaker
	Logger   *slog.Logger
}

// ApplyFlags copies --provider, --model and --storage onto a clone of cfg.
func ApplyFlags(cfg *config.Config, args Args) *config.Config {
	cfg = cfg.Clone()
	if args.Provider != "" {
		cfg.Provider.Name = args.Provider
	}
	if args.Model != "" {
		cfg.Provider.Model = args.Model
	}
	if args.Storage != "" {
		cfg.Storage.Backend = args.Storage
	}
	return cfg
}

// OpenRuntime loads the global config, applies the command-line overrides
// and opens storage and the provider.
func OpenRuntime(args Args) (*Runtime, error) {
	cfg := ApplyFlags(config.Global(), args)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	dir, err := cfg.DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	kv, err := storage.Open(cfg.Storage.Backend, dir)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	rt, err := NewRuntime(cfg, kv, slog.Default())
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	return rt, nil
}

// NewRuntime builds a Runtime over an already opened kv.
func NewRuntime(cfg *config.Config, kv storage.KV, logger *slog.Logger) (*Runtime, error) {
	p, err := provider.New(cfg.ProviderConfig(logger))
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	notes := chat.NewNotifications(16)
	sessions := session.Open(kv, session.WithLogger(logger))
	rt := &Runtime{
		Config:   cfg,
		KV:       kv,
		Sessions: sessions,
		Profiles: profile.Open(kv, logger),
		Provider: p,
		Notes:    notes,
		Logger:   logger,
	}
	rt.Reducer = chat.NewReducer(sessions, p, chat.WithNotifier(notes), chat.WithLogger(logger))
	rt.Speaker = audio.NewSpeaker(p, audio.NewExecOutput(cfg.Audio.Player),
		audio.WithFormat(cfg.Audio.SampleRate, cfg.Audio.Channels),
		audio.WithSpeakerLogger(logger))
	return rt, nil
}

// Close stops playback and releases storage.
func (r *Runtime) Close() error {
	var errs []error
	if r.Speaker != nil {
		r.Speaker.Stop()
	}
	if r.KV != nil {
		errs = append(errs, r.KV.Close())
	}
	return errors.Join(errs...)
}
