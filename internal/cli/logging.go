// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// LogFileName is the log written while the full-screen UI owns the terminal.
const LogFileName = "pocketstudio.log"

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// SetupLogging installs the default slog logger. In TUI mode records go to
// ~/.pocketstudio/pocketstudio.log; otherwise to stderr at warn level, or
// debug with verbose. The returned closer releases the log file.
func SetupLogging(verbose, tui bool) (io.Closer, error) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	if !tui {
		slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
		return nopCloser{}, nil
	}

	path, err := logPath()
	if err != nil {
		return nopCloser{}, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return nopCloser{}, err
	}
	if !verbose {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})))
	return f, nil
}

func logPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, ".pocketstudio")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(dir, LogFileName), nil
}
