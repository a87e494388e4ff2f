// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// speak.go - Text-to-speech command.
//
// Command: speak "text"
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/jeranaias/pocketstudio/internal/audio"
	"github.com/jeranaias/pocketstudio/internal/provider"
)

// HandleSpeak handles the "speak" command.
func HandleSpeak(args Args) error {
	rt, err := OpenRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return RunSpeak(ctx, rt, args.Query)
}

// RunSpeak synthesizes text with the configured provider and plays it.
func RunSpeak(ctx context.Context, rt *Runtime, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrMissingArgument("text", `pocketstudio speak "Hello there"`)
	}
	err := rt.Speaker.Speak(ctx, text)
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return nil
	case errors.Is(err, audio.ErrNoOutput):
		return fmt.Errorf("%w (install ffplay, aplay or paplay, or set audio.player)", err)
	case errors.As(err, new(*provider.ProviderError)):
		return replyError(err)
	default:
		return fmt.Errorf("playback failed: %w", err)
	}
}
