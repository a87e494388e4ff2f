// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
)

// Output renders a decoded buffer.
type Output interface {
	Play(ctx context.Context, buf *Buffer) error
}

// playerArgs returns the command line for reading raw float32 LE samples
// from stdin.
var playerArgs = map[string]func(rate, channels int) []string{
	"ffplay": func(rate, channels int) []string {
		return []string{"-nodisp", "-autoexit", "-loglevel", "error",
			"-f", "f32le", "-ar", strconv.Itoa(rate), "-ac", strconv.Itoa(channels), "-i", "-"}
	},
	"aplay": func(rate, channels int) []string {
		return []string{"-q", "-t", "raw", "-f", "FLOAT_LE", "-r", strconv.Itoa(rate), "-c", strconv.Itoa(channels), "-"}
	},
	"paplay": func(rate, channels int) []string {
		return []string{"--raw", "--format=float32le", "--rate=" + strconv.Itoa(rate), "--channels=" + strconv.Itoa(channels)}
	},
	"play": func(rate, channels int) []string {
		return []string{"-q", "-t", "raw", "-e", "floating-point", "-b", "32", "-L",
			"-r", strconv.Itoa(rate), "-c", strconv.Itoa(channels), "-"}
	},
}

// PlayerOrder is the detection preference.
var PlayerOrder = []string{"ffplay", "paplay", "aplay", "play"}

// Runner starts name with args, feeding stdin, and waits for it to exit.
type Runner func(ctx context.Context, name string, args []string, stdin io.Reader) error

func execRunner(ctx context.Context, name string, args []string, stdin io.Reader) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if msg := bytes.TrimSpace(stderr.Bytes()); len(msg) > 0 {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// ExecOutput plays audio through an external command.
type ExecOutput struct {
	player   string
	lookPath func(string) (string, error)
	run      Runner
}

// NewExecOutput returns an output using player, or the first detected
// player when player is empty.
func NewExecOutput(player string) *ExecOutput {
	return &ExecOutput{player: player, lookPath: exec.LookPath, run: execRunner}
}

// WithRunner replaces the process runner. Tests use it to capture output.
func (o *ExecOutput) WithRunner(r Runner, lookPath func(string) (string, error)) *ExecOutput {
	o.run = r
	if lookPath != nil {
		o.lookPath = lookPath
	}
	return o
}

// Detect returns the player that would be used, or ErrNoOutput.
func (o *ExecOutput) Detect() (string, error) {
	candidates := PlayerOrder
	if o.player != "" {
		if _, ok := playerArgs[o.player]; !ok {
			return "", fmt.Errorf("%w: unsupported player %q", ErrNoOutput, o.player)
		}
		candidates = []string{o.player}
	}
	for _, name := range candidates {
		if _, err := o.lookPath(name); err == nil {
			return name, nil
		}
	}
	return "", ErrNoOutput
}

// Play implements Output.
func (o *ExecOutput) Play(ctx context.Context, buf *Buffer) error {
	if buf == nil || buf.Frames() == 0 {
		return &PlaybackError{Op: "play", Err: ErrEmptyAudio}
	}
	name, err := o.Detect()
	if err != nil {
		return &PlaybackError{Op: "play", Err: err}
	}
	args := playerArgs[name](buf.SampleRate, buf.Channels())
	if err := o.run(ctx, name, args, bytes.NewReader(buf.Interleave())); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return &PlaybackError{Op: "play", Err: err}
	}
	return nil
}
