// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command.
//
// Command: ask [--image PATH] "prompt"
//
// Sends one prompt in a new chat, which is saved like any chat started in
// the app. On a terminal the reply is rendered as markdown once complete;
// piped output receives the raw text as it streams.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/jeranaias/pocketstudio/internal/chat"
	"github.com/jeranaias/pocketstudio/internal/provider"
)

// AskData is the payload of "ask --json".
type AskData struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Fragments int    `json:"fragments"`
	Canceled  bool   `json:"canceled"`
	Duration  string `json:"duration"`
}

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) error {
	rt, err := OpenRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return RunAsk(ctx, rt, args, IsStdoutTTY())
}

// RunAsk sends args.Query (and args.Image) through rt. render selects
// markdown rendering of the finished reply over raw streaming.
func RunAsk(ctx context.Context, rt *Runtime, args Args, render bool) error {
	query := strings.TrimSpace(args.Query)
	if query == "" && args.Image == "" {
		return ErrMissingArgument("prompt", `pocketstudio ask "What is in this picture?" --image cat.png`)
	}

	var image string
	if args.Image != "" {
		url, err := provider.DataURLFromFile(args.Image)
		if err != nil {
			return &ValidationError{Field: "image", Value: args.Image, Reason: err.Error()}
		}
		image = url
	}

	rt.Reducer.StartNewChat()

	var echo *replyEcho
	if !render && !args.JSON {
		echo = echoReplies(rt.Sessions, stdout)
	} else if render && !args.JSON {
		fmt.Fprintln(stderr, DimStyle.Render("Thinking…"))
	}

	res, err := rt.Reducer.Send(ctx, query, image)
	if echo != nil {
		echo.stop()
	}
	if err != nil {
		return err
	}

	if args.JSON {
		if res.Err != nil {
			_ = NewJSONErrorResponse("ask", replyError(res.Err)).Print()
			return replyError(res.Err)
		}
		return NewJSONResponse("ask", AskData{
			SessionID: res.SessionID,
			Reply:     res.Text,
			Fragments: res.Fragments,
			Canceled:  res.Canceled,
			Duration:  res.Duration.Round(time.Millisecond).String(),
		}).Print()
	}

	switch {
	case render && res.Text != "":
		fmt.Fprint(stdout, renderMarkdown(res.Text))
	case echo != nil && echo.wrote():
		fmt.Fprintln(stdout)
	}
	if res.Canceled {
		fmt.Fprintln(stderr, WarningStyle.Render("Reply stopped"))
	}
	if res.Err != nil {
		return replyError(res.Err)
	}
	return nil
}

// replyError turns a provider failure into the message shown to users,
// keeping the cause for errors.Is.
func replyError(err error) error {
	var pe *provider.ProviderError
	if errors.As(err, &pe) {
		return fmt.Errorf("%s: %w", pe.UserMessage(), err)
	}
	if errors.Is(err, chat.ErrBusy) {
		return err
	}
	return fmt.Errorf("reply failed: %w", err)
}
