// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-based chat over the same reducer as the app.
//
// Command: chat
//
// Interactive commands:
//   /new            Start a new chat
//   /image PATH     Attach an image to the next prompt
//   /speak          Read the last reply aloud
//   /sessions       List saved chats
//   /help           Show these commands
//   /quit           Exit
//   Ctrl+C          Stop the reply being streamed (exit at the prompt)
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/pocketstudio/internal/config"
	"github.com/jeranaias/pocketstudio/internal/session"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader reads one line of input.
type LineReader interface {
	ReadInput(prompt string) (string, error)
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI and loads the saved history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	c := &ChatCLI{line: line, historyFile: filepath.Join(dir, "chat_history")}
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
	return c
}

// ReadInput reads a line, adding non-empty input to the history.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves the history (0600) and restores the terminal.
func (c *ChatCLI) Close() {
	if err := os.MkdirAll(filepath.Dir(c.historyFile), 0700); err == nil {
		if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
			_, _ = c.line.WriteHistory(f)
			f.Close()
		}
	}
	c.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

const chatHelp = `Commands:
  /new          start a new chat
  /image PATH   attach an image to the next prompt
  /speak        read the last reply aloud
  /sessions     list saved chats
  /help         show this help
  /quit         exit
`

// HandleChat handles the "chat" command.
func HandleChat(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}
	rt, err := OpenRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()

	in := NewChatCLI()
	defer in.Close()

	// Outside the prompt the terminal is cooked, so Ctrl+C arrives as
	// SIGINT and stops the streaming reply.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	defer signal.Stop(sig)
	go func() {
		for range sig {
			rt.Reducer.Cancel()
			rt.Speaker.Stop()
		}
	}()

	return RunChat(context.Background(), rt, in)
}

// RunChat runs the read-send loop until /quit, EOF or an aborted prompt.
func RunChat(ctx context.Context, rt *Runtime, in LineReader) error {
	fmt.Fprintln(stdout, TitleStyle.Render("pocketstudio chat")+"  "+
		DimStyle.Render(rt.Provider.Name()+" · /help for commands"))

	for {
		line, err := in.ReadInput(PromptStyle.Render("you › "))
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(stdout)
				return nil
			}
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			quit, err := chatCommand(ctx, rt, line)
			if err != nil {
				fmt.Fprintln(stderr, ErrorStyle.Render("Error: ")+err.Error())
			}
			if quit {
				return nil
			}
			continue
		}
		if err := chatSend(ctx, rt, line); err != nil {
			fmt.Fprintln(stderr, ErrorStyle.Render(err.Error()))
		}
	}
}

func chatSend(ctx context.Context, rt *Runtime, text string) error {
	fmt.Fprint(stdout, ModelStyle.Render("model › "))
	echo := echoReplies(rt.Sessions, stdout)
	rt.Reducer.SetInput(text)
	res, err := rt.Reducer.SendInput(ctx)
	echo.stop()
	fmt.Fprintln(stdout)
	if err != nil {
		return err
	}
	if res.Canceled {
		fmt.Fprintln(stdout, WarningStyle.Render("Reply stopped"))
	}
	if res.Err != nil {
		return replyError(res.Err)
	}
	return nil
}

// chatCommand runs one slash command and reports whether to exit.
func chatCommand(ctx context.Context, rt *Runtime, line string) (bool, error) {
	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(name) {
	case "/quit", "/q", "/exit":
		return true, nil

	case "/help", "/h", "/?":
		fmt.Fprint(stdout, chatHelp)

	case "/new", "/n":
		rt.Reducer.StartNewChat()
		fmt.Fprintln(stdout, SuccessStyle.Render("New chat"))

	case "/image", "/img":
		if rest == "" {
			if rt.Reducer.Image() != "" {
				rt.Reducer.ClearImage()
				fmt.Fprintln(stdout, DimStyle.Render("Image removed"))
				return false, nil
			}
			return false, ErrMissingArgument("path", "/image photo.png")
		}
		if err := rt.Reducer.AttachImageFile(rest); err != nil {
			return false, err
		}
		fmt.Fprintln(stdout, SuccessStyle.Render("Image attached: ")+filepath.Base(rest))

	case "/speak", "/s":
		s, ok := rt.Reducer.Active()
		if !ok {
			return false, errors.New("no reply to read yet")
		}
		reply, ok := s.LastReply()
		if !ok {
			return false, errors.New("no reply to read yet")
		}
		if err := rt.Speaker.Speak(ctx, reply.Text); err != nil && !errors.Is(err, context.Canceled) {
			return false, fmt.Errorf("playback failed: %w", err)
		}

	case "/sessions", "/history":
		fmt.Fprintln(stdout, strings.TrimRight(session.FormatList(rt.Sessions.List()), "\n"))

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", name)
	}
	return false, nil
}
