// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Saved chat commands.
//
// Command: sessions [subcommand]
//
// Subcommands:
//   list (default)               List chats, newest first
//   show <id>                    Print one chat
//   export <id> [--format F] [--out FILE]
//                                Export as md, json, yaml or html
//   clear [--yes]                Delete every chat
package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/pocketstudio/internal/export"
	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/session"
	"github.com/jeranaias/pocketstudio/internal/ui/components"
)

var sessionSubcommands = []string{"list", "show", "export", "clear"}

// HandleSessions handles the "sessions" command.
func HandleSessions(args Args) error {
	rt, err := OpenRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()
	return RunSessions(rt, args)
}

// RunSessions dispatches a sessions subcommand against rt.
func RunSessions(rt *Runtime, args Args) error {
	p := NewArgParser(args.Raw, "yes", "y", "open")
	switch sub := p.Subcommand(); sub {
	case "", "list", "ls":
		return listSessions(rt.Sessions, args.JSON)
	case "show", "view":
		id := p.Positional(1)
		if id == "" {
			return ErrMissingArgument("id", "pocketstudio sessions show 1700000000000")
		}
		return showSession(rt.Sessions, id, args.JSON)
	case "export":
		id := p.Positional(1)
		if id == "" {
			return ErrMissingArgument("id", "pocketstudio sessions export 1700000000000 --format md")
		}
		return exportSession(rt, id, p.FlagOrDefault("format", "md"), p.Flag("out", "o"), p.BoolFlag("open"))
	case "clear", "delete-all":
		confirmed, err := RequireConfirmation(p.BoolFlag("yes", "y"), "delete every chat", args.JSON)
		if err != nil {
			return err
		}
		if !confirmed {
			ShowCancellationMessage()
			return nil
		}
		n := rt.Sessions.Len()
		rt.Reducer.Cancel()
		rt.Sessions.ClearAll()
		rt.Reducer.Deselect()
		if args.JSON {
			return NewJSONResponse("sessions clear", map[string]int{"deleted": n}).Print()
		}
		fmt.Fprintln(stdout, SuccessStyle.Render(fmt.Sprintf("Deleted %d chat(s)", n)))
		return nil
	default:
		return ErrUnknownSubcommand("sessions", sub, sessionSubcommands)
	}
}

func summarize(s model.ChatSession) SessionSummary {
	return SessionSummary{
		ID:       s.ID,
		Title:    s.Title,
		Created:  s.Created().UTC().Format(time.RFC3339),
		Messages: s.MessageCount(),
	}
}

func listSessions(store *session.Store, jsonMode bool) error {
	list := store.List()
	if jsonMode {
		rows := make([]SessionSummary, 0, len(list))
		for _, s := range list {
			rows = append(rows, summarize(s))
		}
		return NewJSONResponse("sessions list", rows).Print()
	}
	fmt.Fprintln(stdout, strings.TrimRight(session.FormatList(list), "\n"))
	return nil
}

func showSession(store *session.Store, id string, jsonMode bool) error {
	s, ok := store.Get(id)
	if !ok {
		return &NotFoundError{Resource: "session", ID: id}
	}
	if jsonMode {
		return NewJSONResponse("sessions show", s).Print()
	}

	fmt.Fprintln(stdout, TitleStyle.Render(s.Title))
	fmt.Fprintln(stdout, field("ID", s.ID))
	fmt.Fprintln(stdout, field("Created", s.Created().Format("2006-01-02 15:04")))
	fmt.Fprintln(stdout, field("Messages", fmt.Sprint(s.MessageCount())))
	fmt.Fprintln(stdout, Separator(min(GetTerminalWidth(), 60)))

	for _, m := range s.Messages {
		label := UserStyle.Render("You")
		if m.Role == model.RoleModel {
			label = ModelStyle.Render("Model")
		}
		fmt.Fprintf(stdout, "%s %s\n", label, DimStyle.Render(m.Time().Format("15:04")))
		if m.HasImage() {
			fmt.Fprintln(stdout, DimStyle.Render(components.ImageLabel(m.Image)))
		}
		if m.Text != "" {
			fmt.Fprintln(stdout, m.Text)
		}
		if m.Failed {
			fmt.Fprintln(stdout, WarningStyle.Render("(reply interrupted)"))
		}
		fmt.Fprintln(stdout)
	}
	return nil
}

func exportSession(rt *Runtime, id, format, out string, open bool) error {
	s, ok := rt.Sessions.Get(id)
	if !ok {
		return &NotFoundError{Resource: "session", ID: id}
	}
	opts := export.DefaultOptions()
	opts.OpenAfterExport = open
	if rt.Config.UI.Theme == "dark" {
		opts.Theme = "dark"
	}
	exporter, err := export.ForFormat(format, opts)
	if err != nil {
		return ErrUnsupportedFormat(format, export.Formats())
	}

	var path string
	if out != "" {
		content, err := exporter.Export(&s)
		if err != nil {
			return err
		}
		if err := export.WriteFile(out, content); err != nil {
			return err
		}
		path = out
	} else {
		path, err = export.ExportToFile(&s, exporter, opts)
		if err != nil {
			return err
		}
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	fmt.Fprintln(stdout, SuccessStyle.Render("Exported to ")+path)
	return nil
}
