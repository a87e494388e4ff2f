// pocketstudio - a pocket AI chat client for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/pocketstudio/internal/cli"
	"github.com/jeranaias/pocketstudio/internal/config"
	"github.com/jeranaias/pocketstudio/internal/ui/app"

	// Providers register themselves by name.
	_ "github.com/jeranaias/pocketstudio/internal/provider/gemini"
	_ "github.com/jeranaias/pocketstudio/internal/provider/openai"
	_ "github.com/jeranaias/pocketstudio/internal/provider/providertest"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	logs, err := cli.SetupLogging(args.Verbose, cmd == cli.CmdTUI)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer logs.Close()

	switch cmd {
	case cli.CmdTUI:
		err = runTUI(args)
	case cli.CmdAsk:
		err = cli.HandleAsk(args)
	case cli.CmdChat:
		err = cli.HandleChat(args)
	case cli.CmdSessions:
		err = cli.HandleSessions(args)
	case cli.CmdSpeak:
		err = cli.HandleSpeak(args)
	case cli.CmdProfile:
		err = cli.HandleProfile(args)
	case cli.CmdConfig:
		err = cli.HandleConfig(args)
	case cli.CmdDoctor:
		err = cli.HandleDoctor(args)
	case cli.CmdVersion:
		err = cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		err = cli.HandleUnknown(args)
	}

	if err != nil {
		logs.Close()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runTUI starts the full-screen app.
func runTUI(args cli.Args) error {
	rt, err := cli.OpenRuntime(args)
	if err != nil {
		return err
	}
	defer rt.Close()

	dataDir, err := rt.Config.DataDir()
	if err != nil {
		return err
	}

	m := app.New(app.Deps{
		Config:    rt.Config,
		Profiles:  rt.Profiles,
		Reducer:   rt.Reducer,
		Notes:     rt.Notes,
		Speaker:   rt.Speaker,
		Logger:    rt.Logger,
		ExportDir: filepath.Join(dataDir, "exports"),
		Clipboard: clipboard.WriteAll,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())

	// Edits to the config file re-theme the running app.
	if path, err := config.ConfigPathTOML(); err == nil {
		w, err := config.Watch(path, func(cfg *config.Config, err error) {
			if cfg != nil {
				cfg = cli.ApplyFlags(cfg, args)
			}
			p.Send(app.ConfigReloadedMsg{Config: cfg, Err: err})
		})
		if err != nil {
			slog.Warn("config watch disabled", "path", path, "error", err)
		} else {
			defer w.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
