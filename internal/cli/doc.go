// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-interactive
// commands of pocketstudio.
//
// Every command runs on the same session store, profile store and reducer
// as the full-screen app, so a chat started with "ask" shows up in the
// app's history and vice versa.
//
// # Key Types
//
//   - Command: the command words, parsed by ParseArgs
//   - Args: global flags plus the command's raw arguments
//   - Runtime: config, storage, provider and reducer opened for a command
//   - ArgParser: subcommand, flag and positional splitting
//
// # Usage
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//	    err = cli.HandleAsk(args)
//	case cli.CmdSessions:
//	    err = cli.HandleSessions(args)
//	// ...
//	}
//
// Handlers return errors without printing them. --json switches version,
// ask, sessions, profile, config and doctor to a JSONResponse envelope.
package cli
