// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// confirm.go - Confirmation for destructive commands.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// stdin feeds confirmation prompts. Tests replace it.
var (
	stdin       io.Reader = os.Stdin
	stdinIsTTY            = IsTTY
)

// RequireConfirmation asks before a destructive action. yes skips the
// prompt. In JSON mode or without a terminal the flag is mandatory.
//
//	confirmed, err := RequireConfirmation(p.BoolFlag("yes"), "delete every chat", args.JSON)
//	if err != nil {
//	    return err
//	}
//	if !confirmed {
//	    ShowCancellationMessage()
//	    return nil
//	}
func RequireConfirmation(yes bool, action string, jsonMode bool) (bool, error) {
	if yes {
		return true, nil
	}
	if jsonMode {
		return false, fmt.Errorf("confirmation required: use --yes in JSON mode")
	}
	if !stdinIsTTY() {
		return false, fmt.Errorf("confirmation required but stdin is not a terminal; use --yes")
	}

	fmt.Fprintf(stdout, "Are you sure you want to %s? [y/N]: ", action)
	input, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && input == "" {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}
	response := strings.ToLower(strings.TrimSpace(input))
	return response == "y" || response == "yes", nil
}

// ShowCancellationMessage reports a declined confirmation.
func ShowCancellationMessage() {
	fmt.Fprintln(stdout, DimStyle.Render("Cancelled."))
}
