// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"strconv"
	"strings"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/util"
)

// FormatList renders sessions as a plain-text table for the CLI.
func FormatList(sessions []model.ChatSession) string {
	if len(sessions) == 0 {
		return "No sessions found."
	}

	var sb strings.Builder
	sb.WriteString(util.PadRight("ID", 14) + " " + util.PadRight("Created", 17) + " " + util.PadRight("Msgs", 5) + " Title\n")
	sb.WriteString(strings.Repeat("-", 60) + "\n")

	for _, s := range sessions {
		sb.WriteString(util.PadRight(s.ID, 14) + " " +
			util.PadRight(s.Created().Format("2006-01-02 15:04"), 17) + " " +
			util.PadRight(strconv.Itoa(s.MessageCount()), 5) + " " +
			util.TruncateWidth(s.Title, 30) + "\n")
	}
	return sb.String()
}

// Preview returns the first user message text of s, truncated for lists.
func Preview(s model.ChatSession, maxRunes int) string {
	for _, m := range s.Messages {
		if m.Role == model.RoleUser && m.Text != "" {
			return util.TruncateRunes(strings.ReplaceAll(m.Text, "\n", " "), maxRunes)
		}
	}
	return ""
}
