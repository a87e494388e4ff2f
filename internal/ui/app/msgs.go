// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/pocketstudio/internal/chat"
	"github.com/jeranaias/pocketstudio/internal/config"
)

// ConfigReloadedMsg carries a config file reload. Err is set when the new
// file could not be used; Config then holds the defaults.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// sendDoneMsg reports a finished send.
type sendDoneMsg struct {
	result chat.Result
	err    error
}

// notificationMsg forwards a reducer notification.
type notificationMsg chat.Notification

// speakDoneMsg reports the end of a playback.
type speakDoneMsg struct{ err error }

// shareDoneMsg reports an export.
type shareDoneMsg struct {
	path string
	err  error
}

// bannerExpiredMsg hides the feedback banner if seq is still current.
type bannerExpiredMsg struct{ seq int }

// waitNotification blocks on the notification channel.
func waitNotification(ch <-chan chat.Notification) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return notificationMsg(n)
	}
}
