// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable pieces of the pocketstudio TUI:
// message bubbles, the header, the bottom navigation bar, toasts and the
// confirmation dialog. Screens live in package app.
package components
