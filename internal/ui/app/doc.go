// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the Bubble Tea root model: login, onboarding and the four
// tabbed screens (chat dashboard, profile, settings, feedback).
//
// The model never mutates sessions directly. Sends go through chat.Reducer
// on a background command and the session store's change events drive
// re-rendering.
package app
