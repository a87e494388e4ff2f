// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by every layer of
// pocketstudio: chat sessions, messages, the user profile and the screen set.
//
// # Key Types
//
//   - ChatSession: A titled, ordered list of messages with a creation time
//   - Message: One user prompt or model reply, optionally carrying an image
//   - UserProfile: Display identity plus appearance and language preferences
//   - Screen: The navigable screens of the application
//
// All timestamps are Unix milliseconds so persisted blobs stay compatible
// with the browser-era storage format.
//
// # Usage
//
//	msg := model.NewUserMessage("hello", "")
//	sess := model.ChatSession{ID: "1700000000000", Title: "hello"}
//	sess.Messages = append(sess.Messages, msg)
package model
