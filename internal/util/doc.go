// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across pocketstudio.
//
// # Key Functions
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// Text:
//   - Normalize: NFC normalization plus whitespace trimming
//   - TruncateRunes, TruncateRunesNoEllipsis: UTF-8 safe truncation
//   - TruncateWidth, StringWidth: display-width aware helpers
//
// Secrets:
//   - Fingerprint: short SHA-256 digest for logging key identity
//
// # Usage
//
//	title := util.TruncateRunesNoEllipsis(util.Normalize(prompt), 30)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
