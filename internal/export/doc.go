// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes a chat session to a shareable file.
//
// # Supported Formats
//
//   - Markdown: human-readable transcript
//   - JSON: the stored session, unchanged
//   - YAML: a flattened document for diffing and scripting
//   - HTML: a standalone page with highlighted code blocks
//
// # Usage
//
//	exp, err := export.ForFormat("md", nil)
//	if err != nil {
//	    return err
//	}
//	path, err := export.ExportToFile(session, exp, opts)
package export
