// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"

	"github.com/jeranaias/pocketstudio/internal/model"
)

// JSONExporter writes the session exactly as it is stored, images included,
// so the output can be read back as a session.
type JSONExporter struct{}

// NewJSONExporter creates a JSON exporter. Options do not apply to JSON.
func NewJSONExporter(*Options) *JSONExporter {
	return &JSONExporter{}
}

// Export converts a session to indented JSON.
func (e *JSONExporter) Export(s *model.ChatSession) ([]byte, error) {
	if s == nil {
		return nil, ErrNilSession
	}
	return json.MarshalIndent(s, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string { return ".json" }

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string { return "application/json" }
