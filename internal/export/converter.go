// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"time"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/provider"
)

// =============================================================================
// CONVERSION UTILITIES
// =============================================================================

// Document is the flattened form of a session used by the YAML exporter.
type Document struct {
	Title    string       `yaml:"title"`
	ID       string       `yaml:"id"`
	Created  time.Time    `yaml:"created"`
	Exported time.Time    `yaml:"exported"`
	Messages []DocMessage `yaml:"messages"`
}

// DocMessage is one message of a Document.
type DocMessage struct {
	Role   string    `yaml:"role"`
	Time   time.Time `yaml:"time"`
	Text   string    `yaml:"text"`
	Image  string    `yaml:"image,omitempty"`
	Failed bool      `yaml:"failed,omitempty"`
}

// NewDocument flattens s. Image payloads are summarized, not embedded.
func NewDocument(s *model.ChatSession, exported time.Time) Document {
	doc := Document{
		Title:    s.Title,
		ID:       s.ID,
		Created:  s.Created().UTC(),
		Exported: exported.UTC(),
		Messages: make([]DocMessage, 0, len(s.Messages)),
	}
	for _, m := range s.Messages {
		doc.Messages = append(doc.Messages, DocMessage{
			Role:   m.Role.String(),
			Time:   m.Time().UTC(),
			Text:   m.Text,
			Image:  describeImage(m.Image),
			Failed: m.Failed,
		})
	}
	return doc
}

// describeImage summarizes an attached data URL, e.g. "image/png, 12.3 KB".
func describeImage(dataURL string) string {
	if dataURL == "" {
		return ""
	}
	mime, payload, err := provider.ParseDataURL(dataURL)
	if err != nil {
		return "attachment"
	}
	return fmt.Sprintf("%s, %.1f KB", mime, float64(len(payload))*3/4/1024)
}
