// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// =============================================================================
// BLOB SCHEMAS
// =============================================================================

// SessionsSchema describes the ai_studio_sessions blob.
const SessionsSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "title", "messages", "createdAt"],
    "properties": {
      "id":        {"type": "string", "minLength": 1},
      "title":     {"type": "string"},
      "createdAt": {"type": "integer"},
      "messages": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["id", "role", "text", "timestamp"],
          "properties": {
            "id":        {"type": "string", "minLength": 1},
            "role":      {"enum": ["user", "model"]},
            "text":      {"type": "string"},
            "timestamp": {"type": "integer"},
            "image":     {"type": "string"},
            "failed":    {"type": "boolean"}
          }
        }
      }
    }
  }
}`

// ProfileSchema describes the ai_studio_user blob.
const ProfileSchema = `{
  "type": "object",
  "required": ["name"],
  "properties": {
    "name":     {"type": "string"},
    "email":    {"type": "string"},
    "avatar":   {"type": "string"},
    "language": {"type": "string"},
    "darkMode": {"type": "boolean"},
    "fontSize": {"enum": ["small", "medium", "large"]}
  }
}`

// FeedbackSchema describes the ai_studio_feedback blob.
const FeedbackSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["text", "timestamp"],
    "properties": {
      "text":      {"type": "string", "minLength": 1},
      "timestamp": {"type": "integer"},
      "email":     {"type": "string"}
    }
  }
}`

// BoolSchema describes flag blobs such as has_seen_onboarding.
const BoolSchema = `{"type": "boolean"}`

var (
	schemaMu    sync.Mutex
	schemaCache = map[string]*gojsonschema.Schema{}
)

func compiled(schema string) (*gojsonschema.Schema, error) {
	schemaMu.Lock()
	defer schemaMu.Unlock()
	if s, ok := schemaCache[schema]; ok {
		return s, nil
	}
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		return nil, err
	}
	schemaCache[schema] = s
	return s, nil
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrNotFound is returned by LoadJSON when the key is absent.
var ErrNotFound = errors.New("key not found")

// SchemaError lists the violations found in a stored blob.
type SchemaError struct {
	Key    string
	Errors []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("blob %q does not match schema: %s", e.Key, strings.Join(e.Errors, "; "))
}

// Validate checks data against schema.
func Validate(key, schema string, data []byte) error {
	s, err := compiled(schema)
	if err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		// Malformed JSON surfaces here.
		return fmt.Errorf("blob %q: %w", key, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return &SchemaError{Key: key, Errors: msgs}
	}
	return nil
}

// =============================================================================
// TYPED HELPERS
// =============================================================================

// LoadJSON reads key, validates it against schema (skipped when empty) and
// decodes it into v. It returns ErrNotFound for missing keys.
func LoadJSON(kv KV, key, schema string, v any) error {
	data, ok, err := kv.Load(key)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if schema != "" {
		if err := Validate(key, schema, data); err != nil {
			return err
		}
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("blob %q: %w", key, err)
	}
	return nil
}

// SaveJSON encodes v and stores it under key.
func SaveJSON(kv KV, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	return kv.Save(key, data)
}
