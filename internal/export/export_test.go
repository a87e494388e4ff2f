// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jeranaias/pocketstudio/internal/model"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testOptions(dir string) *Options {
	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

func sampleSession() *model.ChatSession {
	created := fixedNow.Add(-time.Hour).UnixMilli()
	return &model.ChatSession{
		ID:        "1740826800000",
		Title:     "Go: generics question",
		CreatedAt: created,
		Messages: []model.Message{
			{ID: "u1", Role: model.RoleUser, Text: "How do I write a generic Map?", Timestamp: created,
				Image: "data:image/png;base64,iVBORw0KGgo="},
			{ID: "m1", Role: model.RoleModel, Timestamp: created + 1000,
				Text: "Like this:\n\n```go\nfunc Map[T, U any](s []T, f func(T) U) []U { return nil }\n```\n\nUse `Map` anywhere."},
			{ID: "m2", Role: model.RoleModel, Text: "partial", Timestamp: created + 2000, Failed: true},
		},
	}
}

func TestForFormat(t *testing.T) {
	for _, f := range []string{"md", "markdown", "json", "yaml", "yml", "html", "HTML"} {
		exp, err := ForFormat(f, nil)
		require.NoError(t, err, f)
		assert.NotEmpty(t, exp.FileExtension())
	}
	_, err := ForFormat("pdf", nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExporters_RejectEmptySessions(t *testing.T) {
	for _, f := range []string{"md", "yaml", "html"} {
		exp, err := ForFormat(f, nil)
		require.NoError(t, err)
		_, err = exp.Export(nil)
		assert.ErrorIs(t, err, ErrNilSession)
		_, err = exp.Export(&model.ChatSession{ID: "1", Title: "empty"})
		assert.ErrorIs(t, err, ErrEmptySession)
	}
}

func TestMarkdownExporter(t *testing.T) {
	out, err := NewMarkdownExporter(testOptions(t.TempDir())).Export(sampleSession())
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\ntitle: \"Go: generics question\"\n"))
	assert.Contains(t, md, "# Go: generics question")
	assert.Contains(t, md, "### You")
	assert.Contains(t, md, "### Assistant")
	assert.Contains(t, md, "*[Image attached: image/png")
	assert.Contains(t, md, "```go\nfunc Map")
	assert.Contains(t, md, "> Reply interrupted.")
	assert.Contains(t, md, "March 1, 2025")
}

func TestJSONExporter_RoundTrips(t *testing.T) {
	s := sampleSession()
	out, err := NewJSONExporter(nil).Export(s)
	require.NoError(t, err)

	var back model.ChatSession
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, *s, back)
}

func TestYAMLExporter(t *testing.T) {
	out, err := NewYAMLExporter(testOptions(t.TempDir())).Export(sampleSession())
	require.NoError(t, err)

	var doc Document
	require.NoError(t, yaml.Unmarshal(out, &doc))
	assert.Equal(t, "Go: generics question", doc.Title)
	require.Len(t, doc.Messages, 3)
	assert.Equal(t, "user", doc.Messages[0].Role)
	assert.Contains(t, doc.Messages[0].Image, "image/png")
	assert.NotContains(t, string(out), "iVBORw0KGgo")
	assert.True(t, doc.Messages[2].Failed)
}

func TestHTMLExporter(t *testing.T) {
	s := sampleSession()
	s.Messages = append(s.Messages, model.Message{ID: "u2", Role: model.RoleUser, Text: "<script>alert(1)</script>", Timestamp: s.CreatedAt})

	opts := testOptions(t.TempDir())
	opts.Theme = "dark"
	out, err := NewHTMLExporter(opts).Export(s)
	require.NoError(t, err)
	page := string(out)

	assert.Contains(t, page, "<body class=\"dark-theme\">")
	assert.Contains(t, page, "class=\"code-lang\">go<")
	assert.Contains(t, page, "<code class=\"inline-code\">Map</code>")
	assert.Contains(t, page, "src=\"data:image/png;base64,iVBORw0KGgo=\"")
	assert.Contains(t, page, "&lt;script&gt;")
	assert.NotContains(t, page, "<script>alert")
	assert.Contains(t, page, "message model-message failed")
}

func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	opts := testOptions(dir)
	exp, err := ForFormat("md", opts)
	require.NoError(t, err)

	path, err := ExportToFile(sampleSession(), exp, opts)
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.Equal(t, "chat_Go-_generics_question_20250301_120000.md", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "generic Map")
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "a-b-c_d", sanitizeFilename("a/b:c d"))
	assert.Equal(t, "session", sanitizeFilename(""))
	assert.Equal(t, 50, len([]rune(sanitizeFilename(strings.Repeat("ש", 80)))))
}
