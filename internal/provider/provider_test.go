// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/pocketstudio/internal/model"
)

// =============================================================================
// DATA URL
// =============================================================================

func TestParseDataURL(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantMime string
		wantData string
		wantErr  bool
	}{
		{"png", "data:image/png;base64,iVBORw0KGgo=", "image/png", "iVBORw0KGgo=", false},
		{"comma in payload", "data:image/jpeg;base64,AAA,BBB", "image/jpeg", "AAA,BBB", false},
		{"no comma", "data:image/png;base64", "", "", true},
		{"no semicolon", "data:image/png,AAAA", "", "", true},
		{"empty payload", "data:image/png;base64,", "", "", true},
		{"plain text", "hello", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, data, err := ParseDataURL(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidImage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMime, mime)
			assert.Equal(t, tt.wantData, data)
		})
	}
}

func TestDataURLFromFile(t *testing.T) {
	dir := t.TempDir()

	png := filepath.Join(dir, "pic.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\nrest"), 0600))
	url, err := DataURLFromFile(png)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	sniffed := filepath.Join(dir, "noext")
	require.NoError(t, os.WriteFile(sniffed, []byte("\x89PNG\r\n\x1a\nrest"), 0600))
	url, err = DataURLFromFile(sniffed)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0600))
	_, err = DataURLFromFile(txt)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

// =============================================================================
// SSE READER
// =============================================================================

func TestSSEReader(t *testing.T) {
	input := "event: message\ndata: {\"a\":1}\n\n: comment\n\ndata: line1\ndata: line2\n\ndata: tail"
	r := NewSSEReader(strings.NewReader(input))

	typ, data, err := r.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, "message", typ)
	assert.Equal(t, `{"a":1}`, string(data))

	_, data, err = r.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, "line1\nline2", string(data))

	_, data, err = r.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, "tail", string(data))

	_, _, err = r.ReadEvent()
	assert.ErrorIs(t, err, io.EOF)
}

func TestSSEReader_EventTooLarge(t *testing.T) {
	big := "data: " + string(bytes.Repeat([]byte("x"), MaxEventSize+1)) + "\n\n"
	_, _, err := NewSSEReader(strings.NewReader(big)).ReadEvent()
	assert.ErrorIs(t, err, ErrEventTooLarge)
}

// =============================================================================
// ERRORS
// =============================================================================

func TestFromResponse(t *testing.T) {
	pe := FromResponse("gemini", "stream", 429, []byte(`{"error":{"code":429,"message":"Resource exhausted"}}`))
	assert.ErrorIs(t, pe, ErrRateLimited)
	assert.Equal(t, "Resource exhausted", pe.Message)
	assert.Contains(t, pe.Error(), "HTTP 429")
	assert.Contains(t, pe.UserMessage(), "Too many requests")

	pe = FromResponse("gemini", "stream", 503, []byte("upstream down"))
	assert.Nil(t, pe.Err)
	assert.Equal(t, "upstream down", pe.Message)
	assert.False(t, errors.Is(pe, ErrAuthFailed))
}

// =============================================================================
// HISTORY / STREAMS / REGISTRY
// =============================================================================

func TestHistoryTurns(t *testing.T) {
	turns := HistoryTurns([]model.Message{
		{Role: model.RoleUser, Text: "q", Image: "data:image/png;base64,AA"},
		{Role: model.RoleModel, Text: "a", Failed: true},
	})
	assert.Equal(t, []Turn{{Role: model.RoleUser, Text: "q"}, {Role: model.RoleModel, Text: "a"}}, turns)
}

func TestSliceStream(t *testing.T) {
	boom := errors.New("boom")
	text, err := Collect(NewSliceStream([]string{"a", "b"}, boom))
	assert.Equal(t, "ab", text)
	assert.ErrorIs(t, err, boom)

	text, err = Collect(NewSliceStream(nil, nil))
	assert.Empty(t, text)
	assert.NoError(t, err)
}

func TestNew_Unknown(t *testing.T) {
	_, err := New(Config{Name: "does-not-exist"})
	assert.Error(t, err)
}

func TestConfig_WithDefaults(t *testing.T) {
	c := Config{}.WithDefaults()
	assert.InDelta(t, 0.7, c.Temperature, 1e-9)
	assert.Equal(t, "Kore", c.Voice)
	assert.Equal(t, DefaultSystemInstruction, c.SystemInstruction)
	assert.NotNil(t, c.Logger)
}

func TestLimiter_NilNeverBlocks(t *testing.T) {
	var l *Limiter
	assert.NoError(t, l.Wait(context.Background()))
	assert.Nil(t, NewLimiter(0))
	assert.NotNil(t, NewLimiter(60))
}
