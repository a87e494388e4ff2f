// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/provider"
)

func sseChunk(text string) string {
	return fmt.Sprintf("data: {\"candidates\":[{\"content\":{\"role\":\"model\",\"parts\":[{\"text\":%q}]}}]}\n\n", text)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(provider.Config{APIKey: "test-key", BaseURL: srv.URL}).WithHTTPClient(srv.Client())
}

// =============================================================================
// STREAMING
// =============================================================================

func TestStreamReply_FragmentsInOrder(t *testing.T) {
	var got generateRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/"+DefaultModel+":streamGenerateContent", r.URL.Path)
		assert.Equal(t, "sse", r.URL.Query().Get("alt"))
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, sseChunk("Hel"))
		io.WriteString(w, ": keep-alive comment\n\n")
		io.WriteString(w, sseChunk("lo"))
		io.WriteString(w, "data: {not json}\n\n")
		io.WriteString(w, sseChunk("!"))
	})

	history := []model.Message{
		{Role: model.RoleUser, Text: "earlier", Image: "data:image/png;base64,AAAA"},
		{Role: model.RoleModel, Text: "reply"},
	}
	stream, err := c.StreamReply(context.Background(), "hi", history, "data:image/jpeg;base64,QUJD")
	require.NoError(t, err)

	text, err := provider.Collect(stream)
	require.NoError(t, err)
	assert.Equal(t, "Hello!", text)

	require.Len(t, got.Contents, 3)
	assert.Equal(t, "user", got.Contents[0].Role)
	assert.Len(t, got.Contents[0].Parts, 1, "history images are not forwarded")
	assert.Equal(t, "model", got.Contents[1].Role)
	last := got.Contents[2]
	require.Len(t, last.Parts, 2)
	assert.Equal(t, "hi", last.Parts[0].Text)
	assert.Equal(t, "image/jpeg", last.Parts[1].InlineData.MimeType)
	assert.Equal(t, "QUJD", last.Parts[1].InlineData.Data)
	require.NotNil(t, got.GenerationConfig.Temperature)
	assert.InDelta(t, 0.7, *got.GenerationConfig.Temperature, 1e-9)
	assert.Contains(t, got.SystemInstruction.Parts[0].Text, "Hebrew")
}

func TestStreamReply_EmptyStream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
	})
	stream, err := c.StreamReply(context.Background(), "hi", nil, "")
	require.NoError(t, err)
	text, err := provider.Collect(stream)
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestStreamReply_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", 401, `{"error":{"code":401,"message":"denied"}}`, provider.ErrAuthFailed},
		{"bad key", 400, `{"error":{"code":400,"message":"API key not valid. Please pass a valid API key.","status":"INVALID_ARGUMENT"}}`, provider.ErrAuthFailed},
		{"missing model", 404, `{"error":{"code":404,"message":"models/x is not found"}}`, provider.ErrModelNotFound},
		{"rate limited", 429, `{"error":{"code":429,"message":"quota"}}`, provider.ErrRateLimited},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			})
			_, err := c.StreamReply(context.Background(), "hi", nil, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var pe *provider.ProviderError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.status, pe.Status)
		})
	}
}

func TestStreamReply_ServerErrorHasNoSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	_, err := c.StreamReply(context.Background(), "hi", nil, "")
	var pe *provider.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 500, pe.Status)
	assert.Equal(t, "boom", pe.Message)
}

func TestStreamReply_NotConfigured(t *testing.T) {
	c := New(provider.Config{})
	_, err := c.StreamReply(context.Background(), "hi", nil, "")
	assert.ErrorIs(t, err, provider.ErrNotConfigured)
}

func TestStreamReply_InvalidImage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be sent")
	})
	_, err := c.StreamReply(context.Background(), "hi", nil, "not-a-data-url")
	assert.ErrorIs(t, err, provider.ErrInvalidImage)
}

func TestStreamReply_CancelMidStream(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, sseChunk("part"))
		w.(http.Flusher).Flush()
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	stream, err := c.StreamReply(ctx, "hi", nil, "")
	require.NoError(t, err)
	defer stream.Close()

	require.True(t, stream.Next())
	assert.Equal(t, "part", stream.Fragment())

	cancel()
	assert.False(t, stream.Next())
	assert.ErrorIs(t, stream.Err(), context.Canceled)
}

// =============================================================================
// SPEECH
// =============================================================================

func TestSynthesize(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, DefaultTTSModel+":generateContent"))
		var req generateRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"AUDIO"}, req.GenerationConfig.ResponseModalities)
		assert.Equal(t, "Kore", req.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName)
		assert.Equal(t, "say this", req.Contents[0].Parts[0].Text)

		io.WriteString(w, `{"candidates":[{"content":{"parts":[{"inlineData":{"mimeType":"audio/L16;rate=24000","data":"AAABAA=="}}]}}]}`)
	})

	audio, err := c.Synthesize(context.Background(), "say this")
	require.NoError(t, err)
	assert.Equal(t, "AAABAA==", audio)
}

func TestSynthesize_NoAudio(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"candidates":[]}`)
	})
	audio, err := c.Synthesize(context.Background(), "x")
	require.NoError(t, err)
	assert.Empty(t, audio)
}

func TestSynthesize_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := New(provider.Config{APIKey: "k", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := c.Synthesize(context.Background(), "x")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRegistered(t *testing.T) {
	p, err := provider.New(provider.Config{Name: "Gemini", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, Name, p.Name())
}
