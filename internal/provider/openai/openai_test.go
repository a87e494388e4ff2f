// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package openai

import (
	"context"
	"encoding/base64"
	"encoding/json"
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

func chunk(text string) string {
	return fmt.Sprintf(`data: {"id":"c1","object":"chat.completion.chunk","created":1,"model":"m","choices":[{"index":0,"delta":{"content":%q},"finish_reason":null}]}`+"\n\n", text)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(provider.Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1"})
}

func TestStreamReply_Fragments(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, chunk("Hel"))
		io.WriteString(w, chunk(""))
		io.WriteString(w, chunk("lo"))
		io.WriteString(w, "data: [DONE]\n\n")
	})

	history := []model.Message{
		{Role: model.RoleUser, Text: "q1"},
		{Role: model.RoleModel, Text: "a1"},
	}
	s, err := c.StreamReply(context.Background(), "look", history, "data:image/png;base64,AAAA")
	require.NoError(t, err)
	text, err := provider.Collect(s)
	require.NoError(t, err)
	assert.Equal(t, "Hello", text)

	assert.Equal(t, DefaultModel, body["model"])
	assert.InDelta(t, 0.7, body["temperature"], 1e-9)
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "assistant", msgs[2].(map[string]any)["role"])
	last := msgs[3].(map[string]any)
	parts, ok := last["content"].([]any)
	require.True(t, ok, "image prompts are sent as content parts")
	assert.Equal(t, "image_url", parts[1].(map[string]any)["type"])
}

func TestStreamReply_RejectedBeforeFirstFragment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	})
	_, err := c.StreamReply(context.Background(), "hi", nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrAuthFailed)
}

func TestStreamReply_OutlivesRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, frag := range []string{"a", "b", "c", "d"} {
			io.WriteString(w, chunk(frag))
			flusher.Flush()
			time.Sleep(150 * time.Millisecond)
		}
		io.WriteString(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)
	c := New(provider.Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Timeout: 300 * time.Millisecond})

	s, err := c.StreamReply(context.Background(), "hi", nil, "")
	require.NoError(t, err)
	text, err := provider.Collect(s)
	require.NoError(t, err)
	assert.Equal(t, "abcd", text)
}

func TestSynthesize_RequestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})
	c := New(provider.Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Timeout: 100 * time.Millisecond})

	start := time.Now()
	_, err := c.Synthesize(context.Background(), "hello")
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestStreamReply_NotConfigured(t *testing.T) {
	c := New(provider.Config{})
	_, err := c.StreamReply(context.Background(), "hi", nil, "")
	assert.ErrorIs(t, err, provider.ErrNotConfigured)
}

func TestSynthesize_ReturnsBase64PCM(t *testing.T) {
	pcm := []byte{0x00, 0x01, 0xff, 0x7f}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/audio/speech"))
		var req map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "pcm", req["response_format"])
		assert.Equal(t, DefaultVoice, req["voice"])
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write(pcm)
	})

	got, err := c.Synthesize(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString(pcm), got)
}

func TestRegistered(t *testing.T) {
	p, err := provider.New(provider.Config{Name: "openai", APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, Name, p.Name())
}
