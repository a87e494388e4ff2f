// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini implements provider.Provider over the Gemini REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/provider"
	"github.com/jeranaias/pocketstudio/internal/util"
)

// Name is the registry name.
const Name = "gemini"

const (
	DefaultBaseURL  = "https://generativelanguage.googleapis.com"
	DefaultModel    = "gemini-3-flash-preview"
	DefaultTTSModel = "gemini-2.5-flash-preview-tts"

	// MaxResponseSize bounds non-streaming response bodies.
	MaxResponseSize = 32 * 1024 * 1024
)

func init() {
	provider.Register(Name, func(cfg provider.Config) (provider.Provider, error) {
		return New(cfg), nil
	})
}

// =============================================================================
// WIRE TYPES
// =============================================================================

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type generationConfig struct {
	Temperature        *float64      `json:"temperature,omitempty"`
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// text concatenates the text parts of the first candidate.
func (r *generateResponse) text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String()
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the Gemini API.
type Client struct {
	apiKey            string
	baseURL           string
	model             string
	ttsModel          string
	voice             string
	temperature       float64
	systemInstruction string
	timeout           time.Duration

	httpClient *http.Client
	limiter    *provider.Limiter
	logger     *slog.Logger
}

// New creates a client from cfg. Zero fields take the package defaults.
func New(cfg provider.Config) *Client {
	cfg = cfg.WithDefaults()
	c := &Client{
		apiKey:            cfg.APIKey,
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		model:             cfg.Model,
		ttsModel:          cfg.TTSModel,
		voice:             cfg.Voice,
		temperature:       cfg.Temperature,
		systemInstruction: cfg.SystemInstruction,
		timeout:           cfg.Timeout,
		// Streaming requests are bounded by their context instead.
		httpClient: &http.Client{},
		limiter:    provider.NewLimiter(cfg.RequestsPerMinute),
		logger:     cfg.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.ttsModel == "" {
		c.ttsModel = DefaultTTSModel
	}
	c.logger.Debug("gemini client configured",
		"model", c.model, "tts_model", c.ttsModel, "key", util.Fingerprint(c.apiKey))
	return c
}

// WithHTTPClient replaces the HTTP client. Tests use it with httptest.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// Name implements provider.Provider.
func (c *Client) Name() string { return Name }

// Model returns the chat model identifier.
func (c *Client) Model() string { return c.model }

// IsConfigured reports whether an API key is set.
func (c *Client) IsConfigured() bool { return c.apiKey != "" }

func (c *Client) endpoint(modelName, method string, query url.Values) string {
	u := c.baseURL + "/v1beta/models/" + url.PathEscape(modelName) + ":" + method
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *Client) newRequest(ctx context.Context, endpoint string, body any) (*http.Request, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("User-Agent", "pocketstudio")
	return req, nil
}

// do sends req and returns the response when the status is 200.
func (c *Client) do(ctx context.Context, op string, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, provider.Transport(Name, op, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, provider.Transport(Name, op, err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		resp.Body.Close()
		pe := provider.FromResponse(Name, op, resp.StatusCode, body)
		c.logger.Warn("gemini request rejected", "op", op, "status", resp.StatusCode, "message", pe.Message)
		return nil, pe
	}
	return resp, nil
}

// =============================================================================
// STREAMING
// =============================================================================

// buildContents maps history and the new prompt to Gemini contents.
func buildContents(prompt string, history []model.Message, image string) ([]content, error) {
	turns := provider.HistoryTurns(history)
	contents := make([]content, 0, len(turns)+1)
	for _, t := range turns {
		role := "model"
		if t.Role == model.RoleUser {
			role = "user"
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: t.Text}}})
	}

	parts := []part{{Text: prompt}}
	if image != "" {
		mimeType, payload, err := provider.ParseDataURL(image)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part{InlineData: &inlineData{MimeType: mimeType, Data: payload}})
	}
	contents = append(contents, content{Role: "user", Parts: parts})
	return contents, nil
}

// StreamReply implements provider.Provider.
func (c *Client) StreamReply(ctx context.Context, prompt string, history []model.Message, image string) (provider.Stream, error) {
	const op = "stream"
	if !c.IsConfigured() {
		return nil, provider.NotConfigured(Name, op)
	}

	contents, err := buildContents(prompt, history, image)
	if err != nil {
		return nil, &provider.ProviderError{Provider: Name, Op: op, Err: err}
	}
	temp := c.temperature
	body := generateRequest{
		Contents:          contents,
		SystemInstruction: &content{Parts: []part{{Text: c.systemInstruction}}},
		GenerationConfig:  &generationConfig{Temperature: &temp},
	}

	req, err := c.newRequest(ctx, c.endpoint(c.model, "streamGenerateContent", url.Values{"alt": {"sse"}}), body)
	if err != nil {
		return nil, provider.Transport(Name, op, err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := c.do(ctx, op, req)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("gemini stream opened", "model", c.model, "history", len(history), "image", image != "")
	return &sseStream{ctx: ctx, body: resp.Body, reader: provider.NewSSEReader(resp.Body)}, nil
}

// sseStream pulls one SSE event per Next call.
type sseStream struct {
	ctx    context.Context
	body   io.ReadCloser
	reader *provider.SSEReader
	cur    string
	err    error
	done   bool
}

func (s *sseStream) Next() bool {
	for !s.done {
		if err := s.ctx.Err(); err != nil {
			s.finish(err)
			return false
		}

		_, data, err := s.reader.ReadEvent()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.finish(nil)
			} else if ctxErr := s.ctx.Err(); ctxErr != nil {
				s.finish(ctxErr)
			} else {
				s.finish(provider.Transport(Name, "stream", err))
			}
			return false
		}

		var chunk generateResponse
		if err := json.Unmarshal(data, &chunk); err != nil {
			// Skip malformed chunks.
			continue
		}
		if chunk.PromptFeedback != nil && chunk.PromptFeedback.BlockReason != "" {
			s.finish(&provider.ProviderError{Provider: Name, Op: "stream",
				Err: fmt.Errorf("prompt blocked: %s", chunk.PromptFeedback.BlockReason)})
			return false
		}
		if text := chunk.text(); text != "" {
			s.cur = text
			return true
		}
	}
	return false
}

func (s *sseStream) finish(err error) {
	s.done = true
	s.err = err
	s.cur = ""
	s.body.Close()
}

func (s *sseStream) Fragment() string { return s.cur }
func (s *sseStream) Err() error       { return s.err }

func (s *sseStream) Close() error {
	if !s.done {
		s.done = true
		return s.body.Close()
	}
	return nil
}

// =============================================================================
// SPEECH
// =============================================================================

// Synthesize implements provider.Provider.
func (c *Client) Synthesize(ctx context.Context, text string) (string, error) {
	const op = "synthesize"
	if !c.IsConfigured() {
		return "", provider.NotConfigured(Name, op)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: text}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: c.voice}},
			},
		},
	}
	req, err := c.newRequest(ctx, c.endpoint(c.ttsModel, "generateContent", nil), body)
	if err != nil {
		return "", provider.Transport(Name, op, err)
	}

	resp, err := c.do(ctx, op, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out generateResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, MaxResponseSize)).Decode(&out); err != nil {
		return "", provider.Transport(Name, op, fmt.Errorf("failed to decode response: %w", err))
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", nil
	}
	first := out.Candidates[0].Content.Parts[0]
	if first.InlineData == nil {
		return "", nil
	}
	return first.InlineData.Data, nil
}
