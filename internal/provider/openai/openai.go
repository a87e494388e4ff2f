// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package openai implements provider.Provider for any OpenAI-compatible
// chat completions endpoint.
package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/provider"
	"github.com/jeranaias/pocketstudio/internal/util"
)

// Name is the registry name.
const Name = "openai"

const (
	DefaultModel    = "gpt-4o-mini"
	DefaultTTSModel = "tts-1"
	DefaultVoice    = "alloy"

	// MaxAudioBytes bounds synthesized audio.
	MaxAudioBytes = 32 * 1024 * 1024
)

func init() {
	provider.Register(Name, func(cfg provider.Config) (provider.Provider, error) {
		return New(cfg), nil
	})
}

// Client wraps the openai-go SDK.
type Client struct {
	client            openai.Client
	configured        bool
	model             string
	ttsModel          string
	voice             string
	temperature       float64
	systemInstruction string
	timeout           time.Duration
	limiter           *provider.Limiter
	logger            *slog.Logger
}

// New creates a client from cfg. extra options are appended after the ones
// derived from cfg.
func New(cfg provider.Config, extra ...option.RequestOption) *Client {
	cfg = cfg.WithDefaults()

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
		// One attempt per send; the user retries by resending.
		option.WithMaxRetries(0),
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	opts = append(opts, extra...)

	c := &Client{
		client:            openai.NewClient(opts...),
		configured:        strings.TrimSpace(cfg.APIKey) != "",
		model:             cfg.Model,
		ttsModel:          cfg.TTSModel,
		voice:             cfg.Voice,
		temperature:       cfg.Temperature,
		systemInstruction: cfg.SystemInstruction,
		timeout:           cfg.Timeout,
		limiter:           provider.NewLimiter(cfg.RequestsPerMinute),
		logger:            cfg.Logger,
	}
	if c.model == "" {
		c.model = DefaultModel
	}
	if c.ttsModel == "" {
		c.ttsModel = DefaultTTSModel
	}
	if c.voice == "" || c.voice == provider.DefaultVoice {
		c.voice = DefaultVoice
	}
	c.logger.Debug("openai client configured", "model", c.model, "key", util.Fingerprint(cfg.APIKey))
	return c
}

// Name implements provider.Provider.
func (c *Client) Name() string { return Name }

// =============================================================================
// STREAMING
// =============================================================================

func (c *Client) buildMessages(prompt string, history []model.Message, image string) ([]openai.ChatCompletionMessageParamUnion, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	msgs = append(msgs, openai.SystemMessage(c.systemInstruction))
	for _, t := range provider.HistoryTurns(history) {
		if t.Role == model.RoleUser {
			msgs = append(msgs, openai.UserMessage(t.Text))
		} else {
			msgs = append(msgs, openai.AssistantMessage(t.Text))
		}
	}

	if image == "" {
		msgs = append(msgs, openai.UserMessage(prompt))
		return msgs, nil
	}
	if _, _, err := provider.ParseDataURL(image); err != nil {
		return nil, err
	}
	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(prompt),
		openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: image}),
	}
	msgs = append(msgs, openai.UserMessage(parts))
	return msgs, nil
}

// StreamReply implements provider.Provider.
func (c *Client) StreamReply(ctx context.Context, prompt string, history []model.Message, image string) (provider.Stream, error) {
	const op = "stream"
	if !c.configured {
		return nil, provider.NotConfigured(Name, op)
	}
	msgs, err := c.buildMessages(prompt, history, image)
	if err != nil {
		return nil, &provider.ProviderError{Provider: Name, Op: op, Err: err}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, provider.Transport(Name, op, err)
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    msgs,
		Temperature: openai.Float(c.temperature),
	}
	// Streams are bounded by ctx only; a request timeout would cut long replies.
	s := c.client.Chat.Completions.NewStreaming(ctx, params)

	// The SDK reports rejected requests through the stream; surface them
	// before the caller commits to a reply.
	st := &stream{ctx: ctx, s: s}
	if !st.prime() && st.err != nil {
		st.Close()
		return nil, st.err
	}
	return st, nil
}

type stream struct {
	ctx    context.Context
	s      *ssestream.Stream[openai.ChatCompletionChunk]
	cur    string
	peeked bool
	err    error
}

// prime reads ahead to the first non-empty fragment.
func (st *stream) prime() bool {
	if st.advance() {
		st.peeked = true
		return true
	}
	return false
}

func (st *stream) advance() bool {
	for st.s.Next() {
		chunk := st.s.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if text := chunk.Choices[0].Delta.Content; text != "" {
			st.cur = text
			return true
		}
	}
	st.cur = ""
	st.err = mapError(st.ctx, "stream", st.s.Err())
	return false
}

func (st *stream) Next() bool {
	if st.peeked {
		st.peeked = false
		return true
	}
	if st.err != nil {
		return false
	}
	return st.advance()
}

func (st *stream) Fragment() string { return st.cur }
func (st *stream) Err() error       { return st.err }
func (st *stream) Close() error     { return st.s.Close() }

// mapError converts SDK errors into provider errors.
func mapError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		pe := provider.FromResponse(Name, op, apiErr.StatusCode, nil)
		pe.Message = apiErr.Message
		if pe.Err == nil {
			pe.Err = err
		}
		return pe
	}
	return provider.Transport(Name, op, err)
}

// =============================================================================
// SPEECH
// =============================================================================

// Synthesize implements provider.Provider. The endpoint returns raw 24 kHz
// 16-bit mono PCM, which is re-encoded as base64.
func (c *Client) Synthesize(ctx context.Context, text string) (string, error) {
	const op = "synthesize"
	if !c.configured {
		return "", provider.NotConfigured(Name, op)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", provider.Transport(Name, op, err)
	}

	resp, err := c.client.Audio.Speech.New(ctx, openai.AudioSpeechNewParams{
		Input:          text,
		Model:          openai.SpeechModel(c.ttsModel),
		Voice:          openai.AudioSpeechNewParamsVoice(c.voice),
		ResponseFormat: openai.AudioSpeechNewParamsResponseFormatPCM,
	}, option.WithRequestTimeout(c.timeout))
	if err != nil {
		return "", mapError(ctx, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		return "", provider.FromResponse(Name, op, resp.StatusCode, body)
	}
	pcm, err := io.ReadAll(io.LimitReader(resp.Body, MaxAudioBytes))
	if err != nil {
		return "", provider.Transport(Name, op, fmt.Errorf("failed to read audio: %w", err))
	}
	if len(pcm) == 0 {
		return "", nil
	}
	return base64.StdEncoding.EncodeToString(pcm), nil
}
