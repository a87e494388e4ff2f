// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// Synthesizer produces base64 PCM for text. provider.Provider satisfies it.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (string, error)
}

// DefaultCacheEntries bounds the synthesized payload cache.
const DefaultCacheEntries = 32

// Speaker synthesizes, decodes and plays replies.
type Speaker struct {
	synth      Synthesizer
	out        Output
	sampleRate int
	channels   int
	logger     *slog.Logger

	mu       sync.Mutex
	cache    map[[32]byte]string
	order    [][32]byte
	maxCache int
	cancel   context.CancelFunc
	gen      uint64
}

// SpeakerOption configures a Speaker.
type SpeakerOption func(*Speaker)

// WithFormat overrides the PCM format of synthesized audio.
func WithFormat(sampleRate, channels int) SpeakerOption {
	return func(s *Speaker) {
		if sampleRate > 0 {
			s.sampleRate = sampleRate
		}
		if channels > 0 {
			s.channels = channels
		}
	}
}

// WithCacheSize sets how many payloads are kept. 0 disables caching.
func WithCacheSize(n int) SpeakerOption {
	return func(s *Speaker) { s.maxCache = n }
}

// WithSpeakerLogger sets the logger.
func WithSpeakerLogger(l *slog.Logger) SpeakerOption {
	return func(s *Speaker) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSpeaker returns a speaker producing 24 kHz mono by default.
func NewSpeaker(synth Synthesizer, out Output, opts ...SpeakerOption) *Speaker {
	s := &Speaker{
		synth:      synth,
		out:        out,
		sampleRate: DefaultSampleRate,
		channels:   DefaultChannels,
		logger:     slog.Default(),
		cache:      make(map[[32]byte]string),
		maxCache:   DefaultCacheEntries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Speak plays text. An empty synthesis result plays nothing and returns
// nil. Starting a new Speak stops the previous one.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.gen++
	gen := s.gen
	s.mu.Unlock()
	defer func() {
		cancel()
		s.mu.Lock()
		if s.gen == gen {
			s.cancel = nil
		}
		s.mu.Unlock()
	}()

	b64, err := s.synthesize(ctx, text)
	if err != nil {
		return err
	}
	if b64 == "" {
		s.logger.Debug("synthesis returned no audio")
		return nil
	}

	buf, err := Decode(b64, s.sampleRate, s.channels)
	if err != nil {
		return err
	}
	s.logger.Debug("playing speech", "frames", buf.Frames(), "duration", buf.Duration())
	return s.out.Play(ctx, buf)
}

// Stop interrupts the current playback.
func (s *Speaker) Stop() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel == nil {
		return false
	}
	s.cancel()
	return true
}

// Playing reports whether Speak is running.
func (s *Speaker) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

func (s *Speaker) synthesize(ctx context.Context, text string) (string, error) {
	key := blake2b.Sum256([]byte(text))

	s.mu.Lock()
	cached, ok := s.cache[key]
	s.mu.Unlock()
	if ok {
		s.logger.Debug("speech cache hit")
		return cached, nil
	}

	b64, err := s.synth.Synthesize(ctx, text)
	if err != nil || b64 == "" || s.maxCache <= 0 {
		return b64, err
	}

	s.mu.Lock()
	if _, exists := s.cache[key]; !exists {
		s.cache[key] = b64
		s.order = append(s.order, key)
		for len(s.order) > s.maxCache {
			delete(s.cache, s.order[0])
			s.order = s.order[1:]
		}
	}
	s.mu.Unlock()
	return b64, nil
}
