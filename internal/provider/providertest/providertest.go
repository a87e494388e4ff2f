// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package providertest provides a scripted provider.Provider for tests and
// offline demos.
package providertest

import (
	"context"
	"sync"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/provider"
)

// Name is the registry name.
const Name = "scripted"

func init() {
	provider.Register(Name, func(cfg provider.Config) (provider.Provider, error) {
		return New(Reply{Fragments: []string{"This is a scripted reply."}}), nil
	})
}

// Reply scripts one StreamReply call.
type Reply struct {
	// OpenErr fails StreamReply itself.
	OpenErr error
	// Fragments are yielded in order.
	Fragments []string
	// Err ends the stream after the fragments.
	Err error
	// Hold, when non-nil, blocks before fragment HoldAt until it is closed
	// or the context ends.
	Hold   <-chan struct{}
	HoldAt int
}

// Call records the arguments of one StreamReply call.
type Call struct {
	Prompt  string
	History []model.Message
	Image   string
}

// Provider replays scripted replies. The last reply repeats once the
// script is exhausted.
type Provider struct {
	mu      sync.Mutex
	replies []Reply
	calls   []Call

	Audio      string
	SynthErr   error
	synthCalls []string
}

// New returns a provider that answers with replies in order.
func New(replies ...Reply) *Provider {
	return &Provider{replies: replies}
}

// Name implements provider.Provider.
func (p *Provider) Name() string { return Name }

// StreamReply implements provider.Provider.
func (p *Provider) StreamReply(ctx context.Context, prompt string, history []model.Message, image string) (provider.Stream, error) {
	p.mu.Lock()
	hist := make([]model.Message, len(history))
	copy(hist, history)
	p.calls = append(p.calls, Call{Prompt: prompt, History: hist, Image: image})
	var r Reply
	if len(p.replies) > 0 {
		r = p.replies[0]
		if len(p.replies) > 1 {
			p.replies = p.replies[1:]
		}
	}
	p.mu.Unlock()

	if r.OpenErr != nil {
		return nil, r.OpenErr
	}
	return &stream{ctx: ctx, reply: r, pos: -1}, nil
}

// Synthesize implements provider.Provider.
func (p *Provider) Synthesize(ctx context.Context, text string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.synthCalls = append(p.synthCalls, text)
	if p.SynthErr != nil {
		return "", p.SynthErr
	}
	return p.Audio, nil
}

// Calls returns the recorded StreamReply calls.
func (p *Provider) Calls() []Call {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Call(nil), p.calls...)
}

// SynthCalls returns the texts passed to Synthesize.
func (p *Provider) SynthCalls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.synthCalls...)
}

type stream struct {
	ctx   context.Context
	reply Reply
	pos   int
	cur   string
	err   error
	done  bool
}

func (s *stream) Next() bool {
	if s.done {
		return false
	}
	next := s.pos + 1
	if s.reply.Hold != nil && next == s.reply.HoldAt {
		select {
		case <-s.reply.Hold:
		case <-s.ctx.Done():
		}
	}
	if err := s.ctx.Err(); err != nil {
		s.done, s.err, s.cur = true, err, ""
		return false
	}
	if next >= len(s.reply.Fragments) {
		s.done, s.err, s.cur = true, s.reply.Err, ""
		return false
	}
	s.pos = next
	s.cur = s.reply.Fragments[next]
	return true
}

func (s *stream) Fragment() string { return s.cur }
func (s *stream) Err() error       { return s.err }

func (s *stream) Close() error {
	s.done = true
	return nil
}
