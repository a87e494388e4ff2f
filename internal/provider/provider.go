// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/pocketstudio/internal/model"
)

// =============================================================================
// INTERFACES
// =============================================================================

// Provider is a remote generative model.
type Provider interface {
	// StreamReply starts a reply to prompt. history holds the session's
	// messages before the prompt; only their text is forwarded. image is an
	// optional data URL. The returned Stream must be closed.
	StreamReply(ctx context.Context, prompt string, history []model.Message, image string) (Stream, error)

	// Synthesize returns base64 PCM audio (16-bit LE) for text, or "" when
	// the service produced no audio.
	Synthesize(ctx context.Context, text string) (string, error)

	// Name identifies the implementation.
	Name() string
}

// Stream is a finite, non-restartable sequence of text fragments.
type Stream interface {
	// Next advances to the following fragment. It returns false at the end
	// of the sequence or on error.
	Next() bool
	// Fragment returns the current fragment.
	Fragment() string
	// Err returns the error that stopped iteration, if any. Context
	// cancellation is reported as the context's error.
	Err() error
	// Close releases the underlying connection.
	Close() error
}

// =============================================================================
// CONFIG
// =============================================================================

// Defaults shared by the implementations.
const (
	DefaultTemperature = 0.7
	DefaultVoice       = "Kore"
	DefaultSampleRate  = 24000
	DefaultTimeout     = 60 * time.Second

	DefaultSystemInstruction = "You are a helpful and professional AI assistant in the AI Studio mobile app. " +
		"The user is currently using the app in Hebrew. Provide clear, concise, and helpful answers " +
		"in Hebrew by default unless requested otherwise."
)

// Config selects and configures a Provider.
type Config struct {
	Name              string
	Model             string
	TTSModel          string
	Voice             string
	APIKey            string
	BaseURL           string
	Temperature       float64
	SystemInstruction string
	// RequestsPerMinute caps outgoing requests; 0 disables the limiter.
	RequestsPerMinute int
	// Timeout bounds non-streaming requests.
	Timeout time.Duration
	Logger  *slog.Logger
}

// WithDefaults fills zero fields.
func (c Config) WithDefaults() Config {
	if c.Temperature == 0 {
		c.Temperature = DefaultTemperature
	}
	if c.Voice == "" {
		c.Voice = DefaultVoice
	}
	if c.SystemInstruction == "" {
		c.SystemInstruction = DefaultSystemInstruction
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	return c
}

// =============================================================================
// REGISTRY
// =============================================================================

// Factory builds a Provider from cfg.
type Factory func(cfg Config) (Provider, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a provider available under name. It panics on duplicates.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	name = strings.ToLower(name)
	if _, dup := registry[name]; dup {
		panic("provider: Register called twice for " + name)
	}
	registry[name] = f
}

// Names lists registered providers.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New builds the provider named by cfg.Name.
func New(cfg Config) (Provider, error) {
	registryMu.RLock()
	f, ok := registry[strings.ToLower(cfg.Name)]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (available: %s)", cfg.Name, strings.Join(Names(), ", "))
	}
	return f(cfg.WithDefaults())
}

// =============================================================================
// HISTORY
// =============================================================================

// Turn is one history entry reduced to what the providers forward.
type Turn struct {
	Role model.Role
	Text string
}

// HistoryTurns maps stored messages to provider turns. Images and failure
// flags are not forwarded.
func HistoryTurns(history []model.Message) []Turn {
	turns := make([]Turn, 0, len(history))
	for _, m := range history {
		role := model.RoleModel
		if m.Role == model.RoleUser {
			role = model.RoleUser
		}
		turns = append(turns, Turn{Role: role, Text: m.Text})
	}
	return turns
}
