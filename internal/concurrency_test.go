// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package internal contains race detection tests that span packages.
//
// Run with: go test -race -v ./internal/...
package internal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/pocketstudio/internal/chat"
	"github.com/jeranaias/pocketstudio/internal/config"
	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/provider/providertest"
	"github.com/jeranaias/pocketstudio/internal/session"
	"github.com/jeranaias/pocketstudio/internal/storage"
)

// =============================================================================
// TEST CONFIGURATION
// =============================================================================

const (
	// Number of concurrent goroutines for race tests
	raceConcurrency = 50
	// Number of iterations per goroutine
	raceIterations = 20
	// Timeout for race tests
	raceTimeout = 30 * time.Second
)

// =============================================================================
// CONFIG CONCURRENCY TESTS
// =============================================================================

// TestConcurrency_ConfigGlobalAccess reads the global config while other
// goroutines replace it.
func TestConcurrency_ConfigGlobalAccess(t *testing.T) {
	config.ResetGlobalForTesting()
	t.Cleanup(config.ResetGlobalForTesting)

	ctx, cancel := context.WithTimeout(context.Background(), raceTimeout)
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < raceConcurrency; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < raceIterations && ctx.Err() == nil; j++ {
				cfg := config.Global()
				_ = cfg.Provider.Name
				_ = cfg.UI.Theme
				_ = cfg.String()
			}
		}()
		go func(idx int) {
			defer wg.Done()
			for j := 0; j < raceIterations/5 && ctx.Err() == nil; j++ {
				cfg := config.Default()
				cfg.Provider.Model = fmt.Sprintf("model-%d", idx)
				config.SetGlobal(cfg)
			}
		}(i)
	}
	wg.Wait()
	assert.NotNil(t, config.Global())
}

// =============================================================================
// SESSION STORE CONCURRENCY TESTS
// =============================================================================

// TestConcurrency_SessionStore appends to separate sessions from many
// goroutines while readers list and observers count events.
func TestConcurrency_SessionStore(t *testing.T) {
	kv := storage.NewMemoryKV()
	store := session.Open(kv)

	var events atomic.Int64
	unsubscribe := store.Subscribe(func(session.Event) { events.Add(1) })
	defer unsubscribe()

	const writers = 10
	ids := make([]string, writers)
	for i := range ids {
		ids[i] = store.Create(fmt.Sprintf("chat %d", i)).ID
	}
	created := events.Load()

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func(id string) {
			defer wg.Done()
			for j := 0; j < raceIterations; j++ {
				msg := model.NewModelMessage()
				store.AppendMessage(id, msg)
				store.UpdateMessageText(id, msg.ID, fmt.Sprintf("reply %d", j))
			}
		}(ids[i])
		go func() {
			defer wg.Done()
			for j := 0; j < raceIterations; j++ {
				for _, s := range store.List() {
					_ = s.MessageCount()
				}
			}
		}()
	}
	wg.Wait()

	for _, id := range ids {
		s, ok := store.Get(id)
		require.True(t, ok)
		assert.Len(t, s.Messages, raceIterations)
	}
	assert.Equal(t, created+int64(writers*raceIterations*2), events.Load())

	// Saves run outside the store lock; the newest snapshot must win.
	assert.Equal(t, store.List(), session.Open(kv).List())
}

// =============================================================================
// REDUCER CONCURRENCY TESTS
// =============================================================================

// TestConcurrency_ReducerSingleInFlight fires many sends at once; exactly
// one is accepted and the rest are rejected as busy.
func TestConcurrency_ReducerSingleInFlight(t *testing.T) {
	hold := make(chan struct{})
	prov := providertest.New(providertest.Reply{Fragments: []string{"done"}, Hold: hold})
	store := session.Open(storage.NewMemoryKV())
	r := chat.NewReducer(store, prov)

	var accepted, busy atomic.Int64
	var started sync.WaitGroup
	var wg sync.WaitGroup
	started.Add(1)

	// The first send holds the stream open.
	wg.Add(1)
	go func() {
		defer wg.Done()
		started.Done()
		if _, err := r.Send(context.Background(), "first", ""); err == nil {
			accepted.Add(1)
		}
	}()
	started.Wait()
	require.Eventually(t, r.Thinking, time.Second, time.Millisecond)

	for i := 0; i < raceConcurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.Send(context.Background(), "again", "")
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, chat.ErrBusy):
				busy.Add(1)
			}
		}()
	}

	require.Eventually(t, func() bool { return busy.Load() == raceConcurrency }, raceTimeout, time.Millisecond)
	close(hold)
	wg.Wait()

	assert.Equal(t, int64(1), accepted.Load())
	assert.Len(t, prov.Calls(), 1)
	require.Equal(t, 1, store.Len())
	assert.Len(t, store.List()[0].Messages, 2)
}
