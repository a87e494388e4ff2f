// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package internal provides integration tests that cross packages.
//
// These tests verify end-to-end functionality including:
// - Chats sent through the reducer survive a restart on each backend
// - A broken stream leaves a marked partial reply on disk
// - Profile state and onboarding persist next to the chats
// - Exported files carry the stored conversation
package internal

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/pocketstudio/internal/chat"
	"github.com/jeranaias/pocketstudio/internal/export"
	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/profile"
	"github.com/jeranaias/pocketstudio/internal/provider/providertest"
	"github.com/jeranaias/pocketstudio/internal/session"
	"github.com/jeranaias/pocketstudio/internal/storage"
)

// =============================================================================
// TEST UTILITIES
// =============================================================================

// openBackend opens backend in dir and closes it when the test ends.
func openBackend(t *testing.T, backend, dir string) storage.KV {
	t.Helper()
	kv, err := storage.Open(backend, dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	return kv
}

// =============================================================================
// PERSISTENCE
// =============================================================================

func TestChatSurvivesRestart(t *testing.T) {
	for _, backend := range []string{storage.BackendFile, storage.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()

			kv := openBackend(t, backend, dir)
			store := session.Open(kv)
			prov := providertest.New(
				providertest.Reply{Fragments: []string{"Paris ", "is the capital."}},
				providertest.Reply{Fragments: []string{"About 2 million."}},
			)
			r := chat.NewReducer(store, prov)

			res, err := r.Send(context.Background(), "Capital of France?", "")
			require.NoError(t, err)
			assert.Equal(t, chat.StateSettled, res.State)
			_, err = r.Send(context.Background(), "Population?", "")
			require.NoError(t, err)
			require.NoError(t, kv.Close())

			reopened := session.Open(openBackend(t, backend, dir))
			list := reopened.List()
			require.Len(t, list, 1)
			s := list[0]
			assert.Equal(t, "Capital of France?", s.Title)
			require.Len(t, s.Messages, 4)
			assert.Equal(t, model.RoleUser, s.Messages[2].Role)
			assert.Equal(t, "About 2 million.", s.Messages[3].Text)

			// The second prompt carried the first exchange as history.
			calls := prov.Calls()
			require.Len(t, calls, 2)
			assert.Len(t, calls[1].History, 2)
		})
	}
}

func TestBrokenStreamPersistsPartialReply(t *testing.T) {
	dir := t.TempDir()
	kv := openBackend(t, storage.BackendSQLite, dir)
	store := session.Open(kv)
	r := chat.NewReducer(store, providertest.New(providertest.Reply{
		Fragments: []string{"Half an ans"},
		Err:       errors.New("connection reset"),
	}))

	res, err := r.Send(context.Background(), "Explain", "")
	require.NoError(t, err)
	assert.Equal(t, chat.StateFailed, res.State)
	require.NoError(t, kv.Close())

	s := session.Open(openBackend(t, storage.BackendSQLite, dir)).List()[0]
	require.Len(t, s.Messages, 2)
	assert.True(t, s.Messages[1].Failed)
	assert.Equal(t, "Half an ans", s.Messages[1].Text)

	reply, ok := s.LastReply()
	require.True(t, ok)
	assert.Equal(t, s.Messages[1].ID, reply.ID)
}

func TestProfileAndChatsShareStorage(t *testing.T) {
	dir := t.TempDir()
	kv := openBackend(t, storage.BackendFile, dir)

	profiles := profile.Open(kv, slog.Default())
	first, err := profiles.Login(profile.EmailIdentity)
	require.NoError(t, err)
	assert.True(t, first)
	require.NoError(t, profiles.CompleteOnboarding())
	_, err = profiles.CycleFontSize()
	require.NoError(t, err)

	store := session.Open(kv)
	store.Create("kept")

	reopened := openBackend(t, storage.BackendFile, dir)
	again := profile.Open(reopened, slog.Default())
	assert.True(t, again.HasSeenOnboarding())
	assert.Equal(t, profile.EmailIdentity.Email, again.Profile().Email)
	assert.Equal(t, model.FontLarge, again.Profile().FontSize)
	assert.Equal(t, 1, session.Open(reopened).Len())

	// Clearing chats leaves the profile alone.
	session.Open(reopened).ClearAll()
	assert.Zero(t, session.Open(reopened).Len())
	assert.True(t, profile.Open(reopened, slog.Default()).HasSeenOnboarding())
}

// =============================================================================
// EXPORT
// =============================================================================

func TestExportStoredConversation(t *testing.T) {
	store := session.Open(storage.NewMemoryKV())
	r := chat.NewReducer(store, providertest.New(providertest.Reply{Fragments: []string{"```go\nfmt.Println(1)\n```"}}))
	res, err := r.Send(context.Background(), "Show code", "")
	require.NoError(t, err)

	s, ok := store.Get(res.SessionID)
	require.True(t, ok)

	opts := export.DefaultOptions()
	opts.OutputDir = t.TempDir()
	for _, format := range []string{"md", "json", "yaml", "html"} {
		exporter, err := export.ForFormat(format, opts)
		require.NoError(t, err)
		path, err := export.ExportToFile(&s, exporter, opts)
		require.NoError(t, err, format)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.True(t, strings.Contains(string(data), "Show code"), format)
	}
}
