// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns one instance of each KV implementation.
func backends(t *testing.T) map[string]KV {
	t.Helper()
	dir := t.TempDir()

	fkv, err := NewFileKV(filepath.Join(dir, "files"))
	require.NoError(t, err)
	skv, err := NewSQLiteKV(filepath.Join(dir, "db", "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { skv.Close() })

	return map[string]KV{
		BackendFile:   fkv,
		BackendSQLite: skv,
		BackendMemory: NewMemoryKV(),
	}
}

// =============================================================================
// KV CONTRACT
// =============================================================================

func TestKV_SaveLoadDelete(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Load(KeySessions)
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, kv.Save(KeySessions, []byte(`[]`)))
			require.NoError(t, kv.Save(KeySessions, []byte(`[{"id":"1"}]`)))

			data, ok, err := kv.Load(KeySessions)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, `[{"id":"1"}]`, string(data))

			require.NoError(t, kv.Delete(KeySessions))
			require.NoError(t, kv.Delete(KeySessions), "deleting a missing key")
			_, ok, err = kv.Load(KeySessions)
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestKV_InvalidKey(t *testing.T) {
	for name, kv := range backends(t) {
		t.Run(name, func(t *testing.T) {
			err := kv.Save("../escape", []byte("x"))
			assert.ErrorIs(t, err, ErrInvalidKey)
			_, _, err = kv.Load("UPPER")
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestFileKV_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	a, err := NewFileKV(dir)
	require.NoError(t, err)
	require.NoError(t, a.Save(KeyOnboarding, []byte("true")))

	b, err := NewFileKV(dir)
	require.NoError(t, err)
	data, ok, err := b.Load(KeyOnboarding)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", string(data))

	info, err := os.Stat(filepath.Join(dir, KeyOnboarding+".json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestSQLiteKV_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	a, err := NewSQLiteKV(path)
	require.NoError(t, err)
	require.NoError(t, a.Save(KeyUser, []byte(`{"name":"Dana"}`)))
	require.NoError(t, a.Close())

	b, err := NewSQLiteKV(path)
	require.NoError(t, err)
	defer b.Close()
	data, ok, err := b.Load(KeyUser)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"name":"Dana"}`, string(data))
}

func TestMemoryKV_CopiesAndCountsSaves(t *testing.T) {
	m := NewMemoryKV()
	buf := []byte("abc")
	require.NoError(t, m.Save(KeyFeedback, buf))
	buf[0] = 'z'

	data, _, err := m.Load(KeyFeedback)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
	assert.Equal(t, 1, m.Saves())

	require.NoError(t, m.Close())
	assert.ErrorIs(t, m.Save(KeyFeedback, nil), ErrClosed)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	kv, err := Open("memory", dir)
	require.NoError(t, err)
	assert.IsType(t, &MemoryKV{}, kv)

	kv, err = Open("", dir)
	require.NoError(t, err)
	assert.IsType(t, &FileKV{}, kv)

	kv, err = Open("SQLite", dir)
	require.NoError(t, err)
	assert.IsType(t, &SQLiteKV{}, kv)
	kv.Close()

	_, err = Open("redis", dir)
	assert.ErrorIs(t, err, ErrUnknownBackend)
}

// =============================================================================
// SCHEMA / JSON HELPERS
// =============================================================================

func TestLoadJSON(t *testing.T) {
	kv := NewMemoryKV()

	var sessions []map[string]any
	err := LoadJSON(kv, KeySessions, SessionsSchema, &sessions)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Save(KeySessions, []byte(`{not json`)))
	err = LoadJSON(kv, KeySessions, SessionsSchema, &sessions)
	assert.Error(t, err)

	require.NoError(t, kv.Save(KeySessions, []byte(`[{"id":"1","title":"t","createdAt":1,"messages":[{"id":"m","role":"system","text":"","timestamp":1}]}]`)))
	err = LoadJSON(kv, KeySessions, SessionsSchema, &sessions)
	var schemaErr *SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.NotEmpty(t, schemaErr.Errors)

	valid := `[{"id":"1","title":"t","createdAt":1,"messages":[{"id":"m","role":"model","text":"hi","timestamp":1}]}]`
	require.NoError(t, kv.Save(KeySessions, []byte(valid)))
	require.NoError(t, LoadJSON(kv, KeySessions, SessionsSchema, &sessions))
	assert.Len(t, sessions, 1)
}

func TestSaveJSON_RoundTripWithProfileSchema(t *testing.T) {
	kv := NewMemoryKV()
	in := map[string]any{"name": "Dana", "fontSize": "large", "darkMode": true}
	require.NoError(t, SaveJSON(kv, KeyUser, in))

	var out map[string]any
	require.NoError(t, LoadJSON(kv, KeyUser, ProfileSchema, &out))
	assert.Equal(t, "large", out["fontSize"])

	require.NoError(t, kv.Save(KeyUser, []byte(`{"name":"x","fontSize":"huge"}`)))
	assert.Error(t, LoadJSON(kv, KeyUser, ProfileSchema, &out))
}
