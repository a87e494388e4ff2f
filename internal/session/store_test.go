// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/storage"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

// =============================================================================
// CREATE / ID ALLOCATION
// =============================================================================

func TestStore_CreatePrependsAndPersists(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := Open(kv, WithClock(fixedClock(1000)))

	a := s.Create("first")
	b := s.Create("second")

	list := s.List()
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID, "newest first")
	assert.Equal(t, a.ID, list[1].ID)

	reopened := Open(kv)
	assert.Equal(t, list, reopened.List())
}

func TestStore_CreateIDsMonotonicOnTies(t *testing.T) {
	s := Open(storage.NewMemoryKV(), WithClock(fixedClock(5000)))

	a := s.Create("a")
	b := s.Create("b")
	c := s.Create("c")

	assert.Equal(t, "5000", a.ID)
	assert.Equal(t, "5001", b.ID)
	assert.Equal(t, "5002", c.ID)
}

func TestStore_CreateIDsSurviveClockGoingBackwards(t *testing.T) {
	kv := storage.NewMemoryKV()
	Open(kv, WithClock(fixedClock(9000))).Create("later")

	s := Open(kv, WithClock(fixedClock(100)))
	sess := s.Create("earlier clock")
	assert.Equal(t, "9001", sess.ID)
}

// =============================================================================
// MESSAGES
// =============================================================================

func TestStore_AppendToMissingSessionIsNoop(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := Open(kv)

	ok := s.AppendMessage("nope", model.NewUserMessage("hi", ""))
	assert.False(t, ok)
	assert.Empty(t, s.List())
	assert.Equal(t, 0, kv.Saves())
}

func TestStore_UpdateMessageTextSharesOtherSessions(t *testing.T) {
	s := Open(storage.NewMemoryKV(), WithClock(fixedClock(1)))
	other := s.Create("other")
	s.AppendMessage(other.ID, model.NewUserMessage("untouched", ""))
	target := s.Create("target")
	reply := model.NewModelMessage()
	s.AppendMessage(target.ID, reply)

	before := s.List()
	require.True(t, s.UpdateMessageText(target.ID, reply.ID, "partial"))
	after := s.List()

	// The untouched session's message slice is the same backing array.
	assert.Same(t, &before[1].Messages[0], &after[1].Messages[0])
	// The previous snapshot is unchanged.
	assert.Equal(t, "", before[0].Messages[0].Text)
	assert.Equal(t, "partial", after[0].Messages[0].Text)
}

func TestStore_UpdateSameTextIsNoop(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := Open(kv)
	sess := s.Create("t")
	msg := model.NewModelMessage()
	s.AppendMessage(sess.ID, msg)
	require.True(t, s.UpdateMessageText(sess.ID, msg.ID, "abc"))

	saves := kv.Saves()
	blob, _, _ := kv.Load(storage.KeySessions)

	assert.False(t, s.UpdateMessageText(sess.ID, msg.ID, "abc"))
	assert.Equal(t, saves, kv.Saves())
	again, _, _ := kv.Load(storage.KeySessions)
	assert.Equal(t, blob, again)
}

func TestStore_RemoveAndMarkFailed(t *testing.T) {
	s := Open(storage.NewMemoryKV())
	sess := s.Create("t")
	u := model.NewUserMessage("q", "")
	r := model.NewModelMessage()
	s.AppendMessage(sess.ID, u)
	s.AppendMessage(sess.ID, r)

	sid, ok := s.SessionOf(r.ID)
	require.True(t, ok)
	assert.Equal(t, sess.ID, sid)

	assert.True(t, s.MarkFailed(sess.ID, r.ID))
	got, _ := s.Get(sess.ID)
	assert.True(t, got.Messages[1].Failed)

	assert.True(t, s.RemoveMessage(sess.ID, r.ID))
	got, _ = s.Get(sess.ID)
	assert.Len(t, got.Messages, 1)
	_, ok = s.SessionOf(r.ID)
	assert.False(t, ok)

	assert.False(t, s.RemoveMessage(sess.ID, r.ID))
}

func TestStore_IndexFollowsRemovals(t *testing.T) {
	s := Open(storage.NewMemoryKV(), WithClock(fixedClock(1000)))
	a := s.Create("a")
	b := s.Create("b")
	for _, id := range []string{"a1", "a2", "a3"} {
		s.AppendMessage(a.ID, model.Message{ID: id, Role: model.RoleUser, Timestamp: 1})
	}
	s.AppendMessage(b.ID, model.Message{ID: "b1", Role: model.RoleModel, Timestamp: 1})

	require.True(t, s.RemoveMessage(a.ID, "a1"))
	require.True(t, s.UpdateMessageText(a.ID, "a3", "last"))
	require.True(t, s.UpdateMessageText(a.ID, "a2", "middle"))

	got, _ := s.Get(a.ID)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "a2", got.Messages[0].ID)
	assert.Equal(t, "middle", got.Messages[0].Text)
	assert.Equal(t, "a3", got.Messages[1].ID)
	assert.Equal(t, "last", got.Messages[1].Text)

	assert.False(t, s.UpdateMessageText(a.ID, "b1", "wrong session"))
	s.Create("c")
	assert.True(t, s.UpdateMessageText(b.ID, "b1", "after create"))
	gotB, _ := s.Get(b.ID)
	assert.Equal(t, "after create", gotB.Messages[0].Text)
}

func TestStore_ClearAll(t *testing.T) {
	kv := storage.NewMemoryKV()
	s := Open(kv)
	s.Create("a")
	s.Create("b")

	s.ClearAll()
	assert.Empty(t, s.List())
	assert.Empty(t, Open(kv).List())
}

// =============================================================================
// LOAD FAILURES
// =============================================================================

func TestOpen_CorruptOrInvalidDataYieldsEmpty(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not json", `{{{`},
		{"wrong shape", `{"id":"1"}`},
		{"bad role", `[{"id":"1","title":"t","createdAt":1,"messages":[{"id":"m","role":"bot","text":"","timestamp":1}]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := storage.NewMemoryKV()
			require.NoError(t, kv.Save(storage.KeySessions, []byte(tt.blob)))
			assert.Empty(t, Open(kv).List())
		})
	}
}

func TestOpen_RoundTripAcrossBackends(t *testing.T) {
	backends := []struct {
		name string
		open func(t *testing.T, dir string) storage.KV
	}{
		{"memory", func(t *testing.T, dir string) storage.KV { return storage.NewMemoryKV() }},
		{"file", func(t *testing.T, dir string) storage.KV {
			kv, err := storage.NewFileKV(dir)
			require.NoError(t, err)
			return kv
		}},
		{"sqlite", func(t *testing.T, dir string) storage.KV {
			kv, err := storage.NewSQLiteKV(filepath.Join(dir, "pocketstudio.db"))
			require.NoError(t, err)
			return kv
		}},
	}
	for _, tt := range backends {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			kv := tt.open(t, dir)
			s := Open(kv, WithClock(fixedClock(1_700_000_000_000)))

			first := s.Create("שלום")
			s.AppendMessage(first.ID, model.Message{ID: "u1", Role: model.RoleUser, Text: "שלום", Timestamp: 1})
			s.AppendMessage(first.ID, model.Message{ID: "m1", Role: model.RoleModel, Text: "hi there", Timestamp: 2})

			second := s.Create("Image analysis")
			s.AppendMessage(second.ID, model.Message{ID: "u2", Role: model.RoleUser, Timestamp: 3, Image: "data:image/png;base64,AAAA"})
			s.AppendMessage(second.ID, model.Message{ID: "m2", Role: model.RoleModel, Text: "a cat", Timestamp: 4})
			s.AppendMessage(second.ID, model.Message{ID: "u3", Role: model.RoleUser, Text: "and?", Timestamp: 5})
			s.AppendMessage(second.ID, model.Message{ID: "m3", Role: model.RoleModel, Timestamp: 6})
			require.True(t, s.UpdateMessageText(second.ID, "m3", "part"))
			require.True(t, s.MarkFailed(second.ID, "m3"))

			s.Create("empty")

			before := s.List()
			if tt.name != "memory" {
				require.NoError(t, kv.Close())
				kv = tt.open(t, dir)
			}
			t.Cleanup(func() { kv.Close() })
			reopened := Open(kv)
			assert.Equal(t, before, reopened.List())

			sid, ok := reopened.SessionOf("m3")
			require.True(t, ok)
			assert.Equal(t, second.ID, sid)
		})
	}
}

// =============================================================================
// OBSERVERS
// =============================================================================

func TestStore_SubscribeReceivesEventsInOrder(t *testing.T) {
	s := Open(storage.NewMemoryKV())

	var mu sync.Mutex
	var kinds []EventKind
	unsub := s.Subscribe(func(ev Event) {
		mu.Lock()
		kinds = append(kinds, ev.Kind)
		mu.Unlock()
	})

	sess := s.Create("t")
	msg := model.NewModelMessage()
	s.AppendMessage(sess.ID, msg)
	s.UpdateMessageText(sess.ID, msg.ID, "x")
	s.RemoveMessage(sess.ID, msg.ID)
	s.ClearAll()

	unsub()
	s.Create("after unsubscribe")

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []EventKind{EventCreated, EventAppended, EventUpdated, EventRemoved, EventCleared}, kinds)
}

func TestStore_ObserverMayReadStore(t *testing.T) {
	s := Open(storage.NewMemoryKV())
	var seen int
	s.Subscribe(func(Event) { seen = s.Len() })
	s.Create("t")
	assert.Equal(t, 1, seen)
}

func TestWatcher_DeliversChangedMsg(t *testing.T) {
	s := Open(storage.NewMemoryKV())
	w := Watch(s)
	defer w.Stop()

	sess := s.Create("t")
	msg := w.Next()()
	changed, ok := msg.(ChangedMsg)
	require.True(t, ok)
	assert.Equal(t, EventCreated, changed.Event.Kind)
	assert.Equal(t, sess.ID, changed.Event.SessionID)
}

func TestFormatList(t *testing.T) {
	assert.Equal(t, "No sessions found.", FormatList(nil))

	s := Open(storage.NewMemoryKV(), WithClock(fixedClock(1700000000000)))
	s.Create("Hello there")
	out := FormatList(s.List())
	assert.Contains(t, out, "1700000000000")
	assert.Contains(t, out, "Hello there")
}
