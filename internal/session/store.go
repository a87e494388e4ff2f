// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/storage"
)

// =============================================================================
// EVENTS
// =============================================================================

// EventKind identifies the mutation that produced an Event.
type EventKind int

const (
	EventCreated EventKind = iota
	EventAppended
	EventUpdated
	EventRemoved
	EventCleared
)

// String returns the kind name.
func (k EventKind) String() string {
	switch k {
	case EventCreated:
		return "created"
	case EventAppended:
		return "appended"
	case EventUpdated:
		return "updated"
	case EventRemoved:
		return "removed"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// Event describes one committed mutation.
type Event struct {
	Kind      EventKind
	SessionID string
	MessageID string
}

// =============================================================================
// STORE
// =============================================================================

// Store is the single source of truth for chat sessions.
type Store struct {
	mu sync.RWMutex

	kv     storage.KV
	logger *slog.Logger
	now    func() time.Time

	sessions []model.ChatSession
	// session id -> position in sessions
	byID map[string]int
	// message id -> owning session and position in its Messages
	index  map[string]msgLoc
	lastID int64
	seq    uint64

	saveMu    sync.Mutex
	savedSeq  uint64
	observers map[int]func(Event)
	nextObs   int
}

type msgLoc struct {
	session string
	pos     int
}

// snapshot is a committed collection waiting to be persisted.
type snapshot struct {
	seq      uint64
	sessions []model.ChatSession
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for ids and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// Open loads the persisted collection from kv. Missing, corrupt or
// schema-invalid data yields an empty collection.
func Open(kv storage.KV, opts ...Option) *Store {
	s := &Store{
		kv:        kv,
		logger:    slog.Default(),
		now:       time.Now,
		observers: make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}

	var loaded []model.ChatSession
	err := storage.LoadJSON(kv, storage.KeySessions, storage.SessionsSchema, &loaded)
	switch {
	case errors.Is(err, storage.ErrNotFound):
	case err != nil:
		s.logger.Debug("discarding stored sessions", "error", err)
	default:
		s.sessions = loaded
	}

	s.reindexLocked()
	for _, sess := range s.sessions {
		if n, err := strconv.ParseInt(sess.ID, 10, 64); err == nil && n > s.lastID {
			s.lastID = n
		}
	}
	s.logger.Debug("sessions loaded", "count", len(s.sessions))
	return s
}

// reindexLocked rebuilds both indexes from s.sessions.
func (s *Store) reindexLocked() {
	s.byID = make(map[string]int, len(s.sessions))
	s.index = make(map[string]msgLoc)
	for i, sess := range s.sessions {
		s.byID[sess.ID] = i
		s.indexMessagesLocked(sess, 0)
	}
}

// indexMessagesLocked records positions for sess.Messages[from:].
func (s *Store) indexMessagesLocked(sess model.ChatSession, from int) {
	for j := from; j < len(sess.Messages); j++ {
		s.index[sess.Messages[j].ID] = msgLoc{session: sess.ID, pos: j}
	}
}

// =============================================================================
// READS
// =============================================================================

// List returns the current snapshot, newest first.
func (s *Store) List() []model.ChatSession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessions
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Get resolves a session by id.
func (s *Store) Get(id string) (model.ChatSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.find(id)
	if i < 0 {
		return model.ChatSession{}, false
	}
	return s.sessions[i], true
}

// SessionOf returns the id of the session holding messageID.
func (s *Store) SessionOf(messageID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.index[messageID]
	return loc.session, ok
}

func (s *Store) find(id string) int {
	if i, ok := s.byID[id]; ok {
		return i
	}
	return -1
}

// locate resolves a message to its session and message positions.
func (s *Store) locate(sessionID, messageID string) (int, int, bool) {
	loc, ok := s.index[messageID]
	if !ok || loc.session != sessionID {
		return 0, 0, false
	}
	i := s.find(sessionID)
	if i < 0 {
		return 0, 0, false
	}
	return i, loc.pos, true
}

// =============================================================================
// MUTATIONS
// =============================================================================

// Create prepends a new empty session and returns it.
func (s *Store) Create(title string) model.ChatSession {
	s.mu.Lock()
	now := s.now().UnixMilli()
	id := now
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id

	sess := model.ChatSession{
		ID:        strconv.FormatInt(id, 10),
		Title:     title,
		Messages:  []model.Message{},
		CreatedAt: now,
	}
	next := make([]model.ChatSession, 0, len(s.sessions)+1)
	next = append(next, sess)
	next = append(next, s.sessions...)
	snap := s.commitLocked(next)
	for i, c := range next {
		s.byID[c.ID] = i
	}
	s.mu.Unlock()

	s.persist(snap)
	s.emit(Event{Kind: EventCreated, SessionID: sess.ID})
	return sess
}

// AppendMessage adds msg to the end of the session. Unknown sessions are
// ignored and false is returned.
func (s *Store) AppendMessage(sessionID string, msg model.Message) bool {
	s.mu.Lock()
	i := s.find(sessionID)
	if i < 0 {
		s.mu.Unlock()
		s.logger.Debug("append to unknown session ignored", "session", sessionID)
		return false
	}

	old := s.sessions[i]
	msgs := make([]model.Message, len(old.Messages), len(old.Messages)+1)
	copy(msgs, old.Messages)
	msgs = append(msgs, msg)

	s.index[msg.ID] = msgLoc{session: sessionID, pos: len(msgs) - 1}
	snap := s.replaceLocked(i, withMessages(old, msgs))
	s.mu.Unlock()

	s.persist(snap)
	s.emit(Event{Kind: EventAppended, SessionID: sessionID, MessageID: msg.ID})
	return true
}

// UpdateMessageText replaces the text of one message. Writing the text the
// message already has changes nothing and is not persisted.
func (s *Store) UpdateMessageText(sessionID, messageID, text string) bool {
	return s.updateMessage(sessionID, messageID, func(m *model.Message) bool {
		if m.Text == text {
			return false
		}
		m.Text = text
		return true
	})
}

// MarkFailed flags a message as the remains of a broken stream.
func (s *Store) MarkFailed(sessionID, messageID string) bool {
	return s.updateMessage(sessionID, messageID, func(m *model.Message) bool {
		if m.Failed {
			return false
		}
		m.Failed = true
		return true
	})
}

func (s *Store) updateMessage(sessionID, messageID string, mutate func(*model.Message) bool) bool {
	s.mu.Lock()
	i, j, ok := s.locate(sessionID, messageID)
	if !ok {
		s.mu.Unlock()
		return false
	}
	old := s.sessions[i]

	updated := old.Messages[j]
	if !mutate(&updated) {
		s.mu.Unlock()
		return false
	}

	msgs := make([]model.Message, len(old.Messages))
	copy(msgs, old.Messages)
	msgs[j] = updated
	snap := s.replaceLocked(i, withMessages(old, msgs))
	s.mu.Unlock()

	s.persist(snap)
	s.emit(Event{Kind: EventUpdated, SessionID: sessionID, MessageID: messageID})
	return true
}

// RemoveMessage deletes one message from a session.
func (s *Store) RemoveMessage(sessionID, messageID string) bool {
	s.mu.Lock()
	i, j, ok := s.locate(sessionID, messageID)
	if !ok {
		s.mu.Unlock()
		return false
	}
	old := s.sessions[i]

	msgs := make([]model.Message, 0, len(old.Messages)-1)
	msgs = append(msgs, old.Messages[:j]...)
	msgs = append(msgs, old.Messages[j+1:]...)

	delete(s.index, messageID)
	updated := withMessages(old, msgs)
	s.indexMessagesLocked(updated, j)
	snap := s.replaceLocked(i, updated)
	s.mu.Unlock()

	s.persist(snap)
	s.emit(Event{Kind: EventRemoved, SessionID: sessionID, MessageID: messageID})
	return true
}

// ClearAll deletes every session. Callers confirm with the user first.
func (s *Store) ClearAll() {
	s.mu.Lock()
	snap := s.commitLocked([]model.ChatSession{})
	s.reindexLocked()
	s.mu.Unlock()

	s.persist(snap)
	s.emit(Event{Kind: EventCleared})
}

func withMessages(sess model.ChatSession, msgs []model.Message) model.ChatSession {
	sess.Messages = msgs
	return sess
}

// replaceLocked swaps session i for updated in a fresh outer slice.
func (s *Store) replaceLocked(i int, updated model.ChatSession) snapshot {
	next := make([]model.ChatSession, len(s.sessions))
	copy(next, s.sessions)
	next[i] = updated
	return s.commitLocked(next)
}

// commitLocked installs next and returns it for persist.
func (s *Store) commitLocked(next []model.ChatSession) snapshot {
	s.sessions = next
	s.seq++
	return snapshot{seq: s.seq, sessions: next}
}

// persist writes snap unless a newer snapshot has already been saved.
// Snapshots are never mutated after commit, so encoding runs without s.mu.
// Persist failures are logged; the in-memory snapshot stays authoritative.
func (s *Store) persist(snap snapshot) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	if snap.seq <= s.savedSeq {
		return
	}
	data, err := json.Marshal(snap.sessions)
	if err != nil {
		s.logger.Warn("failed to encode sessions", "error", err)
		return
	}
	if err := s.kv.Save(storage.KeySessions, data); err != nil {
		s.logger.Warn("failed to persist sessions", "error", err)
		return
	}
	s.savedSeq = snap.seq
}

// =============================================================================
// OBSERVERS
// =============================================================================

// Subscribe registers fn for every committed mutation and returns a function
// that removes it. fn runs on the mutating goroutine after the lock is
// released.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextObs
	s.nextObs++
	s.observers[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.observers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) emit(ev Event) {
	s.mu.RLock()
	fns := make([]func(Event), 0, len(s.observers))
	for _, fn := range s.observers {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
