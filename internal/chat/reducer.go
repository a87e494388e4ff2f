// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jeranaias/pocketstudio/internal/model"
	"github.com/jeranaias/pocketstudio/internal/provider"
	"github.com/jeranaias/pocketstudio/internal/session"
	"github.com/jeranaias/pocketstudio/internal/util"
)

// Titles given to sessions created without prompt text.
const (
	TitleImageOnly = "Image analysis"
	TitleNewChat   = "New chat"

	// TitleMaxRunes bounds titles derived from the first prompt.
	TitleMaxRunes = 30
)

// Result summarizes a finished send.
type Result struct {
	SessionID     string
	UserMessageID string
	ReplyID       string // empty when no placeholder survived
	State         State
	Text          string
	Fragments     int
	Duration      time.Duration
	Canceled      bool
	Err           error
}

// Reducer owns the active session selection, the transient input and the
// single in-flight send.
type Reducer struct {
	store    *session.Store
	provider provider.Provider
	notifier Notifier
	logger   *slog.Logger

	mu       sync.Mutex
	activeID string
	input    string
	image    string
	state    State
	thinking bool
	inFlight bool
	cancel   context.CancelFunc
	onChange func()
}

// Option configures a Reducer.
type Option func(*Reducer)

// WithNotifier sets the notification sink.
func WithNotifier(n Notifier) Option {
	return func(r *Reducer) {
		if n != nil {
			r.notifier = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reducer) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithChangeHook registers fn to run whenever thinking, selection or the
// transient input changes. fn runs outside the reducer lock.
func WithChangeHook(fn func()) Option {
	return func(r *Reducer) { r.onChange = fn }
}

// NewReducer creates a reducer over store and p.
func NewReducer(store *session.Store, p provider.Provider, opts ...Option) *Reducer {
	r := &Reducer{
		store:    store,
		provider: p,
		notifier: discard{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Store returns the session store.
func (r *Reducer) Store() *session.Store { return r.store }

// Provider returns the provider.
func (r *Reducer) Provider() provider.Provider { return r.provider }

// Active returns the selected session, re-resolved from the store.
func (r *Reducer) Active() (model.ChatSession, bool) {
	r.mu.Lock()
	id := r.activeID
	r.mu.Unlock()
	if id == "" {
		return model.ChatSession{}, false
	}
	return r.store.Get(id)
}

// ActiveID returns the selected session id, or "".
func (r *Reducer) ActiveID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.activeID
}

// Thinking reports whether a send is waiting on the provider.
func (r *Reducer) Thinking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.thinking
}

// State returns the state of the most recent send.
func (r *Reducer) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Input returns the transient input text.
func (r *Reducer) Input() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.input
}

// Image returns the attached image data URL, or "".
func (r *Reducer) Image() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.image
}

// =============================================================================
// SELECTION / INPUT
// =============================================================================

// Select makes id the active session. Unknown ids are rejected.
func (r *Reducer) Select(id string) bool {
	if _, ok := r.store.Get(id); !ok {
		return false
	}
	r.set(func() { r.activeID = id })
	return true
}

// Deselect clears the active session; the next send creates one.
func (r *Reducer) Deselect() {
	r.set(func() { r.activeID = "" })
}

// StartNewChat creates an empty session and selects it.
func (r *Reducer) StartNewChat() model.ChatSession {
	sess := r.store.Create(TitleNewChat)
	r.set(func() { r.activeID = sess.ID })
	return sess
}

// SetInput replaces the transient input text.
func (r *Reducer) SetInput(text string) {
	r.set(func() { r.input = text })
}

// AttachImage sets the transient image after validating the data URL.
func (r *Reducer) AttachImage(dataURL string) error {
	if _, _, err := provider.ParseDataURL(dataURL); err != nil {
		return err
	}
	r.set(func() { r.image = dataURL })
	return nil
}

// AttachImageFile reads path and attaches it as a data URL.
func (r *Reducer) AttachImageFile(path string) error {
	dataURL, err := provider.DataURLFromFile(path)
	if err != nil {
		return err
	}
	r.set(func() { r.image = dataURL })
	return nil
}

// ClearImage removes the transient image.
func (r *Reducer) ClearImage() {
	r.set(func() { r.image = "" })
}

// Cancel stops the in-flight send, if any. The send settles with the text
// received so far.
func (r *Reducer) Cancel() bool {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel == nil {
		return false
	}
	cancel()
	return true
}

func (r *Reducer) set(fn func()) {
	r.mu.Lock()
	fn()
	hook := r.onChange
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
}

func (r *Reducer) changed() {
	r.mu.Lock()
	hook := r.onChange
	r.mu.Unlock()
	if hook != nil {
		hook()
	}
}

// =============================================================================
// SEND
// =============================================================================

// SendInput sends the transient input and image.
func (r *Reducer) SendInput(ctx context.Context) (Result, error) {
	r.mu.Lock()
	text, image := r.input, r.image
	r.mu.Unlock()
	return r.Send(ctx, text, image)
}

// TitleFor derives a session title from the first prompt.
func TitleFor(text string) string {
	title := util.TruncateRunesNoEllipsis(util.Normalize(text), TitleMaxRunes)
	if title == "" {
		return TitleImageOnly
	}
	return title
}

// Send runs one send to completion. It returns a *ValidationError without
// side effects when the input is empty or a send is already in flight.
// Provider failures are reported through the Notifier and in Result.Err;
// the returned error is reserved for rejections.
func (r *Reducer) Send(ctx context.Context, text, image string) (Result, error) {
	prompt := strings.TrimSpace(text)
	if prompt == "" && image == "" {
		return Result{}, ErrEmptyInput
	}

	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return Result{}, ErrBusy
	}
	r.inFlight = true
	r.state = StateIdle
	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	activeID := r.activeID
	r.mu.Unlock()

	start := time.Now()
	defer func() {
		cancel()
		r.mu.Lock()
		r.thinking = false
		r.inFlight = false
		r.cancel = nil
		r.mu.Unlock()
		r.changed()
	}()

	// Resolve the session.
	sess, ok := r.store.Get(activeID)
	if !ok {
		sess = r.store.Create(TitleFor(prompt))
		r.mu.Lock()
		r.activeID = sess.ID
		r.mu.Unlock()
	}
	r.setState(StateSessionResolved)

	// Append the user message. History is captured before the append.
	preHistory := sess.Messages
	userMsg := model.NewUserMessage(prompt, image)
	r.store.AppendMessage(sess.ID, userMsg)
	r.setState(StateUserMessageAppended)

	res := Result{SessionID: sess.ID, UserMessageID: userMsg.ID}

	// Clear transient input immediately, whatever the outcome.
	r.mu.Lock()
	r.input = ""
	r.image = ""
	r.thinking = true
	r.mu.Unlock()
	r.changed()

	stream, err := r.provider.StreamReply(ctx, prompt, preHistory, image)
	if err != nil {
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			res.Canceled = true
			return r.finish(res, StateSettled, start), nil
		}
		res.Err = err
		r.report(err)
		return r.finish(res, StateFailed, start), nil
	}
	defer stream.Close()

	reply := model.NewModelMessage()
	r.store.AppendMessage(sess.ID, reply)
	res.ReplyID = reply.ID
	r.setState(StateStreaming)

	var acc strings.Builder
	for stream.Next() {
		acc.WriteString(stream.Fragment())
		res.Fragments++
		r.store.UpdateMessageText(sess.ID, reply.ID, acc.String())
		r.setState(StateFolding)
	}
	res.Text = acc.String()

	err = stream.Err()
	switch {
	case err == nil:
		return r.finish(res, StateSettled, start), nil

	case errors.Is(err, context.Canceled):
		res.Canceled = true
		if res.Text == "" {
			r.store.RemoveMessage(sess.ID, reply.ID)
			res.ReplyID = ""
		}
		return r.finish(res, StateSettled, start), nil

	default:
		res.Err = err
		if res.Text == "" {
			r.store.RemoveMessage(sess.ID, reply.ID)
			res.ReplyID = ""
		} else {
			r.store.MarkFailed(sess.ID, reply.ID)
		}
		r.report(err)
		return r.finish(res, StateFailed, start), nil
	}
}

func (r *Reducer) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Reducer) finish(res Result, s State, start time.Time) Result {
	res.State = s
	res.Duration = time.Since(start)
	r.setState(s)

	attrs := []any{
		"session", res.SessionID,
		"state", s.String(),
		"fragments", res.Fragments,
		"chars", len([]rune(res.Text)),
		"duration", res.Duration.Round(time.Millisecond),
	}
	if res.Canceled {
		attrs = append(attrs, "canceled", true)
	}
	if res.Err != nil {
		r.logger.Warn("reply failed", append(attrs, "error", res.Err)...)
	} else {
		r.logger.Info("reply settled", attrs...)
	}
	return res
}

func (r *Reducer) report(err error) {
	msg := "Something went wrong. Please try again."
	var pe *provider.ProviderError
	if errors.As(err, &pe) {
		msg = pe.UserMessage()
	}
	r.notifier.Notify(Notification{Level: LevelError, Message: msg, Err: err, At: time.Now()})
}
