// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/gaurav3000R/gemma-chat/internal/backend"
	"github.com/gaurav3000R/gemma-chat/internal/identity"
	"github.com/gaurav3000R/gemma-chat/internal/model"
	"github.com/gaurav3000R/gemma-chat/internal/params"
	"github.com/gaurav3000R/gemma-chat/internal/session"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyInput is returned for input that is empty after trimming.
	ErrEmptyInput = errors.New("input is empty")

	// ErrBusy is returned while a request is in flight.
	ErrBusy = errors.New("a request is already in flight")

	// ErrUnknownSession is returned by LoadSession for ids not in the store.
	ErrUnknownSession = errors.New("unknown session")
)

// ErrorText is the assistant message appended when a request fails.
const ErrorText = "Sorry, something went wrong. Please check the console and make sure the backend is running."

// =============================================================================
// STATE
// =============================================================================

// State is the controller's request state.
type State int

const (
	StateIdle State = iota
	StateSending
	StateIdleWithError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateIdleWithError:
		return "idle (error)"
	default:
		return "unknown"
	}
}

// Backend is the subset of the HTTP client the controller uses.
type Backend interface {
	session.Fetcher
	Chat(ctx context.Context, req backend.ChatRequest) (*backend.ChatResponse, error)
}

// Pending is a request that has been started but not finished.
type Pending struct {
	Text      string
	SessionID string
	Params    model.GenerationParams
	Started   time.Time
}

// Result is the outcome of executing a Pending request.
type Result struct {
	Pending  *Pending
	Response *backend.ChatResponse
	Latency  time.Duration
	Err      error
}

// Options configures a Controller.
type Options struct {
	UserID string
	Client Backend

	// Store defaults to an empty store.
	Store *session.Store

	// Panel defaults to the default parameters.
	Panel *params.Panel

	Logger *zap.Logger
}

// =============================================================================
// CONTROLLER
// =============================================================================

// Controller is the single application-state object. Its methods other
// than Execute must be called from one goroutine (the UI loop).
type Controller struct {
	userID    string
	client    Backend
	store     *session.Store
	panel     *params.Panel
	logger    *zap.Logger
	sessionID string
	messages  []model.Message
	state     State
	lastErr   error

	newID func() string
	now   func() time.Time
}

// New creates a controller with a fresh session.
func New(opts Options) *Controller {
	c := &Controller{
		userID: opts.UserID,
		client: opts.Client,
		store:  opts.Store,
		panel:  opts.Panel,
		logger: opts.Logger,
		newID:  identity.NewID,
		now:    time.Now,
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.store == nil {
		c.store = session.NewStore(c.logger)
	}
	if c.panel == nil {
		c.panel = params.NewPanel(params.DefaultParams())
	}
	c.sessionID = c.newID()
	c.messages = []model.Message{}
	return c
}

// Init fetches the user's sessions from the backend. Failures are logged by
// the store and otherwise ignored.
func (c *Controller) Init(ctx context.Context) {
	_ = c.store.Fetch(ctx, c.client, c.userID)
}

// Begin validates input, appends the user message optimistically and
// captures what the request needs.
func (c *Controller) Begin(input string) (*Pending, error) {
	text := strings.TrimSpace(input)
	if text == "" {
		return nil, ErrEmptyInput
	}
	if c.state == StateSending {
		return nil, ErrBusy
	}

	text = norm.NFC.String(text)
	c.messages = append(c.messages, model.NewUserMessage(text))
	c.state = StateSending

	p := &Pending{
		Text:      text,
		SessionID: c.sessionID,
		Params:    c.panel.Params(),
		Started:   c.now(),
	}
	c.logger.Debug("chat request started",
		zap.String("session_id", p.SessionID),
		zap.Stringer("params", p.Params))
	return p, nil
}

// Execute sends the pending request. It touches no controller state and may
// run on any goroutine. A panic in the transport becomes an error result.
func (c *Controller) Execute(ctx context.Context, p *Pending) Result {
	var (
		resp *backend.ChatResponse
		err  error
	)

	var catcher panics.Catcher
	catcher.Try(func() {
		resp, err = c.client.Chat(ctx, backend.ChatRequest{
			UserID:           c.userID,
			SessionID:        p.SessionID,
			Message:          p.Text,
			GenerationParams: p.Params,
		})
	})
	if r := catcher.Recovered(); r != nil {
		resp, err = nil, fmt.Errorf("chat request panicked: %w", r.AsError())
	}

	latency := c.now().Sub(p.Started)
	if err == nil && resp.LatencySec != nil && *resp.LatencySec >= 0 {
		latency = time.Duration(*resp.LatencySec * float64(time.Second))
	}

	return Result{Pending: p, Response: resp, Latency: latency, Err: err}
}

// Finish applies a result. On success the captured session's messages are
// replaced by the server history; the active view follows only if that
// session is still active. On failure one error message is appended.
func (c *Controller) Finish(r Result) {
	if r.Pending == nil {
		return
	}
	captured := r.Pending.SessionID

	if r.Err != nil {
		c.lastErr = r.Err
		c.state = StateIdleWithError
		c.logger.Error("chat request failed",
			zap.String("session_id", captured),
			zap.Bool("http", backend.IsHTTP(r.Err)),
			zap.Error(r.Err))

		errMsg := model.NewAssistantMessage(ErrorText)
		if captured == c.sessionID {
			c.messages = append(c.messages, errMsg)
		} else if stored, ok := c.store.Get(captured); ok {
			c.store.Put(captured, append(stored, errMsg))
		}
		return
	}

	msgs := model.ExpandTurns(r.Response.History)
	msgs = model.AnnotateLast(msgs, r.Pending.Params, r.Latency, r.Response.Meta)
	c.store.Put(captured, msgs)

	if captured == c.sessionID {
		c.messages = model.CloneMessages(msgs)
	} else {
		c.logger.Info("response applied to inactive session", zap.String("session_id", captured))
	}

	c.lastErr = nil
	c.state = StateIdle
	c.logger.Info("chat request finished",
		zap.String("session_id", captured),
		zap.Duration("latency", r.Latency),
		zap.Int("turns", len(r.Response.History)))
}

// Submit runs Begin, Execute and Finish in sequence. It returns the Begin
// error, or the request error after it has been applied.
func (c *Controller) Submit(ctx context.Context, input string) error {
	p, err := c.Begin(input)
	if err != nil {
		return err
	}
	r := c.Execute(ctx, p)
	c.Finish(r)
	return r.Err
}

// NewChat starts a fresh session. The current session's messages are kept
// in the store so it can be loaded again.
func (c *Controller) NewChat() error {
	if c.state == StateSending {
		return ErrBusy
	}
	c.stashActive()

	prev := c.sessionID
	id := c.newID()
	for id == prev {
		id = c.newID()
	}

	c.sessionID = id
	c.messages = []model.Message{}
	c.state = StateIdle
	c.lastErr = nil
	c.logger.Debug("new chat", zap.String("session_id", id), zap.String("previous", prev))
	return nil
}

// LoadSession makes a stored session active.
func (c *Controller) LoadSession(id string) error {
	if c.state == StateSending {
		return ErrBusy
	}
	msgs, ok := c.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	if id != c.sessionID {
		c.stashActive()
	}

	c.sessionID = id
	c.messages = msgs
	c.state = StateIdle
	c.lastErr = nil
	c.logger.Debug("loaded session", zap.String("session_id", id), zap.Int("messages", len(msgs)))
	return nil
}

// stashActive writes non-empty active messages to the store.
func (c *Controller) stashActive() {
	if len(c.messages) > 0 {
		c.store.Put(c.sessionID, c.messages)
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// UserID returns the user identifier.
func (c *Controller) UserID() string { return c.userID }

// SessionID returns the active session id.
func (c *Controller) SessionID() string { return c.sessionID }

// Messages returns a copy of the active messages.
func (c *Controller) Messages() []model.Message { return model.CloneMessages(c.messages) }

// State returns the request state.
func (c *Controller) State() State { return c.state }

// IsLoading reports whether a request is in flight.
func (c *Controller) IsLoading() bool { return c.state == StateSending }

// LastError returns the error of the last failed request, cleared on success.
func (c *Controller) LastError() error { return c.lastErr }

// Params returns the hyperparameter panel.
func (c *Controller) Params() *params.Panel { return c.panel }

// Sessions returns the session store.
func (c *Controller) Sessions() *session.Store { return c.store }
