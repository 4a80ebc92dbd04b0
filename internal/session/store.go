// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/gaurav3000R/gemma-chat/internal/backend"
	"github.com/gaurav3000R/gemma-chat/internal/model"
)

// Fetcher loads the sessions held by the backend for a user.
type Fetcher interface {
	GetChats(ctx context.Context, userID string) (*backend.SessionsResponse, error)
}

// Summary describes one session for the history list.
type Summary struct {
	ID           string
	Title        string
	MessageCount int
}

// untitled is shown for sessions without a user message.
const untitled = "New chat"

// titleLen is the preview length used for session titles.
const titleLen = 48

// =============================================================================
// STORE
// =============================================================================

// Store maps session ids to ordered message sequences.
// It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	sessions map[string][]model.Message
	order    []string
	lastErr  error
	logger   *zap.Logger
}

// NewStore creates an empty store. A nil logger is replaced by a no-op one.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		sessions: make(map[string][]model.Message),
		logger:   logger,
	}
}

// Fetch loads the user's sessions from the backend and stores each one,
// expanding turns into messages. Any failure is logged and recorded in
// LastError; the store is left as it was and Fetch returns nil.
func (s *Store) Fetch(ctx context.Context, f Fetcher, userID string) error {
	resp, err := f.GetChats(ctx, userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.lastErr = err
		s.logger.Warn("failed to fetch sessions", zap.String("user_id", userID), zap.Error(err))
		return nil
	}
	s.lastErr = nil

	for _, sess := range resp.Sessions {
		s.putLocked(sess.ID, model.ExpandTurns(sess.Turns))
	}
	s.logger.Debug("fetched sessions", zap.Int("count", len(resp.Sessions)))
	return nil
}

// LastError returns the error from the most recent Fetch, or nil.
func (s *Store) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Get returns a copy of the messages stored for id.
func (s *Store) Get(id string) ([]model.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	return model.CloneMessages(msgs), true
}

// Put replaces the messages stored for id.
func (s *Store) Put(id string, msgs []model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(id, model.CloneMessages(msgs))
}

func (s *Store) putLocked(id string, msgs []model.Message) {
	if _, ok := s.sessions[id]; !ok {
		s.order = append(s.order, id)
	}
	if msgs == nil {
		msgs = []model.Message{}
	}
	s.sessions[id] = msgs
}

// Has reports whether id is stored.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.sessions[id]
	return ok
}

// IDs returns session ids in first-seen order.
func (s *Store) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Summaries lists every session in IDs order.
func (s *Store) Summaries() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Summary, 0, len(s.order))
	for _, id := range s.order {
		msgs := s.sessions[id]
		title := untitled
		if first := model.FirstUserText(msgs); first != "" {
			title = model.NewUserMessage(first).Preview(titleLen)
		}
		out = append(out, Summary{ID: id, Title: title, MessageCount: len(msgs)})
	}
	return out
}

// Resolve finds a session by exact id or unique id prefix.
func (s *Store) Resolve(prefix string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.sessions[prefix]; ok {
		return prefix, true
	}
	if prefix == "" {
		return "", false
	}

	match := ""
	for _, id := range s.order {
		if len(id) >= len(prefix) && id[:len(prefix)] == prefix {
			if match != "" {
				return "", false
			}
			match = id
		}
	}
	return match, match != ""
}
