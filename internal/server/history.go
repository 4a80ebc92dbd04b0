// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"sync"

	"github.com/gaurav3000R/gemma-chat/internal/backend"
	"github.com/gaurav3000R/gemma-chat/internal/model"
)

// History holds every (user, session) conversation in memory. Sessions are
// reported in the order they were first written to.
type History struct {
	mu    sync.RWMutex
	users map[string]*userHistory
}

type userHistory struct {
	order    []string
	sessions map[string][]model.Turn
}

// NewHistory creates an empty history.
func NewHistory() *History {
	return &History{users: make(map[string]*userHistory)}
}

// Append adds a turn to a session and returns a copy of the session's turns.
func (h *History) Append(userID, sessionID string, turn model.Turn) []model.Turn {
	h.mu.Lock()
	defer h.mu.Unlock()

	u, ok := h.users[userID]
	if !ok {
		u = &userHistory{sessions: make(map[string][]model.Turn)}
		h.users[userID] = u
	}
	if _, ok := u.sessions[sessionID]; !ok {
		u.order = append(u.order, sessionID)
	}
	u.sessions[sessionID] = append(u.sessions[sessionID], turn)

	return append([]model.Turn(nil), u.sessions[sessionID]...)
}

// Turns returns a copy of one session's turns, or nil when unknown.
func (h *History) Turns(userID, sessionID string) []model.Turn {
	h.mu.RLock()
	defer h.mu.RUnlock()

	u, ok := h.users[userID]
	if !ok {
		return nil
	}
	turns, ok := u.sessions[sessionID]
	if !ok {
		return nil
	}
	return append([]model.Turn(nil), turns...)
}

// Sessions returns every session for userID in creation order. Unknown users
// get an empty, non-nil result so it encodes as {}.
func (h *History) Sessions(userID string) backend.Sessions {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := backend.Sessions{}
	u, ok := h.users[userID]
	if !ok {
		return out
	}
	for _, id := range u.order {
		out = append(out, backend.Session{
			ID:    id,
			Turns: append([]model.Turn(nil), u.sessions[id]...),
		})
	}
	return out
}

// Users returns the number of users with at least one session.
func (h *History) Users() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users)
}
