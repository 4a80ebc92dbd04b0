// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/gaurav3000R/gemma-chat/internal/model"
)

// =============================================================================
// CHAT
// =============================================================================

// ChatRequest is the body of POST /chat. The generation parameters are
// flattened into the top-level object.
type ChatRequest struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	model.GenerationParams
}

// ChatResponse is the body returned by POST /chat.
type ChatResponse struct {
	History    []model.Turn            `json:"history"`
	Params     *model.GenerationParams `json:"params,omitempty"`
	LatencySec *float64                `json:"latency_sec,omitempty"`
	Meta       model.ModelMeta         `json:"meta"`
}

// =============================================================================
// SESSIONS
// =============================================================================

// SessionsResponse is the body returned by GET /get_chats/{user_id}.
type SessionsResponse struct {
	Sessions Sessions `json:"sessions"`
}

// Session is one server-held conversation.
type Session struct {
	ID    string
	Turns []model.Turn
}

// Sessions is a JSON object of session id to turns that keeps the order the
// keys appear in on the wire.
type Sessions []Session

// UnmarshalJSON decodes the object, preserving key order.
func (s *Sessions) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sessions: expected object, got %v", tok)
	}

	out := Sessions{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("sessions: expected string key, got %v", keyTok)
		}
		var turns []model.Turn
		if err := dec.Decode(&turns); err != nil {
			return fmt.Errorf("sessions: decode %q: %w", key, err)
		}
		out = append(out, Session{ID: key, Turns: turns})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*s = out
	return nil
}

// MarshalJSON encodes the sessions as an object in slice order.
func (s Sessions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, sess := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(sess.ID)
		if err != nil {
			return nil, err
		}
		turns := sess.Turns
		if turns == nil {
			turns = []model.Turn{}
		}
		val, err := json.Marshal(turns)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// =============================================================================
// HEALTH
// =============================================================================

// HealthResponse is the body returned by GET /health on the dev server.
type HealthResponse struct {
	Status string `json:"status"`
	Model  string `json:"model,omitempty"`
}

// errorBody is the error shape returned by FastAPI-style backends.
type errorBody struct {
	Detail any    `json:"detail"`
	Error  string `json:"error"`
}

func (e errorBody) message() string {
	if e.Error != "" {
		return e.Error
	}
	switch d := e.Detail.(type) {
	case string:
		return d
	case nil:
		return ""
	default:
		b, _ := json.Marshal(d)
		return string(b)
	}
}
