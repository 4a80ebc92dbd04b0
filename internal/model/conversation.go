// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "time"

// =============================================================================
// TURNS
// =============================================================================

// Turn is the backend's pairing of one user utterance and one assistant reply.
type Turn struct {
	User      string `json:"user"`
	Assistant string `json:"assistant"`
}

// ExpandTurns converts backend turns into display messages.
// Each turn becomes a user message followed by an assistant message.
func ExpandTurns(turns []Turn) []Message {
	msgs := make([]Message, 0, len(turns)*2)
	for _, t := range turns {
		msgs = append(msgs, NewUserMessage(t.User), NewAssistantMessage(t.Assistant))
	}
	return msgs
}

// AnnotateLast attaches request parameters, latency and model metadata to the
// final assistant message. The slice is modified in place and returned.
// If the last message is not an assistant message nothing is annotated.
func AnnotateLast(msgs []Message, params GenerationParams, latency time.Duration, meta ModelMeta) []Message {
	if len(msgs) == 0 {
		return msgs
	}
	last := &msgs[len(msgs)-1]
	if last.IsUser {
		return msgs
	}
	last.Params = &params
	last.Latency = &latency
	last.Meta = &meta
	return msgs
}

// FirstUserText returns the text of the first user message, or "".
func FirstUserText(msgs []Message) string {
	for _, m := range msgs {
		if m.IsUser && m.Text != "" {
			return m.Text
		}
	}
	return ""
}
