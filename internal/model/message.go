// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Gemma"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single bubble in a conversation.
// Messages are immutable once appended; the optional fields are only set on
// assistant messages annotated from a chat response.
type Message struct {
	Text   string `json:"text"`
	IsUser bool   `json:"is_user"`

	// Annotations (last assistant message of a successful round trip)
	Params  *GenerationParams `json:"params,omitempty"`
	Latency *time.Duration    `json:"latency_ns,omitempty"`
	Meta    *ModelMeta        `json:"meta,omitempty"`
}

// NewUserMessage creates a user-authored message.
func NewUserMessage(text string) Message {
	return Message{Text: text, IsUser: true}
}

// NewAssistantMessage creates an assistant-authored message.
func NewAssistantMessage(text string) Message {
	return Message{Text: text}
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Role returns the sender role of the message.
func (m Message) Role() Role {
	if m.IsUser {
		return RoleUser
	}
	return RoleAssistant
}

// IsAnnotated reports whether the message carries response metadata.
func (m Message) IsAnnotated() bool {
	return m.Params != nil || m.Latency != nil || m.Meta != nil
}

// Preview returns a truncated single-line preview of the message text.
// Uses rune-based truncation to handle Unicode correctly.
func (m Message) Preview(maxLen int) string {
	content := strings.Join(strings.Fields(m.Text), " ")
	runes := []rune(content)
	if maxLen <= 3 || len(runes) <= maxLen {
		if maxLen > 0 && len(runes) > maxLen {
			return string(runes[:maxLen])
		}
		return content
	}
	return string(runes[:maxLen-3]) + "..."
}

// FormatStats returns a formatted line of response statistics.
// Format: "1.42s · gemma-3-270m-it · cpu · float32 · T=0.70 top_p=0.90 max=512 rep=1.10"
func (m Message) FormatStats() string {
	if m.IsUser || !m.IsAnnotated() {
		return ""
	}

	var parts []string
	if m.Latency != nil {
		parts = append(parts, fmt.Sprintf("%.2fs", m.Latency.Seconds()))
	}
	if m.Meta != nil {
		for _, field := range []string{m.Meta.Model, m.Meta.Device, m.Meta.Dtype} {
			if field != "" {
				parts = append(parts, field)
			}
		}
	}
	if m.Params != nil {
		parts = append(parts, m.Params.String())
	}
	return strings.Join(parts, " · ")
}

// Clone returns a copy of the message whose annotation pointers are not shared.
func (m Message) Clone() Message {
	c := m
	if m.Params != nil {
		p := *m.Params
		c.Params = &p
	}
	if m.Latency != nil {
		l := *m.Latency
		c.Latency = &l
	}
	if m.Meta != nil {
		meta := *m.Meta
		c.Meta = &meta
	}
	return c
}

// CloneMessages deep-copies a message slice.
func CloneMessages(msgs []Message) []Message {
	if msgs == nil {
		return nil
	}
	out := make([]Message, len(msgs))
	for i, msg := range msgs {
		out[i] = msg.Clone()
	}
	return out
}
