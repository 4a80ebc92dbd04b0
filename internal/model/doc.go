// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Message: one chat bubble, optionally annotated with response metadata
//   - Turn: the backend's {user, assistant} pair
//   - GenerationParams: temperature, max_new_tokens, top_p, repetition_penalty
//   - ModelMeta: model name, device and dtype reported by the backend
//
// # Usage
//
// Expand a server history and annotate the reply:
//
//	msgs := model.ExpandTurns(resp.History)
//	msgs = model.AnnotateLast(msgs, params, latency, resp.Meta)
package model
