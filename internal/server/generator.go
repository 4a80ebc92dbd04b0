// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/gaurav3000R/gemma-chat/internal/model"
)

// Generator produces the assistant reply for one turn. history holds the
// session's earlier turns, oldest first.
type Generator interface {
	Generate(ctx context.Context, history []model.Turn, message string, params model.GenerationParams) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, history []model.Turn, message string, params model.GenerationParams) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, history []model.Turn, message string, params model.GenerationParams) (string, error) {
	return f(ctx, history, message, params)
}

// EchoGenerator replies deterministically by echoing the message and the
// parameters it was sent with. The echo is cut to MaxNewTokens words.
type EchoGenerator struct{}

// Generate implements Generator.
func (EchoGenerator) Generate(ctx context.Context, history []model.Turn, message string, params model.GenerationParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	words := strings.Fields(message)
	if params.MaxNewTokens > 0 && len(words) > params.MaxNewTokens {
		words = words[:params.MaxNewTokens]
	}

	return fmt.Sprintf("You said: %s\n\n_turn %d, %s_", strings.Join(words, " "), len(history)+1, params), nil
}
