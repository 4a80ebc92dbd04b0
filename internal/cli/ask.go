// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command.
//
// Examples:
//
//	gemmachat ask "What is a haiku?"
//	gemmachat ask --preset creative_writing "Write a haiku about rain"
//	gemmachat --no-markdown ask "Explain TCP"
package cli

import (
	"context"
	"fmt"
	"io"
)

// HandleAsk submits args.Query in a fresh session and prints the reply.
// A failed request prints the error reply and returns the cause.
func HandleAsk(ctx context.Context, app *App, args Args, out io.Writer) error {
	if args.Query == "" {
		return &UsageError{Command: "ask", Message: "missing question"}
	}

	if args.Preset != "" {
		if err := app.Controller.Params().ApplyPreset(args.Preset); err != nil {
			return &UsageError{Command: "ask", Message: err.Error()}
		}
	}

	err := app.Controller.Submit(ctx, args.Query)
	if msg, ok := lastReply(app.Controller.Messages()); ok {
		fmt.Fprintln(out, renderReply(msg, app.Config.UI, GetTerminalWidth()))
	}
	if err != nil {
		return NewCommandError("ask", "", err)
	}
	return nil
}
