// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// info.go - sessions, presets and whoami commands.
package cli

import (
	"context"
	"fmt"
	"io"
)

// HandleSessions fetches and lists this identity's sessions.
func HandleSessions(ctx context.Context, app *App, out io.Writer) error {
	store := app.Controller.Sessions()
	_ = store.Fetch(ctx, app.Client, app.UserID)
	if err := store.LastError(); err != nil {
		return NewCommandError("sessions", "fetch", err)
	}

	fmt.Fprintln(out, TitleStyle.Render(fmt.Sprintf("Sessions (%d)", store.Len())))
	printSessions(out, store.Summaries(), "")
	return nil
}

// HandlePresets lists the parameter presets.
func HandlePresets(out io.Writer) {
	fmt.Fprintln(out, TitleStyle.Render("Presets"))
	printPresets(out)
}

// HandleWhoami prints the local identity.
func HandleWhoami(app *App, out io.Writer) {
	fmt.Fprintln(out, app.UserID)
}
