// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gaurav3000R/gemma-chat/internal/config"
	"github.com/gaurav3000R/gemma-chat/internal/conversation"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// ReplyMsg carries a finished chat request back to the UI loop, where it
// is applied with Controller.Finish.
type ReplyMsg struct {
	Result conversation.Result
}

// SessionsFetchedMsg reports that the startup session fetch completed.
type SessionsFetchedMsg struct {
	Err error
}

// ConfigReloadedMsg delivers a config file change. Only UI preferences are
// applied live.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// =============================================================================
// COMMANDS
// =============================================================================

// executeCmd runs a pending request off the UI loop.
func executeCmd(ctx context.Context, c *conversation.Controller, p *conversation.Pending) tea.Cmd {
	return func() tea.Msg {
		return ReplyMsg{Result: c.Execute(ctx, p)}
	}
}

// fetchSessionsCmd loads the user's sessions. The session store is safe
// for concurrent use, so this may run beside the UI loop.
func fetchSessionsCmd(ctx context.Context, c *conversation.Controller) tea.Cmd {
	return func() tea.Msg {
		c.Init(ctx)
		return SessionsFetchedMsg{Err: c.Sessions().LastError()}
	}
}
