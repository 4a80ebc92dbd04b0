// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gaurav3000R/gemma-chat/internal/conversation"
	"github.com/gaurav3000R/gemma-chat/internal/model"
	"github.com/gaurav3000R/gemma-chat/internal/params"
	"github.com/gaurav3000R/gemma-chat/internal/session"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// These messages report what a handler did. The TUI and REPL render them.

// NewChatMsg reports the outcome of /new.
type NewChatMsg struct {
	SessionID string
	Err       error
}

// SessionLoadedMsg reports the outcome of /load.
type SessionLoadedMsg struct {
	ID  string
	Err error
}

// ToggleHistoryMsg asks the UI to toggle the history panel. Sessions is the
// list at the time of the request, for front ends without a panel.
type ToggleHistoryMsg struct {
	Sessions []session.Summary
}

// ToggleSettingsMsg asks the UI to toggle the settings panel.
type ToggleSettingsMsg struct{}

// ParamsMsg reports the current parameters after /preset, /set or /params.
type ParamsMsg struct {
	Params  model.GenerationParams
	Preset  string
	Changed bool
}

// String renders the parameters with the active preset label.
func (m ParamsMsg) String() string {
	return fmt.Sprintf("%s [%s]", m.Params, params.PresetLabel(m.Preset))
}

// ShowHelpMsg carries the rendered command list.
type ShowHelpMsg struct {
	Text string
}

// ErrorMsg reports a failed command.
type ErrorMsg struct {
	Err error
}

func msgCmd(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// =============================================================================
// CONVERSATION HANDLERS
// =============================================================================

func handleNew(ctx *Context, args []string) tea.Cmd {
	err := ctx.Controller.NewChat()
	if errors.Is(err, conversation.ErrBusy) {
		err = errors.New("wait for the current reply before starting a new chat")
	}
	return msgCmd(NewChatMsg{SessionID: ctx.Controller.SessionID(), Err: err})
}

func handleHistory(ctx *Context, args []string) tea.Cmd {
	return msgCmd(ToggleHistoryMsg{Sessions: ctx.Controller.Sessions().Summaries()})
}

func handleLoad(ctx *Context, args []string) tea.Cmd {
	id, ok := ctx.Controller.Sessions().Resolve(args[0])
	if !ok {
		return msgCmd(SessionLoadedMsg{ID: args[0], Err: fmt.Errorf("no unique session matches %q", args[0])})
	}
	err := ctx.Controller.LoadSession(id)
	if errors.Is(err, conversation.ErrBusy) {
		err = errors.New("wait for the current reply before switching chats")
	}
	return msgCmd(SessionLoadedMsg{ID: id, Err: err})
}

// =============================================================================
// PARAMETER HANDLERS
// =============================================================================

func handleSettings(ctx *Context, args []string) tea.Cmd {
	return msgCmd(ToggleSettingsMsg{})
}

func paramsMsg(panel *params.Panel, changed bool) ParamsMsg {
	return ParamsMsg{Params: panel.Params(), Preset: panel.ActivePreset(), Changed: changed}
}

func handlePreset(ctx *Context, args []string) tea.Cmd {
	panel := ctx.Controller.Params()
	if err := panel.ApplyPreset(strings.ToLower(args[0])); err != nil {
		return msgCmd(ErrorMsg{Err: err})
	}
	return msgCmd(paramsMsg(panel, true))
}

func handleSet(ctx *Context, args []string) tea.Cmd {
	field, err := params.ParseField(args[0])
	if err != nil {
		return msgCmd(ErrorMsg{Err: err})
	}
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return msgCmd(ErrorMsg{Err: fmt.Errorf("/set: %w", err)})
	}
	panel := ctx.Controller.Params()
	panel.Set(field, v)
	return msgCmd(paramsMsg(panel, true))
}

func handleParams(ctx *Context, args []string) tea.Cmd {
	return msgCmd(paramsMsg(ctx.Controller.Params(), false))
}

// =============================================================================
// NAVIGATION HANDLERS
// =============================================================================

func handleHelp(ctx *Context, args []string) tea.Cmd {
	return msgCmd(ShowHelpMsg{Text: ctx.Registry.HelpText()})
}

func handleQuit(ctx *Context, args []string) tea.Cmd {
	return tea.Quit
}
