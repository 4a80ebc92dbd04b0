// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system shared by the TUI and
// the line REPL.
//
// # Key Types
//
//   - Registry: Command registry with all available commands
//   - Parser / ParseResult: Quote-aware parsing of "/name args..."
//   - Context: What handlers operate on (the conversation controller)
//   - Completer: Tab completion for command names and arguments
//
// # Built-in Commands
//
//   - /new: Start a new chat
//   - /history, /settings: Toggle the side panels
//   - /load <id-prefix>: Load a session
//   - /preset <key>, /set <field> <value>, /params: Generation parameters
//   - /help, /quit
//
// # Usage
//
// Handlers mutate controller state synchronously, on the caller's goroutine,
// and return a tea.Cmd that reports what happened:
//
//	if cmd, ok := registry.Execute(ctx, input); ok {
//	    return m, cmd
//	}
package commands
