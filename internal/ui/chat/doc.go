// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the chat screen of the TUI.

# Key Components

## Model (model.go)

Model wraps a conversation.Controller. It owns the input box, the
transcript viewport and the two side panels:
  - enter sends; the message is appended at once and the request runs in a
    tea.Cmd that returns a ReplyMsg
  - ctrl+s toggles the settings panel and ctrl+h the history panel
  - ctrl+n starts a new chat
  - lines starting with "/" run slash commands from the commands package

The viewport scrolls to the bottom whenever the transcript changes.

## View (view.go)

Header, [history] transcript [settings], toast line, input and status bar.
Below 60 columns the focused panel replaces the transcript.

## Program (program.go)

Run starts the alt-screen program and forwards config file changes as
ConfigReloadedMsg.
*/
package chat
