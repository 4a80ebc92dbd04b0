// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides the visual building blocks of the chat TUI.

# Display

Header (header.go) - Title bar with model, preset and session.
StatusBar (header.go) - Conversation state and key hints.
MessageView (message.go) - User, assistant and error bubbles with stats lines.
Markdown (markdown.go) - Glamour rendering of assistant replies.
CodeBlock (codeblock.go) - Chroma highlighting for fenced code when markdown is off.
Welcome (welcome.go) - Placeholder for an empty conversation.
Spinner (spinner.go) - Pending-reply indicator.
Toaster (toast.go) - Self-dismissing one-line notices.

# Panels

Settings (settings.go) - Sliders for the four generation parameters and the preset selector.
History (history.go) - Stored sessions with fuzzy filtering.
CompletionPopup (completion.go) - Slash-command completions.

Panels own their key bindings and report user intent as tea.Msg values
(ParamsChangedMsg, LoadSessionMsg, NewChatRequestMsg); they never talk to
the backend.
*/
package components
