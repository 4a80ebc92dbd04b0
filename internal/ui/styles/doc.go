// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the color palette and lipgloss styles for the TUI.
//
// Colors are lipgloss AdaptiveColor values. NewTheme resolves them for the
// requested mode: "dark" and "light" force a background, "auto" asks the
// terminal through termenv. The theme also names the matching glamour and
// chroma styles so rendered markdown and code agree with the chrome.
package styles
