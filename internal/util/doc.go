// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across packages.
//
// # Key Functions
//
// String Utilities (display-width aware, via go-runewidth):
//   - TruncateRunes, TruncateWidth: Truncation with ellipsis
//   - StringWidth, PadRight, WrapWidth: Column layout for the TUI
//
// File Operations:
//   - AtomicWriteFile: Crash-safe file writing with fsync
//
// # Usage
//
//	title := util.TruncateWidth(summary.Title, 30)
//	err := util.AtomicWriteFile(path, data, 0o600)
package util
