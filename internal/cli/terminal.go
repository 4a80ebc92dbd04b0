// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection for choosing between the TUI and the
// line-mode REPL, and for sizing line-mode output.
package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

const (
	// DefaultTerminalWidth is used when stdout is not a terminal.
	DefaultTerminalWidth = 80

	// MinTerminalWidth keeps rendered replies readable in tiny panes.
	MinTerminalWidth = 40
)

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// IsTTY reports whether stdin is a terminal.
func IsTTY() bool { return isTerminal(os.Stdin) }

// IsStdoutTTY reports whether stdout is a terminal.
func IsStdoutTTY() bool { return isTerminal(os.Stdout) }

// Interactive reports whether the full-screen TUI can run. Piping either
// end falls back to the REPL.
func Interactive() bool {
	return IsTTY() && IsStdoutTTY()
}

// GetTerminalWidth returns the stdout width used to wrap replies.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return DefaultTerminalWidth
	}
	return max(width, MinTerminalWidth)
}

// colorsFromEnv decides colour output. NO_COLOR wins over FORCE_COLOR,
// which wins over TTY detection.
func colorsFromEnv(getenv func(string) string, tty bool) bool {
	switch {
	case getenv("NO_COLOR") != "":
		return false
	case getenv("FORCE_COLOR") != "":
		return true
	default:
		return tty
	}
}

var colorsEnabled = sync.OnceValue(func() bool {
	return colorsFromEnv(os.Getenv, IsStdoutTTY())
})

// ColorsEnabled reports whether line-mode output should be styled.
func ColorsEnabled() bool {
	return colorsEnabled()
}

// GetColorProfile returns Ascii when colours are off, else the profile
// termenv detects for stdout.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}
