// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// errors.go - Structured CLI errors and exit codes.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/gaurav3000R/gemma-chat/internal/backend"
	"github.com/gaurav3000R/gemma-chat/internal/config"
)

// =============================================================================
// EXIT CODES
// =============================================================================

const (
	// ExitSuccess indicates successful execution
	ExitSuccess = 0
	// ExitGeneralError indicates a general/unknown error, including startup
	// failures such as an invalid config
	ExitGeneralError = 1
	// ExitUsageError indicates invalid command usage or arguments
	ExitUsageError = 2
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// UsageError reports a malformed command line.
type UsageError struct {
	Command string // Subcommand being parsed, empty for global flags
	Message string
}

func (e *UsageError) Error() string {
	if e.Command != "" {
		return fmt.Sprintf("%s: %s", e.Command, e.Message)
	}
	return e.Message
}

// CommandError represents a CLI command error with context.
type CommandError struct {
	Command string // Command that failed (e.g., "ask", "config")
	Action  string // Action being performed (e.g., "init", "fetch")
	Err     error
}

func (e *CommandError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s %s failed: %v", e.Command, e.Action, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// NewCommandError creates a new command error.
func NewCommandError(command, action string, err error) error {
	return &CommandError{Command: command, Action: action, Err: err}
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ue *UsageError
	if errors.As(err, &ue) {
		return ExitUsageError
	}
	return ExitGeneralError
}

// DisplayError prints err in a consistent format, with a usage hint for
// command-line mistakes and the validation list for config errors.
func DisplayError(w io.Writer, err error) {
	if err == nil {
		return
	}

	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("[ERROR]"), err.Error())

	var ue *UsageError
	switch {
	case errors.As(err, &ue):
		fmt.Fprintln(w, DimStyle.Render("Run 'gemmachat help' for usage."))
	case config.IsValidation(err):
		fmt.Fprintln(w, DimStyle.Render("Fix the config file or run 'gemmachat config path' to locate it."))
	case backend.IsNetwork(err):
		fmt.Fprintln(w, DimStyle.Render("Is the backend running? Start one with 'gemmachat serve-dev'."))
	}
}
