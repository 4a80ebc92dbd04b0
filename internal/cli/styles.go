// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Shared styling for line-mode commands.
package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles render as plain text when stdout is piped or NO_COLOR is set.
func init() {
	lipgloss.SetColorProfile(GetColorProfile())
}

// =============================================================================
// SHARED STYLES
// =============================================================================

var (
	// TitleStyle heads each command's output.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).MarginBottom(1)

	// LabelStyle pads field names so values line up.
	LabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(20)

	ValueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

	// DimStyle carries stats lines, hints and ids.
	DimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))

	// PromptStyle marks user turns when a transcript is replayed.
	PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
)

// RenderStatus colours a probe outcome.
func RenderStatus(status string) string {
	switch strings.ToLower(status) {
	case "ok", "reachable":
		return SuccessStyle.Render(status)
	case "fail", "error", "unreachable":
		return ErrorStyle.Render(status)
	default:
		return WarningStyle.Render(status)
	}
}

// printField prints an aligned "label  value" line.
func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", LabelStyle.Render(label), ValueStyle.Render(value))
}
