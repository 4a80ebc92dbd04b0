// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// Palette. Each colour adapts to the terminal background; Theme picks which
// ones back each style.
var (
	Blue    = lipgloss.AdaptiveColor{Light: "#1A73E8", Dark: "#8AB4F8"} // brand, user turns, focus
	Violet  = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#C4B5FD"} // assistant, presets
	Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	Rose    = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}
	Amber   = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"} // warnings, "Custom"

	Surface     = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1F22"}
	SurfaceDim  = lipgloss.AdaptiveColor{Light: "#F1F3F4", Dark: "#17181B"} // header, footer, panels
	Overlay     = lipgloss.AdaptiveColor{Light: "#DADCE0", Dark: "#3C4043"} // borders, slider track
	SelectionBg = lipgloss.AdaptiveColor{Light: "#D2E3FC", Dark: "#283A5B"}

	TextPrimary   = lipgloss.AdaptiveColor{Light: "#202124", Dark: "#E8EAED"}
	TextSecondary = lipgloss.AdaptiveColor{Light: "#5F6368", Dark: "#BDC1C6"}
	TextMuted     = lipgloss.AdaptiveColor{Light: "#9AA0A6", Dark: "#80868B"}

	UserBubbleBg    = lipgloss.AdaptiveColor{Light: "#E8F0FE", Dark: "#1F3A68"}
	UserBubbleFg    = lipgloss.AdaptiveColor{Light: "#174EA6", Dark: "#E8F0FE"}
	AssistantBorder = lipgloss.AdaptiveColor{Light: "#C4B5FD", Dark: "#5B4B8A"}
	ErrorBubbleBg   = lipgloss.AdaptiveColor{Light: "#FCE8E6", Dark: "#4A1C1C"}
	ErrorBubbleFg   = lipgloss.AdaptiveColor{Light: "#A50E0E", Dark: "#F6AEA9"}
)

// StatusIndicators prefix coloured status text so it still reads without
// colour.
var StatusIndicators = struct {
	Success, Error, Warning, Pending string
}{"[OK]", "[X]", "[!]", "[ ]"}

func statusLine(c lipgloss.TerminalColor, marker, message string) string {
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render(marker + " " + message)
}

func RenderSuccess(message string) string {
	return statusLine(Emerald, StatusIndicators.Success, message)
}

func RenderError(message string) string {
	return statusLine(Rose, StatusIndicators.Error, message)
}

func RenderWarning(message string) string {
	return statusLine(Amber, StatusIndicators.Warning, message)
}

// RenderStatus is RenderSuccess when ok, else RenderError.
func RenderStatus(ok bool, message string) string {
	if ok {
		return RenderSuccess(message)
	}
	return RenderError(message)
}
