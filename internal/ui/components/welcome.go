// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gaurav3000R/gemma-chat/internal/ui/styles"
)

// WelcomeTitle is the placeholder shown for an empty conversation.
const WelcomeTitle = "How can I help you today?"

// Welcome is the empty-transcript placeholder.
type Welcome struct {
	theme     *styles.Theme
	modelName string
	width     int
	height    int
}

// NewWelcome creates a welcome placeholder.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{theme: theme}
}

// SetModelName shows the backend model under the title. Empty hides it.
func (w *Welcome) SetModelName(name string) {
	w.modelName = name
}

// SetSize sets the area the placeholder is centered in.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// View renders the placeholder centered in its area.
func (w Welcome) View() string {
	lines := []string{w.theme.Welcome.Render(WelcomeTitle)}
	if w.modelName != "" {
		lines = append(lines, w.theme.WelcomeHint.Render(w.modelName))
	}
	lines = append(lines, "",
		w.theme.WelcomeHint.Render("Enter to send  ctrl+s settings  ctrl+h history  /help commands"),
	)
	block := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if w.width <= 0 || w.height <= 0 {
		return block
	}
	return lipgloss.Place(w.width, w.height, lipgloss.Center, lipgloss.Center, block)
}
