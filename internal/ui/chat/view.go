// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gaurav3000R/gemma-chat/internal/conversation"
	"github.com/gaurav3000R/gemma-chat/internal/ui/components"
	"github.com/gaurav3000R/gemma-chat/internal/ui/styles"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// View renders the screen: header, panels around the transcript, toast
// line, input box and status bar.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.renderHeader()
	middle := m.renderMiddle()
	toast := lipgloss.NewStyle().Width(m.width).Render(m.toaster.View(m.theme, m.width))
	input := m.renderInput()
	status := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, header, middle, toast, input, status)
}

func (m Model) renderHeader() string {
	m.header.ModelName = m.modelName
	m.header.Preset = m.presetLabel()
	m.header.SessionID = m.controller.SessionID()
	return m.header.View()
}

// renderMiddle lays out [history] transcript [settings]. In the narrow
// layout the focused panel replaces the transcript.
func (m Model) renderMiddle() string {
	h := m.viewport.Height
	fit := lipgloss.NewStyle().Height(h).MaxHeight(h)

	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		switch m.focus {
		case FocusSettings:
			return fit.Render(m.settings.View())
		case FocusHistory:
			return fit.Render(m.history.View())
		}
		return fit.Render(m.renderTranscript())
	}

	var cols []string
	if m.showHistory {
		cols = append(cols, fit.Render(m.history.View()))
	}
	cols = append(cols, fit.Width(m.viewport.Width).Render(m.renderTranscript()))
	if m.showSettings {
		cols = append(cols, fit.Render(m.settings.View()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cols...)
}

// renderTranscript shows the welcome placeholder for an empty idle
// conversation, otherwise the viewport. An open completion popup covers
// the bottom of the transcript.
func (m Model) renderTranscript() string {
	var body string
	if m.transcript == "" && !m.spinner.Active() {
		body = m.welcome.View()
	} else {
		body = m.viewport.View()
	}

	popup := m.popup.View(m.completion)
	if popup == "" {
		return body
	}
	lines := strings.Split(body, "\n")
	keep := max(len(lines)-lipgloss.Height(popup), 0)
	return strings.Join(append(lines[:keep], popup), "\n")
}

func (m Model) renderInput() string {
	style := m.theme.InputContainer
	if m.controller.IsLoading() || m.focus != FocusInput {
		style = m.theme.InputDisabled
	}
	return style.Width(m.chatWidth() - style.GetHorizontalBorderSize()).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	switch m.controller.State() {
	case conversation.StateSending:
		m.statusBar.State = components.StatusSending
	case conversation.StateIdleWithError:
		m.statusBar.State = components.StatusError
	default:
		m.statusBar.State = components.StatusReady
	}
	m.statusBar.Hints = m.help.ShortHelpView(m.keys.ShortHelp())
	return m.statusBar.View()
}
