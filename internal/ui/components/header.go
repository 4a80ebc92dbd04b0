// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/gaurav3000R/gemma-chat/internal/ui/styles"
	"github.com/gaurav3000R/gemma-chat/internal/util"
)

// =============================================================================
// HEADER
// =============================================================================

// Header is the one-line title bar: app name on the left, model, preset
// and session on the right.
type Header struct {
	Title     string
	ModelName string
	Preset    string
	SessionID string
	Width     int
	theme     *styles.Theme
}

// NewHeader creates a header with the default title.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		Title: "Gemma Chat",
		Width: 80,
		theme: theme,
	}
}

// SetWidth updates the header width.
func (h *Header) SetWidth(width int) {
	h.Width = width
}

// View renders the header.
func (h *Header) View() string {
	t := h.theme
	width := h.Width
	if width < 20 {
		width = 20
	}
	inner := width - t.Header.GetHorizontalFrameSize()

	title := t.HeaderTitle.Render(h.Title)

	var meta []string
	if h.ModelName != "" {
		meta = append(meta, h.ModelName)
	}
	if h.Preset != "" {
		meta = append(meta, h.Preset)
	}
	if h.SessionID != "" {
		meta = append(meta, "session "+util.TruncateRunes(h.SessionID, 8))
	}
	right := ""
	if len(meta) > 0 {
		room := inner - lipgloss.Width(title) - 1
		right = t.HeaderMeta.Render(util.TruncateWidth(strings.Join(meta, " · "), room))
	}

	gap := inner - lipgloss.Width(title) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return t.Header.Width(width).Render(title + strings.Repeat(" ", gap) + right)
}

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusState is the conversation state shown in the status bar.
type StatusState int

const (
	StatusReady StatusState = iota
	StatusSending
	StatusError
)

// StatusBar is the bottom line: state on the left, key hints on the right.
type StatusBar struct {
	State StatusState
	Hints string
	Width int
	theme *styles.Theme
}

// NewStatusBar creates a status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{Width: 80, theme: theme}
}

// View renders the status bar.
func (s *StatusBar) View() string {
	var state string
	switch s.State {
	case StatusSending:
		state = styles.RenderWarning("sending")
	case StatusError:
		state = styles.RenderError("last request failed")
	default:
		state = styles.RenderSuccess("ready")
	}

	inner := s.Width - s.theme.StatusBar.GetHorizontalFrameSize()
	hints := ansi.Truncate(s.Hints, max(inner-lipgloss.Width(state)-2, 0), util.Ellipsis)
	gap := inner - lipgloss.Width(state) - lipgloss.Width(hints)
	if gap < 1 {
		gap = 1
	}
	return s.theme.StatusBar.Render(state + strings.Repeat(" ", gap) + hints)
}
