// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gaurav3000R/gemma-chat/internal/session"
	"github.com/gaurav3000R/gemma-chat/internal/ui/styles"
	"github.com/gaurav3000R/gemma-chat/internal/util"
)

// =============================================================================
// HISTORY PANEL
// =============================================================================

// LoadSessionMsg asks the chat to switch to a stored session.
type LoadSessionMsg struct {
	ID string
}

// NewChatRequestMsg asks the chat to start a fresh session.
type NewChatRequestMsg struct{}

// HistoryKeys are the bindings active while the history panel has focus.
type HistoryKeys struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	New    key.Binding
	Clear  key.Binding
}

// DefaultHistoryKeys returns the history bindings.
func DefaultHistoryKeys() HistoryKeys {
	return HistoryKeys{
		Up:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "prev")),
		Down:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "next")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		New:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "new chat")),
		Clear:  key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "edit filter")),
	}
}

// History lists stored sessions, newest last, with a type-to-filter query.
type History struct {
	theme    *styles.Theme
	keys     HistoryKeys
	items    []session.Summary
	visible  []int
	cursor   int
	filter   string
	activeID string
	width    int
	height   int
}

// NewHistory creates an empty history panel.
func NewHistory(theme *styles.Theme) History {
	return History{theme: theme, keys: DefaultHistoryKeys(), width: 36}
}

// SetSize sets the panel dimensions.
func (h *History) SetSize(width, height int) {
	h.width = width
	h.height = height
}

// SetItems replaces the listed sessions and marks activeID.
func (h *History) SetItems(items []session.Summary, activeID string) {
	h.items = items
	h.activeID = activeID
	h.refilter()
	for i, idx := range h.visible {
		if items[idx].ID == activeID {
			h.cursor = i
		}
	}
}

// Filter returns the current query.
func (h History) Filter() string {
	return h.filter
}

// Visible returns the sessions that match the filter, in display order.
func (h History) Visible() []session.Summary {
	out := make([]session.Summary, len(h.visible))
	for i, idx := range h.visible {
		out[i] = h.items[idx]
	}
	return out
}

// Selected returns the session under the cursor.
func (h History) Selected() (session.Summary, bool) {
	if h.cursor < 0 || h.cursor >= len(h.visible) {
		return session.Summary{}, false
	}
	return h.items[h.visible[h.cursor]], true
}

func (h *History) refilter() {
	labels := make([]string, len(h.items))
	for i, it := range h.items {
		labels[i] = it.Title + " " + it.ID
	}
	h.visible = FuzzyRank(h.filter, labels)
	if h.cursor >= len(h.visible) {
		h.cursor = len(h.visible) - 1
	}
	if h.cursor < 0 {
		h.cursor = 0
	}
}

// Update handles keys while the panel has focus.
func (h History) Update(msg tea.Msg) (History, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return h, nil
	}

	switch {
	case key.Matches(km, h.keys.Up):
		if h.cursor > 0 {
			h.cursor--
		}
	case key.Matches(km, h.keys.Down):
		if h.cursor < len(h.visible)-1 {
			h.cursor++
		}
	case key.Matches(km, h.keys.Select):
		if sel, ok := h.Selected(); ok {
			id := sel.ID
			return h, func() tea.Msg { return LoadSessionMsg{ID: id} }
		}
	case key.Matches(km, h.keys.New):
		return h, func() tea.Msg { return NewChatRequestMsg{} }
	case key.Matches(km, h.keys.Clear):
		if r := []rune(h.filter); len(r) > 0 {
			h.filter = string(r[:len(r)-1])
			h.refilter()
		}
	case km.Type == tea.KeyRunes:
		h.filter += string(km.Runes)
		h.cursor = 0
		h.refilter()
	}
	return h, nil
}

// View renders the panel.
func (h History) View() string {
	t := h.theme
	inner := h.width - t.Panel.GetHorizontalFrameSize()
	if inner < 16 {
		inner = 16
	}

	lines := []string{t.PanelTitle.Render(fmt.Sprintf("History (%d)", len(h.items)))}
	if h.filter != "" {
		lines = append(lines, t.PanelHint.Render("filter: "+h.filter))
	}

	if len(h.visible) == 0 {
		msg := "No conversations yet"
		if h.filter != "" {
			msg = "No matches"
		}
		lines = append(lines, t.PanelHint.Render(msg))
	}

	// Two lines per row plus title and hint.
	rows := len(h.visible)
	if h.height > 0 {
		rows = min(rows, max(1, (h.height-6)/2))
	}
	start := 0
	if h.cursor >= rows {
		start = h.cursor - rows + 1
	}

	for i := start; i < start+rows && i < len(h.visible); i++ {
		it := h.items[h.visible[i]]
		title := it.Title
		if title == "" {
			title = "(empty)"
		}
		marker := "  "
		if it.ID == h.activeID {
			marker = "• "
		}
		head := util.PadRight(util.TruncateWidth(marker+title, inner), inner)
		sub := util.TruncateWidth(fmt.Sprintf("  %s · %d messages", util.TruncateRunes(it.ID, 8), it.MessageCount), inner)
		if i == h.cursor {
			lines = append(lines, t.ListSelected.Render(head), t.PanelHint.Render(sub))
		} else {
			lines = append(lines, t.ListItem.Render(head), t.PanelHint.Render(sub))
		}
	}

	lines = append(lines, "", t.PanelHint.Render(util.WrapWidth("type to filter  enter open  ctrl+o new  esc close", inner)))
	return t.Panel.Width(h.width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
