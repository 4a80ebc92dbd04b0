// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gaurav3000R/gemma-chat/internal/commands"
	"github.com/gaurav3000R/gemma-chat/internal/ui/styles"
	"github.com/gaurav3000R/gemma-chat/internal/util"
)

// =============================================================================
// COMPLETION POPUP
// =============================================================================

// CompletionPopup lists slash-command completions above the input.
type CompletionPopup struct {
	MaxVisible int
	Width      int
	theme      *styles.Theme
}

// NewCompletionPopup creates a popup showing up to 6 rows.
func NewCompletionPopup(theme *styles.Theme) *CompletionPopup {
	return &CompletionPopup{MaxVisible: 6, Width: 50, theme: theme}
}

// View renders state, or "" when it has no completions.
func (c *CompletionPopup) View(state commands.CompletionState) string {
	if !state.Active() {
		return ""
	}
	t := c.theme
	inner := c.Width - 2
	if inner < 10 {
		inner = 10
	}

	start := 0
	if state.Selected >= c.MaxVisible {
		start = state.Selected - c.MaxVisible + 1
	}
	end := min(len(state.Completions), start+c.MaxVisible)

	nameWidth := 0
	for _, comp := range state.Completions[start:end] {
		nameWidth = max(nameWidth, lastWord(comp.Value))
	}

	var rows []string
	for i := start; i < end; i++ {
		comp := state.Completions[i]
		name := comp.Value
		if idx := strings.LastIndex(name, " "); idx >= 0 {
			name = name[idx+1:]
		}
		row := util.PadRight(name, nameWidth+2) + comp.Description
		row = util.PadRight(row, inner)
		if i == state.Selected {
			rows = append(rows, t.ListSelected.Render(row))
		} else {
			rows = append(rows, t.ListItem.Render(row))
		}
	}
	if len(state.Completions) > end-start {
		rows = append(rows, t.PanelHint.Render(util.PadRight("tab for more", inner)))
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Render(strings.Join(rows, "\n"))
}

func lastWord(s string) int {
	if idx := strings.LastIndex(s, " "); idx >= 0 {
		s = s[idx+1:]
	}
	return util.StringWidth(s)
}
