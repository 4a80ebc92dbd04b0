// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gaurav3000R/gemma-chat/internal/conversation"
	"github.com/gaurav3000R/gemma-chat/internal/model"
	"github.com/gaurav3000R/gemma-chat/internal/ui/styles"
	"github.com/gaurav3000R/gemma-chat/internal/util"
)

// =============================================================================
// MESSAGE VIEW
// =============================================================================

// MessageView renders transcript messages as bubbles. User messages are
// right aligned, assistant replies left aligned with markdown, and the
// failure placeholder gets the error style.
type MessageView struct {
	Theme     *styles.Theme
	Markdown  *Markdown
	ShowStats bool
}

// NewMessageView creates a message renderer.
func NewMessageView(theme *styles.Theme, md *Markdown, showStats bool) *MessageView {
	return &MessageView{Theme: theme, Markdown: md, ShowStats: showStats}
}

// bubbleWidth is the widest a bubble may be in a transcript of width cols.
func bubbleWidth(width int) int {
	w := width * 4 / 5
	if w < 20 {
		w = width
	}
	if w < 10 {
		w = 10
	}
	return w
}

// IsErrorMessage reports whether msg is the failure placeholder.
func IsErrorMessage(msg model.Message) bool {
	return !msg.IsUser && msg.Text == conversation.ErrorText
}

// Render draws one message for a transcript width columns wide.
func (v *MessageView) Render(msg model.Message, width int) string {
	switch {
	case msg.IsUser:
		return v.renderUser(msg, width)
	case IsErrorMessage(msg):
		return v.renderError(msg, width)
	default:
		return v.renderAssistant(msg, width)
	}
}

// RenderAll draws a transcript with a blank line between messages.
func (v *MessageView) RenderAll(msgs []model.Message, width int) string {
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		parts = append(parts, v.Render(m, width))
	}
	return strings.Join(parts, "\n\n")
}

func (v *MessageView) renderUser(msg model.Message, width int) string {
	t := v.Theme
	inner := bubbleWidth(width) - t.UserBubble.GetHorizontalFrameSize()
	body := t.UserBubble.Render(util.WrapWidth(msg.Text, inner))
	label := t.RoleLabel.Render(msg.Role().DisplayName())

	block := lipgloss.JoinVertical(lipgloss.Right, label, body)
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, block)
}

func (v *MessageView) renderAssistant(msg model.Message, width int) string {
	t := v.Theme
	inner := bubbleWidth(width) - t.AssistantBubble.GetHorizontalFrameSize()

	var text string
	if v.Markdown != nil {
		text = v.Markdown.Render(msg.Text, inner)
	} else {
		text = util.WrapWidth(msg.Text, inner)
	}

	lines := []string{
		t.RoleLabel.Render(msg.Role().DisplayName()),
		t.AssistantBubble.Render(text),
	}
	if v.ShowStats && msg.IsAnnotated() {
		lines = append(lines, t.Stats.Render(util.TruncateWidth(msg.FormatStats(), width-1)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *MessageView) renderError(msg model.Message, width int) string {
	t := v.Theme
	inner := bubbleWidth(width) - t.ErrorBubble.GetHorizontalFrameSize()
	marker := styles.StatusIndicators.Error + " "
	return lipgloss.JoinVertical(lipgloss.Left,
		t.RoleLabel.Render(msg.Role().DisplayName()),
		t.ErrorBubble.Render(util.WrapWidth(marker+msg.Text, inner)),
	)
}
