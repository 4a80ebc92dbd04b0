// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/gaurav3000R/gemma-chat/internal/config"
	"github.com/gaurav3000R/gemma-chat/internal/model"
	"github.com/gaurav3000R/gemma-chat/internal/params"
	"github.com/gaurav3000R/gemma-chat/internal/session"
	"github.com/gaurav3000R/gemma-chat/internal/ui/components"
	"github.com/gaurav3000R/gemma-chat/internal/util"
)

// renderReply formats an assistant message for line-mode output.
func renderReply(msg model.Message, ui config.UIConfig, width int) string {
	var b strings.Builder

	switch {
	case components.IsErrorMessage(msg):
		b.WriteString(ErrorStyle.Render(msg.Text))
	case ui.Markdown:
		b.WriteString(strings.Trim(components.RenderMarkdown(msg.Text, width), "\n"))
	default:
		b.WriteString(util.WrapWidth(msg.Text, width))
	}

	if ui.ShowStats {
		if stats := msg.FormatStats(); stats != "" {
			b.WriteString("\n")
			b.WriteString(DimStyle.Render(stats))
		}
	}
	return b.String()
}

// lastReply returns the final assistant message, if the transcript ends
// with one.
func lastReply(msgs []model.Message) (model.Message, bool) {
	if len(msgs) == 0 || msgs[len(msgs)-1].IsUser {
		return model.Message{}, false
	}
	return msgs[len(msgs)-1], true
}

// printSessions lists session summaries, marking the active one.
func printSessions(w io.Writer, sums []session.Summary, activeID string) {
	if len(sums) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No conversations yet."))
		return
	}
	for _, s := range sums {
		marker := "  "
		if s.ID == activeID {
			marker = SuccessStyle.Render("• ")
		}
		fmt.Fprintf(w, "%s%s  %s %s\n",
			marker,
			DimStyle.Render(util.TruncateRunes(s.ID, 8)),
			util.TruncateWidth(s.Title, 50),
			DimStyle.Render(fmt.Sprintf("(%d messages)", s.MessageCount)))
	}
}

// printParams shows every slider value and the active preset.
func printParams(w io.Writer, panel *params.Panel) {
	for _, f := range params.Fields() {
		printField(w, f.Label(), f.Format(panel.Value(f)))
	}
	printField(w, "Preset", params.PresetLabel(panel.ActivePreset()))
}

// printPresets lists the parameter presets in order.
func printPresets(w io.Writer) {
	for _, p := range params.Presets() {
		fmt.Fprintf(w, "  %s %s\n", SuccessStyle.Render(p.Key), DimStyle.Render("("+p.Label+")"))
		fmt.Fprintf(w, "      %s\n", p.Description)
		fmt.Fprintf(w, "      %s\n", DimStyle.Render(p.Params.String()))
	}
}
