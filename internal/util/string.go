// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Ellipsis is appended by the truncating helpers.
const Ellipsis = "..."

// TruncateRunes truncates s to at most maxRunes runes, ending in "..." when
// anything was cut.
func TruncateRunes(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= maxRunes {
		return s
	}
	if maxRunes <= len(Ellipsis) {
		return string(runes[:maxRunes])
	}
	return string(runes[:maxRunes-len(Ellipsis)]) + Ellipsis
}

// TruncateWidth truncates s to maxWidth terminal columns. Wide (CJK, emoji)
// characters count as two columns.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= len(Ellipsis) {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// StringWidth returns the display width of s in terminal columns.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// PadRight pads s with spaces to width columns. Longer strings are
// truncated.
func PadRight(s string, width int) string {
	s = TruncateWidth(s, width)
	return runewidth.FillRight(s, width)
}

// WrapWidth word-wraps s so no line exceeds width columns. Existing line
// breaks are kept and words wider than width are hard-split.
func WrapWidth(s string, width int) string {
	if width <= 0 {
		return s
	}

	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}

		line, lineWidth := "", 0
		for _, w := range words {
			for runewidth.StringWidth(w) > width {
				if line != "" {
					out = append(out, line)
					line, lineWidth = "", 0
				}
				head := runewidth.Truncate(w, width, "")
				if head == "" {
					head = string([]rune(w)[:1])
				}
				out = append(out, head)
				w = w[len(head):]
			}
			ww := runewidth.StringWidth(w)
			switch {
			case w == "":
			case line == "":
				line, lineWidth = w, ww
			case lineWidth+1+ww <= width:
				line += " " + w
				lineWidth += 1 + ww
			default:
				out = append(out, line)
				line, lineWidth = w, ww
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
