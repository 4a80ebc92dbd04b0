// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/gaurav3000R/gemma-chat/internal/ui/styles"
	"github.com/gaurav3000R/gemma-chat/internal/util"
)

// Markdown renders assistant replies. With markdown enabled it uses
// glamour; otherwise prose is wrapped and fenced code is highlighted with
// chroma. Glamour renderers are cached per width.
type Markdown struct {
	enabled bool
	theme   *styles.Theme
	cache   map[int]*glamour.TermRenderer
}

// NewMarkdown creates a renderer for theme.
func NewMarkdown(theme *styles.Theme, enabled bool) *Markdown {
	return &Markdown{
		enabled: enabled,
		theme:   theme,
		cache:   make(map[int]*glamour.TermRenderer),
	}
}

// Enabled reports whether glamour rendering is on.
func (m *Markdown) Enabled() bool {
	return m.enabled
}

// SetEnabled toggles glamour rendering.
func (m *Markdown) SetEnabled(enabled bool) {
	m.enabled = enabled
}

// SetTheme switches styles and drops cached renderers.
func (m *Markdown) SetTheme(theme *styles.Theme) {
	m.theme = theme
	m.cache = make(map[int]*glamour.TermRenderer)
}

// Render formats text to fit width columns.
func (m *Markdown) Render(text string, width int) string {
	if width < 20 {
		width = 20
	}
	if !m.enabled {
		return RenderCodeBlocks(text, width, m.theme)
	}

	r, err := m.renderer(width)
	if err != nil {
		return RenderCodeBlocks(text, width, m.theme)
	}
	out, err := r.Render(text)
	if err != nil {
		return RenderCodeBlocks(text, width, m.theme)
	}
	return strings.Trim(out, "\n")
}

func (m *Markdown) renderer(width int) (*glamour.TermRenderer, error) {
	if r, ok := m.cache[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.theme.GlamourStyle()),
		glamour.WithWordWrap(width),
		glamour.WithColorProfile(m.theme.ColorProfile),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}
	m.cache[width] = r
	return r, nil
}

// RenderMarkdown renders text once with glamour's automatic style, for
// one-shot CLI output.
func RenderMarkdown(text string, width int) string {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(width))
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

func wrap(text string, width int) string {
	return util.WrapWidth(text, width)
}
