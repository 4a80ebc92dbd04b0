// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/gaurav3000R/gemma-chat/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock is one fenced block from an assistant reply.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int

	// Style is a chroma style name. Empty uses monokai.
	Style string

	// LineNumbers prefixes each line with its number.
	LineNumbers bool
}

// NewCodeBlock creates a new code block.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		MaxWidth: 80,
	}
}

// Render highlights the code and frames it with a language badge.
func (c CodeBlock) Render(theme *styles.Theme) string {
	code := strings.TrimRight(c.Code, "\n")
	lines := strings.Split(highlightCode(code, c.Language, c.Style), "\n")

	if c.LineNumbers {
		num := lipgloss.NewStyle().Foreground(styles.TextMuted).Width(len(strconv.Itoa(len(lines)))+1).Align(lipgloss.Right).MarginRight(1)
		for i, line := range lines {
			lines[i] = num.Render(strconv.Itoa(i+1)) + line
		}
	}

	body := strings.Join(lines, "\n")
	if c.Language != "" {
		body = theme.CodeLangBadge.Render(c.Language) + "\n" + body
	}

	maxWidth := c.MaxWidth
	if maxWidth < 20 {
		maxWidth = 20
	}
	return theme.CodeBlock.MaxWidth(maxWidth).Render(body)
}

// =============================================================================
// FENCED BLOCK PARSER
// =============================================================================

// Segment is a run of prose or a fenced code block.
type Segment struct {
	IsCode   bool
	Language string
	Text     string
}

// SplitFences splits markdown text into prose and ``` fenced code segments.
// An unclosed fence runs to the end of the text.
func SplitFences(text string) []Segment {
	var segs []Segment
	var buf []string
	inCode := false
	lang := ""

	flush := func(isCode bool) {
		if len(buf) > 0 || isCode {
			segs = append(segs, Segment{IsCode: isCode, Language: lang, Text: strings.Join(buf, "\n")})
		}
		buf = nil
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			if inCode {
				flush(true)
				lang = ""
			} else {
				flush(false)
				lang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			}
			inCode = !inCode
			continue
		}
		buf = append(buf, line)
	}
	flush(inCode)
	return segs
}

// RenderCodeBlocks highlights fenced blocks with chroma and leaves prose
// as wrapped plain text.
func RenderCodeBlocks(text string, width int, theme *styles.Theme) string {
	var out []string
	for _, seg := range SplitFences(text) {
		if !seg.IsCode {
			out = append(out, wrap(seg.Text, width))
			continue
		}
		cb := NewCodeBlock(seg.Language, seg.Text)
		cb.MaxWidth = width
		cb.Style = theme.ChromaStyle()
		out = append(out, cb.Render(theme))
	}
	return strings.Join(out, "\n")
}

// =============================================================================
// SYNTAX HIGHLIGHTING
// =============================================================================

// highlightCode returns code with ANSI colors, or unchanged on failure.
func highlightCode(code, language, style string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	if style == "" {
		style = "monokai"
	}
	st := chromaStyles.Get(style)
	if st == nil {
		st = chromaStyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, st, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

// DetectLanguage guesses the language of a snippet, or "".
func DetectLanguage(code string) string {
	if lexer := lexers.Analyse(code); lexer != nil {
		return lexer.Config().Name
	}
	return ""
}
