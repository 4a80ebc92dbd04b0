// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme modes accepted by NewTheme.
const (
	ModeAuto  = "auto"
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Mode is the requested mode; IsDark is what it resolved to.
	Mode         string
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// ==========================================================================
	// HEADER AND STATUS
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style
	StatusBar   lipgloss.Style
	StatusKey   lipgloss.Style
	StatusDesc  lipgloss.Style
	Notice      lipgloss.Style
	NoticeError lipgloss.Style

	// ==========================================================================
	// MESSAGES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	RoleLabel       lipgloss.Style
	Stats           lipgloss.Style

	// ==========================================================================
	// WELCOME AND LOADING
	// ==========================================================================

	Welcome     lipgloss.Style
	WelcomeHint lipgloss.Style
	Spinner     lipgloss.Style
	LoadingText lipgloss.Style

	// ==========================================================================
	// INPUT
	// ==========================================================================

	InputContainer lipgloss.Style
	InputDisabled  lipgloss.Style

	// ==========================================================================
	// SIDE PANELS
	// ==========================================================================

	Panel         lipgloss.Style
	PanelTitle    lipgloss.Style
	PanelHint     lipgloss.Style
	ListItem      lipgloss.Style
	ListSelected  lipgloss.Style
	SliderLabel   lipgloss.Style
	SliderFill    lipgloss.Style
	SliderTrack   lipgloss.Style
	SliderValue   lipgloss.Style
	PresetActive  lipgloss.Style
	PresetCustom  lipgloss.Style
	PresetPreview lipgloss.Style

	// ==========================================================================
	// CODE
	// ==========================================================================

	CodeBlock     lipgloss.Style
	CodeLangBadge lipgloss.Style
}

// NewTheme creates a theme. mode is auto, dark or light; auto asks the
// terminal for its background color.
func NewTheme(mode string) *Theme {
	mode = strings.ToLower(strings.TrimSpace(mode))
	var isDark bool
	switch mode {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	default:
		mode = ModeAuto
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		Mode:         mode,
		IsDark:       isDark,
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

// GlamourStyle names the glamour standard style matching the background.
func (t *Theme) GlamourStyle() string {
	if t.IsDark {
		return "dark"
	}
	return "light"
}

// ChromaStyle names the chroma style used for code blocks.
func (t *Theme) ChromaStyle() string {
	if t.IsDark {
		return "monokai"
	}
	return "github"
}

func (t *Theme) initStyles() {
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Padding(0, 1)
	t.HeaderTitle = lipgloss.NewStyle().Bold(true).Foreground(Blue)
	t.HeaderMeta = lipgloss.NewStyle().Foreground(TextSecondary)

	t.StatusBar = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 1)
	t.StatusKey = lipgloss.NewStyle().Foreground(Blue).Bold(true)
	t.StatusDesc = lipgloss.NewStyle().Foreground(TextMuted)
	t.Notice = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)
	t.NoticeError = lipgloss.NewStyle().Foreground(Rose)

	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		Padding(0, 2)
	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBorder).
		Padding(0, 1)
	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(ErrorBubbleFg).
		Background(ErrorBubbleBg).
		Padding(0, 2)
	t.RoleLabel = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.Stats = lipgloss.NewStyle().Foreground(TextMuted).PaddingLeft(1)

	t.Welcome = lipgloss.NewStyle().Foreground(TextPrimary).Bold(true)
	t.WelcomeHint = lipgloss.NewStyle().Foreground(TextMuted)
	t.Spinner = lipgloss.NewStyle().Foreground(Violet)
	t.LoadingText = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)

	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Blue).
		Padding(0, 1)
	t.InputDisabled = t.InputContainer.BorderForeground(Overlay)

	t.Panel = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.PanelTitle = lipgloss.NewStyle().Bold(true).Foreground(Blue).MarginBottom(1)
	t.PanelHint = lipgloss.NewStyle().Foreground(TextMuted)
	t.ListItem = lipgloss.NewStyle().Foreground(TextPrimary)
	t.ListSelected = lipgloss.NewStyle().Foreground(TextPrimary).Background(SelectionBg).Bold(true)
	t.SliderLabel = lipgloss.NewStyle().Foreground(TextSecondary)
	t.SliderFill = lipgloss.NewStyle().Foreground(Blue)
	t.SliderTrack = lipgloss.NewStyle().Foreground(Overlay)
	t.SliderValue = lipgloss.NewStyle().Foreground(TextPrimary).Bold(true)
	t.PresetActive = lipgloss.NewStyle().Foreground(Violet).Bold(true)
	t.PresetCustom = lipgloss.NewStyle().Foreground(Amber).Bold(true)
	t.PresetPreview = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)

	t.CodeBlock = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.CodeLangBadge = lipgloss.NewStyle().Foreground(TextMuted).Bold(true)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns, panels replace the chat
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // >= 100 columns
)
