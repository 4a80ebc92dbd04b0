// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gaurav3000R/gemma-chat/internal/params"
	"github.com/gaurav3000R/gemma-chat/internal/ui/styles"
	"github.com/gaurav3000R/gemma-chat/internal/util"
)

// =============================================================================
// SETTINGS PANEL
// =============================================================================

// ParamsChangedMsg is emitted after a slider moves or a preset is applied.
type ParamsChangedMsg struct {
	Preset string
}

// SettingsKeys are the bindings active while the settings panel has focus.
type SettingsKeys struct {
	Up         key.Binding
	Down       key.Binding
	Decrease   key.Binding
	Increase   key.Binding
	BigDec     key.Binding
	BigInc     key.Binding
	NextPreset key.Binding
	Apply      key.Binding
}

// DefaultSettingsKeys returns the settings bindings.
func DefaultSettingsKeys() SettingsKeys {
	return SettingsKeys{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "prev")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "next")),
		Decrease:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "decrease")),
		Increase:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "increase")),
		BigDec:     key.NewBinding(key.WithKeys("shift+left", "H"), key.WithHelp("H", "-10 steps")),
		BigInc:     key.NewBinding(key.WithKeys("shift+right", "L"), key.WithHelp("L", "+10 steps")),
		NextPreset: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "cycle preset")),
		Apply:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply preset")),
	}
}

// presetRow is the cursor index of the preset selector, below the sliders.
var presetRow = len(params.Fields())

// Settings edits a shared params.Panel. The preset row previews a bundle
// before it is applied.
type Settings struct {
	panel   *params.Panel
	theme   *styles.Theme
	keys    SettingsKeys
	cursor  int
	preview string
	width   int
}

// NewSettings creates a settings panel over panel.
func NewSettings(panel *params.Panel, theme *styles.Theme) Settings {
	return Settings{
		panel:   panel,
		theme:   theme,
		keys:    DefaultSettingsKeys(),
		preview: panel.ActivePreset(),
		width:   36,
	}
}

// SetWidth sets the panel width.
func (s *Settings) SetWidth(width int) {
	s.width = width
}

// Cursor returns the selected row.
func (s Settings) Cursor() int {
	return s.cursor
}

// Preview returns the preset key shown in the selector.
func (s Settings) Preview() string {
	return s.preview
}

// Sync resets the preview to the active preset after outside changes.
func (s *Settings) Sync() {
	s.preview = s.panel.ActivePreset()
}

// Update handles keys while the panel has focus.
func (s Settings) Update(msg tea.Msg) (Settings, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch {
	case key.Matches(km, s.keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(km, s.keys.Down):
		if s.cursor < presetRow {
			s.cursor++
		}
	case key.Matches(km, s.keys.NextPreset):
		s.cyclePreview(1)
	case key.Matches(km, s.keys.Apply):
		if s.cursor == presetRow {
			return s, s.apply()
		}
	case key.Matches(km, s.keys.Decrease):
		return s, s.step(-1)
	case key.Matches(km, s.keys.Increase):
		return s, s.step(1)
	case key.Matches(km, s.keys.BigDec):
		return s, s.step(-10)
	case key.Matches(km, s.keys.BigInc):
		return s, s.step(10)
	}
	return s, nil
}

func (s *Settings) step(n int) tea.Cmd {
	if s.cursor == presetRow {
		s.cyclePreview(n)
		return nil
	}
	s.panel.Nudge(params.Fields()[s.cursor], n)
	s.preview = s.panel.ActivePreset()
	return changed(s.preview)
}

func (s *Settings) cyclePreview(delta int) {
	s.preview = params.CyclePreset(s.preview, delta)
}

func (s *Settings) apply() tea.Cmd {
	if err := s.panel.ApplyPreset(s.preview); err != nil {
		return nil
	}
	return changed(s.preview)
}

func changed(preset string) tea.Cmd {
	return func() tea.Msg { return ParamsChangedMsg{Preset: preset} }
}

// View renders the panel.
func (s Settings) View() string {
	t := s.theme
	inner := s.width - t.Panel.GetHorizontalFrameSize()
	if inner < 16 {
		inner = 16
	}

	lines := []string{t.PanelTitle.Render("Settings")}
	for i, f := range params.Fields() {
		lines = append(lines, s.slider(f, inner, i == s.cursor), "")
	}

	active := s.panel.ActivePreset()
	label := t.PresetActive.Render(params.PresetLabel(active))
	if active == params.CustomKey {
		label = t.PresetCustom.Render(params.PresetLabel(active))
	}
	lines = append(lines, t.SliderLabel.Render("Preset: ")+label)

	row := "‹ " + params.PresetLabel(s.preview) + " ›"
	if s.cursor == presetRow {
		row = t.ListSelected.Render(row)
	} else {
		row = t.ListItem.Render(row)
	}
	lines = append(lines, row)
	if p, ok := params.LookupPreset(s.preview); ok {
		lines = append(lines, t.PresetPreview.Render(util.WrapWidth(p.Description, inner)))
	}

	lines = append(lines, "", t.PanelHint.Render(util.WrapWidth("↑↓ select  ←→ adjust  p preset  enter apply  esc close", inner)))
	return t.Panel.Width(s.width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (s Settings) slider(f params.Field, width int, selected bool) string {
	t := s.theme
	b := f.Bounds()
	v := s.panel.Value(f)

	value := f.Format(v)
	head := f.Label()
	gap := width - lipgloss.Width(head) - lipgloss.Width(value)
	if gap < 1 {
		gap = 1
	}
	title := t.SliderLabel.Render(head) + strings.Repeat(" ", gap) + t.SliderValue.Render(value)
	if selected {
		title = t.ListSelected.Render(util.PadRight(head+strings.Repeat(" ", gap)+value, width))
	}

	filled := 0
	if b.Max > b.Min {
		filled = int((v - b.Min) / (b.Max - b.Min) * float64(width))
	}
	filled = max(0, min(width, filled))
	bar := t.SliderFill.Render(strings.Repeat("━", filled)) + t.SliderTrack.Render(strings.Repeat("─", width-filled))
	return title + "\n" + bar
}

// String summarizes the panel for logs and the REPL.
func (s Settings) String() string {
	return fmt.Sprintf("%s [%s]", s.panel.Params(), params.PresetLabel(s.panel.ActivePreset()))
}
