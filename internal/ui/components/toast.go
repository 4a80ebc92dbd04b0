// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gaurav3000R/gemma-chat/internal/ui/styles"
	"github.com/gaurav3000R/gemma-chat/internal/util"
)

// =============================================================================
// TOAST
// =============================================================================

// ToastKind selects the toast color.
type ToastKind int

const (
	ToastStatus ToastKind = iota
	ToastError
)

// Auto-dismiss delays.
const (
	StatusToastDuration = 4 * time.Second
	ErrorToastDuration  = 8 * time.Second
)

// Toast is a one-line notice above the input that clears itself.
type Toast struct {
	Message string
	Kind    ToastKind
	seq     int
}

// ToastExpiredMsg clears the toast if it is still the one that scheduled it.
type ToastExpiredMsg struct {
	seq int
}

// Toaster holds at most one toast; a newer toast replaces the older one.
type Toaster struct {
	current *Toast
	seq     int
}

// Show displays a toast and returns the command that expires it.
func (t *Toaster) Show(kind ToastKind, message string) tea.Cmd {
	t.seq++
	t.current = &Toast{Message: message, Kind: kind, seq: t.seq}

	d := StatusToastDuration
	if kind == ToastError {
		d = ErrorToastDuration
	}
	seq := t.seq
	return tea.Tick(d, func(time.Time) tea.Msg { return ToastExpiredMsg{seq: seq} })
}

// Status shows an informational toast.
func (t *Toaster) Status(message string) tea.Cmd {
	return t.Show(ToastStatus, message)
}

// Error shows an error toast.
func (t *Toaster) Error(message string) tea.Cmd {
	return t.Show(ToastError, message)
}

// Current returns the visible toast, if any.
func (t *Toaster) Current() (Toast, bool) {
	if t.current == nil {
		return Toast{}, false
	}
	return *t.current, true
}

// Dismiss clears the toast.
func (t *Toaster) Dismiss() {
	t.current = nil
}

// Update clears an expired toast.
func (t *Toaster) Update(msg tea.Msg) {
	if m, ok := msg.(ToastExpiredMsg); ok && t.current != nil && t.current.seq == m.seq {
		t.current = nil
	}
}

// View renders the toast, or "" when none is shown.
func (t *Toaster) View(theme *styles.Theme, width int) string {
	if t.current == nil {
		return ""
	}
	text := util.TruncateWidth(t.current.Message, width-2)
	if t.current.Kind == ToastError {
		return theme.NoticeError.Render(styles.StatusIndicators.Error + " " + text)
	}
	return theme.Notice.Render(text)
}
