// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gaurav3000R/gemma-chat/internal/ui/styles"
)

// DefaultLoadingText labels the pending-reply indicator.
const DefaultLoadingText = "Gemma is thinking"

// asciiFrames render on terminals without unicode glyphs.
var asciiFrames = spinner.Spinner{
	Frames: []string{"|", "/", "-", "\\"},
	FPS:    time.Second / 10,
}

// Spinner animates below the transcript while a reply is in flight and
// shows how long the request has been running.
type Spinner struct {
	model   spinner.Model
	since   time.Time
	running bool
}

// NewSpinner returns a stopped spinner with ASCII frames.
func NewSpinner() Spinner {
	return Spinner{model: spinner.New(spinner.WithSpinner(asciiFrames))}
}

// NewDotSpinner returns a stopped spinner with the braille dot frames.
func NewDotSpinner() Spinner {
	return Spinner{model: spinner.New(spinner.WithSpinner(spinner.Dot))}
}

// Start shows the spinner, resets the clock and returns the first tick.
func (s *Spinner) Start() tea.Cmd {
	s.running, s.since = true, time.Now()
	return s.model.Tick
}

func (s *Spinner) Stop() { s.running = false }

func (s Spinner) Active() bool { return s.running }

// Elapsed is zero while stopped.
func (s Spinner) Elapsed() time.Duration {
	if !s.running {
		return 0
	}
	return time.Since(s.since)
}

// Update advances the frame. A stopped spinner swallows its ticks, which
// ends the tick chain.
func (s Spinner) Update(msg tea.Msg) (Spinner, tea.Cmd) {
	if _, tick := msg.(spinner.TickMsg); tick && !s.running {
		return s, nil
	}
	var cmd tea.Cmd
	s.model, cmd = s.model.Update(msg)
	return s, cmd
}

// View is empty while stopped.
func (s Spinner) View(theme *styles.Theme) string {
	if !s.running {
		return ""
	}
	label := fmt.Sprintf("%s... %.1fs", DefaultLoadingText, s.Elapsed().Seconds())
	return theme.Spinner.Render(s.model.View()) + " " + theme.LoadingText.Render(label)
}
