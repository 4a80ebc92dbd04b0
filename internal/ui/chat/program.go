// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/gaurav3000R/gemma-chat/internal/config"
)

// reloadDebounce groups the burst of events an editor save produces.
const reloadDebounce = 200 * time.Millisecond

// Run shows the chat screen until the user quits. When configPath is set
// the file is watched and UI preferences are applied as it changes.
func Run(opts Options, configPath string) error {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p := tea.NewProgram(New(opts), tea.WithAltScreen())

	if configPath != "" {
		w, err := config.Watch(configPath, reloadDebounce, func(cfg *config.Config, err error) {
			p.Send(ConfigReloadedMsg{Config: cfg, Err: err})
		})
		if err != nil {
			logger.Warn("config watch disabled", zap.String("path", configPath), zap.Error(err))
		} else {
			defer w.Close()
		}
	}

	_, err := p.Run()
	return err
}
