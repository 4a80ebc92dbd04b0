// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Startup wiring shared by the TUI and the line-mode commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/gaurav3000R/gemma-chat/internal/backend"
	"github.com/gaurav3000R/gemma-chat/internal/config"
	"github.com/gaurav3000R/gemma-chat/internal/conversation"
	"github.com/gaurav3000R/gemma-chat/internal/identity"
	"github.com/gaurav3000R/gemma-chat/internal/logging"
	"github.com/gaurav3000R/gemma-chat/internal/session"
	"github.com/gaurav3000R/gemma-chat/internal/storage"
)

// App holds the dependencies built at startup.
type App struct {
	Config *config.Config

	// ConfigPath is the file that was loaded, empty when running on defaults.
	ConfigPath string

	Logger *zap.Logger

	// Set by Connect.
	UserID     string
	Client     *backend.Client
	Controller *conversation.Controller

	kv storage.KV
}

// LoadConfig loads the config named by --config, or searches the config
// directory, then applies the global flag overrides.
func LoadConfig(args Args) (*config.Config, string, error) {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if args.ConfigPath != "" {
		path = args.ConfigPath
		cfg, err = config.LoadFromPath(path)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return nil, path, err
	}

	if args.URL != "" {
		cfg.Backend.URL = args.URL
		if err := cfg.Validate(); err != nil {
			return nil, path, fmt.Errorf("invalid --url: %w", err)
		}
	}
	if args.NoMarkdown {
		cfg.UI.Markdown = false
	}
	if args.Verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, path, nil
}

// Bootstrap loads the config and builds the logger. When stderr is non-nil
// and --verbose is set, warnings are also written to stderr; the TUI passes
// nil because it owns the terminal.
func Bootstrap(args Args, stderr io.Writer) (*App, error) {
	cfg, path, err := LoadConfig(args)
	if err != nil {
		return nil, err
	}

	logCfg := cfg.LogConfig()
	if args.Verbose && stderr != nil {
		logCfg.Stderr = stderr
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	logger.Debug("config loaded",
		zap.String("path", path),
		zap.String("backend", cfg.Backend.URL))

	return &App{Config: cfg, ConfigPath: path, Logger: logger}, nil
}

// Connect opens local storage, resolves the identity and builds the backend
// client and conversation controller. A storage failure degrades to an
// in-memory identity for this run.
func (a *App) Connect(ctx context.Context) error {
	kv, err := storage.OpenSQLite(a.Config.Storage.Path)
	if err != nil {
		a.Logger.Warn("local storage unavailable, identity will not persist",
			zap.String("path", a.Config.Storage.Path),
			zap.Error(err))
		a.kv = storage.NewMemoryKV()
	} else {
		a.kv = kv
	}

	userID, err := identity.NewManager(a.kv).GetOrCreateUserID(ctx)
	if err != nil {
		return fmt.Errorf("failed to resolve identity: %w", err)
	}
	a.UserID = userID

	a.Client = backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL: a.Config.Backend.URL,
		Timeout: a.Config.BackendTimeout(),
	})

	a.Controller = conversation.New(conversation.Options{
		UserID: userID,
		Client: a.Client,
		Store:  session.NewStore(a.Logger),
		Panel:  a.Config.NewPanel(),
		Logger: a.Logger,
	})

	a.Logger.Info("client ready",
		zap.String("user_id", userID),
		zap.String("backend", a.Client.BaseURL()),
		zap.String("preset", a.Controller.Params().ActivePreset()))
	return nil
}

// Close releases storage and flushes the logger.
func (a *App) Close() error {
	var errs []error
	if a.kv != nil {
		errs = append(errs, a.kv.Close())
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return errors.Join(errs...)
}
