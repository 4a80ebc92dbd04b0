// gemmachat - A terminal chat client for a local Gemma backend.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/gaurav3000R/gemma-chat/internal/cli"
	"github.com/gaurav3000R/gemma-chat/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// healthProbeTimeout bounds the startup probe that fills in the model name.
const healthProbeTimeout = 2 * time.Second

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses argv, dispatches the command and returns the exit code.
func run(argv []string) int {
	cmd, args, err := cli.Parse(argv)
	if err != nil {
		return fail(err)
	}

	// Commands that need neither a logger nor a backend.
	switch cmd {
	case cli.CmdHelp:
		cli.PrintUsage(os.Stdout)
		return cli.ExitSuccess
	case cli.CmdVersion:
		cli.PrintVersion(os.Stdout)
		return cli.ExitSuccess
	case cli.CmdPresets:
		cli.HandlePresets(os.Stdout)
		return cli.ExitSuccess
	case cli.CmdConfig:
		return fail(cli.HandleConfig(args, os.Stdout))
	}

	// The TUI owns the terminal, so --verbose only echoes to stderr in
	// line mode.
	tui := cmd == cli.CmdTUI && cli.Interactive()
	var stderr io.Writer = os.Stderr
	if tui {
		stderr = nil
	}

	app, err := cli.Bootstrap(args, stderr)
	if err != nil {
		return fail(err)
	}
	defer app.Close()

	ctx := context.Background()

	if cmd == cli.CmdServeDev {
		return fail(cli.HandleServeDev(ctx, app, args, os.Stdout))
	}

	if err := app.Connect(ctx); err != nil {
		return fail(err)
	}

	switch cmd {
	case cli.CmdTUI:
		if tui {
			err = runTUI(ctx, app)
		} else {
			err = cli.HandleChat(ctx, app, os.Stdout)
		}
	case cli.CmdChat:
		err = cli.HandleChat(ctx, app, os.Stdout)
	case cli.CmdAsk:
		err = cli.HandleAsk(ctx, app, args, os.Stdout)
	case cli.CmdSessions:
		err = cli.HandleSessions(ctx, app, os.Stdout)
	case cli.CmdWhoami:
		cli.HandleWhoami(app, os.Stdout)
	case cli.CmdStatus:
		err = cli.HandleStatus(ctx, app, os.Stdout)
	}
	return fail(err)
}

// runTUI starts the full-screen interface. The config file, when there is
// one, is watched so UI preferences apply live.
func runTUI(ctx context.Context, app *cli.App) error {
	modelName := ""
	probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	status, err := app.Client.Health(probeCtx)
	cancel()
	if err != nil {
		app.Logger.Warn("backend not reachable at startup", zap.Error(err))
	} else {
		modelName = status.Model
	}

	return chat.Run(chat.Options{
		Controller: app.Controller,
		UI:         app.Config.UI,
		ModelName:  modelName,
		Context:    ctx,
		Logger:     app.Logger,
	}, app.ConfigPath)
}

// fail prints err, if any, and maps it to an exit code.
func fail(err error) int {
	if err != nil {
		cli.DisplayError(os.Stderr, err)
	}
	return cli.ExitCode(err)
}
