// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements gemmachat's command line: argument parsing,
// startup wiring and the line-mode commands.
//
// # Key Types
//
//   - Command: the subcommand to run
//   - Args: parsed global and command-specific flags
//   - App: config, logger, identity, backend client and controller
//   - REPL: the line-mode chat loop shared by "chat" and the non-TTY default
//
// # Usage
//
//	cmd, args, err := cli.Parse(os.Args[1:])
//	app, err := cli.Bootstrap(args, os.Stderr)
//	if err := app.Connect(ctx); err != nil { ... }
//	switch cmd {
//	case cli.CmdAsk:
//	    err = cli.HandleAsk(ctx, app, args, os.Stdout)
//	// ... other commands
//	}
//
// The full-screen TUI lives in internal/ui/chat; main chooses between it
// and the REPL with Interactive.
package cli
