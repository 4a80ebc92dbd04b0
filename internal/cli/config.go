// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation.
//
// Command: config [show|init|path]
//
// Examples:
//
//	gemmachat config               Show the effective configuration
//	gemmachat config init          Write the defaults to ~/.gemmachat/config.toml
//	gemmachat config path          Print the config file location
//	gemmachat --config ./dev.yaml config show
package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/gaurav3000R/gemma-chat/internal/config"
)

// HandleConfig runs a config subcommand. It does not need a backend, so it
// loads the config itself instead of taking an App.
func HandleConfig(args Args, out io.Writer) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args, out)
	case "init":
		return handleConfigInit(args, out)
	case "path":
		return handleConfigPath(args, out)
	default:
		return &UsageError{Command: "config", Message: fmt.Sprintf("unknown subcommand %q", args.Subcommand)}
	}
}

func handleConfigShow(args Args, out io.Writer) error {
	cfg, path, err := LoadConfig(args)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, DimStyle.Render("# "+configPathOrDefault(path)))
	fmt.Fprint(out, cfg.String())
	return nil
}

func handleConfigInit(args Args, out io.Writer) error {
	path, err := targetConfigPath(args)
	if err != nil {
		return NewCommandError("config", "init", err)
	}

	if _, err := os.Stat(path); err == nil {
		return NewCommandError("config", "init", fmt.Errorf("%s already exists", path))
	} else if !errors.Is(err, fs.ErrNotExist) {
		return NewCommandError("config", "init", err)
	}

	if err := config.SaveFile(config.Default(), path); err != nil {
		return NewCommandError("config", "init", err)
	}
	fmt.Fprintf(out, "%s %s\n", SuccessStyle.Render("Wrote"), path)
	return nil
}

func handleConfigPath(args Args, out io.Writer) error {
	if args.ConfigPath != "" {
		fmt.Fprintln(out, args.ConfigPath)
		return nil
	}
	if found := config.FindConfigFile(); found != "" {
		fmt.Fprintln(out, found)
		return nil
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return NewCommandError("config", "path", err)
	}
	fmt.Fprintf(out, "%s %s\n", path, DimStyle.Render("(not created yet)"))
	return nil
}

// targetConfigPath is --config when given, else the default TOML path.
func targetConfigPath(args Args) (string, error) {
	if args.ConfigPath != "" {
		return args.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

func configPathOrDefault(path string) string {
	if path == "" {
		return "built-in defaults (no config file)"
	}
	return path
}
