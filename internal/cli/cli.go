// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Argument parsing and usage text for gemmachat.
package cli

import (
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdChat
	CmdAsk
	CmdSessions
	CmdPresets
	CmdWhoami
	CmdStatus
	CmdConfig
	CmdServeDev
	CmdVersion
	CmdHelp
)

var commandNames = map[Command]string{
	CmdTUI:      "tui",
	CmdChat:     "chat",
	CmdAsk:      "ask",
	CmdSessions: "sessions",
	CmdPresets:  "presets",
	CmdWhoami:   "whoami",
	CmdStatus:   "status",
	CmdConfig:   "config",
	CmdServeDev: "serve-dev",
	CmdVersion:  "version",
	CmdHelp:     "help",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return "unknown"
}

// NeedsBackend reports whether the command builds the full client stack.
func (c Command) NeedsBackend() bool {
	switch c {
	case CmdTUI, CmdChat, CmdAsk, CmdSessions, CmdWhoami, CmdStatus:
		return true
	}
	return false
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	URL        string
	ConfigPath string
	Verbose    bool
	NoMarkdown bool

	// Command-specific
	Query      string
	Preset     string
	Port       int
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `gemmachat - terminal chat client for a local Gemma backend

Usage:
  gemmachat                      Start the TUI (REPL when not on a terminal)
  gemmachat chat                 Interactive line-mode chat
  gemmachat ask "question"       Ask a single question in a fresh session
      --preset KEY               Apply a parameter preset first
  gemmachat sessions             List this identity's sessions on the backend
  gemmachat presets              List parameter presets
  gemmachat whoami               Print the local identity
  gemmachat status               Check backend health and show paths
  gemmachat config [show|init|path]
                                 Show, create or locate the config file
  gemmachat serve-dev [--port N] Run the development backend
  gemmachat version              Show version information
  gemmachat help                 Show this help

Global flags:
  --url URL        Backend base URL (default http://127.0.0.1:8000)
  --config PATH    Config file (toml, yaml or json)
  -v, --verbose    Debug logging, warnings echoed to stderr
  --no-markdown    Print replies as plain text

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "gemmachat version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Parse parses command-line arguments (without the program name) and
// returns the command and args.
func Parse(argv []string) (Command, Args, error) {
	remaining, parsedArgs, err := parseGlobalFlags(argv)
	if err != nil {
		return CmdHelp, parsedArgs, err
	}

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs, nil
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs, nil

	case "chat", "repl":
		return CmdChat, parsedArgs, nil

	case "ask":
		err := parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs, err

	case "sessions", "history":
		return CmdSessions, parsedArgs, nil

	case "presets":
		return CmdPresets, parsedArgs, nil

	case "whoami":
		return CmdWhoami, parsedArgs, nil

	case "status", "s":
		return CmdStatus, parsedArgs, nil

	case "config":
		err := parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs, err

	case "serve-dev", "serve":
		err := parseServeArgs(&parsedArgs, remaining)
		return CmdServeDev, parsedArgs, err

	case "version", "--version", "-V":
		return CmdVersion, parsedArgs, nil

	case "help", "--help", "-h":
		return CmdHelp, parsedArgs, nil

	default:
		return CmdHelp, parsedArgs, &UsageError{
			Message: fmt.Sprintf("unknown command %q", cmd),
		}
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
// Global flags may appear anywhere on the command line.
func parseGlobalFlags(args []string) ([]string, Args, error) {
	var remaining []string
	var parsedArgs Args

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--no-markdown":
			parsedArgs.NoMarkdown = true
		case "--url", "--config":
			if i+1 >= len(args) {
				return nil, parsedArgs, &UsageError{Message: arg + " requires a value"}
			}
			i++
			setGlobal(&parsedArgs, arg, args[i])
		default:
			if name, value, ok := strings.Cut(arg, "="); ok && (name == "--url" || name == "--config") {
				setGlobal(&parsedArgs, name, value)
			} else {
				remaining = append(remaining, arg)
			}
		}
	}

	return remaining, parsedArgs, nil
}

func setGlobal(args *Args, name, value string) {
	switch name {
	case "--url":
		args.URL = value
	case "--config":
		args.ConfigPath = value
	}
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) error {
	var query []string

	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]

		switch {
		case arg == "-p" || arg == "--preset":
			if i+1 >= len(remaining) {
				return &UsageError{Command: "ask", Message: arg + " requires a value"}
			}
			i++
			args.Preset = remaining[i]
		case strings.HasPrefix(arg, "--preset="):
			args.Preset = strings.TrimPrefix(arg, "--preset=")
		case arg == "--":
			query = append(query, remaining[i+1:]...)
			i = len(remaining)
		default:
			query = append(query, arg)
		}
	}

	args.Query = strings.TrimSpace(strings.Join(query, " "))
	if args.Query == "" {
		return &UsageError{Command: "ask", Message: `missing question, e.g. gemmachat ask "what is a haiku?"`}
	}
	return nil
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) error {
	args.Subcommand = "show"
	if len(remaining) == 0 {
		return nil
	}
	sub := strings.ToLower(remaining[0])
	switch sub {
	case "show", "init", "path":
		args.Subcommand = sub
		return nil
	default:
		return &UsageError{Command: "config", Message: fmt.Sprintf("unknown subcommand %q (want show, init or path)", sub)}
	}
}

// parseServeArgs parses serve-dev command specific arguments.
func parseServeArgs(args *Args, remaining []string) error {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]

		var value string
		switch {
		case arg == "-p" || arg == "--port":
			if i+1 >= len(remaining) {
				return &UsageError{Command: "serve-dev", Message: arg + " requires a value"}
			}
			i++
			value = remaining[i]
		case strings.HasPrefix(arg, "--port="):
			value = strings.TrimPrefix(arg, "--port=")
		default:
			return &UsageError{Command: "serve-dev", Message: fmt.Sprintf("unexpected argument %q", arg)}
		}

		port, err := strconv.Atoi(value)
		if err != nil || port < 1 || port > 65535 {
			return &UsageError{Command: "serve-dev", Message: fmt.Sprintf("invalid port %q", value)}
		}
		args.Port = port
	}
	return nil
}
