// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ParseResult is one line of user input split into a slash command and its
// arguments.
type ParseResult struct {
	// IsCommand is set when the trimmed input starts with "/".
	IsCommand bool

	// Command is nil for unknown names.
	Command *Command

	// CommandName keeps the name as typed, e.g. "/SET".
	CommandName string

	Args    []string
	RawArgs string

	RawInput string
}

// Parser resolves slash commands against a registry.
type Parser struct {
	registry *Registry
}

func NewParser(registry *Registry) *Parser {
	return &Parser{registry: registry}
}

// Parse splits input. Anything not starting with "/" is a chat message and
// comes back with IsCommand false.
func (p *Parser) Parse(input string) ParseResult {
	line := strings.TrimSpace(input)
	if !IsCommand(line) {
		return ParseResult{RawInput: line}
	}

	name := ExtractCommandName(line)
	rest := strings.TrimSpace(strings.TrimPrefix(line, name))
	res := ParseResult{
		IsCommand:   true,
		CommandName: name,
		Args:        splitCommandLine(rest),
		RawArgs:     rest,
		RawInput:    line,
	}
	if p.registry != nil {
		res.Command = p.registry.Get(name)
	}
	return res
}

// ParseArgs tokenizes an argument string; quoted spans stay one token.
func ParseArgs(input string) []string {
	return splitCommandLine(input)
}

// splitCommandLine tokenizes on whitespace. Single or double quotes group
// words, and inside quotes a backslash escapes a quote or another backslash.
// An empty quoted pair yields an empty token.
func splitCommandLine(input string) []string {
	var (
		tokens  []string
		buf     strings.Builder
		quote   rune
		pending bool
	)
	flush := func() {
		if buf.Len() > 0 || pending {
			tokens = append(tokens, buf.String())
			buf.Reset()
			pending = false
		}
	}

	runes := []rune(input)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if quote != 0 {
			switch {
			case r == quote:
				quote = 0
			case r == '\\' && i+1 < len(runes) && strings.ContainsRune(`"'\`, runes[i+1]):
				i++
				buf.WriteRune(runes[i])
			default:
				buf.WriteRune(r)
			}
			continue
		}

		switch {
		case r == '"' || r == '\'':
			quote = r
			pending = true
		case unicode.IsSpace(r):
			flush()
		default:
			buf.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// EscapePrefix starts a chat message that itself begins with "/".
const EscapePrefix = "//"

// IsCommand reports whether input looks like a slash command. Input
// starting with EscapePrefix is a message, not a command.
func IsCommand(input string) bool {
	line := strings.TrimSpace(input)
	return strings.HasPrefix(line, "/") && !strings.HasPrefix(line, EscapePrefix)
}

// MessageText returns the text to send for non-command input, turning a
// leading "//" into a literal "/". Other input is returned unchanged.
func MessageText(input string) string {
	trimmed := strings.TrimLeftFunc(input, unicode.IsSpace)
	if strings.HasPrefix(trimmed, EscapePrefix) {
		return trimmed[1:]
	}
	return input
}

// ExtractCommandName returns the leading "/word" of input, or "" when input
// is not a command. "/load 3f2a" gives "/load".
func ExtractCommandName(input string) string {
	line := strings.TrimSpace(input)
	if !IsCommand(line) {
		return ""
	}
	name, _, _ := strings.Cut(line, " ")
	if i := strings.IndexFunc(name, unicode.IsSpace); i >= 0 {
		name = name[:i]
	}
	return name
}

// ValidateArgs checks args against cmd's declared arguments: required ones
// must be present, enums must match case-insensitively, numbers must parse,
// and nothing extra may follow.
func ValidateArgs(cmd *Command, args []string) error {
	if cmd == nil {
		return nil
	}
	fail := func(def *ArgDef, msg, got, want string) error {
		ve := &ValidationError{Command: cmd.Name, Message: msg, Got: got, Expected: want}
		if def != nil {
			ve.Arg = def.Name
		}
		return ve
	}

	for i := range cmd.Args {
		def := &cmd.Args[i]
		if i >= len(args) {
			if def.Required {
				return fail(def, "required argument missing", "", def.Description)
			}
			continue
		}
		v := args[i]
		switch def.Type {
		case ArgTypeEnum:
			if len(def.Values) > 0 && !containsFold(def.Values, v) {
				return fail(def, "invalid value", v, strings.Join(def.Values, ", "))
			}
		case ArgTypeNumber:
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return fail(def, "not a number", v, def.Description)
			}
		}
	}

	if extra := args[min(len(cmd.Args), len(args)):]; len(extra) > 0 {
		return fail(nil, "too many arguments", strings.Join(extra, " "), "")
	}
	return nil
}

func containsFold(values []string, v string) bool {
	for _, s := range values {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// ValidationError describes a slash command argument that failed
// ValidateArgs.
type ValidationError struct {
	Command  string
	Arg      string
	Message  string
	Got      string
	Expected string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s", e.Command, e.Message)
	if e.Arg != "" {
		fmt.Fprintf(&b, " for argument '%s'", e.Arg)
	}
	if e.Got != "" {
		fmt.Fprintf(&b, " (got: %s)", e.Got)
	}
	if e.Expected != "" {
		fmt.Fprintf(&b, "; expected: %s", e.Expected)
	}
	return b.String()
}
