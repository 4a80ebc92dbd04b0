// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gaurav3000R/gemma-chat/internal/conversation"
	"github.com/gaurav3000R/gemma-chat/internal/params"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command is one slash command.
type Command struct {
	// Name includes the slash, e.g. "/load".
	Name    string
	Aliases []string

	Description string

	// Usage is the argument synopsis shown in help; Name is used when empty.
	Usage string

	Args []ArgDef

	// Handler runs synchronously and returns the message to deliver.
	Handler func(ctx *Context, args []string) tea.Cmd

	Hidden   bool
	Category string
}

// ArgDef declares one positional argument.
type ArgDef struct {
	Name        string
	Required    bool
	Type        ArgType
	Description string

	// Values restricts ArgTypeEnum arguments and feeds completion for the
	// other types.
	Values []string
}

// ArgType selects validation and completion for an argument.
type ArgType int

const (
	ArgTypeString ArgType = iota
	ArgTypeEnum
	ArgTypeSession
	ArgTypeNumber
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry maps command names and aliases to commands.
type Registry struct {
	byName map[string]*Command
}

// NewRegistry returns a registry holding the built-in commands.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[string]*Command)}
	for _, cmd := range builtins() {
		r.Register(cmd)
	}
	return r
}

// Register adds cmd under its name and every alias. Later registrations
// replace earlier ones.
func (r *Registry) Register(cmd *Command) {
	for _, key := range append([]string{cmd.Name}, cmd.Aliases...) {
		r.byName[strings.ToLower(key)] = cmd
	}
}

// Get looks up a name or alias, ignoring case. It returns nil when nothing
// matches.
func (r *Registry) Get(name string) *Command {
	return r.byName[strings.ToLower(name)]
}

// All returns each command once, ordered by name.
func (r *Registry) All() []*Command {
	seen := make(map[*Command]bool, len(r.byName))
	var cmds []*Command
	for _, cmd := range r.byName {
		if !seen[cmd] {
			seen[cmd] = true
			cmds = append(cmds, cmd)
		}
	}
	slices.SortFunc(cmds, func(a, b *Command) int { return strings.Compare(a.Name, b.Name) })
	return cmds
}

// ByCategory groups the visible commands. Uncategorised ones land in
// "General".
func (r *Registry) ByCategory() map[string][]*Command {
	groups := make(map[string][]*Command)
	for _, cmd := range r.All() {
		if cmd.Hidden {
			continue
		}
		cat := cmd.Category
		if cat == "" {
			cat = "General"
		}
		groups[cat] = append(groups[cat], cmd)
	}
	return groups
}

var categoryOrder = []string{"Conversation", "Parameters", "Navigation", "General"}

// HelpText lists visible commands under category headings.
func (r *Registry) HelpText() string {
	groups := r.ByCategory()
	sections := make([]string, 0, len(categoryOrder))
	for _, cat := range categoryOrder {
		cmds := groups[cat]
		if len(cmds) == 0 {
			continue
		}
		lines := []string{cat + ":"}
		for _, cmd := range cmds {
			usage := cmp.Or(cmd.Usage, cmd.Name)
			lines = append(lines, fmt.Sprintf("  %-26s %s", usage, cmd.Description))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}
	sections = append(sections, "Start a message with "+EscapePrefix+" to send a literal leading \"/\".")
	return strings.Join(sections, "\n\n")
}

// Execute runs input if it is a slash command. ok is false for plain chat
// text, which the caller sends as a message instead. Unknown commands and
// bad arguments come back as an ErrorMsg.
func (r *Registry) Execute(ctx *Context, input string) (cmd tea.Cmd, ok bool) {
	res := NewParser(r).Parse(input)
	switch {
	case !res.IsCommand:
		return nil, false
	case res.Command == nil:
		return msgCmd(ErrorMsg{Err: fmt.Errorf("unknown command %q, type /help for a list", res.CommandName)}), true
	}
	if err := ValidateArgs(res.Command, res.Args); err != nil {
		return msgCmd(ErrorMsg{Err: err}), true
	}
	if ctx == nil || ctx.Controller == nil {
		return msgCmd(ErrorMsg{Err: fmt.Errorf("%s: no active conversation", res.Command.Name)}), true
	}
	if ctx.Registry == nil {
		ctx.Registry = r
	}
	return res.Command.Handler(ctx, res.Args), true
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func builtins() []*Command {
	fieldKeys := make([]string, 0, len(params.Fields()))
	for _, f := range params.Fields() {
		fieldKeys = append(fieldKeys, f.Key())
	}

	return []*Command{
		// Conversation
		{Name: "/new", Aliases: []string{"/n", "/clear"}, Category: "Conversation",
			Description: "Start a new chat", Handler: handleNew},
		{Name: "/history", Aliases: []string{"/sessions"}, Category: "Conversation",
			Description: "Toggle the chat history panel", Handler: handleHistory},
		{Name: "/load", Aliases: []string{"/l"}, Category: "Conversation",
			Description: "Load a chat by id or unique id prefix", Usage: "/load <id-prefix>",
			Args:    []ArgDef{{Name: "id", Required: true, Type: ArgTypeSession, Description: "session id or prefix"}},
			Handler: handleLoad},

		// Parameters
		{Name: "/settings", Aliases: []string{"/s"}, Category: "Parameters",
			Description: "Toggle the generation settings panel", Handler: handleSettings},
		{Name: "/preset", Aliases: []string{"/p"}, Category: "Parameters",
			Description: "Apply a parameter preset", Usage: "/preset <key>",
			Args:    []ArgDef{{Name: "key", Required: true, Type: ArgTypeEnum, Values: params.PresetKeys(), Description: "preset key"}},
			Handler: handlePreset},
		{Name: "/set", Category: "Parameters",
			Description: "Set one generation parameter", Usage: "/set <field> <value>",
			Args: []ArgDef{
				{Name: "field", Required: true, Type: ArgTypeString, Values: fieldKeys, Description: "parameter name"},
				{Name: "value", Required: true, Type: ArgTypeNumber, Description: "number"},
			},
			Handler: handleSet},
		{Name: "/params", Category: "Parameters",
			Description: "Show the current generation parameters", Handler: handleParams},

		// Navigation
		{Name: "/help", Aliases: []string{"/h", "/?"}, Category: "Navigation",
			Description: "Show available commands", Handler: handleHelp},
		{Name: "/quit", Aliases: []string{"/q", "/exit"}, Category: "Navigation",
			Description: "Exit", Handler: handleQuit},
	}
}

// =============================================================================
// CONTEXT
// =============================================================================

// Context carries the state command handlers act on.
type Context struct {
	Controller *conversation.Controller

	// Registry backs /help. Execute sets it when nil.
	Registry *Registry
}

func NewContext(controller *conversation.Controller) *Context {
	return &Context{Controller: controller}
}

// Completion is one completion candidate.
type Completion struct {
	// Value replaces the whole input line.
	Value       string
	Description string
}
