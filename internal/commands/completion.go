// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"slices"
	"strings"
)

// Completer suggests command names and argument values for a partially
// typed slash command.
type Completer struct {
	registry *Registry

	// SessionsFn lists session ids offered to /load.
	SessionsFn func() []string
}

func NewCompleter(registry *Registry) *Completer {
	return &Completer{registry: registry}
}

// Complete returns candidates for input. Each Value is the whole line the
// input box should hold if the candidate is accepted.
func (c *Completer) Complete(input string) []Completion {
	if !IsCommand(input) {
		return nil
	}

	words := splitCommandLine(input)
	endsInSpace := strings.HasSuffix(input, " ")
	if !endsInSpace && len(words) < 2 {
		return c.commandNames(strings.ToLower(strings.TrimSpace(input)))
	}

	cmd := c.registry.Get(words[0])
	if cmd == nil {
		return nil
	}

	// done holds the arguments already complete; the last word is still
	// being typed unless the input ends in a space.
	done, partial := words[1:], ""
	if !endsInSpace {
		done, partial = words[1:len(words)-1], words[len(words)-1]
	}
	if len(done) >= len(cmd.Args) {
		return nil
	}
	def := cmd.Args[len(done)]

	lead := strings.Join(append([]string{words[0]}, done...), " ") + " "
	partial = strings.ToLower(partial)
	var out []Completion
	for _, v := range c.candidates(def) {
		if strings.HasPrefix(strings.ToLower(v), partial) {
			out = append(out, Completion{Value: lead + v, Description: def.Description})
		}
	}
	return out
}

func (c *Completer) commandNames(prefix string) []Completion {
	var out []Completion
	for _, cmd := range c.registry.All() {
		if !cmd.Hidden && strings.HasPrefix(cmd.Name, prefix) {
			out = append(out, Completion{Value: cmd.Name, Description: cmd.Description})
		}
	}
	return out
}

func (c *Completer) candidates(def ArgDef) []string {
	switch {
	case def.Type != ArgTypeSession:
		return def.Values
	case c.SessionsFn != nil:
		return c.SessionsFn()
	default:
		return nil
	}
}

// CompletionState remembers the last candidate list so repeated Tab presses
// cycle through it.
type CompletionState struct {
	Input       string
	Completions []Completion
	Selected    int
}

// Update replaces the candidates and selects the first.
func (cs *CompletionState) Update(input string, completions []Completion) {
	*cs = CompletionState{Input: input, Completions: slices.Clone(completions)}
}

func (cs *CompletionState) Active() bool {
	return len(cs.Completions) > 0
}

// Next advances the selection, wrapping at the end.
func (cs *CompletionState) Next() {
	if n := len(cs.Completions); n > 0 {
		cs.Selected = (cs.Selected + 1) % n
	}
}

// Current is the selected candidate's value, or "" when there is none.
func (cs *CompletionState) Current() string {
	if !cs.Active() {
		return ""
	}
	return cs.Completions[cs.Selected].Value
}

func (cs *CompletionState) Clear() {
	*cs = CompletionState{}
}
