// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive line-mode chat.
//
// Handles "gemmachat chat", and the default command when stdin or stdout is
// not a terminal. It drives the same conversation controller and slash
// commands as the TUI.
//
// Examples:
//
//	gemmachat chat
//	gemmachat chat --no-markdown
//	echo "hello" | gemmachat
package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/peterh/liner"
	"go.uber.org/zap"

	"github.com/gaurav3000R/gemma-chat/internal/commands"
	"github.com/gaurav3000R/gemma-chat/internal/config"
	"github.com/gaurav3000R/gemma-chat/internal/conversation"
	"github.com/gaurav3000R/gemma-chat/internal/ui/components"
	"github.com/gaurav3000R/gemma-chat/internal/util"
)

// prompt is plain text; liner miscounts the width of styled prompts.
const prompt = "you> "

// =============================================================================
// INPUT HISTORY
// =============================================================================

// LineReader supplies REPL input one line at a time.
type LineReader interface {
	ReadInput(prompt string) (string, error)
}

// ChatCLI provides line editing for interactive chat, with recall of
// previously typed slash commands.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// DefaultHistoryFile returns ~/.gemmachat/chat_history.
func DefaultHistoryFile() string {
	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "chat_history")
}

// NewChatCLI creates a line editor with history loaded from historyFile.
func NewChatCLI(historyFile string) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	c := &ChatCLI{
		line:        line,
		historyFile: historyFile,
	}
	c.LoadHistory()
	return c
}

// LoadHistory loads command history from file. Lines that are not slash
// commands are dropped.
func (c *ChatCLI) LoadHistory() {
	data, err := os.ReadFile(c.historyFile)
	if err != nil {
		return
	}
	for _, line := range strings.Split(string(data), "\n") {
		c.Remember(line)
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	c.Remember(input)
	return input, nil
}

// Remember adds input to the recall history if it is a slash command.
// Chat messages are never kept, so the history file holds no conversation
// text.
func (c *ChatCLI) Remember(input string) {
	if commands.IsCommand(input) {
		c.line.AppendHistory(strings.TrimSpace(input))
	}
}

// SaveHistory persists command history with owner-only permissions.
func (c *ChatCLI) SaveHistory() error {
	var buf bytes.Buffer
	if _, err := c.line.WriteHistory(&buf); err != nil {
		return fmt.Errorf("failed to serialize chat history: %w", err)
	}
	return util.AtomicWriteFile(c.historyFile, buf.Bytes(), 0600)
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() error {
	err := c.SaveHistory()
	if cerr := c.line.Close(); err == nil {
		err = cerr
	}
	return err
}

// =============================================================================
// REPL
// =============================================================================

// REPL runs slash commands and chat messages against a controller and
// prints the results.
type REPL struct {
	ctx        context.Context
	controller *conversation.Controller
	registry   *commands.Registry
	cmdCtx     *commands.Context
	ui         config.UIConfig
	logger     *zap.Logger
	out        io.Writer
	width      int

	// interrupt returns a context cancelled by Ctrl+C while a request runs.
	interrupt func(context.Context) (context.Context, context.CancelFunc)
}

// NewREPL creates a REPL over app's controller, writing to out.
func NewREPL(ctx context.Context, app *App, out io.Writer) *REPL {
	registry := commands.NewRegistry()
	cmdCtx := commands.NewContext(app.Controller)
	cmdCtx.Registry = registry

	return &REPL{
		ctx:        ctx,
		controller: app.Controller,
		registry:   registry,
		cmdCtx:     cmdCtx,
		ui:         app.Config.UI,
		logger:     app.Logger,
		out:        out,
		width:      GetTerminalWidth(),
		interrupt: func(parent context.Context) (context.Context, context.CancelFunc) {
			return signal.NotifyContext(parent, os.Interrupt)
		},
	}
}

// Run reads lines until EOF or /quit.
func (r *REPL) Run(input LineReader) error {
	r.printWelcome()

	for {
		line, err := input.ReadInput(prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			fmt.Fprintln(r.out, DimStyle.Render("(type /quit or press Ctrl+D to exit)"))
			continue
		case errors.Is(err, io.EOF):
			fmt.Fprintln(r.out)
			return nil
		case err != nil:
			return err
		}

		if r.HandleLine(line) {
			return nil
		}
	}
}

// HandleLine processes one line of input. It returns true when the user
// asked to quit.
func (r *REPL) HandleLine(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}

	if cmd, ok := r.registry.Execute(r.cmdCtx, line); ok {
		if cmd == nil {
			return false
		}
		return r.handleCommandMsg(cmd())
	}

	r.send(commands.MessageText(line))
	return false
}

func (r *REPL) send(text string) {
	ctx, cancel := r.interrupt(r.ctx)
	defer cancel()

	fmt.Fprintln(r.out, DimStyle.Render(components.DefaultLoadingText+"..."))
	err := r.controller.Submit(ctx, text)
	switch {
	case errors.Is(err, conversation.ErrEmptyInput):
		return
	case errors.Is(err, conversation.ErrBusy):
		fmt.Fprintln(r.out, WarningStyle.Render("A reply is still pending."))
		return
	}

	if msg, ok := lastReply(r.controller.Messages()); ok {
		fmt.Fprintln(r.out, renderReply(msg, r.ui, r.width))
	}
	if err != nil {
		fmt.Fprintln(r.out, DimStyle.Render(components.DescribeError(err)))
	}
	fmt.Fprintln(r.out)
}

// handleCommandMsg prints what a slash command did.
func (r *REPL) handleCommandMsg(msg tea.Msg) bool {
	switch m := msg.(type) {
	case tea.QuitMsg:
		return true

	case commands.NewChatMsg:
		if m.Err != nil {
			r.printError(m.Err)
			return false
		}
		fmt.Fprintf(r.out, "%s %s\n", SuccessStyle.Render("New chat"), DimStyle.Render(util.TruncateRunes(m.SessionID, 8)))

	case commands.SessionLoadedMsg:
		if m.Err != nil {
			r.printError(m.Err)
			return false
		}
		fmt.Fprintf(r.out, "%s %s\n", SuccessStyle.Render("Loaded"), DimStyle.Render(util.TruncateRunes(m.ID, 8)))
		r.printTranscript()

	case commands.ToggleHistoryMsg:
		printSessions(r.out, m.Sessions, r.controller.SessionID())

	case commands.ToggleSettingsMsg:
		printParams(r.out, r.controller.Params())

	case commands.ParamsMsg:
		label := "Parameters"
		if m.Changed {
			label = "Parameters updated"
		}
		fmt.Fprintf(r.out, "%s %s\n", SuccessStyle.Render(label+":"), m.String())

	case commands.ShowHelpMsg:
		fmt.Fprintln(r.out, m.Text)

	case commands.ErrorMsg:
		r.printError(m.Err)

	default:
		r.logger.Debug("unhandled command message", zap.String("type", fmt.Sprintf("%T", msg)))
	}
	return false
}

func (r *REPL) printWelcome() {
	fmt.Fprintln(r.out, TitleStyle.Render("Gemma Chat"))
	fmt.Fprintln(r.out, components.WelcomeTitle)
	fmt.Fprintln(r.out, DimStyle.Render("Type /help for commands, /quit or Ctrl+D to exit."))
	fmt.Fprintln(r.out)
}

func (r *REPL) printTranscript() {
	for _, msg := range r.controller.Messages() {
		if msg.IsUser {
			fmt.Fprintf(r.out, "%s%s\n", PromptStyle.Render(prompt), msg.Text)
			continue
		}
		fmt.Fprintln(r.out, renderReply(msg, r.ui, r.width))
		fmt.Fprintln(r.out)
	}
}

func (r *REPL) printError(err error) {
	fmt.Fprintf(r.out, "%s %v\n", ErrorStyle.Render("error:"), err)
}

// HandleChat runs the interactive REPL on stdin.
func HandleChat(ctx context.Context, app *App, out io.Writer) error {
	app.Controller.Init(ctx)

	input := NewChatCLI(DefaultHistoryFile())
	defer func() {
		if err := input.Close(); err != nil {
			app.Logger.Warn("failed to save chat history", zap.Error(err))
		}
	}()

	return NewREPL(ctx, app, out).Run(input)
}
