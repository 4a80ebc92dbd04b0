// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat screen of the TUI.
package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/gaurav3000R/gemma-chat/internal/commands"
	"github.com/gaurav3000R/gemma-chat/internal/config"
	"github.com/gaurav3000R/gemma-chat/internal/conversation"
	"github.com/gaurav3000R/gemma-chat/internal/params"
	"github.com/gaurav3000R/gemma-chat/internal/ui/components"
	"github.com/gaurav3000R/gemma-chat/internal/ui/styles"
)

// =============================================================================
// FOCUS
// =============================================================================

// Focus is the element that receives key presses.
type Focus int

const (
	FocusInput Focus = iota
	FocusSettings
	FocusHistory
)

// panelWidth is the width of each side panel.
const panelWidth = 38

// inputHeight is the number of text rows in the input box.
const inputHeight = 3

// =============================================================================
// CHAT MODEL
// =============================================================================

// Options configures a chat Model.
type Options struct {
	Controller *conversation.Controller
	UI         config.UIConfig

	// ModelName is shown in the header until a reply reports one.
	ModelName string

	// Context bounds backend calls. Defaults to context.Background.
	Context context.Context

	Logger *zap.Logger
}

// Model is the Bubble Tea model for the chat screen. All controller
// mutations happen inside Update; only Execute and the startup fetch run
// in commands.
type Model struct {
	ctx        context.Context
	logger     *zap.Logger
	controller *conversation.Controller
	registry   *commands.Registry
	cmdCtx     *commands.Context
	completer  *commands.Completer
	completion commands.CompletionState

	theme     *styles.Theme
	ui        config.UIConfig
	markdown  *components.Markdown
	messages  *components.MessageView
	header    *components.Header
	statusBar *components.StatusBar
	popup     *components.CompletionPopup
	welcome   components.Welcome
	spinner   components.Spinner
	toaster   *components.Toaster
	settings  components.Settings
	history   components.History

	viewport viewport.Model
	input    textarea.Model
	help     help.Model
	keys     KeyMap

	showSettings bool
	showHistory  bool
	focus        Focus
	helpText     string
	transcript   string
	modelName    string

	width  int
	height int
	ready  bool
}

// New creates a chat model over an existing controller.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	theme := styles.NewTheme(opts.UI.Theme)
	md := components.NewMarkdown(theme, opts.UI.Markdown)

	ta := textarea.New()
	ta.Placeholder = "Type a message..."
	ta.Prompt = ""
	ta.ShowLineNumbers = false
	ta.CharLimit = 8000
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline = DefaultKeyMap().Newline
	ta.Focus()

	registry := commands.NewRegistry()
	completer := commands.NewCompleter(registry)
	completer.SessionsFn = opts.Controller.Sessions().IDs

	m := Model{
		ctx:        ctx,
		logger:     logger,
		controller: opts.Controller,
		registry:   registry,
		cmdCtx:     &commands.Context{Controller: opts.Controller, Registry: registry},
		completer:  completer,
		theme:      theme,
		ui:         opts.UI,
		markdown:   md,
		messages:   components.NewMessageView(theme, md, opts.UI.ShowStats),
		header:     components.NewHeader(theme),
		statusBar:  components.NewStatusBar(theme),
		popup:      components.NewCompletionPopup(theme),
		welcome:    components.NewWelcome(theme),
		spinner:    components.NewDotSpinner(),
		toaster:    &components.Toaster{},
		settings:   components.NewSettings(opts.Controller.Params(), theme),
		history:    components.NewHistory(theme),
		viewport:   viewport.New(80, 20),
		input:      ta,
		help:       help.New(),
		keys:       DefaultKeyMap(),
		modelName:  opts.ModelName,
	}
	m.refresh()
	return m
}

// Init starts the cursor blink and the startup session fetch.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, fetchSessionsCmd(m.ctx, m.controller))
}

// Controller returns the conversation controller.
func (m Model) Controller() *conversation.Controller {
	return m.controller
}

// Focus returns the focused element.
func (m Model) Focus() Focus {
	return m.focus
}

// SettingsOpen reports whether the settings panel is visible.
func (m Model) SettingsOpen() bool {
	return m.showSettings
}

// HistoryOpen reports whether the history panel is visible.
func (m Model) HistoryOpen() bool {
	return m.showHistory
}

// InputValue returns the text in the input box.
func (m Model) InputValue() string {
	return m.input.Value()
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ReplyMsg:
		m.controller.Finish(msg.Result)
		m.spinner.Stop()
		m.refresh()
		m.history.SetItems(m.controller.Sessions().Summaries(), m.controller.SessionID())
		if msg.Result.Err != nil {
			return m, m.toaster.Error(components.DescribeError(msg.Result.Err))
		}
		return m, nil

	case SessionsFetchedMsg:
		m.history.SetItems(m.controller.Sessions().Summaries(), m.controller.SessionID())
		return m, nil

	case ConfigReloadedMsg:
		return m.applyConfig(msg)

	// Slash command results.
	case commands.NewChatMsg:
		return m.afterNewChat(msg.Err)
	case commands.SessionLoadedMsg:
		return m.afterLoad(msg.ID, msg.Err)
	case commands.ToggleHistoryMsg:
		m.togglePanel(FocusHistory)
		return m, nil
	case commands.ToggleSettingsMsg:
		m.togglePanel(FocusSettings)
		return m, nil
	case commands.ParamsMsg:
		m.settings.Sync()
		return m, m.toaster.Status(msg.String())
	case commands.ShowHelpMsg:
		m.helpText = msg.Text
		m.refresh()
		return m, nil
	case commands.ErrorMsg:
		return m, m.toaster.Error(msg.Err.Error())

	// Panel intents.
	case components.ParamsChangedMsg:
		return m, nil
	case components.LoadSessionMsg:
		err := m.controller.LoadSession(msg.ID)
		return m.afterLoad(msg.ID, err)
	case components.NewChatRequestMsg:
		return m.afterNewChat(m.controller.NewChat())

	case components.ToastExpiredMsg:
		m.toaster.Update(msg)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		if m.spinner.Active() {
			m.syncViewport()
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// handleKey routes keys: global bindings first, then the focused element.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Settings):
		m.togglePanel(FocusSettings)
		return m, nil
	case key.Matches(msg, m.keys.History):
		m.togglePanel(FocusHistory)
		return m, nil
	case key.Matches(msg, m.keys.NewChat):
		return m.afterNewChat(m.controller.NewChat())
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ViewDown()
		return m, nil
	case key.Matches(msg, m.keys.Close):
		return m.handleClose()
	}

	switch m.focus {
	case FocusSettings:
		var cmd tea.Cmd
		m.settings, cmd = m.settings.Update(msg)
		return m, cmd
	case FocusHistory:
		var cmd tea.Cmd
		m.history, cmd = m.history.Update(msg)
		return m, cmd
	}
	return m.handleInputKey(msg)
}

func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Complete) {
		m.complete()
		return m, nil
	}
	m.completion.Clear()

	if key.Matches(msg, m.keys.Submit) {
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs a slash command or starts a chat request. Plain messages
// are ignored while a reply is pending.
func (m Model) submit() (tea.Model, tea.Cmd) {
	text := m.input.Value()

	if cmd, ok := m.registry.Execute(m.cmdCtx, strings.TrimSpace(text)); ok {
		m.input.Reset()
		return m, cmd
	}

	if m.controller.IsLoading() {
		return m, nil
	}

	p, err := m.controller.Begin(commands.MessageText(text))
	if err != nil {
		if errors.Is(err, conversation.ErrEmptyInput) {
			return m, nil
		}
		return m, m.toaster.Error(err.Error())
	}

	m.input.Reset()
	m.helpText = ""
	spin := m.spinner.Start()
	m.refresh()
	return m, tea.Batch(spin, executeCmd(m.ctx, m.controller, p))
}

// complete fills the input with the next slash-command completion.
func (m *Model) complete() {
	value := m.input.Value()
	if !m.completion.Active() || (value != m.completion.Input && value != m.completion.Current()) {
		m.completion.Update(value, m.completer.Complete(value))
	} else {
		m.completion.Next()
	}
	if m.completion.Active() {
		m.input.SetValue(m.completion.Current())
		m.input.CursorEnd()
	}
}

// handleClose closes the focused overlay: help text, then the focused
// panel, then a pending completion.
func (m Model) handleClose() (tea.Model, tea.Cmd) {
	switch {
	case m.helpText != "":
		m.helpText = ""
		m.refresh()
	case m.focus == FocusSettings:
		m.togglePanel(FocusSettings)
	case m.focus == FocusHistory:
		m.togglePanel(FocusHistory)
	default:
		m.completion.Clear()
		m.toaster.Dismiss()
	}
	return m, nil
}

// togglePanel opens or closes a side panel. An opened panel takes focus; a
// closed one hands focus to the other open panel or the input.
func (m *Model) togglePanel(which Focus) {
	switch which {
	case FocusSettings:
		m.showSettings = !m.showSettings
		if m.showSettings {
			m.settings.Sync()
		}
	case FocusHistory:
		m.showHistory = !m.showHistory
		if m.showHistory {
			m.history.SetItems(m.controller.Sessions().Summaries(), m.controller.SessionID())
		}
	}

	switch {
	case which == FocusSettings && m.showSettings:
		m.focus = FocusSettings
	case which == FocusHistory && m.showHistory:
		m.focus = FocusHistory
	case m.showSettings:
		m.focus = FocusSettings
	case m.showHistory:
		m.focus = FocusHistory
	default:
		m.focus = FocusInput
	}

	if m.focus == FocusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
	m.layout()
}

func (m Model) afterNewChat(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		if errors.Is(err, conversation.ErrBusy) {
			err = errors.New("wait for the current reply before starting a new chat")
		}
		return m, m.toaster.Error(err.Error())
	}
	m.helpText = ""
	m.refresh()
	m.history.SetItems(m.controller.Sessions().Summaries(), m.controller.SessionID())
	return m, m.toaster.Status("Started a new chat")
}

func (m Model) afterLoad(id string, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		if errors.Is(err, conversation.ErrBusy) {
			err = errors.New("wait for the current reply before switching chats")
		}
		return m, m.toaster.Error(err.Error())
	}
	if m.showHistory {
		m.togglePanel(FocusHistory)
	}
	m.helpText = ""
	m.refresh()
	return m, nil
}

// applyConfig takes the UI preferences from a reloaded config. Backend,
// identity and parameter settings need a restart.
func (m Model) applyConfig(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Warn("config reload failed", zap.Error(msg.Err))
		return m, m.toaster.Error("config reload failed: " + msg.Err.Error())
	}
	if msg.Config == nil {
		return m, nil
	}

	ui := msg.Config.UI
	if !strings.EqualFold(ui.Theme, m.ui.Theme) {
		m.setTheme(styles.NewTheme(ui.Theme))
	}
	m.markdown.SetEnabled(ui.Markdown)
	m.messages.ShowStats = ui.ShowStats
	m.ui = ui
	m.logger.Info("ui preferences reloaded",
		zap.String("theme", ui.Theme),
		zap.Bool("markdown", ui.Markdown),
		zap.Bool("show_stats", ui.ShowStats))

	m.layout()
	return m, m.toaster.Status("Config reloaded")
}

func (m *Model) setTheme(theme *styles.Theme) {
	m.theme = theme
	m.markdown.SetTheme(theme)
	m.messages.Theme = theme
	m.header = components.NewHeader(theme)
	m.statusBar = components.NewStatusBar(theme)
	m.popup = components.NewCompletionPopup(theme)
	m.welcome = components.NewWelcome(theme)

	m.settings = components.NewSettings(m.controller.Params(), theme)
	items := m.history.Visible()
	m.history = components.NewHistory(theme)
	m.history.SetItems(items, m.controller.SessionID())
}

// =============================================================================
// LAYOUT
// =============================================================================

// chatWidth is the width left for the transcript after open panels.
func (m Model) chatWidth() int {
	w := m.width
	if m.theme.GetLayoutMode() == styles.LayoutNarrow {
		return w
	}
	if m.showSettings {
		w -= panelWidth
	}
	if m.showHistory {
		w -= panelWidth
	}
	return max(w, 20)
}

// layout sizes every component for the current window and panels.
func (m *Model) layout() {
	if !m.ready {
		return
	}
	m.theme.SetSize(m.width, m.height)

	cw := m.chatWidth()
	frame := m.theme.InputContainer.GetHorizontalFrameSize()
	m.input.SetWidth(max(cw-frame, 10))

	// header + status + toast + input box
	chrome := 1 + 1 + 1 + inputHeight + m.theme.InputContainer.GetVerticalFrameSize()
	m.viewport.Width = cw
	m.viewport.Height = max(m.height-chrome, 3)

	m.header.SetWidth(m.width)
	m.statusBar.Width = m.width
	m.popup.Width = min(cw, 60)
	m.welcome.SetSize(cw, m.viewport.Height)
	m.settings.SetWidth(panelWidth)
	m.history.SetSize(panelWidth, m.viewport.Height)

	m.refresh()
}

// refresh re-renders the transcript from controller state and scrolls to
// the bottom.
func (m *Model) refresh() {
	msgs := m.controller.Messages()
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Meta != nil && msgs[i].Meta.Model != "" {
			m.modelName = msgs[i].Meta.Model
			break
		}
	}
	m.welcome.SetModelName(m.modelName)

	width := m.viewport.Width - 1
	switch {
	case m.helpText != "":
		m.transcript = m.theme.PanelTitle.Render("Commands") + "\n" +
			m.helpText + "\n\n" + m.help.FullHelpView(m.keys.FullHelp())
	case len(msgs) == 0:
		m.transcript = ""
	default:
		m.transcript = m.messages.RenderAll(msgs, width)
	}
	m.syncViewport()
}

// syncViewport sets the viewport content and keeps it at the bottom.
func (m *Model) syncViewport() {
	content := m.transcript
	if m.spinner.Active() {
		if content != "" {
			content += "\n\n"
		}
		content += m.spinner.View(m.theme)
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

// presetLabel is the active preset label for the header.
func (m Model) presetLabel() string {
	return params.PresetLabel(m.controller.Params().ActivePreset())
}
