// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav3000R/gemma-chat/internal/backend"
	"github.com/gaurav3000R/gemma-chat/internal/commands"
	"github.com/gaurav3000R/gemma-chat/internal/config"
	"github.com/gaurav3000R/gemma-chat/internal/conversation"
	"github.com/gaurav3000R/gemma-chat/internal/model"
	"github.com/gaurav3000R/gemma-chat/internal/params"
	"github.com/gaurav3000R/gemma-chat/internal/ui/components"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

type fakeBackend struct {
	mu      sync.Mutex
	turns   map[string][]model.Turn
	fail    error
	stored  backend.Sessions
	lastReq backend.ChatRequest
}

func (f *fakeBackend) Chat(ctx context.Context, req backend.ChatRequest) (*backend.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastReq = req
	if f.fail != nil {
		return nil, f.fail
	}
	if f.turns == nil {
		f.turns = make(map[string][]model.Turn)
	}
	f.turns[req.SessionID] = append(f.turns[req.SessionID], model.Turn{User: req.Message, Assistant: "echo: " + req.Message})
	lat := 0.25
	return &backend.ChatResponse{
		History:    append([]model.Turn(nil), f.turns[req.SessionID]...),
		LatencySec: &lat,
		Meta:       model.ModelMeta{Model: "gemma-test", Device: "cpu", Dtype: "float32"},
	}, nil
}

func (f *fakeBackend) GetChats(ctx context.Context, userID string) (*backend.SessionsResponse, error) {
	return &backend.SessionsResponse{Sessions: f.stored}, nil
}

func newTestModel(t *testing.T, fb *fakeBackend) Model {
	t.Helper()
	ctrl := conversation.New(conversation.Options{UserID: "u1", Client: fb})
	m := New(Options{
		Controller: ctrl,
		UI:         config.UIConfig{Theme: "dark", Markdown: false, ShowStats: true},
	})
	return update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := updateCmd(t, m, msg)
	return next
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	return update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

// collect runs cmd and any batched children, returning the messages that
// arrive within a short deadline. Timer-based commands are skipped.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	var msg tea.Msg
	select {
	case msg = <-ch:
	case <-time.After(500 * time.Millisecond):
		return nil
	}

	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func findReply(t *testing.T, cmd tea.Cmd) ReplyMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if r, ok := msg.(ReplyMsg); ok {
			return r
		}
	}
	t.Fatal("no ReplyMsg produced")
	return ReplyMsg{}
}

func screen(m Model) string {
	return ansi.Strip(m.View())
}

// =============================================================================
// CONVERSATION FLOW
// =============================================================================

func TestModel_WelcomeWhenEmpty(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	assert.Contains(t, screen(m), components.WelcomeTitle)
	assert.Contains(t, screen(m), "Gemma Chat")
}

func TestModel_SubmitAndReply(t *testing.T) {
	fb := &fakeBackend{}
	m := newTestModel(t, fb)

	m = typeText(t, m, "hello")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	ctrl := m.Controller()
	assert.True(t, ctrl.IsLoading())
	assert.Empty(t, m.InputValue())
	require.Len(t, ctrl.Messages(), 1)
	assert.NotContains(t, screen(m), components.WelcomeTitle)
	assert.Contains(t, screen(m), components.DefaultLoadingText)

	// Submission is disabled while a reply is pending.
	m = typeText(t, m, "again")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, ctrl.Messages(), 1)
	assert.Equal(t, "again", m.InputValue())

	reply := findReply(t, cmd)
	require.NoError(t, reply.Result.Err)
	m = update(t, m, reply)

	assert.False(t, ctrl.IsLoading())
	msgs := ctrl.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "echo: hello", msgs[1].Text)
	assert.True(t, msgs[1].IsAnnotated())

	out := screen(m)
	assert.Contains(t, out, "echo: hello")
	assert.Contains(t, out, "gemma-test")
	assert.NotContains(t, out, components.DefaultLoadingText)
	assert.Equal(t, params.DefaultParams(), fb.lastReq.GenerationParams)
}

func TestModel_FailedReplyShowsError(t *testing.T) {
	fb := &fakeBackend{fail: errors.New("connection refused")}
	m := newTestModel(t, fb)

	m = typeText(t, m, "hi")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	reply := findReply(t, cmd)
	require.Error(t, reply.Result.Err)

	m, cmd = updateCmd(t, m, reply)
	assert.NotNil(t, cmd, "error toast expiry")
	assert.Equal(t, conversation.StateIdleWithError, m.Controller().State())

	out := screen(m)
	assert.Contains(t, out, "Sorry, something went wrong")
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "last request failed")
}

func TestModel_EmptySubmitIgnored(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = typeText(t, m, "   ")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)
	assert.Empty(t, m.Controller().Messages())
}

func TestModel_NewChat(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = typeText(t, m, "hello")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, findReply(t, cmd))

	before := m.Controller().SessionID()
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlN})
	assert.NotEqual(t, before, m.Controller().SessionID())
	assert.Empty(t, m.Controller().Messages())
	assert.True(t, m.Controller().Sessions().Has(before))
	assert.Contains(t, screen(m), components.WelcomeTitle)
}

// =============================================================================
// PANELS
// =============================================================================

func TestModel_SettingsPanel(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	require.True(t, m.SettingsOpen())
	assert.Equal(t, FocusSettings, m.Focus())
	assert.Contains(t, screen(m), "Temperature")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	panel := m.Controller().Params()
	assert.InDelta(t, 0.71, panel.Value(params.FieldTemperature), 1e-9)
	assert.Empty(t, m.InputValue(), "keys go to the panel")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.SettingsOpen())
	assert.Equal(t, FocusInput, m.Focus())
}

func TestModel_PanelsAreIndependent(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlH})
	assert.True(t, m.SettingsOpen())
	assert.True(t, m.HistoryOpen())
	assert.Equal(t, FocusHistory, m.Focus())

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlH})
	assert.True(t, m.SettingsOpen())
	assert.Equal(t, FocusSettings, m.Focus())
}

func TestModel_HistoryLoadsSession(t *testing.T) {
	fb := &fakeBackend{stored: backend.Sessions{
		{ID: "abc123", Turns: []model.Turn{{User: "old question", Assistant: "old answer"}}},
	}}
	m := newTestModel(t, fb)

	m.Controller().Init(context.Background())
	m = update(t, m, SessionsFetchedMsg{})

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlH})
	require.True(t, m.HistoryOpen())
	assert.Contains(t, screen(m), "old question")

	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, components.LoadSessionMsg{ID: "abc123"}, msg)

	m = update(t, m, msg)
	assert.False(t, m.HistoryOpen(), "loading closes the panel")
	assert.Equal(t, "abc123", m.Controller().SessionID())
	assert.Len(t, m.Controller().Messages(), 2)
	assert.Contains(t, screen(m), "old answer")
}

// =============================================================================
// SLASH COMMANDS
// =============================================================================

func TestModel_SlashPreset(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = typeText(t, m, "/preset creative_writing")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Empty(t, m.InputValue())
	assert.Empty(t, m.Controller().Messages(), "commands are not sent")

	msg := cmd()
	require.IsType(t, commands.ParamsMsg{}, msg)
	m = update(t, m, msg)
	assert.Equal(t, "creative_writing", m.Controller().Params().ActivePreset())
	assert.Contains(t, screen(m), "Creative Writing")
}

func TestModel_SlashUnknownCommand(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = typeText(t, m, "/bogus")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	m = update(t, m, cmd())
	assert.Contains(t, screen(m), "unknown command")
}

func TestModel_DoubleSlashSendsLiteralMessage(t *testing.T) {
	fb := &fakeBackend{}
	m := newTestModel(t, fb)
	m = typeText(t, m, "//etc/hosts: what is this file?")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	reply := findReply(t, cmd)
	require.NoError(t, reply.Result.Err)
	m = update(t, m, reply)

	assert.Equal(t, "/etc/hosts: what is this file?", fb.lastReq.Message)
	assert.NotContains(t, screen(m), "unknown command")
}

func TestModel_SlashHelp(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = typeText(t, m, "/help")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, cmd())
	assert.Contains(t, screen(m), "/preset")

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Contains(t, screen(m), components.WelcomeTitle)
}

func TestModel_TabCompletion(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = typeText(t, m, "/pre")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, "/preset", m.InputValue())
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func TestModel_ConfigReloadAppliesUI(t *testing.T) {
	m := newTestModel(t, &fakeBackend{})
	m = typeText(t, m, "hi")
	m, cmd := updateCmd(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m = update(t, m, findReply(t, cmd))
	assert.Contains(t, screen(m), "0.25s")

	cfg := config.Default()
	cfg.UI = config.UIConfig{Theme: "light", Markdown: false, ShowStats: false}
	cfg.Backend.URL = "http://elsewhere:9000"
	m = update(t, m, ConfigReloadedMsg{Config: cfg})

	assert.NotContains(t, screen(m), "0.25s")
	assert.Contains(t, screen(m), "Config reloaded")

	m = update(t, m, ConfigReloadedMsg{Err: errors.New("bad toml")})
	assert.Contains(t, screen(m), "bad toml")
}
