// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav3000R/gemma-chat/internal/backend"
	"github.com/gaurav3000R/gemma-chat/internal/config"
	"github.com/gaurav3000R/gemma-chat/internal/conversation"
	"github.com/gaurav3000R/gemma-chat/internal/model"
	"github.com/gaurav3000R/gemma-chat/internal/params"
	"github.com/gaurav3000R/gemma-chat/internal/server"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// isolateHome points the config directory and home at a temp dir.
func isolateHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("GEMMACHAT_HOME", filepath.Join(dir, ".gemmachat"))
	return dir
}

// writeConfig writes a TOML config pointing at url with temp paths.
func writeConfig(t *testing.T, dir, url string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	body := fmt.Sprintf(`[backend]
url = %q

[ui]
theme = "dark"
markdown = false
show_stats = true

[log]
level = "debug"
file = %q

[storage]
path = %q
`, url, filepath.Join(dir, "gemmachat.log"), filepath.Join(dir, "gemmachat.db"))
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

// newTestApp connects an App to a dev server running gen.
func newTestApp(t *testing.T, gen server.Generator) *App {
	t.Helper()
	dir := isolateHome(t)

	sc := server.DefaultConfig()
	sc.RatePerSec = 0
	ts := httptest.NewServer(server.New(sc, gen).Handler())
	t.Cleanup(ts.Close)

	return connectApp(t, Args{ConfigPath: writeConfig(t, dir, ts.URL)})
}

func connectApp(t *testing.T, args Args) *App {
	t.Helper()
	app, err := Bootstrap(args, nil)
	require.NoError(t, err)
	require.NoError(t, app.Connect(context.Background()))
	t.Cleanup(func() { _ = app.Close() })
	return app
}

// unreachableURL returns a loopback URL with nothing listening.
func unreachableURL(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return "http://" + addr
}

var failingGenerator = server.GeneratorFunc(func(ctx context.Context, history []model.Turn, message string, p model.GenerationParams) (string, error) {
	return "", errors.New("model exploded")
})

// scriptedReader replays lines, then reports EOF.
type scriptedReader struct {
	lines []string
}

func (s *scriptedReader) ReadInput(string) (string, error) {
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		wantCmd  Command
		validate func(*testing.T, Args)
	}{
		{
			name:    "no args starts the TUI",
			argv:    nil,
			wantCmd: CmdTUI,
		},
		{
			name:    "ask joins the question",
			argv:    []string{"ask", "what", "is", "go?"},
			wantCmd: CmdAsk,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "what is go?", a.Query)
			},
		},
		{
			name:    "ask with preset",
			argv:    []string{"ask", "--preset", "qa_factual", "capital of France"},
			wantCmd: CmdAsk,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "qa_factual", a.Preset)
				assert.Equal(t, "capital of France", a.Query)
			},
		},
		{
			name:    "ask with preset equals form",
			argv:    []string{"ask", "--preset=brainstorming", "ideas"},
			wantCmd: CmdAsk,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "brainstorming", a.Preset)
			},
		},
		{
			name:    "global flags anywhere",
			argv:    []string{"ask", "hi", "--verbose", "--url=http://10.0.0.2:8000", "--no-markdown"},
			wantCmd: CmdAsk,
			validate: func(t *testing.T, a Args) {
				assert.True(t, a.Verbose)
				assert.True(t, a.NoMarkdown)
				assert.Equal(t, "http://10.0.0.2:8000", a.URL)
				assert.Equal(t, "hi", a.Query)
			},
		},
		{
			name:    "config path flag before command",
			argv:    []string{"--config", "/tmp/x.yaml", "config", "path"},
			wantCmd: CmdConfig,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "/tmp/x.yaml", a.ConfigPath)
				assert.Equal(t, "path", a.Subcommand)
			},
		},
		{
			name:    "config defaults to show",
			argv:    []string{"config"},
			wantCmd: CmdConfig,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, "show", a.Subcommand)
			},
		},
		{
			name:    "serve-dev port",
			argv:    []string{"serve-dev", "--port", "9001"},
			wantCmd: CmdServeDev,
			validate: func(t *testing.T, a Args) {
				assert.Equal(t, 9001, a.Port)
			},
		},
		{name: "chat", argv: []string{"chat"}, wantCmd: CmdChat},
		{name: "sessions", argv: []string{"sessions"}, wantCmd: CmdSessions},
		{name: "presets", argv: []string{"presets"}, wantCmd: CmdPresets},
		{name: "whoami", argv: []string{"whoami"}, wantCmd: CmdWhoami},
		{name: "status alias", argv: []string{"s"}, wantCmd: CmdStatus},
		{name: "version", argv: []string{"version"}, wantCmd: CmdVersion},
		{name: "help flag", argv: []string{"--help"}, wantCmd: CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, err := Parse(tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCmd, cmd)
			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

func TestParse_UsageErrors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"url without value", []string{"--url"}},
		{"ask without question", []string{"ask"}},
		{"ask preset without value", []string{"ask", "--preset"}},
		{"bad config subcommand", []string{"config", "delete"}},
		{"port out of range", []string{"serve-dev", "--port", "0"}},
		{"port not a number", []string{"serve-dev", "--port=abc"}},
		{"serve-dev stray arg", []string{"serve-dev", "now"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.argv)
			require.Error(t, err)
			var ue *UsageError
			assert.ErrorAs(t, err, &ue)
			assert.Equal(t, ExitUsageError, ExitCode(err))
		})
	}
}

func TestCommand_String(t *testing.T) {
	assert.Equal(t, "serve-dev", CmdServeDev.String())
	assert.Equal(t, "unknown", Command(99).String())
	assert.True(t, CmdAsk.NeedsBackend())
	assert.False(t, CmdServeDev.NeedsBackend())
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitGeneralError, ExitCode(errors.New("boom")))
	assert.Equal(t, ExitGeneralError, ExitCode(NewCommandError("ask", "", errors.New("boom"))))
	assert.Equal(t, ExitUsageError, ExitCode(fmt.Errorf("wrapped: %w", &UsageError{Message: "x"})))
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, &UsageError{Command: "ask", Message: "missing question"})
	assert.Contains(t, buf.String(), "ask: missing question")
	assert.Contains(t, buf.String(), "gemmachat help")

	buf.Reset()
	DisplayError(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestPrintUsageAndVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	assert.Contains(t, buf.String(), "gemmachat serve-dev")
	assert.Contains(t, buf.String(), Version)

	buf.Reset()
	PrintVersion(&buf)
	assert.Contains(t, buf.String(), "gemmachat version "+Version)
}

// =============================================================================
// CONFIG LOADING TESTS
// =============================================================================

func TestLoadConfig_FlagOverrides(t *testing.T) {
	dir := isolateHome(t)
	path := writeConfig(t, dir, "http://127.0.0.1:8000")

	cfg, loaded, err := LoadConfig(Args{
		ConfigPath: path,
		URL:        "http://192.168.1.5:9000",
		NoMarkdown: true,
		Verbose:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, path, loaded)
	assert.Equal(t, "http://192.168.1.5:9000", cfg.Backend.URL)
	assert.False(t, cfg.UI.Markdown)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadConfig_InvalidURLFlag(t *testing.T) {
	dir := isolateHome(t)
	path := writeConfig(t, dir, "http://127.0.0.1:8000")

	_, _, err := LoadConfig(Args{ConfigPath: path, URL: "not a url"})
	require.Error(t, err)
	assert.Equal(t, ExitGeneralError, ExitCode(err))
}

func TestLoadConfig_InvalidFileFailsStartup(t *testing.T) {
	dir := isolateHome(t)
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600))

	_, err := Bootstrap(Args{ConfigPath: path}, nil)
	require.Error(t, err)
	assert.True(t, config.IsValidation(err))
}

func TestConnect_PersistsIdentity(t *testing.T) {
	dir := isolateHome(t)
	args := Args{ConfigPath: writeConfig(t, dir, unreachableURL(t))}

	first, err := Bootstrap(args, nil)
	require.NoError(t, err)
	require.NoError(t, first.Connect(context.Background()))
	id := first.UserID
	require.NoError(t, first.Close())

	second := connectApp(t, args)
	assert.Equal(t, id, second.UserID)
	assert.Equal(t, id, second.Controller.UserID())
}

// =============================================================================
// ASK TESTS
// =============================================================================

func TestHandleAsk(t *testing.T) {
	app := newTestApp(t, nil)
	var out bytes.Buffer

	err := HandleAsk(context.Background(), app, Args{Query: "hello there"}, &out)
	require.NoError(t, err)

	assert.Contains(t, out.String(), "You said: hello there")
	assert.Contains(t, out.String(), "gemma-3-270m-it")
	assert.Equal(t, conversation.StateIdle, app.Controller.State())
}

func TestHandleAsk_Preset(t *testing.T) {
	app := newTestApp(t, nil)
	var out bytes.Buffer

	require.NoError(t, HandleAsk(context.Background(), app, Args{Query: "q", Preset: "qa_factual"}, &out))

	preset, ok := params.LookupPreset("qa_factual")
	require.True(t, ok)
	assert.True(t, params.Equal(preset.Params, app.Controller.Params().Params()))
	assert.Contains(t, out.String(), preset.Params.String())
}

func TestHandleAsk_UnknownPreset(t *testing.T) {
	app := newTestApp(t, nil)
	err := HandleAsk(context.Background(), app, Args{Query: "q", Preset: "nope"}, io.Discard)
	assert.Equal(t, ExitUsageError, ExitCode(err))
	assert.Empty(t, app.Controller.Messages())
}

func TestHandleAsk_BackendFailure(t *testing.T) {
	app := newTestApp(t, failingGenerator)
	var out bytes.Buffer

	err := HandleAsk(context.Background(), app, Args{Query: "hi"}, &out)
	require.Error(t, err)
	assert.True(t, backend.IsHTTP(err))
	assert.Contains(t, out.String(), conversation.ErrorText)
}

func TestHandleAsk_Unreachable(t *testing.T) {
	dir := isolateHome(t)
	app := connectApp(t, Args{ConfigPath: writeConfig(t, dir, unreachableURL(t))})

	err := HandleAsk(context.Background(), app, Args{Query: "hi"}, io.Discard)
	require.Error(t, err)
	assert.True(t, backend.IsNetwork(err))
}

// =============================================================================
// REPL TESTS
// =============================================================================

func TestREPL_MessageAndCommands(t *testing.T) {
	app := newTestApp(t, nil)
	var out bytes.Buffer
	r := NewREPL(context.Background(), app, &out)

	assert.False(t, r.HandleLine("   "))
	assert.Empty(t, out.String())

	assert.False(t, r.HandleLine("first question"))
	assert.Contains(t, out.String(), "You said: first question")
	firstSession := app.Controller.SessionID()

	out.Reset()
	assert.False(t, r.HandleLine("/history"))
	assert.Contains(t, out.String(), "first question")

	out.Reset()
	assert.False(t, r.HandleLine("/new"))
	assert.Contains(t, out.String(), "New chat")
	assert.NotEqual(t, firstSession, app.Controller.SessionID())
	assert.Empty(t, app.Controller.Messages())

	out.Reset()
	assert.False(t, r.HandleLine("/load "+firstSession[:8]))
	assert.Contains(t, out.String(), "Loaded")
	assert.Contains(t, out.String(), "first question")
	assert.Equal(t, firstSession, app.Controller.SessionID())

	out.Reset()
	assert.False(t, r.HandleLine("/preset code_generation"))
	assert.Contains(t, out.String(), "Parameters updated:")
	assert.Equal(t, "code_generation", app.Controller.Params().ActivePreset())

	out.Reset()
	assert.False(t, r.HandleLine("/settings"))
	assert.Contains(t, out.String(), "Temperature")

	out.Reset()
	assert.False(t, r.HandleLine("/bogus"))
	assert.Contains(t, out.String(), "unknown command")

	out.Reset()
	assert.False(t, r.HandleLine("/help"))
	assert.Contains(t, out.String(), "/new")

	assert.True(t, r.HandleLine("/quit"))
}

func TestREPL_FailedReplyShowsHint(t *testing.T) {
	app := newTestApp(t, failingGenerator)
	var out bytes.Buffer
	r := NewREPL(context.Background(), app, &out)

	assert.False(t, r.HandleLine("hi"))
	assert.Contains(t, out.String(), conversation.ErrorText)
	assert.Contains(t, out.String(), "Server")
	assert.Equal(t, conversation.StateIdleWithError, app.Controller.State())
}

func TestREPL_Run(t *testing.T) {
	app := newTestApp(t, nil)
	var out bytes.Buffer
	r := NewREPL(context.Background(), app, &out)

	in := &scriptedReader{lines: []string{"one", "two", "/quit", "never sent"}}
	require.NoError(t, r.Run(in))

	assert.Contains(t, out.String(), "How can I help you today?")
	assert.Contains(t, out.String(), "You said: two")
	assert.Len(t, app.Controller.Messages(), 4)
	assert.Equal(t, []string{"never sent"}, in.lines)
}

func TestREPL_DoubleSlashSendsMessage(t *testing.T) {
	app := newTestApp(t, nil)
	var out bytes.Buffer
	r := NewREPL(context.Background(), app, &out)

	assert.False(t, r.HandleLine("//etc/hosts: what is this?"))
	assert.Contains(t, out.String(), "You said: /etc/hosts: what is this?")
	assert.NotContains(t, out.String(), "unknown command")
	assert.Len(t, app.Controller.Messages(), 2)
}

func TestChatCLI_HistoryKeepsOnlyCommands(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chat_history")
	require.NoError(t, os.WriteFile(path, []byte("old secret message\n/params\n"), 0o600))

	c := NewChatCLI(path)
	c.Remember("hello, this is private")
	c.Remember("//etc/hosts question")
	c.Remember("  /preset code_generation ")
	require.NoError(t, c.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	got := string(data)
	assert.Contains(t, got, "/params")
	assert.Contains(t, got, "/preset code_generation")
	assert.NotContains(t, got, "private")
	assert.NotContains(t, got, "secret")
	assert.NotContains(t, got, "etc/hosts")
}

func TestREPL_RunStopsAtEOF(t *testing.T) {
	app := newTestApp(t, nil)
	r := NewREPL(context.Background(), app, io.Discard)

	require.NoError(t, r.Run(&scriptedReader{lines: []string{"hello"}}))
	assert.Len(t, app.Controller.Messages(), 2)
}

// =============================================================================
// INFO AND STATUS TESTS
// =============================================================================

func TestHandleSessions(t *testing.T) {
	app := newTestApp(t, nil)
	require.NoError(t, HandleAsk(context.Background(), app, Args{Query: "remember me"}, io.Discard))

	var out bytes.Buffer
	require.NoError(t, HandleSessions(context.Background(), app, &out))
	assert.Contains(t, out.String(), "Sessions (1)")
	assert.Contains(t, out.String(), "remember me")
	assert.Contains(t, out.String(), "(2 messages)")
}

func TestHandleSessions_Unreachable(t *testing.T) {
	dir := isolateHome(t)
	app := connectApp(t, Args{ConfigPath: writeConfig(t, dir, unreachableURL(t))})

	err := HandleSessions(context.Background(), app, io.Discard)
	require.Error(t, err)
	assert.True(t, backend.IsNetwork(err))
}

func TestHandlePresets(t *testing.T) {
	var out bytes.Buffer
	HandlePresets(&out)
	for _, key := range params.PresetKeys() {
		assert.Contains(t, out.String(), key)
	}
}

func TestHandleWhoami(t *testing.T) {
	app := newTestApp(t, nil)
	var out bytes.Buffer
	HandleWhoami(app, &out)
	assert.Equal(t, app.UserID+"\n", out.String())
}

func TestHandleStatus_Reachable(t *testing.T) {
	app := newTestApp(t, nil)
	var out bytes.Buffer

	require.NoError(t, HandleStatus(context.Background(), app, &out))
	assert.Contains(t, out.String(), "reachable")
	assert.Contains(t, out.String(), app.UserID)
	assert.Contains(t, out.String(), app.ConfigPath)
	assert.Contains(t, out.String(), app.Config.Log.File)
}

func TestHandleStatus_Unreachable(t *testing.T) {
	dir := isolateHome(t)
	app := connectApp(t, Args{ConfigPath: writeConfig(t, dir, unreachableURL(t))})
	var out bytes.Buffer

	err := HandleStatus(context.Background(), app, &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "unreachable")
	assert.Contains(t, out.String(), "unavailable")
}

func TestCollectStatus_RunsBothProbes(t *testing.T) {
	app := newTestApp(t, nil)
	require.NoError(t, HandleAsk(context.Background(), app, Args{Query: "x"}, io.Discard))

	report := CollectStatus(context.Background(), app)
	assert.True(t, report.Reachable())
	assert.NoError(t, report.SessionsErr)
	assert.Equal(t, 1, report.SessionCount)
	assert.Equal(t, "gemma-3-270m-it", report.Health.Model)
}

// =============================================================================
// CONFIG COMMAND TESTS
// =============================================================================

func TestHandleConfig_InitShowPath(t *testing.T) {
	isolateHome(t)
	var out bytes.Buffer

	require.NoError(t, HandleConfig(Args{Subcommand: "path"}, &out))
	assert.Contains(t, out.String(), "not created yet")

	out.Reset()
	require.NoError(t, HandleConfig(Args{Subcommand: "init"}, &out))
	assert.Contains(t, out.String(), "Wrote")

	want, err := config.ConfigPathTOML()
	require.NoError(t, err)
	assert.FileExists(t, want)

	out.Reset()
	require.NoError(t, HandleConfig(Args{Subcommand: "path"}, &out))
	assert.Equal(t, want+"\n", out.String())

	out.Reset()
	require.NoError(t, HandleConfig(Args{Subcommand: "show"}, &out))
	assert.Contains(t, out.String(), want)
	assert.Contains(t, out.String(), "[backend]")

	err = HandleConfig(Args{Subcommand: "init"}, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestHandleConfig_ExplicitPath(t *testing.T) {
	dir := isolateHome(t)
	path := filepath.Join(dir, "custom", "gemmachat.yaml")

	require.NoError(t, HandleConfig(Args{Subcommand: "init", ConfigPath: path}, io.Discard))
	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, backend.DefaultBaseURL, cfg.Backend.URL)

	var out bytes.Buffer
	require.NoError(t, HandleConfig(Args{Subcommand: "path", ConfigPath: path}, &out))
	assert.Equal(t, path+"\n", out.String())
}

// =============================================================================
// DEV SERVER TESTS
// =============================================================================

func TestDevServerConfig_PortFlagWins(t *testing.T) {
	cfg := config.Default()
	cfg.DevServer.ModelName = "gemma-test"

	sc := devServerConfig(cfg, Args{}, nil)
	assert.Equal(t, server.Addr(cfg.DevServer.Port), sc.Addr)
	assert.Equal(t, "gemma-test", sc.ModelName)

	sc = devServerConfig(cfg, Args{Port: 9100}, nil)
	assert.Equal(t, "127.0.0.1:9100", sc.Addr)
}

func TestServeUntilDone(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	cfg := server.DefaultConfig()
	cfg.RatePerSec = 0
	srv := server.New(cfg, nil)

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- serveUntilDone(ctx, srv, ln, &out) }()

	client := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL: "http://" + ln.Addr().String(),
		Timeout: 2 * time.Second,
	})
	require.Eventually(t, func() bool {
		status, err := client.Health(context.Background())
		return err == nil && status.StatusCode == 200
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeUntilDone_CancelledBeforeStart(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() { done <- serveUntilDone(ctx, server.New(nil, nil), ln, io.Discard) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("serveUntilDone hung")
	}
}

// =============================================================================
// OUTPUT TESTS
// =============================================================================

func TestRenderReply(t *testing.T) {
	msgs := model.AnnotateLast(
		[]model.Message{model.NewUserMessage("q"), model.NewAssistantMessage("plain **answer**")},
		params.DefaultParams(), 1500*time.Millisecond, model.ModelMeta{Model: "gemma", Device: "cpu", Dtype: "float32"},
	)
	reply, ok := lastReply(msgs)
	require.True(t, ok)

	got := renderReply(reply, config.UIConfig{ShowStats: true}, 80)
	assert.Contains(t, got, "plain **answer**")
	assert.Contains(t, got, "1.50s · gemma · cpu · float32")

	got = renderReply(reply, config.UIConfig{Markdown: true}, 80)
	assert.Contains(t, got, "answer")
	assert.NotContains(t, got, "1.50s")

	_, ok = lastReply([]model.Message{model.NewUserMessage("pending")})
	assert.False(t, ok)
}

func TestPrintSessions_MarksActive(t *testing.T) {
	var out bytes.Buffer
	printSessions(&out, nil, "")
	assert.Contains(t, out.String(), "No conversations yet.")

	app := newTestApp(t, nil)
	require.NoError(t, HandleAsk(context.Background(), app, Args{Query: "active one"}, io.Discard))

	out.Reset()
	printSessions(&out, app.Controller.Sessions().Summaries(), app.Controller.SessionID())
	line := strings.TrimSpace(out.String())
	assert.True(t, strings.HasPrefix(line, "•"), line)
}

// =============================================================================
// TERMINAL TESTS
// =============================================================================

func TestColorsFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		tty  bool
		want bool
	}{
		{"tty", nil, true, true},
		{"pipe", nil, false, false},
		{"no color beats tty", map[string]string{"NO_COLOR": "1"}, true, false},
		{"force color beats pipe", map[string]string{"FORCE_COLOR": "1"}, false, true},
		{"no color beats force", map[string]string{"NO_COLOR": "1", "FORCE_COLOR": "1"}, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			getenv := func(k string) string { return tt.env[k] }
			assert.Equal(t, tt.want, colorsFromEnv(getenv, tt.tty))
		})
	}
}

func TestRenderStatus(t *testing.T) {
	for _, s := range []string{"reachable", "unreachable", "pending"} {
		assert.Contains(t, RenderStatus(s), s)
	}
}
