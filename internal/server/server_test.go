// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gaurav3000R/gemma-chat/internal/backend"
	"github.com/gaurav3000R/gemma-chat/internal/model"
)

func newTestServer(t *testing.T, gen Generator) (*Server, *backend.Client) {
	t.Helper()
	cfg := DefaultConfig()
	cfg.RatePerSec = 0
	s := New(cfg, gen)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, backend.NewClientWithConfig(&backend.ClientConfig{BaseURL: ts.URL})
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat_RoundTripThroughClient(t *testing.T) {
	_, client := newTestServer(t, nil)
	ctx := context.Background()
	params := model.GenerationParams{MaxNewTokens: 100, Temperature: 0.2, TopP: 0.9, RepetitionPenalty: 1.05}

	resp, err := client.Chat(ctx, backend.ChatRequest{UserID: "u1", SessionID: "s1", Message: "Hello there", GenerationParams: params})
	require.NoError(t, err)
	require.Len(t, resp.History, 1)
	assert.Equal(t, "Hello there", resp.History[0].User)
	assert.Contains(t, resp.History[0].Assistant, "You said: Hello there")
	require.NotNil(t, resp.Params)
	assert.Equal(t, params, *resp.Params)
	require.NotNil(t, resp.LatencySec)
	assert.GreaterOrEqual(t, *resp.LatencySec, 0.0)
	assert.Equal(t, model.ModelMeta{Model: "gemma-3-270m-it", Device: "cpu", Dtype: "float32"}, resp.Meta)

	resp, err = client.Chat(ctx, backend.ChatRequest{UserID: "u1", SessionID: "s1", Message: "Again", GenerationParams: params})
	require.NoError(t, err)
	require.Len(t, resp.History, 2)
	assert.Equal(t, "Again", resp.History[1].User)
	assert.Contains(t, resp.History[1].Assistant, "turn 2")
}

func TestChat_DoesNotClampParams(t *testing.T) {
	_, client := newTestServer(t, nil)
	params := model.GenerationParams{MaxNewTokens: 99999, Temperature: 9, TopP: 3, RepetitionPenalty: 0}

	resp, err := client.Chat(context.Background(), backend.ChatRequest{UserID: "u", SessionID: "s", Message: "x", GenerationParams: params})
	require.NoError(t, err)
	assert.Equal(t, params, *resp.Params)
}

func TestChat_MissingFieldsUseDefaults(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := post(t, s.Handler(), "/chat", `{"message":"hi"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp backend.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, requestDefaults, *resp.Params)
	assert.Len(t, s.History().Turns(DefaultUserID, DefaultSessionID), 1)
}

func TestChat_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"message":`},
		{"wrong type", `{"message":"hi","max_new_tokens":"lots"}`},
		{"trailing data", `{"message":"hi"} {}`},
		{"empty message", `{"user_id":"u","session_id":"s","message":""}`},
		{"whitespace message", `{"message":"  \n\t"}`},
		{"missing message", `{"user_id":"u"}`},
	}

	s, _ := newTestServer(t, nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := post(t, s.Handler(), "/chat", tc.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["detail"])
		})
	}
	assert.Zero(t, s.History().Users())
}

func TestChat_GeneratorFailure(t *testing.T) {
	gen := GeneratorFunc(func(ctx context.Context, history []model.Turn, message string, p model.GenerationParams) (string, error) {
		return "", errors.New("CUDA out of memory")
	})
	s, client := newTestServer(t, gen)

	_, err := client.Chat(context.Background(), backend.ChatRequest{UserID: "u", SessionID: "s", Message: "hi"})
	require.Error(t, err)
	assert.True(t, backend.IsHTTP(err))
	assert.Contains(t, err.Error(), "CUDA out of memory")
	assert.Nil(t, s.History().Turns("u", "s"))
}

func TestChat_GeneratorSeesPriorTurns(t *testing.T) {
	var seen [][]model.Turn
	gen := GeneratorFunc(func(ctx context.Context, history []model.Turn, message string, p model.GenerationParams) (string, error) {
		seen = append(seen, history)
		return "ok " + message, nil
	})
	_, client := newTestServer(t, gen)
	ctx := context.Background()

	for _, msg := range []string{"a", "b", "c"} {
		_, err := client.Chat(ctx, backend.ChatRequest{UserID: "u", SessionID: "s", Message: msg})
		require.NoError(t, err)
	}
	require.Len(t, seen, 3)
	assert.Empty(t, seen[0])
	assert.Equal(t, []model.Turn{{User: "a", Assistant: "ok a"}, {User: "b", Assistant: "ok b"}}, seen[2])
}

func TestChat_PanicIsRecovered(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	cfg := DefaultConfig()
	cfg.Logger = zap.New(core)
	gen := GeneratorFunc(func(ctx context.Context, history []model.Turn, message string, p model.GenerationParams) (string, error) {
		panic("boom")
	})
	s := New(cfg, gen)

	rec := post(t, s.Handler(), "/chat", `{"message":"hi"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
}

// =============================================================================
// SESSIONS TESTS
// =============================================================================

func TestGetChats(t *testing.T) {
	_, client := newTestServer(t, nil)
	ctx := context.Background()

	for _, sid := range []string{"zeta", "alpha", "zeta", "mid"} {
		_, err := client.Chat(ctx, backend.ChatRequest{UserID: "user 1", SessionID: sid, Message: "m"})
		require.NoError(t, err)
	}
	_, err := client.Chat(ctx, backend.ChatRequest{UserID: "other", SessionID: "x", Message: "m"})
	require.NoError(t, err)

	resp, err := client.GetChats(ctx, "user 1")
	require.NoError(t, err)
	require.Len(t, resp.Sessions, 3)
	assert.Equal(t, "zeta", resp.Sessions[0].ID)
	assert.Len(t, resp.Sessions[0].Turns, 2)
	assert.Equal(t, "alpha", resp.Sessions[1].ID)
	assert.Equal(t, "mid", resp.Sessions[2].ID)
}

func TestGetChats_UnknownUserIsEmptyObject(t *testing.T) {
	s, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/get_chats/nobody", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sessions":{}}`, rec.Body.String())
}

// =============================================================================
// HEALTH AND ROUTING TESTS
// =============================================================================

func TestHealth(t *testing.T) {
	_, client := newTestServer(t, nil)
	st, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, st.StatusCode)
	assert.Equal(t, "gemma-3-270m-it", st.Model)
}

func TestRouting_UnknownAndWrongMethod(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/models", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/chat", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := DefaultConfig()
	cfg.Logger = zap.New(core)
	s := New(cfg, nil)

	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/health", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
	assert.NotEmpty(t, fields["request_id"])
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestServeAndShutdown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(nil, nil)
	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	client := backend.NewClientWithConfig(&backend.ClientConfig{BaseURL: "http://" + ln.Addr().String(), Timeout: 2 * time.Second})
	require.Eventually(t, func() bool {
		_, err := client.Health(context.Background())
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))
	assert.ErrorIs(t, <-done, http.ErrServerClosed)
}

func TestShutdown_NotStarted(t *testing.T) {
	assert.NoError(t, New(nil, nil).Shutdown(context.Background()))
}

func TestNew_Defaults(t *testing.T) {
	s := New(&Config{}, nil)
	assert.Equal(t, "127.0.0.1:8000", s.Addr())
	assert.Equal(t, "127.0.0.1:9001", Addr(9001))
	assert.Equal(t, model.ModelMeta{Model: "gemma-3-270m-it", Device: "cpu", Dtype: "float32"}, s.meta())
}
