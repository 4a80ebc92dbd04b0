// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gaurav3000R/gemma-chat/internal/backend"
	"github.com/gaurav3000R/gemma-chat/internal/model"
)

type fakeFetcher struct {
	resp   *backend.SessionsResponse
	err    error
	userID string
}

func (f *fakeFetcher) GetChats(ctx context.Context, userID string) (*backend.SessionsResponse, error) {
	f.userID = userID
	return f.resp, f.err
}

func TestFetch_ExpandsTurns(t *testing.T) {
	f := &fakeFetcher{resp: &backend.SessionsResponse{Sessions: backend.Sessions{
		{ID: "s2", Turns: []model.Turn{{User: "Hi", Assistant: "Hello!"}, {User: "Bye", Assistant: "Later"}}},
		{ID: "s1", Turns: []model.Turn{}},
	}}}
	s := NewStore(nil)

	require.NoError(t, s.Fetch(context.Background(), f, "user-1"))
	assert.Equal(t, "user-1", f.userID)
	assert.NoError(t, s.LastError())
	assert.Equal(t, []string{"s2", "s1"}, s.IDs())

	msgs, ok := s.Get("s2")
	require.True(t, ok)
	require.Len(t, msgs, 4)
	assert.Equal(t, model.NewUserMessage("Hi"), msgs[0])
	assert.Equal(t, model.NewAssistantMessage("Hello!"), msgs[1])
	assert.Equal(t, model.NewUserMessage("Bye"), msgs[2])
	assert.Equal(t, model.NewAssistantMessage("Later"), msgs[3])

	empty, ok := s.Get("s1")
	require.True(t, ok)
	assert.Empty(t, empty)
}

func TestFetch_FailureIsSilent(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	s := NewStore(zap.New(core))
	s.Put("local", []model.Message{model.NewUserMessage("keep me")})

	boom := errors.New("connection refused")
	err := s.Fetch(context.Background(), &fakeFetcher{err: boom}, "u")

	assert.NoError(t, err, "fetch failures are swallowed")
	assert.ErrorIs(t, s.LastError(), boom)
	assert.Equal(t, 1, s.Len(), "store left unchanged")
	assert.Equal(t, 1, logs.FilterMessage("failed to fetch sessions").Len())
}

func TestFetch_EmptyOnFailureFromScratch(t *testing.T) {
	s := NewStore(zap.NewNop())
	_ = s.Fetch(context.Background(), &fakeFetcher{err: errors.New("x")}, "u")
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Summaries())
}

func TestPut_ReplacesWholesale(t *testing.T) {
	s := NewStore(nil)
	s.Put("a", []model.Message{model.NewUserMessage("1"), model.NewAssistantMessage("2")})
	s.Put("b", nil)
	s.Put("a", []model.Message{model.NewUserMessage("3")})

	msgs, _ := s.Get("a")
	require.Len(t, msgs, 1)
	assert.Equal(t, "3", msgs[0].Text)
	assert.Equal(t, []string{"a", "b"}, s.IDs(), "re-put keeps original position")
	assert.True(t, s.Has("b"))
	assert.False(t, s.Has("c"))
}

func TestGet_ReturnsCopy(t *testing.T) {
	s := NewStore(nil)
	s.Put("a", []model.Message{model.NewUserMessage("orig")})

	msgs, _ := s.Get("a")
	msgs[0].Text = "mutated"

	again, _ := s.Get("a")
	assert.Equal(t, "orig", again[0].Text)

	_, ok := s.Get("missing")
	assert.False(t, ok)
}

func TestSummaries(t *testing.T) {
	s := NewStore(nil)
	s.Put("a", []model.Message{model.NewUserMessage("What is the capital of France?"), model.NewAssistantMessage("Paris")})
	s.Put("b", nil)

	sums := s.Summaries()
	require.Len(t, sums, 2)
	assert.Equal(t, Summary{ID: "a", Title: "What is the capital of France?", MessageCount: 2}, sums[0])
	assert.Equal(t, Summary{ID: "b", Title: untitled, MessageCount: 0}, sums[1])
}

func TestResolve(t *testing.T) {
	s := NewStore(nil)
	s.Put("abc123", nil)
	s.Put("abd456", nil)

	tests := []struct {
		prefix string
		want   string
		ok     bool
	}{
		{"abc123", "abc123", true},
		{"abc", "abc123", true},
		{"abd", "abd456", true},
		{"ab", "", false},
		{"zz", "", false},
		{"", "", false},
	}
	for _, tc := range tests {
		got, ok := s.Resolve(tc.prefix)
		assert.Equal(t, tc.ok, ok, tc.prefix)
		assert.Equal(t, tc.want, got, tc.prefix)
	}
}
