// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package identity

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav3000R/gemma-chat/internal/storage"
)

func TestGetOrCreateUserID_Stable(t *testing.T) {
	kv := storage.NewMemoryKV()
	m := NewManager(kv)
	ctx := context.Background()

	first, err := m.GetOrCreateUserID(ctx)
	require.NoError(t, err)
	_, err = uuid.Parse(first)
	require.NoError(t, err, "identifier should be a UUID")

	for i := 0; i < 3; i++ {
		again, err := m.GetOrCreateUserID(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, 1, kv.Len())
}

func TestGetOrCreateUserID_UsesExisting(t *testing.T) {
	kv := storage.NewMemoryKV()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, StorageKey, "existing-id"))

	m := NewManager(kv)
	m.newID = func() string {
		t.Fatal("must not generate when an id is stored")
		return ""
	}

	id, err := m.GetOrCreateUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "existing-id", id)
}

func TestGetOrCreateUserID_FreshStoreGetsNewID(t *testing.T) {
	a, err := NewManager(storage.NewMemoryKV()).GetOrCreateUserID(context.Background())
	require.NoError(t, err)
	b, err := NewManager(storage.NewMemoryKV()).GetOrCreateUserID(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestGetOrCreateUserID_PersistsInSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.db")
	ctx := context.Background()

	kv, err := storage.OpenSQLite(path)
	require.NoError(t, err)
	first, err := NewManager(kv).GetOrCreateUserID(ctx)
	require.NoError(t, err)
	require.NoError(t, kv.Close())

	kv, err = storage.OpenSQLite(path)
	require.NoError(t, err)
	defer kv.Close()
	second, err := NewManager(kv).GetOrCreateUserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGetOrCreateUserID_StoreError(t *testing.T) {
	kv := storage.NewMemoryKV()
	require.NoError(t, kv.Close())

	_, err := NewManager(kv).GetOrCreateUserID(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrClosed))
}
