// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package identity keeps the stable per-install user identifier.
package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gaurav3000R/gemma-chat/internal/storage"
)

// StorageKey is the key under which the identifier is persisted.
const StorageKey = "gemma_user_id"

// Manager reads or creates the user identifier in a KV store.
type Manager struct {
	kv    storage.KV
	newID func() string
	mu    sync.Mutex
}

// NewManager creates a manager over kv.
func NewManager(kv storage.KV) *Manager {
	return &Manager{kv: kv, newID: NewID}
}

// NewID returns a random UUID v4 string.
func NewID() string {
	return uuid.NewString()
}

// GetOrCreateUserID returns the stored identifier, generating and storing a
// new one only when the store has no entry.
func (m *Manager) GetOrCreateUserID(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok, err := m.kv.Get(ctx, StorageKey)
	if err != nil {
		return "", fmt.Errorf("failed to read user id: %w", err)
	}
	if ok && id != "" {
		return id, nil
	}

	id = m.newID()
	if err := m.kv.Set(ctx, StorageKey, id); err != nil {
		return "", fmt.Errorf("failed to store user id: %w", err)
	}
	return id, nil
}
