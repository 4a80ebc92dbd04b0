// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local key-value store for gemmachat.
//
// The client persists exactly one value locally: the user identifier.
// Everything else lives on the backend.
//
// # Key Types
//
//   - KV: the key-value interface used by the identity manager
//   - SQLiteKV: file-backed store using the pure Go SQLite driver
//   - MemoryKV: map-backed store for tests and degraded startup
//
// # Usage
//
//	kv, err := storage.OpenSQLite(storage.DefaultPath())
//	if err != nil {
//	    return err
//	}
//	defer kv.Close()
//
//	id, ok, err := kv.Get(ctx, "gemma_user_id")
//
// # Storage Location
//
// The database lives at ~/.gemmachat/local.db.
package storage
