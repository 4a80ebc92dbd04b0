// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the in-memory map of chat sessions.
//
// The store is seeded once from the backend and then kept in step with the
// canonical histories returned after each chat round trip. The backend is
// authoritative: entries are replaced wholesale, never merged.
//
// # Usage
//
//	store := session.NewStore(logger)
//	_ = store.Fetch(ctx, client, userID) // failures are logged, not returned
//	for _, s := range store.Summaries() {
//	    fmt.Println(s.ID, s.Title)
//	}
package session
