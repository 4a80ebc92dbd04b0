// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation holds the application state of a chat client.
//
// A Controller owns the user identity, the session store, the active
// session and its messages, and the hyperparameter panel. It is the only
// component that talks to the backend.
//
// # States
//
//	Idle ──Begin──> Sending ──Finish(ok)──> Idle
//	                   └─────Finish(err)──> IdleWithError
//
// # Usage
//
// A request is split in three so a UI loop can run the I/O off-thread:
//
//	pending, err := ctrl.Begin(input)   // optimistic append, on the UI thread
//	result := ctrl.Execute(ctx, pending) // network call, anywhere
//	ctrl.Finish(result)                  // canonical replace, on the UI thread
//
// Submit does all three in sequence for line-mode callers.
package conversation
