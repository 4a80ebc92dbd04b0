// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides a development backend that speaks the chat wire
// contract without running a model.
//
// # Endpoints
//
//   - POST /chat                 - Append a turn and return the session history
//   - GET  /get_chats/{user_id}  - All sessions held for a user
//   - GET  /health               - Liveness probe
//
// Replies come from a Generator. EchoGenerator is deterministic, which makes
// the server suitable for demos and end-to-end tests of the client.
//
// # Usage
//
//	cfg := server.DefaultConfig()
//	cfg.Logger = logger
//	srv := server.New(cfg, server.EchoGenerator{})
//	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
//		return err
//	}
package server
