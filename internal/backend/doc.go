// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the Gemma inference backend.
//
// # Endpoints
//
//   - POST /chat: send a message, receive the session's canonical history
//   - GET /get_chats/{user_id}: list the sessions held for a user
//   - GET /health: reachability probe
//
// # Errors
//
// Every failure is a *ClientError of one of two kinds. ErrTypeHTTP is a
// non-2xx status. ErrTypeNetwork is a transport failure or an unreadable
// body. Use IsHTTP and IsNetwork to tell them apart.
//
// # Usage
//
//	client := backend.NewClientWithConfig(&backend.ClientConfig{
//	    BaseURL: "http://127.0.0.1:8000",
//	})
//	resp, err := client.Chat(ctx, backend.ChatRequest{
//	    UserID:           userID,
//	    SessionID:        sessionID,
//	    Message:          "Hello",
//	    GenerationParams: params,
//	})
package backend
