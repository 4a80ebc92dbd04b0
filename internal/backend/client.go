// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ErrorType categorizes client errors. The backend contract distinguishes
// only two failure kinds.
type ErrorType int

const (
	// ErrTypeNetwork covers transport failures and unreadable or malformed bodies.
	ErrTypeNetwork ErrorType = iota
	// ErrTypeHTTP covers non-2xx responses.
	ErrTypeHTTP
)

func (t ErrorType) String() string {
	switch t {
	case ErrTypeHTTP:
		return "http"
	default:
		return "network"
	}
}

// ClientError represents an error from the backend client.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// IsHTTP reports whether err is a non-2xx response error.
func IsHTTP(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeHTTP
}

// IsNetwork reports whether err is a transport or parse error.
func IsNetwork(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrTypeNetwork
}

func networkError(msg string, cause error) *ClientError {
	return &ClientError{Type: ErrTypeNetwork, Message: msg, Cause: cause}
}

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// DefaultBaseURL is the fixed local endpoint of the inference backend.
// Uses an explicit IPv4 address to avoid IPv6 localhost resolution.
const DefaultBaseURL = "http://127.0.0.1:8000"

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the backend base URL (default: http://127.0.0.1:8000)
	BaseURL string

	// Timeout per request. Zero means no timeout.
	Timeout time.Duration

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: DefaultBaseURL,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the backend's chat and history endpoints.
// It makes exactly one attempt per call: no retries, no backoff.
//
// The Client is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client with the default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// CHAT
// =============================================================================

// Chat sends one user message with generation parameters and returns the
// server's canonical history for the session.
func (c *Client) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, networkError("failed to marshal request", err)
	}

	var result ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", body, &result); err != nil {
		return nil, err
	}

	if result.History == nil {
		return nil, networkError("malformed chat response", errors.New("missing history"))
	}

	return &result, nil
}

// GetChats returns all sessions the backend holds for userID.
func (c *Client) GetChats(ctx context.Context, userID string) (*SessionsResponse, error) {
	var result SessionsResponse
	if err := c.do(ctx, http.MethodGet, "/get_chats/"+url.PathEscape(userID), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// HealthStatus is the outcome of a reachability probe.
type HealthStatus struct {
	StatusCode int
	Latency    time.Duration
	Model      string
}

// Health probes GET /health. Any HTTP response counts as reachable; only a
// transport failure returns an error.
func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return nil, networkError("failed to create request", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, networkError("backend not reachable at "+c.baseURL, err)
	}
	defer resp.Body.Close()

	status := &HealthStatus{StatusCode: resp.StatusCode, Latency: time.Since(start)}
	if resp.StatusCode == http.StatusOK {
		var body HealthResponse
		if json.NewDecoder(resp.Body).Decode(&body) == nil {
			status.Model = body.Model
		}
	}
	return status, nil
}

// =============================================================================
// TRANSPORT
// =============================================================================

// do performs one request and decodes a 2xx JSON body into out.
func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return networkError("failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return networkError(fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("%s %s: %s", method, path, resp.Status)
		var eb errorBody
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if json.Unmarshal(raw, &eb) == nil && eb.message() != "" {
			msg += ": " + eb.message()
		}
		return &ClientError{Type: ErrTypeHTTP, Message: msg, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return networkError("failed to decode response", err)
	}
	return nil
}
