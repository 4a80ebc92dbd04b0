// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/gaurav3000R/gemma-chat/internal/backend"
	"github.com/gaurav3000R/gemma-chat/internal/model"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// MaxBodyBytes bounds a /chat request body.
	MaxBodyBytes = 1 << 20

	// DefaultUserID and DefaultSessionID stand in for ids a caller omits.
	DefaultUserID    = "anonymous"
	DefaultSessionID = "default"
)

// requestDefaults are applied to parameters missing from a /chat body.
var requestDefaults = model.GenerationParams{
	MaxNewTokens:      200,
	Temperature:       0.7,
	TopP:              0.9,
	RepetitionPenalty: 1.1,
}

// ============================================================================
// CONFIGURATION
// ============================================================================

// Config holds development backend settings.
type Config struct {
	// Addr is the listen address (default: 127.0.0.1:8000).
	Addr string

	// ModelName, Device and Dtype are reported in every reply's meta.
	ModelName string
	Device    string
	Dtype     string

	// RatePerSec and Burst size the per-client limiter. RatePerSec <= 0
	// disables it.
	RatePerSec float64
	Burst      int

	CORS   *CORSConfig
	Logger *zap.Logger
}

// DefaultConfig returns the default server configuration.
func DefaultConfig() *Config {
	return &Config{
		Addr:       "127.0.0.1:8000",
		ModelName:  "gemma-3-270m-it",
		Device:     "cpu",
		Dtype:      "float32",
		RatePerSec: 5,
		Burst:      10,
		CORS:       DefaultCORSConfig(),
	}
}

// Addr formats a loopback listen address for port.
func Addr(port int) string {
	return fmt.Sprintf("127.0.0.1:%d", port)
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the development backend.
type Server struct {
	cfg     Config
	gen     Generator
	history *History
	limiter *RateLimiter
	logger  *zap.Logger
	handler http.Handler
	now     func() time.Time

	mu     sync.Mutex
	server *http.Server
}

// New creates a server. A nil cfg uses DefaultConfig and a nil gen uses
// EchoGenerator.
func New(cfg *Config, gen Generator) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	defaults := DefaultConfig()
	if c.Addr == "" {
		c.Addr = defaults.Addr
	}
	if c.ModelName == "" {
		c.ModelName = defaults.ModelName
	}
	if c.Device == "" {
		c.Device = defaults.Device
	}
	if c.Dtype == "" {
		c.Dtype = defaults.Dtype
	}
	if c.CORS == nil {
		c.CORS = defaults.CORS
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	if gen == nil {
		gen = EchoGenerator{}
	}

	s := &Server{
		cfg:     c,
		gen:     gen,
		history: NewHistory(),
		limiter: NewRateLimiter(c.RatePerSec, c.Burst),
		logger:  c.Logger.Named("devserver"),
		now:     time.Now,
	}
	s.handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(Chain(
		middleware.RequestID,
		RecoveryMiddleware(s.logger),
		LoggingMiddleware(s.logger),
		CORSMiddleware(s.cfg.CORS),
		RateLimitMiddleware(s.limiter),
	))

	r.Post("/chat", s.handleChat)
	r.Get("/get_chats/{user_id}", s.handleGetChats)
	r.Get("/health", s.handleHealth)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// History exposes the in-memory conversation store.
func (s *Server) History() *History {
	return s.history
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.cfg.Addr
}

func (s *Server) meta() model.ModelMeta {
	return model.ModelMeta{Model: s.cfg.ModelName, Device: s.cfg.Device, Dtype: s.cfg.Dtype}
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	start := s.now()

	req := backend.ChatRequest{GenerationParams: requestDefaults}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body: trailing data")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message must not be empty")
		return
	}
	if req.UserID == "" {
		req.UserID = DefaultUserID
	}
	if req.SessionID == "" {
		req.SessionID = DefaultSessionID
	}

	prior := s.history.Turns(req.UserID, req.SessionID)
	reply, err := s.gen.Generate(r.Context(), prior, req.Message, req.GenerationParams)
	if err != nil {
		s.logger.Error("generation failed",
			zap.String("user_id", req.UserID),
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "generation failed: "+err.Error())
		return
	}

	history := s.history.Append(req.UserID, req.SessionID, model.Turn{User: req.Message, Assistant: reply})
	params := req.GenerationParams
	latency := s.now().Sub(start).Seconds()

	s.logger.Debug("chat turn",
		zap.String("user_id", req.UserID),
		zap.String("session_id", req.SessionID),
		zap.Int("turns", len(history)),
		zap.Stringer("params", params),
	)

	writeJSON(w, http.StatusOK, backend.ChatResponse{
		History:    history,
		Params:     &params,
		LatencySec: &latency,
		Meta:       s.meta(),
	})
}

func (s *Server) handleGetChats(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	writeJSON(w, http.StatusOK, backend.SessionsResponse{Sessions: s.history.Sessions(userID)})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, backend.HealthResponse{Status: "ok", Model: s.cfg.ModelName})
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ln)
}

// Serve serves on ln until Shutdown. It returns http.ErrServerClosed after a
// graceful shutdown.
func (s *Server) Serve(ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	s.logger.Info("server started",
		zap.String("addr", ln.Addr().String()),
		zap.String("model", s.cfg.ModelName),
	)
	return srv.Serve(ln)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	s.logger.Info("server shutting down", zap.Int("users", s.history.Users()))
	return srv.Shutdown(ctx)
}

// ============================================================================
// HELPERS
// ============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a FastAPI-style {"detail": ...} body.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"detail": message})
}
