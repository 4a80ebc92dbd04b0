// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve.go - Development backend command.
//
// Command: serve-dev [--port N]
// Aliases: serve
//
// Runs an echoing backend that implements /chat, /get_chats and /health so
// the client can be tried without a model. Ctrl+C shuts it down gracefully.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/gaurav3000R/gemma-chat/internal/config"
	"github.com/gaurav3000R/gemma-chat/internal/server"
)

const shutdownTimeout = 5 * time.Second

// devServerConfig builds the server settings from the dev_server section,
// with --port taking precedence.
func devServerConfig(cfg *config.Config, args Args, logger *zap.Logger) *server.Config {
	port := cfg.DevServer.Port
	if args.Port > 0 {
		port = args.Port
	}

	sc := server.DefaultConfig()
	sc.Addr = server.Addr(port)
	sc.ModelName = cfg.DevServer.ModelName
	sc.RatePerSec = cfg.DevServer.RatePerSec
	sc.Burst = cfg.DevServer.Burst
	sc.Logger = logger
	return sc
}

// HandleServeDev runs the development backend until interrupted.
func HandleServeDev(ctx context.Context, app *App, args Args, out io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sc := devServerConfig(app.Config, args, app.Logger)
	ln, err := net.Listen("tcp", sc.Addr)
	if err != nil {
		return NewCommandError("serve-dev", "listen", err)
	}
	return serveUntilDone(ctx, server.New(sc, nil), ln, out)
}

// serveUntilDone serves on ln until ctx is cancelled or the server fails.
func serveUntilDone(ctx context.Context, srv *server.Server, ln net.Listener, out io.Writer) error {
	fmt.Fprintf(out, "%s http://%s %s\n",
		SuccessStyle.Render("Dev backend listening on"),
		ln.Addr().String(),
		DimStyle.Render("(Ctrl+C to stop)"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return NewCommandError("serve-dev", "serve", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return NewCommandError("serve-dev", "shutdown", err)
	}
	// Unblocks Serve if it had not registered its http.Server yet.
	_ = ln.Close()
	<-errCh
	fmt.Fprintln(out, DimStyle.Render("Dev backend stopped."))
	return nil
}
