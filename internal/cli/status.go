// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command implementation.
//
// Command: status
// Aliases: s
//
// Probes the backend health endpoint and the session listing concurrently,
// then prints the identity, the active parameters and the local file paths.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/gaurav3000R/gemma-chat/internal/backend"
	"github.com/gaurav3000R/gemma-chat/internal/params"
)

// StatusReport is what the status probes found.
type StatusReport struct {
	Health    *backend.HealthStatus
	HealthErr error

	SessionCount int
	SessionsErr  error
}

// Reachable reports whether the health probe got any HTTP response.
func (r StatusReport) Reachable() bool {
	return r.HealthErr == nil && r.Health != nil
}

// CollectStatus runs the health and session probes in parallel.
func CollectStatus(ctx context.Context, app *App) StatusReport {
	var report StatusReport

	var wg conc.WaitGroup
	wg.Go(func() {
		report.Health, report.HealthErr = app.Client.Health(ctx)
	})
	wg.Go(func() {
		store := app.Controller.Sessions()
		_ = store.Fetch(ctx, app.Client, app.UserID)
		report.SessionsErr = store.LastError()
		report.SessionCount = store.Len()
	})
	wg.Wait()

	return report
}

// HandleStatus prints the status report. It returns an error when the
// backend is unreachable.
func HandleStatus(ctx context.Context, app *App, out io.Writer) error {
	report := CollectStatus(ctx, app)

	fmt.Fprintln(out, TitleStyle.Render("gemmachat status"))

	fmt.Fprintln(out, "Backend")
	printField(out, "URL", app.Client.BaseURL())
	if report.Reachable() {
		printField(out, "Status", RenderStatus("reachable")+DimStyle.Render(
			fmt.Sprintf(" (HTTP %d in %s)", report.Health.StatusCode, report.Health.Latency.Round(time.Millisecond))))
		if report.Health.Model != "" {
			printField(out, "Model", report.Health.Model)
		}
	} else {
		printField(out, "Status", RenderStatus("unreachable"))
		printField(out, "Error", fmt.Sprint(report.HealthErr))
	}
	if report.SessionsErr != nil {
		printField(out, "Sessions", WarningStyle.Render("unavailable"))
	} else {
		printField(out, "Sessions", fmt.Sprintf("%d", report.SessionCount))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Client")
	printField(out, "Identity", app.UserID)
	printField(out, "Preset", params.PresetLabel(app.Controller.Params().ActivePreset()))
	printField(out, "Parameters", app.Controller.Params().Params().String())
	printField(out, "Timeout", timeoutString(app.Config.BackendTimeout()))

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Paths")
	printField(out, "Config", configPathOrDefault(app.ConfigPath))
	printField(out, "Log", app.Config.Log.File)
	printField(out, "Database", app.Config.Storage.Path)
	printField(out, "History", DefaultHistoryFile())

	if !report.Reachable() {
		return NewCommandError("status", "health check", report.HealthErr)
	}
	return nil
}

func timeoutString(d time.Duration) string {
	if d <= 0 {
		return "none"
	}
	return d.String()
}
