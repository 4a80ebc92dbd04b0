// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav3000R/gemma-chat/internal/params"
)

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("GEMMACHAT_HOME", dir)
	for _, k := range []string{
		"GEMMACHAT_URL", "GEMMACHAT_TIMEOUT_SECS", "GEMMACHAT_PRESET",
		"GEMMACHAT_TEMPERATURE", "GEMMACHAT_MAX_NEW_TOKENS", "GEMMACHAT_TOP_P",
		"GEMMACHAT_REPETITION_PENALTY", "GEMMACHAT_THEME", "GEMMACHAT_MARKDOWN",
		"GEMMACHAT_SHOW_STATS", "GEMMACHAT_LOG_LEVEL", "GEMMACHAT_LOG_FILE",
		"GEMMACHAT_DB", "GEMMACHAT_DEV_PORT", "GEMMACHAT_DEV_MODEL",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	return dir
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "http://127.0.0.1:8000", cfg.Backend.URL)
	assert.Equal(t, params.DefaultParams(), cfg.Params())
	assert.Zero(t, cfg.BackendTimeout(), "no timeout by default")
	assert.True(t, cfg.UI.Markdown)
}

func TestLoad_NoFileUsesDefaults(t *testing.T) {
	isolate(t)
	cfg, path, err := Load()
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default().Backend, cfg.Backend)
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "config.toml", "[backend]\nurl = \"http://10.0.0.2:9000\"\n\n[defaults]\npreset = \"translation\"\n"},
		{"yaml", "config.yaml", "backend:\n  url: http://10.0.0.2:9000\ndefaults:\n  preset: translation\n"},
		{"yml", "config.yml", "backend:\n  url: http://10.0.0.2:9000\ndefaults:\n  preset: translation\n"},
		{"json", "config.json", `{"backend":{"url":"http://10.0.0.2:9000"},"defaults":{"preset":"translation"}}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, tc.file)
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0600))

			cfg, loaded, err := Load()
			require.NoError(t, err)
			assert.Equal(t, path, loaded)
			assert.Equal(t, "http://10.0.0.2:9000", cfg.Backend.URL)
			assert.Equal(t, "translation", cfg.Defaults.Preset)

			// Unspecified values keep their defaults.
			assert.Equal(t, 512, cfg.Defaults.MaxNewTokens)
			assert.True(t, cfg.UI.Markdown)
			assert.Equal(t, "auto", cfg.UI.Theme)
		})
	}
}

func TestLoad_TOMLWinsOverJSON(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"ui":{"theme":"light"}}`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[ui]\ntheme = \"dark\"\n"), 0600))

	cfg, path, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "config.toml", filepath.Base(path))
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("GEMMACHAT_URL", "http://192.168.1.5:8000")
	t.Setenv("GEMMACHAT_PRESET", "storytelling")
	t.Setenv("GEMMACHAT_TIMEOUT_SECS", "45")
	t.Setenv("GEMMACHAT_MARKDOWN", "false")
	t.Setenv("GEMMACHAT_TEMPERATURE", "0.33")

	cfg, err := Parse([]byte("[backend]\nurl = \"http://ignored:1\"\n"), "toml")
	require.NoError(t, err)
	assert.Equal(t, "http://192.168.1.5:8000", cfg.Backend.URL)
	assert.Equal(t, "storytelling", cfg.Defaults.Preset)
	assert.Equal(t, 45*time.Second, cfg.BackendTimeout())
	assert.False(t, cfg.UI.Markdown)
	assert.InDelta(t, 0.33, cfg.Defaults.Temperature, 1e-9)
}

func TestDotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GEMMACHAT_THEME=light\n"), 0600))
	t.Cleanup(func() { os.Unsetenv("GEMMACHAT_THEME") })

	cfg, _, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.UI.Theme)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad url", func(c *Config) { c.Backend.URL = "ftp://x" }, "backend.url"},
		{"no host", func(c *Config) { c.Backend.URL = "http://" }, "backend.url"},
		{"negative timeout", func(c *Config) { c.Backend.TimeoutSecs = -1 }, "backend.timeout_secs"},
		{"temperature out of range", func(c *Config) { c.Defaults.Temperature = 3 }, "defaults"},
		{"tokens out of range", func(c *Config) { c.Defaults.MaxNewTokens = 5 }, "defaults"},
		{"unknown preset", func(c *Config) { c.Defaults.Preset = "yolo" }, "defaults.preset"},
		{"bad theme", func(c *Config) { c.UI.Theme = "neon" }, "ui.theme"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad port", func(c *Config) { c.DevServer.Port = 70000 }, "dev_server.port"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, IsValidation(err))

			var ve ValidateErrors
			require.ErrorAs(t, err, &ve)
			require.Len(t, ve, 1)
			assert.Equal(t, tc.field, ve[0].Field)
		})
	}

	cfg := Default()
	cfg.Defaults.Preset = params.CustomKey
	assert.NoError(t, cfg.Validate(), "custom is an accepted preset value")
}

func TestLoadFromPath_Invalid(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0600))

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0600))
	_, err = LoadFromPath(path)
	require.Error(t, err)
	assert.False(t, IsValidation(err))
}

func TestSaveFile_RoundTrip(t *testing.T) {
	for _, name := range []string{"config.toml", "config.yaml", "config.json"} {
		t.Run(name, func(t *testing.T) {
			dir := isolate(t)
			path := filepath.Join(dir, name)

			cfg := Default()
			cfg.Backend.URL = "http://127.0.0.1:9999"
			cfg.Defaults.Preset = "brainstorming"
			cfg.UI.ShowStats = false
			require.NoError(t, SaveFile(cfg, path))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

			loaded, err := LoadFromPath(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestNewPanel(t *testing.T) {
	cfg := Default()
	assert.Equal(t, params.CustomKey, cfg.NewPanel().ActivePreset())

	cfg.Defaults.Preset = "code_generation"
	panel := cfg.NewPanel()
	assert.Equal(t, "code_generation", panel.ActivePreset())
	assert.Equal(t, 250, panel.Params().MaxNewTokens)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"dark\"\n"), 0600))

	changes := make(chan *Config, 4)
	w, err := Watch(path, 20*time.Millisecond, func(cfg *Config, err error) {
		if err == nil {
			changes <- cfg
		}
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[ui]\ntheme = \"light\"\n"), 0600))

	select {
	case cfg := <-changes:
		assert.Equal(t, "light", cfg.UI.Theme)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatch_NoPath(t *testing.T) {
	_, err := Watch("", 0, func(*Config, error) {})
	assert.Error(t, err)
}
