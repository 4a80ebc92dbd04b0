// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for gemmachat.
//
// Supports TOML, YAML and JSON configuration files, with defaults,
// .env files, environment variable overrides, validation and live reload.
//
// # Configuration File Locations
//
// In order of precedence:
//   - the path given with --config
//   - ~/.gemmachat/config.toml
//   - ~/.gemmachat/config.yaml (or config.yml)
//   - ~/.gemmachat/config.json
//   - built-in defaults
//
// GEMMACHAT_HOME overrides the ~/.gemmachat directory.
//
// # Environment Variables
//
//   - GEMMACHAT_URL: backend base URL
//   - GEMMACHAT_TIMEOUT_SECS: request timeout, 0 for none
//   - GEMMACHAT_PRESET: preset applied at startup
//   - GEMMACHAT_TEMPERATURE, GEMMACHAT_MAX_NEW_TOKENS, GEMMACHAT_TOP_P,
//     GEMMACHAT_REPETITION_PENALTY: default slider values
//   - GEMMACHAT_THEME, GEMMACHAT_MARKDOWN, GEMMACHAT_SHOW_STATS
//   - GEMMACHAT_LOG_LEVEL, GEMMACHAT_LOG_FILE
//   - GEMMACHAT_DB: path of the local key-value database
//   - GEMMACHAT_DEV_PORT, GEMMACHAT_DEV_MODEL
//
// Variables may also be set in a .env file in the working directory or the
// config directory. Variables already present in the environment win.
//
// # Example
//
//	[backend]
//	url = "http://127.0.0.1:8000"
//
//	[defaults]
//	preset = "concise_answer"
//
//	[ui]
//	theme = "dark"
package config
