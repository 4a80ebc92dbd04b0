// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/gaurav3000R/gemma-chat/internal/backend"
	"github.com/gaurav3000R/gemma-chat/internal/logging"
	"github.com/gaurav3000R/gemma-chat/internal/model"
	"github.com/gaurav3000R/gemma-chat/internal/params"
	"github.com/gaurav3000R/gemma-chat/internal/storage"
	"github.com/gaurav3000R/gemma-chat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete gemmachat configuration.
type Config struct {
	Backend   BackendConfig   `toml:"backend" yaml:"backend" json:"backend"`
	Defaults  DefaultsConfig  `toml:"defaults" yaml:"defaults" json:"defaults"`
	UI        UIConfig        `toml:"ui" yaml:"ui" json:"ui"`
	Log       LogConfig       `toml:"log" yaml:"log" json:"log"`
	Storage   StorageConfig   `toml:"storage" yaml:"storage" json:"storage"`
	DevServer DevServerConfig `toml:"dev_server" yaml:"dev_server" json:"dev_server"`
}

// BackendConfig locates the inference backend.
type BackendConfig struct {
	// URL is the backend base URL.
	URL string `toml:"url" yaml:"url" json:"url" env:"GEMMACHAT_URL"`

	// TimeoutSecs bounds each request. 0 waits indefinitely.
	TimeoutSecs int `toml:"timeout_secs" yaml:"timeout_secs" json:"timeout_secs" env:"GEMMACHAT_TIMEOUT_SECS"`
}

// DefaultsConfig holds the hyperparameters the panel starts with.
type DefaultsConfig struct {
	Temperature       float64 `toml:"temperature" yaml:"temperature" json:"temperature" env:"GEMMACHAT_TEMPERATURE"`
	MaxNewTokens      int     `toml:"max_new_tokens" yaml:"max_new_tokens" json:"max_new_tokens" env:"GEMMACHAT_MAX_NEW_TOKENS"`
	TopP              float64 `toml:"top_p" yaml:"top_p" json:"top_p" env:"GEMMACHAT_TOP_P"`
	RepetitionPenalty float64 `toml:"repetition_penalty" yaml:"repetition_penalty" json:"repetition_penalty" env:"GEMMACHAT_REPETITION_PENALTY"`

	// Preset, when set, is applied over the slider values at startup.
	Preset string `toml:"preset" yaml:"preset" json:"preset" env:"GEMMACHAT_PRESET"`
}

// UIConfig holds presentation preferences. These are applied live on reload.
type UIConfig struct {
	// Theme is auto, dark or light.
	Theme string `toml:"theme" yaml:"theme" json:"theme" env:"GEMMACHAT_THEME"`

	// Markdown renders assistant replies with glamour.
	Markdown bool `toml:"markdown" yaml:"markdown" json:"markdown" env:"GEMMACHAT_MARKDOWN"`

	// ShowStats shows latency, model and parameters under replies.
	ShowStats bool `toml:"show_stats" yaml:"show_stats" json:"show_stats" env:"GEMMACHAT_SHOW_STATS"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Level      string `toml:"level" yaml:"level" json:"level" env:"GEMMACHAT_LOG_LEVEL"`
	File       string `toml:"file" yaml:"file" json:"file" env:"GEMMACHAT_LOG_FILE"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb" json:"max_size_mb"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days" json:"max_age_days"`
}

// StorageConfig locates the local key-value database.
type StorageConfig struct {
	Path string `toml:"path" yaml:"path" json:"path" env:"GEMMACHAT_DB"`
}

// DevServerConfig configures the development backend.
type DevServerConfig struct {
	Port       int     `toml:"port" yaml:"port" json:"port" env:"GEMMACHAT_DEV_PORT"`
	ModelName  string  `toml:"model_name" yaml:"model_name" json:"model_name" env:"GEMMACHAT_DEV_MODEL"`
	RatePerSec float64 `toml:"rate_per_sec" yaml:"rate_per_sec" json:"rate_per_sec"`
	Burst      int     `toml:"burst" yaml:"burst" json:"burst"`
}

// Default returns the built-in configuration.
func Default() *Config {
	p := params.DefaultParams()
	return &Config{
		Backend: BackendConfig{
			URL: backend.DefaultBaseURL,
		},
		Defaults: DefaultsConfig{
			Temperature:       p.Temperature,
			MaxNewTokens:      p.MaxNewTokens,
			TopP:              p.TopP,
			RepetitionPenalty: p.RepetitionPenalty,
		},
		UI: UIConfig{
			Theme:     "auto",
			Markdown:  true,
			ShowStats: true,
		},
		Log: LogConfig{
			Level:      "info",
			File:       logging.DefaultFile(),
			MaxSizeMB:  10,
			MaxAgeDays: 14,
		},
		Storage: StorageConfig{
			Path: storage.DefaultPath(),
		},
		DevServer: DevServerConfig{
			Port:       8000,
			ModelName:  "gemma-3-270m-it",
			RatePerSec: 5,
			Burst:      10,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the gemmachat configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv("GEMMACHAT_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".gemmachat"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// candidatePaths lists config files in lookup order.
func candidatePaths() []string {
	dir, err := ConfigDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(dir, "config.toml"),
		filepath.Join(dir, "config.yaml"),
		filepath.Join(dir, "config.yml"),
		filepath.Join(dir, "config.json"),
	}
}

// FindConfigFile returns the first existing config file, or "".
func FindConfigFile() string {
	for _, p := range candidatePaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load finds and loads the config file, falling back to defaults when none
// exists. It returns the path that was loaded ("" for defaults).
func Load() (*Config, string, error) {
	path := FindConfigFile()
	if path == "" {
		cfg, err := finish(Default())
		return cfg, "", err
	}
	cfg, err := LoadFromPath(path)
	return cfg, path, err
}

// LoadFromPath loads configuration from a specific file. The format is
// chosen by extension; anything other than .json, .yaml or .yml is TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := decodeFile(cfg, path); err != nil {
		return nil, err
	}
	return finish(cfg)
}

// Parse decodes config data in the given format ("toml", "yaml", "json")
// over the defaults, then applies environment overrides and validation.
func Parse(data []byte, format string) (*Config, error) {
	cfg := Default()
	if err := decode(cfg, data, format); err != nil {
		return nil, err
	}
	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	LoadDotEnv()
	if err := cfg.ApplyEnvOverrides(); err != nil {
		return nil, fmt.Errorf("invalid environment override: %w", err)
	}
	fillDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "toml"
	}
}

func decodeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := decode(cfg, data, formatOf(path)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func decode(cfg *Config, data []byte, format string) error {
	switch format {
	case "json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
	case "yaml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to decode YAML: %w", err)
		}
	case "toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("failed to decode TOML: %w", err)
		}
	default:
		return fmt.Errorf("unknown config format %q", format)
	}
	return nil
}

// LoadDotEnv loads .env from the working directory and the config directory.
// Existing environment variables are never overwritten.
func LoadDotEnv() {
	files := []string{".env"}
	if dir, err := ConfigDir(); err == nil {
		files = append(files, filepath.Join(dir, ".env"))
	}
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			_ = godotenv.Load(f)
		}
	}
}

// ApplyEnvOverrides applies GEMMACHAT_* environment variables.
func (c *Config) ApplyEnvOverrides() error {
	return cleanenv.ReadEnv(c)
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Backend.URL == "" {
		cfg.Backend.URL = defaults.Backend.URL
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = defaults.Log.MaxSizeMB
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = defaults.Log.MaxAgeDays
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = defaults.Storage.Path
	}
	if cfg.DevServer.Port == 0 {
		cfg.DevServer.Port = defaults.DevServer.Port
	}
	if cfg.DevServer.ModelName == "" {
		cfg.DevServer.ModelName = defaults.DevServer.ModelName
	}
	if cfg.DevServer.RatePerSec == 0 {
		cfg.DevServer.RatePerSec = defaults.DevServer.RatePerSec
	}
	if cfg.DevServer.Burst == 0 {
		cfg.DevServer.Burst = defaults.DevServer.Burst
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

const fileHeader = `# gemmachat configuration file
# Generated by gemmachat - edit with care
#
# Environment variables (GEMMACHAT_*) override these values.

`

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveFile(cfg, path)
}

// SaveFile writes cfg to path in the format implied by its extension.
// Files are written atomically with 0600 permissions.
func SaveFile(cfg *Config, path string) error {
	var buf bytes.Buffer

	switch formatOf(path) {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		buf.Write(data)
		buf.WriteByte('\n')
	case "yaml":
		buf.WriteString(fileHeader)
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		enc.Close()
	default:
		buf.WriteString(fileHeader)
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	u, err := url.Parse(c.Backend.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "backend.url",
			Message: fmt.Sprintf("invalid URL %q, must be http(s)://host[:port]", c.Backend.URL),
		})
	}
	if c.Backend.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{Field: "backend.timeout_secs", Message: "must not be negative"})
	}

	if err := params.InBounds(c.Params()); err != nil {
		errs = append(errs, ValidationError{Field: "defaults", Message: err.Error()})
	}
	if c.Defaults.Preset != "" && c.Defaults.Preset != params.CustomKey {
		if _, ok := params.LookupPreset(c.Defaults.Preset); !ok {
			errs = append(errs, ValidationError{
				Field:   "defaults.preset",
				Message: fmt.Sprintf("unknown preset '%s', must be one of: %s", c.Defaults.Preset, strings.Join(params.PresetKeys(), ", ")),
			})
		}
	}

	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, ValidationError{Field: "log.level", Message: err.Error()})
	}

	if c.DevServer.Port < 1 || c.DevServer.Port > 65535 {
		errs = append(errs, ValidationError{Field: "dev_server.port", Message: fmt.Sprintf("port %d out of range", c.DevServer.Port)})
	}
	if c.DevServer.RatePerSec < 0 || c.DevServer.Burst < 0 {
		errs = append(errs, ValidationError{Field: "dev_server", Message: "rate_per_sec and burst must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Params returns the default slider values.
func (c *Config) Params() model.GenerationParams {
	return model.GenerationParams{
		MaxNewTokens:      c.Defaults.MaxNewTokens,
		Temperature:       c.Defaults.Temperature,
		TopP:              c.Defaults.TopP,
		RepetitionPenalty: c.Defaults.RepetitionPenalty,
	}
}

// NewPanel builds the hyperparameter panel from the defaults section,
// applying the configured preset if any.
func (c *Config) NewPanel() *params.Panel {
	panel := params.NewPanel(c.Params())
	if c.Defaults.Preset != "" && c.Defaults.Preset != params.CustomKey {
		_ = panel.ApplyPreset(c.Defaults.Preset)
	}
	return panel
}

// BackendTimeout returns the request timeout, 0 for none.
func (c *Config) BackendTimeout() time.Duration {
	return time.Duration(c.Backend.TimeoutSecs) * time.Second
}

// LogConfig returns the logger configuration.
func (c *Config) LogConfig() logging.Config {
	return logging.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns the configuration as TOML.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return err.Error()
	}
	return buf.String()
}

// IsValidation reports whether err contains validation errors.
func IsValidation(err error) bool {
	var ve ValidateErrors
	return errors.As(err, &ve)
}
