// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for nuvexa.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.nuvexa/config.toml
//   - ~/.nuvexa/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete nuvexa configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend API
	API APIConfig `toml:"api" json:"api"`

	// Terminal UI
	UI UIConfig `toml:"ui" json:"ui"`

	// File logging
	Logging LoggingConfig `toml:"logging" json:"logging"`

	// Transcript export
	Export ExportConfig `toml:"export" json:"export"`

	// Local stub backend (nuvexa serve)
	Server ServerConfig `toml:"server" json:"server"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	// BaseURL is the backend root, e.g. http://localhost:8000
	BaseURL string `toml:"base_url" json:"base_url"`

	// TimeoutSecs is the transport timeout for one request
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// Timeout returns the transport timeout as a duration.
func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	// Theme is "auto", "dark" or "light"
	Theme string `toml:"theme" json:"theme"`

	// DefaultMode is the mode selected at startup
	DefaultMode string `toml:"default_mode" json:"default_mode"`

	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`

	// Markdown enables glamour rendering of assistant replies
	Markdown bool `toml:"markdown" json:"markdown"`

	// WordWrap is the wrap width for non-interactive output
	WordWrap int `toml:"word_wrap" json:"word_wrap"`
}

// LoggingConfig contains log file settings.
type LoggingConfig struct {
	Level string `toml:"level" json:"level"`

	// File defaults to ~/.nuvexa/nuvexa.log
	File string `toml:"file" json:"file"`
}

// ExportConfig contains transcript export settings.
type ExportConfig struct {
	// Dir defaults to ~/.nuvexa/exports
	Dir string `toml:"dir" json:"dir"`

	// Format is "markdown" or "json"
	Format string `toml:"format" json:"format"`
}

// ServerConfig contains settings for the local stub backend.
type ServerConfig struct {
	Addr               string   `toml:"addr" json:"addr"`
	RateLimitPerMinute int      `toml:"rate_limit_per_minute" json:"rate_limit_per_minute"`
	AllowedOrigins     []string `toml:"allowed_origins" json:"allowed_origins"`
}

// Default returns a new Config with default values.
func Default() *Config {
	return &Config{
		Version: "1",
		API: APIConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 60,
		},
		UI: UIConfig{
			Theme:          "auto",
			DefaultMode:    "assistant",
			ShowTimestamps: false,
			Markdown:       true,
			WordWrap:       80,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Export: ExportConfig{
			Format: "markdown",
		},
		Server: ServerConfig{
			Addr:               "127.0.0.1:8000",
			RateLimitPerMinute: 60,
			AllowedOrigins: []string{
				"http://localhost:5173",
				"http://localhost:3000",
			},
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the nuvexa configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv("NUVEXA_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".nuvexa"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
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

// LoadDotEnv loads KEY=VALUE pairs from .env in the working directory.
// Variables already present in the environment win. A missing file is not
// an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides (including .env) are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	if err := LoadDotEnv(); err != nil {
		loadErr = err
	}

	loaded := false
	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
				cfg = Default()
			} else {
				loaded = true
			}
		}
	}

	if !loaded {
		if jsonPath, err := ConfigPathJSON(); err == nil {
			if _, statErr := os.Stat(jsonPath); statErr == nil {
				if err := LoadJSON(cfg, jsonPath); err != nil {
					loadErr = fmt.Errorf("failed to load JSON config: %w", err)
					cfg = Default()
				}
			}
		}
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}

	// Defaults are still usable when a file failed to parse.
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish applies env overrides, defaults and validation.
func finish(cfg *Config) error {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	fmt.Fprintln(file, "# nuvexa configuration file")
	fmt.Fprintln(file, "# Generated by nuvexa - edit with care")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
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
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

var (
	validThemes    = map[string]bool{"auto": true, "dark": true, "light": true}
	validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "warning": true, "error": true}
	validFormats   = map[string]bool{"markdown": true, "md": true, "json": true}
)

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// API
	if u, err := url.Parse(c.API.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "api.base_url",
			Message: fmt.Sprintf("invalid URL '%s', must be an absolute http(s) URL", c.API.BaseURL),
		})
	}
	if c.API.TimeoutSecs <= 0 || c.API.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("timeout %d out of range (1-600)", c.API.TimeoutSecs),
		})
	}

	// UI
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}
	if strings.TrimSpace(c.UI.DefaultMode) == "" {
		errs = append(errs, ValidationError{Field: "ui.default_mode", Message: "must not be empty"})
	}
	if c.UI.WordWrap < 20 || c.UI.WordWrap > 400 {
		errs = append(errs, ValidationError{
			Field:   "ui.word_wrap",
			Message: fmt.Sprintf("width %d out of range (20-400)", c.UI.WordWrap),
		})
	}

	// Logging
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level '%s', must be one of: debug, info, warn, error", c.Logging.Level),
		})
	}

	// Export
	if !validFormats[strings.ToLower(c.Export.Format)] {
		errs = append(errs, ValidationError{
			Field:   "export.format",
			Message: fmt.Sprintf("invalid format '%s', must be one of: markdown, json", c.Export.Format),
		})
	}

	// Server
	if c.Server.Addr == "" {
		errs = append(errs, ValidationError{Field: "server.addr", Message: "must not be empty"})
	}
	if c.Server.RateLimitPerMinute < 0 {
		errs = append(errs, ValidationError{Field: "server.rate_limit_per_minute", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills empty fields with defaults.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaults.API.BaseURL
	}
	c.API.BaseURL = strings.TrimSuffix(c.API.BaseURL, "/")
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
	if c.UI.DefaultMode == "" {
		c.UI.DefaultMode = defaults.UI.DefaultMode
	}
	if c.UI.WordWrap == 0 {
		c.UI.WordWrap = defaults.UI.WordWrap
	}
	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
	}
	if c.Export.Format == "" {
		c.Export.Format = defaults.Export.Format
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaults.Server.Addr
	}
	if c.Server.AllowedOrigins == nil {
		c.Server.AllowedOrigins = defaults.Server.AllowedOrigins
	}

	if dir, err := ConfigDir(); err == nil {
		if c.Logging.File == "" {
			c.Logging.File = filepath.Join(dir, "nuvexa.log")
		}
		if c.Export.Dir == "" {
			c.Export.Dir = filepath.Join(dir, "exports")
		}
	}
}

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - NUVEXA_API_URL: overrides api.base_url
//   - VITE_API_URL: same, read only when NUVEXA_API_URL is unset
//   - NUVEXA_TIMEOUT: overrides api.timeout_secs
//   - NUVEXA_MODE: overrides ui.default_mode
//   - NUVEXA_THEME: overrides ui.theme
//   - NUVEXA_LOG_LEVEL: overrides logging.level
//   - NUVEXA_LOG_FILE: overrides logging.file
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("NUVEXA_API_URL"); u != "" {
		c.API.BaseURL = u
	} else if u := os.Getenv("VITE_API_URL"); u != "" {
		c.API.BaseURL = u
	}

	if t := os.Getenv("NUVEXA_TIMEOUT"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil {
			c.API.TimeoutSecs = secs
		}
	}

	if mode := os.Getenv("NUVEXA_MODE"); mode != "" {
		c.UI.DefaultMode = mode
	}

	if theme := os.Getenv("NUVEXA_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	if level := os.Getenv("NUVEXA_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	if file := os.Getenv("NUVEXA_LOG_FILE"); file != "" {
		c.Logging.File = file
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

// lookup walks the struct tree following a dotted key.
func (c *Config) lookup(key string) (reflect.Value, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
// Initialisms are matched case-insensitively, so "base_url" finds BaseURL.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(part[:1]))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		case reflect.Slice:
			if field.Type().Elem().Kind() == reflect.String {
				var items []string
				for _, item := range strings.Split(strVal, ",") {
					if item = strings.TrimSpace(item); item != "" {
						items = append(items, item)
					}
				}
				field.Set(reflect.ValueOf(items))
				return nil
			}
		}
	}

	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"api.base_url",
		"api.timeout_secs",
		"ui.theme",
		"ui.default_mode",
		"ui.show_timestamps",
		"ui.markdown",
		"ui.word_wrap",
		"logging.level",
		"logging.file",
		"export.dir",
		"export.format",
		"server.addr",
		"server.rate_limit_per_minute",
		"server.allowed_origins",
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Server.AllowedOrigins != nil {
		clone.Server.AllowedOrigins = append([]string(nil), c.Server.AllowedOrigins...)
	}
	return &clone
}

// String returns the config as indented JSON.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if cfg == nil {
			cfg = Default()
			cfg.SetDefaults()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		globalConfigMu.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMu.Unlock()
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
