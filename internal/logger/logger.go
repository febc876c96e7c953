// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logger provides file-backed structured logging.
//
// The terminal UI owns stdout and stderr, so nothing is ever logged to the
// terminal. Until Init is called every logger discards its output.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	mu       sync.Mutex
	base     = slog.New(slog.DiscardHandler)
	levelVar = new(slog.LevelVar)
	logFile  *os.File
	logPath  string
)

// ParseLevel converts a config level name into a slog level.
// Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init opens (or creates) the log file at path and routes all loggers to it.
// Calling Init again switches to the new file.
func Init(path string, level slog.Level) error {
	mu.Lock()
	defer mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = f
	logPath = path
	levelVar.Set(level)
	base = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))

	base.Info("logger initialized", "path", path, "level", level.String())
	return nil
}

// SetLevel changes the minimum level of all loggers.
func SetLevel(level slog.Level) {
	levelVar.Set(level)
}

// Path returns the active log file path, or "" when logging is disabled.
func Path() string {
	mu.Lock()
	defer mu.Unlock()
	return logPath
}

// Get returns the root logger.
func Get() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return base
}

// Component returns a logger with the component attribute pre-attached.
//
//	log := logger.Component("gateway")
//	log.Info("request", "method", "POST", "path", "/api/chat")
func Component(name string) *slog.Logger {
	return Get().With(slog.String("component", name))
}

// Close closes the log file and returns to discarding output.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logPath = ""
	base = slog.New(slog.DiscardHandler)
}
