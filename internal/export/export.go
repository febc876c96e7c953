// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/nuvexa-tui/internal/model"
	"github.com/jeranaias/nuvexa-tui/internal/store"
	"github.com/jeranaias/nuvexa-tui/internal/util"
)

// DefaultTitle is used when the conversation has no user message.
const DefaultTitle = "NUVEXA conversation"

// Format names accepted by ForFormat.
const (
	FormatMarkdown = "md"
	FormatJSON     = "json"
)

var (
	// ErrNilTranscript is returned when exporting a nil transcript.
	ErrNilTranscript = errors.New("transcript is nil")

	// ErrEmptyTranscript is returned when the transcript has no messages.
	ErrEmptyTranscript = errors.New("conversation has no messages")
)

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for transcript exporters.
type Exporter interface {
	// Export converts a transcript to the target format.
	Export(t *Transcript) ([]byte, error)

	// FileExtension returns the file extension including the dot.
	FileExtension() string

	// MimeType returns the MIME type for the format.
	MimeType() string
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is a point-in-time copy of a conversation.
type Transcript struct {
	Title      string          `json:"title"`
	Mode       string          `json:"mode"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []model.Message `json:"messages"`
}

// NewTranscript copies the conversation out of snap. The title is taken from
// the first user message.
func NewTranscript(snap store.Snapshot, now time.Time) *Transcript {
	t := &Transcript{
		Title:      DefaultTitle,
		Mode:       snap.ActiveMode,
		ExportedAt: now,
		Messages:   make([]model.Message, len(snap.History)),
	}
	for i, m := range snap.History {
		t.Messages[i] = m.Clone()
	}
	for _, m := range snap.History {
		if m.IsUser() {
			if line := util.FirstLine(m.Content); line != "" {
				t.Title = util.TruncateWidth(line, 60)
			}
			break
		}
	}
	return t
}

// StartedAt returns the time of the first message, or ExportedAt when empty.
func (t *Transcript) StartedAt() time.Time {
	if len(t.Messages) == 0 || t.Messages[0].CreatedAt.IsZero() {
		return t.ExportedAt
	}
	return t.Messages[0].CreatedAt
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where files are written.
	OutputDir string

	// IncludeMetadata adds YAML frontmatter and a footer to Markdown.
	IncludeMetadata bool

	// IncludeTimestamps adds per-message times to Markdown headings.
	IncludeTimestamps bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		IncludeMetadata:   true,
		IncludeTimestamps: true,
	}
}

// ForFormat returns the exporter for a format name ("md", "markdown" or "json").
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatMarkdown, "markdown", "":
		return NewMarkdownExporter(opts), nil
	case FormatJSON:
		return NewJSONExporter(opts), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q (use md or json)", format)
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports a transcript into opts.OutputDir and returns the path.
func ExportToFile(t *Transcript, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if t == nil {
		return "", ErrNilTranscript
	}

	content, err := exporter.Export(t)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	filename := fmt.Sprintf("nuvexa_%s_%s%s",
		sanitizeFilename(t.Title),
		t.ExportedAt.Format("20060102_150405"),
		exporter.FileExtension(),
	)
	outputPath := filepath.Join(opts.OutputDir, filename)

	if err := util.AtomicWriteFile(outputPath, content, 0600); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename replaces characters that are invalid in filenames.
func sanitizeFilename(s string) string {
	const maxLen = 50
	runes := []rune(s)
	if len(runes) > maxLen {
		runes = runes[:maxLen]
	}

	result := make([]rune, 0, len(runes))
	for _, r := range runes {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			result = append(result, '-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			result = append(result, '_')
		case r < 32 || r == 127:
			result = append(result, '-')
		default:
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "conversation"
	}
	return string(result)
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// formatShortTimestamp formats a timestamp for inline display.
func formatShortTimestamp(t time.Time) string {
	return t.Format("15:04:05")
}
