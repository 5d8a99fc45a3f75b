// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger wraps charmbracelet/log with the events the converter
// reports. Diagnostic logs go to stderr; user-facing results are printed by
// the commands themselves.
package logger

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a logger writing to w at the named level
// (debug, info, warn, error).
func New(w io.Writer, level string) (*Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", level, err)
	}
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           lvl,
		Prefix:          "org2opml",
	})
	return &Logger{Logger: l}, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return &Logger{Logger: log.NewWithOptions(io.Discard, log.Options{})}
}

// OutlineParsed logs the shape of a parsed outline.
func (l *Logger) OutlineParsed(source string, roots, nodes int) {
	l.Debug("outline parsed",
		"source", source,
		"roots", roots,
		"nodes", nodes)
}

// MetadataIgnored logs a metadata line whose key is not recognized.
func (l *Logger) MetadataIgnored(line int, text string) {
	l.Debug("metadata ignored",
		"line", line,
		"text", text)
}

// FileConverted logs a successful conversion.
func (l *Logger) FileConverted(source, dest string, nodes int, duration time.Duration) {
	l.Info("file converted",
		"source", source,
		"dest", dest,
		"nodes", nodes,
		"duration", duration.Round(time.Microsecond))
}

// FileSkipped logs when a file is skipped
func (l *Logger) FileSkipped(file, reason string) {
	l.Info("file skipped",
		"file", file,
		"reason", reason)
}

// ConversionFailed logs a conversion error
func (l *Logger) ConversionFailed(source string, err error) {
	l.Error("conversion failed",
		"source", source,
		"error", err)
}

// ManifestError logs a manifest operation that failed without aborting
// the conversion.
func (l *Logger) ManifestError(operation string, err error) {
	l.Warn("manifest error",
		"operation", operation,
		"error", err)
}

// ConfigLoaded logs the configuration source in effect.
func (l *Logger) ConfigLoaded(path string) {
	if path == "" {
		path = "(defaults)"
	}
	l.Debug("config loaded", "file", path)
}
