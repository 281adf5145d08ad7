// Package slog provides logging decorators for confscan services.
package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/confscan"
)

// Ensure LoggingReader implements confscan.DocumentReader.
var _ confscan.DocumentReader = (*LoggingReader)(nil)

// LoggingReader wraps a DocumentReader with debug logging of every document read.
type LoggingReader struct {
	next   confscan.DocumentReader
	logger *slog.Logger
}

// NewLoggingReader creates a new LoggingReader.
func NewLoggingReader(next confscan.DocumentReader, logger *slog.Logger) *LoggingReader {
	return &LoggingReader{next: next, logger: logger}
}

// OpenText delegates to the wrapped reader and logs the operation.
func (r *LoggingReader) OpenText(path string) (text string, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("open text",
			"path", path,
			"bytes", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.OpenText(path)
}

// OpenParts delegates to the wrapped reader and logs the operation.
func (r *LoggingReader) OpenParts(path string) (parts []string, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("open parts",
			"path", path,
			"parts", len(parts),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.OpenParts(path)
}
