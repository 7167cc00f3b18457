package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/andrescamacho/factory-planner/internal/application/logging"
	"github.com/andrescamacho/factory-planner/internal/infrastructure/config"
)

// SlogLogger implements the application Logger port on top of log/slog
type SlogLogger struct {
	logger *slog.Logger
	closer io.Closer
}

// NewSlogLogger wraps an existing slog logger
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

// NewSlogLoggerFromConfig builds a logger writing to the configured destination
func NewSlogLoggerFromConfig(cfg *config.LoggingConfig) (*SlogLogger, error) {
	var (
		out    io.Writer
		closer io.Closer
	)
	switch cfg.Output {
	case "stdout":
		out = os.Stdout
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", cfg.FilePath, err)
		}
		out, closer = f, f
	default:
		out = os.Stderr
	}

	return &SlogLogger{
		logger: slog.New(newHandler(cfg.Level, cfg.Format, cfg.IncludeCaller, out)),
		closer: closer,
	}, nil
}

// NewSlogLoggerTo builds a logger writing to w, mainly for tests
func NewSlogLoggerTo(w io.Writer, level, format string) *SlogLogger {
	return &SlogLogger{logger: slog.New(newHandler(level, format, false, w))}
}

func newHandler(levelStr, formatStr string, addSource bool, w io.Writer) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(levelStr), AddSource: addSource}
	if formatStr == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// parseLevel accepts both config names ("warn") and port levels ("WARNING")
func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Log writes one entry. Metadata keys are emitted in sorted order.
func (l *SlogLogger) Log(level, message string, metadata map[string]interface{}) {
	keys := make([]string, 0, len(metadata))
	for k := range metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, metadata[k]))
	}
	l.logger.LogAttrs(context.Background(), parseLevel(level), message, attrs...)
}

// Close releases the log file, if any
func (l *SlogLogger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

var _ logging.Logger = (*SlogLogger)(nil)
