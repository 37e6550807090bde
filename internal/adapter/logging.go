package adapter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// SetupLogger initializes the slog logger with file output. The returned
// closer releases the log file. With verbose, records also go to stderr at
// debug level.
func SetupLogger(cfg *LoggingConfig, verbose bool) (*slog.Logger, io.Closer, error) {
	logPath := expandHome(cfg.File)

	// Ensure log directory exists
	logDir := filepath.Dir(logPath)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	level := parseLogLevel(cfg.Level)
	var out io.Writer = logFile
	if verbose {
		out = io.MultiWriter(logFile, os.Stderr)
		level = slog.LevelDebug
	}

	return slog.New(newHandler(out, cfg.Format, level)), logFile, nil
}

// newHandler builds the slog handler for format: JSON for machine-readable
// logs, charmbracelet/log for human-readable text.
func newHandler(w io.Writer, format string, level slog.Level) slog.Handler {
	switch strings.ToLower(format) {
	case "text", "console":
		l := log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			Level:           log.Level(level),
		})
		return l
	default:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	}
}

// parseLogLevel converts a string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
