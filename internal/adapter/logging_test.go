package adapter

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"Warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupLoggerJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "modkeeper.log")
	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "info", Format: "json"}, false)
	if err != nil {
		t.Fatalf("SetupLogger: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("toggled mod", "mod_id", "a")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1:\n%s", len(lines), data)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["msg"] != "toggled mod" || rec["mod_id"] != "a" {
		t.Errorf("record = %v", rec)
	}
}

func TestTextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(newHandler(&buf, "text", slog.LevelWarn))

	logger.Info("hidden")
	logger.Warn("backend slow", "op", "sync_mods")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "backend slow") || !strings.Contains(out, "sync_mods") {
		t.Errorf("output = %q", out)
	}
	if strings.HasPrefix(strings.TrimSpace(out), "{") {
		t.Errorf("text format produced JSON: %q", out)
	}
}

func TestNullLogger(t *testing.T) {
	// Must not panic
	NullLogger().Error("dropped", "error", os.ErrNotExist)
}
