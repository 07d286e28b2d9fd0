package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew_JSONFormatFiltersLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "info", Format: "json"}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer closer.Close()

	logger.Debug().Msg("hidden")
	logger.Info().Str("file", "data/config.json").Msg("Configuration file loaded")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["level"] != "info" || entry["message"] != "Configuration file loaded" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["file"] != "data/config.json" {
		t.Fatalf("missing field in entry: %v", entry)
	}
}

func TestNew_SimpleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "debug", Format: "simple"}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer closer.Close()

	logger.Warn().Msg("Refusing to save invalid configuration")

	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Fatalf("expected console output, got JSON: %s", out)
	}
	if !strings.Contains(out, "Refusing to save invalid configuration") {
		t.Fatalf("missing message: %s", out)
	}
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	var buf bytes.Buffer
	if _, _, err := New(Options{Level: "loud", Format: "json"}, &buf); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, _, err := New(Options{Level: "", Format: "json"}, &buf); err == nil {
		t.Fatalf("expected error for empty level")
	}
}

func TestNew_FileLoggingPerLevel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "info", Format: "json", EnableFileLogging: true, Dir: dir}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	logger.Info().Msg("first")
	logger.Warn().Msg("second")
	logger.Error().Msg("third")
	logger.Debug().Msg("filtered")

	if err := closer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	for level, message := range map[string]string{"info": "first", "warn": "second", "error": "third"} {
		data, err := os.ReadFile(filepath.Join(dir, level+".log"))
		if err != nil {
			t.Fatalf("read %s.log: %v", level, err)
		}
		if !strings.Contains(string(data), message) {
			t.Fatalf("%s.log = %q, want it to contain %q", level, data, message)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug.log should not exist, stat err = %v", err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Fatalf("console should still receive 3 entries, got %q", buf.String())
	}
}

func TestNew_FileLoggingDisabledWhenDirUnusable(t *testing.T) {
	root := t.TempDir()
	blocker := filepath.Join(root, "blocker")
	if err := os.WriteFile(blocker, []byte("file"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var buf bytes.Buffer
	logger, closer, err := New(Options{Level: "info", Format: "json", EnableFileLogging: true, Dir: filepath.Join(blocker, "logs")}, &buf)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer closer.Close()

	logger.Info().Msg("still logged")
	if !strings.Contains(buf.String(), "file logging disabled") {
		t.Fatalf("expected warning about disabled file logging, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "still logged") {
		t.Fatalf("console output missing: %q", buf.String())
	}
}
