package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/salulink/chronic/internal/config"
)

func TestNewWithWriter_JSONOutsideDevelopment(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Env: "production", LogLevel: "info", AppName: "test-app"}

	logger := NewWithWriter(cfg, &buf)
	logger.Info().Str("case_id", "c-1").Msg("exported")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["message"] != "exported" {
		t.Errorf("expected message=exported, got %v", entry["message"])
	}
	if entry["app"] != "test-app" {
		t.Errorf("expected app=test-app, got %v", entry["app"])
	}
	if entry["case_id"] != "c-1" {
		t.Errorf("expected case_id=c-1, got %v", entry["case_id"])
	}
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	cfg := &config.Config{Env: "production", LogLevel: "warn"}

	logger := NewWithWriter(cfg, &buf)
	logger.Info().Msg("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered at warn level, got %q", buf.String())
	}
	logger.Warn().Msg("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn line, got %q", buf.String())
	}
}

func TestNewWithWriter_AlsoWritesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chronic.log")
	var buf bytes.Buffer
	cfg := &config.Config{
		Env:          "production",
		LogLevel:     "info",
		LogFile:      path,
		LogMaxSizeMB: 1,
	}

	logger := NewWithWriter(cfg, &buf)
	logger.Info().Msg("to both")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "to both") {
		t.Errorf("expected file to contain the log line, got %q", string(data))
	}
	if !strings.Contains(buf.String(), "to both") {
		t.Errorf("expected console to contain the log line, got %q", buf.String())
	}
}
