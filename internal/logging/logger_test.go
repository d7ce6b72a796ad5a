package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"parley/internal/config"
)

func TestLoggerWritesLeveledLines(t *testing.T) {
	projectDir := t.TempDir()

	logger, err := New(projectDir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Printf("case cleared")
	logger.Errorf("persist case: %v", os.ErrPermission)
	if err := logger.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(projectDir, config.ParleyDir, "logs", "parley.log"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("log lines = %d, want 2", len(lines))
	}
	if !strings.HasSuffix(lines[0], "case cleared") || strings.Contains(lines[0], "ERROR") {
		t.Fatalf("info line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "ERROR persist case:") {
		t.Fatalf("error line: %q", lines[1])
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Printf("nothing")
	logger.Errorf("nothing")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close on nil: %v", err)
	}
}
