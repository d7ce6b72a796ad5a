package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"parley/internal/config"
)

// Logger appends timestamped lines to .parley/logs/parley.log. The TUI
// owns the terminal, so failures have to be inspectable after the
// screen is gone.
type Logger struct {
	file *os.File
}

// New creates (or reuses) the log file for the current project directory.
func New(projectDir string) (*Logger, error) {
	logDir := filepath.Join(projectDir, config.ParleyDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("logging: ensure log dir: %w", err)
	}
	path := filepath.Join(logDir, "parley.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("logging: open log file: %w", err)
	}
	return &Logger{file: f}, nil
}

// Close releases the file handle.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Printf writes a single timestamped line to the log file.
func (l *Logger) Printf(format string, args ...any) {
	l.write("", format, args...)
}

// Errorf writes a timestamped line marked as an error, so failed
// operations stand out when reading the log after a session.
func (l *Logger) Errorf(format string, args ...any) {
	l.write("ERROR ", format, args...)
}

func (l *Logger) write(level, format string, args ...any) {
	if l == nil || l.file == nil {
		return
	}
	line := fmt.Sprintf(format, args...)
	line = strings.TrimRight(line, "\n")
	timestamp := time.Now().Format(time.RFC3339)
	fmt.Fprintf(l.file, "[%s] %s%s\n", timestamp, level, line)
}
