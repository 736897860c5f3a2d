package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mominos/mominos/internal/config"
)

func TestRotatingFile_RotatesAndKeepsMaxFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mominos.log")
	f, err := OpenRotating(path, 10, 2)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	for _, line := range []string{"first-line\n", "second-line\n", "third-line\n", "fourth-line\n"} {
		if _, err := f.Write([]byte(line)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	cur, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read current: %v", err)
	}
	if string(cur) != "fourth-line\n" {
		t.Fatalf("current log = %q", cur)
	}
	one, _ := os.ReadFile(path + ".1")
	two, _ := os.ReadFile(path + ".2")
	if string(one) != "third-line\n" || string(two) != "second-line\n" {
		t.Fatalf("backups = %q, %q", one, two)
	}
	if _, err := os.Stat(path + ".3"); !os.IsNotExist(err) {
		t.Fatalf("expected no third backup")
	}
}

func TestRotatingFile_AppendsToExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mominos.log")
	if err := os.WriteFile(path, []byte("old\n"), 0600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	f, err := OpenRotating(path, 1024, 3)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	f.Write([]byte("new\n"))
	f.Close()

	data, _ := os.ReadFile(path)
	if string(data) != "old\nnew\n" {
		t.Fatalf("log = %q", data)
	}
	if _, err := f.Write([]byte("late\n")); err == nil {
		t.Fatalf("expected write after close to fail")
	}
}

func TestNew_FallbackWriter(t *testing.T) {
	var buf bytes.Buffer
	logger, closeFn, err := New(config.LoggingConfig{Level: "warn"}, &buf)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer closeFn()

	logger.Info("hidden")
	logger.Warn("shown", "window", "w1")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info record written at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "window=w1") {
		t.Fatalf("missing warn record: %q", out)
	}
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mominos.log")
	logger, closeFn, err := New(config.LoggingConfig{Level: "debug", File: path, MaxFiles: 1}, nil)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	logger.Debug("drag begin", "window", "w1")
	if err := closeFn(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "drag begin") {
		t.Fatalf("log = %q", data)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
