package oplog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLog_WritesEntry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mutations.log")
	l, err := New(Config{Enabled: true, Level: LevelDebug, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer l.Close()

	l.Log(ActionCreate, "ab12cd34", map[string]interface{}{"source": "apps://notes", "type": "window"})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	line := string(data)
	for _, want := range []string{"[CREATE]", "element=ab12cd34", `source="apps://notes"`, `type="window"`} {
		if !strings.Contains(line, want) {
			t.Errorf("log line %q missing %q", line, want)
		}
	}
}

func TestLog_LevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mutations.log")
	l, err := New(Config{Enabled: true, Level: LevelInfo, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer l.Close()

	l.Log(ActionDrift, "ab12cd34", nil)
	l.Log(ActionRemove, "ab12cd34", nil)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if strings.Contains(string(data), "[DRIFT]") {
		t.Error("debug-level DRIFT entry written despite info level")
	}
	if !strings.Contains(string(data), "[REMOVE]") {
		t.Error("REMOVE entry missing")
	}
}

func TestLog_DisabledLoggerIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mutations.log")
	l, err := New(Config{Enabled: false, FilePath: path})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	l.Log(ActionCreate, "x", nil)
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("disabled logger created file, stat err = %v", err)
	}

	var nilLogger *Logger
	nilLogger.Log(ActionCreate, "x", nil)
	if err := nilLogger.Close(); err != nil {
		t.Fatalf("nil Close() error: %v", err)
	}
}

func TestRotate_KeepsBoundedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mutations.log")
	l, err := New(Config{Enabled: true, Level: LevelDebug, FilePath: path, MaxSizeMB: 1, MaxFiles: 2})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer l.Close()

	// Force rotation by pretending the file is over the limit.
	l.mu.Lock()
	l.currentSize = 2 * 1024 * 1024
	l.mu.Unlock()
	l.Log(ActionModify, "ab12cd34", nil)

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Fatalf("rotated file missing: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read new log: %v", err)
	}
	if !strings.Contains(string(data), "[MODIFY]") {
		t.Error("entry after rotation missing from new file")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_ZeroLimitsGetDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mutations.log")
	l, err := New(Config{Enabled: true, Level: LevelDebug, FilePath: path})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer l.Close()

	if l.config.MaxSizeMB != DefaultMaxSizeMB {
		t.Errorf("MaxSizeMB = %d, want %d", l.config.MaxSizeMB, DefaultMaxSizeMB)
	}
	if l.config.MaxFiles != DefaultMaxFiles {
		t.Errorf("MaxFiles = %d, want %d", l.config.MaxFiles, DefaultMaxFiles)
	}

	l.Log(ActionCreate, "aa11bb22", nil)
	l.Log(ActionModify, "aa11bb22", nil)
	l.Log(ActionRemove, "aa11bb22", nil)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got := strings.Count(string(data), "\n"); got != 3 {
		t.Errorf("log holds %d entries, want all 3", got)
	}
	if _, err := os.Stat(path + ".1"); !os.IsNotExist(err) {
		t.Errorf("log rotated below the size limit: %v", err)
	}
}
