package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	if cfg.PollInterval() != time.Second {
		t.Fatalf("expected default poll interval 1s, got %v", cfg.PollInterval())
	}
	for _, name := range []string{"weather", "email", "calendar", "todo", "notes", "reminders"} {
		if _, ok := cfg.Components[name]; !ok {
			t.Errorf("expected builtin component %q", name)
		}
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HistorySize != DefaultHistorySize {
		t.Fatalf("expected history_size %d, got %d", DefaultHistorySize, cfg.HistorySize)
	}
}

func TestLoadFromPath_OverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"poll_interval_ms: 2000",
		"components:",
		"  notes:",
		"    command: my-notes",
		"  scratchpad:",
		"    command: scratch",
		"",
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.PollIntervalMS != 2000 {
		t.Fatalf("expected poll_interval_ms 2000, got %d", cfg.PollIntervalMS)
	}
	if cfg.LoadTimeoutMS != DefaultLoadTimeoutMS {
		t.Fatalf("expected default load_timeout_ms, got %d", cfg.LoadTimeoutMS)
	}
	if cfg.Components["notes"].Command != "my-notes" {
		t.Fatalf("expected notes command override, got %q", cfg.Components["notes"].Command)
	}
	if _, ok := cfg.Components["scratchpad"]; !ok {
		t.Fatal("expected custom component scratchpad")
	}
	// Builtin catalog entries survive alongside user components.
	if _, ok := cfg.Components["weather"]; !ok {
		t.Fatal("expected builtin component weather to survive overlay")
	}
}

func TestLoadFromPath_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative interval", "poll_interval_ms: -5\n"},
		{"interval too small", "poll_interval_ms: 10\n"},
		{"zero timeout", "load_timeout_ms: -1\n"},
		{"bad log level", "logging:\n  level: loud\n"},
		{"empty browser command", "browser:\n  command: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatalf("write: %v", err)
			}
			if _, err := LoadFromPath(path); err == nil {
				t.Fatalf("expected error for %q", tt.yaml)
			}
		})
	}
}

func TestComponentTimeout(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Components["slow"] = ComponentConfig{Command: "slow", StartupTimeoutMS: 30000}

	if got := cfg.ComponentTimeout("slow"); got != 30*time.Second {
		t.Fatalf("ComponentTimeout(slow) = %v, want 30s", got)
	}
	if got := cfg.ComponentTimeout("notes"); got != cfg.LoadTimeout() {
		t.Fatalf("ComponentTimeout(notes) = %v, want global %v", got, cfg.LoadTimeout())
	}
}

func TestLoadFromPath_LoggingDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := strings.Join([]string{
		"logging:",
		"  enabled: true",
		"  file: " + filepath.Join(dir, "mutations.log"),
	}, "\n")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Logging.MaxSizeMB != DefaultLogMaxSizeMB {
		t.Errorf("max_size_mb = %d, want %d", cfg.Logging.MaxSizeMB, DefaultLogMaxSizeMB)
	}
	if cfg.Logging.MaxFiles != DefaultLogMaxFiles {
		t.Errorf("max_files = %d, want %d", cfg.Logging.MaxFiles, DefaultLogMaxFiles)
	}
}

func TestLoadFromPath_LoggingEnabledWithoutFileGetsDefaultPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("logging:\n  enabled: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Logging.File == "" {
		t.Fatal("expected a default log file path")
	}
	if !strings.Contains(cfg.Logging.File, "deskcanvas") {
		t.Errorf("default log path = %q", cfg.Logging.File)
	}
}

func TestValidate_EnabledLoggingNeedsFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Enabled = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected enabled logging without a file to be rejected")
	}
	cfg.Logging.File = "/tmp/mutations.log"
	cfg.Logging.MaxSizeMB = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected negative max_size_mb to be rejected")
	}
}
