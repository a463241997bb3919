package config

import (
	"fmt"
	"sort"
	"time"
)

// Defaults applied when the config file omits a value.
const (
	DefaultPollIntervalMS = 1000
	DefaultLoadTimeoutMS  = 15000
	DefaultHistorySize    = 100
	DefaultLogMaxSizeMB   = 10
	DefaultLogMaxFiles    = 3
)

// BrowserConfig describes how external-URL elements are materialized: the
// command is spawned with {url} substituted into its args and the resulting
// window is adopted by the engine.
type BrowserConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args,omitempty"`
}

// ComponentConfig describes a discoverable internal UI component.
type ComponentConfig struct {
	Command     string            `yaml:"command"`
	Args        []string          `yaml:"args,omitempty"`
	Env         map[string]string `yaml:"env,omitempty"`
	Description string            `yaml:"description,omitempty"`

	// ParamFlag, when set, passes each URI query parameter as
	// "<flag> key=value". When empty, parameters are appended as bare
	// key=value arguments.
	ParamFlag string `yaml:"param_flag,omitempty"`

	// StartupTimeoutMS overrides load_timeout_ms for this component.
	StartupTimeoutMS int `yaml:"startup_timeout_ms,omitempty"`
}

// LoggingConfig configures the canvas mutation audit log.
type LoggingConfig struct {
	Enabled   bool   `yaml:"enabled,omitempty"`
	Level     string `yaml:"level,omitempty"`
	File      string `yaml:"file,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb,omitempty"`
	MaxFiles  int    `yaml:"max_files,omitempty"`
}

// Config is the daemon configuration.
type Config struct {
	// Display overrides the DISPLAY environment variable for the X11
	// connection. Empty uses the environment.
	Display string `yaml:"display,omitempty"`

	// PollIntervalMS is the reconciliation interval. Per-window events keep
	// the canvas fresh between passes, so 1 Hz is enough for desktop use;
	// raise it to trade freshness for less polling cost.
	PollIntervalMS int `yaml:"poll_interval_ms,omitempty"`

	// LoadTimeoutMS bounds how long a create waits for spawned content to
	// produce a window before the attempt is torn down.
	LoadTimeoutMS int `yaml:"load_timeout_ms,omitempty"`

	// HistorySize is the capacity of the in-memory operation ring.
	HistorySize int `yaml:"history_size,omitempty"`

	Browser    BrowserConfig              `yaml:"browser,omitempty"`
	Components map[string]ComponentConfig `yaml:"components,omitempty"`
	Logging    LoggingConfig              `yaml:"logging,omitempty"`
}

// DefaultConfig returns the built-in configuration: a chromium app-mode
// browser for URL content and the standard widget catalog (commands are
// host-specific and must be filled in by the user's config before those
// components can be instantiated).
func DefaultConfig() *Config {
	return &Config{
		PollIntervalMS: DefaultPollIntervalMS,
		LoadTimeoutMS:  DefaultLoadTimeoutMS,
		HistorySize:    DefaultHistorySize,
		Browser: BrowserConfig{
			Command: "chromium",
			Args:    []string{"--app={url}", "--new-window"},
		},
		Components: map[string]ComponentConfig{
			"weather":   {Description: "Weather conditions and forecast"},
			"email":     {Description: "Email client"},
			"calendar":  {Description: "Calendar with events"},
			"todo":      {Description: "Task management"},
			"notes":     {Description: "Note taking"},
			"reminders": {Description: "Reminder management"},
		},
	}
}

// Validate checks the configuration for values the daemon cannot run with.
func (c *Config) Validate() error {
	if c.PollIntervalMS <= 0 {
		return fmt.Errorf("poll_interval_ms must be positive, got %d", c.PollIntervalMS)
	}
	if c.PollIntervalMS < 100 {
		return fmt.Errorf("poll_interval_ms below 100ms would hammer the window system, got %d", c.PollIntervalMS)
	}
	if c.LoadTimeoutMS <= 0 {
		return fmt.Errorf("load_timeout_ms must be positive, got %d", c.LoadTimeoutMS)
	}
	if c.HistorySize <= 0 {
		return fmt.Errorf("history_size must be positive, got %d", c.HistorySize)
	}
	if c.Browser.Command == "" {
		return fmt.Errorf("browser.command must be set")
	}
	for name, comp := range c.Components {
		if name == "" {
			return fmt.Errorf("component with empty name")
		}
		if comp.StartupTimeoutMS < 0 {
			return fmt.Errorf("component %q: startup_timeout_ms must not be negative", name)
		}
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	if c.Logging.Enabled {
		if c.Logging.File == "" {
			return fmt.Errorf("logging.file must be set when logging is enabled")
		}
		if c.Logging.MaxSizeMB < 0 {
			return fmt.Errorf("logging.max_size_mb must not be negative, got %d", c.Logging.MaxSizeMB)
		}
		if c.Logging.MaxFiles < 0 {
			return fmt.Errorf("logging.max_files must not be negative, got %d", c.Logging.MaxFiles)
		}
	}
	return nil
}

// PollInterval returns the reconciliation interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// LoadTimeout returns the content-load timeout as a duration.
func (c *Config) LoadTimeout() time.Duration {
	return time.Duration(c.LoadTimeoutMS) * time.Millisecond
}

// ComponentTimeout returns the startup timeout for a component, falling back
// to the global load timeout.
func (c *Config) ComponentTimeout(name string) time.Duration {
	if comp, ok := c.Components[name]; ok && comp.StartupTimeoutMS > 0 {
		return time.Duration(comp.StartupTimeoutMS) * time.Millisecond
	}
	return c.LoadTimeout()
}

// ComponentNames returns the sorted names of configured components.
func (c *Config) ComponentNames() []string {
	names := make([]string, 0, len(c.Components))
	for name := range c.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
