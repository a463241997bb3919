package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Path returns the config file location: $XDG_CONFIG_HOME/deskcanvas/config.yaml
// (or ~/.config/deskcanvas/config.yaml).
func Path() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to resolve home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "deskcanvas", "config.yaml"), nil
}

// Load reads the config from the default path. A missing file yields the
// defaults.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads a config file, overlaying its values onto the defaults.
// A missing file is not an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// Components in the file replace builtin entries by name but do not
	// drop the rest of the catalog.
	if cfg.Components == nil {
		cfg.Components = DefaultConfig().Components
	} else {
		for name, comp := range DefaultConfig().Components {
			if _, ok := cfg.Components[name]; !ok {
				cfg.Components[name] = comp
			}
		}
	}

	applyLoggingDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// applyLoggingDefaults fills in the mutation-log settings the file omitted.
// Without these a zero max_size_mb would rotate the log on every write.
func applyLoggingDefaults(cfg *Config) {
	if !cfg.Logging.Enabled {
		return
	}
	if cfg.Logging.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = "."
		}
		cfg.Logging.File = filepath.Join(home, ".local/share/deskcanvas/canvas-mutations.log")
	}
	if cfg.Logging.MaxSizeMB == 0 {
		cfg.Logging.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if cfg.Logging.MaxFiles == 0 {
		cfg.Logging.MaxFiles = DefaultLogMaxFiles
	}
}

// Print writes the effective config as YAML.
func Print(cfg *Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}
