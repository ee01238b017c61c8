package config

import (
	"os"
	"path/filepath"
)

func Default() *Config {
	return &Config{
		Fit: FitConfig{
			Steps:     32,
			Tolerance: 1e-5,
			MaxRounds: 200,
			Narrowing: "symmetric",
			Parallel:  false,
			Workers:   0,
		},
		Input: InputConfig{
			Format: "text",
			Sort:   false,
		},
		Output: OutputConfig{
			Format:      "label",
			Diagnostics: "legacy",
			Color:       "auto",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		History: HistoryConfig{
			Enabled:  false,
			Backend:  "sqlite",
			Path:     "",
			HostInfo: true,
		},
	}
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns the XDG data home or a default fallback.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultConfigPath returns the config file used when none is given.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "bigofit", "config.yaml")
}

// HistoryPath returns the configured history path, or the default one
// for the backend.
func (h *HistoryConfig) HistoryPath() string {
	if h.Path != "" {
		return h.Path
	}
	name := "history.db"
	if h.Backend == "json" {
		name = "history.json"
	}
	return filepath.Join(XDGDataHome(), "bigofit", name)
}
