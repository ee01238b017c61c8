package config

import (
	"github.com/haskel/bigofit/internal/dataset"
	"github.com/haskel/bigofit/internal/fit"
	"github.com/haskel/bigofit/internal/growth"
	"github.com/haskel/bigofit/internal/report"
)

type Config struct {
	Fit     FitConfig     `yaml:"fit" toml:"fit" json:"fit"`
	Input   InputConfig   `yaml:"input" toml:"input" json:"input"`
	Output  OutputConfig  `yaml:"output" toml:"output" json:"output"`
	Logging LoggingConfig `yaml:"logging" toml:"logging" json:"logging"`
	History HistoryConfig `yaml:"history" toml:"history" json:"history"`
}

// FitConfig holds optimizer and ranker settings.
type FitConfig struct {
	// Steps is the number of grid partitions per search round.
	Steps int `yaml:"steps" toml:"steps" json:"steps"`
	// Tolerance stops the search once the relative error improvement
	// between rounds drops to this value.
	Tolerance float64 `yaml:"tolerance" toml:"tolerance" json:"tolerance"`
	// MaxRounds caps the search regardless of convergence.
	MaxRounds int `yaml:"max_rounds" toml:"max_rounds" json:"max_rounds"`
	// Narrowing: symmetric, legacy
	Narrowing string `yaml:"narrowing" toml:"narrowing" json:"narrowing"`

	Parallel bool `yaml:"parallel" toml:"parallel" json:"parallel"`
	// Workers limits parallel fits. 0 means one per candidate.
	Workers int `yaml:"workers" toml:"workers" json:"workers"`

	// Candidates restricts the growth functions by name or label.
	// Empty means all of them.
	Candidates []string `yaml:"candidates" toml:"candidates" json:"candidates"`
}

type InputConfig struct {
	// Format: text, json, yaml
	Format string `yaml:"format" toml:"format" json:"format"`
	Sort   bool   `yaml:"sort" toml:"sort" json:"sort"`
}

type OutputConfig struct {
	// Format: label, table, json, yaml
	Format string `yaml:"format" toml:"format" json:"format"`
	// Diagnostics: legacy, table, none
	Diagnostics string `yaml:"diagnostics" toml:"diagnostics" json:"diagnostics"`
	// Color: auto, always, never
	Color string `yaml:"color" toml:"color" json:"color"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level" json:"level"`
	Format string `yaml:"format" toml:"format" json:"format"`
}

// HistoryConfig holds analysis history settings.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled" json:"enabled"`
	// Backend: sqlite, json
	Backend string `yaml:"backend" toml:"backend" json:"backend"`
	// Path defaults to a file under the XDG data home.
	Path     string `yaml:"path" toml:"path" json:"path"`
	HostInfo bool   `yaml:"host_info" toml:"host_info" json:"host_info"`
}

// FitSettings converts the fit section for the fitting engine.
func (c *Config) FitSettings() (fit.Config, error) {
	cfg := fit.Config{
		Steps:     c.Fit.Steps,
		Tolerance: c.Fit.Tolerance,
		MaxRounds: c.Fit.MaxRounds,
		Narrowing: fit.Narrowing(c.Fit.Narrowing),
		Parallel:  c.Fit.Parallel,
		Workers:   c.Fit.Workers,
		Functions: growth.All(),
	}
	if len(c.Fit.Candidates) > 0 {
		fns, err := growth.ParseList(c.Fit.Candidates)
		if err != nil {
			return fit.Config{}, err
		}
		cfg.Functions = fns
	}
	return cfg, nil
}

func (c *Config) InputFormat() dataset.Format {
	return dataset.Format(c.Input.Format)
}

func (c *Config) OutputFormat() report.Format {
	return report.Format(c.Output.Format)
}

func (c *Config) Diagnostics() report.Diagnostics {
	return report.Diagnostics(c.Output.Diagnostics)
}

func (c *Config) ColorMode() report.ColorMode {
	return report.ColorMode(c.Output.Color)
}
