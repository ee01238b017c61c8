package config

import (
	"errors"
	"fmt"

	"github.com/haskel/bigofit/internal/growth"
)

func (c *Config) Validate() error {
	var errs []error

	if err := c.Fit.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("fit: %w", err))
	}

	if err := c.Input.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("input: %w", err))
	}

	if err := c.Output.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("output: %w", err))
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("logging: %w", err))
	}

	if err := c.History.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("history: %w", err))
	}

	return errors.Join(errs...)
}

func (f *FitConfig) Validate() error {
	var errs []error

	if f.Steps < 4 {
		errs = append(errs, fmt.Errorf("steps must be at least 4, got %d", f.Steps))
	}

	if !(f.Tolerance > 0) || f.Tolerance >= 1 {
		errs = append(errs, fmt.Errorf("tolerance must be between 0 and 1 (exclusive), got %v", f.Tolerance))
	}

	if f.MaxRounds < 2 {
		errs = append(errs, fmt.Errorf("max_rounds must be at least 2, got %d", f.MaxRounds))
	}

	if f.Narrowing != "symmetric" && f.Narrowing != "legacy" {
		errs = append(errs, fmt.Errorf("invalid narrowing: %s (valid: symmetric, legacy)", f.Narrowing))
	}

	if f.Workers < 0 {
		errs = append(errs, fmt.Errorf("workers must be non-negative"))
	}

	if _, err := growth.ParseList(f.Candidates); err != nil {
		errs = append(errs, fmt.Errorf("candidates: %w", err))
	}

	return errors.Join(errs...)
}

func (i *InputConfig) Validate() error {
	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
	}
	if !validFormats[i.Format] {
		return fmt.Errorf("invalid input format: %s (valid: text, json, yaml)", i.Format)
	}
	return nil
}

func (o *OutputConfig) Validate() error {
	var errs []error

	validFormats := map[string]bool{
		"label": true,
		"table": true,
		"json":  true,
		"yaml":  true,
	}
	if !validFormats[o.Format] {
		errs = append(errs, fmt.Errorf("invalid output format: %s (valid: label, table, json, yaml)", o.Format))
	}

	validDiagnostics := map[string]bool{
		"legacy": true,
		"table":  true,
		"none":   true,
	}
	if !validDiagnostics[o.Diagnostics] {
		errs = append(errs, fmt.Errorf("invalid diagnostics: %s (valid: legacy, table, none)", o.Diagnostics))
	}

	validColors := map[string]bool{
		"auto":   true,
		"always": true,
		"never":  true,
	}
	if !validColors[o.Color] {
		errs = append(errs, fmt.Errorf("invalid color: %s (valid: auto, always, never)", o.Color))
	}

	return errors.Join(errs...)
}

func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("invalid log level: %s (valid: debug, info, warn, error)", l.Level)
	}

	validFormats := map[string]bool{
		"json": true,
		"text": true,
	}
	if !validFormats[l.Format] {
		return fmt.Errorf("invalid log format: %s (valid: json, text)", l.Format)
	}

	return nil
}

func (h *HistoryConfig) Validate() error {
	if h.Backend != "sqlite" && h.Backend != "json" {
		return fmt.Errorf("invalid backend: %s (valid: sqlite, json)", h.Backend)
	}
	return nil
}
