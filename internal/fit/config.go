package fit

import (
	"fmt"

	"github.com/haskel/bigofit/internal/growth"
)

// Narrowing selects how the search interval shrinks around the best point.
type Narrowing string

const (
	// NarrowSymmetric moves both bounds one grid step from the best point,
	// using the step width of the round that just finished.
	NarrowSymmetric Narrowing = "symmetric"
	// NarrowLegacy computes the new upper bound from the already updated
	// lower bound, which narrows asymmetrically.
	NarrowLegacy Narrowing = "legacy"
)

// IsValid checks if the narrowing mode is known.
func (n Narrowing) IsValid() bool {
	switch n {
	case NarrowSymmetric, NarrowLegacy:
		return true
	}
	return false
}

// String returns string representation.
func (n Narrowing) String() string {
	return string(n)
}

// Config holds optimizer and ranker configuration.
type Config struct {
	// Steps is the number of partitions per grid pass.
	Steps int
	// Tolerance is the relative error improvement below which the
	// search stops.
	Tolerance float64
	// MaxRounds caps the number of grid passes.
	MaxRounds int
	Narrowing Narrowing

	// Ranker params
	Functions []growth.Function
	Parallel  bool
	Workers   int
}

const (
	defaultSteps     = 32
	defaultTolerance = 1e-5
	defaultMaxRounds = 200
	minSteps         = 4
)

// DefaultConfig returns default fitting configuration.
func DefaultConfig() Config {
	return Config{
		Steps:     defaultSteps,
		Tolerance: defaultTolerance,
		MaxRounds: defaultMaxRounds,
		Narrowing: NarrowSymmetric,
		Functions: growth.All(),
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Steps < minSteps {
		return fmt.Errorf("steps must be at least %d, got %d", minSteps, c.Steps)
	}
	if !(c.Tolerance > 0) {
		return fmt.Errorf("tolerance must be positive, got %v", c.Tolerance)
	}
	if c.MaxRounds < 2 {
		return fmt.Errorf("max_rounds must be at least 2, got %d", c.MaxRounds)
	}
	if !c.Narrowing.IsValid() {
		return fmt.Errorf("unknown narrowing mode: %s", c.Narrowing)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	for _, fn := range c.Functions {
		if !fn.IsValid() {
			return fmt.Errorf("invalid growth function: %d", int(fn))
		}
	}
	return nil
}

// normalize replaces out-of-range values with defaults.
func (c Config) normalize() Config {
	if c.Steps < minSteps {
		c.Steps = defaultSteps
	}
	if !(c.Tolerance > 0) {
		c.Tolerance = defaultTolerance
	}
	if c.MaxRounds < 2 {
		c.MaxRounds = defaultMaxRounds
	}
	if !c.Narrowing.IsValid() {
		c.Narrowing = NarrowSymmetric
	}
	if len(c.Functions) == 0 {
		c.Functions = growth.All()
	}
	if c.Workers <= 0 || c.Workers > len(c.Functions) {
		c.Workers = len(c.Functions)
	}
	return c
}
