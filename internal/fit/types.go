package fit

import (
	"context"

	"github.com/haskel/bigofit/internal/growth"
)

// Observation is a single timing measurement.
type Observation struct {
	Size    float64 `json:"size" yaml:"size"`
	Runtime float64 `json:"runtime" yaml:"runtime"`
}

// Dataset is a sequence of observations, expected in increasing size.
type Dataset []Observation

// FitResult holds the outcome of fitting one growth function.
type FitResult struct {
	Function growth.Function
	Constant float64
	Error    float64

	// Rounds is the number of grid passes the optimizer ran.
	Rounds int
	// Capped is set when the search stopped at the round limit
	// instead of converging.
	Capped bool
}

// Verdict is the growth function with the lowest error in a run.
type Verdict struct {
	Function growth.Function
	Constant float64
	Error    float64
}

// Ranking is the full result of a run: the verdict and every fit,
// in declaration order of the growth functions.
type Ranking struct {
	Verdict Verdict
	Results []FitResult
}

// Reporter receives diagnostics from the Ranker. Candidate is called once
// per fitted function in declaration order, then Verdict once.
// Reporter errors are logged and never change the ranking.
type Reporter interface {
	Candidate(ctx context.Context, res FitResult) error
	Verdict(ctx context.Context, v Verdict) error
}
