package fit

import (
	"log/slog"
	"math"

	"github.com/haskel/bigofit/internal/growth"
)

// Optimizer finds the scaling constant C >= 0 minimizing Evaluate for a
// growth function, using a grid search over a shrinking interval.
type Optimizer struct {
	config Config
	logger *slog.Logger
}

// NewOptimizer creates an optimizer. Out-of-range settings fall back to
// defaults. A nil logger discards output.
func NewOptimizer(cfg Config, logger *slog.Logger) *Optimizer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Optimizer{
		config: cfg.normalize(),
		logger: logger,
	}
}

// OptimalConstant returns the best constant for fn using default settings.
func OptimalConstant(ds Dataset, fn growth.Function) float64 {
	return NewOptimizer(DefaultConfig(), nil).Optimize(ds, fn).Constant
}

// Optimize searches for the constant minimizing the error of fn on ds.
//
// The first interval is [0, 2*ceil(r)] where r is the runtime of the last
// observation. Each round evaluates the interior grid points and keeps
// the first point strictly better than everything seen so far. The search
// stops once the relative improvement between rounds is no longer above
// the tolerance, or after MaxRounds rounds.
func (o *Optimizer) Optimize(ds Dataset, fn growth.Function) FitResult {
	res := FitResult{Function: fn}
	if len(ds) == 0 {
		return res
	}

	lower := 0.0
	upper := 2 * math.Ceil(ds[len(ds)-1].Runtime)
	if !(upper > lower) {
		res.Error = Evaluate(ds, fn, 0)
		return res
	}

	p := float64(o.config.Steps)
	best, bestErr := 0.0, 0.0
	seeded := false
	prevErr := 0.0

	for round := 1; ; round++ {
		width := upper - lower
		for i := 1; i < o.config.Steps-1; i++ {
			c := lower + (float64(i)/p)*width
			e := Evaluate(ds, fn, c)
			if !seeded || e < bestErr {
				best, bestErr = c, e
				seeded = true
			}
		}
		res.Rounds = round

		o.logger.Debug("optimizer round",
			"function", fn.String(),
			"round", round,
			"lower", lower,
			"upper", upper,
			"best", best,
			"error", bestErr,
		)

		// A NaN delta (0/0, Inf/Inf) also stops the search.
		if round > 1 {
			delta := 1 - bestErr/prevErr
			if !(delta > o.config.Tolerance) {
				break
			}
		}
		if round >= o.config.MaxRounds {
			res.Capped = true
			o.logger.Warn("optimizer hit round limit",
				"function", fn.String(),
				"rounds", round,
				"best", best,
				"error", bestErr,
			)
			break
		}

		step := width / p
		lower = best - step
		switch o.config.Narrowing {
		case NarrowLegacy:
			upper = best + (upper-lower)/p
		default:
			upper = best + step
		}
		prevErr = bestErr
	}

	res.Constant = best
	res.Error = bestErr
	return res
}
