package fit

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/haskel/bigofit/internal/growth"
)

// Ranker fits every configured growth function and picks the one with
// the lowest error.
type Ranker struct {
	optimizer *Optimizer
	functions []growth.Function
	parallel  bool
	workers   int
	reporter  Reporter
	logger    *slog.Logger
}

// NewRanker creates a ranker. reporter may be nil.
func NewRanker(cfg Config, reporter Reporter, logger *slog.Logger) *Ranker {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg = cfg.normalize()
	return &Ranker{
		optimizer: NewOptimizer(cfg, logger),
		functions: cfg.Functions,
		parallel:  cfg.Parallel,
		workers:   cfg.Workers,
		reporter:  reporter,
		logger:    logger,
	}
}

// Rank returns the verdict for ds using default settings.
func Rank(ds Dataset) Verdict {
	// Ranker.Rank fails only on cancellation; Background is never cancelled.
	ranking, _ := NewRanker(DefaultConfig(), nil, nil).Rank(context.Background(), ds)
	return ranking.Verdict
}

// Rank fits every function and selects the verdict. The only error is a
// cancelled context.
//
// Ties go to the earliest declared function: a later result replaces the
// current best only when its error is strictly lower. Selection runs over
// results in declaration order, so parallel and serial runs agree.
func (r *Ranker) Rank(ctx context.Context, ds Dataset) (*Ranking, error) {
	results := make([]FitResult, len(r.functions))

	if r.parallel {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.workers)
		for i, fn := range r.functions {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = r.fit(ds, fn)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, fn := range r.functions {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = r.fit(ds, fn)
		}
	}

	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].Error < results[best].Error {
			best = i
		}
	}

	ranking := &Ranking{
		Verdict: Verdict{
			Function: results[best].Function,
			Constant: results[best].Constant,
			Error:    results[best].Error,
		},
		Results: results,
	}

	r.logger.Info("ranking complete",
		"observations", len(ds),
		"verdict", ranking.Verdict.Function.String(),
		"constant", ranking.Verdict.Constant,
		"error", ranking.Verdict.Error,
	)

	r.report(ctx, ranking)

	return ranking, nil
}

func (r *Ranker) fit(ds Dataset, fn growth.Function) FitResult {
	res := r.optimizer.Optimize(ds, fn)
	res.Error = Evaluate(ds, fn, res.Constant)
	return res
}

func (r *Ranker) report(ctx context.Context, ranking *Ranking) {
	if r.reporter == nil {
		return
	}
	for _, res := range ranking.Results {
		if err := r.reporter.Candidate(ctx, res); err != nil {
			r.logger.Warn("failed to report candidate",
				"function", res.Function.String(),
				"error", err,
			)
		}
	}
	if err := r.reporter.Verdict(ctx, ranking.Verdict); err != nil {
		r.logger.Warn("failed to report verdict", "error", err)
	}
}
