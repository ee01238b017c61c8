package report

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/haskel/bigofit/internal/fit"
)

// LegacyReporter writes one block per candidate:
//
//	------O(n)-------
//	C=1.000000
//	Error=0.000000
type LegacyReporter struct {
	w io.Writer
}

// NewLegacyReporter creates a legacy reporter writing to w.
func NewLegacyReporter(w io.Writer) *LegacyReporter {
	return &LegacyReporter{w: w}
}

// Candidate implements fit.Reporter.
func (r *LegacyReporter) Candidate(_ context.Context, res fit.FitResult) error {
	_, err := fmt.Fprintf(r.w, "------%s-------\nC=%f\nError=%f\n", res.Function, res.Constant, res.Error)
	return err
}

// Verdict implements fit.Reporter. The verdict is part of the primary
// output, so nothing is written here.
func (r *LegacyReporter) Verdict(context.Context, fit.Verdict) error {
	return nil
}

// TableReporter buffers candidates and renders a single table once the
// verdict is known.
type TableReporter struct {
	w     io.Writer
	color ColorMode

	mu         sync.Mutex
	candidates []fit.FitResult
}

// NewTableReporter creates a table reporter writing to w.
func NewTableReporter(w io.Writer, color ColorMode) *TableReporter {
	return &TableReporter{w: w, color: color}
}

// Candidate implements fit.Reporter.
func (r *TableReporter) Candidate(_ context.Context, res fit.FitResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidates = append(r.candidates, res)
	return nil
}

// Verdict implements fit.Reporter.
func (r *TableReporter) Verdict(_ context.Context, v fit.Verdict) error {
	r.mu.Lock()
	results := r.candidates
	r.candidates = nil
	r.mu.Unlock()

	ranking := &fit.Ranking{Verdict: v, Results: results}
	return WriteTable(r.w, NewDocument(0, ranking, nil), r.color)
}
