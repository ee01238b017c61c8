package fit

import (
	"math"

	"github.com/haskel/bigofit/internal/growth"
)

// Evaluate returns the quadratic error of C*f against the dataset:
// sqrt(sum((runtime_i - C*f(size_i))^2) / n^2).
//
// Non-finite shape values (log of sizes <= 0) propagate as Inf or NaN.
// An empty dataset has error 0.
func Evaluate(ds Dataset, fn growth.Function, c float64) float64 {
	if len(ds) == 0 {
		return 0
	}

	n := float64(len(ds))
	norm := n * n

	loss := 0.0
	for _, obs := range ds {
		diff := obs.Runtime - c*fn.Eval(obs.Size)
		loss += diff * diff / norm
	}
	return math.Sqrt(loss)
}
