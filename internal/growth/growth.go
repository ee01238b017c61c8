package growth

import (
	"fmt"
	"math"
	"strings"
)

// Function identifies one of the candidate growth functions.
type Function int

const (
	Constant Function = iota
	Logarithmic
	Linear
	Linearithmic
	Quadratic
	QuadraticLog
	Cubic
	Exponential
)

type entry struct {
	name  string
	label string
	shape func(x float64) float64
}

// Shapes use the natural logarithm. Sizes <= 1 give log(x) <= 0 and
// log(0) = -Inf; those values are passed through unchanged.
var table = [...]entry{
	Constant:     {"constant", "O(1)", func(float64) float64 { return 1 }},
	Logarithmic:  {"log", "O(log n)", math.Log},
	Linear:       {"linear", "O(n)", func(x float64) float64 { return x }},
	Linearithmic: {"nlogn", "O(n log n)", func(x float64) float64 { return x * math.Log(x) }},
	Quadratic:    {"quadratic", "O(n^2)", func(x float64) float64 { return x * x }},
	QuadraticLog: {"quadratic_log", "O(n^2 log n)", func(x float64) float64 { return x * x * math.Log(x) }},
	Cubic:        {"cubic", "O(n^3)", func(x float64) float64 { return x * x * x }},
	Exponential:  {"exponential", "O(2^n)", func(x float64) float64 { return math.Pow(2, x) }},
}

// All returns every function in declaration order.
func All() []Function {
	fns := make([]Function, len(table))
	for i := range table {
		fns[i] = Function(i)
	}
	return fns
}

// IsValid checks if the function is one of the declared variants.
func (f Function) IsValid() bool {
	return f >= 0 && int(f) < len(table)
}

// Eval returns f(x).
func (f Function) Eval(x float64) float64 {
	return table[f].shape(x)
}

// Name returns the short configuration name, e.g. "nlogn".
func (f Function) Name() string {
	if !f.IsValid() {
		return "unknown"
	}
	return table[f].name
}

// String returns the big-O label, e.g. "O(n log n)".
func (f Function) String() string {
	if !f.IsValid() {
		return "X"
	}
	return table[f].label
}

// MarshalText encodes the function as its label.
func (f Function) MarshalText() ([]byte, error) {
	if !f.IsValid() {
		return nil, fmt.Errorf("invalid growth function: %d", int(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText accepts a name or a label.
func (f *Function) UnmarshalText(text []byte) error {
	fn, err := Parse(string(text))
	if err != nil {
		return err
	}
	*f = fn
	return nil
}

// Parse resolves a short name ("cubic") or a label ("O(n^3)").
// Matching ignores case and surrounding whitespace.
func Parse(s string) (Function, error) {
	s = strings.TrimSpace(s)
	for i, e := range table {
		if strings.EqualFold(s, e.name) || strings.EqualFold(s, e.label) {
			return Function(i), nil
		}
	}
	return 0, fmt.Errorf("unknown growth function: %q", s)
}

// ParseList resolves names in the order given, then reorders them into
// declaration order and drops duplicates.
func ParseList(names []string) ([]Function, error) {
	seen := make([]bool, len(table))
	for _, name := range names {
		fn, err := Parse(name)
		if err != nil {
			return nil, err
		}
		seen[fn] = true
	}

	var fns []Function
	for i, ok := range seen {
		if ok {
			fns = append(fns, Function(i))
		}
	}
	return fns, nil
}

// Names returns the short names of every function.
func Names() []string {
	names := make([]string, len(table))
	for i, e := range table {
		names[i] = e.name
	}
	return names
}
