// Package dataset reads timing measurements into a fit.Dataset.
package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/haskel/bigofit/internal/fit"
)

// maxPrealloc bounds the capacity reserved from the declared count.
const maxPrealloc = 4096

// ErrMalformed is returned for input that cannot be read as a dataset.
var ErrMalformed = errors.New("malformed input")

// Format is an input encoding.
type Format string

const (
	// FormatText is a count followed by that many "size runtime" pairs,
	// separated by any whitespace.
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// IsValid checks if the format is known.
func (f Format) IsValid() bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// document is the JSON/YAML shape. A bare list of observations is
// accepted as well.
type document struct {
	Observations []fit.Observation `json:"observations" yaml:"observations"`
}

// Read decodes a dataset in the given format.
func Read(r io.Reader, format Format) (fit.Dataset, error) {
	switch format {
	case FormatText:
		return readText(r)
	case FormatJSON:
		return readJSON(r)
	case FormatYAML:
		return readYAML(r)
	default:
		return nil, fmt.Errorf("unknown input format: %s", format)
	}
}

func readText(r io.Reader) (fit.Dataset, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	pos := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		pos++
		return sc.Text(), true
	}

	tok, ok := next()
	if !ok {
		if err := sc.Err(); err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}
		return nil, fmt.Errorf("%w: missing observation count", ErrMalformed)
	}
	count, err := strconv.Atoi(tok)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid observation count %q", ErrMalformed, tok)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: negative observation count %d", ErrMalformed, count)
	}

	ds := make(fit.Dataset, 0, min(count, maxPrealloc))
	for i := 0; i < count; i++ {
		var pair [2]float64
		for j := range pair {
			tok, ok := next()
			if !ok {
				if err := sc.Err(); err != nil {
					return nil, fmt.Errorf("failed to read input: %w", err)
				}
				return nil, fmt.Errorf("%w: expected %d observations, got %d", ErrMalformed, count, i)
			}
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: token %d: invalid number %q", ErrMalformed, pos, tok)
			}
			pair[j] = v
		}
		ds = append(ds, fit.Observation{Size: pair[0], Runtime: pair[1]})
	}

	if tok, ok := next(); ok {
		return nil, fmt.Errorf("%w: unexpected token %q after %d observations", ErrMalformed, tok, count)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	return ds, nil
}

func readJSON(r io.Reader) (fit.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var list []fit.Observation
	if err := json.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc.Observations, nil
}

func readYAML(r io.Reader) (fit.Dataset, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var list []fit.Observation
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return doc.Observations, nil
}

// SortBySize returns a copy of ds ordered by increasing size. Equal sizes
// keep their input order.
func SortBySize(ds fit.Dataset) fit.Dataset {
	sorted := make(fit.Dataset, len(ds))
	copy(sorted, ds)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Size < sorted[j].Size
	})
	return sorted
}

// Warning describes an observation that the fit accepts but that may
// produce misleading results.
type Warning struct {
	Index   int
	Message string
}

// Check returns warnings for non-positive sizes, sizes of 1 or less
// (log <= 0), negative or non-finite runtimes, and decreasing sizes.
func Check(ds fit.Dataset) []Warning {
	var warnings []Warning
	for i, obs := range ds {
		switch {
		case obs.Size <= 0:
			warnings = append(warnings, Warning{i, "size is not positive; logarithmic shapes are undefined"})
		case obs.Size <= 1:
			warnings = append(warnings, Warning{i, "size <= 1 makes log(size) <= 0"})
		}
		if obs.Runtime < 0 {
			warnings = append(warnings, Warning{i, "runtime is negative"})
		}
		if math.IsNaN(obs.Runtime) || math.IsInf(obs.Runtime, 0) || math.IsNaN(obs.Size) || math.IsInf(obs.Size, 0) {
			warnings = append(warnings, Warning{i, "observation is not finite"})
		}
		if i > 0 && obs.Size < ds[i-1].Size {
			warnings = append(warnings, Warning{i, "size decreases; the search bound uses the last observation"})
		}
	}
	return warnings
}

// LogWarnings writes the result of Check to logger.
func LogWarnings(logger *slog.Logger, ds fit.Dataset) {
	for _, w := range Check(ds) {
		obs := ds[w.Index]
		logger.Warn(w.Message,
			"index", w.Index,
			"size", obs.Size,
			"runtime", obs.Runtime,
		)
	}
}
