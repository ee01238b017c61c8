// Package report renders fitting results for people and machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/haskel/bigofit/internal/fit"
	"github.com/haskel/bigofit/internal/hostinfo"
)

// Number is a float64 that encodes Inf and NaN as JSON strings instead of
// failing.
type Number float64

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return json.Marshal(strconv.FormatFloat(f, 'g', -1, 64))
	}
	return json.Marshal(f)
}

// UnmarshalJSON accepts numbers and the strings written by MarshalJSON.
func (n *Number) UnmarshalJSON(data []byte) error {
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*n = Number(f)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q: %w", s, err)
	}
	*n = Number(f)
	return nil
}

// Result is the serialized form of a fit.FitResult.
type Result struct {
	Label    string `json:"label" yaml:"label"`
	Name     string `json:"name" yaml:"name"`
	Constant Number `json:"constant" yaml:"constant"`
	Error    Number `json:"error" yaml:"error"`
	Rounds   int    `json:"rounds" yaml:"rounds"`
	Capped   bool   `json:"capped,omitempty" yaml:"capped,omitempty"`
}

// Verdict is the serialized form of a fit.Verdict.
type Verdict struct {
	Label    string `json:"label" yaml:"label"`
	Name     string `json:"name" yaml:"name"`
	Constant Number `json:"constant" yaml:"constant"`
	Error    Number `json:"error" yaml:"error"`
}

// Document is the full machine-readable report.
type Document struct {
	Observations int            `json:"observations" yaml:"observations"`
	Verdict      Verdict        `json:"verdict" yaml:"verdict"`
	Results      []Result       `json:"results" yaml:"results"`
	Host         *hostinfo.Info `json:"host,omitempty" yaml:"host,omitempty"`
}

// NewDocument builds a document from a ranking. host may be nil.
func NewDocument(observations int, ranking *fit.Ranking, host *hostinfo.Info) *Document {
	doc := &Document{
		Observations: observations,
		Verdict:      NewVerdict(ranking.Verdict),
		Results:      make([]Result, len(ranking.Results)),
		Host:         host,
	}
	for i, res := range ranking.Results {
		doc.Results[i] = NewResult(res)
	}
	return doc
}

// NewResult converts a fit result.
func NewResult(res fit.FitResult) Result {
	return Result{
		Label:    res.Function.String(),
		Name:     res.Function.Name(),
		Constant: Number(res.Constant),
		Error:    Number(res.Error),
		Rounds:   res.Rounds,
		Capped:   res.Capped,
	}
}

// NewVerdict converts a verdict.
func NewVerdict(v fit.Verdict) Verdict {
	return Verdict{
		Label:    v.Function.String(),
		Name:     v.Function.Name(),
		Constant: Number(v.Constant),
		Error:    Number(v.Error),
	}
}

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc *Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(doc)
}

// WriteYAML writes doc as YAML.
func WriteYAML(w io.Writer, doc *Document) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(doc); err != nil {
		return err
	}
	return encoder.Close()
}

// WriteLabel writes only the verdict label followed by a newline.
func WriteLabel(w io.Writer, doc *Document) error {
	_, err := fmt.Fprintln(w, doc.Verdict.Label)
	return err
}
