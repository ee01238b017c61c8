package report

import (
	"fmt"
	"io"

	"github.com/haskel/bigofit/internal/fit"
)

// Format is the primary output encoding.
type Format string

const (
	FormatLabel Format = "label"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// IsValid checks if the format is known.
func (f Format) IsValid() bool {
	switch f {
	case FormatLabel, FormatTable, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// Diagnostics selects the per-candidate reporter.
type Diagnostics string

const (
	DiagnosticsLegacy Diagnostics = "legacy"
	DiagnosticsTable  Diagnostics = "table"
	DiagnosticsNone   Diagnostics = "none"
)

// IsValid checks if the diagnostics mode is known.
func (d Diagnostics) IsValid() bool {
	switch d {
	case DiagnosticsLegacy, DiagnosticsTable, DiagnosticsNone:
		return true
	}
	return false
}

// Write renders doc in the given format.
func Write(w io.Writer, doc *Document, format Format, color ColorMode) error {
	switch format {
	case FormatLabel:
		return WriteLabel(w, doc)
	case FormatTable:
		return WriteTable(w, doc, color)
	case FormatJSON:
		return WriteJSON(w, doc)
	case FormatYAML:
		return WriteYAML(w, doc)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// NewReporter returns the diagnostics reporter for mode, writing to w.
// DiagnosticsNone yields a nil reporter.
func NewReporter(w io.Writer, mode Diagnostics, color ColorMode) (fit.Reporter, error) {
	switch mode {
	case DiagnosticsLegacy:
		return NewLegacyReporter(w), nil
	case DiagnosticsTable:
		return NewTableReporter(w, color), nil
	case DiagnosticsNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown diagnostics mode: %s", mode)
	}
}
