// Package history persists past analysis runs.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/haskel/bigofit/internal/fit"
	"github.com/haskel/bigofit/internal/hostinfo"
	"github.com/haskel/bigofit/internal/report"
)

var (
	// ErrNotFound is returned when no record matches an ID.
	ErrNotFound = errors.New("record not found")
	// ErrAmbiguous is returned when an ID prefix matches several records.
	ErrAmbiguous = errors.New("ambiguous record id")
)

// Record is one stored analysis run.
type Record struct {
	ID           string          `json:"id" yaml:"id"`
	CreatedAt    time.Time       `json:"created_at" yaml:"created_at"`
	Source       string          `json:"source" yaml:"source"`
	Observations int             `json:"observations" yaml:"observations"`
	Narrowing    string          `json:"narrowing" yaml:"narrowing"`
	Verdict      report.Verdict  `json:"verdict" yaml:"verdict"`
	Results      []report.Result `json:"results" yaml:"results"`
	Host         *hostinfo.Info  `json:"host,omitempty" yaml:"host,omitempty"`
}

// NewRecord builds a record for a finished ranking. host may be nil.
func NewRecord(source string, observations int, narrowing fit.Narrowing, ranking *fit.Ranking, host *hostinfo.Info) Record {
	doc := report.NewDocument(observations, ranking, host)
	return Record{
		ID:           uuid.NewString(),
		CreatedAt:    time.Now().UTC(),
		Source:       source,
		Observations: observations,
		Narrowing:    narrowing.String(),
		Verdict:      doc.Verdict,
		Results:      doc.Results,
		Host:         host,
	}
}

// Document returns the record in report form.
func (r Record) Document() *report.Document {
	return &report.Document{
		Observations: r.Observations,
		Verdict:      r.Verdict,
		Results:      r.Results,
		Host:         r.Host,
	}
}

// Store persists records.
type Store interface {
	Save(ctx context.Context, rec Record) error
	// List returns up to limit records, newest first. limit <= 0 means all.
	List(ctx context.Context, limit int) ([]Record, error)
	// Get returns the record whose ID equals or uniquely starts with id.
	Get(ctx context.Context, id string) (Record, error)
	Close() error
}

// Open opens the store for backend ("sqlite" or "json") at path.
func Open(backend, path string, logger *slog.Logger) (Store, error) {
	switch backend {
	case "sqlite":
		return OpenSQLite(path)
	case "json":
		s := NewJSONStore(path, logger)
		if err := s.Load(); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported history backend: %s", backend)
	}
}

// matchID selects the record identified by id among candidates.
func matchID(records []Record, id string) (Record, error) {
	if id == "" {
		return Record{}, ErrNotFound
	}
	var found []Record
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
		if strings.HasPrefix(rec.ID, id) {
			found = append(found, rec)
		}
	}
	switch len(found) {
	case 0:
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return found[0], nil
	default:
		return Record{}, fmt.Errorf("%w: %s matches %d records", ErrAmbiguous, id, len(found))
	}
}
