package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/haskel/bigofit/internal/hostinfo"
	"github.com/haskel/bigofit/internal/report"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Fixed-width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteStore keeps records in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at path and applies migrations.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			source TEXT NOT NULL,
			observations INTEGER NOT NULL,
			narrowing TEXT NOT NULL,
			verdict_label TEXT NOT NULL,
			verdict_name TEXT NOT NULL,
			verdict_constant REAL,
			verdict_error REAL,
			host TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS run_results (
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			label TEXT NOT NULL,
			name TEXT NOT NULL,
			constant REAL,
			error REAL,
			rounds INTEGER NOT NULL,
			capped INTEGER NOT NULL,
			PRIMARY KEY (run_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, rec Record) (err error) {
	var host sql.NullString
	if rec.Host != nil {
		data, err := json.Marshal(rec.Host)
		if err != nil {
			return fmt.Errorf("failed to encode host info: %w", err)
		}
		host = sql.NullString{String: string(data), Valid: true}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, source, observations, narrowing, verdict_label, verdict_name, verdict_constant, verdict_error, host)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.CreatedAt.UTC().Format(timeLayout),
		rec.Source,
		rec.Observations,
		rec.Narrowing,
		rec.Verdict.Label,
		rec.Verdict.Name,
		toNull(rec.Verdict.Constant),
		toNull(rec.Verdict.Error),
		host,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO run_results (run_id, position, label, name, constant, error, rounds, capped)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer func() {
		_ = stmt.Close()
	}()

	for i, res := range rec.Results {
		_, err = stmt.ExecContext(ctx, rec.ID, i, res.Label, res.Name,
			toNull(res.Constant), toNull(res.Error), res.Rounds, res.Capped)
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Record, error) {
	query := `SELECT id, created_at, source, observations, narrowing, verdict_label, verdict_name, verdict_constant, verdict_error, host
		FROM runs ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryRecords(ctx, query, args...)
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id string) (Record, error) {
	if id == "" {
		return Record{}, ErrNotFound
	}
	records, err := s.queryRecords(ctx,
		`SELECT id, created_at, source, observations, narrowing, verdict_label, verdict_name, verdict_constant, verdict_error, host
		 FROM runs WHERE substr(id, 1, length(?)) = ?`, id, id)
	if err != nil {
		return Record{}, err
	}
	return matchID(records, id)
}

func (s *SQLiteStore) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var records []Record
	for rows.Next() {
		var (
			rec       Record
			createdAt string
			constant  sql.NullFloat64
			errValue  sql.NullFloat64
			host      sql.NullString
		)
		if err := rows.Scan(&rec.ID, &createdAt, &rec.Source, &rec.Observations, &rec.Narrowing,
			&rec.Verdict.Label, &rec.Verdict.Name, &constant, &errValue, &host); err != nil {
			return nil, err
		}
		rec.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
		}
		rec.Verdict.Constant = fromNull(constant)
		rec.Verdict.Error = fromNull(errValue)
		if host.Valid {
			rec.Host = &hostinfo.Info{}
			if err := json.Unmarshal([]byte(host.String), rec.Host); err != nil {
				return nil, fmt.Errorf("invalid host info for %s: %w", rec.ID, err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		results, err := s.loadResults(ctx, records[i].ID)
		if err != nil {
			return nil, err
		}
		records[i].Results = results
	}
	return records, nil
}

func (s *SQLiteStore) loadResults(ctx context.Context, runID string) ([]report.Result, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT label, name, constant, error, rounds, capped
		 FROM run_results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rows.Close()
	}()

	var results []report.Result
	for rows.Next() {
		var (
			res      report.Result
			constant sql.NullFloat64
			errValue sql.NullFloat64
		)
		if err := rows.Scan(&res.Label, &res.Name, &constant, &errValue, &res.Rounds, &res.Capped); err != nil {
			return nil, err
		}
		res.Constant = fromNull(constant)
		res.Error = fromNull(errValue)
		results = append(results, res)
	}
	return results, rows.Err()
}

// SQLite has no NaN; it is stored as NULL.
func toNull(n report.Number) sql.NullFloat64 {
	f := float64(n)
	if math.IsNaN(f) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: f, Valid: true}
}

func fromNull(v sql.NullFloat64) report.Number {
	if !v.Valid {
		return report.Number(math.NaN())
	}
	return report.Number(v.Float64)
}
