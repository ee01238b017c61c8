package history

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/haskel/bigofit/internal/fit"
	"github.com/haskel/bigofit/internal/growth"
	"github.com/haskel/bigofit/internal/hostinfo"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testRecord(id string, created time.Time) Record {
	ranking := &fit.Ranking{
		Verdict: fit.Verdict{Function: growth.Quadratic, Constant: 1, Error: 0},
		Results: []fit.FitResult{
			{Function: growth.Constant, Constant: 336669.9, Error: 270801.1, Rounds: 3},
			{Function: growth.Quadratic, Constant: 1, Error: 0, Rounds: 19},
			{Function: growth.Exponential, Constant: 62500, Error: math.Inf(1), Rounds: 2},
			{Function: growth.Logarithmic, Constant: 0, Error: math.NaN(), Rounds: 200, Capped: true},
		},
	}
	rec := NewRecord("data.txt", 3, fit.NarrowSymmetric, ranking, &hostinfo.Info{CPUModel: "Test CPU", LogicalCores: 4})
	rec.ID = id
	rec.CreatedAt = created
	return rec
}

func backends(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()

	sqliteStore, err := Open("sqlite", filepath.Join(dir, "history.db"), testLogger())
	if err != nil {
		t.Fatalf("failed to open sqlite store: %v", err)
	}
	jsonStore, err := Open("json", filepath.Join(dir, "history.json"), testLogger())
	if err != nil {
		t.Fatalf("failed to open json store: %v", err)
	}

	t.Cleanup(func() {
		sqliteStore.Close()
		jsonStore.Close()
	})

	return map[string]Store{"sqlite": sqliteStore, "json": jsonStore}
}

func TestStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			rec := testRecord("0f2c7a10-aaaa-4bbb-8ccc-000000000001", created)
			if err := store.Save(ctx, rec); err != nil {
				t.Fatalf("Save failed: %v", err)
			}

			got, err := store.Get(ctx, rec.ID)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}

			if got.Source != "data.txt" || got.Observations != 3 || got.Narrowing != "symmetric" {
				t.Errorf("unexpected record header: %+v", got)
			}
			if !got.CreatedAt.Equal(created) {
				t.Errorf("expected created_at %v, got %v", created, got.CreatedAt)
			}
			if got.Verdict.Label != "O(n^2)" || got.Verdict.Name != "quadratic" {
				t.Errorf("unexpected verdict: %+v", got.Verdict)
			}
			if len(got.Results) != 4 {
				t.Fatalf("expected 4 results, got %d", len(got.Results))
			}
			if got.Results[1].Rounds != 19 {
				t.Errorf("expected 19 rounds, got %d", got.Results[1].Rounds)
			}
			if !math.IsInf(float64(got.Results[2].Error), 1) {
				t.Errorf("expected +Inf error, got %v", got.Results[2].Error)
			}
			if !math.IsNaN(float64(got.Results[3].Error)) || !got.Results[3].Capped {
				t.Errorf("expected capped NaN result, got %+v", got.Results[3])
			}
			if got.Host == nil || got.Host.CPUModel != "Test CPU" {
				t.Errorf("expected host info, got %+v", got.Host)
			}
		})
	}
}

func TestStore_GetByPrefix(t *testing.T) {
	ctx := context.Background()
	now := time.Now().UTC()

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"abc11111", "abc22222", "def33333"} {
				if err := store.Save(ctx, testRecord(id, now)); err != nil {
					t.Fatalf("Save failed: %v", err)
				}
			}

			got, err := store.Get(ctx, "def")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if got.ID != "def33333" {
				t.Errorf("expected def33333, got %s", got.ID)
			}

			if _, err := store.Get(ctx, "abc"); !errors.Is(err, ErrAmbiguous) {
				t.Errorf("expected ErrAmbiguous, got %v", err)
			}
			if _, err := store.Get(ctx, "zzz"); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
			if _, err := store.Get(ctx, ""); !errors.Is(err, ErrNotFound) {
				t.Errorf("expected ErrNotFound for empty id, got %v", err)
			}
		})
	}
}

func TestStore_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ids := []string{"run-1", "run-2", "run-3"}
			for i, id := range ids {
				if err := store.Save(ctx, testRecord(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
					t.Fatalf("Save failed: %v", err)
				}
			}

			all, err := store.List(ctx, 0)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(all) != 3 || all[0].ID != "run-3" || all[2].ID != "run-1" {
				t.Errorf("expected newest first, got %v", recordIDs(all))
			}

			limited, err := store.List(ctx, 2)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if len(limited) != 2 || limited[0].ID != "run-3" || limited[1].ID != "run-2" {
				t.Errorf("expected [run-3 run-2], got %v", recordIDs(limited))
			}
		})
	}
}

func TestStore_Reopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, backend := range []string{"sqlite", "json"} {
		t.Run(backend, func(t *testing.T) {
			path := filepath.Join(dir, "history-"+backend)

			store, err := Open(backend, path, testLogger())
			if err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			if err := store.Save(ctx, testRecord("persisted", time.Now().UTC())); err != nil {
				t.Fatalf("Save failed: %v", err)
			}
			if err := store.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			reopened, err := Open(backend, path, testLogger())
			if err != nil {
				t.Fatalf("reopen failed: %v", err)
			}
			defer reopened.Close()

			got, err := reopened.Get(ctx, "persisted")
			if err != nil {
				t.Fatalf("Get after reopen failed: %v", err)
			}
			if got.Verdict.Label != "O(n^2)" {
				t.Errorf("expected verdict O(n^2), got %s", got.Verdict.Label)
			}
		})
	}
}

func TestJSONStore_CorruptFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	s := NewJSONStore(path, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("Load should not fail for corrupt file: %v", err)
	}

	records, err := s.List(context.Background(), 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty history, got %d records", len(records))
	}
}

func TestJSONStore_NewerVersionStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	if err := os.WriteFile(path, []byte(`{"version": 99, "records": [{"id": "x"}]}`), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	s := NewJSONStore(path, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := s.Get(context.Background(), "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected records from newer version to be ignored, got %v", err)
	}
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open("postgres", "", testLogger()); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestNewRecord(t *testing.T) {
	rec := testRecord("", time.Time{})
	fresh := NewRecord("stdin", 3, fit.NarrowLegacy, &fit.Ranking{
		Verdict: fit.Verdict{Function: growth.Linear},
		Results: []fit.FitResult{{Function: growth.Linear}},
	}, nil)

	if len(fresh.ID) != 36 {
		t.Errorf("expected uuid id, got %q", fresh.ID)
	}
	if fresh.CreatedAt.IsZero() {
		t.Error("expected creation time")
	}
	if fresh.Narrowing != "legacy" || fresh.Verdict.Label != "O(n)" {
		t.Errorf("unexpected record: %+v", fresh)
	}

	doc := rec.Document()
	if doc.Verdict.Label != "O(n^2)" || len(doc.Results) != 4 || doc.Host == nil {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func recordIDs(records []Record) []string {
	ids := make([]string, len(records))
	for i, rec := range records {
		ids[i] = rec.ID
	}
	return ids
}
