package history

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// data is the persisted file layout.
type data struct {
	Version   int       `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
	Records   []Record  `json:"records"`
}

const currentVersion = 1

// JSONStore keeps every record in a single JSON file, rewritten atomically
// on each save.
type JSONStore struct {
	path   string
	logger *slog.Logger

	mu   sync.RWMutex
	data *data
}

// NewJSONStore creates a store backed by the file at path. Call Load
// before use.
func NewJSONStore(path string, logger *slog.Logger) *JSONStore {
	return &JSONStore{
		path:   path,
		logger: logger,
		data:   newEmptyData(),
	}
}

func newEmptyData() *data {
	return &data{
		Version:   currentVersion,
		UpdatedAt: time.Now(),
		Records:   []Record{},
	}
}

// Load reads the file. A missing or unreadable file starts an empty history.
func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Debug("no existing history file, starting fresh", "path", s.path)
			s.data = newEmptyData()
			return nil
		}
		return err
	}
	defer file.Close()

	var d data
	if err := json.NewDecoder(file).Decode(&d); err != nil {
		s.logger.Warn("failed to decode history file, starting fresh", "error", err)
		s.data = newEmptyData()
		return nil
	}

	if d.Version > currentVersion {
		s.logger.Warn("history file version is newer than supported, starting fresh",
			"file_version", d.Version,
			"supported_version", currentVersion,
		)
		s.data = newEmptyData()
		return nil
	}

	if d.Records == nil {
		d.Records = []Record{}
	}

	s.data = &d
	s.logger.Debug("loaded history from disk",
		"path", s.path,
		"records", len(d.Records),
	)

	return nil
}

// Save appends rec and writes the file.
func (s *JSONStore) Save(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data.Records = append(s.data.Records, rec)
	if err := s.saveLocked(); err != nil {
		s.data.Records = s.data.Records[:len(s.data.Records)-1]
		return err
	}
	return nil
}

func (s *JSONStore) saveLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	tempPath := s.path + ".tmp"

	s.data.UpdatedAt = time.Now()

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(s.data); err != nil {
		file.Close()
		os.Remove(tempPath)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	// Atomic rename
	if err := os.Rename(tempPath, s.path); err != nil {
		os.Remove(tempPath)
		return err
	}

	s.logger.Debug("saved history to disk", "path", s.path, "records", len(s.data.Records))

	return nil
}

// List implements Store.
func (s *JSONStore) List(_ context.Context, limit int) ([]Record, error) {
	s.mu.RLock()
	n := len(s.data.Records)
	records := make([]Record, n)
	for i, rec := range s.data.Records {
		records[n-1-i] = rec
	}
	s.mu.RUnlock()

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Get implements Store.
func (s *JSONStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return matchID(s.data.Records, id)
}

// Close implements Store. Every Save is already on disk.
func (s *JSONStore) Close() error {
	return nil
}
