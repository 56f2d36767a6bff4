package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ridhwanrazaliwork/PR1ME-project/internal/domain"
)

// JSONFileStore keeps every record in one JSON object on disk, keyed by
// document id and indented with four spaces.
type JSONFileStore struct {
	path string
	mu   sync.Mutex // serializes Put
}

var _ Store = (*JSONFileStore)(nil)

// NewJSONFileStore creates a store backed by the file at path. The file is
// created on first Put.
func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

// Path returns the backing file.
func (s *JSONFileStore) Path() string {
	return s.path
}

// Get reads the current file and returns a copy of documentID's record.
func (s *JSONFileStore) Get(ctx context.Context, documentID string) (*domain.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	rec, ok := records[documentID]
	if !ok {
		return nil, notFound(documentID)
	}
	out := rec.Clone()
	return &out, nil
}

// Put loads the container, sets documentID and atomically replaces the file.
func (s *JSONFileStore) Put(ctx context.Context, documentID string, record domain.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	records[documentID] = record.Clone()

	data, err := json.MarshalIndent(records, "", "    ")
	if err != nil {
		return domain.IOError("failed to encode document store", err)
	}

	return s.replace(data)
}

func (s *JSONFileStore) Close() error { return nil }

// load returns the stored container. A missing or unparsable file reads as
// an empty store.
func (s *JSONFileStore) load() (map[string]domain.Record, error) {
	records := make(map[string]domain.Record)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return records, nil
	}
	if err != nil {
		return nil, domain.IOError("failed to read document store", err)
	}

	if err := json.Unmarshal(data, &records); err != nil {
		return make(map[string]domain.Record), nil
	}
	if records == nil {
		records = make(map[string]domain.Record)
	}
	return records, nil
}

func (s *JSONFileStore) replace(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return domain.IOError("failed to create store directory", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return domain.IOError("failed to create temp store file", err)
	}
	tmpName := tmp.Name()

	cleanup := func(cause error, msg string) error {
		tmp.Close()
		os.Remove(tmpName)
		return domain.IOError(msg, cause)
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err, "failed to write document store")
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err, "failed to sync document store")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return domain.IOError("failed to close document store", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return domain.IOError(fmt.Sprintf("failed to replace %s", s.path), err)
	}
	return nil
}
