// internal/database/store.go
package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// ErrCorrupt is returned by Update when the backing file exists but cannot be parsed.
// Writing in that state would replace the unreadable records with an empty list.
var ErrCorrupt = errors.New("store file is not a valid JSON array")

// Store is a JSON array of T persisted in a single file.
// Writers are serialized by an in-process mutex and every save replaces the
// file through a temporary sibling and a rename.
type Store[T any] struct {
	path string
	name string
	mu   sync.RWMutex
}

// NewStore creates a store bound to path.
// The file is created lazily on the first save.
func NewStore[T any](path string) *Store[T] {
	return &Store[T]{
		path: path,
		name: filepath.Base(path),
	}
}

// Path returns the backing file path
func (s *Store[T]) Path() string {
	return s.path
}

// Load reads every record from disk.
// A missing, empty or unparsable file yields an empty slice; the cause is logged.
func (s *Store[T]) Load(ctx context.Context) []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records, err := s.read()
	if err != nil {
		log.Error().Err(err).Str("store", s.name).Msg("Failed to load store, using empty list")
		return []T{}
	}
	return records
}

// Save writes records to disk, replacing the previous content
func (s *Store[T]) Save(ctx context.Context, records []T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.write(records)
}

// Update loads the records, applies fn and saves the result while holding the store lock.
// If fn returns an error the file is left untouched and the error is returned as is.
func (s *Store[T]) Update(ctx context.Context, fn func(records []T) ([]T, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		log.Error().Err(err).Str("store", s.name).Msg("Refusing to overwrite unreadable store")
		return fmt.Errorf("%s: %w", s.name, ErrCorrupt)
	}

	updated, err := fn(records)
	if err != nil {
		return err
	}

	return s.write(updated)
}

// HealthCheck verifies the data directory exists and accepts new files
func (s *Store[T]) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("store health check failed: %w", err)
	}

	f, err := os.CreateTemp(dir, ".health-*")
	if err != nil {
		return fmt.Errorf("store health check failed: %w", err)
	}
	name := f.Name()
	f.Close()

	if err := os.Remove(name); err != nil {
		return fmt.Errorf("store health check cleanup failed: %w", err)
	}
	return nil
}

// read parses the backing file. A missing or blank file is an empty list.
func (s *Store[T]) read() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []T{}, nil
		}
		return nil, err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// write encodes records with a two space indent, keeping non-ASCII text and
// HTML characters unescaped, and renames the result over the backing file.
func (s *Store[T]) write(records []T) error {
	if records == nil {
		records = []T{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.name, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), filePerm); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.name, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", s.name, err)
	}

	log.Debug().Str("store", s.name).Int("records", len(records)).Msg("Store saved")
	return nil
}
