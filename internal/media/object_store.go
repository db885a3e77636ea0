// Package media validates user supplied images and writes them to an object store.
package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/proyectoiso/recetario/internal/config"
	"github.com/proyectoiso/recetario/internal/constants"
)

// ObjectStore persists uploaded images and returns the URL they are served from
type ObjectStore interface {
	// Put writes data as purpose/filename and returns its public URL.
	Put(ctx context.Context, purpose, filename, contentType string, data []byte) (string, error)

	// Delete removes the object behind url. URLs the store does not own are ignored.
	Delete(ctx context.Context, url string) error
}

// NewObjectStore builds the store selected by the object_store.driver setting
func NewObjectStore(ctx context.Context, cfg *config.AppConfig) (ObjectStore, error) {
	switch strings.ToLower(cfg.ObjectStore.Driver) {
	case "", constants.StorageDriverLocal:
		return NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.UploadURL), nil
	case constants.StorageDriverS3:
		return NewS3Store(ctx, cfg.ObjectStore)
	default:
		return nil, fmt.Errorf("unknown object store driver: %s", cfg.ObjectStore.Driver)
	}
}

// LocalStore writes images below a directory served by the static mount
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore creates a store rooted at dir whose files are served under baseURL
func NewLocalStore(dir, baseURL string) *LocalStore {
	if dir == "" {
		dir = constants.DefaultUploadDir
	}
	if baseURL == "" {
		baseURL = constants.DefaultUploadURL
	}
	return &LocalStore{
		root:    filepath.Clean(dir),
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Put implements ObjectStore
func (s *LocalStore) Put(ctx context.Context, purpose, filename, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, purpose)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return s.baseURL + "/" + path.Join(purpose, filename), nil
}

// Delete implements ObjectStore. Paths resolving outside the upload root are ignored.
func (s *LocalStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target, ok := s.pathFor(url)
	if !ok {
		return nil
	}

	if err := os.Remove(target); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	return nil
}

// pathFor maps a served URL back to a file below the upload root
func (s *LocalStore) pathFor(url string) (string, bool) {
	prefix := s.baseURL + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}

	rel := path.Clean("/" + strings.TrimPrefix(url, prefix))
	target := filepath.Join(s.root, filepath.FromSlash(rel))

	within, err := filepath.Rel(s.root, target)
	if err != nil || within == "." || strings.HasPrefix(within, "..") {
		return "", false
	}
	return target, true
}
