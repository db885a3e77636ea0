// Package database provides the JSON document stores backing the recetario API.
// Each store holds one top-level JSON array in a single file that is read and
// written as a whole.
package database

import "context"

// Collection defines the operations repositories need from a JSON store.
// It abstracts the file backed implementation so repositories can be tested
// against fakes.
type Collection[T any] interface {
	// Load returns every record. A missing or unreadable file yields an empty slice.
	Load(ctx context.Context) []T

	// Save replaces the stored records.
	Save(ctx context.Context, records []T) error

	// Update runs a read-modify-write cycle under the store lock.
	// Nothing is written when fn returns an error.
	Update(ctx context.Context, fn func(records []T) ([]T, error)) error

	// HealthCheck verifies the store location is writable.
	HealthCheck(ctx context.Context) error

	// Path returns the backing file path.
	Path() string
}
