// Package coldstore defines the durable ownership store contract
// (spec.md §4.1) and a Redis-backed implementation.
package coldstore

import (
	"context"
	"fmt"

	"github.com/clickplanet/server/internal/clickmodel"
)

// StorageError wraps a backend failure (connection, timeout, protocol).
type StorageError struct {
	msg string
	err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("coldstore: storage error: %s", e.msg) }
func (e *StorageError) Unwrap() error { return e.err }

func newStorageError(msg string, err error) *StorageError {
	return &StorageError{msg: msg, err: err}
}

// InvalidDataError wraps a record that could not be decoded.
type InvalidDataError struct {
	msg string
}

func (e *InvalidDataError) Error() string {
	return fmt.Sprintf("coldstore: invalid data: %s", e.msg)
}

func newInvalidDataError(msg string) *InvalidDataError {
	return &InvalidDataError{msg: msg}
}

// Store is the durable home of tile ownership. Implementations must honor
// last-writer-wins on SaveClick: an existing record whose timestamp is
// greater than or equal to click.TimestampNs is left untouched, and its
// (unchanged) value is returned.
type Store interface {
	GetTile(ctx context.Context, tileID uint32) (*clickmodel.Ownership, error)
	GetRange(ctx context.Context, start, end uint32) ([]clickmodel.Ownership, error)
	GetAll(ctx context.Context) ([]clickmodel.Ownership, error)
	SaveClick(ctx context.Context, tileID uint32, click clickmodel.Click) (*clickmodel.Ownership, error)
}
