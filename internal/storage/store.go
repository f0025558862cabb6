// Package storage keeps content-addressed snapshots of generated artifacts so
// the output of earlier builds can be shown again.
package storage

import (
	"context"
	"errors"
)

// SnapshotStore stores artifact snapshots by content hash and remembers which
// build produced which snapshot.
type SnapshotStore interface {
	// Put stores data for buildID and returns its content hash. Identical
	// content is stored once.
	Put(ctx context.Context, buildID string, data []byte) (hash string, err error)

	// Get retrieves a snapshot by its content hash.
	// Returns ErrNotFound if the snapshot doesn't exist.
	Get(ctx context.Context, hash string) ([]byte, error)

	// ForBuild returns the snapshot hash recorded for buildID. A unique prefix
	// of a build ID is accepted.
	ForBuild(ctx context.Context, buildID string) (string, error)

	// Prune keeps the keep most recent builds and removes snapshots no
	// remaining build references. It returns the number of removed snapshots.
	Prune(ctx context.Context, keep int) (int, error)
}

// ErrNotFound is returned when a snapshot or build reference doesn't exist.
type ErrNotFound struct {
	Key string
}

func (e ErrNotFound) Error() string {
	return "snapshot not found: " + e.Key
}

// IsNotFound returns true if the error is ErrNotFound.
func IsNotFound(err error) bool {
	var nf ErrNotFound
	return errors.As(err, &nf)
}
