// Package snapshot persists named encrypted blobs of reference data for
// offline reads.
package snapshot

import (
	"context"

	"github.com/dmitrijs2005/posvault/internal/models"
)

// Repository describes persistence of cache snapshots.
type Repository interface {
	// Get returns the snapshot stored under key or common.ErrNotFound.
	Get(ctx context.Context, key string) (*models.Snapshot, error)

	// Set upserts a snapshot by key.
	Set(ctx context.Context, snap *models.Snapshot) error

	// Delete removes a snapshot; a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Clear removes every snapshot.
	Clear(ctx context.Context) error
}
