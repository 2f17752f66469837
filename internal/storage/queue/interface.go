// Package queue persists pending offline actions.
package queue

import (
	"context"

	"github.com/dmitrijs2005/posvault/internal/models"
)

// Repository describes persistence of queue records. Implementations are
// backed by the local SQLite database; every call is atomic in isolation.
type Repository interface {
	// Insert stores a new record. The id must be unique within the store.
	Insert(ctx context.Context, rec *models.QueueRecord) error

	// GetByID returns a record or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.QueueRecord, error)

	// GetAll returns every record ordered by created_at ascending (replay
	// order), id as a tiebreaker.
	GetAll(ctx context.Context) ([]models.QueueRecord, error)

	// Stats returns the record count and the sum of cached payload sizes.
	// Pure metadata: no payload is decrypted.
	Stats(ctx context.Context) (count, totalBytes int64, err error)

	// PendingCount returns the number of non-terminal records.
	PendingCount(ctx context.Context) (int64, error)

	// UpdateStatus partially updates status and diagnostics of one record,
	// leaving payload, checksum and created_at untouched. A missing id is
	// a silent no-op.
	UpdateStatus(ctx context.Context, id string, status models.Status, conflictReason, errorMessage string) error

	// DeleteMany removes the given ids; missing ids are ignored.
	DeleteMany(ctx context.Context, ids []string) error

	// Clear removes every record.
	Clear(ctx context.Context) error
}
