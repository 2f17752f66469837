package snapshot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/posvault/internal/common"
	"github.com/dmitrijs2005/posvault/internal/dbx"
	"github.com/dmitrijs2005/posvault/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Get(ctx context.Context, key string) (*models.Snapshot, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT payload, nonce, updated_at FROM snapshots WHERE key = ?`, key)

	snap := &models.Snapshot{Key: key}
	var updatedMs int64
	err := row.Scan(&snap.Payload, &snap.Nonce, &updatedMs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", key, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot[%s]: %w: %v", key, common.ErrStorageUnavailable, err)
	}
	snap.UpdatedAt = time.UnixMilli(updatedMs).UTC()
	return snap, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, snap *models.Snapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, payload, nonce, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET payload = excluded.payload,
			nonce = excluded.nonce,
			updated_at = excluded.updated_at
	`, snap.Key, snap.Payload, snap.Nonce, snap.UpdatedAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to set snapshot[%s]: %w: %v", snap.Key, common.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot[%s]: %w: %v", key, common.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM snapshots`); err != nil {
		return fmt.Errorf("failed to clear snapshots: %w: %v", common.ErrStorageUnavailable, err)
	}
	return nil
}
