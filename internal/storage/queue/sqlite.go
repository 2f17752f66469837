package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
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

const recordColumns = `id, action_type, payload, nonce, checksum, provisional_at,
	local_audit_id, created_at, status, conflict_reason, error_message, size_bytes`

func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.QueueRecord) error {
	query := `INSERT INTO queue (` + recordColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, string(rec.ActionType), rec.Payload, rec.Nonce, rec.Checksum,
		rec.ProvisionalAt.UTC().UnixMilli(), rec.LocalAuditID,
		rec.CreatedAt.UTC().UnixMilli(), string(rec.Status),
		rec.ConflictReason, rec.ErrorMessage, rec.SizeBytes)
	if err != nil {
		return fmt.Errorf("failed to insert queue record: %w: %v", common.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.QueueRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM queue WHERE id = ?`, id)

	rec, err := scanRecord(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("queue record %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get queue record: %w: %v", common.ErrStorageUnavailable, err)
	}
	return rec, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.QueueRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM queue ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select queue records: %w: %v", common.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var result []models.QueueRecord
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan queue record: %w: %v", common.ErrStorageUnavailable, err)
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate queue records: %w: %v", common.ErrStorageUnavailable, err)
	}
	return result, nil
}

func (r *SQLiteRepository) Stats(ctx context.Context) (count, totalBytes int64, err error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(size_bytes), 0) FROM queue`)
	if err := row.Scan(&count, &totalBytes); err != nil {
		return 0, 0, fmt.Errorf("failed to read queue stats: %w: %v", common.ErrStorageUnavailable, err)
	}
	return count, totalBytes, nil
}

func (r *SQLiteRepository) PendingCount(ctx context.Context) (int64, error) {
	var n int64
	row := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM queue WHERE status = ?`, string(models.StatusPending))
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending records: %w: %v", common.ErrStorageUnavailable, err)
	}
	return n, nil
}

func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id string, status models.Status, conflictReason, errorMessage string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE queue SET status = ?, conflict_reason = ?, error_message = ? WHERE id = ?`,
		string(status), conflictReason, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update queue record status: %w: %v", common.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteMany(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM queue WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("failed to delete queue records: %w: %v", common.ErrStorageUnavailable, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM queue`); err != nil {
		return fmt.Errorf("failed to clear queue: %w: %v", common.ErrStorageUnavailable, err)
	}
	return nil
}

func scanRecord(scan func(dest ...any) error) (*models.QueueRecord, error) {
	var (
		rec                      models.QueueRecord
		actionType, status       string
		provisionalMs, createdMs int64
	)
	err := scan(&rec.ID, &actionType, &rec.Payload, &rec.Nonce, &rec.Checksum,
		&provisionalMs, &rec.LocalAuditID, &createdMs, &status,
		&rec.ConflictReason, &rec.ErrorMessage, &rec.SizeBytes)
	if err != nil {
		return nil, err
	}
	rec.ActionType = models.ActionType(actionType)
	rec.Status = models.Status(status)
	rec.ProvisionalAt = time.UnixMilli(provisionalMs).UTC()
	rec.CreatedAt = time.UnixMilli(createdMs).UTC()
	return &rec, nil
}
