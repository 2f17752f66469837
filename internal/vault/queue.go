package vault

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/posvault/internal/canon"
	"github.com/dmitrijs2005/posvault/internal/common"
	"github.com/dmitrijs2005/posvault/internal/models"
	"github.com/dmitrijs2005/posvault/internal/notify"
	"github.com/google/uuid"
)

// EnqueueRequest describes one offline action to record.
type EnqueueRequest struct {
	// ID is optional; a fresh UUID is generated when empty. It must be
	// globally unique per device and is the idempotency handle sent to
	// the server.
	ID string

	ActionType models.ActionType

	// Payload is the action's business data. It is encrypted before it
	// touches the store.
	Payload any

	// ProvisionalAt is when the action was taken on this device.
	// Defaults to now. Client-local advisory data only; never trusted
	// for cross-device ordering.
	ProvisionalAt time.Time

	// LocalAuditID optionally correlates the record with local audit
	// trails.
	LocalAuditID string

	// Checksum is computed over (deviceID, provisionalAt, payload) when
	// empty.
	Checksum string
}

// QueueItem is a decrypted view of a stored record, as returned by List.
type QueueItem struct {
	Record models.QueueRecord

	// Payload is the decrypted business data; nil when Unreadable.
	Payload json.RawMessage

	// Unreadable marks a record whose payload failed authentication,
	// e.g. after a key rotation. The record itself is still listed so
	// the sync process can see and dispose of it.
	Unreadable bool
}

// Stats reports queue occupancy against the configured quotas.
type Stats struct {
	Count    int64
	Bytes    int64
	MaxItems int64
	MaxBytes int64
}

// StatusUpdate is a partial update applied by the external sync process.
type StatusUpdate struct {
	Status         models.Status
	ConflictReason string
	ErrorMessage   string
}

// Enqueue records an offline action: computes the checksum if not supplied,
// encrypts the payload, enforces both quotas, persists the record with
// status PENDING and publishes the new pending count. A capacity violation
// rejects the whole call; nothing is written.
func (v *Vault) Enqueue(ctx context.Context, req EnqueueRequest) (*models.QueueRecord, error) {
	if !req.ActionType.Valid() {
		return nil, fmt.Errorf("enqueue: unknown action type %q", req.ActionType)
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	provisionalAt := req.ProvisionalAt
	if provisionalAt.IsZero() {
		provisionalAt = v.now().UTC()
	}

	checksum := req.Checksum
	if checksum == "" {
		deviceID, err := v.DeviceID(ctx)
		if err != nil {
			return nil, err
		}
		checksum, err = canon.Checksum(deviceID, provisionalAt, req.Payload)
		if err != nil {
			return nil, fmt.Errorf("enqueue: %w", err)
		}
	}

	ciphertext, nonce, err := v.cipher.Encrypt(ctx, req.Payload)
	if err != nil {
		return nil, fmt.Errorf("enqueue: %w", err)
	}
	sizeBytes := int64(len(ciphertext))

	// Quota check happens before the write. Two near-simultaneous
	// enqueues may both pass; the limits are soft by at most one item.
	count, totalBytes, err := v.queue.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("enqueue: %w", err)
	}
	if count+1 > v.maxItems {
		return nil, fmt.Errorf("enqueue: %d of %d items used: %w",
			count, v.maxItems, common.ErrTooManyItems)
	}
	if totalBytes+sizeBytes > v.maxBytes {
		return nil, fmt.Errorf("enqueue: %d of %d bytes used, payload needs %d: %w",
			totalBytes, v.maxBytes, sizeBytes, common.ErrTooManyBytes)
	}

	rec := &models.QueueRecord{
		ID:            id,
		ActionType:    req.ActionType,
		Payload:       ciphertext,
		Nonce:         nonce,
		Checksum:      checksum,
		ProvisionalAt: provisionalAt.UTC(),
		LocalAuditID:  req.LocalAuditID,
		CreatedAt:     v.now().UTC(),
		Status:        models.StatusPending,
		SizeBytes:     sizeBytes,
	}
	if err := v.queue.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("enqueue: %w", err)
	}

	v.log.Info(ctx, "offline action queued",
		"id", rec.ID, "action_type", string(rec.ActionType), "size_bytes", sizeBytes)
	v.publishPending(ctx)
	return rec, nil
}

// List returns every record with its payload decrypted, oldest first. That
// order defines replay order for the external sync process. A record whose
// payload fails to decrypt is returned flagged Unreadable instead of
// aborting the enumeration.
func (v *Vault) List(ctx context.Context) ([]QueueItem, error) {
	recs, err := v.queue.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]QueueItem, 0, len(recs))
	for _, rec := range recs {
		item := QueueItem{Record: rec}
		if err := v.cipher.Decrypt(ctx, rec.Payload, rec.Nonce, &item.Payload); err != nil {
			v.log.Warn(ctx, "queue record is unreadable", "id", rec.ID, "error", err)
			item.Payload = nil
			item.Unreadable = true
		}
		items = append(items, item)
	}
	return items, nil
}

// Stats returns queue occupancy. Pure metadata: nothing is decrypted.
func (v *Vault) Stats(ctx context.Context) (Stats, error) {
	count, bytes, err := v.queue.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Count: count, Bytes: bytes, MaxItems: v.maxItems, MaxBytes: v.maxBytes}, nil
}

// UpdateStatus applies the sync process's decision for one record. Only the
// status and diagnostic fields change; a missing id is a silent no-op. The
// new pending count is published either way.
func (v *Vault) UpdateStatus(ctx context.Context, id string, upd StatusUpdate) error {
	if !upd.Status.Valid() {
		return fmt.Errorf("update status: unknown status %q", upd.Status)
	}
	if err := v.queue.UpdateStatus(ctx, id, upd.Status, upd.ConflictReason, upd.ErrorMessage); err != nil {
		return err
	}
	v.publishPending(ctx)
	return nil
}

// Remove bulk-deletes records, typically after they were applied upstream.
// Missing ids are ignored.
func (v *Vault) Remove(ctx context.Context, ids []string) error {
	if err := v.queue.DeleteMany(ctx, ids); err != nil {
		return err
	}
	v.publishPending(ctx)
	return nil
}

// PendingCount returns the number of records still awaiting replay.
func (v *Vault) PendingCount(ctx context.Context) (int64, error) {
	return v.queue.PendingCount(ctx)
}

// OnQueueUpdated subscribes h to pending-count changes and returns an
// unsubscribe function.
func (v *Vault) OnQueueUpdated(h notify.Handler) (unsubscribe func()) {
	return v.notifier.Subscribe(h)
}

func (v *Vault) publishPending(ctx context.Context) {
	n, err := v.queue.PendingCount(ctx)
	if err != nil {
		v.log.Warn(ctx, "failed to count pending records", "error", err)
		return
	}
	v.notifier.Publish(n)
}
