package vault

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/posvault/internal/common"
	"github.com/dmitrijs2005/posvault/internal/models"
)

// receiptHistoryKey names the bounded "recent receipts" snapshot.
const receiptHistoryKey = "receipt_history"

// SetSnapshot encrypts payload and upserts it under key, stamping the
// update time. Snapshots are populated opportunistically while online and
// read back when offline.
func (v *Vault) SetSnapshot(ctx context.Context, key string, payload any) error {
	ciphertext, nonce, err := v.cipher.Encrypt(ctx, payload)
	if err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return v.snaps.Set(ctx, &models.Snapshot{
		Key:       key,
		Payload:   ciphertext,
		Nonce:     nonce,
		UpdatedAt: v.now().UTC(),
	})
}

// GetSnapshot decrypts the snapshot stored under key into out. Returns
// common.ErrNotFound when no snapshot exists.
func (v *Vault) GetSnapshot(ctx context.Context, key string, out any) error {
	snap, err := v.snaps.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := v.cipher.Decrypt(ctx, snap.Payload, snap.Nonce, out); err != nil {
		return fmt.Errorf("get snapshot %s: %w", key, err)
	}
	return nil
}

// AppendReceipt prepends entry to the bounded receipt history. This is a
// read-modify-write without cross-caller atomicity; concurrent appends are
// last-writer-wins, which is acceptable for this non-critical history.
func (v *Vault) AppendReceipt(ctx context.Context, entry any) error {
	history, err := v.Receipts(ctx)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("append receipt: %w", err)
	}

	history = append([]json.RawMessage{raw}, history...)
	if len(history) > v.historyLimit {
		history = history[:v.historyLimit]
	}
	return v.SetSnapshot(ctx, receiptHistoryKey, history)
}

// Receipts returns the receipt history, newest first. An absent history is
// an empty list, not an error.
func (v *Vault) Receipts(ctx context.Context) ([]json.RawMessage, error) {
	var history []json.RawMessage
	err := v.GetSnapshot(ctx, receiptHistoryKey, &history)
	if errors.Is(err, common.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return history, nil
}
