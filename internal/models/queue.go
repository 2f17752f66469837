// Package models defines the data shapes persisted by the offline store.
package models

import (
	"fmt"
	"time"
)

// ActionType is the closed set of offline point-of-sale operations. Adding
// a new offline action is a new constant here plus a case in Valid.
type ActionType string

const (
	ActionSaleComplete    ActionType = "SALE_COMPLETE"
	ActionPurchaseDraft   ActionType = "PURCHASE_DRAFT"
	ActionStockAdjustment ActionType = "STOCK_ADJUSTMENT"
)

// Valid reports whether t is a known action type.
func (t ActionType) Valid() bool {
	switch t {
	case ActionSaleComplete, ActionPurchaseDraft, ActionStockAdjustment:
		return true
	}
	return false
}

// ParseActionType converts a raw string into an ActionType.
func ParseActionType(s string) (ActionType, error) {
	t := ActionType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown action type %q", s)
	}
	return t, nil
}

// Status is the replay state of a queued action. PENDING is the only state
// this subsystem assigns; the external sync process moves records into one
// of the terminal states via UpdateStatus and never back.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApplied  Status = "APPLIED"
	StatusRejected Status = "REJECTED"
	StatusConflict Status = "CONFLICT"
	StatusFailed   Status = "FAILED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApplied, StatusRejected, StatusConflict, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether s ends the record's lifecycle in this store.
func (s Status) Terminal() bool {
	return s.Valid() && s != StatusPending
}

// QueueRecord is one pending offline action as persisted. Payload holds
// AEAD ciphertext alongside its nonce; the business data never touches the
// store in clear.
type QueueRecord struct {
	// ID is globally unique per device and doubles as the idempotency
	// handle sent to the server.
	ID string

	// ActionType tags the business operation.
	ActionType ActionType

	// Payload is the AES-GCM ciphertext of the action's business data.
	Payload []byte
	// Nonce is the AEAD nonce for Payload.
	Nonce []byte

	// Checksum is the deterministic digest over
	// (deviceID, provisionalAt, payload) used for duplicate detection.
	Checksum string

	// ProvisionalAt is the client-side time the action was taken.
	// Advisory only; never trusted for cross-device ordering.
	ProvisionalAt time.Time

	// LocalAuditID is an optional correlation id for local audit trails.
	LocalAuditID string

	// CreatedAt orders replay (oldest first).
	CreatedAt time.Time

	Status         Status
	ConflictReason string
	ErrorMessage   string

	// SizeBytes caches len(Payload) at insert time so quota accounting
	// never needs to decrypt anything.
	SizeBytes int64
}
