package models

import "time"

// Snapshot is a named encrypted blob of reference data or derived history
// (e.g. branches+suppliers, recent receipts) readable while offline.
// No TTL is enforced here; staleness is a UI concern.
type Snapshot struct {
	Key       string
	Payload   []byte // AES-GCM ciphertext
	Nonce     []byte
	UpdatedAt time.Time
}
