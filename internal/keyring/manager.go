// Package keyring owns the lifecycle of the installation's symmetric
// encryption key. The key is lazily materialized on first use, cached for
// the life of the process, and stored in the metadata collection. No other
// component ever reads or writes the raw key bytes.
package keyring

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/posvault/internal/common"
)

// KeyLen is the AES-256 key length in bytes.
const KeyLen = 32

// MetaStore is the subset of the metadata repository the manager needs.
type MetaStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Manager loads or generates the key and guards it behind a mutex so a
// process uses exactly one key even under concurrent first use.
type Manager struct {
	meta MetaStore

	mu  sync.Mutex
	key []byte
}

// NewManager returns a Manager backed by the given metadata store.
func NewManager(meta MetaStore) *Manager {
	return &Manager{meta: meta}
}

// GetOrCreate returns the installation key, loading it from metadata or
// generating and persisting a fresh one on first use.
func (m *Manager) GetOrCreate(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.key != nil {
		return m.key, nil
	}

	stored, err := m.meta.Get(ctx, common.MetaKeyCryptoKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load key material: %w", err)
	}
	if stored != nil {
		if len(stored) != KeyLen {
			return nil, fmt.Errorf("%w: stored key material has length %d",
				common.ErrEncryptionUnavailable, len(stored))
		}
		m.key = stored
		return m.key, nil
	}

	key, err := common.GenerateRandByteArray(KeyLen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEncryptionUnavailable, err)
	}
	if err := m.meta.Set(ctx, common.MetaKeyCryptoKey, key); err != nil {
		return nil, fmt.Errorf("failed to persist key material: %w", err)
	}
	m.key = key
	return m.key, nil
}

// Rotate clears the stored key material and wipes the cached copy. Any
// previously encrypted records become permanently undecryptable; this is a
// wipe mechanism, not re-encryption. Callers must not rotate while queue
// items are pending unless they accept data loss.
func (m *Manager) Rotate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.meta.Delete(ctx, common.MetaKeyCryptoKey); err != nil {
		return fmt.Errorf("failed to delete key material: %w", err)
	}
	common.WipeByteArray(m.key)
	m.key = nil
	return nil
}
