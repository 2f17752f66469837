// Package vault is the entry point of the offline action store. It wires
// the key manager, cipher, repositories and change notifier together and
// exposes the operations consumed by the UI layer and the background sync
// process: the capacity-bounded encrypted queue, the snapshot cache, the
// PIN gate, offline flags, and the wipe operations.
package vault

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/posvault/internal/common"
	"github.com/dmitrijs2005/posvault/internal/config"
	"github.com/dmitrijs2005/posvault/internal/cryptox"
	"github.com/dmitrijs2005/posvault/internal/dbx"
	"github.com/dmitrijs2005/posvault/internal/keyring"
	"github.com/dmitrijs2005/posvault/internal/logging"
	"github.com/dmitrijs2005/posvault/internal/notify"
	"github.com/dmitrijs2005/posvault/internal/storage"
	"github.com/dmitrijs2005/posvault/internal/storage/meta"
	"github.com/dmitrijs2005/posvault/internal/storage/queue"
	"github.com/dmitrijs2005/posvault/internal/storage/snapshot"
	"github.com/google/uuid"
)

// Options tunes a Vault. Zero fields fall back to the config defaults.
type Options struct {
	MaxItems     int64
	MaxBytes     int64
	HistoryLimit int
	Logger       logging.Logger

	// Now is a clock seam for tests.
	Now func() time.Time
}

// Vault owns all offline state for one device. All operations are safe for
// concurrent use within a process; composite operations (quota check then
// write) accept a small race window between two near-simultaneous enqueues,
// so the quotas are soft limits by at most one item.
type Vault struct {
	db       *sql.DB
	queue    queue.Repository
	snaps    snapshot.Repository
	meta     meta.Repository
	keys     *keyring.Manager
	cipher   *cryptox.Cipher
	notifier *notify.Notifier
	log      logging.Logger

	maxItems     int64
	maxBytes     int64
	historyLimit int
	now          func() time.Time

	mu       sync.Mutex
	deviceID string
}

// Open opens (creating if needed) the client database described by cfg and
// returns a ready Vault.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger) (*Vault, error) {
	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}
	return New(db, Options{
		MaxItems:     cfg.MaxQueueItems,
		MaxBytes:     cfg.MaxQueueBytes,
		HistoryLimit: cfg.ReceiptHistoryLimit,
		Logger:       log,
	}), nil
}

// New assembles a Vault over an already opened and migrated database.
func New(db *sql.DB, opts Options) *Vault {
	defaults := &config.Config{}
	defaults.LoadDefaults()

	if opts.MaxItems <= 0 {
		opts.MaxItems = defaults.MaxQueueItems
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = defaults.MaxQueueBytes
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaults.ReceiptHistoryLimit
	}
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	metaRepo := meta.NewSQLiteRepository(db)
	keys := keyring.NewManager(metaRepo)

	return &Vault{
		db:           db,
		queue:        queue.NewSQLiteRepository(db),
		snaps:        snapshot.NewSQLiteRepository(db),
		meta:         metaRepo,
		keys:         keys,
		cipher:       cryptox.NewCipher(keys),
		notifier:     notify.New(),
		log:          opts.Logger,
		maxItems:     opts.MaxItems,
		maxBytes:     opts.MaxBytes,
		historyLimit: opts.HistoryLimit,
		now:          opts.Now,
	}
}

// Close releases the underlying database.
func (v *Vault) Close() error {
	return v.db.Close()
}

// DeviceID returns the stable device identifier, generating and persisting
// one on first use. It is the device component of every action checksum.
func (v *Vault) DeviceID(ctx context.Context) (string, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.deviceID != "" {
		return v.deviceID, nil
	}

	stored, err := v.meta.Get(ctx, common.MetaKeyDeviceID)
	if err != nil {
		return "", fmt.Errorf("failed to load device id: %w", err)
	}
	if stored != nil {
		v.deviceID = string(stored)
		return v.deviceID, nil
	}

	id := uuid.NewString()
	if err := v.meta.Set(ctx, common.MetaKeyDeviceID, []byte(id)); err != nil {
		return "", fmt.Errorf("failed to persist device id: %w", err)
	}
	v.deviceID = id
	return id, nil
}

// RotateKey destroys the installation's key material. Previously encrypted
// queue records and snapshots remain in the store but can no longer be
// decrypted: this is a wipe mechanism, not re-encryption.
func (v *Vault) RotateKey(ctx context.Context) error {
	if err := v.keys.Rotate(ctx); err != nil {
		return err
	}
	v.log.Warn(ctx, "encryption key rotated, existing ciphertexts are unreadable")
	return nil
}

// ClearAll wipes the queue, the snapshot cache and all metadata in a single
// transaction. Used for device reset or logout.
func (v *Vault) ClearAll(ctx context.Context) error {
	err := dbx.WithTx(ctx, v.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := queue.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		if err := snapshot.NewSQLiteRepository(tx).Clear(ctx); err != nil {
			return err
		}
		return meta.NewSQLiteRepository(tx).Clear(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to clear offline data: %w", err)
	}

	// Drop in-process caches so the next use starts from a clean slate.
	if err := v.keys.Rotate(ctx); err != nil {
		return err
	}
	v.mu.Lock()
	v.deviceID = ""
	v.mu.Unlock()

	v.log.Info(ctx, "offline data cleared")
	v.notifier.Publish(0)
	return nil
}
