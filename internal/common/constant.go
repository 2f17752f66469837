package common

// Metadata keys used by this subsystem. All keys live in the shared
// metadata collection and are namespaced by convention so they cannot
// collide with keys added by unrelated future features.
const (
	MetaKeyCryptoKey   = "crypto_key"
	MetaKeyDeviceID    = "device_id"
	MetaKeyPinHash     = "pin_hash"
	MetaKeyPinRequired = "pin_required"

	// Offline flags maintained for the external sync process.
	MetaKeyLastSyncAt   = "last_sync_at"
	MetaKeySyncBlocked  = "sync_blocked"
	MetaKeyOfflineSince = "offline_since"
)
