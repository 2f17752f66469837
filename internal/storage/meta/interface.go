// Package meta persists free-form key/value metadata: encryption key
// material, offline flags, the hashed PIN. Entries are created on first
// use, overwritten in place, and removed only by explicit delete or wipe.
package meta

import "context"

// Repository describes the metadata key/value store.
type Repository interface {
	// Get returns the value for key, or (nil, nil) when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set upserts the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// List returns every stored pair.
	List(ctx context.Context) (map[string][]byte, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
