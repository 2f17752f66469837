package vault

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/posvault/internal/common"
)

// Flag names the offline markers maintained for the external sync process.
// The set is closed so flag keys cannot collide with other metadata.
type Flag string

const (
	FlagLastSyncAt   Flag = common.MetaKeyLastSyncAt
	FlagSyncBlocked  Flag = common.MetaKeySyncBlocked
	FlagOfflineSince Flag = common.MetaKeyOfflineSince
)

func (f Flag) valid() bool {
	switch f {
	case FlagLastSyncAt, FlagSyncBlocked, FlagOfflineSince:
		return true
	}
	return false
}

// SetFlag upserts an offline flag value.
func (v *Vault) SetFlag(ctx context.Context, flag Flag, value []byte) error {
	if !flag.valid() {
		return fmt.Errorf("set flag: unknown flag %q", flag)
	}
	return v.meta.Set(ctx, string(flag), value)
}

// GetFlag returns the flag value, or (nil, nil) when unset.
func (v *Vault) GetFlag(ctx context.Context, flag Flag) ([]byte, error) {
	if !flag.valid() {
		return nil, fmt.Errorf("get flag: unknown flag %q", flag)
	}
	return v.meta.Get(ctx, string(flag))
}

// ClearFlag removes a flag; clearing an unset flag is not an error.
func (v *Vault) ClearFlag(ctx context.Context, flag Flag) error {
	if !flag.valid() {
		return fmt.Errorf("clear flag: unknown flag %q", flag)
	}
	return v.meta.Delete(ctx, string(flag))
}
