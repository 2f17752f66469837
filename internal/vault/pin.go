package vault

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/dmitrijs2005/posvault/internal/common"
	"golang.org/x/crypto/argon2"
)

// PIN hashing parameters (Argon2id). The salt is stored as a prefix of the
// metadata value, followed by the hash.
const (
	pinSaltLen = 16
	pinHashLen = 32
)

func hashPin(pin string, salt []byte) []byte {
	return argon2.IDKey([]byte(pin), salt, 1, 64*1024, 4, pinHashLen)
}

// SetPin stores a one-way hash of pin and marks the PIN as required for
// offline entry.
func (v *Vault) SetPin(ctx context.Context, pin string) error {
	if pin == "" {
		return fmt.Errorf("set pin: pin must not be empty")
	}

	salt, err := common.GenerateRandByteArray(pinSaltLen)
	if err != nil {
		return fmt.Errorf("set pin: %w", err)
	}
	stored := append(salt, hashPin(pin, salt)...)

	if err := v.meta.Set(ctx, common.MetaKeyPinHash, stored); err != nil {
		return err
	}
	return v.meta.Set(ctx, common.MetaKeyPinRequired, []byte("1"))
}

// ClearPin removes the stored hash and the required flag.
func (v *Vault) ClearPin(ctx context.Context) error {
	if err := v.meta.Delete(ctx, common.MetaKeyPinHash); err != nil {
		return err
	}
	return v.meta.Delete(ctx, common.MetaKeyPinRequired)
}

// IsPinRequired reports whether a PIN gates offline entry.
func (v *Vault) IsPinRequired(ctx context.Context) (bool, error) {
	val, err := v.meta.Get(ctx, common.MetaKeyPinRequired)
	if err != nil {
		return false, err
	}
	return val != nil, nil
}

// VerifyPin hashes the input and compares it to the stored hash in constant
// time. Returns false when no PIN is configured; a wrong PIN is not an
// error. Lockout and backoff are a policy concern layered on top.
func (v *Vault) VerifyPin(ctx context.Context, pin string) (bool, error) {
	stored, err := v.meta.Get(ctx, common.MetaKeyPinHash)
	if err != nil {
		return false, err
	}
	if len(stored) != pinSaltLen+pinHashLen {
		return false, nil
	}

	salt, want := stored[:pinSaltLen], stored[pinSaltLen:]
	got := hashPin(pin, salt)
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
