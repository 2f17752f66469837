// Package cryptox implements authenticated encryption of structured payloads
// using AES-256-GCM. Values are serialized to JSON before sealing; a fresh
// random 12-byte nonce is generated for every encryption and returned
// alongside the ciphertext so they can be persisted as separate columns.
package cryptox

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/posvault/internal/common"
)

// NonceSize is the AES-GCM nonce length in bytes.
const NonceSize = 12

// Encrypt serializes v to JSON and seals it with AES-GCM under key.
// The key must be 32 bytes (AES-256).
func Encrypt(v any, key []byte) (ciphertext, nonce []byte, err error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to serialize payload: %w", err)
	}

	nonce, err = common.GenerateRandByteArray(NonceSize)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrEncryptionUnavailable, err)
	}

	aead, err := newGCM(key)
	if err != nil {
		return nil, nil, err
	}

	ciphertext = aead.Seal(nil, nonce, plaintext, nil)
	return ciphertext, nonce, nil
}

// Decrypt opens the AES-GCM ciphertext and unmarshals the plaintext JSON
// into v. A tampered ciphertext or a wrong key fails authentication and is
// reported as common.ErrDecryptionFailed, never as corrupted plaintext.
func Decrypt(ciphertext, nonce, key []byte, v any) error {
	aead, err := newGCM(key)
	if err != nil {
		return err
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrDecryptionFailed, err)
	}

	if err := json.Unmarshal(plaintext, v); err != nil {
		return fmt.Errorf("failed to deserialize payload: %w", err)
	}
	return nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEncryptionUnavailable, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrEncryptionUnavailable, err)
	}
	return aead, nil
}

// KeySource supplies the symmetric key lazily. Implemented by
// keyring.Manager; queue and cache code never see raw key bytes directly.
type KeySource interface {
	GetOrCreate(ctx context.Context) ([]byte, error)
}

// Cipher binds Encrypt/Decrypt to a KeySource.
type Cipher struct {
	keys KeySource
}

// NewCipher returns a Cipher backed by the given key source.
func NewCipher(keys KeySource) *Cipher {
	return &Cipher{keys: keys}
}

// Encrypt seals v under the current installation key.
func (c *Cipher) Encrypt(ctx context.Context, v any) (ciphertext, nonce []byte, err error) {
	key, err := c.keys.GetOrCreate(ctx)
	if err != nil {
		return nil, nil, err
	}
	return Encrypt(v, key)
}

// Decrypt opens ciphertext under the current installation key into v.
func (c *Cipher) Decrypt(ctx context.Context, ciphertext, nonce []byte, v any) error {
	key, err := c.keys.GetOrCreate(ctx)
	if err != nil {
		return err
	}
	return Decrypt(ciphertext, nonce, key, v)
}
