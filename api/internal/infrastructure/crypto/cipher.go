package crypto

import (
	"crypto/cipher"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"

	"todoapp/api/internal/core/domain"
)

const (
	KeySize   = chacha20poly1305.KeySize   // 32
	NonceSize = chacha20poly1305.NonceSize // 12
	TagSize   = chacha20poly1305.Overhead  // 16
)

// associatedData is bound into every seal and open. Changing it invalidates
// every envelope ever produced.
var associatedData = []byte("todo-app")

// Cipher is a ChaCha20-Poly1305 instance bound to one 256-bit key.
// It holds no mutable state and is safe for concurrent use.
type Cipher struct {
	aead cipher.AEAD
}

// NewCipher builds a Cipher from a 32-byte key. The AEAD keeps its own copy of
// the key, so the caller may wipe key afterwards.
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: key must be %d bytes", domain.ErrEncryptionFailure, KeySize)
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEncryptionFailure, err)
	}

	return &Cipher{aead: aead}, nil
}

// Seal returns ciphertext || tag for plaintext under nonce.
func (c *Cipher) Seal(nonce, plaintext []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes", domain.ErrEncryptionFailure, NonceSize)
	}
	return c.aead.Seal(nil, nonce, plaintext, associatedData), nil
}

// Open verifies the tag and returns the plaintext. Any mismatch (key, nonce,
// associated data, or a flipped bit) yields domain.ErrAuthenticationFailure
// with no hint of where verification failed.
func (c *Cipher) Open(nonce, sealed []byte) ([]byte, error) {
	if len(nonce) != NonceSize {
		return nil, domain.ErrAuthenticationFailure
	}
	plaintext, err := c.aead.Open(nil, nonce, sealed, associatedData)
	if err != nil {
		return nil, domain.ErrAuthenticationFailure
	}
	return plaintext, nil
}

var errShortEnvelope = errors.New("envelope shorter than nonce")

// splitEnvelope separates nonce from ciphertext || tag.
func splitEnvelope(raw []byte) (nonce, sealed []byte, err error) {
	if len(raw) < NonceSize {
		return nil, nil, errShortEnvelope
	}
	return raw[:NonceSize], raw[NonceSize:], nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
