package domain

import "errors"

// Failure kinds surfaced by the crypto core. Callers match them with errors.Is;
// the wrapped detail never contains key material.
var (
	ErrRandomnessUnavailable = errors.New("crypto: randomness unavailable")
	ErrEncryptionFailure     = errors.New("crypto: encryption failure")
	ErrAuthenticationFailure = errors.New("crypto: authentication failed")
	ErrMalformedInput        = errors.New("crypto: malformed input")
	ErrInvalidEncoding       = errors.New("crypto: plaintext is not valid UTF-8")
	ErrSessionNotFound       = errors.New("crypto: session not found")
)

// CryptoService is the contract the HTTP layer consumes.
// Envelopes are base64(nonce || ciphertext || tag) strings.
type CryptoService interface {
	// EstablishSession issues a fresh 32-byte key for the opaque client
	// identifier, replacing any key previously issued for it.
	EstablishSession(clientID []byte) ([]byte, error)

	// Encrypt seals plaintext under the process-lifetime server key.
	Encrypt(plaintext string) (string, error)

	// Decrypt opens an envelope produced by Encrypt.
	Decrypt(envelope string) (string, error)

	// DecryptWithSession opens an envelope sealed with the key issued to clientID.
	DecryptWithSession(envelope string, clientID []byte) (string, error)

	// RevokeSession drops the key issued to clientID. It reports whether one existed.
	RevokeSession(clientID []byte) bool
}
