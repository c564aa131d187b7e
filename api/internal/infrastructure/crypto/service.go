package crypto

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"todoapp/api/internal/core/domain"
)

// Service is the crypto facade shared by every request handler. It owns the
// server key (generated once, never rotated) and the session table. Nothing
// is persisted: all keys are lost on restart.
type Service struct {
	random   *Random
	server   *Cipher
	sessions *SessionStore
	logger   *slog.Logger
}

var _ domain.CryptoService = (*Service)(nil)

// NewService generates the server key from crypto/rand.
func NewService(logger *slog.Logger) (*Service, error) {
	return NewServiceWithSource(nil, logger)
}

// NewServiceWithSource is NewService with an explicit entropy source.
func NewServiceWithSource(source io.Reader, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}
	random := NewRandom(source)

	key, err := random.Bytes(KeySize)
	if err != nil {
		return nil, fmt.Errorf("server key: %w", err)
	}
	defer wipe(key)

	server, err := NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("server key: %w", err)
	}

	return &Service{
		random:   random,
		server:   server,
		sessions: NewSessionStore(random),
		logger:   logger,
	}, nil
}

// EstablishSession issues a new key for clientID. The identifier is only a
// lookup handle; no key agreement is performed with it.
func (s *Service) EstablishSession(clientID []byte) ([]byte, error) {
	key, err := s.sessions.Issue(clientID)
	if err != nil {
		s.logger.Error("Session key issuance failed", slog.Any("error", err))
		return nil, err
	}

	s.logger.Debug("Session key issued",
		slog.Int("client_id_len", len(clientID)),
		slog.Int("live_sessions", s.sessions.Len()))
	return key, nil
}

// RevokeSession drops the key issued to clientID.
func (s *Service) RevokeSession(clientID []byte) bool {
	return s.sessions.Revoke(clientID)
}

func (s *Service) Encrypt(plaintext string) (string, error) {
	return seal(s.random, s.server, plaintext)
}

func (s *Service) Decrypt(envelope string) (string, error) {
	return open(s.server, envelope)
}

// DecryptWithSession fails with domain.ErrSessionNotFound before touching the
// envelope when clientID has no session.
func (s *Service) DecryptWithSession(envelope string, clientID []byte) (string, error) {
	c, ok := s.sessions.Lookup(clientID)
	if !ok {
		return "", domain.ErrSessionNotFound
	}
	return open(c, envelope)
}

// EncryptWithKey produces an envelope under a raw session key, the way a
// client holding the key from EstablishSession would.
func EncryptWithKey(key []byte, plaintext string) (string, error) {
	c, err := NewCipher(key)
	if err != nil {
		return "", err
	}
	return seal(NewRandom(nil), c, plaintext)
}

// seal draws a fresh random nonce per call. Uniqueness is probabilistic
// (birthday bound on 96 bits), not counter-enforced.
func seal(random *Random, c *Cipher, plaintext string) (string, error) {
	nonce, err := random.Bytes(NonceSize)
	if err != nil {
		return "", err
	}

	sealed, err := c.Seal(nonce, []byte(plaintext))
	if err != nil {
		return "", err
	}

	out := make([]byte, 0, len(nonce)+len(sealed))
	out = append(out, nonce...)
	out = append(out, sealed...)
	return base64.StdEncoding.EncodeToString(out), nil
}

func open(c *Cipher, envelope string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(envelope)
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64", domain.ErrMalformedInput)
	}

	nonce, sealed, err := splitEnvelope(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
	}

	plaintext, err := c.Open(nonce, sealed)
	if err != nil {
		return "", err
	}

	if !utf8.Valid(plaintext) {
		wipe(plaintext)
		return "", domain.ErrInvalidEncoding
	}
	return string(plaintext), nil
}
