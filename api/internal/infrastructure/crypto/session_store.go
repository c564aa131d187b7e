package crypto

import (
	"sync"
)

// SessionStore maps opaque client identifiers to per-session ciphers.
// One entry per identifier; re-issuing overwrites (last writer wins).
// Entries never expire on their own.
type SessionStore struct {
	random *Random

	mu       sync.Mutex
	sessions map[string]*Cipher
}

func NewSessionStore(random *Random) *SessionStore {
	return &SessionStore{
		random:   random,
		sessions: make(map[string]*Cipher),
	}
}

// Issue generates a fresh key for clientID, installs its cipher, and returns
// the raw key. The returned slice is the only copy that leaves the store.
func (s *SessionStore) Issue(clientID []byte) ([]byte, error) {
	key, err := s.random.Bytes(KeySize)
	if err != nil {
		return nil, err
	}

	// Key schedule happens before the lock is taken.
	c, err := NewCipher(key)
	if err != nil {
		wipe(key)
		return nil, err
	}

	s.mu.Lock()
	s.sessions[string(clientID)] = c
	s.mu.Unlock()

	return key, nil
}

// Lookup returns the cipher issued to clientID, if any.
func (s *SessionStore) Lookup(clientID []byte) (*Cipher, bool) {
	s.mu.Lock()
	c, ok := s.sessions[string(clientID)]
	s.mu.Unlock()
	return c, ok
}

// Revoke removes the entry for clientID and reports whether one existed.
func (s *SessionStore) Revoke(clientID []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[string(clientID)]; !ok {
		return false
	}
	delete(s.sessions, string(clientID))
	return true
}

// Len reports the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
