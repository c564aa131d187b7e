package crypto

import (
	"crypto/rand"
	"fmt"
	"io"

	"todoapp/api/internal/core/domain"
)

// Random draws key and nonce material from an entropy source.
// The default source is crypto/rand, which is safe for concurrent use.
type Random struct {
	source io.Reader
}

// NewRandom wraps source. A nil source selects crypto/rand.
func NewRandom(source io.Reader) *Random {
	if source == nil {
		source = rand.Reader
	}
	return &Random{source: source}
}

// Bytes returns n fresh random bytes or an error wrapping
// domain.ErrRandomnessUnavailable. Short reads are never padded.
func (r *Random) Bytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.source, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRandomnessUnavailable, err)
	}
	return buf, nil
}
