package service

import (
	"crypto/rand"

	apperrors "github.com/allisson/gatekeeper/internal/errors"
	tokenDomain "github.com/allisson/gatekeeper/internal/token/domain"
)

// alphabet is the character set for token values. 62 symbols over 32 positions
// gives ~190 bits of entropy, far beyond guessing feasibility.
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// valueService implements ValueService using crypto/rand.
type valueService struct{}

// GenerateValue creates a new 32-character alphanumeric token value.
// Bytes outside the unbiased range are rejected and redrawn, so every
// character of the alphabet is equally likely.
func (v *valueService) GenerateValue() (string, error) {
	// Largest multiple of len(alphabet) that fits in a byte; values at or
	// above it would skew the distribution.
	const limit = byte(256 - (256 % len(alphabet)))

	value := make([]byte, tokenDomain.ValueLength)
	buf := make([]byte, tokenDomain.ValueLength)

	filled := 0
	for filled < len(value) {
		if _, err := rand.Read(buf); err != nil {
			return "", apperrors.Wrap(err, "failed to read random bytes")
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			value[filled] = alphabet[int(b)%len(alphabet)]
			filled++
			if filled == len(value) {
				break
			}
		}
	}

	return string(value), nil
}

// NewValueService creates a new ValueService backed by crypto/rand.
func NewValueService() ValueService {
	return &valueService{}
}
