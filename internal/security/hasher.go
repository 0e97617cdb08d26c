// Package security provides one-way credential hashing for the supplier key.
package security

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 work factor for supplier keys
	DefaultIterations = 100_000
	// KeyLength is the derived key size in bytes
	KeyLength = 64
	// SaltLength is the random salt size in bytes
	SaltLength = 16
)

// PBKDF2Hasher derives PBKDF2-SHA512 hashes with a salt drawn once per hasher.
// Plaintext secrets are never stored; only the hex encoded derived key leaves Hash.
type PBKDF2Hasher struct {
	salt       []byte
	iterations int
}

// Option configures a PBKDF2Hasher
type Option func(*PBKDF2Hasher)

// WithIterations overrides the work factor. Values below 1 are ignored.
func WithIterations(iterations int) Option {
	return func(h *PBKDF2Hasher) {
		if iterations > 0 {
			h.iterations = iterations
		}
	}
}

// WithSalt fixes the salt instead of drawing a random one.
func WithSalt(salt []byte) Option {
	return func(h *PBKDF2Hasher) {
		h.salt = append([]byte(nil), salt...)
	}
}

// NewPBKDF2Hasher creates a hasher with a fresh random salt
func NewPBKDF2Hasher(opts ...Option) (*PBKDF2Hasher, error) {
	h := &PBKDF2Hasher{iterations: DefaultIterations}
	for _, opt := range opts {
		opt(h)
	}

	if h.salt == nil {
		h.salt = make([]byte, SaltLength)
		if _, err := rand.Read(h.salt); err != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", err)
		}
	}

	return h, nil
}

// Hash returns the hex encoded derived key for secret
func (h *PBKDF2Hasher) Hash(secret string) string {
	return hex.EncodeToString(h.derive(secret))
}

// Verify reports whether secret derives to hash. The comparison runs in
// constant time with respect to the derived key.
func (h *PBKDF2Hasher) Verify(secret, hash string) bool {
	expected, err := hex.DecodeString(hash)
	if err != nil || len(expected) != KeyLength {
		return false
	}

	return subtle.ConstantTimeCompare(h.derive(secret), expected) == 1
}

func (h *PBKDF2Hasher) derive(secret string) []byte {
	return pbkdf2.Key([]byte(secret), h.salt, h.iterations, KeyLength, sha512.New)
}
