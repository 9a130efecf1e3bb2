package types

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// CryptoHashSize is the size of a crypto hash in bytes.
const CryptoHashSize = 32

// CryptoHash is a SHA-256 hash, used for transaction and block hashes.
type CryptoHash [CryptoHashSize]byte

// ParseCryptoHash parses a base58-encoded hash.
func ParseCryptoHash(s string) (CryptoHash, error) {
	var h CryptoHash
	data, err := base58.Decode(s)
	if err != nil {
		return h, fmt.Errorf("malformed hash: bad base58 encoding: %w", err)
	}
	if len(data) != CryptoHashSize {
		return h, fmt.Errorf("malformed hash: expected %d bytes, got %d", CryptoHashSize, len(data))
	}
	copy(h[:], data)
	return h, nil
}

// IsEmpty returns true iff the hash is all zeros.
func (h CryptoHash) IsEmpty() bool {
	return h == CryptoHash{}
}

// String returns the base58 encoding of the hash.
func (h CryptoHash) String() string {
	return base58.Encode(h[:])
}

// MarshalText encodes the hash into text form.
func (h CryptoHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// UnmarshalText decodes a text-encoded hash.
func (h *CryptoHash) UnmarshalText(text []byte) error {
	parsed, err := ParseCryptoHash(string(text))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
