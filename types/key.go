package types

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
	"github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
)

// KeyType is the type of key used by an account.
type KeyType uint8

const (
	// KeyTypeED25519 is the Ed25519 key type.
	KeyTypeED25519 KeyType = 0
	// KeyTypeSECP256K1 is the Secp256k1 key type.
	KeyTypeSECP256K1 KeyType = 1
)

// ParseKeyType parses the textual name of a key type.
func ParseKeyType(s string) (KeyType, error) {
	switch strings.ToLower(s) {
	case "ed25519":
		return KeyTypeED25519, nil
	case "secp256k1":
		return KeyTypeSECP256K1, nil
	default:
		return 0, fmt.Errorf("unknown key type '%s'", s)
	}
}

// String returns the textual name of the key type.
func (k KeyType) String() string {
	switch k {
	case KeyTypeED25519:
		return "ed25519"
	case KeyTypeSECP256K1:
		return "secp256k1"
	default:
		return fmt.Sprintf("[unknown key type: %d]", uint8(k))
	}
}

// PublicKeySize returns the size of public keys of the given type in bytes.
func (k KeyType) PublicKeySize() int {
	switch k {
	case KeyTypeED25519:
		return ed25519.PublicKeySize
	case KeyTypeSECP256K1:
		return 64
	default:
		return 0
	}
}

// SignatureSize returns the size of signatures of the given type in bytes.
func (k KeyType) SignatureSize() int {
	switch k {
	case KeyTypeED25519:
		return ed25519.SignatureSize
	case KeyTypeSECP256K1:
		return 65
	default:
		return 0
	}
}

// PublicKey is a public key together with its type.
type PublicKey struct {
	Type KeyType
	Data []byte
}

// NewPublicKey creates a new public key, checking the key length.
func NewPublicKey(kt KeyType, data []byte) (PublicKey, error) {
	if size := kt.PublicKeySize(); size == 0 || len(data) != size {
		return PublicKey{}, fmt.Errorf("malformed %s public key: expected %d bytes, got %d", kt, size, len(data))
	}
	return PublicKey{Type: kt, Data: append([]byte{}, data...)}, nil
}

// ParsePublicKey parses a public key in the "<key-type>:<base58>" format. When the key type
// prefix is missing, ed25519 is assumed.
func ParsePublicKey(s string) (PublicKey, error) {
	kt, data, err := parseTyped(s)
	if err != nil {
		return PublicKey{}, fmt.Errorf("malformed public key: %w", err)
	}
	return NewPublicKey(kt, data)
}

// String returns the textual encoding of the public key.
func (pk PublicKey) String() string {
	return pk.Type.String() + ":" + base58.Encode(pk.Data)
}

// IsValid returns true iff the public key has the expected length for its type.
func (pk PublicKey) IsValid() bool {
	size := pk.Type.PublicKeySize()
	return size != 0 && len(pk.Data) == size
}

// Equal compares two public keys.
func (pk PublicKey) Equal(other PublicKey) bool {
	return pk.Type == other.Type && bytes.Equal(pk.Data, other.Data)
}

// Verify verifies a signature over message with the public key.
func (pk PublicKey) Verify(message []byte, sig Signature) bool {
	if !pk.IsValid() || sig.Type != pk.Type || len(sig.Data) != sig.Type.SignatureSize() {
		return false
	}
	switch pk.Type {
	case KeyTypeED25519:
		return ed25519.Verify(ed25519.PublicKey(pk.Data), message, sig.Data)
	case KeyTypeSECP256K1:
		uncompressed := append([]byte{0x04}, pk.Data...)
		return crypto.VerifySignature(uncompressed, message, sig.Data[:64])
	default:
		return false
	}
}

// MarshalText encodes the public key into text form.
func (pk PublicKey) MarshalText() ([]byte, error) {
	return []byte(pk.String()), nil
}

// UnmarshalText decodes a text-encoded public key.
func (pk *PublicKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePublicKey(string(text))
	if err != nil {
		return err
	}
	*pk = parsed
	return nil
}

// Signature is a signature together with its key type.
type Signature struct {
	Type KeyType
	Data []byte
}

// NewSignature creates a new signature, checking the signature length.
func NewSignature(kt KeyType, data []byte) (Signature, error) {
	if size := kt.SignatureSize(); size == 0 || len(data) != size {
		return Signature{}, fmt.Errorf("malformed %s signature: expected %d bytes, got %d", kt, size, len(data))
	}
	return Signature{Type: kt, Data: append([]byte{}, data...)}, nil
}

// ParseSignature parses a signature in the "<key-type>:<base58>" format.
func ParseSignature(s string) (Signature, error) {
	kt, data, err := parseTyped(s)
	if err != nil {
		return Signature{}, fmt.Errorf("malformed signature: %w", err)
	}
	return NewSignature(kt, data)
}

// String returns the textual encoding of the signature.
func (s Signature) String() string {
	return s.Type.String() + ":" + base58.Encode(s.Data)
}

func parseTyped(s string) (KeyType, []byte, error) {
	kt := KeyTypeED25519
	encoded := s
	if prefix, rest, found := strings.Cut(s, ":"); found {
		var err error
		if kt, err = ParseKeyType(prefix); err != nil {
			return 0, nil, err
		}
		encoded = rest
	}
	if encoded == "" {
		return 0, nil, fmt.Errorf("missing key data")
	}
	data, err := base58.Decode(encoded)
	if err != nil {
		return 0, nil, fmt.Errorf("bad base58 encoding: %w", err)
	}
	return kt, data, nil
}
