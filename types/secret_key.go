package types

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
	"github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
)

// SecretKeySize returns the size of secret keys of the given type in bytes. Ed25519 secret
// keys carry the seed followed by the public key.
func (k KeyType) SecretKeySize() int {
	switch k {
	case KeyTypeED25519:
		return ed25519.PrivateKeySize
	case KeyTypeSECP256K1:
		return 32
	default:
		return 0
	}
}

// SecretKey is a private key together with its type.
type SecretKey struct {
	Type KeyType
	Data []byte
}

// NewSecretKey creates a new secret key, checking the key length and, for ed25519, the
// consistency of the embedded public key.
func NewSecretKey(kt KeyType, data []byte) (SecretKey, error) {
	if size := kt.SecretKeySize(); size == 0 || len(data) != size {
		return SecretKey{}, fmt.Errorf("malformed %s secret key: expected %d bytes, got %d", kt, size, len(data))
	}
	sk := SecretKey{Type: kt, Data: append([]byte{}, data...)}
	switch kt {
	case KeyTypeED25519:
		derived := ed25519.NewKeyFromSeed(data[:ed25519.SeedSize])
		if !bytes.Equal(derived, data) {
			return SecretKey{}, fmt.Errorf("malformed ed25519 secret key: public key mismatch")
		}
	case KeyTypeSECP256K1:
		if _, err := crypto.ToECDSA(data); err != nil {
			return SecretKey{}, fmt.Errorf("malformed secp256k1 secret key: %w", err)
		}
	}
	return sk, nil
}

// NewEd25519SecretKeyFromSeed derives an ed25519 secret key from a 32 byte seed.
func NewEd25519SecretKeyFromSeed(seed []byte) (SecretKey, error) {
	if len(seed) != ed25519.SeedSize {
		return SecretKey{}, fmt.Errorf("malformed ed25519 seed: expected %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	return SecretKey{Type: KeyTypeED25519, Data: ed25519.NewKeyFromSeed(seed)}, nil
}

// ParseSecretKey parses a secret key in the "<key-type>:<base58>" format. When the key type
// prefix is missing, ed25519 is assumed.
func ParseSecretKey(s string) (SecretKey, error) {
	kt, data, err := parseTyped(s)
	if err != nil {
		return SecretKey{}, fmt.Errorf("malformed secret key: %w", err)
	}
	return NewSecretKey(kt, data)
}

// PublicKey returns the public key corresponding to the secret key.
func (sk SecretKey) PublicKey() PublicKey {
	switch sk.Type {
	case KeyTypeED25519:
		pub := ed25519.PrivateKey(sk.Data).Public().(ed25519.PublicKey)
		return PublicKey{Type: KeyTypeED25519, Data: append([]byte{}, pub...)}
	case KeyTypeSECP256K1:
		priv, err := crypto.ToECDSA(sk.Data)
		if err != nil {
			panic(fmt.Sprintf("types: malformed secp256k1 secret key: %s", err))
		}
		return PublicKey{Type: KeyTypeSECP256K1, Data: crypto.FromECDSAPub(&priv.PublicKey)[1:]}
	default:
		panic(fmt.Sprintf("types: unsupported key type: %s", sk.Type))
	}
}

// Sign signs the given message. Secp256k1 keys can only sign 32 byte digests.
func (sk SecretKey) Sign(message []byte) (Signature, error) {
	switch sk.Type {
	case KeyTypeED25519:
		return Signature{Type: KeyTypeED25519, Data: ed25519.Sign(ed25519.PrivateKey(sk.Data), message)}, nil
	case KeyTypeSECP256K1:
		priv, err := crypto.ToECDSA(sk.Data)
		if err != nil {
			return Signature{}, err
		}
		sig, err := crypto.Sign(message, priv)
		if err != nil {
			return Signature{}, err
		}
		return Signature{Type: KeyTypeSECP256K1, Data: sig}, nil
	default:
		return Signature{}, fmt.Errorf("unsupported key type: %s", sk.Type)
	}
}

// UnsafeString returns the textual encoding of the secret key.
func (sk SecretKey) UnsafeString() string {
	return sk.Type.String() + ":" + base58.Encode(sk.Data)
}

// String implements fmt.Stringer without revealing the key.
func (sk SecretKey) String() string {
	return "[redacted secret key]"
}

// Reset wipes the key material.
func (sk SecretKey) Reset() {
	for idx := range sk.Data {
		sk.Data[idx] = 0
	}
}
