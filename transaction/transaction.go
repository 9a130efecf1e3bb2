// Package transaction implements transaction assembly, encoding, signing and broadcasting.
package transaction

import (
	"encoding/base64"
	"fmt"

	sha256 "github.com/minio/sha256-simd"
	"github.com/near/borsh-go"

	"github.com/near/near-cli-go/types"
)

type metadataField uint8

const (
	fieldSigner metadataField = 1 << iota
	fieldReceiver
	fieldPublicKey
	fieldNonce
	fieldBlockHash

	allFields = fieldSigner | fieldReceiver | fieldPublicKey | fieldNonce | fieldBlockHash
)

func (f metadataField) String() string {
	switch f {
	case fieldSigner:
		return "signer"
	case fieldReceiver:
		return "receiver"
	case fieldPublicKey:
		return "public key"
	case fieldNonce:
		return "nonce"
	case fieldBlockHash:
		return "block hash"
	default:
		return fmt.Sprintf("[fields %#x]", uint8(f))
	}
}

// Unsigned is a transaction under construction.
//
// It is a value type: all methods return an updated copy and never modify the receiver or share
// the action list with it. Each metadata field can be set at most once.
type Unsigned struct {
	SignerID   types.AccountID
	PublicKey  types.PublicKey
	Nonce      uint64
	ReceiverID types.AccountID
	BlockHash  types.CryptoHash
	Actions    []Action

	assigned metadataField
}

func (tx Unsigned) assign(f metadataField) Unsigned {
	if tx.assigned&f != 0 {
		panic(fmt.Sprintf("transaction: %s is already set", f))
	}
	tx.assigned |= f
	return tx
}

// WithSigner sets the signer account.
func (tx Unsigned) WithSigner(id types.AccountID) Unsigned {
	tx = tx.assign(fieldSigner)
	tx.SignerID = id
	return tx
}

// WithReceiver sets the receiver account.
func (tx Unsigned) WithReceiver(id types.AccountID) Unsigned {
	tx = tx.assign(fieldReceiver)
	tx.ReceiverID = id
	return tx
}

// WithPublicKey sets the public key of the signing access key.
func (tx Unsigned) WithPublicKey(pk types.PublicKey) Unsigned {
	tx = tx.assign(fieldPublicKey)
	tx.PublicKey = pk
	return tx
}

// WithNonce sets the access key nonce.
func (tx Unsigned) WithNonce(nonce uint64) Unsigned {
	tx = tx.assign(fieldNonce)
	tx.Nonce = nonce
	return tx
}

// WithBlockHash sets the recent block hash.
func (tx Unsigned) WithBlockHash(h types.CryptoHash) Unsigned {
	tx = tx.assign(fieldBlockHash)
	tx.BlockHash = h
	return tx
}

// Extend appends an action.
func (tx Unsigned) Extend(a Action) Unsigned {
	actions := make([]Action, len(tx.Actions), len(tx.Actions)+1)
	copy(actions, tx.Actions)
	tx.Actions = append(actions, a)
	return tx
}

// HasSigner returns true iff the signer account is set.
func (tx Unsigned) HasSigner() bool {
	return tx.assigned&fieldSigner != 0
}

// HasReceiver returns true iff the receiver account is set.
func (tx Unsigned) HasReceiver() bool {
	return tx.assigned&fieldReceiver != 0
}

// IsComplete returns true iff all metadata is set and there is at least one action.
func (tx Unsigned) IsComplete() bool {
	return tx.assigned == allFields && len(tx.Actions) > 0
}

// Encode returns the borsh encoding of a complete transaction.
func (tx Unsigned) Encode() ([]byte, error) {
	if missing := allFields &^ tx.assigned; missing != 0 {
		for f := fieldSigner; f <= fieldBlockHash; f <<= 1 {
			if missing&f != 0 {
				return nil, fmt.Errorf("transaction is missing the %s", f)
			}
		}
	}
	if len(tx.Actions) == 0 {
		return nil, fmt.Errorf("transaction has no actions")
	}

	return borsh.Serialize(tx.wire())
}

// Hash returns the transaction hash, the SHA-256 digest of its encoding.
func (tx Unsigned) Hash() (types.CryptoHash, error) {
	data, err := tx.Encode()
	if err != nil {
		return types.CryptoHash{}, err
	}
	return sha256.Sum256(data), nil
}

// Base64 returns the base64 encoding of the transaction.
func (tx Unsigned) Base64() (string, error) {
	data, err := tx.Encode()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeUnsigned decodes a borsh encoded transaction.
func DecodeUnsigned(data []byte) (Unsigned, error) {
	w, err := decodeCanonical[wireTransaction](data)
	if err != nil {
		return Unsigned{}, fmt.Errorf("malformed transaction: %w", err)
	}
	tx, err := w.unsigned()
	if err != nil {
		return Unsigned{}, fmt.Errorf("malformed transaction: %w", err)
	}
	return tx, nil
}

// Signer produces signatures with a single key.
type Signer interface {
	// PublicKey returns the public key of the signer.
	PublicKey() types.PublicKey

	// Sign signs the given message.
	Sign(message []byte) (types.Signature, error)
}

// Signed is a transaction together with the signature of its hash.
type Signed struct {
	Transaction Unsigned
	Signature   types.Signature
}

// Sign signs a complete transaction. The transaction public key must match the signer.
func Sign(tx Unsigned, signer Signer) (*Signed, error) {
	if pk := signer.PublicKey(); !pk.Equal(tx.PublicKey) {
		return nil, fmt.Errorf("signer key %s does not match transaction key %s", pk, tx.PublicKey)
	}
	h, err := tx.Hash()
	if err != nil {
		return nil, err
	}
	sig, err := signer.Sign(h[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return &Signed{Transaction: tx, Signature: sig}, nil
}

// Hash returns the hash of the signed transaction.
func (s *Signed) Hash() (types.CryptoHash, error) {
	return s.Transaction.Hash()
}

// Verify checks the signature against the transaction public key.
func (s *Signed) Verify() error {
	h, err := s.Transaction.Hash()
	if err != nil {
		return err
	}
	if !s.Transaction.PublicKey.Verify(h[:], s.Signature) {
		return fmt.Errorf("signature verification failed")
	}
	return nil
}

// Encode returns the borsh encoding of the signed transaction.
func (s *Signed) Encode() ([]byte, error) {
	if _, err := s.Transaction.Encode(); err != nil {
		return nil, err
	}
	return borsh.Serialize(wireSigned{
		Transaction: s.Transaction.wire(),
		Signature:   toWireSignature(s.Signature),
	})
}

// Base64 returns the base64 encoding of the signed transaction.
func (s *Signed) Base64() (string, error) {
	data, err := s.Encode()
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// DecodeSigned decodes a borsh encoded signed transaction.
func DecodeSigned(data []byte) (*Signed, error) {
	w, err := decodeCanonical[wireSigned](data)
	if err != nil {
		return nil, fmt.Errorf("malformed signed transaction: %w", err)
	}
	tx, err := w.Transaction.unsigned()
	if err != nil {
		return nil, fmt.Errorf("malformed signed transaction: %w", err)
	}
	sig, err := w.Signature.signature()
	if err != nil {
		return nil, fmt.Errorf("malformed signed transaction: %w", err)
	}
	return &Signed{Transaction: tx, Signature: sig}, nil
}

// ParseSignedBase64 decodes a base64 encoded signed transaction.
func ParseSignedBase64(s string) (*Signed, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("malformed signed transaction: bad base64 encoding: %w", err)
	}
	return DecodeSigned(data)
}
