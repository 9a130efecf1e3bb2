package types

import (
	"crypto/rand"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mr-tron/base58"
	"github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
	"github.com/stretchr/testify/require"
)

func TestParsePublicKey(t *testing.T) {
	require := require.New(t)

	ed := base58.Encode(make([]byte, 32))
	secp := base58.Encode(make([]byte, 64))

	for _, tc := range []struct {
		raw   string
		kt    KeyType
		valid bool
	}{
		{"ed25519:" + ed, KeyTypeED25519, true},
		{ed, KeyTypeED25519, true},
		{"secp256k1:" + secp, KeyTypeSECP256K1, true},
		{"secp256k1:" + ed, 0, false},
		{"ed25519:" + secp, 0, false},
		{"ed25519:", 0, false},
		{"rsa:" + ed, 0, false},
		{"ed25519:0OIl", 0, false},
		{"", 0, false},
	} {
		pk, err := ParsePublicKey(tc.raw)
		if !tc.valid {
			require.Error(err, tc.raw)
			continue
		}
		require.NoError(err, tc.raw)
		require.Equal(tc.kt, pk.Type)
		require.True(pk.IsValid())

		again, err := ParsePublicKey(pk.String())
		require.NoError(err)
		require.True(pk.Equal(again))
	}
}

func TestPublicKeyVerify(t *testing.T) {
	require := require.New(t)

	message := []byte("message to sign, exactly 32 byte")

	edPub, edPriv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(err)
	edPk, err := NewPublicKey(KeyTypeED25519, edPub)
	require.NoError(err)
	edSig, err := NewSignature(KeyTypeED25519, ed25519.Sign(edPriv, message))
	require.NoError(err)
	require.True(edPk.Verify(message, edSig))
	require.False(edPk.Verify([]byte("other message"), edSig))

	secpPriv, err := crypto.GenerateKey()
	require.NoError(err)
	secpPk, err := NewPublicKey(KeyTypeSECP256K1, crypto.FromECDSAPub(&secpPriv.PublicKey)[1:])
	require.NoError(err)
	raw, err := crypto.Sign(message, secpPriv)
	require.NoError(err)
	secpSig, err := NewSignature(KeyTypeSECP256K1, raw)
	require.NoError(err)
	require.True(secpPk.Verify(message, secpSig))

	// Mismatched key types never verify.
	require.False(edPk.Verify(message, secpSig))
}

func TestParseSignature(t *testing.T) {
	require := require.New(t)

	sig, err := ParseSignature("ed25519:" + base58.Encode(make([]byte, 64)))
	require.NoError(err)
	require.Equal(KeyTypeED25519, sig.Type)

	_, err = ParseSignature("secp256k1:" + base58.Encode(make([]byte, 64)))
	require.Error(err)
}
