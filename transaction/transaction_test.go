package transaction

import (
	"bytes"
	"crypto/rand"
	"testing"

	"github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
	"github.com/stretchr/testify/require"

	"github.com/near/near-cli-go/types"
)

type testSigner struct {
	priv ed25519.PrivateKey
	pub  types.PublicKey
}

func newTestSigner(t *testing.T) *testSigner {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	pk, err := types.NewPublicKey(types.KeyTypeED25519, pub)
	require.NoError(t, err)
	return &testSigner{priv: priv, pub: pk}
}

func (s *testSigner) PublicKey() types.PublicKey {
	return s.pub
}

func (s *testSigner) Sign(message []byte) (types.Signature, error) {
	return types.NewSignature(types.KeyTypeED25519, ed25519.Sign(s.priv, message))
}

func zeroKey() types.PublicKey {
	return types.PublicKey{Type: types.KeyTypeED25519, Data: make([]byte, 32)}
}

func completeTx(pk types.PublicKey, actions ...Action) Unsigned {
	tx := Unsigned{}.
		WithSigner("ab").
		WithReceiver("cd").
		WithPublicKey(pk).
		WithNonce(1).
		WithBlockHash(types.CryptoHash{})
	for _, a := range actions {
		tx = tx.Extend(a)
	}
	return tx
}

func TestMetadataSetOnce(t *testing.T) {
	require := require.New(t)

	tx := Unsigned{}.WithSigner("alice.testnet")
	require.True(tx.HasSigner())
	require.False(tx.HasReceiver())

	require.Panics(func() { tx.WithSigner("bob.testnet") })
	require.NotPanics(func() { tx.WithReceiver("bob.testnet") })

	tx = tx.WithReceiver("bob.testnet").WithNonce(7)
	require.Panics(func() { tx.WithReceiver("carol.testnet") })
	require.Panics(func() { tx.WithNonce(8) })
	require.Panics(func() { tx.WithNonce(7).WithPublicKey(zeroKey()) })
	require.Panics(func() { tx.WithBlockHash(types.CryptoHash{}).WithBlockHash(types.CryptoHash{}) })
	require.Panics(func() { tx.WithPublicKey(zeroKey()).WithPublicKey(zeroKey()) })
}

func TestExtend(t *testing.T) {
	require := require.New(t)

	base := Unsigned{}.Extend(CreateAccount{})
	a := base.Extend(Transfer{Deposit: types.BalanceFromUint64(1)})
	b := base.Extend(DeleteKey{PublicKey: zeroKey()})

	require.Len(base.Actions, 1)
	require.Len(a.Actions, 2)
	require.Len(b.Actions, 2)
	require.Equal(Transfer{Deposit: types.BalanceFromUint64(1)}, a.Actions[1])
	require.Equal(DeleteKey{PublicKey: zeroKey()}, b.Actions[1])
	require.Equal(CreateAccount{}, a.Actions[0])
}

func TestEncode(t *testing.T) {
	require := require.New(t)

	data, err := completeTx(zeroKey(), Transfer{Deposit: types.BalanceFromUint64(1)}).Encode()
	require.NoError(err)

	var expected bytes.Buffer
	expected.Write([]byte{2, 0, 0, 0, 'a', 'b'})
	expected.WriteByte(0)
	expected.Write(make([]byte, 32))
	expected.Write([]byte{1, 0, 0, 0, 0, 0, 0, 0})
	expected.Write([]byte{2, 0, 0, 0, 'c', 'd'})
	expected.Write(make([]byte, 32))
	expected.Write([]byte{1, 0, 0, 0})
	expected.WriteByte(3)
	expected.WriteByte(1)
	expected.Write(make([]byte, 15))
	require.Equal(expected.Bytes(), data)
}

func TestEncodeIncomplete(t *testing.T) {
	require := require.New(t)

	_, err := Unsigned{}.WithSigner("ab").Extend(CreateAccount{}).Encode()
	require.Error(err)
	require.Contains(err.Error(), "receiver")

	_, err = completeTx(zeroKey()).Encode()
	require.Error(err)
	require.False(completeTx(zeroKey()).IsComplete())
	require.True(completeTx(zeroKey(), CreateAccount{}).IsComplete())
}

func TestDecodeRoundTrip(t *testing.T) {
	require := require.New(t)

	allowance := types.BalanceFromUint64(250)
	secp := types.PublicKey{Type: types.KeyTypeSECP256K1, Data: bytes.Repeat([]byte{7}, 64)}
	tx := completeTx(zeroKey(),
		CreateAccount{},
		DeployContract{Code: []byte{0, 97, 115, 109}},
		FunctionCall{MethodName: "vote", Args: []byte(`{"id":1}`), Gas: 30 * types.TeraGas, Deposit: types.BalanceFromUint64(5)},
		Transfer{Deposit: types.BalanceFromUint64(1000)},
		Stake{Stake: types.BalanceFromUint64(10), PublicKey: zeroKey()},
		AddKey{PublicKey: secp, AccessKey: AccessKey{Permission: FullAccess()}},
		AddKey{PublicKey: zeroKey(), AccessKey: AccessKey{Nonce: 3, Permission: AccessKeyPermission{
			FunctionCall: &FunctionCallPermission{Allowance: &allowance, ReceiverID: "app.testnet", MethodNames: []string{"a", "b"}},
		}}},
		AddKey{PublicKey: zeroKey(), AccessKey: AccessKey{Permission: AccessKeyPermission{
			FunctionCall: &FunctionCallPermission{ReceiverID: "app.testnet"},
		}}},
		DeleteKey{PublicKey: secp},
		DeleteAccount{BeneficiaryID: "bob.testnet"},
	)

	data, err := tx.Encode()
	require.NoError(err)
	decoded, err := DecodeUnsigned(data)
	require.NoError(err)
	again, err := decoded.Encode()
	require.NoError(err)
	require.Equal(data, again)
	require.Len(decoded.Actions, 10)
	require.Equal(tx.Actions[2], decoded.Actions[2])
	require.Equal(tx.Actions[9], decoded.Actions[9])

	_, err = DecodeUnsigned(data[:len(data)-1])
	require.Error(err)
	_, err = DecodeUnsigned(append(data, 0))
	require.Error(err)
}

func TestDecodeMalformed(t *testing.T) {
	require := require.New(t)

	data, err := completeTx(zeroKey(), Transfer{Deposit: types.BalanceFromUint64(1)}).Encode()
	require.NoError(err)

	const (
		keyTypeOffset   = 6
		actionTagOffset = 89
	)
	require.EqualValues(tagTransfer, data[actionTagOffset])

	for _, tc := range []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"unknown key type", func(b []byte) []byte { b[keyTypeOffset] = 2; return b }},
		{"unknown action", func(b []byte) []byte { b[actionTagOffset] = 8; return b }},
		{"truncated", func(b []byte) []byte { return b[:actionTagOffset] }},
		{"trailing", func(b []byte) []byte { return append(b, 1, 2) }},
		{"empty", func([]byte) []byte { return nil }},
	} {
		_, err := DecodeUnsigned(tc.mutate(append([]byte{}, data...)))
		require.Error(err, tc.name)
	}
}

func TestSignedEncoding(t *testing.T) {
	require := require.New(t)

	signer := newTestSigner(t)
	tx := completeTx(signer.PublicKey(), CreateAccount{})
	signed, err := Sign(tx, signer)
	require.NoError(err)

	body, err := tx.Encode()
	require.NoError(err)
	data, err := signed.Encode()
	require.NoError(err)

	// Signature follows the transaction as a key type tag and 64 bytes.
	require.Len(data, len(body)+1+64)
	require.Equal(body, data[:len(body)])
	require.EqualValues(types.KeyTypeED25519, data[len(body)])
	require.Equal(signed.Signature.Data, data[len(body)+1:])

	_, err = DecodeSigned(data[:len(data)-1])
	require.Error(err)
}

func TestSign(t *testing.T) {
	require := require.New(t)

	signer := newTestSigner(t)
	tx := completeTx(signer.PublicKey(), DeleteKey{PublicKey: zeroKey()})

	signed, err := Sign(tx, signer)
	require.NoError(err)
	require.NoError(signed.Verify())

	b64, err := signed.Base64()
	require.NoError(err)
	parsed, err := ParseSignedBase64(b64)
	require.NoError(err)
	require.NoError(parsed.Verify())

	h1, err := signed.Hash()
	require.NoError(err)
	h2, err := parsed.Hash()
	require.NoError(err)
	require.Equal(h1, h2)

	// Signer must match the transaction key.
	_, err = Sign(completeTx(zeroKey(), CreateAccount{}), signer)
	require.Error(err)

	// Tampering with the transaction invalidates the signature.
	parsed.Transaction.Nonce++
	require.Error(parsed.Verify())

	_, err = ParseSignedBase64("not base64!")
	require.Error(err)
}
