package file

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const secp256k1Public = "secp256k1:mQN64cGpuVLnyBmiLPT6M1fZ4uYZq7L1dHTFzXqCMbKRZYbapywBSVJ2ChLxhWT2oJhxzmspUFzD33HCRD5nDHk"

var privateKeys = []struct {
	key    string
	pubkey string
	valid  bool
}{
	{key: "0x1f1455c61485737accdd610f5ea9ac1e4272c29b4c6c3189a349acc5bb598e7d", pubkey: secp256k1Public, valid: true},
	{key: "1f1455c61485737accdd610f5ea9ac1e4272c29b4c6c3189a349acc5bb598e7d", pubkey: secp256k1Public, valid: true},
	{key: "0x1f1455c61485737accdd610f5ea9ac1e4272c29b4c6c3189a349acc5bb598e7", valid: false},
	{key: "0x1f1455c61485737accdd610f5ea9ac1e4272c29b4c6c3189a349acc5", valid: false},
	{key: "0x1f1455c61485737accdd610f5ea9ac1e4272c29b4c6c3189a349acc5bb598e7d1", valid: false},
	{key: "0x1f1455c61485737accdd610f5ea9ac1e4272c29b4c6c3189a349acc5bb598e7d1111111111", valid: false},
	{key: "", pubkey: "", valid: false},
}

func TestSecp256k1FromHex(t *testing.T) {
	for _, pk := range privateKeys {
		sk, err := Secp256k1FromHex(pk.key)
		if pk.valid {
			require.NoError(t, err)
			require.Equal(t, pk.pubkey, sk.PublicKey().String())
		} else {
			require.Error(t, err)
		}
	}
}

func TestGenerateSecp256k1Hex(t *testing.T) {
	require := require.New(t)

	text, err := generateSecp256k1Hex()
	require.NoError(err)
	_, err = Secp256k1FromHex(text)
	require.NoError(err)
}
