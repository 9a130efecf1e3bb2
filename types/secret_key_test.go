package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseSecretKey(t *testing.T) {
	require := require.New(t)

	for _, tc := range []struct {
		raw    string
		public string
		valid  bool
	}{
		{
			"ed25519:2Ana1pUpv2ZbMVkwF5FXapYeBEjdxDatLn7nvJkhgTSdZd8hbDHTd21as7EAsg7ypityqfsw2pMQKJcVDVcAEsd",
			"ed25519:9C6hybhQ6Aycep9jaUnP6uL9ZYvDjUp1aSkFWPUFJtpj",
			true,
		},
		{
			"secp256k1:36Kd8xYZ6bRv1fYd9dnZYaAgiiuGTcnPEpC1kPzfZNRS",
			"secp256k1:mQN64cGpuVLnyBmiLPT6M1fZ4uYZq7L1dHTFzXqCMbKRZYbapywBSVJ2ChLxhWT2oJhxzmspUFzD33HCRD5nDHk",
			true,
		},
		{"ed25519:36Kd8xYZ6bRv1fYd9dnZYaAgiiuGTcnPEpC1kPzfZNRS", "", false},
		{"secp256k1:", "", false},
		{"", "", false},
	} {
		sk, err := ParseSecretKey(tc.raw)
		if !tc.valid {
			require.Error(err, tc.raw)
			continue
		}
		require.NoError(err, tc.raw)
		require.Equal(tc.public, sk.PublicKey().String())
		require.Equal(tc.raw, sk.UnsafeString())
		require.NotContains(sk.String(), tc.raw)
	}
}

func TestSecretKeyRejectsMismatchedPublicKey(t *testing.T) {
	require := require.New(t)

	sk, err := ParseSecretKey("ed25519:2Ana1pUpv2ZbMVkwF5FXapYeBEjdxDatLn7nvJkhgTSdZd8hbDHTd21as7EAsg7ypityqfsw2pMQKJcVDVcAEsd")
	require.NoError(err)

	data := append([]byte{}, sk.Data...)
	data[len(data)-1] ^= 0xff
	_, err = NewSecretKey(KeyTypeED25519, data)
	require.Error(err)
}

func TestSecretKeySign(t *testing.T) {
	require := require.New(t)

	digest := make([]byte, 32)
	for i := range digest {
		digest[i] = byte(i)
	}

	for _, raw := range []string{
		"ed25519:2Ana1pUpv2ZbMVkwF5FXapYeBEjdxDatLn7nvJkhgTSdZd8hbDHTd21as7EAsg7ypityqfsw2pMQKJcVDVcAEsd",
		"secp256k1:36Kd8xYZ6bRv1fYd9dnZYaAgiiuGTcnPEpC1kPzfZNRS",
	} {
		sk, err := ParseSecretKey(raw)
		require.NoError(err)

		sig, err := sk.Sign(digest)
		require.NoError(err)
		require.Len(sig.Data, sk.Type.SignatureSize())
		require.True(sk.PublicKey().Verify(digest, sig), raw)

		digest[0] ^= 0xff
		require.False(sk.PublicKey().Verify(digest, sig), raw)
		digest[0] ^= 0xff
	}
}
