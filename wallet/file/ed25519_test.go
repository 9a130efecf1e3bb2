package file

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

const testMnemonic = "tornado awake gauge toilet tide book slim ranch initial custom purse quantum raccoon floor caught three color twelve until marriage snake split strategy caught"

var mnemonics = []struct {
	mnemonic string
	num      uint32
	pubkey   string
	valid    bool
}{
	{mnemonic: testMnemonic, num: 0, pubkey: "ed25519:9FofXEpk4Uv3g7PcRSRNaJMTLMxLcHgx5pASQn6FCRDE", valid: true},
	{mnemonic: testMnemonic, num: 1, pubkey: "ed25519:Hc7zTgL3TkBZJytqnyL7tRRHmN8cCGyXUNn3zYGNjbxt", valid: true},
	{mnemonic: "actor want explain gravity body drill bike update mask wool tell seven", pubkey: "ed25519:6ARFcMpHwjQo79XFVGQ3QWbNuVwzsVFovhujcsmftY8X", valid: true},
	{mnemonic: "  actor want explain gravity\nbody drill bike update mask wool tell seven ", pubkey: "ed25519:6ARFcMpHwjQo79XFVGQ3QWbNuVwzsVFovhujcsmftY8X", valid: true},
	{mnemonic: "actorr want explain gravity body drill bike update mask wool tell seven", pubkey: "", valid: false},
	{mnemonic: "actor want explain gravity body drill bike update mask wool tell", pubkey: "", valid: false},
	{mnemonic: "", pubkey: "", valid: false},
}

func TestEd25519FromMnemonic(t *testing.T) {
	for _, m := range mnemonics {
		if m.valid {
			sk, err := Ed25519FromMnemonic(m.mnemonic, m.num)
			require.NoError(t, err)
			require.Equal(t, m.pubkey, sk.PublicKey().String())
		} else {
			_, err := Ed25519FromMnemonic(m.mnemonic, 0)
			require.Error(t, err)
		}
	}

	sk, err := Ed25519FromMnemonic(testMnemonic, 0)
	require.NoError(t, err)
	require.Equal(t, "ed25519:21KBHeaVxnyfBWDKidgm9NnQh5EzBCSJEa5A9ij9BEL2AjabcG4cXgFzHREoukNJA9Cgb7XSdQ8pWpvAYvSk7koe", sk.UnsafeString())
}

func TestSlip10Derive(t *testing.T) {
	require := require.New(t)

	// SLIP-0010 test vector 1 for ed25519.
	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	require.NoError(err)

	key, chainCode := slip10Derive(seed, nil)
	require.Equal("2b4be7f19ee27bbf30c667b642d5f4aa69fd169872f8fc3059c08ebae2eb19e7", hex.EncodeToString(key))
	require.Equal("90046a93de5380a72b5e45010748567d5ea02bbf6522f979e05c0d8d8ca9fffb", hex.EncodeToString(chainCode))

	key, _ = slip10Derive(seed, []uint32{0})
	require.Equal("68e0fe46dfb67e368c75379acec591dad19df3cde26e63b93a8e704f1dade7a3", hex.EncodeToString(key))
}

func TestEd25519FromText(t *testing.T) {
	require := require.New(t)

	sk, err := Ed25519FromText("ed25519:2Ana1pUpv2ZbMVkwF5FXapYeBEjdxDatLn7nvJkhgTSdZd8hbDHTd21as7EAsg7ypityqfsw2pMQKJcVDVcAEsd\n")
	require.NoError(err)
	require.Equal("ed25519:9C6hybhQ6Aycep9jaUnP6uL9ZYvDjUp1aSkFWPUFJtpj", sk.PublicKey().String())

	_, err = Ed25519FromText("secp256k1:36Kd8xYZ6bRv1fYd9dnZYaAgiiuGTcnPEpC1kPzfZNRS")
	require.Error(err)
}
