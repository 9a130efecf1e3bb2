package file

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/near/near-cli-go/wallet"
)

func useTempDirectory(t *testing.T) string {
	dir := t.TempDir()
	old := walletDirectory
	walletDirectory = func() string { return dir }
	t.Cleanup(func() { walletDirectory = old })
	return dir
}

func TestImportLoad(t *testing.T) {
	require := require.New(t)
	useTempDirectory(t)

	wf, err := wallet.Load(Kind)
	require.NoError(err)
	require.True(wf.RequiresPassphrase())

	for _, tc := range []struct {
		name   string
		cfg    map[string]interface{}
		src    wallet.ImportSource
		pubkey string
	}{
		{
			"mnemonic",
			map[string]interface{}{"algorithm": wallet.AlgorithmEd25519Bip44, "number": 1},
			wallet.ImportSource{Kind: wallet.ImportKindMnemonic, Data: testMnemonic},
			"ed25519:Hc7zTgL3TkBZJytqnyL7tRRHmN8cCGyXUNn3zYGNjbxt",
		},
		{
			"raw-ed25519",
			map[string]interface{}{"algorithm": wallet.AlgorithmEd25519Raw},
			wallet.ImportSource{Kind: wallet.ImportKindPrivateKey, Data: "ed25519:2Ana1pUpv2ZbMVkwF5FXapYeBEjdxDatLn7nvJkhgTSdZd8hbDHTd21as7EAsg7ypityqfsw2pMQKJcVDVcAEsd"},
			"ed25519:9C6hybhQ6Aycep9jaUnP6uL9ZYvDjUp1aSkFWPUFJtpj",
		},
		{
			"raw-secp256k1",
			map[string]interface{}{"algorithm": wallet.AlgorithmSecp256k1Raw},
			wallet.ImportSource{Kind: wallet.ImportKindPrivateKey, Data: "1f1455c61485737accdd610f5ea9ac1e4272c29b4c6c3189a349acc5bb598e7d"},
			secp256k1Public,
		},
	} {
		w, err := wf.Import(tc.name, "secret", tc.cfg, &tc.src)
		require.NoError(err, tc.name)
		require.Equal(tc.pubkey, w.PublicKey().String(), tc.name)

		loaded, err := wf.Load(tc.name, "secret", tc.cfg)
		require.NoError(err, tc.name)
		require.Equal(tc.pubkey, loaded.PublicKey().String(), tc.name)
		require.Equal(w.UnsafeExport(), loaded.UnsafeExport(), tc.name)

		_, err = wf.Load(tc.name, "wrong", tc.cfg)
		require.Error(err, tc.name)
	}
}

func TestImportMismatchedKind(t *testing.T) {
	require := require.New(t)
	useTempDirectory(t)

	wf, err := wallet.Load(Kind)
	require.NoError(err)

	_, err = wf.Import("bad", "secret",
		map[string]interface{}{"algorithm": wallet.AlgorithmEd25519Raw},
		&wallet.ImportSource{Kind: wallet.ImportKindMnemonic, Data: testMnemonic},
	)
	require.Error(err)

	_, err = wf.Import("bad", "secret",
		map[string]interface{}{"algorithm": "ed25519-adr8"},
		&wallet.ImportSource{Kind: wallet.ImportKindMnemonic, Data: testMnemonic},
	)
	require.Error(err)
}

func TestCreateRenameRemove(t *testing.T) {
	require := require.New(t)
	dir := useTempDirectory(t)

	wf, err := wallet.Load(Kind)
	require.NoError(err)

	for _, algorithm := range []string{wallet.AlgorithmEd25519Bip44, wallet.AlgorithmEd25519Raw, wallet.AlgorithmSecp256k1Raw} {
		cfg := map[string]interface{}{"algorithm": algorithm}
		w, err := wf.Create("fresh", "secret", cfg)
		require.NoError(err, algorithm)

		msg := make([]byte, 32)
		sig, err := w.Sign(msg)
		require.NoError(err, algorithm)
		require.True(w.PublicKey().Verify(msg, sig), algorithm)

		require.NoError(wf.Rename("fresh", "renamed", cfg))
		loaded, err := wf.Load("renamed", "secret", cfg)
		require.NoError(err, algorithm)
		require.True(w.PublicKey().Equal(loaded.PublicKey()), algorithm)

		require.NoError(wf.Remove("renamed", cfg))
		_, err = os.Stat(getAccountFilename("renamed"))
		require.True(os.IsNotExist(err), algorithm)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(err)
	require.Empty(entries)
}

func TestDataValidator(t *testing.T) {
	require := require.New(t)

	wf, err := wallet.Load(Kind)
	require.NoError(err)

	mnemonicCfg := map[string]interface{}{"algorithm": wallet.AlgorithmEd25519Bip44}
	validate := wf.DataValidator(wallet.ImportKindMnemonic, mnemonicCfg)
	require.NoError(validate(testMnemonic))
	require.Error(validate("not a mnemonic"))

	rawCfg := map[string]interface{}{"algorithm": wallet.AlgorithmSecp256k1Raw}
	validate = wf.DataValidator(wallet.ImportKindPrivateKey, rawCfg)
	require.NoError(validate("0x1f1455c61485737accdd610f5ea9ac1e4272c29b4c6c3189a349acc5bb598e7d"))
	require.Error(validate("zz"))
}
