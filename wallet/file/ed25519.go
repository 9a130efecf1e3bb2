package file

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/binary"
	"fmt"
	"strings"

	bip39 "github.com/tyler-smith/go-bip39"

	"github.com/near/near-cli-go/types"
)

const (
	// Bip44CoinType is the SLIP-44 coin type registered for NEAR.
	Bip44CoinType = 397

	// Bip44DerivationPath is the hardened derivation path of ed25519 keys.
	Bip44DerivationPath = "m/44'/397'/%d'"

	slip10Curve    = "ed25519 seed"
	hardenedOffset = 0x80000000
)

// normalizeMnemonic collapses whitespace so multiline input yields the same seed.
func normalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(mnemonic), " ")
}

// Ed25519FromMnemonic derives the ed25519 key number `number` from the given BIP-39
// mnemonic using SLIP-10 along m/44'/397'/number'.
func Ed25519FromMnemonic(mnemonic string, number uint32) (types.SecretKey, error) {
	seed, err := bip39.NewSeedWithErrorChecking(normalizeMnemonic(mnemonic), "")
	if err != nil {
		return types.SecretKey{}, fmt.Errorf("failed to parse mnemonic: %w", err)
	}
	if number >= hardenedOffset {
		return types.SecretKey{}, fmt.Errorf("key number %d out of range", number)
	}

	key, _ := slip10Derive(seed, []uint32{44, Bip44CoinType, number})
	return types.NewEd25519SecretKeyFromSeed(key)
}

// slip10Derive derives the private key and chain code at the given path of hardened indices.
func slip10Derive(seed []byte, path []uint32) ([]byte, []byte) {
	mac := hmac.New(sha512.New, []byte(slip10Curve))
	_, _ = mac.Write(seed)
	sum := mac.Sum(nil)
	key, chainCode := sum[:32], sum[32:]

	for _, index := range path {
		var data [1 + 32 + 4]byte
		copy(data[1:33], key)
		binary.BigEndian.PutUint32(data[33:], index|hardenedOffset)

		mac = hmac.New(sha512.New, chainCode)
		_, _ = mac.Write(data[:])
		sum = mac.Sum(nil)
		key, chainCode = sum[:32], sum[32:]
	}
	return key, chainCode
}

// Ed25519FromText parses an ed25519 secret key in the "ed25519:<base58>" format.
func Ed25519FromText(text string) (types.SecretKey, error) {
	sk, err := types.ParseSecretKey(strings.TrimSpace(text))
	if err != nil {
		return types.SecretKey{}, err
	}
	if sk.Type != types.KeyTypeED25519 {
		return types.SecretKey{}, fmt.Errorf("expected an ed25519 secret key, got %s", sk.Type)
	}
	return sk, nil
}
