package file

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/near/near-cli-go/types"
)

// Secp256k1FromHex creates a secret key from the given hex-encoded secp256k1 private key.
func Secp256k1FromHex(text string) (types.SecretKey, error) {
	text = strings.TrimPrefix(strings.TrimSpace(text), "0x")
	data, err := hex.DecodeString(text)
	if err != nil {
		return types.SecretKey{}, err
	}

	return types.NewSecretKey(types.KeyTypeSECP256K1, data)
}

func generateSecp256k1Hex() (string, error) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(crypto.FromECDSA(priv)), nil
}
