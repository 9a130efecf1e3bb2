package interactive

import (
	"strconv"

	"github.com/near/near-cli-go/config"
	"github.com/near/near-cli-go/types"
)

// Parser converts a raw token into a value.
type Parser[T any] func(env *Env, raw string) (T, error)

// Ask prompts until the answer parses.
func Ask[T any](env *Env, message string, parse Parser[T]) (T, error) {
	var value T
	_, err := env.Prompter.Input(message, func(raw string) error {
		var err error
		value, err = parse(env, raw)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return value, nil
}

// FromToken parses a token supplied on the command line. Malformed tokens produce a diagnostic
// and a nil result, so that the value is asked for during resolution.
func FromToken[T any](env *Env, raw *string, parse Parser[T]) *T {
	if raw == nil {
		return nil
	}
	value, err := parse(env, *raw)
	if err != nil {
		env.Warnf("Invalid value '%s': %s", *raw, err)
		return nil
	}
	return &value
}

// ParseAccountID parses an account ID, resolving address book names.
func ParseAccountID(env *Env, raw string) (types.AccountID, error) {
	return types.ParseAccountID(env.ResolveAccountName(raw))
}

// ParsePublicKey parses a public key.
func ParsePublicKey(_ *Env, raw string) (types.PublicKey, error) {
	return types.ParsePublicKey(raw)
}

// ParseSecretKey parses a secret key.
func ParseSecretKey(_ *Env, raw string) (types.SecretKey, error) {
	return types.ParseSecretKey(raw)
}

// ParseCryptoHash parses a base58 hash.
func ParseCryptoHash(_ *Env, raw string) (types.CryptoHash, error) {
	return types.ParseCryptoHash(raw)
}

// ParseBlockHeight parses a block height.
func ParseBlockHeight(_ *Env, raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}

// ParseBalance parses a NEAR amount.
func ParseBalance(_ *Env, raw string) (types.Balance, error) {
	return types.ParseBalance(raw)
}

// ParseGas parses an amount of gas.
func ParseGas(_ *Env, raw string) (types.Gas, error) {
	return types.ParseGas(raw)
}

// ParseURL parses an http(s) endpoint URL.
func ParseURL(_ *Env, raw string) (string, error) {
	if err := config.ValidateURL(raw); err != nil {
		return "", err
	}
	return raw, nil
}
