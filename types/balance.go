package types

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// NEARDecimals is the number of decimals between NEAR and yoctoNEAR.
const NEARDecimals = 24

const (
	unitNEAR      = "near"
	unitYoctoNEAR = "yoctonear"
)

var maxBalance = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1))

// Balance is an amount of yoctoNEAR stored as a little-endian 128-bit unsigned integer.
type Balance [16]byte

// NewBalance converts a big integer amount of yoctoNEAR into a balance.
func NewBalance(v *big.Int) (Balance, error) {
	var b Balance
	if v.Sign() < 0 {
		return b, fmt.Errorf("amount must not be negative")
	}
	if v.Cmp(maxBalance) > 0 {
		return b, fmt.Errorf("amount does not fit into 128 bits")
	}
	be := v.FillBytes(make([]byte, 16))
	for i := range be {
		b[15-i] = be[i]
	}
	return b, nil
}

// BalanceFromUint64 creates a balance of v yoctoNEAR.
func BalanceFromUint64(v uint64) Balance {
	var b Balance
	binary.LittleEndian.PutUint64(b[:8], v)
	return b
}

// ParseBalance parses an amount with an optional unit suffix ("NEAR" or "yoctoNEAR"). Amounts
// without a unit are interpreted as NEAR. Fractions below one yoctoNEAR are truncated.
func ParseBalance(s string) (Balance, error) {
	raw := strings.TrimSpace(s)
	decimals := int32(NEARDecimals)
	lower := strings.ToLower(raw)
	switch {
	case strings.HasSuffix(lower, unitYoctoNEAR):
		raw = raw[:len(raw)-len(unitYoctoNEAR)]
		decimals = 0
	case strings.HasSuffix(lower, unitNEAR):
		raw = raw[:len(raw)-len(unitNEAR)]
	}

	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return Balance{}, fmt.Errorf("malformed amount '%s': %w", s, err)
	}
	return NewBalance(v.Mul(decimal.New(1, decimals)).BigInt())
}

// BigInt returns the amount of yoctoNEAR as a big integer.
func (b Balance) BigInt() *big.Int {
	var be [16]byte
	for i := range b {
		be[15-i] = b[i]
	}
	return new(big.Int).SetBytes(be[:])
}

// IsZero returns true iff the balance is zero.
func (b Balance) IsZero() bool {
	return b == Balance{}
}

// String formats the balance in NEAR.
func (b Balance) String() string {
	return decimal.NewFromBigInt(b.BigInt(), -NEARDecimals).String() + " NEAR"
}

// MarshalText encodes the balance as a decimal amount of yoctoNEAR.
func (b Balance) MarshalText() ([]byte, error) {
	return []byte(b.BigInt().String()), nil
}

// UnmarshalText decodes a decimal amount of yoctoNEAR.
func (b *Balance) UnmarshalText(text []byte) error {
	v, ok := new(big.Int).SetString(string(text), 10)
	if !ok {
		return fmt.Errorf("malformed balance '%s'", string(text))
	}
	parsed, err := NewBalance(v)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
