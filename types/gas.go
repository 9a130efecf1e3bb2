package types

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// TeraGas is the number of gas units in one Tgas.
const TeraGas = 1_000_000_000_000

const teraGasDecimals = 12

// Gas is an amount of gas units.
type Gas uint64

// ParseGas parses a gas amount with an optional "Tgas" suffix. Amounts without a suffix are
// interpreted as gas units.
func ParseGas(s string) (Gas, error) {
	raw := strings.TrimSpace(s)
	var decimals int32
	if lower := strings.ToLower(raw); strings.HasSuffix(lower, "tgas") {
		raw = strings.TrimSpace(raw[:len(raw)-len("tgas")])
		decimals = teraGasDecimals
	}

	v, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, fmt.Errorf("malformed gas amount '%s': %w", s, err)
	}
	units := v.Mul(decimal.New(1, decimals)).BigInt()
	if units.Sign() < 0 || !units.IsUint64() {
		return 0, fmt.Errorf("gas amount '%s' is out of range", s)
	}
	return Gas(units.Uint64()), nil
}

// String formats the gas amount in Tgas.
func (g Gas) String() string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(g)), -teraGasDecimals).String() + " Tgas"
}
