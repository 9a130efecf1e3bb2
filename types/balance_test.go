package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseBalance(t *testing.T) {
	require := require.New(t)

	oneNEAR, _ := new(big.Int).SetString("1000000000000000000000000", 10)
	for _, tc := range []struct {
		amount   string
		valid    bool
		expected *big.Int
	}{
		{"", false, nil},
		{"NEAR", false, nil},
		{"0", true, big.NewInt(0)},
		{"1 NEAR", true, oneNEAR},
		{"1NEAR", true, oneNEAR},
		{"1 near", true, oneNEAR},
		{"1", true, oneNEAR},
		{"0.5 NEAR", true, new(big.Int).Div(oneNEAR, big.NewInt(2))},
		{"100 yoctoNEAR", true, big.NewInt(100)},
		{"0.0000000000000000000000011", true, big.NewInt(1)},
		{"-1 NEAR", false, nil},
		{"1.2.3", false, nil},
		{"400000000000000 NEAR", false, nil},
	} {
		b, err := ParseBalance(tc.amount)
		if !tc.valid {
			require.Error(err, tc.amount)
			continue
		}
		require.NoError(err, tc.amount)
		require.Equal(0, tc.expected.Cmp(b.BigInt()), tc.amount)
	}
}

func TestBalanceString(t *testing.T) {
	require := require.New(t)

	for _, tc := range []struct {
		amount   string
		expected string
	}{
		{"0", "0 NEAR"},
		{"1.5 NEAR", "1.5 NEAR"},
		{"1 yoctoNEAR", "0.000000000000000000000001 NEAR"},
		{"12345", "12345 NEAR"},
	} {
		b, err := ParseBalance(tc.amount)
		require.NoError(err, tc.amount)
		require.Equal(tc.expected, b.String())

		again, err := ParseBalance(b.String())
		require.NoError(err)
		require.Equal(b, again)
	}
}

func TestBalanceText(t *testing.T) {
	require := require.New(t)

	var b Balance
	require.NoError(b.UnmarshalText([]byte("340282366920938463463374607431768211455")))
	require.Equal(Balance{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, b)
	require.Error(b.UnmarshalText([]byte("340282366920938463463374607431768211456")))
	require.Error(b.UnmarshalText([]byte("abc")))

	require.Equal(BalanceFromUint64(258), Balance{2, 1})
	text, err := BalanceFromUint64(258).MarshalText()
	require.NoError(err)
	require.Equal("258", string(text))
}

func TestParseGas(t *testing.T) {
	require := require.New(t)

	for _, tc := range []struct {
		amount   string
		valid    bool
		expected Gas
	}{
		{"30 Tgas", true, 30 * TeraGas},
		{"30TGas", true, 30 * TeraGas},
		{"0.5 tgas", true, TeraGas / 2},
		{"1000", true, 1000},
		{"-1", false, 0},
		{"Tgas", false, 0},
		{"100000000 Tgas", false, 0},
	} {
		g, err := ParseGas(tc.amount)
		if !tc.valid {
			require.Error(err, tc.amount)
			continue
		}
		require.NoError(err, tc.amount)
		require.Equal(tc.expected, g)

		again, err := ParseGas(g.String())
		require.NoError(err)
		require.Equal(g, again)
	}
}
