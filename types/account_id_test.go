package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAccountID(t *testing.T) {
	require := require.New(t)

	for _, tc := range []struct {
		id    string
		valid bool
	}{
		{"", false},
		{"a", false},
		{"alice.testnet", true},
		{"bob", true},
		{"ok", true},
		{"app-name_1.near", true},
		{"Alice.testnet", false},
		{"alice..testnet", false},
		{".alice", false},
		{"alice.", false},
		{"alice-", false},
		{"_alice", false},
		{"ali ce", false},
		{"alice@near", false},
		{"98793cd91a3f870fb126f66285808c7e094afcfc4eda8a970f6648cdf0dbd6de", true},
		{"abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyzabcdefghijklm", false},
	} {
		id, err := ParseAccountID(tc.id)
		if tc.valid {
			require.NoError(err, tc.id)
			require.EqualValues(tc.id, id)
		} else {
			require.Error(err, tc.id)
		}
	}
}

func TestAccountIDIsImplicit(t *testing.T) {
	require := require.New(t)

	require.True(AccountID("98793cd91a3f870fb126f66285808c7e094afcfc4eda8a970f6648cdf0dbd6de").IsImplicit())
	require.False(AccountID("alice.testnet").IsImplicit())
	require.False(AccountID("98793CD91A3F870FB126F66285808C7E094AFCFC4EDA8A970F6648CDF0DBD6DE").IsImplicit())
}
