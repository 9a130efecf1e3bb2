package table

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewWriter(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	table := NewWriter(&buf)
	table.SetHeader([]string{"Name", "RPC"})
	table.Append([]string{"testnet", "https://rpc.testnet.near.org"})
	table.Render()

	out := buf.String()
	require.Contains(out, "NAME")
	require.Contains(out, "https://rpc.testnet.near.org")
	require.Contains(out, "|")
}
