package layers

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/near/near-cli-go/config"
	"github.com/near/near-cli-go/interactive"
	"github.com/near/near-cli-go/interactive/interactivetest"
	"github.com/near/near-cli-go/logging"
	"github.com/near/near-cli-go/network"
	"github.com/near/near-cli-go/network/networktest"
	"github.com/near/near-cli-go/transaction"
	"github.com/near/near-cli-go/types"
)

type recorder struct {
	contexts []AccountContext
	txs      []transaction.Unsigned
}

// recordingLeaf is a leaf without tokens recording what it is processed with.
type recordingLeaf struct {
	rec *recorder
}

func (p *recordingLeaf) Parse(_ *interactive.Env, args []string) error {
	return interactive.ExpectEnd(args)
}

func (p *recordingLeaf) Resolve(context.Context, *interactive.Env, AccountContext) error {
	return nil
}

func (p *recordingLeaf) Tokens() []string {
	return nil
}

func (p *recordingLeaf) Process(_ context.Context, _ *interactive.Env, in AccountContext, tx transaction.Unsigned) error {
	p.rec.contexts = append(p.rec.contexts, in)
	p.rec.txs = append(p.rec.txs, tx)
	return nil
}

func newStack(rec *recorder, role Role) *interactive.Menu[struct{}] {
	layer := &AccountLayer[ConnectedContext]{
		Keyword: "account",
		Message: "What is your account ID?",
		Role:    role,
		Next: func() interactive.Node[AccountContext] {
			return &recordingLeaf{rec: rec}
		},
	}
	return OperationMode(layer.New)
}

func newEnv(p interactive.Prompter, node *networktest.Node) (*interactive.Env, *bytes.Buffer) {
	var out bytes.Buffer
	cfg := config.Default
	return &interactive.Env{
		Prompter: p,
		Out:      &out,
		Logger:   logging.NewNop(),
		Network:  node,
		Config:   &cfg,
		Program:  "near-cli",
	}, &out
}

func newNode() *networktest.Node {
	node := networktest.NewNode()
	node.AddAccount("alice.testnet", types.BalanceFromUint64(1))
	node.AddAccount("bob.testnet", types.BalanceFromUint64(2))
	return node
}

func TestPartialFlags(t *testing.T) {
	require := require.New(t)

	rec := &recorder{}
	node := newNode()
	prompter := interactivetest.NewPrompter("alice.testnet")
	env, _ := newEnv(prompter, node)

	root := newStack(rec, RoleNone).Switch()
	require.NoError(root.Parse(env, []string{"network", "testnet"}))
	require.NoError(root.Resolve(context.Background(), env, struct{}{}))

	prompts := prompter.Prompts()
	require.Len(prompts, 1)
	require.Equal("What is your account ID?", prompts[0].Message)
	require.Equal(1, node.AccountLookups["alice.testnet"])

	require.Equal([]string{"network", "testnet", "account", "alice.testnet"}, root.Tokens())

	require.NoError(root.Process(context.Background(), env, struct{}{}, transaction.Unsigned{}))
	require.Equal([]AccountContext{{
		ConnectedContext: ConnectedContext{Config: network.WellKnown(config.NetworkTestnet)},
		AccountID:        "alice.testnet",
	}}, rec.contexts)
}

func TestFullyInteractive(t *testing.T) {
	require := require.New(t)

	rec := &recorder{}
	node := newNode()
	prompter := interactivetest.NewPrompter("Custom", "http://localhost:3030", "bob.testnet")
	env, _ := newEnv(prompter, node)

	root := newStack(rec, RoleSigner).Switch()
	require.NoError(root.Parse(env, nil))
	require.NoError(root.Resolve(context.Background(), env, struct{}{}))

	prompts := prompter.Prompts()
	require.Len(prompts, 3)
	require.Equal("select", prompts[0].Kind)
	require.Equal([]string{"Testnet", "Mainnet", "Betanet", "Custom"}, prompts[0].Options)
	require.Equal(
		[]string{"network", "custom", "--url", "http://localhost:3030", "account", "bob.testnet"},
		root.Tokens(),
	)
	require.Equal([]network.ConnectionConfig{network.Custom("http://localhost:3030")}, node.Connections)

	require.NoError(root.Process(context.Background(), env, struct{}{}, transaction.Unsigned{}))
	require.Len(rec.txs, 1)
	require.True(rec.txs[0].HasSigner())
	require.False(rec.txs[0].HasReceiver())
	require.EqualValues("bob.testnet", rec.txs[0].SignerID)
}

func TestRoundTrip(t *testing.T) {
	require := require.New(t)

	rec := &recorder{}
	node := newNode()
	menu := newStack(rec, RoleSignerAndReceiver)

	env, _ := newEnv(interactivetest.NewPrompter("Mainnet", "nobody.testnet", "alice.testnet"), node)
	resolved := menu.Switch()
	require.NoError(resolved.Parse(env, nil))
	require.NoError(resolved.Resolve(context.Background(), env, struct{}{}))

	replayPrompter := interactivetest.NewPrompter()
	env, _ = newEnv(replayPrompter, node)
	replayed := menu.Switch()
	require.NoError(replayed.Parse(env, resolved.Tokens()))
	require.NoError(replayed.Resolve(context.Background(), env, struct{}{}))

	require.Empty(replayPrompter.Prompts())
	require.Equal(resolved, replayed)
	require.Equal(resolved.Tokens(), replayed.Tokens())
}

func TestFlagAccountMissing(t *testing.T) {
	require := require.New(t)

	rec := &recorder{}
	node := newNode()
	prompter := interactivetest.NewPrompter("carol.testnet", "alice.testnet")
	env, out := newEnv(prompter, node)

	root := newStack(rec, RoleNone).Switch()
	require.NoError(root.Parse(env, []string{"network", "betanet", "account", "nobody.testnet"}))
	require.NoError(root.Resolve(context.Background(), env, struct{}{}))

	require.Contains(out.String(), "Account <nobody.testnet> doesn't exist")
	require.Contains(out.String(), "Account <carol.testnet> doesn't exist")
	require.Len(prompter.Prompts(), 2)
	require.Equal([]string{"network", "betanet", "account", "alice.testnet"}, root.Tokens())
}

func TestFlagAccountMalformed(t *testing.T) {
	require := require.New(t)

	rec := &recorder{}
	node := newNode()
	prompter := interactivetest.NewPrompter("Bad Account", "bob.testnet")
	env, out := newEnv(prompter, node)

	root := newStack(rec, RoleNone).Switch()
	require.NoError(root.Parse(env, []string{"network", "testnet", "account", "UPPER"}))
	require.Contains(out.String(), "Invalid value 'UPPER'")
	require.Zero(node.AccountLookups["UPPER"])

	require.NoError(root.Resolve(context.Background(), env, struct{}{}))
	// The malformed answer is rejected by the validator before any lookup.
	require.Len(prompter.Prompts(), 2)
	require.Equal([]string{"network", "testnet", "account", "bob.testnet"}, root.Tokens())
}

func TestAddressBookName(t *testing.T) {
	require := require.New(t)

	rec := &recorder{}
	node := newNode()
	env, _ := newEnv(interactivetest.NewPrompter(), node)
	require.NoError(env.Config.AddressBook.Add("al", "alice.testnet"))

	root := newStack(rec, RoleNone).Switch()
	require.NoError(root.Parse(env, []string{"network", "testnet", "account", "al"}))
	require.NoError(root.Resolve(context.Background(), env, struct{}{}))
	require.Equal([]string{"network", "testnet", "account", "alice.testnet"}, root.Tokens())
}

func TestUnexpectedTokens(t *testing.T) {
	require := require.New(t)

	env, _ := newEnv(interactivetest.NewPrompter(), newNode())
	for _, args := range [][]string{
		{"offline"},
		{"network", "localnet"},
		{"network", "testnet", "signer", "alice.testnet"},
		{"network", "testnet", "account", "alice.testnet", "extra"},
		{"network", "custom", "--bogus", "x"},
	} {
		root := newStack(&recorder{}, RoleNone).Switch()
		err := root.Parse(env, args)
		require.ErrorIs(err, interactive.ErrUnexpectedToken, "%v", args)
	}
}

func TestVariantExhaustiveness(t *testing.T) {
	require := require.New(t)

	menu := SelectServer(func() interactive.Node[ConnectedContext] { return nil })
	require.Equal([]string{"testnet", "mainnet", "betanet", "custom"}, menu.Tags())
	require.NotPanics(func() { menu.Switch() })

	mode := OperationMode(func() interactive.Node[ConnectedContext] { return nil })
	require.Equal([]string{"network"}, mode.Tags())
}

func TestDeriveDeterminism(t *testing.T) {
	require := require.New(t)

	in := DeriveConnected(config.NetworkTestnet, NetworkContext{})
	require.Equal(in, DeriveConnected(config.NetworkTestnet, NetworkContext{}))
	require.Equal(DeriveAccount("alice.testnet", in), DeriveAccount("alice.testnet", in))
	require.Equal(DeriveCustom("http://x:1", NetworkContext{}), DeriveCustom("http://x:1", NetworkContext{}))

	nested := DeriveAccount("bob.testnet", DeriveAccount("alice.testnet", in))
	require.Equal(in.Connection(), nested.Connection())
	require.EqualValues("bob.testnet", nested.AccountID)

	require.Panics(func() { DeriveConnected(network.TagCustom, NetworkContext{}) })
}

func TestAccountExistsIdempotent(t *testing.T) {
	require := require.New(t)

	node := newNode()
	client, err := node.Connect(context.Background(), network.WellKnown(config.NetworkTestnet))
	require.NoError(err)

	for i := 0; i < 3; i++ {
		found, err := AccountExists(context.Background(), client, "alice.testnet")
		require.NoError(err)
		require.True(found)

		found, err = AccountExists(context.Background(), client, "nobody.testnet")
		require.NoError(err)
		require.False(found)
	}
	require.Equal(3, node.AccountLookups["alice.testnet"])
}
