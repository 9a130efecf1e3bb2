package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/near/near-cli-go/interactive"
	"github.com/near/near-cli-go/layers"
	"github.com/near/near-cli-go/rpc"
	"github.com/near/near-cli-go/transaction"
	"github.com/near/near-cli-go/types"
)

var signMenu = &interactive.Menu[layers.ConnectedContext]{
	Title: "Select a tool for signing the transaction",
	Choices: []interactive.Choice[layers.ConnectedContext]{
		{
			Tag:     "sign-with-keychain",
			Message: "Sign the transaction with a key saved in the keychain",
			New:     func() interactive.Node[layers.ConnectedContext] { return &signWithKeychain{} },
		},
		{
			Tag:     "sign-with-private-key",
			Message: "Sign the transaction with a private key",
			New:     func() interactive.Node[layers.ConnectedContext] { return &signWithPrivateKey{} },
		},
		{
			Tag:     "sign-later",
			Message: "Print the unsigned transaction to sign it later",
			New:     func() interactive.Node[layers.ConnectedContext] { return &signLater{} },
		},
	},
}

func newSign() interactive.Node[layers.ConnectedContext] {
	return signMenu.Switch()
}

// signWithKeychain signs with a wallet holding a key of the signer. It has no tokens.
type signWithKeychain struct{}

func (s *signWithKeychain) Parse(_ *interactive.Env, args []string) error {
	return interactive.ExpectEnd(args)
}

func (s *signWithKeychain) Resolve(context.Context, *interactive.Env, layers.ConnectedContext) error {
	return nil
}

func (s *signWithKeychain) Tokens() []string {
	return nil
}

func (s *signWithKeychain) Process(ctx context.Context, env *interactive.Env, in layers.ConnectedContext, tx transaction.Unsigned) error {
	if env.Keychain == nil {
		return fmt.Errorf("no keychain available")
	}
	w, err := env.Keychain.Load(env.Prompter, tx.SignerID)
	if err != nil {
		return err
	}
	return signAndSend(ctx, env, in, tx, w)
}

// signWithPrivateKey signs with an explicitly given key pair.
type signWithPrivateKey struct {
	publicKey *types.PublicKey
	secretKey *types.SecretKey

	parsedPublic *types.PublicKey
	parsedSecret *types.SecretKey
}

func (s *signWithPrivateKey) Parse(env *interactive.Env, args []string) error {
	var public, secret string
	fs := interactive.NewFlagSet("sign-with-private-key")
	fs.StringVar(&public, "signer-public-key", "", "public key of the signer")
	fs.StringVar(&secret, "signer-private-key", "", "private key of the signer")
	rest, err := interactive.ParseFlags(fs, args)
	if err != nil {
		return err
	}
	if fs.Changed("signer-public-key") {
		s.parsedPublic = interactive.FromToken(env, &public, interactive.ParsePublicKey)
	}
	if fs.Changed("signer-private-key") {
		// The secret is not echoed back in diagnostics.
		if sk, err := types.ParseSecretKey(secret); err == nil {
			s.parsedSecret = &sk
		} else {
			env.Warnf("Invalid private key: %s", err)
		}
	}
	return interactive.ExpectEnd(rest)
}

func (s *signWithPrivateKey) Resolve(_ context.Context, env *interactive.Env, _ layers.ConnectedContext) error {
	if s.publicKey != nil {
		return nil
	}

	public, secret := s.parsedPublic, s.parsedSecret
	if public == nil {
		pk, err := interactive.Ask(env, "Enter sender (signer) public key", interactive.ParsePublicKey)
		if err != nil {
			return err
		}
		public = &pk
	}
	if secret != nil && !secret.PublicKey().Equal(*public) {
		env.Warnf("The private key does not match the public key %s", *public)
		secret = nil
	}
	for secret == nil {
		raw, err := env.Prompter.Password("Enter sender (signer) private (secret) key")
		if err != nil {
			return err
		}
		sk, err := types.ParseSecretKey(raw)
		switch {
		case err != nil:
			env.Warnf("Invalid private key: %s", err)
		case !sk.PublicKey().Equal(*public):
			env.Warnf("The private key does not match the public key %s", *public)
		default:
			secret = &sk
		}
	}

	s.publicKey, s.secretKey = public, secret
	s.parsedPublic, s.parsedSecret = nil, nil
	return nil
}

func (s *signWithPrivateKey) Tokens() []string {
	return []string{
		"--signer-public-key", s.publicKey.String(),
		"--signer-private-key", s.secretKey.UnsafeString(),
	}
}

func (s *signWithPrivateKey) Process(ctx context.Context, env *interactive.Env, in layers.ConnectedContext, tx transaction.Unsigned) error {
	return signAndSend(ctx, env, in, tx, *s.secretKey)
}

// signLater completes the transaction and prints it unsigned.
type signLater struct {
	publicKey *types.PublicKey
	parsed    *types.PublicKey
}

func (s *signLater) Parse(env *interactive.Env, args []string) error {
	var public string
	fs := interactive.NewFlagSet("sign-later")
	fs.StringVar(&public, "signer-public-key", "", "public key of the signer")
	rest, err := interactive.ParseFlags(fs, args)
	if err != nil {
		return err
	}
	if fs.Changed("signer-public-key") {
		s.parsed = interactive.FromToken(env, &public, interactive.ParsePublicKey)
	}
	return interactive.ExpectEnd(rest)
}

func (s *signLater) Resolve(_ context.Context, env *interactive.Env, _ layers.ConnectedContext) error {
	if s.publicKey != nil {
		return nil
	}
	pk := s.parsed
	if pk == nil {
		value, err := interactive.Ask(env, "Enter sender (signer) public key", interactive.ParsePublicKey)
		if err != nil {
			return err
		}
		pk = &value
	}
	s.publicKey, s.parsed = pk, nil
	return nil
}

func (s *signLater) Tokens() []string {
	return []string{"--signer-public-key", s.publicKey.String()}
}

func (s *signLater) Process(ctx context.Context, env *interactive.Env, in layers.ConnectedContext, tx transaction.Unsigned) error {
	client, err := env.Network.Connect(ctx, in.Connection())
	if err != nil {
		return err
	}
	defer client.Close()

	tx, err = complete(ctx, client, tx.WithPublicKey(*s.publicKey))
	if err != nil {
		return err
	}
	transaction.PrintTransaction(env.Out, tx)

	encoded, err := tx.Base64()
	if err != nil {
		return err
	}
	env.Printf("Unsigned transaction (base64):\n%s\n", encoded)
	return nil
}

// complete fills in the nonce and recent block hash from the access key of the signer.
func complete(ctx context.Context, client rpc.Client, tx transaction.Unsigned) (transaction.Unsigned, error) {
	ak, err := client.ViewAccessKey(ctx, tx.SignerID, tx.PublicKey)
	switch {
	case err == nil:
	case errors.Is(err, rpc.ErrUnknownAccessKey):
		return tx, fmt.Errorf("public key %s is not an access key of %s", tx.PublicKey, tx.SignerID)
	default:
		return tx, fmt.Errorf("failed to query access key: %w", err)
	}
	return tx.WithNonce(ak.Nonce + 1).WithBlockHash(ak.BlockHash), nil
}

// signAndSend completes, signs and broadcasts the transaction, then prints the outcome.
func signAndSend(ctx context.Context, env *interactive.Env, in layers.ConnectedContext, tx transaction.Unsigned, signer transaction.Signer) error {
	client, err := env.Network.Connect(ctx, in.Connection())
	if err != nil {
		return err
	}
	defer client.Close()

	tx, err = complete(ctx, client, tx.WithPublicKey(signer.PublicKey()))
	if err != nil {
		return err
	}
	transaction.PrintTransaction(env.Out, tx)

	signed, err := transaction.Sign(tx, signer)
	if err != nil {
		return err
	}
	return broadcast(ctx, env, in, client, signed)
}

func broadcast(ctx context.Context, env *interactive.Env, in layers.ConnectedContext, client rpc.Client, signed *transaction.Signed) error {
	env.Printf("Transaction sent ...\n")
	b := transaction.NewBroadcaster(client,
		transaction.WithRetryDelay(env.RetryDelay),
		transaction.WithLogger(env.Logger),
		transaction.WithObserver(transaction.StatusPrinter(env.Out)),
	)
	outcome, err := b.Broadcast(ctx, signed)
	if err != nil {
		return err
	}

	// A confirmed submission succeeds even when its actions failed, the outcome reports those.
	transaction.PrintOutcome(env.Out, outcome, env.Explorer(in.Connection()))
	return nil
}
