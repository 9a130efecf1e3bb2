package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/near/near-cli-go/interactive"
	"github.com/near/near-cli-go/layers"
	"github.com/near/near-cli-go/rpc"
	"github.com/near/near-cli-go/types"
)

// ErrLoginAborted is returned when the user gives up authorizing the generated key.
var ErrLoginAborted = errors.New("login aborted")

const loginTitle = "near-cli"

var (
	loginMode = layers.OperationMode(loginAccount.New)

	loginAccount = &layers.AccountLayer[layers.ConnectedContext]{
		Keyword: "account",
		Message: "What account do you want to log in with?",
		Role:    layers.RoleNone,
		Next:    login.New,
	}

	login = &query[layers.AccountContext]{Run: runLogin}
)

// loginURL returns the wallet page authorizing the public key.
func loginURL(wallet string, pk types.PublicKey) string {
	q := url.Values{}
	q.Set("title", loginTitle)
	q.Set("public_key", pk.String())
	return strings.TrimSuffix(wallet, "/") + "/login/?" + q.Encode()
}

func runLogin(ctx context.Context, env *interactive.Env, in layers.AccountContext) error {
	if env.Keychain == nil {
		return fmt.Errorf("no keychain to store the key in")
	}
	ep, err := env.Endpoint(in.Connection())
	if err != nil {
		return err
	}
	if ep.Wallet == "" {
		return fmt.Errorf("no wallet is known for network %s", in.Connection())
	}

	seed := make([]byte, 32)
	if _, err = io.ReadFull(env.Entropy(), seed); err != nil {
		return fmt.Errorf("failed to generate key: %w", err)
	}
	sk, err := types.NewEd25519SecretKeyFromSeed(seed)
	if err != nil {
		return err
	}
	pk := sk.PublicKey()

	env.Printf("Generated key: %s\n", pk)
	env.Printf("Authorize it for %s in your wallet:\n%s\n", in.AccountID, loginURL(ep.Wallet, pk))

	client, err := env.Network.Connect(ctx, in.Connection())
	if err != nil {
		return err
	}
	defer client.Close()

	for {
		authorized, err := env.Prompter.Confirm("Have you authorized the key in the wallet?", true)
		if err != nil {
			return err
		}
		if !authorized {
			return ErrLoginAborted
		}

		_, err = client.ViewAccessKey(ctx, in.AccountID, pk)
		if errors.Is(err, rpc.ErrUnknownAccessKey) {
			env.Warnf("The key %s is not an access key of %s yet.", pk, in.AccountID)
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to verify the access key: %w", err)
		}
		break
	}

	name, err := env.Keychain.Save(env.Prompter, in.AccountID, sk)
	if err != nil {
		return err
	}
	env.Printf("Logged in as %s, the key is stored in wallet '%s'.\n", in.AccountID, name)
	return nil
}
