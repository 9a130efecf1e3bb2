package layers

import (
	"context"
	"errors"
	"fmt"

	"github.com/near/near-cli-go/interactive"
	"github.com/near/near-cli-go/network"
	"github.com/near/near-cli-go/rpc"
	"github.com/near/near-cli-go/transaction"
	"github.com/near/near-cli-go/types"
)

// Role determines which transaction metadata an account layer fills in.
type Role uint8

const (
	// RoleNone does not touch the transaction.
	RoleNone Role = iota
	// RoleSigner sets the transaction signer.
	RoleSigner
	// RoleReceiver sets the transaction receiver.
	RoleReceiver
	// RoleSignerAndReceiver sets both the signer and the receiver.
	RoleSignerAndReceiver
)

func (r Role) apply(tx transaction.Unsigned, id types.AccountID) transaction.Unsigned {
	switch r {
	case RoleSigner:
		return tx.WithSigner(id)
	case RoleReceiver:
		return tx.WithReceiver(id)
	case RoleSignerAndReceiver:
		return tx.WithSigner(id).WithReceiver(id)
	default:
		return tx
	}
}

// AccountLayer describes a named account layer ("<keyword> <account-id>") whose account must
// exist on the selected network.
type AccountLayer[In Connected] struct {
	Keyword string
	Message string
	Role    Role
	Next    func() interactive.Node[AccountContext]
}

// New creates an unresolved node of the layer.
func (l *AccountLayer[In]) New() interactive.Node[In] {
	return &account[In]{layer: l, child: l.Next()}
}

type account[In Connected] struct {
	layer  *AccountLayer[In]
	id     *types.AccountID
	parsed *types.AccountID
	child  interactive.Node[AccountContext]
}

func (a *account[In]) Parse(env *interactive.Env, args []string) error {
	raw, rest, err := interactive.Keyword(a.layer.Keyword, args)
	if err != nil {
		return err
	}
	a.parsed = interactive.FromToken(env, raw, interactive.ParseAccountID)
	return a.child.Parse(env, rest)
}

func (a *account[In]) Resolve(ctx context.Context, env *interactive.Env, in In) error {
	if a.id == nil {
		id, err := a.resolveID(ctx, env, in.Connection())
		if err != nil {
			return err
		}
		a.id, a.parsed = &id, nil
	}
	return a.child.Resolve(ctx, env, DeriveAccount(*a.id, in))
}

func (a *account[In]) resolveID(ctx context.Context, env *interactive.Env, cc network.ConnectionConfig) (types.AccountID, error) {
	client, err := env.Network.Connect(ctx, cc)
	if err != nil {
		return "", err
	}
	defer client.Close()

	if a.parsed != nil {
		found, err := AccountExists(ctx, client, *a.parsed)
		if err != nil {
			return "", err
		}
		if found {
			return *a.parsed, nil
		}
		env.Warnf("Account <%s> doesn't exist", *a.parsed)
	}

	for {
		id, err := interactive.Ask(env, a.layer.Message, interactive.ParseAccountID)
		if err != nil {
			return "", err
		}
		found, err := AccountExists(ctx, client, id)
		if err != nil {
			return "", err
		}
		if found {
			return id, nil
		}
		env.Warnf("Account <%s> doesn't exist", id)
	}
}

func (a *account[In]) Tokens() []string {
	return interactive.Prepend(a.child.Tokens(), a.layer.Keyword, a.id.String())
}

func (a *account[In]) Process(ctx context.Context, env *interactive.Env, in In, tx transaction.Unsigned) error {
	return a.child.Process(ctx, env, DeriveAccount(*a.id, in), a.layer.Role.apply(tx, *a.id))
}

// AccountExists looks the account up on the node. It only reports errors other than the account
// not existing.
func AccountExists(ctx context.Context, client rpc.Client, id types.AccountID) (bool, error) {
	_, err := client.ViewAccount(ctx, id, rpc.FinalBlock())
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, rpc.ErrUnknownAccount):
		return false, nil
	default:
		return false, fmt.Errorf("failed to look up account %s: %w", id, err)
	}
}
