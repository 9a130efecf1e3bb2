package commands

import (
	"context"

	"github.com/near/near-cli-go/interactive"
	"github.com/near/near-cli-go/layers"
	"github.com/near/near-cli-go/transaction"
	"github.com/near/near-cli-go/types"
)

var (
	deleteAccount = layers.OperationMode(func() interactive.Node[layers.ConnectedContext] {
		return deleteAccountLayer.New()
	})

	deleteAccountLayer = &layers.AccountLayer[layers.ConnectedContext]{
		Keyword: "account",
		Message: "What account do you want to delete?",
		Role:    layers.RoleSignerAndReceiver,
		Next:    beneficiaryLayer.New,
	}

	beneficiaryLayer = &layers.AccountLayer[layers.AccountContext]{
		Keyword: "beneficiary",
		Message: "What is the beneficiary account ID?",
		Role:    layers.RoleNone,
		Next: func() interactive.Node[layers.AccountContext] {
			return &deleteAccountAction{child: newSign()}
		},
	}

	transfer = layers.OperationMode(func() interactive.Node[layers.ConnectedContext] {
		return transferSender.New()
	})

	transferSender = &layers.AccountLayer[layers.ConnectedContext]{
		Keyword: "account",
		Message: "What is the account ID of the sender?",
		Role:    layers.RoleSigner,
		Next:    transferReceiver.New,
	}

	transferReceiver = &layers.AccountLayer[layers.AccountContext]{
		Keyword: "receiver",
		Message: "What is the account ID of the receiver?",
		Role:    layers.RoleReceiver,
		Next:    transferAmount.New,
	}

	transferAmount = &param[layers.AccountContext, types.Balance, layers.ConnectedContext]{
		Message: "How many NEAR tokens do you want to transfer? (example: 10NEAR or 0.5near or 10000yoctonear)",
		Parse:   interactive.ParseBalance,
		Format:  stringer[types.Balance],
		Action: func(amount types.Balance) transaction.Action {
			return transaction.Transfer{Deposit: amount}
		},
		Derive: func(_ types.Balance, in layers.AccountContext) layers.ConnectedContext {
			return in.ConnectedContext
		},
		Next: newSign,
	}
)

// deleteAccountAction sends the remaining balance of the deleted account to the beneficiary
// selected by its parent layer.
type deleteAccountAction struct {
	child interactive.Node[layers.ConnectedContext]
}

func (d *deleteAccountAction) Parse(env *interactive.Env, args []string) error {
	return d.child.Parse(env, args)
}

func (d *deleteAccountAction) Resolve(ctx context.Context, env *interactive.Env, in layers.AccountContext) error {
	return d.child.Resolve(ctx, env, in.ConnectedContext)
}

func (d *deleteAccountAction) Tokens() []string {
	return d.child.Tokens()
}

func (d *deleteAccountAction) Process(ctx context.Context, env *interactive.Env, in layers.AccountContext, tx transaction.Unsigned) error {
	return d.child.Process(ctx, env, in.ConnectedContext, tx.Extend(transaction.DeleteAccount{BeneficiaryID: in.AccountID}))
}
