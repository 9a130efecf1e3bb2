package commands

import (
	"context"
	"strings"

	"github.com/near/near-cli-go/interactive"
	"github.com/near/near-cli-go/layers"
	"github.com/near/near-cli-go/transaction"
)

// SignedContext is received by the broadcast of an already signed transaction.
type SignedContext struct {
	layers.ConnectedContext

	Transaction *transaction.Signed
}

var (
	utilsMenu = &interactive.Menu[struct{}]{
		Title: "Choose a utility",
		Choices: []interactive.Choice[struct{}]{
			{
				Tag:     "send-signed-transaction",
				Message: "Send a signed transaction",
				New:     group(sendSignedTransaction),
			},
		},
	}

	sendSignedTransaction = layers.OperationMode(signedPayload.New)

	signedPayload = &param[layers.ConnectedContext, signedTransaction, SignedContext]{
		Message: "Enter the signed transaction hash you want to send",
		Parse:   parseSignedTransaction,
		Format:  func(s signedTransaction) string { return s.raw },
		Derive: func(s signedTransaction, in layers.ConnectedContext) SignedContext {
			return SignedContext{ConnectedContext: in, Transaction: s.tx}
		},
		Next: sendSigned.New,
	}

	sendSigned = &query[SignedContext]{Run: sendSignedRun}
)

// signedTransaction is a base64 encoded signed transaction with its decoding.
type signedTransaction struct {
	raw string
	tx  *transaction.Signed
}

func parseSignedTransaction(_ *interactive.Env, raw string) (signedTransaction, error) {
	raw = strings.TrimSpace(raw)
	tx, err := transaction.ParseSignedBase64(raw)
	if err != nil {
		return signedTransaction{}, err
	}
	if err := tx.Verify(); err != nil {
		return signedTransaction{}, err
	}
	return signedTransaction{raw: raw, tx: tx}, nil
}

func sendSignedRun(ctx context.Context, env *interactive.Env, in SignedContext) error {
	client, err := env.Network.Connect(ctx, in.Connection())
	if err != nil {
		return err
	}
	defer client.Close()

	transaction.PrintTransaction(env.Out, in.Transaction.Transaction)
	return broadcast(ctx, env, in.ConnectedContext, client, in.Transaction)
}
