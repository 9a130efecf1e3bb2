package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/near/near-cli-go/interactive"
	"github.com/near/near-cli-go/layers"
	"github.com/near/near-cli-go/transaction"
	"github.com/near/near-cli-go/types"
)

// DefaultCallGas is the gas attached to function calls unless given.
const DefaultCallGas = 100 * types.TeraGas

var (
	call = layers.OperationMode(func() interactive.Node[layers.ConnectedContext] {
		return callSigner.New()
	})

	callSigner = &layers.AccountLayer[layers.ConnectedContext]{
		Keyword: "account",
		Message: "What is the account ID of the signer?",
		Role:    layers.RoleSigner,
		Next:    callContract.New,
	}

	callContract = &layers.AccountLayer[layers.AccountContext]{
		Keyword: "contract",
		Message: "What is the account ID of the contract?",
		Role:    layers.RoleReceiver,
		Next: func() interactive.Node[layers.AccountContext] {
			return &callFunction{child: newSign()}
		},
	}
)

var errEmptyMethodName = errors.New("method name must not be empty")

// callFunction calls a method of the contract selected by its parent layer.
type callFunction struct {
	method  *string
	args    *callArgs
	gas     *types.Gas
	deposit *types.Balance

	parsedMethod  *string
	parsedArgs    *callArgs
	parsedGas     *types.Gas
	parsedDeposit *types.Balance

	child interactive.Node[layers.ConnectedContext]
}

func parseMethodName(_ *interactive.Env, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errEmptyMethodName
	}
	return raw, nil
}

// optional makes an empty answer select the default value.
func optional[T any](def T, parse interactive.Parser[T]) interactive.Parser[T] {
	return func(env *interactive.Env, raw string) (T, error) {
		if strings.TrimSpace(raw) == "" {
			return def, nil
		}
		return parse(env, raw)
	}
}

func (c *callFunction) Parse(env *interactive.Env, args []string) error {
	var gas, deposit string
	fs := interactive.NewFlagSet("call")
	fs.StringVar(&gas, "gas", "", "gas attached to the call")
	fs.StringVar(&deposit, "deposit", "", "amount attached to the call")
	rest, err := interactive.ParseFlags(fs, args)
	if err != nil {
		return err
	}
	if fs.Changed("gas") {
		c.parsedGas = interactive.FromToken(env, &gas, interactive.ParseGas)
	}
	if fs.Changed("deposit") {
		c.parsedDeposit = interactive.FromToken(env, &deposit, interactive.ParseBalance)
	}

	if len(rest) > 0 {
		c.parsedMethod = interactive.FromToken(env, &rest[0], parseMethodName)
		rest = rest[1:]
	}
	if len(rest) > 0 {
		c.parsedArgs = interactive.FromToken(env, &rest[0], parseCallArgs)
		rest = rest[1:]
	}
	return c.child.Parse(env, rest)
}

func (c *callFunction) Resolve(ctx context.Context, env *interactive.Env, in layers.AccountContext) error {
	if c.method == nil {
		method, err := valueOrAsk(env, c.parsedMethod, "Enter a method name", parseMethodName)
		if err != nil {
			return err
		}
		args, err := valueOrAsk(env, c.parsedArgs, "Enter args for function (JSON or YAML)", parseCallArgs)
		if err != nil {
			return err
		}
		gas, err := valueOrAsk(env, c.parsedGas, "Enter gas for function call (default 100 Tgas)",
			optional(types.Gas(DefaultCallGas), interactive.ParseGas))
		if err != nil {
			return err
		}
		deposit, err := valueOrAsk(env, c.parsedDeposit, "Enter deposit for function call (default 0 NEAR)",
			optional(types.Balance{}, interactive.ParseBalance))
		if err != nil {
			return err
		}
		c.method, c.args, c.gas, c.deposit = &method, &args, &gas, &deposit
		c.parsedMethod, c.parsedArgs, c.parsedGas, c.parsedDeposit = nil, nil, nil, nil
	}
	return c.child.Resolve(ctx, env, in.ConnectedContext)
}

func (c *callFunction) Tokens() []string {
	return interactive.Prepend(c.child.Tokens(),
		"--gas", c.gas.String(),
		"--deposit", c.deposit.String(),
		*c.method,
		c.args.String(),
	)
}

func (c *callFunction) Process(ctx context.Context, env *interactive.Env, in layers.AccountContext, tx transaction.Unsigned) error {
	action := transaction.FunctionCall{
		MethodName: *c.method,
		Args:       c.args.json,
		Gas:        *c.gas,
		Deposit:    *c.deposit,
	}
	return c.child.Process(ctx, env, in.ConnectedContext, tx.Extend(action))
}
