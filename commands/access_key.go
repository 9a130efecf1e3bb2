package commands

import (
	"context"
	"strings"

	"github.com/near/near-cli-go/interactive"
	"github.com/near/near-cli-go/layers"
	"github.com/near/near-cli-go/transaction"
	"github.com/near/near-cli-go/types"
)

const (
	unlimited  = "unlimited"
	anyMethod  = "*"
	methodsSep = ","
)

// AddKeyContext is received by the permission layer of add access-key.
type AddKeyContext struct {
	layers.ConnectedContext

	AccountID types.AccountID
	PublicKey types.PublicKey
}

var (
	addKeyPublicKey = &param[layers.AccountContext, types.PublicKey, AddKeyContext]{
		Message: "Enter a public key for this access key",
		Parse:   interactive.ParsePublicKey,
		Format:  stringer[types.PublicKey],
		Derive: func(pk types.PublicKey, in layers.AccountContext) AddKeyContext {
			return AddKeyContext{ConnectedContext: in.ConnectedContext, AccountID: in.AccountID, PublicKey: pk}
		},
		Next: func() interactive.Node[AddKeyContext] { return permissionMenu.Switch() },
	}

	permissionMenu = &interactive.Menu[AddKeyContext]{
		Title: "Select a permission that you want to add to the access key",
		Choices: []interactive.Choice[AddKeyContext]{
			{
				Tag:     "grant-full-access",
				Message: "A permission with full access",
				New:     func() interactive.Node[AddKeyContext] { return &fullAccess{child: newSign()} },
			},
			{
				Tag:     "grant-function-call-access",
				Message: "A permission with function call",
				New:     func() interactive.Node[AddKeyContext] { return &functionCallAccess{child: newSign()} },
			},
		},
	}

	addAccessKey = layers.OperationMode(func() interactive.Node[layers.ConnectedContext] {
		return addKeyAccount.New()
	})

	addKeyAccount = &layers.AccountLayer[layers.ConnectedContext]{
		Keyword: "account",
		Message: "What account do you want to add an access key to?",
		Role:    layers.RoleSignerAndReceiver,
		Next:    addKeyPublicKey.New,
	}

	deleteAccessKey = layers.OperationMode(func() interactive.Node[layers.ConnectedContext] {
		return deleteKeyAccount.New()
	})

	deleteKeyAccount = &layers.AccountLayer[layers.ConnectedContext]{
		Keyword: "account",
		Message: "Which account should you delete the access key for?",
		Role:    layers.RoleSignerAndReceiver,
		Next:    deleteKeyPublicKey.New,
	}

	deleteKeyPublicKey = &param[layers.AccountContext, types.PublicKey, layers.ConnectedContext]{
		Message: "Enter the access key to remove it",
		Parse:   interactive.ParsePublicKey,
		Format:  stringer[types.PublicKey],
		Action: func(pk types.PublicKey) transaction.Action {
			return transaction.DeleteKey{PublicKey: pk}
		},
		Derive: func(_ types.PublicKey, in layers.AccountContext) layers.ConnectedContext {
			return in.ConnectedContext
		},
		Next: newSign,
	}
)

func addKey(in AddKeyContext, permission transaction.AccessKeyPermission) transaction.Action {
	return transaction.AddKey{
		PublicKey: in.PublicKey,
		AccessKey: transaction.AccessKey{Nonce: 0, Permission: permission},
	}
}

// fullAccess grants the new key full access. It has no tokens of its own.
type fullAccess struct {
	child interactive.Node[layers.ConnectedContext]
}

func (f *fullAccess) Parse(env *interactive.Env, args []string) error {
	return f.child.Parse(env, args)
}

func (f *fullAccess) Resolve(ctx context.Context, env *interactive.Env, in AddKeyContext) error {
	return f.child.Resolve(ctx, env, in.ConnectedContext)
}

func (f *fullAccess) Tokens() []string {
	return f.child.Tokens()
}

func (f *fullAccess) Process(ctx context.Context, env *interactive.Env, in AddKeyContext, tx transaction.Unsigned) error {
	return f.child.Process(ctx, env, in.ConnectedContext, tx.Extend(addKey(in, transaction.FullAccess())))
}

// functionCallAccess restricts the new key to calling methods of a single contract.
type functionCallAccess struct {
	receiver  *types.AccountID
	allowance *allowance
	methods   *methodNames

	parsedReceiver  *types.AccountID
	parsedAllowance *allowance
	parsedMethods   *methodNames

	child interactive.Node[layers.ConnectedContext]
}

// allowance is an optional amount, nil meaning unlimited.
type allowance struct {
	amount *types.Balance
}

func parseAllowance(env *interactive.Env, raw string) (allowance, error) {
	if strings.EqualFold(strings.TrimSpace(raw), unlimited) {
		return allowance{}, nil
	}
	b, err := interactive.ParseBalance(env, raw)
	if err != nil {
		return allowance{}, err
	}
	return allowance{amount: &b}, nil
}

func (a allowance) String() string {
	if a.amount == nil {
		return unlimited
	}
	return a.amount.String()
}

// methodNames is a method list, empty meaning any method.
type methodNames struct {
	names []string
}

func parseMethodNames(_ *interactive.Env, raw string) (methodNames, error) {
	raw = strings.TrimSpace(raw)
	if raw == anyMethod || raw == "" {
		return methodNames{}, nil
	}
	var names []string
	for _, n := range strings.Split(raw, methodsSep) {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return methodNames{names: names}, nil
}

func (m methodNames) String() string {
	if len(m.names) == 0 {
		return anyMethod
	}
	return strings.Join(m.names, methodsSep)
}

func (f *functionCallAccess) Parse(env *interactive.Env, args []string) error {
	var receiver, amount, methods string
	fs := interactive.NewFlagSet("grant-function-call-access")
	fs.StringVar(&receiver, "receiver-account-id", "", "contract the key may call")
	fs.StringVar(&amount, "allowance", "", "amount the key may spend on gas, or 'unlimited'")
	fs.StringVar(&methods, "method-names", "", "comma separated method names, or '*' for any")
	rest, err := interactive.ParseFlags(fs, args)
	if err != nil {
		return err
	}
	if fs.Changed("receiver-account-id") {
		f.parsedReceiver = interactive.FromToken(env, &receiver, interactive.ParseAccountID)
	}
	if fs.Changed("allowance") {
		f.parsedAllowance = interactive.FromToken(env, &amount, parseAllowance)
	}
	if fs.Changed("method-names") {
		f.parsedMethods = interactive.FromToken(env, &methods, parseMethodNames)
	}
	return f.child.Parse(env, rest)
}

func (f *functionCallAccess) Resolve(ctx context.Context, env *interactive.Env, in AddKeyContext) error {
	if f.receiver == nil {
		receiver, err := valueOrAsk(env, f.parsedReceiver, "Enter a receiver to use by this access key to pay for function call gas and transaction fees", interactive.ParseAccountID)
		if err != nil {
			return err
		}
		amount, err := valueOrAsk(env, f.parsedAllowance, "Enter an allowance which is a balance limit to use by this access key (or 'unlimited')", parseAllowance)
		if err != nil {
			return err
		}
		methods, err := valueOrAsk(env, f.parsedMethods, "Enter the method names that can be used, separated by commas (or '*' for any)", parseMethodNames)
		if err != nil {
			return err
		}
		f.receiver, f.allowance, f.methods = &receiver, &amount, &methods
		f.parsedReceiver, f.parsedAllowance, f.parsedMethods = nil, nil, nil
	}
	return f.child.Resolve(ctx, env, in.ConnectedContext)
}

func (f *functionCallAccess) Tokens() []string {
	return interactive.Prepend(f.child.Tokens(),
		"--receiver-account-id", f.receiver.String(),
		"--allowance", f.allowance.String(),
		"--method-names", f.methods.String(),
	)
}

func (f *functionCallAccess) Process(ctx context.Context, env *interactive.Env, in AddKeyContext, tx transaction.Unsigned) error {
	permission := transaction.AccessKeyPermission{
		FunctionCall: &transaction.FunctionCallPermission{
			Allowance:   f.allowance.amount,
			ReceiverID:  *f.receiver,
			MethodNames: f.methods.names,
		},
	}
	return f.child.Process(ctx, env, in.ConnectedContext, tx.Extend(addKey(in, permission)))
}

// valueOrAsk returns the parsed value, or asks for one when there is none.
func valueOrAsk[T any](env *interactive.Env, parsed *T, message string, parse interactive.Parser[T]) (T, error) {
	if parsed != nil {
		return *parsed, nil
	}
	return interactive.Ask(env, message, parse)
}
