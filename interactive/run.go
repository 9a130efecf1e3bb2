package interactive

import (
	"context"

	shellquote "github.com/kballard/go-shellquote"

	"github.com/near/near-cli-go/transaction"
)

// Run parses the tokens into the tree, resolves it and processes it. Once the tree is resolved
// the equivalent console command is printed, whether processing succeeded or not.
func Run(ctx context.Context, env *Env, root Node[struct{}], args []string) error {
	if err := root.Parse(env, args); err != nil {
		return err
	}
	if err := root.Resolve(ctx, env, struct{}{}); err != nil {
		return err
	}

	err := root.Process(ctx, env, struct{}{}, transaction.Unsigned{})

	tokens := append([]string{env.Program}, root.Tokens()...)
	env.Printf("Your console command:\n%s\n", shellquote.Join(tokens...))

	return err
}
