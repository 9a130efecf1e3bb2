package commands

import (
	"context"

	"github.com/near/near-cli-go/interactive"
	"github.com/near/near-cli-go/transaction"
)

// param describes a positional value layer. Action, when set, appends the action built from the
// value to the transaction.
type param[In, T, Out any] struct {
	Message string
	Parse   interactive.Parser[T]
	Format  func(T) string
	Action  func(T) transaction.Action
	Derive  func(T, In) Out
	Next    func() interactive.Node[Out]
}

// New creates an unresolved node of the layer.
func (p *param[In, T, Out]) New() interactive.Node[In] {
	return &paramNode[In, T, Out]{def: p, child: p.Next()}
}

type paramNode[In, T, Out any] struct {
	def    *param[In, T, Out]
	value  *T
	parsed *T
	child  interactive.Node[Out]
}

func (n *paramNode[In, T, Out]) Parse(env *interactive.Env, args []string) error {
	if len(args) == 0 {
		return nil
	}
	n.parsed = interactive.FromToken(env, &args[0], n.def.Parse)
	return n.child.Parse(env, args[1:])
}

func (n *paramNode[In, T, Out]) Resolve(ctx context.Context, env *interactive.Env, in In) error {
	if n.value == nil {
		value := n.parsed
		if value == nil {
			v, err := interactive.Ask(env, n.def.Message, n.def.Parse)
			if err != nil {
				return err
			}
			value = &v
		}
		n.value, n.parsed = value, nil
	}
	return n.child.Resolve(ctx, env, n.def.Derive(*n.value, in))
}

func (n *paramNode[In, T, Out]) Tokens() []string {
	return interactive.Prepend(n.child.Tokens(), n.def.Format(*n.value))
}

func (n *paramNode[In, T, Out]) Process(ctx context.Context, env *interactive.Env, in In, tx transaction.Unsigned) error {
	if n.def.Action != nil {
		tx = tx.Extend(n.def.Action(*n.value))
	}
	return n.child.Process(ctx, env, n.def.Derive(*n.value, in), tx)
}

func stringer[T interface{ String() string }](v T) string {
	return v.String()
}
