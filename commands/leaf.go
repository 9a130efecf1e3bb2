package commands

import (
	"context"

	"github.com/near/near-cli-go/interactive"
	"github.com/near/near-cli-go/transaction"
)

// query is a terminal operation reading from the network. It has no tokens of its own.
type query[C any] struct {
	Run func(ctx context.Context, env *interactive.Env, in C) error
}

// New creates the node of the query.
func (q *query[C]) New() interactive.Node[C] {
	return &queryNode[C]{def: q}
}

type queryNode[C any] struct {
	def *query[C]
}

func (n *queryNode[C]) Parse(_ *interactive.Env, args []string) error {
	return interactive.ExpectEnd(args)
}

func (n *queryNode[C]) Resolve(context.Context, *interactive.Env, C) error {
	return nil
}

func (n *queryNode[C]) Tokens() []string {
	return nil
}

func (n *queryNode[C]) Process(ctx context.Context, env *interactive.Env, in C, _ transaction.Unsigned) error {
	return n.def.Run(ctx, env, in)
}
