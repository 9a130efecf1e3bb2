package layers

import (
	"context"

	"github.com/near/near-cli-go/config"
	"github.com/near/near-cli-go/interactive"
	"github.com/near/near-cli-go/network"
	"github.com/near/near-cli-go/transaction"
)

// OperationMode returns the menu of operation modes in front of the server selection. Only the
// online mode exists, so it is selected without asking.
func OperationMode(next func() interactive.Node[ConnectedContext]) *interactive.Menu[struct{}] {
	servers := SelectServer(next)
	return &interactive.Menu[struct{}]{
		Title: "Choose the mode of operation",
		Choices: []interactive.Choice[struct{}]{
			{
				Tag:     "network",
				Message: "Execute the command with online mode",
				New: func() interactive.Node[struct{}] {
					return &online{servers: servers.Switch()}
				},
			},
		},
	}
}

// online adapts the server selection to the context of the operation mode.
type online struct {
	servers *interactive.Switch[NetworkContext]
}

func (o *online) Parse(env *interactive.Env, args []string) error {
	return o.servers.Parse(env, args)
}

func (o *online) Resolve(ctx context.Context, env *interactive.Env, in struct{}) error {
	return o.servers.Resolve(ctx, env, DeriveNetwork(in))
}

func (o *online) Tokens() []string {
	return o.servers.Tokens()
}

func (o *online) Process(ctx context.Context, env *interactive.Env, in struct{}, tx transaction.Unsigned) error {
	return o.servers.Process(ctx, env, DeriveNetwork(in), tx)
}

// SelectServer returns the menu selecting the server, followed by the node returned by next.
func SelectServer(next func() interactive.Node[ConnectedContext]) *interactive.Menu[NetworkContext] {
	wellKnown := func(tag string) func() interactive.Node[NetworkContext] {
		return func() interactive.Node[NetworkContext] {
			return &server{tag: tag, child: next()}
		}
	}
	return &interactive.Menu[NetworkContext]{
		Title: "Select NEAR protocol RPC server",
		Choices: []interactive.Choice[NetworkContext]{
			{Tag: config.NetworkTestnet, Message: "Testnet", New: wellKnown(config.NetworkTestnet)},
			{Tag: config.NetworkMainnet, Message: "Mainnet", New: wellKnown(config.NetworkMainnet)},
			{Tag: config.NetworkBetanet, Message: "Betanet", New: wellKnown(config.NetworkBetanet)},
			{Tag: network.TagCustom, Message: "Custom", New: func() interactive.Node[NetworkContext] {
				return &customServer{child: next()}
			}},
		},
	}
}

// server is a well-known server. It has no tokens of its own.
type server struct {
	tag   string
	child interactive.Node[ConnectedContext]
}

func (s *server) Parse(env *interactive.Env, args []string) error {
	return s.child.Parse(env, args)
}

func (s *server) Resolve(ctx context.Context, env *interactive.Env, in NetworkContext) error {
	return s.child.Resolve(ctx, env, DeriveConnected(s.tag, in))
}

func (s *server) Tokens() []string {
	return s.child.Tokens()
}

func (s *server) Process(ctx context.Context, env *interactive.Env, in NetworkContext, tx transaction.Unsigned) error {
	return s.child.Process(ctx, env, DeriveConnected(s.tag, in), tx)
}

// customServer is a server given by its URL.
type customServer struct {
	url    *string
	parsed *string
	child  interactive.Node[ConnectedContext]
}

func (s *customServer) Parse(env *interactive.Env, args []string) error {
	var raw string
	fs := interactive.NewFlagSet("custom")
	fs.StringVar(&raw, "url", "", "RPC endpoint URL")
	rest, err := interactive.ParseFlags(fs, args)
	if err != nil {
		return err
	}
	if fs.Changed("url") {
		s.parsed = interactive.FromToken(env, &raw, interactive.ParseURL)
	}
	return s.child.Parse(env, rest)
}

func (s *customServer) Resolve(ctx context.Context, env *interactive.Env, in NetworkContext) error {
	if s.url == nil {
		url := s.parsed
		if url == nil {
			value, err := interactive.Ask(env, "What is the RPC endpoint?", interactive.ParseURL)
			if err != nil {
				return err
			}
			url = &value
		}
		s.url, s.parsed = url, nil
	}
	return s.child.Resolve(ctx, env, DeriveCustom(*s.url, in))
}

func (s *customServer) Tokens() []string {
	return interactive.Prepend(s.child.Tokens(), "--url", *s.url)
}

func (s *customServer) Process(ctx context.Context, env *interactive.Env, in NetworkContext, tx transaction.Unsigned) error {
	return s.child.Process(ctx, env, DeriveCustom(*s.url, in), tx)
}
