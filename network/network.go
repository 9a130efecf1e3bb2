// Package network resolves the connection configuration selected by the user into endpoints.
package network

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/near/near-cli-go/config"
	"github.com/near/near-cli-go/rpc"
)

// TagCustom is the server selection tag of user supplied endpoints.
const TagCustom = "custom"

// ConnectionConfig identifies the node an invocation talks to. It is either one of the
// well-known networks or a custom endpoint URL.
//
// The zero value selects nothing and fails to resolve.
type ConnectionConfig struct {
	network string
	url     string
	custom  bool
}

// WellKnown returns the connection configuration of a well-known network.
//
// Custom endpoints carry their own URL and never map to a fixed endpoint, so passing the custom
// tag (or any unknown name) is a programming error and panics.
func WellKnown(name string) ConnectionConfig {
	for _, wk := range config.WellKnownNetworks() {
		if wk == name {
			return ConnectionConfig{network: name}
		}
	}
	panic(fmt.Sprintf("network: '%s' is not a well-known network", name))
}

// Custom returns the connection configuration of a custom endpoint.
func Custom(url string) ConnectionConfig {
	return ConnectionConfig{url: url, custom: true}
}

// IsCustom returns true iff the configuration points at a custom endpoint.
func (cc ConnectionConfig) IsCustom() bool {
	return cc.custom
}

// IsZero returns true iff no network was selected.
func (cc ConnectionConfig) IsZero() bool {
	return cc == ConnectionConfig{}
}

// Name returns the network name, or the custom tag for custom endpoints.
func (cc ConnectionConfig) Name() string {
	if cc.IsCustom() {
		return TagCustom
	}
	return cc.network
}

// String returns a human readable description of the configuration.
func (cc ConnectionConfig) String() string {
	if cc.IsCustom() {
		return fmt.Sprintf("%s (%s)", TagCustom, cc.url)
	}
	return cc.network
}

// Endpoint is a resolved node endpoint.
type Endpoint struct {
	// RPC is the JSON-RPC URL of the node.
	RPC string
	// Explorer is the base URL of the block explorer, empty when unknown.
	Explorer string
	// Wallet is the base URL of the web wallet, empty when unknown.
	Wallet string
}

// Resolve looks up the endpoint of the configuration. Well-known networks honour RPC overrides
// from the configuration.
func (cc ConnectionConfig) Resolve(nets *config.Networks) (Endpoint, error) {
	if cc.IsZero() {
		return Endpoint{}, fmt.Errorf("no network selected")
	}
	if cc.IsCustom() {
		if cc.url == "" {
			return Endpoint{}, fmt.Errorf("custom network has no RPC URL")
		}
		if err := config.ValidateURL(cc.url); err != nil {
			return Endpoint{}, err
		}
		return Endpoint{RPC: cc.url}, nil
	}

	net, err := nets.Get(cc.network)
	if err != nil {
		return Endpoint{}, err
	}
	return Endpoint{RPC: net.RPC, Explorer: net.Explorer, Wallet: net.Wallet}, nil
}

// Connector opens clients for connection configurations.
type Connector interface {
	// Connect opens a client for the given configuration.
	Connect(ctx context.Context, cc ConnectionConfig) (rpc.Client, error)
}

// Dialer is a Connector that dials JSON-RPC endpoints.
type Dialer struct {
	Networks *config.Networks
	Logger   *slog.Logger
}

// NewDialer creates a new dialer resolving endpoints from the given network configuration.
func NewDialer(nets *config.Networks, logger *slog.Logger) *Dialer {
	return &Dialer{Networks: nets, Logger: logger}
}

// Connect implements Connector.
func (d *Dialer) Connect(ctx context.Context, cc ConnectionConfig) (rpc.Client, error) {
	ep, err := cc.Resolve(d.Networks)
	if err != nil {
		return nil, err
	}
	d.Logger.Debug("connecting", "network", cc.Name(), "endpoint", ep.RPC)
	conn, err := rpc.Dial(ctx, ep.RPC, d.Logger)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
