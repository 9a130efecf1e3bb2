// Package layers implements the layers shared by all command trees: operation mode, server
// selection and account selection.
package layers

import (
	"github.com/near/near-cli-go/network"
	"github.com/near/near-cli-go/types"
)

// NetworkContext is received by the server selection layer.
type NetworkContext struct{}

// ConnectedContext carries the selected connection.
type ConnectedContext struct {
	Config network.ConnectionConfig
}

// Connection returns the selected connection.
func (c ConnectedContext) Connection() network.ConnectionConfig {
	return c.Config
}

// Connected is implemented by all contexts carrying a connection.
type Connected interface {
	Connection() network.ConnectionConfig
}

// AccountContext carries the selected connection and a validated account.
type AccountContext struct {
	ConnectedContext

	AccountID types.AccountID
}

// DeriveNetwork derives the context of the server selection layer.
func DeriveNetwork(struct{}) NetworkContext {
	return NetworkContext{}
}

// DeriveConnected derives the context below a well-known server.
func DeriveConnected(tag string, _ NetworkContext) ConnectedContext {
	return ConnectedContext{Config: network.WellKnown(tag)}
}

// DeriveCustom derives the context below a custom server.
func DeriveCustom(url string, _ NetworkContext) ConnectedContext {
	return ConnectedContext{Config: network.Custom(url)}
}

// DeriveAccount derives the context below an account layer.
func DeriveAccount[In Connected](id types.AccountID, in In) AccountContext {
	return AccountContext{
		ConnectedContext: ConnectedContext{Config: in.Connection()},
		AccountID:        id,
	}
}
