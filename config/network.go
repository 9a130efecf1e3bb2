package config

import (
	"fmt"
	"net/url"
)

// Names of the well-known networks.
const (
	NetworkTestnet = "testnet"
	NetworkMainnet = "mainnet"
	NetworkBetanet = "betanet"
)

// WellKnownNetworks returns the names of all well-known networks.
func WellKnownNetworks() []string {
	return []string{NetworkTestnet, NetworkMainnet, NetworkBetanet}
}

func isWellKnownNetwork(name string) bool {
	for _, wk := range WellKnownNetworks() {
		if wk == name {
			return true
		}
	}
	return false
}

// Networks contains the endpoint configuration of the well-known networks.
type Networks struct {
	// All is a map of all configured networks.
	All map[string]*Network `mapstructure:",remain"`
}

// Validate performs config validation.
func (n *Networks) Validate() error {
	for name, net := range n.All {
		if !isWellKnownNetwork(name) {
			return fmt.Errorf("unknown network '%s'", name)
		}

		if err := net.Validate(); err != nil {
			return fmt.Errorf("network '%s': %w", name, err)
		}
	}

	return nil
}

// Get returns the configuration of the given network. Networks missing from the configuration
// fall back to the defaults.
func (n *Networks) Get(name string) (*Network, error) {
	if net, exists := n.All[name]; exists {
		return net, nil
	}
	if net, exists := DefaultNetworks.All[name]; exists {
		return net, nil
	}
	return nil, fmt.Errorf("network '%s' does not exist", name)
}

// SetRPC overrides the RPC endpoint of the given network.
func (n *Networks) SetRPC(name, rpc string) error {
	current, err := n.Get(name)
	if err != nil {
		return err
	}

	net := *current
	net.RPC = rpc
	if err = net.Validate(); err != nil {
		return err
	}

	n.put(name, &net)

	return nil
}

// put stores a network without mutating a map possibly shared with the defaults.
func (n *Networks) put(name string, net *Network) {
	all := make(map[string]*Network, len(n.All)+1)
	for k, v := range n.All {
		all[k] = v
	}
	all[name] = net
	n.All = all
}

// Reset restores the default configuration of the given network.
func (n *Networks) Reset(name string) error {
	def, exists := DefaultNetworks.All[name]
	if !exists {
		return fmt.Errorf("network '%s' does not exist", name)
	}

	net := *def
	n.put(name, &net)

	return nil
}

// Network contains the configuration parameters of a network.
type Network struct {
	Description string `mapstructure:"description"`
	RPC         string `mapstructure:"rpc"`
	Explorer    string `mapstructure:"explorer"`
	Wallet      string `mapstructure:"wallet"`
}

// Validate performs config validation.
func (n *Network) Validate() error {
	if err := ValidateURL(n.RPC); err != nil {
		return fmt.Errorf("malformed RPC endpoint: %w", err)
	}
	if n.Explorer != "" {
		if err := ValidateURL(n.Explorer); err != nil {
			return fmt.Errorf("malformed explorer URL: %w", err)
		}
	}
	if n.Wallet != "" {
		if err := ValidateURL(n.Wallet); err != nil {
			return fmt.Errorf("malformed wallet URL: %w", err)
		}
	}
	return nil
}

// ValidateURL makes sure the given string is an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("URL '%s' must use the http or https scheme", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL '%s' is missing the host", raw)
	}
	return nil
}
