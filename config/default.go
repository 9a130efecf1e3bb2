package config

import (
	"time"

	"github.com/near/near-cli-go/logging"
)

// DefaultNetworks is the default configuration of the well-known networks.
var DefaultNetworks = Networks{
	All: map[string]*Network{
		NetworkTestnet: {
			Description: "Testnet",
			RPC:         "https://rpc.testnet.near.org",
			Explorer:    "https://explorer.testnet.near.org",
			Wallet:      "https://wallet.testnet.near.org",
		},
		NetworkMainnet: {
			Description: "Mainnet",
			RPC:         "https://rpc.mainnet.near.org",
			Explorer:    "https://explorer.near.org",
			Wallet:      "https://wallet.near.org",
		},
		NetworkBetanet: {
			Description: "Betanet",
			RPC:         "https://rpc.betanet.near.org",
			Explorer:    "https://explorer.betanet.near.org",
			Wallet:      "https://wallet.betanet.near.org",
		},
	},
}

// Default is the default config that should be used in case no configuration file exists.
var Default = Config{
	Networks: DefaultNetworks,
	Broadcast: Broadcast{
		RetryDelay: 100 * time.Millisecond,
	},
	Log: Log{
		Level: logging.DefaultLevel.String(),
	},
}
