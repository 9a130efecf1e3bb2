package interactive

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fatih/color"

	"github.com/near/near-cli-go/config"
	"github.com/near/near-cli-go/network"
	"github.com/near/near-cli-go/types"
	"github.com/near/near-cli-go/wallet"
)

// Keychain loads and stores wallets holding keys of an account.
type Keychain interface {
	// Load returns a wallet able to sign for the given account, asking the user to choose or
	// unlock one when needed.
	Load(p Prompter, account types.AccountID) (wallet.Wallet, error)

	// Save stores the secret key of the given account and returns the name it is stored under.
	Save(p Prompter, account types.AccountID, key types.SecretKey) (string, error)
}

// Env is the ambient environment shared by all nodes of an invocation.
type Env struct {
	// Prompter asks the user for missing values.
	Prompter Prompter
	// Out receives user facing output.
	Out io.Writer
	// Logger receives diagnostics.
	Logger *slog.Logger
	// Network opens node clients.
	Network network.Connector
	// Keychain provides signing wallets.
	Keychain Keychain
	// Config is the loaded configuration.
	Config *config.Config
	// RetryDelay is the delay between broadcast attempts.
	RetryDelay time.Duration
	// Program is the program name used when echoing the console command.
	Program string
	// Rand is the entropy source of generated keys, crypto/rand when nil.
	Rand io.Reader
}

var warnColor = color.New(color.FgYellow)

// Warnf prints a one-time diagnostic to the user.
func (env *Env) Warnf(format string, args ...interface{}) {
	_, _ = warnColor.Fprintf(env.Out, format+"\n", args...)
}

// Printf prints user facing output.
func (env *Env) Printf(format string, args ...interface{}) {
	fmt.Fprintf(env.Out, format, args...)
}

// ResolveAccountName maps address book names to account IDs.
func (env *Env) ResolveAccountName(nameOrID string) string {
	if env.Config == nil {
		return nameOrID
	}
	return env.Config.AddressBook.Resolve(nameOrID)
}

// Entropy returns the entropy source of generated keys.
func (env *Env) Entropy() io.Reader {
	if env.Rand == nil {
		return rand.Reader
	}
	return env.Rand
}

// Endpoint resolves the endpoint of the given connection.
func (env *Env) Endpoint(cc network.ConnectionConfig) (network.Endpoint, error) {
	if env.Config == nil {
		return cc.Resolve(&config.Networks{})
	}
	return cc.Resolve(&env.Config.Networks)
}

// Explorer returns the explorer base URL of the given connection, empty when unknown.
func (env *Env) Explorer(cc network.ConnectionConfig) string {
	if env.Config == nil {
		return ""
	}
	ep, err := env.Endpoint(cc)
	if err != nil {
		return ""
	}
	return ep.Explorer
}
