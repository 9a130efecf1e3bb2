package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/near/near-cli-go/config"
	"github.com/near/near-cli-go/interactive"
	"github.com/near/near-cli-go/types"
	"github.com/near/near-cli-go/wallet"
	walletFile "github.com/near/near-cli-go/wallet/file"
)

// Keychain loads signing wallets from the configured wallets.
type Keychain struct {
	Config *config.Config
	Out    io.Writer
}

// Load implements interactive.Keychain.
func (k *Keychain) Load(p interactive.Prompter, account types.AccountID) (wallet.Wallet, error) {
	names := k.Config.Wallets.FindByAccount(account)
	if len(names) == 0 {
		return nil, fmt.Errorf("no wallet holds a key of account %s (see 'wallet import')", account)
	}

	name := names[0]
	if len(names) > 1 {
		options := make([]string, 0, len(names))
		for _, n := range names {
			options = append(options, fmt.Sprintf("%s (%s)", n, k.Config.Wallets.All[n].PublicKey))
		}
		idx, err := p.Select(fmt.Sprintf("Select the wallet to sign for %s with", account), options)
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(names) {
			return nil, fmt.Errorf("%w: selection %d out of range", interactive.ErrInput, idx)
		}
		name = names[idx]
	}

	return LoadWallet(p, k.Out, k.Config, name)
}

// Save implements interactive.Keychain. The key is stored in a new passphrase protected file
// wallet named after the account and the configuration is written back.
func (k *Keychain) Save(p interactive.Prompter, account types.AccountID, key types.SecretKey) (string, error) {
	base := strings.ReplaceAll(string(account), ".", "-")
	name := base
	for i := 2; ; i++ {
		if _, exists := k.Config.Wallets.All[name]; !exists {
			break
		}
		name = fmt.Sprintf("%s-%d", base, i)
	}

	if key.Type != types.KeyTypeED25519 {
		return "", fmt.Errorf("unsupported key type: %s", key.Type)
	}

	fmt.Fprintf(k.Out, "Protect the key of %s stored in wallet '%s'.\n", account, name)
	passphrase, err := AskNewPassphrase(p)
	if err != nil {
		return "", err
	}

	nw := &config.Wallet{
		Kind:      walletFile.Kind,
		AccountID: string(account),
		Config:    map[string]interface{}{"algorithm": wallet.AlgorithmEd25519Raw},
	}
	src := &wallet.ImportSource{Kind: wallet.ImportKindPrivateKey, Data: key.UnsafeString()}
	if err = k.Config.Wallets.Import(name, passphrase, nw, src); err != nil {
		return "", err
	}
	if err = k.Config.Save(); err != nil {
		return "", fmt.Errorf("failed to save configuration: %w", err)
	}
	return name, nil
}

// LoadWallet loads the named wallet, asking for its passphrase when needed.
func LoadWallet(p interactive.Prompter, out io.Writer, cfg *config.Config, name string) (wallet.Wallet, error) {
	// Early check for whether the wallet exists so that we don't ask for passphrase first.
	wcfg, exists := cfg.Wallets.All[name]
	if !exists {
		return nil, fmt.Errorf("wallet '%s' does not exist", name)
	}

	wf, err := wcfg.LoadFactory()
	if err != nil {
		return nil, err
	}

	var passphrase string
	if wf.RequiresPassphrase() {
		fmt.Fprintf(out, "Unlock your wallet '%s'.\n", name)
		if passphrase, err = p.Password(PromptPassphrase); err != nil {
			return nil, err
		}
	}

	return cfg.Wallets.Load(name, passphrase)
}
