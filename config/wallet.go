package config

import (
	"fmt"
	"sort"

	"github.com/near/near-cli-go/types"
	"github.com/near/near-cli-go/wallet"
)

// Wallets contains the configuration of wallets.
type Wallets struct {
	// Default is the name of the default wallet.
	Default string `mapstructure:"default"`

	// All is a map of all configured wallets.
	All map[string]*Wallet `mapstructure:",remain"`
}

// Validate performs config validation.
func (w *Wallets) Validate() error {
	// Make sure the default wallet actually exists.
	if _, exists := w.All[w.Default]; w.Default != "" && !exists {
		return fmt.Errorf("default wallet '%s' does not exist", w.Default)
	}

	// Make sure all wallets are valid.
	for name, wallet := range w.All {
		if err := ValidateIdentifier(name); err != nil {
			return fmt.Errorf("malformed wallet name '%s': %w", name, err)
		}

		if err := wallet.Validate(); err != nil {
			return fmt.Errorf("wallet '%s': %w", name, err)
		}
	}

	return nil
}

func (w *Wallets) add(name string, nw *Wallet, wl wallet.Wallet) {
	// Store the public key so we don't need to load the wallet to see it.
	nw.PublicKey = wl.PublicKey().String()

	if w.All == nil {
		w.All = make(map[string]*Wallet)
	}
	w.All[name] = nw

	// Set default if not set.
	if w.Default == "" {
		w.Default = name
	}
}

func (w *Wallets) checkNew(name string, nw *Wallet) error {
	if _, exists := w.All[name]; exists {
		return fmt.Errorf("wallet '%s' already exists", name)
	}
	if err := ValidateIdentifier(name); err != nil {
		return fmt.Errorf("malformed wallet name '%s': %w", name, err)
	}
	if _, err := types.ParseAccountID(nw.AccountID); err != nil {
		return err
	}
	return nil
}

// Create creates a new wallet.
func (w *Wallets) Create(name string, passphrase string, nw *Wallet) error {
	if err := w.checkNew(name, nw); err != nil {
		return err
	}

	wf, err := wallet.Load(nw.Kind)
	if err != nil {
		return err
	}
	wl, err := wf.Create(name, passphrase, nw.Config)
	if err != nil {
		return err
	}

	w.add(name, nw, wl)
	return nil
}

// Load loads the given wallet.
func (w *Wallets) Load(name string, passphrase string) (wallet.Wallet, error) {
	cfg, exists := w.All[name]
	if !exists {
		return nil, fmt.Errorf("wallet '%s' does not exist", name)
	}

	wf, err := wallet.Load(cfg.Kind)
	if err != nil {
		return nil, err
	}

	wl, err := wf.Load(name, passphrase, cfg.Config)
	if err != nil {
		return nil, err
	}

	// Make sure the public key matches what we have in the config.
	if expected, actual := cfg.GetPublicKey(), wl.PublicKey(); !actual.Equal(expected) {
		return nil, fmt.Errorf("public key mismatch after loading wallet (expected: %s got: %s)",
			expected,
			actual,
		)
	}

	return wl, nil
}

// Remove removes the given wallet.
func (w *Wallets) Remove(name string) error {
	cfg, exists := w.All[name]
	if !exists {
		return fmt.Errorf("wallet '%s' does not exist", name)
	}

	wf, err := wallet.Load(cfg.Kind)
	if err != nil {
		return err
	}

	if err := wf.Remove(name, cfg.Config); err != nil {
		return err
	}

	delete(w.All, name)

	// Clear default if set to this wallet.
	if w.Default == name {
		w.Default = ""
	}

	return nil
}

// Rename renames an existing wallet.
func (w *Wallets) Rename(old, new string) error {
	cfg, exists := w.All[old]
	if !exists {
		return fmt.Errorf("wallet '%s' does not exist", old)
	}

	if _, exists = w.All[new]; exists {
		return fmt.Errorf("wallet '%s' already exists", new)
	}

	if err := ValidateIdentifier(new); err != nil {
		return fmt.Errorf("malformed new wallet name '%s': %w", new, err)
	}

	wf, err := wallet.Load(cfg.Kind)
	if err != nil {
		return err
	}

	if err := wf.Rename(old, new, cfg.Config); err != nil {
		return err
	}

	w.All[new] = cfg
	delete(w.All, old)

	if w.Default == old {
		w.Default = new
	}

	return nil
}

// Import imports an existing wallet.
func (w *Wallets) Import(name string, passphrase string, nw *Wallet, src *wallet.ImportSource) error {
	if err := w.checkNew(name, nw); err != nil {
		return err
	}

	wf, err := wallet.Load(nw.Kind)
	if err != nil {
		return err
	}
	wl, err := wf.Import(name, passphrase, nw.Config, src)
	if err != nil {
		return err
	}

	w.add(name, nw, wl)
	return nil
}

// SetDefault sets the given wallet as the default wallet.
func (w *Wallets) SetDefault(name string) error {
	if _, exists := w.All[name]; !exists {
		return fmt.Errorf("wallet '%s' does not exist", name)
	}

	w.Default = name

	return nil
}

// FindByAccount returns the sorted names of the wallets holding keys of the given account.
// The default wallet, when it matches, comes first.
func (w *Wallets) FindByAccount(id types.AccountID) []string {
	var names []string
	for name, wl := range w.All {
		if types.AccountID(wl.AccountID) == id {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		switch w.Default {
		case names[i]:
			return true
		case names[j]:
			return false
		default:
			return names[i] < names[j]
		}
	})
	return names
}

// Wallet is a wallet configuration object.
type Wallet struct {
	Description string `mapstructure:"description"`
	Kind        string `mapstructure:"kind"`
	AccountID   string `mapstructure:"account_id"`
	PublicKey   string `mapstructure:"public_key"`

	// Config contains kind-specific configuration for this wallet.
	Config map[string]interface{} `mapstructure:",remain"`
}

// Validate performs config validation.
func (w *Wallet) Validate() error {
	// Check if given wallet kind is supported.
	if _, err := wallet.Load(w.Kind); err != nil {
		return fmt.Errorf("kind '%s' is not supported", w.Kind)
	}

	if _, err := types.ParseAccountID(w.AccountID); err != nil {
		return err
	}

	// Check that the public key is valid.
	if _, err := types.ParsePublicKey(w.PublicKey); err != nil {
		return fmt.Errorf("malformed public key '%s': %w", w.PublicKey, err)
	}

	return nil
}

// GetPublicKey returns the parsed wallet public key.
func (w *Wallet) GetPublicKey() types.PublicKey {
	pk, err := types.ParsePublicKey(w.PublicKey)
	if err != nil {
		panic(err)
	}
	return pk
}

// SetConfigFromFlags populates the kind-specific configuration from CLI flags.
func (w *Wallet) SetConfigFromFlags() error {
	wf, err := wallet.Load(w.Kind)
	if err != nil {
		return fmt.Errorf("kind '%s' is not supported", w.Kind)
	}

	cfg, err := wf.GetConfigFromFlags()
	if err != nil {
		return err
	}

	w.Config = cfg
	return nil
}

// LoadFactory loads the wallet factory corresponding to this wallet's kind.
func (w *Wallet) LoadFactory() (wallet.Factory, error) {
	return wallet.Load(w.Kind)
}
