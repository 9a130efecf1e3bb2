package wallet

import (
	"fmt"
	"sync"

	"github.com/AlecAivazis/survey/v2"
	flag "github.com/spf13/pflag"

	"github.com/near/near-cli-go/types"
)

var registeredFactories sync.Map

const (
	// AlgorithmEd25519Bip44 is the Ed25519 algorithm using SLIP-10 derivation along the
	// m/44'/397'/N' path.
	AlgorithmEd25519Bip44 = "ed25519-bip44"
	// AlgorithmEd25519Raw is the Ed25519 algorithm using raw secret keys.
	AlgorithmEd25519Raw = "ed25519-raw"
	// AlgorithmSecp256k1Raw is the Secp256k1 algorithm using raw secret keys.
	AlgorithmSecp256k1Raw = "secp256k1-raw"
)

// Factory is a factory that supports wallets of a specific kind.
type Factory interface {
	// Kind returns the kind of wallets this factory will produce.
	Kind() string

	// PrettyKind returns human-friendly kind of wallets this factory will produce.
	PrettyKind(cfg map[string]interface{}) string

	// Flags returns the CLI flags that can be used for configuring this wallet factory.
	Flags() *flag.FlagSet

	// GetConfigFromFlags generates wallet configuration from flags.
	GetConfigFromFlags() (map[string]interface{}, error)

	// GetConfigFromSurvey generates wallet configuration from survey answers.
	GetConfigFromSurvey(kind *ImportKind) (map[string]interface{}, error)

	// DataPrompt returns a survey prompt for entering data when importing the wallet.
	DataPrompt(kind ImportKind, cfg map[string]interface{}) survey.Prompt

	// DataValidator returns a survey data input validator used when importing the wallet.
	DataValidator(kind ImportKind, cfg map[string]interface{}) survey.Validator

	// RequiresPassphrase returns true if the wallet requires a passphrase.
	RequiresPassphrase() bool

	// SupportedImportKinds returns the import kinds supported by this wallet.
	SupportedImportKinds() []ImportKind

	// Create creates a new wallet.
	Create(name string, passphrase string, cfg map[string]interface{}) (Wallet, error)

	// Load loads an existing wallet.
	Load(name string, passphrase string, cfg map[string]interface{}) (Wallet, error)

	// Remove removes an existing wallet.
	Remove(name string, cfg map[string]interface{}) error

	// Rename renames an existing wallet.
	Rename(old, new string, cfg map[string]interface{}) error

	// Import creates a new wallet from imported key material.
	Import(name string, passphrase string, cfg map[string]interface{}, src *ImportSource) (Wallet, error)
}

// ImportKind is a wallet import kind.
type ImportKind string

// Supported import kinds.
const (
	ImportKindMnemonic   ImportKind = "mnemonic"
	ImportKindPrivateKey ImportKind = "secret key"
)

// UnmarshalText decodes a text marshalled import kind.
func (k *ImportKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case string(ImportKindMnemonic):
		*k = ImportKindMnemonic
	case string(ImportKindPrivateKey):
		*k = ImportKindPrivateKey
	default:
		return fmt.Errorf("unknown import kind: %s", string(text))
	}
	return nil
}

// ImportSource is a source of imported wallet key material.
type ImportSource struct {
	Kind ImportKind
	Data string
}

// Wallet is a key pair holder able to sign transactions.
type Wallet interface {
	// PublicKey returns the public key of the wallet.
	PublicKey() types.PublicKey

	// Sign signs the given message with the wallet key.
	Sign(message []byte) (types.Signature, error)

	// UnsafeExport exports the wallet's secret state.
	UnsafeExport() string
}

// Register registers a new wallet type.
func Register(wf Factory) {
	if _, loaded := registeredFactories.LoadOrStore(wf.Kind(), wf); loaded {
		panic(fmt.Sprintf("wallet: kind '%s' is already registered", wf.Kind()))
	}
}

// Load loads a previously registered wallet factory.
func Load(kind string) (Factory, error) {
	wf, loaded := registeredFactories.Load(kind)
	if !loaded {
		return nil, fmt.Errorf("wallet: kind '%s' not available", kind)
	}
	return wf.(Factory), nil
}

// AvailableKinds returns all of the available wallet factories.
func AvailableKinds() []Factory {
	var kinds []Factory
	registeredFactories.Range(func(key, value interface{}) bool {
		kinds = append(kinds, value.(Factory))
		return true
	})
	return kinds
}

// ParseAlgorithm validates an algorithm name.
func ParseAlgorithm(name string) (string, error) {
	switch name {
	case AlgorithmEd25519Bip44, AlgorithmEd25519Raw, AlgorithmSecp256k1Raw:
		return name, nil
	default:
		return "", fmt.Errorf("wallet: unknown algorithm '%s'", name)
	}
}

// ImportKinds returns all of the available wallet import kinds.
func ImportKinds() []string {
	return []string{
		string(ImportKindMnemonic),
		string(ImportKindPrivateKey),
	}
}
