package file

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mitchellh/mapstructure"
	flag "github.com/spf13/pflag"
	bip39 "github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/argon2"

	"github.com/oasisprotocol/deoxysii"

	"github.com/near/near-cli-go/config"
	"github.com/near/near-cli-go/types"
	"github.com/near/near-cli-go/wallet"
)

const (
	// Kind is the account kind for the file-backed accounts.
	Kind = "file"

	cfgAlgorithm = "file.algorithm"
	cfgNumber    = "file.number"

	stateKeySize   = 32
	stateNonceSize = 32
	kdfSaltSize    = 32
)

// SupportedAlgorithmsForImport returns the algorithms supported by the given import kind.
func SupportedAlgorithmsForImport(kind *wallet.ImportKind) []string {
	if kind == nil {
		return []string{wallet.AlgorithmEd25519Bip44, wallet.AlgorithmEd25519Raw, wallet.AlgorithmSecp256k1Raw}
	}

	switch *kind {
	case wallet.ImportKindMnemonic:
		return []string{wallet.AlgorithmEd25519Bip44}
	case wallet.ImportKindPrivateKey:
		return []string{wallet.AlgorithmEd25519Raw, wallet.AlgorithmSecp256k1Raw}
	default:
		return []string{}
	}
}

type accountConfig struct {
	Algorithm string `mapstructure:"algorithm"`
	Number    uint32 `mapstructure:"number,omitempty"`
}

type secretState struct {
	// Algorithm is the cryptographic algorithm used by the account.
	Algorithm string `json:"algorithm"`

	// Data is the secret data used to derive the private key.
	Data string `json:"data"`
}

func (s *secretState) Seal(passphrase string) (*secretStateEnvelope, error) {
	var nonce [stateNonceSize]byte
	_, err := rand.Read(nonce[:])
	if err != nil {
		return nil, err
	}

	var salt [kdfSaltSize]byte
	_, err = rand.Read(salt[:])
	if err != nil {
		return nil, err
	}

	envelope := &secretStateEnvelope{
		KDF: secretStateKDF{
			Argon2: &kdfArgon2{
				Salt:    salt[:],
				Time:    1,
				Memory:  64 * 1024,
				Threads: 4,
			},
		},
		Nonce: nonce[:],
	}
	key, err := envelope.deriveKey(passphrase)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}

	// Initialize a Deoxys-II instance with the provided key and encrypt.
	aead, err := deoxysii.New(key)
	if err != nil {
		return nil, err
	}
	envelope.Data = aead.Seal(nil, envelope.Nonce[:aead.NonceSize()], data, nil)

	return envelope, nil
}

type secretStateEnvelope struct {
	KDF   secretStateKDF `json:"kdf"`
	Nonce []byte         `json:"nonce"`
	Data  []byte         `json:"data"`
}

type secretStateKDF struct {
	Argon2 *kdfArgon2 `json:"argon2,omitempty"`
}

type kdfArgon2 struct {
	Salt    []byte `json:"salt"`
	Time    uint32 `json:"time"`
	Memory  uint32 `json:"memory"`
	Threads uint8  `json:"threads"`
}

func (k *kdfArgon2) deriveKey(passphrase string) ([]byte, error) {
	return argon2.IDKey([]byte(passphrase), k.Salt, k.Time, k.Memory, k.Threads, stateKeySize), nil
}

func (e *secretStateEnvelope) deriveKey(passphrase string) ([]byte, error) {
	switch {
	case e.KDF.Argon2 != nil:
		return e.KDF.Argon2.deriveKey(passphrase)
	default:
		return nil, fmt.Errorf("unsupported key derivation algorithm")
	}
}

func (e *secretStateEnvelope) Open(passphrase string) (*secretState, error) {
	// Derive key.
	key, err := e.deriveKey(passphrase)
	if err != nil {
		return nil, err
	}

	// Initialize a Deoxys-II instance with the provided key and decrypt.
	aead, err := deoxysii.New(key)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, e.Nonce[:aead.NonceSize()], e.Data, nil)
	if err != nil {
		return nil, err
	}

	// Deserialize the inner state.
	var state secretState
	if err := json.Unmarshal(pt, &state); err != nil {
		return nil, err
	}

	return &state, nil
}

// walletDirectory returns the directory holding the sealed wallet files.
var walletDirectory = config.Directory

func getAccountFilename(name string) string {
	return filepath.Join(walletDirectory(), fmt.Sprintf("%s.wallet", name))
}

func writeEnvelope(name string, state *secretState, passphrase string) error {
	envelope, err := state.Seal(passphrase)
	if err != nil {
		return fmt.Errorf("failed to seal state: %w", err)
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	if err = os.MkdirAll(walletDirectory(), 0o700); err != nil {
		return fmt.Errorf("failed to create wallet directory: %w", err)
	}
	if err = os.WriteFile(getAccountFilename(name), raw, 0o600); err != nil {
		return fmt.Errorf("failed to save state: %w", err)
	}
	return nil
}

type fileAccountFactory struct {
	flags *flag.FlagSet
}

func (af *fileAccountFactory) Kind() string {
	return Kind
}

func (af *fileAccountFactory) PrettyKind(rawCfg map[string]interface{}) string {
	cfg, err := af.unmarshalConfig(rawCfg)
	if err != nil {
		return ""
	}

	// In case of BIP44 show the keypair number.
	var number string
	if cfg.Algorithm == wallet.AlgorithmEd25519Bip44 {
		number = fmt.Sprintf(":%d", cfg.Number)
	}
	return fmt.Sprintf("%s (%s%s)", Kind, cfg.Algorithm, number)
}

func (af *fileAccountFactory) Flags() *flag.FlagSet {
	return af.flags
}

func (af *fileAccountFactory) GetConfigFromFlags() (map[string]interface{}, error) {
	cfg := make(map[string]interface{})
	cfg["algorithm"], _ = af.flags.GetString(cfgAlgorithm)
	cfg["number"], _ = af.flags.GetUint32(cfgNumber)
	return cfg, nil
}

func (af *fileAccountFactory) GetConfigFromSurvey(kind *wallet.ImportKind) (map[string]interface{}, error) {
	// Ask for import details.
	var answers struct {
		Algorithm string
		Number    uint32
	}
	questions := []*survey.Question{
		{
			Name: "algorithm",
			Prompt: &survey.Select{
				Message: "Algorithm:",
				Options: SupportedAlgorithmsForImport(kind),
			},
		},
	}
	if kind != nil && *kind == wallet.ImportKindMnemonic {
		questions = append(questions, &survey.Question{
			Name: "number",
			Prompt: &survey.Input{
				Message: "Key number:",
				Default: "0",
			},
		})
	}
	err := survey.Ask(questions, &answers)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"algorithm": answers.Algorithm,
		"number":    answers.Number,
	}, nil
}

func (af *fileAccountFactory) DataPrompt(kind wallet.ImportKind, rawCfg map[string]interface{}) survey.Prompt {
	switch kind {
	case wallet.ImportKindMnemonic:
		return &survey.Multiline{Message: "Mnemonic:"}
	case wallet.ImportKindPrivateKey:
		cfg, err := af.unmarshalConfig(rawCfg)
		if err != nil {
			return nil
		}
		switch cfg.Algorithm {
		case wallet.AlgorithmEd25519Raw:
			return &survey.Password{Message: "Secret key (ed25519:<base58>):"}
		case wallet.AlgorithmSecp256k1Raw:
			return &survey.Password{Message: "Secret key (hex-encoded):"}
		default:
			return nil
		}
	default:
		return nil
	}
}

func (af *fileAccountFactory) DataValidator(kind wallet.ImportKind, rawCfg map[string]interface{}) survey.Validator {
	return func(ans interface{}) error {
		text, _ := ans.(string)
		switch kind {
		case wallet.ImportKindMnemonic:
			if !bip39.IsMnemonicValid(normalizeMnemonic(text)) {
				return fmt.Errorf("invalid mnemonic")
			}
		case wallet.ImportKindPrivateKey:
			cfg, err := af.unmarshalConfig(rawCfg)
			if err != nil {
				return nil
			}
			switch cfg.Algorithm {
			case wallet.AlgorithmEd25519Raw:
				if _, err = Ed25519FromText(text); err != nil {
					return err
				}
			case wallet.AlgorithmSecp256k1Raw:
				if _, err = Secp256k1FromHex(text); err != nil {
					return fmt.Errorf("secret key must be hex-encoded: %w", err)
				}
			default:
				return fmt.Errorf("unsupported algorithm for %s: %s", wallet.ImportKindPrivateKey, cfg.Algorithm)
			}
		default:
			return fmt.Errorf("unsupported import kind: %s", kind)
		}
		return nil
	}
}

func (af *fileAccountFactory) RequiresPassphrase() bool {
	// A file-backed account always requires a passphrase.
	return true
}

func (af *fileAccountFactory) SupportedImportKinds() []wallet.ImportKind {
	return []wallet.ImportKind{
		wallet.ImportKindMnemonic,
		wallet.ImportKindPrivateKey,
	}
}

func (af *fileAccountFactory) unmarshalConfig(raw map[string]interface{}) (*accountConfig, error) {
	if raw == nil {
		return nil, fmt.Errorf("missing configuration")
	}

	var cfg accountConfig
	if err := mapstructure.WeakDecode(raw, &cfg); err != nil {
		return nil, err
	}
	if _, err := wallet.ParseAlgorithm(cfg.Algorithm); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (af *fileAccountFactory) Create(name string, passphrase string, rawCfg map[string]interface{}) (wallet.Wallet, error) {
	cfg, err := af.unmarshalConfig(rawCfg)
	if err != nil {
		return nil, err
	}

	state := &secretState{
		Algorithm: cfg.Algorithm,
	}
	switch cfg.Algorithm {
	case wallet.AlgorithmEd25519Bip44:
		// Generate a fresh mnemonic.
		entropy, err := bip39.NewEntropy(256)
		if err != nil {
			return nil, err
		}
		if state.Data, err = bip39.NewMnemonic(entropy); err != nil {
			return nil, err
		}
	case wallet.AlgorithmEd25519Raw:
		var seed [32]byte
		if _, err = rand.Read(seed[:]); err != nil {
			return nil, err
		}
		sk, err := types.NewEd25519SecretKeyFromSeed(seed[:])
		if err != nil {
			return nil, err
		}
		state.Data = sk.UnsafeString()
	case wallet.AlgorithmSecp256k1Raw:
		if state.Data, err = generateSecp256k1Hex(); err != nil {
			return nil, err
		}
	}

	acc, err := newAccount(state, cfg)
	if err != nil {
		return nil, err
	}
	if err = writeEnvelope(name, state, passphrase); err != nil {
		return nil, err
	}
	return acc, nil
}

func (af *fileAccountFactory) Load(name string, passphrase string, rawCfg map[string]interface{}) (wallet.Wallet, error) {
	cfg, err := af.unmarshalConfig(rawCfg)
	if err != nil {
		return nil, err
	}

	// Load state from encrypted file.
	raw, err := os.ReadFile(getAccountFilename(name))
	if err != nil {
		return nil, fmt.Errorf("failed to load account state: %w", err)
	}

	var envelope secretStateEnvelope
	if err = json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("failed to load account state: %w", err)
	}

	var state *secretState
	if state, err = envelope.Open(passphrase); err != nil {
		return nil, fmt.Errorf("failed to open account state (maybe incorrect passphrase?)")
	}

	return newAccount(state, cfg)
}

func (af *fileAccountFactory) Remove(name string, rawCfg map[string]interface{}) error {
	return os.Remove(getAccountFilename(name))
}

func (af *fileAccountFactory) Rename(old, new string, rawCfg map[string]interface{}) error {
	return os.Rename(getAccountFilename(old), getAccountFilename(new))
}

func (af *fileAccountFactory) Import(name string, passphrase string, rawCfg map[string]interface{}, src *wallet.ImportSource) (wallet.Wallet, error) {
	cfg, err := af.unmarshalConfig(rawCfg)
	if err != nil {
		return nil, err
	}

	// Validate compatibility of algorithm and import source.
	switch src.Kind {
	case wallet.ImportKindMnemonic:
		if cfg.Algorithm != wallet.AlgorithmEd25519Bip44 {
			return nil, fmt.Errorf("algorithm '%s' does not support import from mnemonic", cfg.Algorithm)
		}
	case wallet.ImportKindPrivateKey:
		switch cfg.Algorithm {
		case wallet.AlgorithmEd25519Raw, wallet.AlgorithmSecp256k1Raw:
		default:
			return nil, fmt.Errorf("algorithm '%s' does not support import from secret key", cfg.Algorithm)
		}
	default:
		return nil, fmt.Errorf("unsupported import kind: %s", src.Kind)
	}

	data := src.Data
	if src.Kind == wallet.ImportKindMnemonic {
		data = normalizeMnemonic(data)
	}
	state := secretState{
		Algorithm: cfg.Algorithm,
		Data:      data,
	}

	// Create a proper account based on the chosen algorithm.
	acc, err := newAccount(&state, cfg)
	if err != nil {
		return nil, err
	}
	if err = writeEnvelope(name, &state, passphrase); err != nil {
		return nil, err
	}
	return acc, nil
}

type fileAccount struct {
	cfg   *accountConfig
	state *secretState
	key   types.SecretKey
}

func newAccount(state *secretState, cfg *accountConfig) (wallet.Wallet, error) {
	var (
		key types.SecretKey
		err error
	)
	switch state.Algorithm {
	case wallet.AlgorithmEd25519Bip44:
		key, err = Ed25519FromMnemonic(state.Data, cfg.Number)
	case wallet.AlgorithmEd25519Raw:
		key, err = Ed25519FromText(state.Data)
	case wallet.AlgorithmSecp256k1Raw:
		key, err = Secp256k1FromHex(state.Data)
	default:
		return nil, fmt.Errorf("algorithm '%s' not supported", state.Algorithm)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signer: %w", err)
	}

	return &fileAccount{
		cfg:   cfg,
		state: state,
		key:   key,
	}, nil
}

func (a *fileAccount) PublicKey() types.PublicKey {
	return a.key.PublicKey()
}

func (a *fileAccount) Sign(message []byte) (types.Signature, error) {
	return a.key.Sign(message)
}

func (a *fileAccount) UnsafeExport() string {
	return a.state.Data
}

func init() {
	flags := flag.NewFlagSet("", flag.ContinueOnError)
	flags.String(cfgAlgorithm, wallet.AlgorithmEd25519Bip44, fmt.Sprintf("Cryptographic algorithm to use for this wallet [%s, %s, %s]", wallet.AlgorithmEd25519Bip44, wallet.AlgorithmEd25519Raw, wallet.AlgorithmSecp256k1Raw))
	flags.Uint32(cfgNumber, 0, "Key number to use in the key derivation scheme")

	wallet.Register(&fileAccountFactory{
		flags: flags,
	})
}
