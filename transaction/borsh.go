package transaction

import (
	"bytes"
	"fmt"

	"github.com/near/borsh-go"

	"github.com/near/near-cli-go/types"
)

// Wire layouts of the borsh encoding. Complex enums select the field following the tag.

type wireKey struct {
	Enum      borsh.Enum `borsh_enum:"true"`
	ED25519   [32]byte
	SECP256K1 [64]byte
}

type wireSignature struct {
	Enum      borsh.Enum `borsh_enum:"true"`
	ED25519   [64]byte
	SECP256K1 [65]byte
}

type wireTransaction struct {
	SignerID   string
	PublicKey  wireKey
	Nonce      uint64
	ReceiverID string
	BlockHash  types.CryptoHash
	Actions    []wireAction
}

type wireSigned struct {
	Transaction wireTransaction
	Signature   wireSignature
}

type wireAction struct {
	Enum           borsh.Enum `borsh_enum:"true"`
	CreateAccount  struct{}
	DeployContract wireDeployContract
	FunctionCall   wireFunctionCall
	Transfer       wireTransfer
	Stake          wireStake
	AddKey         wireAddKey
	DeleteKey      wireDeleteKey
	DeleteAccount  wireDeleteAccount
}

type wireDeployContract struct {
	Code []byte
}

type wireFunctionCall struct {
	MethodName string
	Args       []byte
	Gas        types.Gas
	Deposit    types.Balance
}

type wireTransfer struct {
	Deposit types.Balance
}

type wireStake struct {
	Stake     types.Balance
	PublicKey wireKey
}

type wireAddKey struct {
	PublicKey wireKey
	AccessKey wireAccessKey
}

type wireAccessKey struct {
	Nonce      uint64
	Permission wirePermission
}

type wirePermission struct {
	Enum         borsh.Enum `borsh_enum:"true"`
	FunctionCall wireFunctionCallPermission
	FullAccess   struct{}
}

const (
	permissionFunctionCall borsh.Enum = iota
	permissionFullAccess
)

type wireFunctionCallPermission struct {
	Allowance   *types.Balance
	ReceiverID  string
	MethodNames []string
}

type wireDeleteKey struct {
	PublicKey wireKey
}

type wireDeleteAccount struct {
	BeneficiaryID string
}

func toWireKey(pk types.PublicKey) wireKey {
	w := wireKey{Enum: borsh.Enum(pk.Type)}
	switch pk.Type {
	case types.KeyTypeED25519:
		copy(w.ED25519[:], pk.Data)
	case types.KeyTypeSECP256K1:
		copy(w.SECP256K1[:], pk.Data)
	}
	return w
}

func (w wireKey) publicKey() (types.PublicKey, error) {
	switch kt := types.KeyType(w.Enum); kt {
	case types.KeyTypeED25519:
		return types.NewPublicKey(kt, w.ED25519[:])
	case types.KeyTypeSECP256K1:
		return types.NewPublicKey(kt, w.SECP256K1[:])
	default:
		return types.PublicKey{}, fmt.Errorf("unknown key type: %d", uint8(w.Enum))
	}
}

func toWireSignature(sig types.Signature) wireSignature {
	w := wireSignature{Enum: borsh.Enum(sig.Type)}
	switch sig.Type {
	case types.KeyTypeED25519:
		copy(w.ED25519[:], sig.Data)
	case types.KeyTypeSECP256K1:
		copy(w.SECP256K1[:], sig.Data)
	}
	return w
}

func (w wireSignature) signature() (types.Signature, error) {
	switch kt := types.KeyType(w.Enum); kt {
	case types.KeyTypeED25519:
		return types.NewSignature(kt, w.ED25519[:])
	case types.KeyTypeSECP256K1:
		return types.NewSignature(kt, w.SECP256K1[:])
	default:
		return types.Signature{}, fmt.Errorf("unknown key type: %d", uint8(w.Enum))
	}
}

func (tx Unsigned) wire() wireTransaction {
	w := wireTransaction{
		SignerID:   string(tx.SignerID),
		PublicKey:  toWireKey(tx.PublicKey),
		Nonce:      tx.Nonce,
		ReceiverID: string(tx.ReceiverID),
		BlockHash:  tx.BlockHash,
		Actions:    make([]wireAction, 0, len(tx.Actions)),
	}
	for _, a := range tx.Actions {
		w.Actions = append(w.Actions, a.wire())
	}
	return w
}

func (w wireTransaction) unsigned() (Unsigned, error) {
	signer, err := types.ParseAccountID(w.SignerID)
	if err != nil {
		return Unsigned{}, err
	}
	receiver, err := types.ParseAccountID(w.ReceiverID)
	if err != nil {
		return Unsigned{}, err
	}
	pk, err := w.PublicKey.publicKey()
	if err != nil {
		return Unsigned{}, err
	}

	tx := Unsigned{
		SignerID:   signer,
		PublicKey:  pk,
		Nonce:      w.Nonce,
		ReceiverID: receiver,
		BlockHash:  w.BlockHash,
		assigned:   allFields,
	}
	for i, wa := range w.Actions {
		a, err := wa.action()
		if err != nil {
			return Unsigned{}, fmt.Errorf("action %d: %w", i, err)
		}
		tx.Actions = append(tx.Actions, a)
	}
	return tx, nil
}

// decodeCanonical decodes data and rejects encodings that do not serialize back to the same
// bytes, which covers trailing garbage.
func decodeCanonical[T any](data []byte) (T, error) {
	var v T
	if err := borsh.Deserialize(&v, data); err != nil {
		return v, err
	}
	again, err := borsh.Serialize(v)
	if err != nil {
		return v, err
	}
	if !bytes.Equal(again, data) {
		if len(data) > len(again) {
			return v, fmt.Errorf("%d trailing bytes", len(data)-len(again))
		}
		return v, fmt.Errorf("non-canonical encoding")
	}
	return v, nil
}
