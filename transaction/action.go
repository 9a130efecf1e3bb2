package transaction

import (
	"fmt"
	"strings"

	"github.com/near/borsh-go"

	"github.com/near/near-cli-go/types"
)

const (
	tagCreateAccount borsh.Enum = iota
	tagDeployContract
	tagFunctionCall
	tagTransfer
	tagStake
	tagAddKey
	tagDeleteKey
	tagDeleteAccount
)

// Action is a single operation carried by a transaction.
type Action interface {
	fmt.Stringer

	wire() wireAction
}

// CreateAccount creates the receiver account.
type CreateAccount struct{}

func (CreateAccount) wire() wireAction {
	return wireAction{Enum: tagCreateAccount}
}

func (CreateAccount) String() string {
	return "create account"
}

// DeployContract deploys contract code to the receiver account.
type DeployContract struct {
	Code []byte
}

func (a DeployContract) wire() wireAction {
	return wireAction{Enum: tagDeployContract, DeployContract: wireDeployContract{Code: a.Code}}
}

func (a DeployContract) String() string {
	return fmt.Sprintf("deploy contract (%d bytes)", len(a.Code))
}

// FunctionCall calls a method of the contract deployed on the receiver account.
type FunctionCall struct {
	MethodName string
	Args       []byte
	Gas        types.Gas
	Deposit    types.Balance
}

func (a FunctionCall) wire() wireAction {
	return wireAction{Enum: tagFunctionCall, FunctionCall: wireFunctionCall{
		MethodName: a.MethodName,
		Args:       a.Args,
		Gas:        a.Gas,
		Deposit:    a.Deposit,
	}}
}

func (a FunctionCall) String() string {
	return fmt.Sprintf("function call: %s(%s) gas %s deposit %s", a.MethodName, a.Args, a.Gas, a.Deposit)
}

// Transfer transfers tokens to the receiver account.
type Transfer struct {
	Deposit types.Balance
}

func (a Transfer) wire() wireAction {
	return wireAction{Enum: tagTransfer, Transfer: wireTransfer{Deposit: a.Deposit}}
}

func (a Transfer) String() string {
	return fmt.Sprintf("transfer: %s", a.Deposit)
}

// Stake stakes tokens with the given validator key.
type Stake struct {
	Stake     types.Balance
	PublicKey types.PublicKey
}

func (a Stake) wire() wireAction {
	return wireAction{Enum: tagStake, Stake: wireStake{Stake: a.Stake, PublicKey: toWireKey(a.PublicKey)}}
}

func (a Stake) String() string {
	return fmt.Sprintf("stake: %s with %s", a.Stake, a.PublicKey)
}

// AddKey adds an access key to the receiver account.
type AddKey struct {
	PublicKey types.PublicKey
	AccessKey AccessKey
}

func (a AddKey) wire() wireAction {
	return wireAction{Enum: tagAddKey, AddKey: wireAddKey{
		PublicKey: toWireKey(a.PublicKey),
		AccessKey: wireAccessKey{Nonce: a.AccessKey.Nonce, Permission: a.AccessKey.Permission.wire()},
	}}
}

func (a AddKey) String() string {
	return fmt.Sprintf("add key: %s (%s)", a.PublicKey, a.AccessKey.Permission)
}

// DeleteKey deletes an access key from the receiver account.
type DeleteKey struct {
	PublicKey types.PublicKey
}

func (a DeleteKey) wire() wireAction {
	return wireAction{Enum: tagDeleteKey, DeleteKey: wireDeleteKey{PublicKey: toWireKey(a.PublicKey)}}
}

func (a DeleteKey) String() string {
	return fmt.Sprintf("delete key: %s", a.PublicKey)
}

// DeleteAccount deletes the receiver account, sending the remaining balance to the beneficiary.
type DeleteAccount struct {
	BeneficiaryID types.AccountID
}

func (a DeleteAccount) wire() wireAction {
	return wireAction{Enum: tagDeleteAccount, DeleteAccount: wireDeleteAccount{BeneficiaryID: string(a.BeneficiaryID)}}
}

func (a DeleteAccount) String() string {
	return fmt.Sprintf("delete account, beneficiary: %s", a.BeneficiaryID)
}

// AccessKey is an access key with its nonce and permission.
type AccessKey struct {
	Nonce      uint64
	Permission AccessKeyPermission
}

// AccessKeyPermission is the permission of an access key. A nil FunctionCall grants full access.
type AccessKeyPermission struct {
	FunctionCall *FunctionCallPermission
}

// FullAccess returns the full access permission.
func FullAccess() AccessKeyPermission {
	return AccessKeyPermission{}
}

// IsFullAccess returns true iff the permission grants full access.
func (p AccessKeyPermission) IsFullAccess() bool {
	return p.FunctionCall == nil
}

func (p AccessKeyPermission) wire() wirePermission {
	if p.FunctionCall == nil {
		return wirePermission{Enum: permissionFullAccess}
	}
	fc := p.FunctionCall
	return wirePermission{Enum: permissionFunctionCall, FunctionCall: wireFunctionCallPermission{
		Allowance:   fc.Allowance,
		ReceiverID:  string(fc.ReceiverID),
		MethodNames: fc.MethodNames,
	}}
}

func (p AccessKeyPermission) String() string {
	if p.FunctionCall == nil {
		return "full access"
	}
	fc := p.FunctionCall
	allowance := "unlimited"
	if fc.Allowance != nil {
		allowance = fc.Allowance.String()
	}
	methods := "any method"
	if len(fc.MethodNames) > 0 {
		methods = strings.Join(fc.MethodNames, ", ")
	}
	return fmt.Sprintf("function call access to %s, %s, allowance %s", fc.ReceiverID, methods, allowance)
}

// FunctionCallPermission restricts an access key to calling methods of one contract.
type FunctionCallPermission struct {
	// Allowance is the amount the key may spend on gas, nil means unlimited.
	Allowance   *types.Balance
	ReceiverID  types.AccountID
	MethodNames []string
}

func (w wireAction) action() (Action, error) {
	switch w.Enum {
	case tagCreateAccount:
		return CreateAccount{}, nil
	case tagDeployContract:
		return DeployContract{Code: w.DeployContract.Code}, nil
	case tagFunctionCall:
		fc := w.FunctionCall
		return FunctionCall{MethodName: fc.MethodName, Args: fc.Args, Gas: fc.Gas, Deposit: fc.Deposit}, nil
	case tagTransfer:
		return Transfer{Deposit: w.Transfer.Deposit}, nil
	case tagStake:
		pk, err := w.Stake.PublicKey.publicKey()
		if err != nil {
			return nil, err
		}
		return Stake{Stake: w.Stake.Stake, PublicKey: pk}, nil
	case tagAddKey:
		pk, err := w.AddKey.PublicKey.publicKey()
		if err != nil {
			return nil, err
		}
		perm, err := w.AddKey.AccessKey.Permission.permission()
		if err != nil {
			return nil, err
		}
		return AddKey{PublicKey: pk, AccessKey: AccessKey{Nonce: w.AddKey.AccessKey.Nonce, Permission: perm}}, nil
	case tagDeleteKey:
		pk, err := w.DeleteKey.PublicKey.publicKey()
		if err != nil {
			return nil, err
		}
		return DeleteKey{PublicKey: pk}, nil
	case tagDeleteAccount:
		id, err := types.ParseAccountID(w.DeleteAccount.BeneficiaryID)
		if err != nil {
			return nil, err
		}
		return DeleteAccount{BeneficiaryID: id}, nil
	default:
		return nil, fmt.Errorf("unknown action tag: %d", w.Enum)
	}
}

func (w wirePermission) permission() (AccessKeyPermission, error) {
	switch w.Enum {
	case permissionFunctionCall:
		receiver, err := types.ParseAccountID(w.FunctionCall.ReceiverID)
		if err != nil {
			return AccessKeyPermission{}, err
		}
		return AccessKeyPermission{FunctionCall: &FunctionCallPermission{
			Allowance:   w.FunctionCall.Allowance,
			ReceiverID:  receiver,
			MethodNames: w.FunctionCall.MethodNames,
		}}, nil
	case permissionFullAccess:
		return FullAccess(), nil
	default:
		return AccessKeyPermission{}, fmt.Errorf("unknown access key permission: %d", w.Enum)
	}
}
