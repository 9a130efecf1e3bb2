package rpc

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/near/near-cli-go/types"
)

// AccountView is the state of an account.
type AccountView struct {
	Amount        types.Balance    `json:"amount"`
	Locked        types.Balance    `json:"locked"`
	CodeHash      types.CryptoHash `json:"code_hash"`
	StorageUsage  uint64           `json:"storage_usage"`
	StoragePaidAt uint64           `json:"storage_paid_at"`
	BlockHeight   uint64           `json:"block_height"`
	BlockHash     types.CryptoHash `json:"block_hash"`
}

// HasContract returns true iff a contract is deployed on the account.
func (a *AccountView) HasContract() bool {
	return !a.CodeHash.IsEmpty()
}

// ContractCodeView is the contract code deployed on an account.
type ContractCodeView struct {
	CodeBase64  string           `json:"code_base64"`
	Hash        types.CryptoHash `json:"hash"`
	BlockHeight uint64           `json:"block_height"`
	BlockHash   types.CryptoHash `json:"block_hash"`
}

// Code returns the decoded contract code.
func (c *ContractCodeView) Code() ([]byte, error) {
	code, err := base64.StdEncoding.DecodeString(c.CodeBase64)
	if err != nil {
		return nil, fmt.Errorf("malformed contract code: %w", err)
	}
	return code, nil
}

// AccessKeyView is the state of an access key.
type AccessKeyView struct {
	Nonce       uint64                  `json:"nonce"`
	Permission  AccessKeyPermissionView `json:"permission"`
	BlockHeight uint64                  `json:"block_height"`
	BlockHash   types.CryptoHash        `json:"block_hash"`
}

// AccessKeyPermissionView is the permission of an access key.
type AccessKeyPermissionView struct {
	FullAccess   bool
	FunctionCall *FunctionCallPermissionView
}

// FunctionCallPermissionView is a function call access key permission.
type FunctionCallPermissionView struct {
	Allowance   *types.Balance `json:"allowance"`
	ReceiverID  string         `json:"receiver_id"`
	MethodNames []string       `json:"method_names"`
}

// UnmarshalJSON decodes either the "FullAccess" string or a function call permission object.
func (p *AccessKeyPermissionView) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		if name != "FullAccess" {
			return fmt.Errorf("unknown access key permission '%s'", name)
		}
		*p = AccessKeyPermissionView{FullAccess: true}
		return nil
	}

	var obj struct {
		FunctionCall *FunctionCallPermissionView `json:"FunctionCall"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	if obj.FunctionCall == nil {
		return fmt.Errorf("malformed access key permission")
	}
	*p = AccessKeyPermissionView{FunctionCall: obj.FunctionCall}
	return nil
}

// String returns a human readable description of the permission.
func (p AccessKeyPermissionView) String() string {
	if p.FullAccess || p.FunctionCall == nil {
		return "full access"
	}
	fc := p.FunctionCall
	methods := "any method"
	if len(fc.MethodNames) > 0 {
		methods = strings.Join(fc.MethodNames, ", ")
	}
	allowance := "unlimited"
	if fc.Allowance != nil {
		allowance = fc.Allowance.String()
	}
	return fmt.Sprintf("%s (%s), allowance %s", fc.ReceiverID, methods, allowance)
}

// AccessKeyList is the list of access keys of an account.
type AccessKeyList struct {
	Keys        []AccessKeyInfo  `json:"keys"`
	BlockHeight uint64           `json:"block_height"`
	BlockHash   types.CryptoHash `json:"block_hash"`
}

// AccessKeyInfo is an access key together with its public key.
type AccessKeyInfo struct {
	PublicKey types.PublicKey `json:"public_key"`
	AccessKey AccessKeyView   `json:"access_key"`
}

// ExecutionStatus is the status of a transaction or receipt execution.
type ExecutionStatus struct {
	// SuccessValue is the base64 encoded return value on success.
	SuccessValue *string
	// SuccessReceiptID is the receipt the execution continues with on success.
	SuccessReceiptID *types.CryptoHash
	// Failure is the raw failure description.
	Failure json.RawMessage
	// Other is the name of a status without payload (e.g. "NotStarted", "Unknown").
	Other string
}

// UnmarshalJSON decodes an execution status.
func (s *ExecutionStatus) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*s = ExecutionStatus{Other: name}
		return nil
	}

	var obj struct {
		SuccessValue     *string           `json:"SuccessValue"`
		SuccessReceiptID *types.CryptoHash `json:"SuccessReceiptId"`
		Failure          json.RawMessage   `json:"Failure"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*s = ExecutionStatus{
		SuccessValue:     obj.SuccessValue,
		SuccessReceiptID: obj.SuccessReceiptID,
		Failure:          obj.Failure,
	}
	return nil
}

// IsSuccess returns true iff the execution succeeded.
func (s ExecutionStatus) IsSuccess() bool {
	return s.SuccessValue != nil || s.SuccessReceiptID != nil
}

// IsFailure returns true iff the execution failed.
func (s ExecutionStatus) IsFailure() bool {
	return len(s.Failure) > 0
}

// String returns a human readable description of the status.
func (s ExecutionStatus) String() string {
	switch {
	case s.SuccessValue != nil:
		value, err := base64.StdEncoding.DecodeString(*s.SuccessValue)
		if err != nil || len(value) == 0 {
			return "success"
		}
		return fmt.Sprintf("success, returned %s", value)
	case s.SuccessReceiptID != nil:
		return fmt.Sprintf("success, continued in receipt %s", s.SuccessReceiptID)
	case s.IsFailure():
		return fmt.Sprintf("failure: %s", s.Failure)
	default:
		return s.Other
	}
}

// ExecutionOutcome is the outcome of a transaction or receipt execution.
type ExecutionOutcome struct {
	Logs        []string           `json:"logs"`
	ReceiptIDs  []types.CryptoHash `json:"receipt_ids"`
	GasBurnt    types.Gas          `json:"gas_burnt"`
	TokensBurnt types.Balance      `json:"tokens_burnt"`
	ExecutorID  string             `json:"executor_id"`
	Status      ExecutionStatus    `json:"status"`
}

// ExecutionOutcomeWithID is an execution outcome together with its identifier.
type ExecutionOutcomeWithID struct {
	ID        types.CryptoHash `json:"id"`
	BlockHash types.CryptoHash `json:"block_hash"`
	Outcome   ExecutionOutcome `json:"outcome"`
}

// TransactionView is a transaction as reported by the node.
type TransactionView struct {
	SignerID   string           `json:"signer_id"`
	PublicKey  string           `json:"public_key"`
	Nonce      uint64           `json:"nonce"`
	ReceiverID string           `json:"receiver_id"`
	Hash       types.CryptoHash `json:"hash"`
}

// FinalExecutionOutcome is the final outcome of a transaction and all receipts it produced.
type FinalExecutionOutcome struct {
	Status             ExecutionStatus          `json:"status"`
	Transaction        TransactionView          `json:"transaction"`
	TransactionOutcome ExecutionOutcomeWithID   `json:"transaction_outcome"`
	ReceiptsOutcome    []ExecutionOutcomeWithID `json:"receipts_outcome"`
}

// TotalGasBurnt returns the gas burnt by the transaction and all of its receipts.
func (o *FinalExecutionOutcome) TotalGasBurnt() types.Gas {
	total := o.TransactionOutcome.Outcome.GasBurnt
	for _, r := range o.ReceiptsOutcome {
		total += r.Outcome.GasBurnt
	}
	return total
}

// Logs returns the logs emitted by all receipts.
func (o *FinalExecutionOutcome) Logs() []string {
	var logs []string
	for _, r := range o.ReceiptsOutcome {
		for _, l := range r.Outcome.Logs {
			logs = append(logs, fmt.Sprintf("%s: %s", r.Outcome.ExecutorID, l))
		}
	}
	return logs
}

// BlockView is a block as reported by the node.
type BlockView struct {
	Author string            `json:"author"`
	Header BlockHeaderView   `json:"header"`
	Chunks []ChunkHeaderView `json:"chunks"`
}

// BlockHeaderView is a block header.
type BlockHeaderView struct {
	Height         uint64           `json:"height"`
	EpochID        types.CryptoHash `json:"epoch_id"`
	Hash           types.CryptoHash `json:"hash"`
	PrevHash       types.CryptoHash `json:"prev_hash"`
	Timestamp      uint64           `json:"timestamp"`
	GasPrice       types.Balance    `json:"gas_price"`
	TotalSupply    types.Balance    `json:"total_supply"`
	ChunksIncluded uint64           `json:"chunks_included"`
}

// Time returns the block timestamp.
func (h *BlockHeaderView) Time() time.Time {
	return time.Unix(0, int64(h.Timestamp)).UTC()
}

// ChunkHeaderView is a chunk header.
type ChunkHeaderView struct {
	ChunkHash types.CryptoHash `json:"chunk_hash"`
	ShardID   uint64           `json:"shard_id"`
	GasUsed   types.Gas        `json:"gas_used"`
	GasLimit  types.Gas        `json:"gas_limit"`
}

// StatusView is the node status.
type StatusView struct {
	ChainID  string       `json:"chain_id"`
	Version  NodeVersion  `json:"version"`
	SyncInfo SyncInfoView `json:"sync_info"`
}

// NodeVersion is the version of the node software.
type NodeVersion struct {
	Version string `json:"version"`
	Build   string `json:"build"`
}

// SyncInfoView is the synchronization state of the node.
type SyncInfoView struct {
	LatestBlockHash   types.CryptoHash `json:"latest_block_hash"`
	LatestBlockHeight uint64           `json:"latest_block_height"`
	LatestBlockTime   string           `json:"latest_block_time"`
	Syncing           bool             `json:"syncing"`
}
