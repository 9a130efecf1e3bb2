// Package networktest provides an in-memory node for testing command trees.
package networktest

import (
	"context"
	"encoding/base64"
	"fmt"
	"sync"

	sha256 "github.com/minio/sha256-simd"

	"github.com/near/near-cli-go/network"
	"github.com/near/near-cli-go/rpc"
	"github.com/near/near-cli-go/transaction"
	"github.com/near/near-cli-go/types"
)

// Node is an in-memory rpc.Client and network.Connector.
type Node struct {
	mu sync.Mutex

	// Accounts are the existing accounts.
	Accounts map[types.AccountID]*rpc.AccountView
	// AccessKeys are the access keys per account.
	AccessKeys map[types.AccountID][]rpc.AccessKeyInfo
	// Blocks are the known blocks, the last one being the latest.
	Blocks []*rpc.BlockView
	// Outcomes are the transaction outcomes returned by TxStatus.
	Outcomes map[types.CryptoHash]*rpc.FinalExecutionOutcome
	// BroadcastErrors are returned by the first broadcasts, in order.
	BroadcastErrors []error
	// Codes are the deployed contract codes per account.
	Codes map[types.AccountID][]byte
	// Failure, when set, makes confirmed transactions report an execution failure.
	Failure string
	// FinalityLag is the number of blocks between the head and the final block.
	FinalityLag int

	// Connections records the configurations connected to.
	Connections []network.ConnectionConfig
	// Broadcasts records the submitted signed transactions.
	Broadcasts []*transaction.Signed
	// AccountLookups counts ViewAccount calls per account.
	AccountLookups map[types.AccountID]int
}

// NewNode creates an empty node.
func NewNode() *Node {
	return &Node{
		Accounts:       make(map[types.AccountID]*rpc.AccountView),
		AccessKeys:     make(map[types.AccountID][]rpc.AccessKeyInfo),
		Outcomes:       make(map[types.CryptoHash]*rpc.FinalExecutionOutcome),
		Codes:          make(map[types.AccountID][]byte),
		AccountLookups: make(map[types.AccountID]int),
	}
}

// AddAccount adds an account with the given balance and access keys. Access key nonces start
// at zero.
func (n *Node) AddAccount(id types.AccountID, amount types.Balance, keys ...types.PublicKey) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.Accounts[id] = &rpc.AccountView{Amount: amount, StorageUsage: 182, BlockHeight: n.height()}
	for _, pk := range keys {
		n.AccessKeys[id] = append(n.AccessKeys[id], rpc.AccessKeyInfo{
			PublicKey: pk,
			AccessKey: rpc.AccessKeyView{Permission: rpc.AccessKeyPermissionView{FullAccess: true}},
		})
	}
}

// AddContract deploys the given code on an existing account.
func (n *Node) AddContract(id types.AccountID, code []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.Codes[id] = code
	n.Accounts[id].CodeHash = sha256.Sum256(code)
}

// AddBlock appends a block with the given height and hash.
func (n *Node) AddBlock(height uint64, hash types.CryptoHash) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.Blocks = append(n.Blocks, &rpc.BlockView{
		Author: "validator.near",
		Header: rpc.BlockHeaderView{Height: height, Hash: hash},
	})
}

func (n *Node) height() uint64 {
	if len(n.Blocks) == 0 {
		return 0
	}
	return n.Blocks[len(n.Blocks)-1].Header.Height
}

func (n *Node) latestHash() types.CryptoHash {
	if len(n.Blocks) == 0 {
		return types.CryptoHash{}
	}
	return n.Blocks[len(n.Blocks)-1].Header.Hash
}

// block returns the referenced block.
func (n *Node) block(ref rpc.BlockReference) (*rpc.BlockView, error) {
	if height, ok := ref.Height(); ok {
		for _, b := range n.Blocks {
			if b.Header.Height == height {
				return b, nil
			}
		}
		return nil, &rpc.NodeError{Code: -32000, Message: "Server error", Data: fmt.Sprintf("DB Not Found Error: BLOCK HEIGHT: %d", height)}
	}
	if hash, ok := ref.Hash(); ok {
		for _, b := range n.Blocks {
			if b.Header.Hash == hash {
				return b, nil
			}
		}
		return nil, &rpc.NodeError{Code: -32000, Message: "Server error", Data: fmt.Sprintf("DB Not Found Error: BLOCK: %s", hash)}
	}
	if len(n.Blocks) == 0 {
		// Genesis.
		return &rpc.BlockView{}, nil
	}
	return n.Blocks[max(len(n.Blocks)-1-n.FinalityLag, 0)], nil
}

// Connect implements network.Connector.
func (n *Node) Connect(_ context.Context, cc network.ConnectionConfig) (rpc.Client, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Connections = append(n.Connections, cc)
	return n, nil
}

// BroadcastTxCommit implements rpc.Client.
func (n *Node) BroadcastTxCommit(ctx context.Context, signedTx []byte) (*rpc.FinalExecutionOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	signed, err := transaction.DecodeSigned(signedTx)
	if err != nil {
		return nil, &rpc.NodeError{Code: -32000, Message: "invalid transaction", Data: err.Error()}
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.BroadcastErrors) > 0 {
		err = n.BroadcastErrors[0]
		n.BroadcastErrors = n.BroadcastErrors[1:]
		return nil, err
	}
	if err = signed.Verify(); err != nil {
		return nil, &rpc.NodeError{Code: -32000, Message: "invalid signature", Data: err.Error()}
	}
	n.Broadcasts = append(n.Broadcasts, signed)

	hash, _ := signed.Hash()
	empty := ""
	status := rpc.ExecutionStatus{SuccessValue: &empty}
	if n.Failure != "" {
		status = rpc.ExecutionStatus{Failure: []byte(fmt.Sprintf("%q", n.Failure))}
	}
	outcome := &rpc.FinalExecutionOutcome{
		Status: status,
		Transaction: rpc.TransactionView{
			SignerID:   signed.Transaction.SignerID.String(),
			PublicKey:  signed.Transaction.PublicKey.String(),
			Nonce:      signed.Transaction.Nonce,
			ReceiverID: signed.Transaction.ReceiverID.String(),
			Hash:       hash,
		},
		TransactionOutcome: rpc.ExecutionOutcomeWithID{
			ID:        hash,
			BlockHash: n.latestHash(),
			Outcome: rpc.ExecutionOutcome{
				GasBurnt:   types.TeraGas / 2,
				ExecutorID: signed.Transaction.SignerID.String(),
				Status:     status,
			},
		},
	}
	n.Outcomes[hash] = outcome

	// Bump the nonce of the used key.
	for i, k := range n.AccessKeys[signed.Transaction.SignerID] {
		if k.PublicKey.Equal(signed.Transaction.PublicKey) {
			n.AccessKeys[signed.Transaction.SignerID][i].AccessKey.Nonce = signed.Transaction.Nonce
		}
	}

	return outcome, nil
}

// TxStatus implements rpc.Client.
func (n *Node) TxStatus(_ context.Context, hash types.CryptoHash, _ types.AccountID) (*rpc.FinalExecutionOutcome, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	outcome, ok := n.Outcomes[hash]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", hash, rpc.ErrUnknownTransaction)
	}
	return outcome, nil
}

// ViewAccount implements rpc.Client.
func (n *Node) ViewAccount(_ context.Context, id types.AccountID, ref rpc.BlockReference) (*rpc.AccountView, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.AccountLookups[id]++
	b, err := n.block(ref)
	if err != nil {
		return nil, err
	}
	acc, ok := n.Accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, rpc.ErrUnknownAccount)
	}
	view := *acc
	view.BlockHeight = b.Header.Height
	view.BlockHash = b.Header.Hash
	return &view, nil
}

// ViewAccessKey implements rpc.Client.
func (n *Node) ViewAccessKey(_ context.Context, id types.AccountID, pk types.PublicKey) (*rpc.AccessKeyView, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, k := range n.AccessKeys[id] {
		if k.PublicKey.Equal(pk) {
			view := k.AccessKey
			view.BlockHeight = n.height()
			view.BlockHash = n.latestHash()
			return &view, nil
		}
	}
	return nil, fmt.Errorf("access key %s of %s: %w", pk, id, rpc.ErrUnknownAccessKey)
}

// ViewAccessKeyList implements rpc.Client.
func (n *Node) ViewAccessKeyList(_ context.Context, id types.AccountID, ref rpc.BlockReference) (*rpc.AccessKeyList, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	b, err := n.block(ref)
	if err != nil {
		return nil, err
	}
	if _, ok := n.Accounts[id]; !ok {
		return nil, fmt.Errorf("account %s: %w", id, rpc.ErrUnknownAccount)
	}
	return &rpc.AccessKeyList{
		Keys:        append([]rpc.AccessKeyInfo{}, n.AccessKeys[id]...),
		BlockHeight: b.Header.Height,
		BlockHash:   b.Header.Hash,
	}, nil
}

// ViewCode implements rpc.Client.
func (n *Node) ViewCode(_ context.Context, id types.AccountID, ref rpc.BlockReference) (*rpc.ContractCodeView, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	b, err := n.block(ref)
	if err != nil {
		return nil, err
	}
	if _, ok := n.Accounts[id]; !ok {
		return nil, fmt.Errorf("account %s: %w", id, rpc.ErrUnknownAccount)
	}
	code, ok := n.Codes[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, rpc.ErrNoContractCode)
	}
	return &rpc.ContractCodeView{
		CodeBase64:  base64.StdEncoding.EncodeToString(code),
		Hash:        sha256.Sum256(code),
		BlockHeight: b.Header.Height,
		BlockHash:   b.Header.Hash,
	}, nil
}

// Block implements rpc.Client.
func (n *Node) Block(_ context.Context, ref rpc.BlockReference) (*rpc.BlockView, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.block(ref)
}

// Status implements rpc.Client.
func (n *Node) Status(_ context.Context) (*rpc.StatusView, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	return &rpc.StatusView{
		ChainID: "testnet",
		SyncInfo: rpc.SyncInfoView{
			LatestBlockHash:   n.latestHash(),
			LatestBlockHeight: n.height(),
		},
	}, nil
}

// Close implements rpc.Client.
func (n *Node) Close() {}
