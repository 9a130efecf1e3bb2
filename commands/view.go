package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/near/near-cli-go/interactive"
	"github.com/near/near-cli-go/layers"
	"github.com/near/near-cli-go/rpc"
	"github.com/near/near-cli-go/table"
	"github.com/near/near-cli-go/transaction"
	"github.com/near/near-cli-go/types"
)

// TransactionContext is received by the transaction status query.
type TransactionContext struct {
	layers.AccountContext

	Hash types.CryptoHash
}

// AtBlock carries the context of a query together with the block it is answered at.
type AtBlock[C any] struct {
	Context C
	Block   rpc.BlockReference
}

// ContractFileContext is received by the contract code download.
type ContractFileContext struct {
	layers.AccountContext

	Path string
}

var (
	viewMenu = &interactive.Menu[struct{}]{
		Title: "What do you want to view?",
		Choices: []interactive.Choice[struct{}]{
			{
				Tag:     "account-summary",
				Message: "View properties for an account",
				New:     group(viewAccountSummary),
			},
			{
				Tag:     "contract-code",
				Message: "View the contract code of an account",
				New:     group(viewContractCode),
			},
			{
				Tag:     "transaction-status",
				Message: "View a transaction status",
				New:     group(viewTransactionStatus),
			},
			{
				Tag:     "block",
				Message: "View the contents of a block",
				New:     group(viewBlock),
			},
		},
	}

	viewAccountSummary = layers.OperationMode(summaryAccount.New)

	summaryAccount = &layers.AccountLayer[layers.ConnectedContext]{
		Keyword: "account",
		Message: "What account do you want to view?",
		Role:    layers.RoleNone,
		Next:    group(summaryBlockMenu),
	}

	summaryBlockMenu = newBlockIDMenu(printAccountSummary)

	viewContractCode = layers.OperationMode(contractAccount.New)

	contractAccount = &layers.AccountLayer[layers.ConnectedContext]{
		Keyword: "contract",
		Message: "What contract do you want to view?",
		Role:    layers.RoleNone,
		Next:    group(contractMenu),
	}

	contractMenu = &interactive.Menu[layers.AccountContext]{
		Title: "Choose what you want to do with the contract code",
		Choices: []interactive.Choice[layers.AccountContext]{
			{
				Tag:     "download",
				Message: "Download the contract file",
				New:     contractPath.New,
			},
			{
				Tag:     "hash",
				Message: "View the hash of the contract code",
				New:     group(contractHashBlockMenu),
			},
		},
	}

	contractPath = &param[layers.AccountContext, string, ContractFileContext]{
		Message: "Where to save the contract file?",
		Parse:   parseFilePath,
		Format:  func(path string) string { return path },
		Derive: func(path string, in layers.AccountContext) ContractFileContext {
			return ContractFileContext{AccountContext: in, Path: path}
		},
		Next: group(contractDownloadBlockMenu),
	}

	contractDownloadBlockMenu = newBlockIDMenu(saveContractCode)

	contractHashBlockMenu = newBlockIDMenu(printContractHash)

	viewTransactionStatus = layers.OperationMode(statusSigner.New)

	statusSigner = &layers.AccountLayer[layers.ConnectedContext]{
		Keyword: "signer",
		Message: "Specify the account that signed the transaction",
		Role:    layers.RoleNone,
		Next:    statusHash.New,
	}

	statusHash = &param[layers.AccountContext, types.CryptoHash, TransactionContext]{
		Message: "Enter the hash of the transaction you need to view",
		Parse:   interactive.ParseCryptoHash,
		Format:  stringer[types.CryptoHash],
		Derive: func(h types.CryptoHash, in layers.AccountContext) TransactionContext {
			return TransactionContext{AccountContext: in, Hash: h}
		},
		Next: transactionStatus.New,
	}

	transactionStatus = &query[TransactionContext]{Run: printTransactionStatus}

	viewBlock = layers.OperationMode(group(blockIDMenu))

	blockIDMenu = newBlockIDMenu(printBlock)
)

// newBlockIDMenu creates the menu choosing the block run is answered at.
func newBlockIDMenu[C any](run func(context.Context, *interactive.Env, C, rpc.BlockReference) error) *interactive.Menu[C] {
	atBlock := &query[AtBlock[C]]{
		Run: func(ctx context.Context, env *interactive.Env, in AtBlock[C]) error {
			return run(ctx, env, in.Context, in.Block)
		},
	}
	final := &query[C]{
		Run: func(ctx context.Context, env *interactive.Env, in C) error {
			return run(ctx, env, in, rpc.FinalBlock())
		},
	}
	height := &param[C, uint64, AtBlock[C]]{
		Message: "Type the block height",
		Parse:   interactive.ParseBlockHeight,
		Format:  func(h uint64) string { return fmt.Sprintf("%d", h) },
		Derive: func(h uint64, in C) AtBlock[C] {
			return AtBlock[C]{Context: in, Block: rpc.AtHeight(h)}
		},
		Next: atBlock.New,
	}
	hash := &param[C, types.CryptoHash, AtBlock[C]]{
		Message: "Type the block hash",
		Parse:   interactive.ParseCryptoHash,
		Format:  stringer[types.CryptoHash],
		Derive: func(h types.CryptoHash, in C) AtBlock[C] {
			return AtBlock[C]{Context: in, Block: rpc.AtHash(h)}
		},
		Next: atBlock.New,
	}

	return &interactive.Menu[C]{
		Title: "Choose the block for view",
		Choices: []interactive.Choice[C]{
			{Tag: "at-final-block", Message: "View at the final block", New: final.New},
			{Tag: "at-block-height", Message: "View at the block with the given height", New: height.New},
			{Tag: "at-block-hash", Message: "View at the block with the given hash", New: hash.New},
		},
	}
}

func parseFilePath(_ *interactive.Env, raw string) (string, error) {
	if raw == "" {
		return "", errors.New("empty file path")
	}
	return raw, nil
}

func printAccountSummary(ctx context.Context, env *interactive.Env, in layers.AccountContext, block rpc.BlockReference) error {
	client, err := env.Network.Connect(ctx, in.Connection())
	if err != nil {
		return err
	}
	defer client.Close()

	account, err := client.ViewAccount(ctx, in.AccountID, block)
	if err != nil {
		return fmt.Errorf("failed to view account %s: %w", in.AccountID, err)
	}
	keys, err := client.ViewAccessKeyList(ctx, in.AccountID, block)
	if err != nil {
		return fmt.Errorf("failed to view access keys of %s: %w", in.AccountID, err)
	}

	env.Printf("Account details for '%s' at block #%d (%s)\n", in.AccountID, account.BlockHeight, account.BlockHash)
	env.Printf("Native account balance: %s\n", account.Amount)
	env.Printf("Validator stake:        %s\n", account.Locked)
	env.Printf("Storage used by the account: %d bytes\n", account.StorageUsage)
	if account.HasContract() {
		env.Printf("Contract code SHA-256 checksum: %s\n", account.CodeHash)
	} else {
		env.Printf("Contract code is not deployed to this account.\n")
	}

	env.Printf("Number of access keys: %d\n", len(keys.Keys))
	t := table.NewWriter(env.Out)
	t.SetHeader([]string{"#", "Public Key", "Nonce", "Permissions"})
	for i, k := range keys.Keys {
		t.Append([]string{
			fmt.Sprintf("%d", i+1),
			k.PublicKey.String(),
			fmt.Sprintf("%d", k.AccessKey.Nonce),
			k.AccessKey.Permission.String(),
		})
	}
	t.Render()
	return nil
}

func printTransactionStatus(ctx context.Context, env *interactive.Env, in TransactionContext) error {
	client, err := env.Network.Connect(ctx, in.Connection())
	if err != nil {
		return err
	}
	defer client.Close()

	outcome, err := client.TxStatus(ctx, in.Hash, in.AccountID)
	if err != nil {
		return fmt.Errorf("failed to query transaction %s: %w", in.Hash, err)
	}
	env.Printf("Transaction status:\n")
	transaction.PrintOutcome(env.Out, outcome, env.Explorer(in.Connection()))
	return nil
}

func printBlock(ctx context.Context, env *interactive.Env, in layers.ConnectedContext, block rpc.BlockReference) error {
	client, err := env.Network.Connect(ctx, in.Connection())
	if err != nil {
		return err
	}
	defer client.Close()

	b, err := client.Block(ctx, block)
	if err != nil {
		return fmt.Errorf("failed to query %s: %w", block, err)
	}

	h := b.Header
	env.Printf("Block:       #%d\n", h.Height)
	env.Printf("Hash:        %s\n", h.Hash)
	env.Printf("Parent hash: %s\n", h.PrevHash)
	env.Printf("Epoch:       %s\n", h.EpochID)
	env.Printf("Timestamp:   %s\n", h.Time().Format(time.RFC3339Nano))
	env.Printf("Author:      %s\n", b.Author)
	env.Printf("Gas price:   %s\n", h.GasPrice)
	env.Printf("Chunks:      %d\n", len(b.Chunks))
	if len(b.Chunks) > 0 {
		t := table.NewWriter(env.Out)
		t.SetHeader([]string{"Shard", "Chunk Hash", "Gas Used", "Gas Limit"})
		for _, c := range b.Chunks {
			t.Append([]string{
				fmt.Sprintf("%d", c.ShardID),
				c.ChunkHash.String(),
				c.GasUsed.String(),
				c.GasLimit.String(),
			})
		}
		t.Render()
	}
	return nil
}

func fetchContractCode(ctx context.Context, env *interactive.Env, in layers.AccountContext, block rpc.BlockReference) (*rpc.ContractCodeView, []byte, error) {
	client, err := env.Network.Connect(ctx, in.Connection())
	if err != nil {
		return nil, nil, err
	}
	defer client.Close()

	view, err := client.ViewCode(ctx, in.AccountID, block)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to view the contract code of %s: %w", in.AccountID, err)
	}
	code, err := view.Code()
	if err != nil {
		return nil, nil, err
	}
	return view, code, nil
}

func printContractHash(ctx context.Context, env *interactive.Env, in layers.AccountContext, block rpc.BlockReference) error {
	view, _, err := fetchContractCode(ctx, env, in, block)
	if err != nil {
		return err
	}
	env.Printf("Contract code of '%s' at block #%d (%s)\n", in.AccountID, view.BlockHeight, view.BlockHash)
	env.Printf("Contract code SHA-256 checksum: %s\n", view.Hash)
	return nil
}

func saveContractCode(ctx context.Context, env *interactive.Env, in ContractFileContext, block rpc.BlockReference) error {
	view, code, err := fetchContractCode(ctx, env, in.AccountContext, block)
	if err != nil {
		return err
	}
	if err := os.WriteFile(in.Path, code, 0o644); err != nil {
		return fmt.Errorf("failed to save the contract code: %w", err)
	}
	env.Printf("The contract code of '%s' at block #%d was saved to %s (%d bytes)\n", in.AccountID, view.BlockHeight, in.Path, len(code))
	return nil
}
