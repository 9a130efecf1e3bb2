// Package rpc implements a client for the JSON-RPC interface of NEAR nodes.
package rpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"

	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/near/near-cli-go/types"
)

// Client is the interface of the remote node.
type Client interface {
	// BroadcastTxCommit submits a signed transaction and waits until it is executed.
	BroadcastTxCommit(ctx context.Context, signedTx []byte) (*FinalExecutionOutcome, error)

	// TxStatus queries the outcome of a previously submitted transaction.
	TxStatus(ctx context.Context, hash types.CryptoHash, sender types.AccountID) (*FinalExecutionOutcome, error)

	// ViewAccount queries the state of an account at the given block.
	ViewAccount(ctx context.Context, id types.AccountID, block BlockReference) (*AccountView, error)

	// ViewAccessKey queries the latest state of a single access key of an account.
	ViewAccessKey(ctx context.Context, id types.AccountID, pk types.PublicKey) (*AccessKeyView, error)

	// ViewAccessKeyList queries all access keys of an account at the given block.
	ViewAccessKeyList(ctx context.Context, id types.AccountID, block BlockReference) (*AccessKeyList, error)

	// ViewCode queries the contract code of an account at the given block.
	ViewCode(ctx context.Context, id types.AccountID, block BlockReference) (*ContractCodeView, error)

	// Block queries the referenced block.
	Block(ctx context.Context, block BlockReference) (*BlockView, error)

	// Status queries the node status.
	Status(ctx context.Context) (*StatusView, error)

	// Close closes the client.
	Close()
}

// Connection is a JSON-RPC connection to a node.
type Connection struct {
	rpc    *gethrpc.Client
	url    string
	logger *slog.Logger
}

// Dial creates a connection to the node at the given endpoint.
func Dial(ctx context.Context, url string, logger *slog.Logger) (*Connection, error) {
	c, err := gethrpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return &Connection{
		rpc:    c,
		url:    url,
		logger: logger,
	}, nil
}

// URL returns the endpoint of the connection.
func (c *Connection) URL() string {
	return c.url
}

func (c *Connection) call(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	c.logger.Debug("rpc call", "method", method, "endpoint", c.url)
	if err := c.rpc.CallContext(ctx, result, method, args...); err != nil {
		c.logger.Debug("rpc call failed", "method", method, "error", err)
		return wrapError(err)
	}
	return nil
}

// query performs a legacy path query answered at the latest block.
func (c *Connection) query(ctx context.Context, result interface{}, path string) error {
	var raw json.RawMessage
	if err := c.call(ctx, &raw, "query", path, ""); err != nil {
		return err
	}
	return decodeQuery(raw, result, path)
}

// queryAt performs a query of the given request type at the referenced block.
func (c *Connection) queryAt(ctx context.Context, result interface{}, requestType string, id types.AccountID, block BlockReference) error {
	request := block.params()
	request["request_type"] = requestType
	request["account_id"] = id.String()

	var raw json.RawMessage
	if err := c.call(ctx, &raw, "query", request); err != nil {
		return err
	}
	return decodeQuery(raw, result, requestType)
}

// decodeQuery decodes a query result. Some node versions report query failures in the result.
func decodeQuery(raw json.RawMessage, result interface{}, what string) error {
	var legacy struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(raw, &legacy); err == nil && legacy.Error != "" {
		return &NodeError{Message: legacy.Error}
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("malformed %s response: %w", what, err)
	}
	return nil
}

// BroadcastTxCommit implements Client.
func (c *Connection) BroadcastTxCommit(ctx context.Context, signedTx []byte) (*FinalExecutionOutcome, error) {
	var outcome FinalExecutionOutcome
	if err := c.call(ctx, &outcome, "broadcast_tx_commit", base64.StdEncoding.EncodeToString(signedTx)); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// TxStatus implements Client.
func (c *Connection) TxStatus(ctx context.Context, hash types.CryptoHash, sender types.AccountID) (*FinalExecutionOutcome, error) {
	var outcome FinalExecutionOutcome
	if err := c.call(ctx, &outcome, "tx", hash.String(), sender.String()); err != nil {
		return nil, err
	}
	return &outcome, nil
}

// ViewAccount implements Client.
func (c *Connection) ViewAccount(ctx context.Context, id types.AccountID, block BlockReference) (*AccountView, error) {
	var account AccountView
	if err := c.queryAt(ctx, &account, "view_account", id, block); err != nil {
		return nil, err
	}
	return &account, nil
}

// ViewAccessKey implements Client.
func (c *Connection) ViewAccessKey(ctx context.Context, id types.AccountID, pk types.PublicKey) (*AccessKeyView, error) {
	var key AccessKeyView
	if err := c.query(ctx, &key, "access_key/"+id.String()+"/"+pk.String()); err != nil {
		return nil, err
	}
	return &key, nil
}

// ViewAccessKeyList implements Client.
func (c *Connection) ViewAccessKeyList(ctx context.Context, id types.AccountID, block BlockReference) (*AccessKeyList, error) {
	var keys AccessKeyList
	if err := c.queryAt(ctx, &keys, "view_access_key_list", id, block); err != nil {
		return nil, err
	}
	return &keys, nil
}

// ViewCode implements Client.
func (c *Connection) ViewCode(ctx context.Context, id types.AccountID, block BlockReference) (*ContractCodeView, error) {
	var code ContractCodeView
	if err := c.queryAt(ctx, &code, "view_code", id, block); err != nil {
		return nil, err
	}
	return &code, nil
}

// Block implements Client.
func (c *Connection) Block(ctx context.Context, block BlockReference) (*BlockView, error) {
	var view BlockView
	if err := c.call(ctx, &view, "block", block.params()); err != nil {
		return nil, err
	}
	return &view, nil
}

// Status implements Client.
func (c *Connection) Status(ctx context.Context) (*StatusView, error) {
	var status StatusView
	if err := c.call(ctx, &status, "status"); err != nil {
		return nil, err
	}
	return &status, nil
}

// Close implements Client.
func (c *Connection) Close() {
	c.rpc.Close()
}
