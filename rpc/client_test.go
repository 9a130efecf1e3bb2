package rpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/near/near-cli-go/logging"
	"github.com/near/near-cli-go/types"
)

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type rpcError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type rpcHandler func(method string, params []string) (interface{}, *rpcError)

func newTestNode(t *testing.T, handler rpcHandler) *Connection {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var params []string
		for _, p := range req.Params {
			var s string
			if err := json.Unmarshal(p, &s); err != nil {
				s = string(p)
			}
			params = append(params, s)
		}

		result, rerr := handler(req.Method, params)
		resp := map[string]interface{}{
			"jsonrpc": "2.0",
			"id":      req.ID,
		}
		if rerr != nil {
			resp["error"] = rerr
		} else {
			resp["result"] = result
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	conn, err := Dial(context.Background(), srv.URL, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(conn.Close)
	return conn
}

const (
	testAccountView = `{
		"amount": "1500000000000000000000000",
		"locked": "0",
		"code_hash": "11111111111111111111111111111111",
		"storage_usage": 182,
		"storage_paid_at": 0,
		"block_height": 17,
		"block_hash": "11111111111111111111111111111111"
	}`

	testOutcome = `{
		"status": {"SuccessValue": ""},
		"transaction": {"signer_id": "alice.testnet", "public_key": "ed25519:11111111111111111111111111111111", "nonce": 6, "receiver_id": "alice.testnet", "hash": "11111111111111111111111111111111"},
		"transaction_outcome": {"id": "11111111111111111111111111111111", "block_hash": "11111111111111111111111111111111", "outcome": {"logs": [], "receipt_ids": [], "gas_burnt": 100, "tokens_burnt": "0", "executor_id": "alice.testnet", "status": "Unknown"}},
		"receipts_outcome": [{"id": "11111111111111111111111111111111", "block_hash": "11111111111111111111111111111111", "outcome": {"logs": ["hello"], "receipt_ids": [], "gas_burnt": 23, "tokens_burnt": "0", "executor_id": "bob.testnet", "status": {"SuccessValue": ""}}}]
	}`
)

func TestViewAccount(t *testing.T) {
	require := require.New(t)

	conn := newTestNode(t, func(method string, params []string) (interface{}, *rpcError) {
		require.Equal("query", method)
		require.Len(params, 1)
		require.JSONEq(`{"request_type": "view_account", "account_id": "alice.testnet", "finality": "final"}`, params[0])
		return json.RawMessage(testAccountView), nil
	})

	account, err := conn.ViewAccount(context.Background(), "alice.testnet", FinalBlock())
	require.NoError(err)
	require.Equal("1.5 NEAR", account.Amount.String())
	require.EqualValues(182, account.StorageUsage)
	require.EqualValues(17, account.BlockHeight)
	require.False(account.HasContract())
}

func TestViewAccountUnknown(t *testing.T) {
	require := require.New(t)

	conn := newTestNode(t, func(method string, params []string) (interface{}, *rpcError) {
		return nil, &rpcError{Code: -32000, Message: "Server error", Data: "account nobody.testnet does not exist while viewing"}
	})

	_, err := conn.ViewAccount(context.Background(), "nobody.testnet", FinalBlock())
	require.Error(err)
	require.True(errors.Is(err, ErrUnknownAccount))
	require.False(errors.Is(err, ErrUnknownAccessKey))
	require.Equal(Fatal, Classify(err))
}

func TestQueryLegacyError(t *testing.T) {
	require := require.New(t)

	conn := newTestNode(t, func(method string, params []string) (interface{}, *rpcError) {
		return map[string]interface{}{
			"error": "access key ed25519:11111111111111111111111111111111 does not exist while viewing",
			"logs":  []string{},
		}, nil
	})

	pk, err := types.NewPublicKey(types.KeyTypeED25519, make([]byte, 32))
	require.NoError(err)
	_, err = conn.ViewAccessKey(context.Background(), "alice.testnet", pk)
	require.Error(err)
	require.True(errors.Is(err, ErrUnknownAccessKey))
	require.False(errors.Is(err, ErrUnknownAccount))
}

func TestViewAccessKey(t *testing.T) {
	require := require.New(t)

	pk, err := types.NewPublicKey(types.KeyTypeED25519, make([]byte, 32))
	require.NoError(err)

	conn := newTestNode(t, func(method string, params []string) (interface{}, *rpcError) {
		require.Equal("query", method)
		require.Equal([]string{"access_key/alice.testnet/" + pk.String(), ""}, params)
		return json.RawMessage(`{"nonce": 5, "permission": "FullAccess", "block_height": 10, "block_hash": "11111111111111111111111111111111"}`), nil
	})

	key, err := conn.ViewAccessKey(context.Background(), "alice.testnet", pk)
	require.NoError(err)
	require.EqualValues(5, key.Nonce)
	require.True(key.Permission.FullAccess)
	require.Equal("full access", key.Permission.String())
}

func TestViewAccessKeyList(t *testing.T) {
	require := require.New(t)

	conn := newTestNode(t, func(method string, params []string) (interface{}, *rpcError) {
		require.JSONEq(`{"request_type": "view_access_key_list", "account_id": "alice.testnet", "block_id": 9}`, params[0])
		return json.RawMessage(`{"keys": [
			{"public_key": "ed25519:11111111111111111111111111111111", "access_key": {"nonce": 1, "permission": "FullAccess"}},
			{"public_key": "ed25519:11111111111111111111111111111111", "access_key": {"nonce": 2, "permission": {"FunctionCall": {"allowance": null, "receiver_id": "app.testnet", "method_names": ["vote"]}}}}
		], "block_height": 1, "block_hash": "11111111111111111111111111111111"}`), nil
	})

	keys, err := conn.ViewAccessKeyList(context.Background(), "alice.testnet", AtHeight(9))
	require.NoError(err)
	require.Len(keys.Keys, 2)
	require.True(keys.Keys[0].AccessKey.Permission.FullAccess)
	fc := keys.Keys[1].AccessKey.Permission.FunctionCall
	require.NotNil(fc)
	require.Nil(fc.Allowance)
	require.Equal("app.testnet", fc.ReceiverID)
	require.Equal("app.testnet (vote), allowance unlimited", keys.Keys[1].AccessKey.Permission.String())
}

func TestBroadcastTxCommit(t *testing.T) {
	require := require.New(t)

	payload := []byte{1, 2, 3, 4}
	conn := newTestNode(t, func(method string, params []string) (interface{}, *rpcError) {
		require.Equal("broadcast_tx_commit", method)
		require.Equal([]string{base64.StdEncoding.EncodeToString(payload)}, params)
		return json.RawMessage(testOutcome), nil
	})

	outcome, err := conn.BroadcastTxCommit(context.Background(), payload)
	require.NoError(err)
	require.True(outcome.Status.IsSuccess())
	require.Equal("success", outcome.Status.String())
	require.EqualValues(123, outcome.TotalGasBurnt())
	require.Equal([]string{"bob.testnet: hello"}, outcome.Logs())
	require.Equal("Unknown", outcome.TransactionOutcome.Outcome.Status.Other)
}

func TestTxStatus(t *testing.T) {
	require := require.New(t)

	var hash types.CryptoHash
	hash[0] = 1
	conn := newTestNode(t, func(method string, params []string) (interface{}, *rpcError) {
		require.Equal("tx", method)
		require.Equal([]string{hash.String(), "alice.testnet"}, params)
		return nil, &rpcError{Code: -32000, Message: "Server error", Data: "Transaction " + hash.String() + " doesn't exist"}
	})

	_, err := conn.TxStatus(context.Background(), hash, "alice.testnet")
	require.Error(err)
	require.True(errors.Is(err, ErrUnknownTransaction))
	require.Equal(Recoverable, Classify(err))
}

func TestBlock(t *testing.T) {
	require := require.New(t)

	block := `{"author": "node0", "header": {"height": 42, "hash": "11111111111111111111111111111111", "prev_hash": "11111111111111111111111111111111", "epoch_id": "11111111111111111111111111111111", "timestamp": 1600000000000000000, "gas_price": "100000000", "total_supply": "0", "chunks_included": 1}, "chunks": [{"chunk_hash": "11111111111111111111111111111111", "shard_id": 0, "gas_used": 0, "gas_limit": 1000}]}`
	var requests []string
	conn := newTestNode(t, func(method string, params []string) (interface{}, *rpcError) {
		require.Equal("block", method)
		require.Len(params, 1)
		requests = append(requests, params[0])
		return json.RawMessage(block), nil
	})

	b, err := conn.Block(context.Background(), AtHeight(42))
	require.NoError(err)
	require.EqualValues(42, b.Header.Height)
	require.Equal("node0", b.Author)
	require.Len(b.Chunks, 1)
	require.Equal(int64(1600000000), b.Header.Time().Unix())

	var hash types.CryptoHash
	hash[0] = 1
	for _, ref := range []BlockReference{AtHash(hash), FinalBlock()} {
		b, err = conn.Block(context.Background(), ref)
		require.NoError(err, ref.String())
		require.EqualValues(42, b.Header.Height)
	}

	require.Len(requests, 3)
	require.JSONEq(`{"block_id": 42}`, requests[0])
	require.JSONEq(`{"block_id": "`+hash.String()+`"}`, requests[1])
	require.JSONEq(`{"finality": "final"}`, requests[2])
}

func TestBlockReference(t *testing.T) {
	require := require.New(t)

	var hash types.CryptoHash
	hash[0] = 1

	require.True(BlockReference{}.IsFinal())
	require.Equal(FinalBlock(), BlockReference{})
	require.Equal("final block", FinalBlock().String())

	h, ok := AtHeight(7).Height()
	require.True(ok)
	require.EqualValues(7, h)
	_, ok = AtHeight(7).Hash()
	require.False(ok)
	require.False(AtHeight(7).IsFinal())
	require.Equal("block #7", AtHeight(7).String())

	got, ok := AtHash(hash).Hash()
	require.True(ok)
	require.Equal(hash, got)
	require.Equal("block "+hash.String(), AtHash(hash).String())
}

func TestViewCode(t *testing.T) {
	require := require.New(t)

	code := []byte{0, 'a', 's', 'm'}
	conn := newTestNode(t, func(method string, params []string) (interface{}, *rpcError) {
		require.Equal("query", method)
		var req map[string]interface{}
		require.NoError(json.Unmarshal([]byte(params[0]), &req))
		require.Equal("view_code", req["request_type"])
		switch req["account_id"] {
		case "app.testnet":
			return map[string]interface{}{
				"code_base64":  base64.StdEncoding.EncodeToString(code),
				"hash":         "11111111111111111111111111111111",
				"block_height": 3,
				"block_hash":   "11111111111111111111111111111111",
			}, nil
		default:
			return nil, &rpcError{Code: -32000, Message: "Server error", Data: "contract code for account alice.testnet does not exist while viewing"}
		}
	})

	view, err := conn.ViewCode(context.Background(), "app.testnet", FinalBlock())
	require.NoError(err)
	got, err := view.Code()
	require.NoError(err)
	require.Equal(code, got)
	require.EqualValues(3, view.BlockHeight)

	_, err = conn.ViewCode(context.Background(), "alice.testnet", FinalBlock())
	require.ErrorIs(err, ErrNoContractCode)
	require.False(errors.Is(err, ErrUnknownAccount))
}

func TestClassify(t *testing.T) {
	require := require.New(t)

	conn := newTestNode(t, func(method string, params []string) (interface{}, *rpcError) {
		switch params[0] {
		case "timeout":
			return nil, &rpcError{Code: -32000, Message: "Server error", Data: "Timeout"}
		case "invalid":
			return nil, &rpcError{Code: -32000, Message: "Server error", Data: map[string]interface{}{
				"TxExecutionError": map[string]interface{}{"InvalidTxError": "InvalidSignature"},
			}}
		case "internal":
			return nil, &rpcError{Code: -32000, Message: "Server error", Data: "Internal error: storage"}
		default:
			return nil, &rpcError{Code: -32602, Message: "Invalid params"}
		}
	})

	for _, tc := range []struct {
		payload  string
		expected Class
	}{
		{"timeout", Recoverable},
		{"invalid", Fatal},
		{"internal", Recoverable},
		{"other", Fatal},
	} {
		var raw json.RawMessage
		err := conn.call(context.Background(), &raw, "broadcast_tx_commit", tc.payload)
		require.Error(err, tc.payload)
		require.Equal(tc.expected, Classify(err), tc.payload)
	}

	require.Equal(Fatal, Classify(context.Canceled))
	require.Equal(Fatal, Classify(errors.New("something else")))
	require.Equal(Recoverable, Classify(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}))
}

func TestClassifyHTTPStatus(t *testing.T) {
	require := require.New(t)

	for _, tc := range []struct {
		status   int
		expected Class
	}{
		{http.StatusServiceUnavailable, Recoverable},
		{http.StatusRequestTimeout, Recoverable},
		{http.StatusTooManyRequests, Recoverable},
		{http.StatusBadRequest, Fatal},
		{http.StatusUnauthorized, Fatal},
	} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
		}))
		conn, err := Dial(context.Background(), srv.URL, logging.NewNop())
		require.NoError(err)

		_, err = conn.Status(context.Background())
		require.Error(err)
		require.Equal(tc.expected, Classify(err), tc.status)

		conn.Close()
		srv.Close()
	}
}
