package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

var (
	// ErrUnknownAccount is returned when the queried account does not exist.
	ErrUnknownAccount = errors.New("unknown account")
	// ErrUnknownAccessKey is returned when the queried access key does not exist.
	ErrUnknownAccessKey = errors.New("unknown access key")
	// ErrNoContractCode is returned when no contract is deployed on the queried account.
	ErrNoContractCode = errors.New("no contract code")
	// ErrUnknownTransaction is returned when the node has not observed the transaction.
	ErrUnknownTransaction = errors.New("unknown transaction")
	// ErrTimeout is returned when the node timed out waiting for the transaction outcome.
	ErrTimeout = errors.New("timeout")
)

// NodeError is an error reported by the node in a JSON-RPC response.
type NodeError struct {
	Code    int
	Message string
	Data    string

	cause error
}

func (e *NodeError) text() string {
	return strings.ToLower(e.Message + " " + e.Data)
}

// Error implements error.
func (e *NodeError) Error() string {
	if e.Data == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Data)
}

// Is maps node error messages to the package sentinel errors.
func (e *NodeError) Is(target error) bool {
	text := e.text()
	switch target {
	case ErrUnknownAccessKey:
		return strings.Contains(text, "access key") && strings.Contains(text, "does not exist")
	case ErrUnknownAccount:
		return strings.Contains(text, "unknown_account") ||
			(strings.Contains(text, "account") && !strings.Contains(text, "access key") &&
				!strings.Contains(text, "contract code") && strings.Contains(text, "does not exist"))
	case ErrNoContractCode:
		return strings.Contains(text, "no_contract_code") ||
			(strings.Contains(text, "contract code") && strings.Contains(text, "does not exist"))
	case ErrUnknownTransaction:
		return strings.Contains(text, "unknown_transaction") ||
			(strings.Contains(text, "transaction") && strings.Contains(text, "doesn't exist"))
	case ErrTimeout:
		return strings.Contains(text, "timeout")
	default:
		return false
	}
}

// Unwrap returns the underlying transport error.
func (e *NodeError) Unwrap() error {
	return e.cause
}

func wrapError(err error) error {
	var rpcErr gethrpc.Error
	if !errors.As(err, &rpcErr) {
		return err
	}
	nodeErr := &NodeError{
		Code:    rpcErr.ErrorCode(),
		Message: rpcErr.Error(),
		cause:   err,
	}
	var dataErr gethrpc.DataError
	if errors.As(err, &dataErr) {
		switch data := dataErr.ErrorData().(type) {
		case nil:
		case string:
			nodeErr.Data = data
		default:
			if raw, mErr := json.Marshal(data); mErr == nil {
				nodeErr.Data = string(raw)
			}
		}
	}
	return nodeErr
}

// Class is the class of a remote error.
type Class uint8

const (
	// Fatal errors are surfaced to the user immediately.
	Fatal Class = iota
	// Recoverable errors are transient, the request may be retried.
	Recoverable
)

// String returns the name of the class.
func (c Class) String() string {
	switch c {
	case Recoverable:
		return "recoverable"
	default:
		return "fatal"
	}
}

// Classify determines whether the given error returned by the client is recoverable.
//
// Transport failures, timeouts, transactions not yet observed by the node and internal
// node errors are recoverable. Cancellation and everything else is fatal.
func Classify(err error) Class {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return Fatal
	}

	var httpErr gethrpc.HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusRequestTimeout,
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return Recoverable
		default:
			return Fatal
		}
	}

	var nodeErr *NodeError
	if errors.As(err, &nodeErr) {
		switch {
		case errors.Is(nodeErr, ErrTimeout),
			errors.Is(nodeErr, ErrUnknownTransaction),
			strings.Contains(nodeErr.text(), "internal error"):
			return Recoverable
		default:
			return Fatal
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return Recoverable
	}
	return Fatal
}
