package transaction

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/near/near-cli-go/rpc"
)

type scriptedSubmitter struct {
	errs     []error
	payloads [][]byte
	onSubmit func(attempt int)
}

func (s *scriptedSubmitter) BroadcastTxCommit(ctx context.Context, signedTx []byte) (*rpc.FinalExecutionOutcome, error) {
	s.payloads = append(s.payloads, signedTx)
	if s.onSubmit != nil {
		s.onSubmit(len(s.payloads))
	}
	if n := len(s.payloads); n <= len(s.errs) && s.errs[n-1] != nil {
		return nil, s.errs[n-1]
	}
	return &rpc.FinalExecutionOutcome{}, nil
}

var (
	errTimeout = &rpc.NodeError{Message: "Server error", Data: "Timeout"}
	errInvalid = &rpc.NodeError{Message: "Server error", Data: `{"TxExecutionError":{"InvalidTxError":"InvalidSignature"}}`}
)

func signedTestTx(t *testing.T) *Signed {
	signer := newTestSigner(t)
	signed, err := Sign(completeTx(signer.PublicKey(), DeleteKey{PublicKey: zeroKey()}), signer)
	require.NoError(t, err)
	return signed
}

func recordStates(states *[]State) BroadcastOption {
	return WithObserver(func(tr Transition) {
		if len(*states) == 0 {
			*states = append(*states, tr.From)
		}
		*states = append(*states, tr.To)
	})
}

func TestBroadcastConfirmed(t *testing.T) {
	require := require.New(t)

	tx := signedTestTx(t)
	sub := &scriptedSubmitter{}
	var states []State
	outcome, err := NewBroadcaster(sub, recordStates(&states)).Broadcast(context.Background(), tx)
	require.NoError(err)
	require.NotNil(outcome)
	require.Equal([]State{StateSubmitting, StateConfirmed}, states)

	expected, err := tx.Encode()
	require.NoError(err)
	require.Equal([][]byte{expected}, sub.payloads)
}

func TestBroadcastRetriesRecoverable(t *testing.T) {
	require := require.New(t)

	sub := &scriptedSubmitter{errs: []error{errTimeout, errTimeout, errTimeout}}
	var (
		states []State
		status bytes.Buffer
	)
	b := NewBroadcaster(sub,
		WithRetryDelay(time.Millisecond),
		recordStates(&states),
		WithObserver(StatusPrinter(&status)),
	)
	outcome, err := b.Broadcast(context.Background(), signedTestTx(t))
	require.NoError(err)
	require.NotNil(outcome)
	require.Len(sub.payloads, 4)
	require.Equal([]State{
		StateSubmitting, StateRetrying,
		StateSubmitting, StateRetrying,
		StateSubmitting, StateRetrying,
		StateSubmitting, StateConfirmed,
	}, states)

	// The same payload is resubmitted on every attempt.
	for _, p := range sub.payloads[1:] {
		require.Equal(sub.payloads[0], p)
	}
	require.Contains(status.String(), "Please wait. The next try to send this transaction is happening right now...")
	require.Contains(status.String(), "Transaction executed.")
}

func TestBroadcastFatal(t *testing.T) {
	require := require.New(t)

	sub := &scriptedSubmitter{errs: []error{errTimeout, errInvalid}}
	var states []State
	_, err := NewBroadcaster(sub, WithRetryDelay(time.Millisecond), recordStates(&states)).Broadcast(context.Background(), signedTestTx(t))
	require.Error(err)

	var bErr *BroadcastError
	require.True(errors.As(err, &bErr))
	require.Equal(2, bErr.Attempts)
	require.Equal(errInvalid, bErr.Err)
	require.Len(sub.payloads, 2)
	require.Equal([]State{StateSubmitting, StateRetrying, StateSubmitting, StateFatal}, states)
}

func TestBroadcastCancelledWhileRetrying(t *testing.T) {
	require := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := &scriptedSubmitter{errs: []error{errTimeout, errTimeout}}
	var states []State
	b := NewBroadcaster(sub,
		WithRetryDelay(time.Hour),
		recordStates(&states),
		WithObserver(func(tr Transition) {
			if tr.To == StateRetrying {
				cancel()
			}
		}),
	)
	_, err := b.Broadcast(ctx, signedTestTx(t))
	require.Error(err)
	require.True(errors.Is(err, context.Canceled))
	require.Len(sub.payloads, 1)
	require.Equal([]State{StateSubmitting, StateRetrying, StateFatal}, states)
}

func TestBroadcastCancelledWhileSubmitting(t *testing.T) {
	require := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := &scriptedSubmitter{
		errs:     []error{errTimeout},
		onSubmit: func(int) { cancel() },
	}
	var states []State
	_, err := NewBroadcaster(sub, WithRetryDelay(time.Millisecond), recordStates(&states)).Broadcast(ctx, signedTestTx(t))
	require.Error(err)
	require.Len(sub.payloads, 1)
	require.Equal([]State{StateSubmitting, StateFatal}, states)
}
