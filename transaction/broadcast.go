package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/near/near-cli-go/logging"
	"github.com/near/near-cli-go/rpc"
	"github.com/near/near-cli-go/types"
)

// DefaultRetryDelay is the delay between submissions of a transaction after a recoverable error.
const DefaultRetryDelay = 100 * time.Millisecond

// State is a state of the broadcast pipeline.
type State uint8

const (
	// StateSubmitting is the state in which the transaction is being submitted.
	StateSubmitting State = iota
	// StateRetrying is the state in which the pipeline waits before resubmitting.
	StateRetrying
	// StateConfirmed is the terminal state in which the node returned the outcome.
	StateConfirmed
	// StateFatal is the terminal state in which the transaction could not be broadcast.
	StateFatal
)

// String returns the name of the state.
func (s State) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateRetrying:
		return "retrying"
	case StateConfirmed:
		return "confirmed"
	case StateFatal:
		return "fatal"
	default:
		return fmt.Sprintf("[unknown state: %d]", uint8(s))
	}
}

// Transition is a change of the broadcast pipeline state.
type Transition struct {
	From    State
	To      State
	Attempt int
	Err     error
}

// Submitter submits signed transactions to the network.
type Submitter interface {
	BroadcastTxCommit(ctx context.Context, signedTx []byte) (*rpc.FinalExecutionOutcome, error)
}

// BroadcastError is returned when a transaction failed with a fatal error.
type BroadcastError struct {
	Hash     types.CryptoHash
	Attempts int
	Err      error
}

// Error implements error.
func (e *BroadcastError) Error() string {
	return fmt.Sprintf("failed to broadcast transaction %s: %s", e.Hash, e.Err)
}

// Unwrap returns the underlying error.
func (e *BroadcastError) Unwrap() error {
	return e.Err
}

// Broadcaster submits signed transactions until they are confirmed or fail with a fatal error.
//
// Recoverable errors are retried without limit after a fixed delay; cancelling the context is
// the only way to stop a transaction that keeps failing with recoverable errors.
type Broadcaster struct {
	submitter Submitter
	backOff   backoff.BackOff
	logger    *slog.Logger
	observers []func(Transition)
}

// BroadcastOption configures a Broadcaster.
type BroadcastOption func(*Broadcaster)

// WithRetryDelay sets the delay between resubmissions.
func WithRetryDelay(d time.Duration) BroadcastOption {
	return func(b *Broadcaster) {
		b.backOff = backoff.NewConstantBackOff(d)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) BroadcastOption {
	return func(b *Broadcaster) {
		b.logger = logger
	}
}

// WithObserver registers a function called on every state transition.
func WithObserver(fn func(Transition)) BroadcastOption {
	return func(b *Broadcaster) {
		b.observers = append(b.observers, fn)
	}
}

// NewBroadcaster creates a new broadcaster.
func NewBroadcaster(s Submitter, opts ...BroadcastOption) *Broadcaster {
	b := &Broadcaster{
		submitter: s,
		backOff:   backoff.NewConstantBackOff(DefaultRetryDelay),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Broadcaster) transition(t Transition) State {
	b.logger.Debug("broadcast state transition",
		"from", t.From,
		"to", t.To,
		"attempt", t.Attempt,
		"error", t.Err,
	)
	for _, fn := range b.observers {
		fn(t)
	}
	return t.To
}

// Broadcast submits the signed transaction and returns its final outcome.
func (b *Broadcaster) Broadcast(ctx context.Context, tx *Signed) (*rpc.FinalExecutionOutcome, error) {
	payload, err := tx.Encode()
	if err != nil {
		return nil, err
	}
	hash, err := tx.Hash()
	if err != nil {
		return nil, err
	}
	b.backOff.Reset()

	var (
		outcome *rpc.FinalExecutionOutcome
		lastErr error
		attempt int
	)
	state := StateSubmitting
	for {
		switch state {
		case StateSubmitting:
			attempt++
			outcome, lastErr = b.submitter.BroadcastTxCommit(ctx, payload)
			switch {
			case lastErr == nil:
				state = b.transition(Transition{From: state, To: StateConfirmed, Attempt: attempt})
			case ctx.Err() == nil && rpc.Classify(lastErr) == rpc.Recoverable:
				b.logger.Info("transaction not confirmed, retrying", "hash", hash, "attempt", attempt, "error", lastErr)
				state = b.transition(Transition{From: state, To: StateRetrying, Attempt: attempt, Err: lastErr})
			default:
				state = b.transition(Transition{From: state, To: StateFatal, Attempt: attempt, Err: lastErr})
			}
		case StateRetrying:
			delay := b.backOff.NextBackOff()
			if delay == backoff.Stop {
				state = b.transition(Transition{From: state, To: StateFatal, Attempt: attempt, Err: lastErr})
				continue
			}

			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				lastErr = ctx.Err()
				state = b.transition(Transition{From: state, To: StateFatal, Attempt: attempt, Err: lastErr})
			case <-timer.C:
				state = b.transition(Transition{From: state, To: StateSubmitting, Attempt: attempt})
			}
		case StateConfirmed:
			return outcome, nil
		default:
			return nil, &BroadcastError{Hash: hash, Attempts: attempt, Err: lastErr}
		}
	}
}
