package gatt

import "errors"

var (
	// ErrNoConnection is reported for a transaction that has no connection to run on.
	ErrNoConnection = errors.New("gatt: transaction has no connection")

	// ErrNoPeer is reported when a transaction needs a peer address and has none.
	ErrNoPeer = errors.New("gatt: no peer address")

	// ErrRejected wraps guard rejections; Result.Verdict holds the reason.
	ErrRejected = errors.New("gatt: transaction rejected in current state")

	// ErrTimeout is reported when the native stack did not answer in time.
	ErrTimeout = errors.New("gatt: transaction timed out")

	// ErrStackStatus wraps a non-success status from the native stack.
	ErrStackStatus = errors.New("gatt: stack reported failure")

	// ErrHook is reported when a pre or post commit hook failed; Result.Cause holds its result.
	ErrHook = errors.New("gatt: hook transaction failed")

	// ErrQueueStopped is reported for work dropped because its queue was stopped.
	ErrQueueStopped = errors.New("gatt: transaction queue stopped")

	// ErrConnClosed is reported for work submitted to, or pending on, a closed connection.
	ErrConnClosed = errors.New("gatt: connection closed")

	// ErrPanic is reported when executing a transaction panicked.
	ErrPanic = errors.New("gatt: transaction panicked")
)
