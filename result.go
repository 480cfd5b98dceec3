package gatt

import (
	"time"

	"github.com/google/uuid"
)

// ResultStatus is the terminal status of a transaction.
type ResultStatus int

const (
	ResultSuccess ResultStatus = iota
	ResultFailure
	ResultTimeout
)

func (s ResultStatus) String() string {
	switch s {
	case ResultSuccess:
		return "success"
	case ResultTimeout:
		return "timeout"
	default:
		return "failure"
	}
}

// A Result is the outcome of exactly one transaction execution.
// Results are delivered by value and never modified afterwards; the
// slices they carry are owned by the Result and must not be written to.
type Result struct {
	TxID uuid.UUID
	Name string
	Kind Kind

	Status ResultStatus

	// State is the connection state after the transaction, on a best
	// effort basis when the transaction never reached the stack.
	State State

	// Verdict is the guard decision. Anything but VerdictOK means the
	// native stack was never called.
	Verdict Verdict

	// StackStatus is the raw status reported by the native stack.
	StackStatus Status

	Err error

	Value    []byte
	RSSI     int
	MTU      int
	TxPhy    Phy
	RxPhy    Phy
	Services []*Service
	Handle   uint16

	// Results holds member results of a composite, in execution order.
	Results []Result

	// Cause is the hook result that aborted or replaced this one.
	Cause *Result

	Elapsed time.Duration
}

// OK reports whether r is a success.
func (r Result) OK() bool { return r.Status == ResultSuccess }
