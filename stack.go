package gatt

// Stack is the native BLE stack adapter. Issue starts the operation
// described by req and returns without waiting for it. The adapter calls
// done at most once per successful Issue, from any goroutine, possibly
// before Issue returns. It may also never call done; the transaction's
// timeout covers that. Extra calls are discarded.
//
// A non-nil error from Issue means the operation was never started.
type Stack interface {
	Issue(req Request, done func(Response)) error
}

// A Request is the opaque descriptor of one protocol operation.
// Only the fields relevant to Kind are meaningful.
type Request struct {
	Kind Kind

	// Peer is the remote device. Client transactions take it from their
	// connection; Notify and SendResponse name it explicitly.
	Peer BDAddr

	Service        UUID
	Characteristic UUID
	Descriptor     UUID

	// Value is the payload to write or notify.
	Value []byte

	// WithResponse selects a write request over a write command.
	WithResponse bool

	// Confirm selects an indication over a notification.
	Confirm bool

	MTU   int
	TxPhy Phy
	RxPhy Phy

	// LocalService is the service to publish for KindAddService and
	// KindRemoveService.
	LocalService *Service

	// RequestID and Status answer a remote request for KindSendResponse.
	RequestID int
	Status    Status
	Offset    int

	// State is the target of a KindSetState transaction.
	State State
}

// A Response is what the native stack reports for a finished operation.
type Response struct {
	Status Status
	Value  []byte

	RSSI     int
	MTU      int
	TxPhy    Phy
	RxPhy    Phy
	Services []*Service

	// Handle is an identifier the stack assigned, such as the attribute
	// handle of a newly added service.
	Handle uint16
}
