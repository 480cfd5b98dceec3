package gatt

import "fmt"

// A ServerRequest is a read or write of a local attribute by a remote
// client, as reported by the stack.
type ServerRequest struct {
	Peer           BDAddr
	ID             int
	Service        UUID
	Characteristic UUID
	Descriptor     UUID // zero for characteristic requests
	Offset         int
	Value          []byte // written value; nil for reads
	Write          bool
	ResponseNeeded bool
}

func (r *ServerRequest) String() string {
	op := "read"
	if r.Write {
		op = "write"
	}
	return fmt.Sprintf("%s %d from %s on %s", op, r.ID, r.Peer, r.Characteristic)
}

// A ServerConn is the local GATT server endpoint. There is no peer;
// transactions that address a remote client carry its address.
type ServerConn struct {
	*Conn
	listeners listenerSet[ServerListener]
}

// NewServerConn returns the idle local server endpoint.
func NewServerConn(stack Stack, opts ...Option) *ServerConn {
	s := &ServerConn{Conn: newConn(RoleServer, BDAddr{}, stack, opts)}
	s.onState = func(from, to State) {
		for _, l := range s.listeners.snapshot() {
			l.StateChanged(s, from, to)
		}
	}
	return s
}

// RegisterListener adds l to the listeners of s. Registering a listener
// that is already registered has no effect.
// It panics if l is nil.
func (s *ServerConn) RegisterListener(l ServerListener) { s.listeners.add(l) }

// UnregisterListener removes l from the listeners of s.
func (s *ServerConn) UnregisterListener(l ServerListener) { s.listeners.remove(l) }

// DeliverRequest hands a request from a remote client to the listeners.
func (s *ServerConn) DeliverRequest(r *ServerRequest) {
	if r == nil {
		panic("gatt: nil server request")
	}
	cp := *r
	cp.Value = cloneBytes(r.Value)
	s.dispatch(func() {
		for _, l := range s.listeners.snapshot() {
			l.Request(s, &cp)
		}
	})
}

// DeliverPeerConnection reports a remote client connecting or
// disconnecting.
func (s *ServerConn) DeliverPeerConnection(peer BDAddr, connected bool) {
	s.log.WithField("client", peer.String()).WithField("connected", connected).Debug("peer connection changed")
	s.dispatch(func() {
		for _, l := range s.listeners.snapshot() {
			l.PeerConnectionChanged(s, peer, connected)
		}
	})
}

// AddService returns a transaction that publishes svc in the local
// database. It panics if svc is nil.
func (s *ServerConn) AddService(svc *Service, opts ...TxOption) *Transaction {
	if svc == nil {
		panic("gatt: nil service")
	}
	return NewTransaction(s.Conn, KindAddService, Request{Service: svc.UUID(), LocalService: svc}, opts...)
}

// RemoveService returns a transaction that withdraws a service.
func (s *ServerConn) RemoveService(u UUID, opts ...TxOption) *Transaction {
	return NewTransaction(s.Conn, KindRemoveService, Request{Service: u}, opts...)
}

// ClearServices returns a transaction that withdraws every service.
func (s *ServerConn) ClearServices(opts ...TxOption) *Transaction {
	return NewTransaction(s.Conn, KindClearServices, Request{}, opts...)
}

// Notify returns a transaction that sends value to peer as a notification
// or, with confirm set, as an indication.
func (s *ServerConn) Notify(peer BDAddr, svc, char UUID, value []byte, confirm bool, opts ...TxOption) *Transaction {
	req := Request{Peer: peer, Service: svc, Characteristic: char, Value: value, Confirm: confirm}
	return NewTransaction(s.Conn, KindNotify, req, opts...)
}

// SendResponse returns a transaction that answers request id from peer.
func (s *ServerConn) SendResponse(peer BDAddr, id int, status Status, offset int, value []byte, opts ...TxOption) *Transaction {
	req := Request{Peer: peer, RequestID: id, Status: status, Offset: offset, Value: value}
	return NewTransaction(s.Conn, KindSendResponse, req, opts...)
}

// Respond is SendResponse for a delivered request.
func (s *ServerConn) Respond(r *ServerRequest, status Status, value []byte, opts ...TxOption) *Transaction {
	return s.SendResponse(r.Peer, r.ID, status, r.Offset, value, opts...)
}
