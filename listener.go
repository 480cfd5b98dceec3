package gatt

import (
	"sync"
	"sync/atomic"
)

// A ClientListener observes a ClientConn. Its methods are called on the
// connection's callback goroutine, never concurrently for one connection.
type ClientListener interface {
	// StateChanged is called after every protocol state transition.
	StateChanged(c *ClientConn, from, to State)

	// Notified is called for each notification or indication received
	// from the peer.
	Notified(c *ClientConn, char UUID, value []byte)

	// Removed is called once when the registry drops the connection.
	Removed(c *ClientConn)
}

// A ServerListener observes the local GATT server endpoint. Its methods
// are called on the server connection's callback goroutine.
type ServerListener interface {
	StateChanged(s *ServerConn, from, to State)

	// Request is called for each read or write request from a remote
	// client. Requests with ResponseNeeded set are answered with
	// ServerConn.Respond.
	Request(s *ServerConn, r *ServerRequest)

	PeerConnectionChanged(s *ServerConn, peer BDAddr, connected bool)
}

// listenerSet is a copy-on-write set. Readers take a snapshot without
// locking; writers serialize on mu and publish a new slice.
// Listeners must be of comparable dynamic types, typically pointers.
type listenerSet[L comparable] struct {
	mu   sync.Mutex
	list atomic.Pointer[[]L]
}

// add reports whether l was added; a listener already present is not
// added twice. add panics if l is nil.
func (s *listenerSet[L]) add(l L) bool {
	var zero L
	if l == zero {
		panic("gatt: nil listener")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.snapshot()
	for _, x := range cur {
		if x == l {
			return false
		}
	}
	next := make([]L, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, l)
	s.list.Store(&next)
	return true
}

// remove reports whether l was present.
func (s *listenerSet[L]) remove(l L) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.snapshot()
	for i, x := range cur {
		if x == l {
			next := make([]L, 0, len(cur)-1)
			next = append(next, cur[:i]...)
			next = append(next, cur[i+1:]...)
			s.list.Store(&next)
			return true
		}
	}
	return false
}

func (s *listenerSet[L]) snapshot() []L {
	if p := s.list.Load(); p != nil {
		return *p
	}
	return nil
}

func (s *listenerSet[L]) len() int { return len(s.snapshot()) }
