// Package sim provides an in-memory gatt.Stack whose answers are scripted
// per operation kind. It records every request it is issued.
package sim

import (
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/XC-/gatt-core"
)

// ErrRefused is a convenient error for Behavior.Err.
var ErrRefused = errors.New("sim: request refused")

// A Behavior scripts how the stack answers one request.
type Behavior struct {
	Status gatt.Status // answered status; zero is success

	Delay time.Duration // answer after Delay instead of right away
	Sync  bool          // answer before Issue returns
	Drop  bool          // never answer
	Twice bool          // answer a second time
	Err   error         // refuse the request synchronously
	Panic string        // panic inside Issue

	Value    []byte
	RSSI     int
	MTU      int
	TxPhy    gatt.Phy
	RxPhy    gatt.Phy
	Services []*gatt.Service
	Handle   uint16
}

// Stack is a scriptable gatt.Stack. Kinds without a script succeed
// immediately with an empty response.
type Stack struct {
	log logrus.FieldLogger

	mu      sync.Mutex
	scripts map[gatt.Kind][]Behavior
	issued  []gatt.Request
	notify  chan gatt.Request
}

// NewStack returns a stack that answers every request with success.
func NewStack() *Stack {
	return &Stack{
		log:     logrus.StandardLogger().WithField("component", "sim"),
		scripts: make(map[gatt.Kind][]Behavior),
	}
}

// SetLogger replaces the stack's logger.
func (s *Stack) SetLogger(l logrus.FieldLogger) *Stack {
	s.mu.Lock()
	s.log = l
	s.mu.Unlock()
	return s
}

// On scripts the answers to requests of kind k. The behaviors are used in
// order, one per request; the last one is kept for every request after.
func (s *Stack) On(k gatt.Kind, bs ...Behavior) *Stack {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(bs) == 0 {
		delete(s.scripts, k)
		return s
	}
	s.scripts[k] = append([]Behavior(nil), bs...)
	return s
}

// Watch returns a channel receiving a copy of every issued request.
// The channel has room for n requests; requests that do not fit are not
// sent to it.
func (s *Stack) Watch(n int) <-chan gatt.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = make(chan gatt.Request, n)
	return s.notify
}

// Issued returns the requests issued so far, in order.
func (s *Stack) Issued() []gatt.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]gatt.Request(nil), s.issued...)
}

// Kinds returns the kinds of the requests issued so far, in order.
func (s *Stack) Kinds() []gatt.Kind {
	s.mu.Lock()
	defer s.mu.Unlock()
	ks := make([]gatt.Kind, len(s.issued))
	for i, r := range s.issued {
		ks[i] = r.Kind
	}
	return ks
}

// Reset forgets scripts and issued requests.
func (s *Stack) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts = make(map[gatt.Kind][]Behavior)
	s.issued = nil
}

// Issue implements gatt.Stack.
func (s *Stack) Issue(req gatt.Request, done func(gatt.Response)) error {
	req.Value = append([]byte(nil), req.Value...)
	s.mu.Lock()
	b := s.next(req.Kind)
	s.issued = append(s.issued, req)
	if s.notify != nil {
		select {
		case s.notify <- req:
		default:
		}
	}
	log := s.log.WithField("kind", req.Kind)
	s.mu.Unlock()

	log.Debug("request issued")
	if b.Panic != "" {
		panic(b.Panic)
	}
	if b.Err != nil {
		return b.Err
	}
	if b.Drop {
		return nil
	}

	answer := func() {
		done(b.response())
		if b.Twice {
			done(b.response())
		}
	}
	switch {
	case b.Sync:
		answer()
	case b.Delay > 0:
		time.AfterFunc(b.Delay, answer)
	default:
		go answer()
	}
	return nil
}

func (s *Stack) next(k gatt.Kind) Behavior {
	bs := s.scripts[k]
	if len(bs) == 0 {
		return Behavior{}
	}
	b := bs[0]
	if len(bs) > 1 {
		s.scripts[k] = bs[1:]
	}
	return b
}

func (b Behavior) response() gatt.Response {
	return gatt.Response{
		Status:   b.Status,
		Value:    append([]byte(nil), b.Value...),
		RSSI:     b.RSSI,
		MTU:      b.MTU,
		TxPhy:    b.TxPhy,
		RxPhy:    b.RxPhy,
		Services: b.Services,
		Handle:   b.Handle,
	}
}
