package gatt

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// Conn is the part of a connection shared by ClientConn and ServerConn: the
// protocol state, the transaction queue and the callback goroutine.
//
// The state is written by the connection's own queue worker. The only
// other writer is ForceState, used for radio loss and link loss.
type Conn struct {
	role  Role
	peer  BDAddr
	stack Stack
	opts  options
	log   logrus.FieldLogger

	mu       sync.Mutex
	state    State
	ttl      int
	mtu      int
	rssi     int
	txPhy    Phy
	rxPhy    Phy
	services []*Service

	txq       *Queue
	callbacks *Queue

	// onState is called on the callback goroutine after every transition.
	onState func(from, to State)

	closed int32
}

func newConn(role Role, peer BDAddr, stack Stack, opts []Option) *Conn {
	if stack == nil {
		panic("gatt: nil stack")
	}
	o := defaultOptions()
	o.apply(opts)
	fields := logrus.Fields{"role": role}
	if !peer.IsZero() {
		fields["peer"] = peer.String()
	}
	log := o.log.WithFields(fields)
	return &Conn{
		role:      role,
		peer:      peer,
		stack:     stack,
		opts:      o,
		log:       log,
		state:     StateIdle,
		ttl:       o.maxTTL,
		mtu:       DefaultMTU,
		txq:       newQueue(log.WithField("queue", "tx")),
		callbacks: newQueue(log.WithField("queue", "callback")),
	}
}

// Role returns whether c is a client or a server connection.
func (c *Conn) Role() Role { return c.role }

// Peer returns the address of the remote device. It is zero for the local
// server endpoint.
func (c *Conn) Peer() BDAddr { return c.peer }

// Queue returns the controller of c's transaction queue.
func (c *Conn) Queue() *Queue { return c.txq }

// State returns the current protocol state.
func (c *Conn) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// TTL returns the number of registry sweeps c survives once its link is down.
func (c *Conn) TTL() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttl
}

// MTU returns the last negotiated MTU, DefaultMTU until one is negotiated.
func (c *Conn) MTU() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mtu
}

// RSSI returns the last RSSI read.
func (c *Conn) RSSI() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rssi
}

// Phy returns the last known transmit and receive PHY.
func (c *Conn) Phy() (tx, rx Phy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.txPhy, c.rxPhy
}

// Services returns the services last discovered on the peer, or for a
// server, the services added to the local database.
func (c *Conn) Services() []*Service {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*Service(nil), c.services...)
}

// SetState returns a transaction that records s as the connection state
// without calling the stack.
func (c *Conn) SetState(s State, opts ...TxOption) *Transaction {
	return NewTransaction(c, KindSetState, Request{State: s}, opts...)
}

// RunTx queues tx and returns immediately. cb is called exactly once, on
// the connection's callback goroutine, with the result of tx.
// RunTx panics if tx or cb is nil, or if tx has been committed before.
func (c *Conn) RunTx(tx Tx, cb Callback) {
	if tx == nil {
		panic("gatt: nil transaction")
	}
	if cb == nil {
		panic("gatt: nil callback for " + tx.Name())
	}
	tx.claim(c.role)
	w := &txWork{c: c, tx: tx, cb: cb}
	if err := c.txq.enqueue(w); err != nil {
		w.abort(err)
	}
}

// ForceState sets the state outside the queue. It is meant for the radio
// status collaborator and for eviction; transactions already running are
// not interrupted.
func (c *Conn) ForceState(s State) {
	c.mu.Lock()
	from := c.state
	c.state = s
	c.mu.Unlock()
	c.log.WithFields(logrus.Fields{"from": from, "to": s}).Info("state forced")
	c.changed(from, s)
}

// LinkLost records a disconnect reported by the stack.
func (c *Conn) LinkLost() {
	if c.State() == StateRadioOff {
		return
	}
	c.ForceState(StateDisconnected)
}

// Close stops the queue, aborting queued transactions with ErrConnClosed,
// waits for the one in flight, and lets the callback goroutine deliver
// what is pending. Close must not be called from the transaction queue.
func (c *Conn) Close() error {
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	c.txq.close(ErrConnClosed)
	c.txq.wait()
	c.callbacks.closeDrain()
	c.log.Debug("connection closed")
	return nil
}

// setState is the queue worker's path to the state. While the radio is
// off only Idle and Disconnected are accepted.
func (c *Conn) setState(s State) {
	c.mu.Lock()
	from := c.state
	if from == StateRadioOff && s != StateIdle && s != StateDisconnected {
		c.mu.Unlock()
		c.log.WithField("to", s).Debug("state change ignored while radio is off")
		return
	}
	c.state = s
	c.mu.Unlock()
	c.changed(from, s)
}

// settle moves a busy state to its failure state and returns the result.
func (c *Conn) settle() State {
	c.mu.Lock()
	from := c.state
	if !from.Busy() {
		c.mu.Unlock()
		return from
	}
	to := from.settled()
	c.state = to
	c.mu.Unlock()
	c.changed(from, to)
	return to
}

func (c *Conn) changed(from, to State) {
	if from == to || c.onState == nil {
		return
	}
	c.dispatch(func() { c.onState(from, to) })
}

// observe caches what a successful operation reports about the link.
func (c *Conn) observe(req Request, resp Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch req.Kind {
	case KindConnect:
		c.mtu = DefaultMTU
	case KindDisconnect:
		c.services = nil
	case KindDiscoverServices:
		c.services = resp.Services
	case KindRequestMTU:
		if resp.MTU > 0 {
			c.mtu = resp.MTU
		}
	case KindReadRSSI:
		c.rssi = resp.RSSI
	case KindReadPhy, KindSetPhy:
		c.txPhy, c.rxPhy = resp.TxPhy, resp.RxPhy
	case KindAddService:
		if req.LocalService != nil {
			c.services = append(c.services, req.LocalService)
		}
	case KindRemoveService:
		kept := c.services[:0:0]
		for _, s := range c.services {
			if !s.UUID().Equal(req.Service) {
				kept = append(kept, s)
			}
		}
		c.services = kept
	case KindClearServices:
		c.services = nil
	}
}

func (c *Conn) resetTTL() {
	c.mu.Lock()
	c.ttl = c.opts.maxTTL
	c.mu.Unlock()
}

// expire is one registry sweep step. It reports whether c should be
// evicted, decrementing the TTL of a link-down connection otherwise.
func (c *Conn) expire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.state.LinkDown() {
		return false
	}
	if c.ttl <= 0 {
		return true
	}
	c.ttl--
	return false
}

// dispatch runs f on the callback goroutine. Once the connection is
// closed f runs on a goroutine of its own.
func (c *Conn) dispatch(f func()) {
	if c.callbacks.post(f) {
		return
	}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.log.WithField("panic", r).Error("callback panicked")
			}
		}()
		f()
	}()
}

// txWork is a committed unit waiting on, or running in, the queue.
type txWork struct {
	c       *Conn
	tx      Tx
	cb      Callback
	once    sync.Once
	started int32
}

func (w *txWork) run() {
	atomic.StoreInt32(&w.started, 1)
	w.deliver(w.tx.execute(w.c))
}

func (w *txWork) abort(err error) {
	st := w.c.State()
	if atomic.LoadInt32(&w.started) == 1 {
		st = w.c.settle()
	}
	r := Result{
		TxID:   w.tx.ID(),
		Name:   w.tx.Name(),
		Status: ResultFailure,
		State:  st,
		Err:    err,
	}
	if t, ok := w.tx.(*Transaction); ok {
		r.Kind = t.kind
	}
	w.c.log.WithFields(logrus.Fields{"tx": r.Name, "err": err}).Warn("transaction aborted")
	w.deliver(r)
}

func (w *txWork) deliver(r Result) {
	w.once.Do(func() {
		if r.OK() {
			w.c.resetTTL()
		}
		w.c.dispatch(func() { w.cb(r) })
	})
}

func (w *txWork) String() string { return fmt.Sprintf("%s(%s)", w.tx.Name(), w.tx.ID()) }
