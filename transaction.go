package gatt

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Callback receives the single terminal Result of a transaction.
type Callback func(Result)

// Tx is a unit that can be run on a connection: a *Transaction or a
// *Composite.
type Tx interface {
	ID() uuid.UUID
	Name() string

	// Commit runs the unit on the connection it was created for and
	// calls cb exactly once with its result.
	Commit(cb Callback)

	execute(c *Conn) Result
	owner() *Conn
	claim(r Role)
	contains(x Tx) bool
}

// A Transaction is one requested protocol operation together with the
// hooks that run around it on the same queue slot.
//
// A Transaction may be committed once. Hooks are owned by the transaction
// they are attached to and are committed with it.
type Transaction struct {
	id      uuid.UUID
	name    string
	kind    Kind
	req     Request
	timeout time.Duration
	conn    *Conn

	pre  []Tx
	post []Tx

	committed int32
}

// NewTransaction returns a transaction of kind k for connection c. A nil c
// is allowed; committing such a transaction fails with ErrNoConnection.
func NewTransaction(c *Conn, k Kind, req Request, opts ...TxOption) *Transaction {
	k.States() // panics on an unknown kind
	o := txOptions{name: k.String()}
	for _, opt := range opts {
		opt(&o)
	}
	req.Kind = k
	req.Value = cloneBytes(req.Value)
	return &Transaction{
		id:      uuid.New(),
		name:    o.name,
		kind:    k,
		req:     req,
		timeout: o.timeout,
		conn:    c,
	}
}

func (t *Transaction) ID() uuid.UUID { return t.id }
func (t *Transaction) Name() string  { return t.name }
func (t *Transaction) Kind() Kind    { return t.kind }

// Request returns a copy of the request t will issue.
func (t *Transaction) Request() Request {
	r := t.req
	r.Value = cloneBytes(r.Value)
	return r
}

// AddPreCommit appends hooks that run, in order, before the operation.
// It panics if a hook would make the transaction tree cyclic or if t has
// already been committed.
func (t *Transaction) AddPreCommit(hooks ...Tx) *Transaction {
	t.pre = append(t.pre, t.checkHooks(hooks)...)
	return t
}

// AddPostCommit appends hooks that run, in order, after a successful
// operation. The last hook's result is the one delivered.
func (t *Transaction) AddPostCommit(hooks ...Tx) *Transaction {
	t.post = append(t.post, t.checkHooks(hooks)...)
	return t
}

func (t *Transaction) checkHooks(hooks []Tx) []Tx {
	if atomic.LoadInt32(&t.committed) != 0 {
		panic("gatt: hooks added to committed transaction " + t.name)
	}
	for _, h := range hooks {
		if h == nil {
			panic("gatt: nil hook on transaction " + t.name)
		}
		if h.contains(t) {
			panic("gatt: hook " + h.Name() + " contains transaction " + t.name)
		}
		if h.owner() != t.conn {
			panic("gatt: hook " + h.Name() + " belongs to another connection than " + t.name)
		}
	}
	return hooks
}

// Commit runs t on its connection. See Tx.
func (t *Transaction) Commit(cb Callback) {
	if t.conn == nil {
		commitDetached(t, cb)
		return
	}
	t.conn.RunTx(t, cb)
}

func (t *Transaction) owner() *Conn { return t.conn }

func (t *Transaction) claim(r Role) {
	if !atomic.CompareAndSwapInt32(&t.committed, 0, 1) {
		panic("gatt: transaction " + t.name + " committed twice")
	}
	if kr := t.kind.Role(); kr != RoleAny && r != RoleAny && kr != r {
		panic(fmt.Sprintf("gatt: %s transaction %s on %s connection", kr, t.name, r))
	}
	for _, h := range t.pre {
		h.claim(r)
	}
	for _, h := range t.post {
		h.claim(r)
	}
}

func (t *Transaction) contains(x Tx) bool {
	if Tx(t) == x {
		return true
	}
	for _, h := range t.pre {
		if h.contains(x) {
			return true
		}
	}
	for _, h := range t.post {
		if h.contains(x) {
			return true
		}
	}
	return false
}

func (t *Transaction) execute(c *Conn) Result {
	start := time.Now()
	r := t.run(c)
	r.Elapsed = time.Since(start)
	return r
}

func (t *Transaction) run(c *Conn) Result {
	log := c.log.WithFields(logrus.Fields{"tx": t.name, "kind": t.kind})

	if r, ok := t.check(c, log); !ok {
		return r
	}

	for _, h := range t.pre {
		hr := h.execute(c)
		if !hr.OK() {
			log.WithField("hook", hr.Name).Warn("precommit hook failed")
			r := t.result(ResultFailure, c.State())
			r.Err = fmt.Errorf("%w: precommit %s: %v", ErrHook, hr.Name, hr.Err)
			r.Cause = &hr
			return r
		}
	}
	// Precommit hooks may have moved the connection.
	if len(t.pre) > 0 {
		if r, ok := t.check(c, log); !ok {
			return r
		}
	}

	r := t.commit(c, log)
	if !r.OK() {
		return r
	}

	for _, h := range t.post {
		hr := h.execute(c)
		if !hr.OK() {
			log.WithField("hook", hr.Name).Warn("postcommit hook failed")
			return hr
		}
		r = hr
	}
	return r
}

// check validates t against the connection's current state.
func (t *Transaction) check(c *Conn, log logrus.FieldLogger) (Result, bool) {
	cur := c.State()
	v := CheckTransaction(cur, t)
	if v == VerdictOK {
		return Result{}, true
	}
	log.WithFields(logrus.Fields{"state": cur, "verdict": v}).Warn("transaction rejected")
	r := t.result(ResultFailure, cur)
	r.Verdict = v
	r.Err = fmt.Errorf("%w: %s from %s", ErrRejected, v, cur)
	return r, false
}

// commit performs the operation itself and waits for whichever comes
// first: the stack's answer or the timeout.
func (t *Transaction) commit(c *Conn, log logrus.FieldLogger) Result {
	if t.kind.local() {
		c.setState(t.req.State)
		return t.result(ResultSuccess, t.req.State)
	}

	req := t.req
	if t.kind.Role() == RoleClient {
		req.Peer = c.peer
	}
	if req.Peer.IsZero() && t.kind.needsPeer() {
		r := t.result(ResultFailure, c.State())
		r.Err = ErrNoPeer
		return r
	}

	progress, success, failure := t.kind.States()
	timeout := t.timeout
	if timeout <= 0 {
		timeout = c.opts.timeout
	}

	var fired int32
	done := make(chan Response, 1)
	c.setState(progress)
	log.Debug("transaction committed")
	err := c.stack.Issue(req, func(resp Response) {
		if !atomic.CompareAndSwapInt32(&fired, 0, 1) {
			log.Warn("late stack callback discarded")
			return
		}
		resp.Value = cloneBytes(resp.Value)
		resp.Services = append([]*Service(nil), resp.Services...)
		done <- resp
	})
	if err != nil {
		atomic.StoreInt32(&fired, 1)
		c.setState(failure)
		r := t.result(ResultFailure, failure)
		r.Err = fmt.Errorf("gatt: issue %s: %w", t.kind, err)
		return r
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var resp Response
	select {
	case resp = <-done:
	case <-timer.C:
		if atomic.CompareAndSwapInt32(&fired, 0, 1) {
			log.WithField("timeout", timeout).Warn("transaction timed out")
			c.setState(failure)
			r := t.result(ResultTimeout, failure)
			r.Err = ErrTimeout
			return r
		}
		// The stack answered as the timer fired; its response is buffered.
		resp = <-done
	}

	if !resp.Status.OK() {
		c.setState(failure)
		r := t.fill(t.result(ResultFailure, failure), resp)
		r.Err = fmt.Errorf("%w: %s", ErrStackStatus, resp.Status)
		log.WithField("status", resp.Status).Debug("transaction failed")
		return r
	}
	c.observe(req, resp)
	c.setState(success)
	log.Debug("transaction succeeded")
	return t.fill(t.result(ResultSuccess, success), resp)
}

func (t *Transaction) result(s ResultStatus, st State) Result {
	return Result{
		TxID:   t.id,
		Name:   t.name,
		Kind:   t.kind,
		Status: s,
		State:  st,
	}
}

func (t *Transaction) fill(r Result, resp Response) Result {
	r.StackStatus = resp.Status
	r.Value = resp.Value
	r.RSSI = resp.RSSI
	r.MTU = resp.MTU
	r.TxPhy = resp.TxPhy
	r.RxPhy = resp.RxPhy
	r.Services = resp.Services
	r.Handle = resp.Handle
	return r
}

// commitDetached delivers the failure of a unit that has no connection.
func commitDetached(tx Tx, cb Callback) {
	if cb == nil {
		panic("gatt: nil callback")
	}
	tx.claim(RoleAny)
	cb(Result{TxID: tx.ID(), Name: tx.Name(), Status: ResultFailure, Err: ErrNoConnection})
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	return append([]byte(nil), b...)
}

// needsPeer reports whether k addresses a remote device.
func (k Kind) needsPeer() bool {
	switch k {
	case KindSetState, KindAddService, KindRemoveService, KindClearServices:
		return false
	}
	return true
}
