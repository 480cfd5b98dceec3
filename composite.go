package gatt

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// A Composite runs an ordered list of units as one request on one queue
// slot. It stops at the first member that does not succeed; the members
// after it never run.
//
// The delivered Result succeeds only if every member did. Its Results
// field holds the member results up to and including the failing one, and
// its Kind and State are those of the last member that ran.
type Composite struct {
	id      uuid.UUID
	name    string
	conn    *Conn
	members []Tx

	committed int32
}

// NewComposite returns a composite of members for connection c.
// It panics if a member is nil or appears more than once.
func NewComposite(c *Conn, members []Tx, opts ...TxOption) *Composite {
	o := txOptions{name: "Composite"}
	for _, opt := range opts {
		opt(&o)
	}
	for i, m := range members {
		if m == nil {
			panic(fmt.Sprintf("gatt: nil member %d in composite %s", i, o.name))
		}
		if m.owner() != c {
			panic("gatt: composite " + o.name + " member " + m.Name() + " belongs to another connection")
		}
		for _, other := range members[:i] {
			if other.contains(m) || m.contains(other) {
				panic("gatt: composite " + o.name + " holds " + m.Name() + " twice")
			}
		}
	}
	return &Composite{
		id:      uuid.New(),
		name:    o.name,
		conn:    c,
		members: append([]Tx(nil), members...),
	}
}

func (x *Composite) ID() uuid.UUID { return x.id }
func (x *Composite) Name() string  { return x.name }

// Len returns the number of members.
func (x *Composite) Len() int { return len(x.members) }

// Commit runs x on its connection. See Tx.
func (x *Composite) Commit(cb Callback) {
	if x.conn == nil {
		commitDetached(x, cb)
		return
	}
	x.conn.RunTx(x, cb)
}

func (x *Composite) owner() *Conn { return x.conn }

func (x *Composite) claim(r Role) {
	if !atomic.CompareAndSwapInt32(&x.committed, 0, 1) {
		panic("gatt: composite " + x.name + " committed twice")
	}
	for _, m := range x.members {
		m.claim(r)
	}
}

func (x *Composite) contains(t Tx) bool {
	if Tx(x) == t {
		return true
	}
	for _, m := range x.members {
		if m.contains(t) {
			return true
		}
	}
	return false
}

func (x *Composite) execute(c *Conn) Result {
	start := time.Now()
	agg := Result{
		TxID:   x.id,
		Name:   x.name,
		Status: ResultSuccess,
		State:  c.State(),
	}
	results := make([]Result, 0, len(x.members))
	for _, m := range x.members {
		r := m.execute(c)
		results = append(results, r)
		agg.Kind = r.Kind
		agg.State = r.State
		if !r.OK() {
			agg.Status = r.Status
			agg.Verdict = r.Verdict
			agg.StackStatus = r.StackStatus
			agg.Err = fmt.Errorf("gatt: composite %s stopped at %s: %w", x.name, r.Name, r.Err)
			c.log.WithField("tx", x.name).WithField("member", r.Name).Warn("composite halted")
			break
		}
	}
	agg.Results = results
	agg.Elapsed = time.Since(start)
	return agg
}
