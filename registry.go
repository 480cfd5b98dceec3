package gatt

import (
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// A Registry holds the live connections of one process, keyed by peer
// address, and the local server endpoint.
//
// A Registry does not schedule anything by itself; whoever owns it calls
// Sweep periodically and RadioOff/RadioOn as the radio comes and goes.
type Registry struct {
	stack Stack
	opts  []Option
	log   logrus.FieldLogger

	mu     sync.RWMutex
	conns  map[string]*ClientConn
	server *ServerConn
}

// NewRegistry returns an empty registry whose connections use stack and
// opts.
func NewRegistry(stack Stack, opts ...Option) *Registry {
	if stack == nil {
		panic("gatt: nil stack")
	}
	o := defaultOptions()
	o.apply(opts)
	return &Registry{
		stack: stack,
		opts:  append([]Option(nil), opts...),
		log:   o.log.WithField("component", "registry"),
		conns: make(map[string]*ClientConn),
	}
}

// Open returns the connection to addr, creating it if there is none.
func (r *Registry) Open(addr BDAddr) *ClientConn {
	key := addr.String()
	r.mu.RLock()
	c, ok := r.conns[key]
	r.mu.RUnlock()
	if ok {
		return c
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.conns[key]; ok {
		return c
	}
	c = NewClientConn(r.stack, addr, r.opts...)
	r.conns[key] = c
	r.log.WithField("peer", key).Debug("connection opened")
	return c
}

// Add stores c under its peer address. A different connection already
// stored there is dropped and closed.
func (r *Registry) Add(c *ClientConn) {
	key := c.Peer().String()
	r.mu.Lock()
	old := r.conns[key]
	r.conns[key] = c
	r.mu.Unlock()
	if old != nil && old != c {
		r.drop(old)
	}
}

// Connection returns the connection to addr, if any.
func (r *Registry) Connection(addr BDAddr) (*ClientConn, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[addr.String()]
	return c, ok
}

// Connections returns the client connections ordered by peer address.
func (r *Registry) Connections() []*ClientConn {
	r.mu.RLock()
	cs := make([]*ClientConn, 0, len(r.conns))
	for _, c := range r.conns {
		cs = append(cs, c)
	}
	r.mu.RUnlock()
	sort.Slice(cs, func(i, j int) bool { return cs[i].Peer().String() < cs[j].Peer().String() })
	return cs
}

// Len returns the number of client connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// Remove drops and closes the connection to addr. It reports whether
// there was one.
func (r *Registry) Remove(addr BDAddr) bool {
	key := addr.String()
	r.mu.Lock()
	c, ok := r.conns[key]
	delete(r.conns, key)
	r.mu.Unlock()
	if ok {
		r.drop(c)
	}
	return ok
}

// Server returns the local server endpoint, creating it on first use.
func (r *Registry) Server() *ServerConn {
	r.mu.RLock()
	s := r.server
	r.mu.RUnlock()
	if s != nil {
		return s
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.server == nil {
		r.server = NewServerConn(r.stack, r.opts...)
	}
	return r.server
}

// Sweep ages the connections whose link is down. One with no TTL left is
// dropped: its listeners see Removed and it is closed. Others lose one
// TTL. Connections that are up, busy or radio-off are left alone.
// Sweep returns the addresses it evicted.
func (r *Registry) Sweep() []BDAddr {
	var evicted []*ClientConn
	r.mu.Lock()
	for key, c := range r.conns {
		if c.expire() {
			evicted = append(evicted, c)
			delete(r.conns, key)
		}
	}
	r.mu.Unlock()

	addrs := make([]BDAddr, 0, len(evicted))
	for _, c := range evicted {
		r.log.WithField("peer", c.Peer().String()).Info("connection evicted")
		r.drop(c)
		addrs = append(addrs, c.Peer())
	}
	return addrs
}

// RadioOff forces every connection, the server endpoint included, into
// StateRadioOff.
func (r *Registry) RadioOff() {
	r.log.Info("radio off")
	r.each(func(c *Conn) error {
		c.ForceState(StateRadioOff)
		return nil
	})
}

// RadioOn releases connections from StateRadioOff: client connections go
// to StateDisconnected and the server endpoint to StateIdle. Transactions
// that failed while the radio was off are not retried.
func (r *Registry) RadioOn() {
	r.log.Info("radio on")
	r.each(func(c *Conn) error {
		if c.State() != StateRadioOff {
			return nil
		}
		if c.Role() == RoleServer {
			c.ForceState(StateIdle)
		} else {
			c.ForceState(StateDisconnected)
		}
		return nil
	})
}

// Close closes every connection and empties the registry.
func (r *Registry) Close() error {
	err := r.each(func(c *Conn) error { return c.Close() })
	r.mu.Lock()
	r.conns = make(map[string]*ClientConn)
	r.server = nil
	r.mu.Unlock()
	return err
}

func (r *Registry) drop(c *ClientConn) {
	c.removed()
	if err := c.Close(); err != nil {
		r.log.WithError(err).Warn("close failed")
	}
}

// each runs f on every connection in parallel.
func (r *Registry) each(f func(c *Conn) error) error {
	r.mu.RLock()
	all := make([]*Conn, 0, len(r.conns)+1)
	for _, c := range r.conns {
		all = append(all, c.Conn)
	}
	if r.server != nil {
		all = append(all, r.server.Conn)
	}
	r.mu.RUnlock()

	var g errgroup.Group
	for _, c := range all {
		c := c
		g.Go(func() error { return f(c) })
	}
	return g.Wait()
}
