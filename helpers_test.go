package gatt_test

import (
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/XC-/gatt-core"
)

var (
	peerA = gatt.MustParseBDAddr("c4:7c:8d:6a:3b:11")
	peerB = gatt.MustParseBDAddr("c4:7c:8d:6a:3b:22")

	heartRate   = gatt.UUID16(0x180d)
	measurement = gatt.UUID16(0x2a37)
	control     = gatt.UUID16(0x2a39)
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newClient(t *testing.T, stack gatt.Stack, opts ...gatt.Option) *gatt.ClientConn {
	t.Helper()
	opts = append([]gatt.Option{gatt.Logger(quietLogger())}, opts...)
	c := gatt.NewClientConn(stack, peerA, opts...)
	t.Cleanup(func() { c.Close() })
	return c
}

// collector counts deliveries so tests can check a callback fired once.
type collector struct {
	n  int32
	ch chan gatt.Result
}

func newCollector() *collector { return &collector{ch: make(chan gatt.Result, 16)} }

func (c *collector) cb(r gatt.Result) {
	atomic.AddInt32(&c.n, 1)
	c.ch <- r
}

func (c *collector) count() int { return int(atomic.LoadInt32(&c.n)) }

func (c *collector) next(t *testing.T) gatt.Result {
	t.Helper()
	select {
	case r := <-c.ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("no result delivered")
	}
	return gatt.Result{}
}

// run commits tx and returns its result after checking no second result
// follows.
func run(t *testing.T, tx gatt.Tx) gatt.Result {
	t.Helper()
	c := newCollector()
	tx.Commit(c.cb)
	r := c.next(t)
	time.Sleep(10 * time.Millisecond)
	if n := c.count(); n != 1 {
		t.Fatalf("%s delivered %d results", tx.Name(), n)
	}
	return r
}

func connect(t *testing.T, c *gatt.ClientConn) {
	t.Helper()
	if r := run(t, c.Connect()); !r.OK() {
		t.Fatalf("connect: %v", r.Err)
	}
}

type stateChange struct{ from, to gatt.State }

// recorder is a ClientListener and ServerListener that records events.
type recorder struct {
	mu       sync.Mutex
	changes  []stateChange
	notified [][]byte
	removed  int
	requests []*gatt.ServerRequest
	peers    map[string]bool
	event    chan struct{}
}

func newRecorder() *recorder {
	return &recorder{peers: make(map[string]bool), event: make(chan struct{}, 64)}
}

func (r *recorder) signal() {
	select {
	case r.event <- struct{}{}:
	default:
	}
}

func (r *recorder) StateChanged(_ *gatt.ClientConn, from, to gatt.State) {
	r.mu.Lock()
	r.changes = append(r.changes, stateChange{from, to})
	r.mu.Unlock()
	r.signal()
}

func (r *recorder) Notified(_ *gatt.ClientConn, _ gatt.UUID, value []byte) {
	r.mu.Lock()
	r.notified = append(r.notified, value)
	r.mu.Unlock()
	r.signal()
}

func (r *recorder) Removed(*gatt.ClientConn) {
	r.mu.Lock()
	r.removed++
	r.mu.Unlock()
	r.signal()
}

func (r *recorder) waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		r.mu.Lock()
		ok := cond()
		r.mu.Unlock()
		if ok {
			return
		}
		select {
		case <-r.event:
		case <-deadline:
			t.Fatal("condition not reached")
		}
	}
}

type serverRecorder struct {
	*recorder
}

func (r serverRecorder) StateChanged(_ *gatt.ServerConn, from, to gatt.State) {
	r.mu.Lock()
	r.changes = append(r.changes, stateChange{from, to})
	r.mu.Unlock()
	r.signal()
}

func (r serverRecorder) Request(_ *gatt.ServerConn, req *gatt.ServerRequest) {
	r.mu.Lock()
	r.requests = append(r.requests, req)
	r.mu.Unlock()
	r.signal()
}

func (r serverRecorder) PeerConnectionChanged(_ *gatt.ServerConn, peer gatt.BDAddr, connected bool) {
	r.mu.Lock()
	r.peers[peer.String()] = connected
	r.mu.Unlock()
	r.signal()
}
