package gatt

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// work is a unit a Queue runs. abort is called instead of, or after a
// panicking, run; implementations make sure their result is delivered
// only once.
type work interface {
	run()
	abort(err error)
}

// funcWork runs a plain function. Aborted funcWork is dropped.
type funcWork func()

func (f funcWork) run()          { f() }
func (f funcWork) abort(_ error) {}

// A Queue runs queued work one unit at a time, in FIFO order, on a single
// worker goroutine. The worker is started lazily on first enqueue. A unit
// that panics is reported and the worker moves on to the next one.
type Queue struct {
	log logrus.FieldLogger

	mu      sync.Mutex
	items   []work
	wake    chan struct{}
	quit    chan struct{} // closed to stop the current worker
	done    chan struct{} // closed when the current worker exits
	running bool
	closed  bool // refuses new work
	drain   bool // closed, but let the worker finish what is queued
}

func newQueue(log logrus.FieldLogger) *Queue {
	return &Queue{
		log:  log,
		wake: make(chan struct{}, 1),
	}
}

// Start starts the worker if it is not running. Start is idempotent.
func (q *Queue) Start() {
	q.mu.Lock()
	q.startLocked()
	q.mu.Unlock()
}

// Stop stops the worker once the unit it is running, if any, completes.
// Units that have not started are aborted with ErrQueueStopped. Work queued
// after Stop starts a new worker.
func (q *Queue) Stop() {
	q.mu.Lock()
	pending := q.haltLocked()
	q.mu.Unlock()
	q.abortAll(pending, ErrQueueStopped)
}

// Stopped reports whether the worker is not running.
func (q *Queue) Stopped() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return !q.running
}

// Len returns the number of units waiting to run.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) enqueue(w work) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrConnClosed
	}
	q.items = append(q.items, w)
	q.startLocked()
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
	return nil
}

// post queues f and reports whether it was accepted.
func (q *Queue) post(f func()) bool { return q.enqueue(funcWork(f)) == nil }

// close stops the queue for good, aborting pending units with err.
func (q *Queue) close(err error) {
	q.mu.Lock()
	q.closed = true
	pending := q.haltLocked()
	q.mu.Unlock()
	q.abortAll(pending, err)
}

// closeDrain refuses new work and lets the worker exit once the queue is empty.
func (q *Queue) closeDrain() {
	q.mu.Lock()
	q.closed = true
	q.drain = true
	q.mu.Unlock()
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// wait blocks until the most recent worker has exited.
func (q *Queue) wait() {
	q.mu.Lock()
	done := q.done
	q.mu.Unlock()
	if done != nil {
		<-done
	}
}

func (q *Queue) startLocked() {
	if q.running || (q.closed && !q.drain) {
		return
	}
	q.running = true
	prev := q.done
	q.quit = make(chan struct{})
	q.done = make(chan struct{})
	go q.loop(prev, q.quit, q.done)
}

func (q *Queue) haltLocked() []work {
	pending := q.items
	q.items = nil
	if q.running {
		q.running = false
		close(q.quit)
	}
	return pending
}

func (q *Queue) abortAll(ww []work, err error) {
	for _, w := range ww {
		w.abort(err)
	}
}

func (q *Queue) loop(prev, quit, done chan struct{}) {
	defer close(done)
	// A restarted worker must not overlap the one it replaces.
	if prev != nil {
		<-prev
	}
	for {
		w, ok := q.next(quit)
		if !ok {
			return
		}
		q.runSafely(w)
	}
}

func (q *Queue) next(quit chan struct{}) (work, bool) {
	for {
		select {
		case <-quit:
			return nil, false
		default:
		}

		q.mu.Lock()
		if len(q.items) > 0 {
			w := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			q.mu.Unlock()
			return w, true
		}
		if q.drain {
			q.running = false
			q.mu.Unlock()
			return nil, false
		}
		q.mu.Unlock()

		select {
		case <-q.wake:
		case <-quit:
			return nil, false
		}
	}
}

func (q *Queue) runSafely(w work) {
	defer func() {
		if r := recover(); r != nil {
			q.log.WithField("panic", r).Error("queued work panicked")
			w.abort(fmt.Errorf("%w: %v", ErrPanic, r))
		}
	}()
	w.run()
}
