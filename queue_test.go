package gatt

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordWork records what the queue did with it.
type recordWork struct {
	f       func()
	ran     chan struct{}
	aborted chan error
}

func newRecordWork(f func()) *recordWork {
	return &recordWork{f: f, ran: make(chan struct{}), aborted: make(chan error, 1)}
}

func (w *recordWork) run() {
	defer close(w.ran)
	if w.f != nil {
		w.f()
	}
}

func (w *recordWork) abort(err error) { w.aborted <- err }

func wait(t *testing.T, c <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-c:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestQueueFIFO(t *testing.T) {
	q := newQueue(logrus.StandardLogger())
	assert.True(t, q.Stopped())

	var (
		mu  sync.Mutex
		got []int
	)
	last := make(chan struct{})
	for i := 0; i < 50; i++ {
		i := i
		require.True(t, q.post(func() {
			mu.Lock()
			got = append(got, i)
			mu.Unlock()
			if i == 49 {
				close(last)
			}
		}))
	}
	assert.False(t, q.Stopped(), "enqueue starts the worker")
	wait(t, last, "last unit")

	mu.Lock()
	defer mu.Unlock()
	for i, v := range got {
		assert.Equal(t, i, v)
	}
	assert.Len(t, got, 50)
}

func TestQueueOneAtATime(t *testing.T) {
	q := newQueue(logrus.StandardLogger())
	var (
		mu      sync.Mutex
		running int
		max     int
	)
	done := make(chan struct{})
	for i := 0; i < 20; i++ {
		i := i
		q.post(func() {
			mu.Lock()
			running++
			if running > max {
				max = running
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			running--
			mu.Unlock()
			if i == 19 {
				close(done)
			}
		})
	}
	wait(t, done, "queue")
	mu.Lock()
	assert.Equal(t, 1, max)
	mu.Unlock()
}

func TestQueueFaultIsolation(t *testing.T) {
	q := newQueue(logrus.StandardLogger())

	bad := newRecordWork(func() { panic("boom") })
	good := newRecordWork(nil)
	require.NoError(t, q.enqueue(bad))
	require.NoError(t, q.enqueue(good))

	select {
	case err := <-bad.aborted:
		assert.True(t, errors.Is(err, ErrPanic), "got %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("panicking unit was not aborted")
	}
	wait(t, good.ran, "unit after panic")
	assert.False(t, q.Stopped())
}

func TestQueueStartIdempotent(t *testing.T) {
	q := newQueue(logrus.StandardLogger())
	q.Start()
	q.Start()
	assert.False(t, q.Stopped())

	w := newRecordWork(nil)
	require.NoError(t, q.enqueue(w))
	wait(t, w.ran, "unit")

	q.Stop()
	q.Stop()
	assert.True(t, q.Stopped())
}

func TestQueueStopAbortsPending(t *testing.T) {
	q := newQueue(logrus.StandardLogger())

	release := make(chan struct{})
	started := make(chan struct{})
	first := newRecordWork(func() {
		close(started)
		<-release
	})
	second := newRecordWork(nil)
	require.NoError(t, q.enqueue(first))
	require.NoError(t, q.enqueue(second))
	wait(t, started, "first unit")

	q.Stop()
	assert.True(t, q.Stopped())
	select {
	case err := <-second.aborted:
		assert.ErrorIs(t, err, ErrQueueStopped)
	case <-time.After(2 * time.Second):
		t.Fatal("pending unit was not aborted")
	}
	assert.Equal(t, 0, q.Len())

	// The in-flight unit completes.
	close(release)
	wait(t, first.ran, "in-flight unit")

	// Work after Stop restarts the worker.
	third := newRecordWork(nil)
	require.NoError(t, q.enqueue(third))
	wait(t, third.ran, "unit after restart")
	assert.False(t, q.Stopped())
}

func TestQueueRestartDoesNotOverlap(t *testing.T) {
	q := newQueue(logrus.StandardLogger())

	release := make(chan struct{})
	started := make(chan struct{})
	first := newRecordWork(func() {
		close(started)
		<-release
	})
	require.NoError(t, q.enqueue(first))
	wait(t, started, "first unit")
	q.Stop()

	second := newRecordWork(nil)
	require.NoError(t, q.enqueue(second))
	select {
	case <-second.ran:
		t.Fatal("restarted worker ran while the old one was busy")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	wait(t, second.ran, "second unit")
}

func TestQueueClose(t *testing.T) {
	q := newQueue(logrus.StandardLogger())
	release := make(chan struct{})
	started := make(chan struct{})
	first := newRecordWork(func() {
		close(started)
		<-release
	})
	second := newRecordWork(nil)
	require.NoError(t, q.enqueue(first))
	require.NoError(t, q.enqueue(second))
	wait(t, started, "first unit")

	q.close(ErrConnClosed)
	assert.ErrorIs(t, <-second.aborted, ErrConnClosed)
	assert.ErrorIs(t, q.enqueue(newRecordWork(nil)), ErrConnClosed)

	close(release)
	q.wait()
	assert.True(t, q.Stopped())
}

func TestQueueCloseDrain(t *testing.T) {
	q := newQueue(logrus.StandardLogger())
	var (
		mu sync.Mutex
		n  int
	)
	for i := 0; i < 10; i++ {
		q.post(func() {
			time.Sleep(time.Millisecond)
			mu.Lock()
			n++
			mu.Unlock()
		})
	}
	q.closeDrain()
	assert.False(t, q.post(func() {}))
	q.wait()

	mu.Lock()
	assert.Equal(t, 10, n)
	mu.Unlock()
	assert.True(t, q.Stopped())
}
