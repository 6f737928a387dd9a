package content

import (
	"context"
	"sync"
	"sync/atomic"
)

// Dispatcher hands work back to the control thread. Post may be called
// from any goroutine; fn always runs on the control thread.
type Dispatcher interface {
	Post(fn func())
	// Go runs work on its own goroutine and then posts the function it
	// returns, if any, to the control thread.
	Go(work func() (apply func()))
}

// Loop is a Dispatcher for runs without a toolkit event loop, such as
// headless sessions and tests. Callbacks run inside Drain or Run on the
// calling goroutine, which becomes the control thread.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
	// pending counts queued callbacks plus Go work still in flight.
	pending atomic.Int64
}

// NewLoop creates an idle loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post implements Dispatcher.
func (l *Loop) Post(fn func()) {
	l.pending.Add(1)
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	l.signal()
}

// Go implements Dispatcher.
func (l *Loop) Go(work func() func()) {
	l.pending.Add(1)
	go func() {
		apply := work()
		// Post before releasing the work slot so Drain never sees zero
		// while a result is on its way.
		l.Post(func() {
			if apply != nil {
				apply()
			}
		})
		l.pending.Add(-1)
		l.signal()
	}()
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// RunPending runs the callbacks queued so far and returns how many ran.
func (l *Loop) RunPending() int {
	l.mu.Lock()
	queue := l.queue
	l.queue = nil
	l.mu.Unlock()

	for _, fn := range queue {
		fn()
		l.pending.Add(-1)
	}
	return len(queue)
}

// Pending reports queued callbacks plus work in flight.
func (l *Loop) Pending() int {
	return int(l.pending.Load())
}

// Drain runs callbacks until nothing is queued or in flight, or ctx ends.
func (l *Loop) Drain(ctx context.Context) error {
	for {
		l.RunPending()
		if l.pending.Load() == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Run runs callbacks until ctx ends.
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.RunPending()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}
