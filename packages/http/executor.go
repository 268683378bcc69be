package http

import (
	"context"
	"sync"
)

// Executor is the context completion handlers run on
type Executor interface {
	Submit(fn func())
}

// ExecutorFunc adapts a function to Executor
type ExecutorFunc func(fn func())

func (f ExecutorFunc) Submit(fn func()) {
	f(fn)
}

// Immediate runs handlers on the goroutine that completes the exchange
var Immediate Executor = ExecutorFunc(func(fn func()) { fn() })

// Queue is a serial FIFO executor. Submitted functions run one at a time, in
// order, on the goroutine calling Run. Submit never blocks.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
}

// NewQueue creates an idle queue; call Run to start draining it
func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

func (q *Queue) Submit(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Run executes submitted functions until ctx is done
func (q *Queue) Run(ctx context.Context) error {
	for {
		if fn := q.next(); fn != nil {
			fn()
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-q.wake:
		}
	}
}

// Len returns the number of functions waiting to run
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

func (q *Queue) next() func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return nil
	}
	fn := q.pending[0]
	q.pending[0] = nil
	q.pending = q.pending[1:]
	return fn
}

var (
	mainOnce  sync.Once
	mainQueue *Queue
)

// Main returns the process-wide serial queue. Its goroutine is started on
// first use and runs for the life of the process.
func Main() *Queue {
	mainOnce.Do(func() {
		mainQueue = NewQueue()
		go mainQueue.Run(context.Background())
	})
	return mainQueue
}
