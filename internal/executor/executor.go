// Package executor provides the serial execution context the organizer
// runs on. The organizer performs no internal locking; instead, every
// registration call and lifecycle callback is funneled through one Serial
// instance, which executes submitted jobs one at a time, in arrival order,
// on a single goroutine.
package executor

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"sync/atomic"
)

// Executor errors.
var (
	// ErrAlreadyRunning indicates Start was called on a running executor.
	ErrAlreadyRunning = errors.New("executor: already running")

	// ErrNotRunning indicates a job was submitted to a stopped executor.
	ErrNotRunning = errors.New("executor: not running")

	// ErrQueueFull indicates the job queue is at capacity.
	ErrQueueFull = errors.New("executor: queue full")
)

// PanicHandler is called when a job panics. The panic is contained; the
// executor keeps draining its queue.
type PanicHandler func(recovered any, stack []byte)

// Serial executes jobs sequentially on a single goroutine.
type Serial struct {
	queueSize    int
	panicHandler PanicHandler

	mu      sync.Mutex // protects queue creation/destruction
	queue   chan func()
	running atomic.Bool
	wg      sync.WaitGroup

	executed atomic.Uint64
	panicked atomic.Uint64
	dropped  atomic.Uint64
}

// Option configures a Serial executor.
type Option func(*Serial)

// WithQueueSize sets the job queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Serial) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithPanicHandler sets the panic handler. The default discards the panic.
func WithPanicHandler(h PanicHandler) Option {
	return func(s *Serial) {
		if h != nil {
			s.panicHandler = h
		}
	}
}

// NewSerial creates a serial executor with the given options.
func NewSerial(opts ...Option) *Serial {
	s := &Serial{
		queueSize:    1024,
		panicHandler: func(any, []byte) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start starts the executor's goroutine.
func (s *Serial) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running.Load() {
		return ErrAlreadyRunning
	}

	s.queue = make(chan func(), s.queueSize)
	s.running.Store(true)

	s.wg.Add(1)
	go s.loop()
	return nil
}

// Stop stops the executor gracefully. Queued jobs are drained before Stop
// returns, or the context's error is returned if it expires first.
func (s *Serial) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running.Load() {
		s.mu.Unlock()
		return ErrNotRunning
	}
	s.running.Store(false)
	close(s.queue)
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning reports whether the executor accepts jobs.
func (s *Serial) IsRunning() bool {
	return s.running.Load()
}

// Execute enqueues a job. Returns ErrQueueFull when the queue is at
// capacity rather than blocking the caller.
func (s *Serial) Execute(job func()) error {
	if job == nil {
		return nil
	}
	if !s.running.Load() {
		return ErrNotRunning
	}

	select {
	case s.queue <- job:
		return nil
	default:
		s.dropped.Add(1)
		return ErrQueueFull
	}
}

// ExecuteBlocking enqueues a job and waits for it to finish. The wait is
// bounded by ctx. Must not be called from a job already running on this
// executor; that deadlocks by construction.
func (s *Serial) ExecuteBlocking(ctx context.Context, job func()) error {
	if job == nil {
		return nil
	}

	done := make(chan struct{})
	err := s.Execute(func() {
		defer close(done)
		job()
	})
	if err != nil {
		return err
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Executed returns the number of jobs run to completion or panic.
func (s *Serial) Executed() uint64 {
	return s.executed.Load()
}

// Panicked returns the number of jobs that panicked.
func (s *Serial) Panicked() uint64 {
	return s.panicked.Load()
}

// Dropped returns the number of jobs rejected with ErrQueueFull.
func (s *Serial) Dropped() uint64 {
	return s.dropped.Load()
}

func (s *Serial) loop() {
	defer s.wg.Done()

	for job := range s.queue {
		s.run(job)
	}
}

func (s *Serial) run(job func()) {
	defer func() {
		s.executed.Add(1)
		if r := recover(); r != nil {
			s.panicked.Add(1)
			stack := debug.Stack()
			// Contain a panicking panic handler as well.
			func() {
				defer func() { _ = recover() }()
				s.panicHandler(r, stack)
			}()
		}
	}()

	job()
}
