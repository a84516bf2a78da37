// Package parallel runs independent pieces of a scan on a fixed set of
// goroutines while leaving ordering decisions to the caller.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// WorkerPool is a fixed set of goroutines pulling work from a shared queue.
//
// The pool never reorders results itself: ExecuteAll only returns once every
// submitted function has finished, so callers that write into pre-sized,
// index-addressed slots get deterministic output regardless of which worker
// ran what.
//
// Thread safety: WorkerPool is safe for concurrent use.
type WorkerPool struct {
	// workers is the number of worker goroutines.
	workers int

	// queue feeds work to the workers.
	queue chan func()

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool

	// mu orders submission against Close: ExecuteAll holds it for reading
	// while sending, Close holds it for writing while closing done, so no
	// work is queued after the workers may have exited.
	mu sync.RWMutex
}

// NewWorkerPool creates a pool with the specified number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The workers start immediately.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &WorkerPool{
		workers: workers,
		queue:   make(chan func(), workers*2),
		done:    make(chan struct{}),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}

	return p
}

// worker is the main loop for each worker goroutine.
func (p *WorkerPool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.done:
			p.drain()
			return
		case work := <-p.queue:
			if work != nil {
				work()
			}
		}
	}
}

// drain executes whatever is still queued.
func (p *WorkerPool) drain() {
	for {
		select {
		case work := <-p.queue:
			if work != nil {
				work()
			}
		default:
			return
		}
	}
}

// ExecuteAll runs every function in work and waits for all of them.
// If the pool is closed the work runs on the calling goroutine instead, so
// ExecuteAll always completes the work it was given, even when Close is
// called concurrently.
func (p *WorkerPool) ExecuteAll(work []func()) {
	if len(work) == 0 {
		return
	}

	var completion sync.WaitGroup
	completion.Add(len(work))

	p.mu.RLock()
	running := p.running.Load()
	for _, fn := range work {
		wrapped := func() {
			defer completion.Done()
			fn()
		}
		if running {
			p.queue <- wrapped
		} else {
			wrapped()
		}
	}
	p.mu.RUnlock()

	completion.Wait()
}

// Close stops the workers after the queued work has run.
// Close waits for in-flight ExecuteAll submissions to finish queuing.
// Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	p.mu.Lock()
	if !p.running.CompareAndSwap(true, false) {
		p.mu.Unlock()
		return
	}
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}
