// Package parallel runs independent frame renders on a fixed set of workers.
package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Pool is a fixed set of goroutines pulling tasks from a shared queue.
//
// Thread safety: Pool is safe for concurrent use.
type Pool struct {
	workers int
	tasks   chan func()
	wg      sync.WaitGroup

	// running indicates whether the pool is accepting work.
	running atomic.Bool
	closeMu sync.RWMutex
}

// NewPool starts a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{
		workers: workers,
		tasks:   make(chan func(), workers*2),
	}
	p.running.Store(true)

	p.wg.Add(workers)
	for range workers {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for task := range p.tasks {
		task()
	}
}

// Run calls fn(0) through fn(n-1) across the workers and waits for all of
// them. fn must be safe to call concurrently for different indices.
// After Close, Run executes the calls on the calling goroutine.
func (p *Pool) Run(n int, fn func(i int)) {
	if n <= 0 {
		return
	}

	p.closeMu.RLock()
	defer p.closeMu.RUnlock()

	if !p.running.Load() {
		for i := range n {
			fn(i)
		}
		return
	}

	var done sync.WaitGroup
	done.Add(n)
	for i := range n {
		p.tasks <- func() {
			defer done.Done()
			fn(i)
		}
	}
	done.Wait()
}

// Close stops the workers after queued tasks have finished.
// Close is safe to call multiple times.
func (p *Pool) Close() {
	p.closeMu.Lock()
	defer p.closeMu.Unlock()

	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.tasks)
	p.wg.Wait()
}
