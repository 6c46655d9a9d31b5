package parallel

import (
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// Pool Creation Tests
// =============================================================================

func TestPool_Create(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	if pool.workers != 4 {
		t.Errorf("workers = %d, want 4", pool.workers)
	}
	if !pool.running.Load() {
		t.Error("Pool should be running after creation")
	}
}

func TestPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool := NewPool(n)
		if pool.workers != runtime.GOMAXPROCS(0) {
			t.Errorf("NewPool(%d).workers = %d, want GOMAXPROCS", n, pool.workers)
		}
		pool.Close()
	}
}

// =============================================================================
// Run Tests
// =============================================================================

func TestPool_Run(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	const n = 100
	var hits [n]atomic.Int32
	pool.Run(n, func(i int) { hits[i].Add(1) })

	for i := range hits {
		if got := hits[i].Load(); got != 1 {
			t.Errorf("index %d ran %d times, want 1", i, got)
		}
	}
}

func TestPool_RunEmpty(t *testing.T) {
	pool := NewPool(2)
	defer pool.Close()

	// Should not panic or block
	pool.Run(0, func(int) { t.Error("fn called for n = 0") })
	pool.Run(-1, func(int) { t.Error("fn called for n < 0") })
}

func TestPool_RunWaits(t *testing.T) {
	pool := NewPool(3)
	defer pool.Close()

	var done atomic.Int32
	pool.Run(6, func(int) {
		time.Sleep(5 * time.Millisecond)
		done.Add(1)
	})
	if done.Load() != 6 {
		t.Errorf("Run returned with %d of 6 calls finished", done.Load())
	}
}

func TestPool_RunParallel(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	// All four calls must be in flight together to pass the barrier.
	var barrier sync.WaitGroup
	barrier.Add(4)
	finished := make(chan struct{})
	go func() {
		pool.Run(4, func(int) {
			barrier.Done()
			barrier.Wait()
		})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not execute calls concurrently")
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestPool_CloseIdempotent(t *testing.T) {
	pool := NewPool(2)
	pool.Close()
	pool.Close()

	if pool.running.Load() {
		t.Error("Pool should not be running after Close")
	}
}

func TestPool_RunAfterClose(t *testing.T) {
	pool := NewPool(2)
	pool.Close()

	var sum atomic.Int64
	pool.Run(10, func(i int) { sum.Add(int64(i)) })
	if sum.Load() != 45 {
		t.Errorf("sum = %d after inline run, want 45", sum.Load())
	}
}

func TestPool_ConcurrentRun(t *testing.T) {
	pool := NewPool(4)
	defer pool.Close()

	var total atomic.Int64
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Run(25, func(int) { total.Add(1) })
		}()
	}
	wg.Wait()

	if total.Load() != 200 {
		t.Errorf("total = %d, want 200", total.Load())
	}
}

func BenchmarkPool_Run(b *testing.B) {
	pool := NewPool(runtime.GOMAXPROCS(0))
	defer pool.Close()

	b.ReportAllocs()
	for b.Loop() {
		pool.Run(64, func(int) {})
	}
}
