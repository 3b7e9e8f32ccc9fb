package engine

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/petrijr/stato/pkg/api"
)

// sharedBackend has no goroutine of its own. Every wake schedules at
// most one cycle on the executor, and a weighted semaphore with a single
// permit guarantees mutual exclusion even when the executor is a pool:
// whoever fails to take the permit knows a cycle is in flight, and that
// cycle re-checks for work after releasing it.
type sharedBackend struct {
	exec api.Executor
	// pool is non-nil only when the backend owns its executor and must
	// tear it down on quit.
	pool *workerPool

	sem     *semaphore.Weighted
	r       Runner
	stopped atomic.Bool
	settle  sync.Once
}

// NewExecutorBackend returns a backend that schedules cycles on a
// caller-supplied executor. The executor is shared property: it is not
// torn down on quit.
func NewExecutorBackend(exec api.Executor) Backend {
	return &sharedBackend{
		exec: exec,
		sem:  semaphore.NewWeighted(1),
	}
}

// NewPoolBackend returns a backend that owns a pool of workers goroutines
// and schedules cycles on it. The pool is torn down on quit, before the
// shutdown handle resolves.
func NewPoolBackend(workers int) Backend {
	if workers <= 0 {
		workers = 1
	}
	pool := newWorkerPool(workers)
	return &sharedBackend{
		exec: pool,
		pool: pool,
		sem:  semaphore.NewWeighted(1),
	}
}

func (b *sharedBackend) Start(r Runner) { b.r = r }

func (b *sharedBackend) Wake() { b.schedule() }

func (b *sharedBackend) schedule() {
	if b.stopped.Load() {
		return
	}
	if !b.sem.TryAcquire(1) {
		// A cycle is scheduled or running; it re-checks Pending after
		// releasing the permit, so the new work cannot be stranded.
		return
	}
	b.exec.Execute(b.step)
}

func (b *sharedBackend) step() {
	r := b.r
	if !r.Running() {
		b.sem.Release(1)
		b.finish()
		return
	}
	if r.Stopping() {
		r.DrainAndStop()
		b.sem.Release(1)
		b.finish()
		return
	}
	r.RunCycle()
	b.sem.Release(1)
	// Re-check after the release: a submitter that lost the permit race
	// relies on this pass to schedule the next cycle.
	if r.Pending() || r.Stopping() || !r.Running() {
		b.schedule()
	}
}

func (b *sharedBackend) finish() {
	b.settle.Do(func() {
		b.stopped.Store(true)
		if b.pool == nil {
			b.r.Settle(nil)
			return
		}
		// step may be running on a pool worker; stopping the pool from
		// there would deadlock on its own exit.
		go func() {
			b.pool.stop()
			b.r.Settle(nil)
		}()
	})
}

// workerPool is a fixed set of goroutines draining a task channel. It is
// the exclusively owned resource of a pool backend.
type workerPool struct {
	mu     sync.Mutex
	closed bool
	tasks  chan func()
	wg     sync.WaitGroup
}

func newWorkerPool(workers int) *workerPool {
	p := &workerPool{tasks: make(chan func(), 64)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer p.wg.Done()
			for fn := range p.tasks {
				fn()
			}
		}()
	}
	return p
}

// Execute submits fn to the pool. Tasks submitted after stop are dropped.
func (p *workerPool) Execute(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.tasks <- fn
}

// stop closes the task channel and waits for the workers to drain it.
func (p *workerPool) stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	p.wg.Wait()
}
