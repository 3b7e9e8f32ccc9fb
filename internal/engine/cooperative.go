package engine

import "sync"

// cooperativeBackend processes cycles on behalf of its callers: each
// wake runs (or posts) a processing step on the host's single logical
// thread of execution. The mutex keeps the single-cycle invariant even
// when the host lies about serializing callbacks, and TryLock makes a
// wake issued from inside a running cycle (an effect submitting more
// work) a no-op instead of a deadlock; the running step's drain loop
// picks that work up.
type cooperativeBackend struct {
	// post runs steps on the host loop; nil means "run on the caller".
	post func(func())

	mu     sync.Mutex
	r      Runner
	settle sync.Once
}

// NewCooperativeBackend returns a backend that posts cycle processing to
// the caller-supplied single-threaded loop, e.g. a UI message loop. The
// loop is shared property and is not torn down on quit.
func NewCooperativeBackend(post func(func())) Backend {
	return &cooperativeBackend{post: post}
}

// NewInlineBackend returns a backend that runs cycles synchronously on
// whichever goroutine submits work. Submissions block until the cycle
// that covers them has run.
func NewInlineBackend() Backend {
	return &cooperativeBackend{}
}

func (b *cooperativeBackend) Start(r Runner) { b.r = r }

func (b *cooperativeBackend) Wake() {
	if b.post != nil {
		b.post(b.step)
		return
	}
	b.step()
}

func (b *cooperativeBackend) step() {
	for {
		if !b.mu.TryLock() {
			return
		}
		r := b.r
		if !r.Running() {
			b.mu.Unlock()
			b.finish()
			return
		}
		if r.Stopping() {
			r.DrainAndStop()
			b.mu.Unlock()
			b.finish()
			return
		}
		for r.Running() && !r.Stopping() && r.Pending() {
			r.RunCycle()
		}
		b.mu.Unlock()
		if !r.Running() {
			b.finish()
			return
		}
		if !r.Pending() && !r.Stopping() {
			return
		}
		// Work or a quit slipped in between the last drain check and the
		// unlock; go around again.
	}
}

func (b *cooperativeBackend) finish() {
	b.settle.Do(func() { b.r.Settle(nil) })
}
