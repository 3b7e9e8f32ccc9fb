package api

import (
	"context"
	"sync/atomic"
)

// Outcome is the terminal result of a submitted job.
type Outcome int32

const (
	// OutcomePending means the job has not run yet.
	OutcomePending Outcome = iota
	// OutcomeDone means the job was applied by the store.
	OutcomeDone
	// OutcomeDiscarded means the store determined the job will never run,
	// either because it was queued behind a forced quit or because it was
	// submitted after the store stopped accepting work.
	OutcomeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeDone:
		return "done"
	case OutcomeDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Completion is the future returned for every submission. It is created
// pending and settles exactly once, to OutcomeDone or OutcomeDiscarded.
// Waiting is opt-in; submitters that do not care can drop it.
type Completion struct {
	outcome atomic.Int32
	done    chan struct{}
}

// NewCompletion returns a pending Completion. It is settled by the store;
// application code only reads it.
func NewCompletion() *Completion {
	return &Completion{done: make(chan struct{})}
}

// Done returns a channel that is closed once the completion settles.
func (c *Completion) Done() <-chan struct{} { return c.done }

// Outcome returns the current outcome without blocking.
func (c *Completion) Outcome() Outcome {
	return Outcome(c.outcome.Load())
}

// Wait blocks until the completion settles or ctx is done. On ctx
// expiry it returns OutcomePending and the context error.
func (c *Completion) Wait(ctx context.Context) (Outcome, error) {
	select {
	case <-c.done:
		return c.Outcome(), nil
	case <-ctx.Done():
		return OutcomePending, ctx.Err()
	}
}

// Complete settles the completion as done. Calls after the first settle
// of either kind are no-ops.
func (c *Completion) Complete() { c.settle(OutcomeDone) }

// Discard settles the completion as discarded.
func (c *Completion) Discard() { c.settle(OutcomeDiscarded) }

func (c *Completion) settle(o Outcome) {
	if c.outcome.CompareAndSwap(int32(OutcomePending), int32(o)) {
		close(c.done)
	}
}

// Shutdown is the handle returned by Quit and QuitSafely. It resolves
// once the backend has fully torn down; Err reports any teardown fault.
type Shutdown struct {
	done chan struct{}
	err  atomic.Value
	once atomic.Bool
}

// NewShutdown returns an unresolved Shutdown handle.
func NewShutdown() *Shutdown {
	return &Shutdown{done: make(chan struct{})}
}

// Done returns a channel that is closed once teardown completes.
func (s *Shutdown) Done() <-chan struct{} { return s.done }

// Wait blocks until teardown completes or ctx is done. It returns the
// teardown error, if any.
func (s *Shutdown) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the teardown error. It is meaningful only after Done.
func (s *Shutdown) Err() error {
	if v := s.err.Load(); v != nil {
		return v.(error)
	}
	return nil
}

// Finish resolves the handle. Only the backend calls it; later calls are
// no-ops.
func (s *Shutdown) Finish(err error) {
	if !s.once.CompareAndSwap(false, true) {
		return
	}
	if err != nil {
		s.err.Store(err)
	}
	close(s.done)
}
