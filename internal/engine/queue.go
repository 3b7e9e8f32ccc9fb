package engine

import (
	"sync"

	"github.com/petrijr/stato/pkg/api"
)

type reducerJob[S any] struct {
	fn   api.Reducer[S]
	done *api.Completion
}

type effectJob[S any] struct {
	fn   api.Action[S]
	done *api.Completion
}

// queue holds the pending work of one store: reducers and effects in
// separate FIFO sequences. Appends and detaches run under one mutex held
// only for the slice swap, never while jobs execute.
//
// A closed queue settles every new submission as discarded immediately,
// which keeps post-quit completions from hanging.
type queue[S any] struct {
	mu       sync.Mutex
	closed   bool
	reducers []reducerJob[S]
	effects  []effectJob[S]
}

func (q *queue[S]) pushReducer(fn api.Reducer[S]) *api.Completion {
	c := api.NewCompletion()
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		c.Discard()
		return c
	}
	q.reducers = append(q.reducers, reducerJob[S]{fn: fn, done: c})
	q.mu.Unlock()
	return c
}

func (q *queue[S]) pushEffect(fn api.Action[S]) *api.Completion {
	c := api.NewCompletion()
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		c.Discard()
		return c
	}
	q.effects = append(q.effects, effectJob[S]{fn: fn, done: c})
	q.mu.Unlock()
	return c
}

// detach removes and returns all pending work, both lanes in one locked
// swap. Pushes are serialized by the same mutex, so an effect in the
// returned batch always has every reducer enqueued before it in the
// batch too.
func (q *queue[S]) detach() ([]reducerJob[S], []effectJob[S]) {
	q.mu.Lock()
	reducers := q.reducers
	effects := q.effects
	q.reducers = nil
	q.effects = nil
	q.mu.Unlock()
	return reducers, effects
}

func (q *queue[S]) pending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.reducers) > 0 || len(q.effects) > 0
}

// discardAll closes the queue and settles everything still queued as
// discarded. It returns the number of jobs dropped.
func (q *queue[S]) discardAll() int {
	q.mu.Lock()
	q.closed = true
	reducers := q.reducers
	effects := q.effects
	q.reducers = nil
	q.effects = nil
	q.mu.Unlock()

	for _, j := range reducers {
		j.done.Discard()
	}
	for _, j := range effects {
		j.done.Discard()
	}
	return len(reducers) + len(effects)
}
