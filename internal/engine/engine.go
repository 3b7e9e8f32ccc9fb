// Package engine implements the serial executor at the core of stato: a
// single logical writer that drains queued reducers and effects in FIFO
// order, publishes changed states, and coordinates shutdown with the
// backend driving it.
package engine

import (
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/petrijr/stato/pkg/api"
)

// Config carries the collaborators of an Engine. Zero fields get
// defaults: a dedicated-goroutine backend, a noop observer, structural
// equality, and an engine-owned hub.
type Config[S any] struct {
	Backend  Backend
	History  api.History[S]
	Observer api.Observer
	Equal    func(a, b S) bool
	Hub      *api.Hub[S]
	// OwnHub hands responsibility for closing Hub to the engine. Hubs
	// the engine creates itself are always owned.
	OwnHub bool
}

// Engine owns one state value and applies submitted work against it,
// one cycle at a time. It implements api.Store.
//
// The state field is written only from within a cycle; cycles never
// overlap, so the engine behaves as a single logical writer even when
// the backend is a pool.
type Engine[S any] struct {
	q   queue[S]
	hub *api.Hub[S]
	// ownHub: engines close hubs they created, never caller-supplied ones.
	ownHub  bool
	history api.History[S]
	obs     api.Observer
	equal   func(a, b S) bool
	backend Backend

	stateMu sync.RWMutex
	state   S

	running  atomic.Bool
	stopping atomic.Bool
	cycleSeq atomic.Uint64

	quitOnce sync.Once
	shutdown *api.Shutdown
}

var _ api.Store[int] = (*Engine[int])(nil)

// New creates a running engine, publishes the initial state once, and
// starts the backend. The engine accepts submissions as soon as New
// returns.
func New[S any](initial S, cfg Config[S]) *Engine[S] {
	if cfg.Backend == nil {
		cfg.Backend = NewDedicatedBackend()
	}
	if cfg.Observer == nil {
		cfg.Observer = api.NoopObserver{}
	}
	if cfg.Equal == nil {
		cfg.Equal = func(a, b S) bool { return reflect.DeepEqual(a, b) }
	}
	ownHub := cfg.OwnHub
	if cfg.Hub == nil {
		cfg.Hub = api.NewHub[S](nil)
		ownHub = true
	}

	e := &Engine[S]{
		hub:      cfg.Hub,
		ownHub:   ownHub,
		history:  cfg.History,
		obs:      cfg.Observer,
		equal:    cfg.Equal,
		backend:  cfg.Backend,
		state:    initial,
		shutdown: api.NewShutdown(),
	}
	e.running.Store(true)

	// The construction contract: the initial state is published exactly
	// once, before any submission can be accepted.
	e.hub.Publish(initial)

	cfg.Backend.Start(e)
	return e
}

// Update submits a reducer for serial application.
func (e *Engine[S]) Update(fn api.Reducer[S]) *api.Completion {
	if !e.accepting() {
		c := api.NewCompletion()
		c.Discard()
		return c
	}
	c := e.q.pushReducer(fn)
	e.backend.Wake()
	return c
}

// Do submits an effect. It observes the state after all reducers queued
// before it have been applied.
func (e *Engine[S]) Do(fn api.Action[S]) *api.Completion {
	if !e.accepting() {
		c := api.NewCompletion()
		c.Discard()
		return c
	}
	c := e.q.pushEffect(fn)
	e.backend.Wake()
	return c
}

// State returns a snapshot of the current state value.
func (e *Engine[S]) State() S {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.state
}

// Subscribe registers a listener on the engine's hub.
func (e *Engine[S]) Subscribe(fn api.Listener[S]) api.Subscription {
	return e.hub.Subscribe(fn)
}

// Quit stops the engine immediately. Jobs still queued, or detached but
// not yet mid-application, are discarded; a job already executing is
// allowed to finish. Idempotent; a later QuitSafely returns the same
// handle.
func (e *Engine[S]) Quit() *api.Shutdown {
	e.quitOnce.Do(func() {
		e.obs.OnQuit(false)
		e.stopping.Store(true)
		e.running.Store(false)
		if n := e.q.discardAll(); n > 0 {
			e.obs.OnDiscard(n)
		}
		e.backend.Wake()
	})
	return e.shutdown
}

// QuitSafely stops the engine after exactly one more full cycle. That
// cycle drains everything queued up to the point it starts detaching,
// including submissions racing the call itself; submissions after the
// call returns are rejected and resolve discarded.
func (e *Engine[S]) QuitSafely() *api.Shutdown {
	e.quitOnce.Do(func() {
		e.obs.OnQuit(true)
		e.stopping.Store(true)
		e.backend.Wake()
	})
	return e.shutdown
}

func (e *Engine[S]) accepting() bool {
	return e.running.Load() && !e.stopping.Load()
}

func (e *Engine[S]) setState(next S) {
	e.stateMu.Lock()
	e.state = next
	e.stateMu.Unlock()
}

// ---- Runner (backend-facing) ----

// RunCycle performs one full drain cycle. Backends must never run it
// concurrently with itself or with DrainAndStop.
func (e *Engine[S]) RunCycle() {
	seq := e.cycleSeq.Add(1)
	start := time.Now()
	e.obs.OnCycleStart(seq)

	prev := e.state

	// Both lanes detach before any job runs: the cycle's batches are
	// whatever had been enqueued when it started. An effect submitted
	// while the reducers below apply waits for the next cycle, so it
	// cannot run ahead of a reducer queued before it.
	reducers, effects := e.q.detach()

	// Step 1: apply the reducer batch. Each applied value goes to
	// history whether or not it changed anything; each job's future
	// settles as soon as its reducer ran. A forced quit mid-batch lets
	// the in-flight reducer finish and drops the rest.
	applied := 0
	for _, j := range reducers {
		if !e.running.Load() {
			break
		}
		next := j.fn(e.state)
		e.setState(next)
		if e.history != nil && e.history.Enabled() {
			if err := e.history.Push(next); err != nil {
				e.obs.OnHistoryError(err)
			}
		}
		j.done.Complete()
		applied++
	}
	for _, j := range reducers[applied:] {
		j.done.Discard()
	}

	// Step 2: run the effect batch against the updated state.
	executed := 0
	for _, j := range effects {
		if !e.running.Load() {
			break
		}
		j.fn(e.state)
		executed++
	}

	// Step 3: publish once if the value changed, then settle the effect
	// futures.
	published := false
	if !e.equal(prev, e.state) {
		e.hub.Publish(e.state)
		published = true
	}
	for i, j := range effects {
		if i < executed {
			j.done.Complete()
		} else {
			j.done.Discard()
		}
	}

	e.obs.OnCycleEnd(seq, applied, executed, published, time.Since(start))
}

// DrainAndStop runs the terminal cycle of a graceful quit, then clears
// the running flag and discards whatever arrived too late for the drain.
func (e *Engine[S]) DrainAndStop() {
	e.RunCycle()
	e.running.Store(false)
	if n := e.q.discardAll(); n > 0 {
		e.obs.OnDiscard(n)
	}
}

// Pending reports whether any work is queued.
func (e *Engine[S]) Pending() bool { return e.q.pending() }

// Running reports whether the engine still executes cycles.
func (e *Engine[S]) Running() bool { return e.running.Load() }

// Stopping reports whether a graceful quit is in progress.
func (e *Engine[S]) Stopping() bool { return e.stopping.Load() }

// Settle records backend teardown completion and resolves the shutdown
// handle. The engine-owned hub is drained and closed first, so listeners
// have seen every publish by the time the handle fires.
func (e *Engine[S]) Settle(err error) {
	if e.ownHub {
		e.hub.Close()
	}
	e.shutdown.Finish(err)
}
