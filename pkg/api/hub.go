package api

import (
	"sync"

	"github.com/google/uuid"
)

// defaultHubQueueCap bounds the dispatch backlog of an owned-goroutine
// hub. Publish blocks once the backlog is full rather than dropping.
const defaultHubQueueCap = 256

// Subscription identifies a registered listener. Cancel unregisters it;
// cancelling twice is harmless.
type Subscription struct {
	id     uuid.UUID
	cancel func()
}

// ID returns the unique id of the subscription.
func (s Subscription) ID() uuid.UUID { return s.id }

// Cancel unregisters the listener. States already queued for dispatch
// may still be delivered.
func (s Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

// Hub fans published states out to listeners. Delivery happens in
// publish order on a dispatch context distinct from the publisher's
// goroutine: either a hub-owned goroutine (exec == nil) or the provided
// Executor.
//
// The store engine is the only publisher; Subscribe and Cancel may be
// called from any goroutine.
type Hub[S any] struct {
	mu        sync.RWMutex
	listeners map[uuid.UUID]Listener[S]
	closed    bool

	exec  Executor
	queue chan func()
	done  chan struct{}
}

// NewHub creates a Hub. With a nil Executor the hub owns a single
// dispatch goroutine, which preserves publish order; an Executor that
// runs tasks concurrently forfeits ordering across publishes.
func NewHub[S any](exec Executor) *Hub[S] {
	h := &Hub[S]{
		listeners: make(map[uuid.UUID]Listener[S]),
		exec:      exec,
	}
	if exec == nil {
		h.queue = make(chan func(), defaultHubQueueCap)
		h.done = make(chan struct{})
		go h.dispatch()
	}
	return h
}

func (h *Hub[S]) dispatch() {
	defer close(h.done)
	for fn := range h.queue {
		fn()
	}
}

// Subscribe registers fn and returns its Subscription. On a closed hub
// nothing is registered: the returned Subscription is inert and will
// never receive a state, and Cancel stays safe to call.
func (h *Hub[S]) Subscribe(fn Listener[S]) Subscription {
	id := uuid.New()

	h.mu.Lock()
	if !h.closed {
		h.listeners[id] = fn
	}
	h.mu.Unlock()

	return Subscription{
		id: id,
		cancel: func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		},
	}
}

// Publish delivers state to every current listener. Publishes on a
// closed hub are dropped.
func (h *Hub[S]) Publish(state S) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.closed || len(h.listeners) == 0 {
		return
	}
	targets := make([]Listener[S], 0, len(h.listeners))
	for _, fn := range h.listeners {
		targets = append(targets, fn)
	}

	deliver := func() {
		for _, fn := range targets {
			fn(state)
		}
	}
	if h.exec != nil {
		h.exec.Execute(deliver)
		return
	}
	// The send happens under the read lock so Close cannot close the
	// queue mid-send.
	h.queue <- deliver
}

// Close stops dispatch after draining queued deliveries. Only hubs
// created with a nil Executor own a goroutine to stop; Close is still
// safe, and idempotent, for the rest.
func (h *Hub[S]) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	h.listeners = make(map[uuid.UUID]Listener[S])
	if h.queue != nil {
		close(h.queue)
	}
	h.mu.Unlock()

	if h.done != nil {
		<-h.done
	}
}
