package api

// Reducer produces the next state from the current one. Reducers must be
// pure: no side effects, and no retention of either argument or result
// beyond the call. They are applied exactly once, in submission order, by
// the store's single writer.
type Reducer[S any] func(S) S

// Action is a read-only callback executed against a just-updated state.
// An action submitted after a set of reducers is guaranteed to observe the
// state with all of those reducers already applied.
type Action[S any] func(S)

// Listener receives published states. Listeners run on the hub's dispatch
// context, never on the store's writer goroutine.
type Listener[S any] func(S)

// Executor runs submitted functions. It is implemented by worker pools,
// UI loops, test harnesses, or anything else that can run a func().
type Executor interface {
	Execute(fn func())
}

// ExecutorFunc adapts a plain function to the Executor interface.
type ExecutorFunc func(fn func())

func (f ExecutorFunc) Execute(fn func()) { f(fn) }

// Store is a single-writer, concurrent state container. Any goroutine may
// submit work; exactly one internal writer applies it serially, so
// observers only ever see a strictly ordered, non-overlapping sequence of
// states.
//
// A store publishes its initial state once at construction, then once per
// cycle whose reducers changed the state value. Cycles never overlap,
// regardless of the backend driving them.
type Store[S any] interface {
	// Update submits a reducer. It never blocks; the returned Completion
	// is signalled once the reducer has been applied, or resolves to
	// OutcomeDiscarded if the store quits before it runs.
	Update(fn Reducer[S]) *Completion

	// Do submits an action. The action observes the state after every
	// reducer submitted before it has been applied.
	Do(fn Action[S]) *Completion

	// State returns a snapshot of the current state value. It may be
	// called from any goroutine.
	State() S

	// Subscribe registers a listener for published states.
	Subscribe(fn Listener[S]) Subscription

	// Quit stops the store immediately. Queued work that is not already
	// mid-application is discarded. The returned handle resolves once the
	// backend has fully torn down.
	Quit() *Shutdown

	// QuitSafely stops the store after exactly one more full cycle,
	// draining everything queued up to the start of that cycle.
	QuitSafely() *Shutdown
}
