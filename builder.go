package stato

import (
	"fmt"

	"github.com/petrijr/stato/internal/engine"
	"github.com/petrijr/stato/pkg/api"
)

// Builder provides a fluent API for constructing stores:
//
//	store, err := stato.Configure(Counter{}).
//	    Backend(stato.KindSharedPool).
//	    History(recorder).
//	    Listen(func(c Counter) { fmt.Println(c.N) }).
//	    Build()
//
// A zero-configured builder yields a store on the process-wide default
// backend with no history, no listeners, and structural equality for
// publish suppression.
type Builder[S any] struct {
	initial S

	kind     Kind
	kindSet  bool
	workers  int
	executor Executor
	poster   func(func())

	history      History[S]
	observer     Observer
	equal        func(a, b S) bool
	listeners    []Listener[S]
	listenerExec Executor
}

// Configure starts building a store around the given initial state.
func Configure[S any](initial S) *Builder[S] {
	return &Builder[S]{initial: initial}
}

// Backend selects the execution backend kind.
func (b *Builder[S]) Backend(k Kind) *Builder[S] {
	b.kind = k
	b.kindSet = true
	return b
}

// PoolWorkers sets the worker count for KindSharedPool.
func (b *Builder[S]) PoolWorkers(n int) *Builder[S] {
	b.workers = n
	return b
}

// Executor supplies the executor for KindExecutor and implies that kind
// unless one was chosen already.
func (b *Builder[S]) Executor(exec Executor) *Builder[S] {
	b.executor = exec
	if !b.kindSet {
		b.kind = KindExecutor
		b.kindSet = true
	}
	return b
}

// Poster supplies the host-loop post function for KindCooperative and
// implies that kind unless one was chosen already.
func (b *Builder[S]) Poster(post func(func())) *Builder[S] {
	b.poster = post
	if !b.kindSet {
		b.kind = KindCooperative
		b.kindSet = true
	}
	return b
}

// History attaches a recorder. The recorder keeps its own enabled state;
// attaching a disabled one costs nothing per cycle.
func (b *Builder[S]) History(h History[S]) *Builder[S] {
	b.history = h
	return b
}

// Observer attaches an observer for engine lifecycle events.
func (b *Builder[S]) Observer(o Observer) *Builder[S] {
	b.observer = o
	return b
}

// Equality overrides the change-detection comparison used to decide
// whether a cycle publishes. The default is reflect.DeepEqual.
func (b *Builder[S]) Equality(eq func(a, b S) bool) *Builder[S] {
	b.equal = eq
	return b
}

// Listen registers a listener before construction, so it also receives
// the initial publish.
func (b *Builder[S]) Listen(fn Listener[S]) *Builder[S] {
	if fn == nil {
		panic("stato: Listen called with nil listener")
	}
	b.listeners = append(b.listeners, fn)
	return b
}

// ListenerExecutor sets the dispatch context for published states. By
// default the hub owns an ordered dispatch goroutine.
func (b *Builder[S]) ListenerExecutor(exec Executor) *Builder[S] {
	b.listenerExec = exec
	return b
}

// Build constructs and starts the store. The initial state is published
// once, to the listeners registered via Listen, before any submission is
// accepted.
func (b *Builder[S]) Build() (Store[S], error) {
	backend, err := b.backend()
	if err != nil {
		return nil, err
	}

	hub := api.NewHub[S](b.listenerExec)
	for _, fn := range b.listeners {
		hub.Subscribe(fn)
	}

	return engine.New(b.initial, engine.Config[S]{
		Backend:  backend,
		History:  b.history,
		Observer: b.observer,
		Equal:    b.equal,
		Hub:      hub,
		OwnHub:   true,
	}), nil
}

// MustBuild is Build, panicking on configuration errors.
func (b *Builder[S]) MustBuild() Store[S] {
	store, err := b.Build()
	if err != nil {
		panic(err)
	}
	return store
}

func (b *Builder[S]) backend() (engine.Backend, error) {
	kind := b.kind
	if !b.kindSet {
		kind = DefaultBackend()
	}
	switch kind {
	case KindDedicated:
		return engine.NewDedicatedBackend(), nil
	case KindSharedPool:
		workers := b.workers
		if workers <= 0 {
			workers = defaultPoolWorkers
		}
		return engine.NewPoolBackend(workers), nil
	case KindExecutor:
		if b.executor == nil {
			return nil, fmt.Errorf("stato: backend kind %q requires Executor", kind)
		}
		return engine.NewExecutorBackend(b.executor), nil
	case KindInline:
		return engine.NewInlineBackend(), nil
	case KindCooperative:
		if b.poster == nil {
			return nil, fmt.Errorf("stato: backend kind %q requires Poster", kind)
		}
		return engine.NewCooperativeBackend(b.poster), nil
	default:
		return nil, fmt.Errorf("stato: unknown backend kind %q", kind)
	}
}
