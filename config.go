package stato

import (
	"fmt"
	"sync"
)

// Kind selects an execution backend at construction time.
type Kind string

const (
	// KindDedicated drives cycles on one owned goroutine. The default.
	KindDedicated Kind = "dedicated-thread"

	// KindSharedPool drives cycles on an owned worker pool.
	KindSharedPool Kind = "shared-pool"

	// KindExecutor drives cycles on a caller-supplied Executor. Requires
	// Builder.Executor.
	KindExecutor Kind = "caller-supplied-executor"

	// KindInline runs cycles synchronously on the submitting goroutine.
	KindInline Kind = "synchronous-inline"

	// KindCooperative posts cycles to a caller-supplied single-threaded
	// loop. Requires Builder.Poster.
	KindCooperative Kind = "cooperative-single-thread"
)

func (k Kind) valid() bool {
	switch k {
	case KindDedicated, KindSharedPool, KindExecutor, KindInline, KindCooperative:
		return true
	}
	return false
}

// defaultPoolWorkers is the worker count of a KindSharedPool backend
// when the builder does not set one.
const defaultPoolWorkers = 4

var (
	defaultMu   sync.RWMutex
	defaultKind = KindDedicated
)

// SetDefaultBackend sets the process-wide backend kind used by stores
// that do not choose one explicitly. It rejects KindExecutor and
// KindCooperative, which need per-store resources a global default
// cannot carry.
func SetDefaultBackend(k Kind) error {
	if !k.valid() {
		return fmt.Errorf("stato: unknown backend kind %q", k)
	}
	if k == KindExecutor || k == KindCooperative {
		return fmt.Errorf("stato: backend kind %q requires a per-store executor or poster and cannot be the default", k)
	}
	defaultMu.Lock()
	defaultKind = k
	defaultMu.Unlock()
	return nil
}

// DefaultBackend returns the process-wide default backend kind.
func DefaultBackend() Kind {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultKind
}
