// Package history implements the api.History contract: append-only
// recorders for every state a store's reducers produce. The store engine
// is the only writer; readers get copies.
package history

import (
	"sync"
	"sync/atomic"

	"github.com/petrijr/stato/pkg/api"
)

// Memory is a goroutine-safe in-memory recorder backed by a slice.
// It starts disabled.
type Memory[S any] struct {
	enabled atomic.Bool

	mu     sync.RWMutex
	states []S
}

var _ api.History[int] = (*Memory[int])(nil)

// NewMemory creates a disabled in-memory recorder.
func NewMemory[S any]() *Memory[S] {
	return &Memory[S]{}
}

func (m *Memory[S]) Enable()  { m.enabled.Store(true) }
func (m *Memory[S]) Disable() { m.enabled.Store(false) }

func (m *Memory[S]) Enabled() bool { return m.enabled.Load() }

func (m *Memory[S]) Push(state S) error {
	if !m.enabled.Load() {
		return nil
	}
	m.mu.Lock()
	m.states = append(m.states, state)
	m.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the recorded states in append order.
func (m *Memory[S]) Snapshot() ([]S, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]S, len(m.states))
	copy(out, m.states)
	return out, nil
}

func (m *Memory[S]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.states)
}
