package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/petrijr/stato/internal/history"
	"github.com/petrijr/stato/pkg/api"
)

// collector records published states in delivery order.
type collector struct {
	mu     sync.Mutex
	states []int
}

func (c *collector) listen(state int) {
	c.mu.Lock()
	c.states = append(c.states, state)
	c.mu.Unlock()
}

func (c *collector) snapshot() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]int, len(c.states))
	copy(out, c.states)
	return out
}

// newCollected builds an engine whose hub already carries the collector,
// so the initial publish is observed too.
func newCollected(t *testing.T, initial int, cfg Config[int]) (*Engine[int], *collector) {
	t.Helper()

	c := &collector{}
	hub := api.NewHub[int](nil)
	hub.Subscribe(c.listen)
	cfg.Hub = hub
	cfg.OwnHub = true
	return New(initial, cfg), c
}

func inc(s int) int { return s + 1 }

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestUpdateAppliesInSubmissionOrder verifies that reducers submitted by
// one goroutine are applied FIFO and that the published sequence equals
// folding them over the initial state.
func TestUpdateAppliesInSubmissionOrder(t *testing.T) {
	t.Parallel()

	ctx := testCtx(t)
	e, c := newCollected(t, 0, Config[int]{})

	const n = 50
	for i := 0; i < n; i++ {
		e.Update(inc)
	}

	require.NoError(t, e.QuitSafely().Wait(ctx))
	require.Equal(t, n, e.State())

	published := c.snapshot()
	require.NotEmpty(t, published)
	require.Equal(t, 0, published[0], "initial state is published first")
	require.Equal(t, n, published[len(published)-1])
	for i := 1; i < len(published); i++ {
		require.Greater(t, published[i], published[i-1], "published states are strictly ordered")
	}
}

// TestConcurrentUpdatesCompose verifies the M-producer property: the
// final state equals the composition of every submitted reducer, and
// consecutive published states respect the order relation.
func TestConcurrentUpdatesCompose(t *testing.T) {
	t.Parallel()

	ctx := testCtx(t)
	e, c := newCollected(t, 0, Config[int]{})

	const (
		producers  = 8
		perWorker  = 200
		totalCount = producers * perWorker
	)

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				e.Update(inc)
			}
		}()
	}
	wg.Wait()

	require.NoError(t, e.QuitSafely().Wait(ctx))
	require.Equal(t, totalCount, e.State())

	published := c.snapshot()
	for i := 1; i < len(published); i++ {
		require.Greater(t, published[i], published[i-1])
	}
	require.Equal(t, totalCount, published[len(published)-1])
}

// TestNoOpUpdateDoesNotPublish verifies publish suppression: reducers
// returning their input unchanged produce no publish event.
func TestNoOpUpdateDoesNotPublish(t *testing.T) {
	t.Parallel()

	ctx := testCtx(t)
	e, c := newCollected(t, 42, Config[int]{})

	identity := func(s int) int { return s }
	for i := 0; i < 10; i++ {
		e.Update(identity)
	}

	require.NoError(t, e.QuitSafely().Wait(ctx))
	require.Equal(t, []int{42}, c.snapshot(), "only the initial publish survives")
}

// TestDoObservesPrecedingUpdates verifies the ordering barrier: an
// action sees the state with every reducer submitted before it applied.
func TestDoObservesPrecedingUpdates(t *testing.T) {
	t.Parallel()

	ctx := testCtx(t)
	e := New(0, Config[int]{})

	for i := 0; i < 5; i++ {
		e.Update(inc)
	}
	var seen int
	done := e.Do(func(s int) { seen = s })

	outcome, err := done.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, api.OutcomeDone, outcome)
	require.Equal(t, 5, seen)

	require.NoError(t, e.Quit().Wait(ctx))
}

// TestActionWaitsForReducerQueuedMidCycle verifies the batching barrier
// under load: a reducer and an action submitted while a cycle is already
// mid-application both land in the next batch, so the action still
// observes the reducer's result.
func TestActionWaitsForReducerQueuedMidCycle(t *testing.T) {
	t.Parallel()

	ctx := testCtx(t)
	e := New(1, Config[int]{})

	started := make(chan struct{})
	release := make(chan struct{})
	e.Update(func(s int) int {
		close(started)
		<-release
		return s
	})
	<-started

	e.Update(func(s int) int { return s + 100 })
	seen := make(chan int, 1)
	done := e.Do(func(s int) { seen <- s })

	close(release)
	outcome, err := done.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, api.OutcomeDone, outcome)
	require.Equal(t, 101, <-seen, "action sees the preceding reducer applied")

	require.NoError(t, e.QuitSafely().Wait(ctx))
}

// TestQuitDiscardsPending reproduces the forced-quit contract: with one
// reducer blocked mid-application and six more queued behind it, Quit
// lets the in-flight reducer finish, drops the six, and exactly two
// states are ever published (initial plus the in-flight result).
func TestQuitDiscardsPending(t *testing.T) {
	t.Parallel()

	ctx := testCtx(t)
	e, c := newCollected(t, 0, Config[int]{})

	started := make(chan struct{})
	release := make(chan struct{})
	inFlight := e.Update(func(s int) int {
		close(started)
		<-release
		return s + 1
	})
	<-started

	pending := make([]*api.Completion, 0, 6)
	for i := 0; i < 6; i++ {
		pending = append(pending, e.Update(inc))
	}

	sd := e.Quit()
	close(release)
	require.NoError(t, sd.Wait(ctx))

	outcome, err := inFlight.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, api.OutcomeDone, outcome, "in-flight reducer finishes")

	for i, p := range pending {
		outcome, err := p.Wait(ctx)
		require.NoError(t, err)
		require.Equal(t, api.OutcomeDiscarded, outcome, "pending reducer %d is dropped", i)
	}

	require.Equal(t, []int{0, 1}, c.snapshot())
	require.Equal(t, 1, e.State())
}

// TestQuitSafelyDrainsConcurrentSubmissions verifies the graceful-quit
// contract: everything enqueued before the terminal cycle starts
// draining is applied before the store stops.
func TestQuitSafelyDrainsConcurrentSubmissions(t *testing.T) {
	t.Parallel()

	ctx := testCtx(t)
	e := New(0, Config[int]{})

	const n = 100
	completions := make([]*api.Completion, 0, n)
	for i := 0; i < n; i++ {
		completions = append(completions, e.Update(inc))
	}

	require.NoError(t, e.QuitSafely().Wait(ctx))

	for _, c := range completions {
		outcome, err := c.Wait(ctx)
		require.NoError(t, err)
		require.Equal(t, api.OutcomeDone, outcome)
	}
	require.Equal(t, n, e.State())
}

// TestSubmitAfterQuitResolvesDiscarded verifies that post-quit
// submissions still hand back a future, and that it settles discarded
// instead of hanging.
func TestSubmitAfterQuitResolvesDiscarded(t *testing.T) {
	t.Parallel()

	ctx := testCtx(t)
	e := New(0, Config[int]{})
	require.NoError(t, e.Quit().Wait(ctx))

	update := e.Update(inc)
	outcome, err := update.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, api.OutcomeDiscarded, outcome)

	action := e.Do(func(int) {})
	outcome, err = action.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, api.OutcomeDiscarded, outcome)

	require.Equal(t, 0, e.State(), "state untouched after quit")
}

// TestHistoryRecordsEveryAppliedReducer verifies that an enabled
// recorder gets one entry per applied reducer, including values the
// publish suppression never surfaced.
func TestHistoryRecordsEveryAppliedReducer(t *testing.T) {
	t.Parallel()

	ctx := testCtx(t)
	rec := history.NewMemory[int]()
	rec.Enable()

	e, c := newCollected(t, 0, Config[int]{History: rec})

	identity := func(s int) int { return s }
	e.Update(inc)      // 1
	e.Update(identity) // 1, recorded but never published
	e.Update(inc)      // 2
	e.Update(identity) // 2

	require.NoError(t, e.QuitSafely().Wait(ctx))

	entries, err := rec.Snapshot()
	require.NoError(t, err)
	require.Equal(t, []int{1, 1, 2, 2}, entries)
	require.Greater(t, len(entries), len(c.snapshot())-1, "history holds more than was published")
}

// TestDisabledHistoryRecordsNothing verifies the disabled recorder does
// not accumulate entries.
func TestDisabledHistoryRecordsNothing(t *testing.T) {
	t.Parallel()

	ctx := testCtx(t)
	rec := history.NewMemory[int]()
	e := New(0, Config[int]{History: rec})

	e.Update(inc)
	require.NoError(t, e.QuitSafely().Wait(ctx))
	require.Zero(t, rec.Len())
}

// TestQuitIdempotentAcrossKinds verifies that repeated quit calls of
// either flavor return the same resolved handle.
func TestQuitIdempotentAcrossKinds(t *testing.T) {
	t.Parallel()

	ctx := testCtx(t)
	e := New(0, Config[int]{})

	first := e.Quit()
	second := e.Quit()
	third := e.QuitSafely()
	require.Same(t, first, second)
	require.Same(t, first, third)
	require.NoError(t, first.Wait(ctx))
}

// TestQuitFromInsideAction verifies that a store can be quit from its
// own execution context without deadlocking.
func TestQuitFromInsideAction(t *testing.T) {
	t.Parallel()

	ctx := testCtx(t)
	e := New(0, Config[int]{})

	var sd *api.Shutdown
	done := e.Do(func(int) {
		sd = e.QuitSafely()
	})

	outcome, err := done.Wait(ctx)
	require.NoError(t, err)
	require.Equal(t, api.OutcomeDone, outcome)
	require.NoError(t, sd.Wait(ctx))
}

// TestStateSnapshotDuringLoad verifies State is readable from other
// goroutines while the writer is busy.
func TestStateSnapshotDuringLoad(t *testing.T) {
	t.Parallel()

	ctx := testCtx(t)
	e := New(0, Config[int]{})

	stop := make(chan struct{})
	var readers sync.WaitGroup
	readers.Add(2)
	for r := 0; r < 2; r++ {
		go func() {
			defer readers.Done()
			for {
				select {
				case <-stop:
					return
				default:
					s := e.State()
					if s < 0 {
						t.Error("state went negative")
						return
					}
				}
			}
		}()
	}

	for i := 0; i < 500; i++ {
		e.Update(inc)
	}
	require.NoError(t, e.QuitSafely().Wait(ctx))
	close(stop)
	readers.Wait()

	require.Equal(t, 500, e.State())
}
