package engine

// dedicatedBackend owns one goroutine that loops over cycles and parks
// on a wake channel while idle. The channel holds at most one token, so
// any number of concurrent submissions collapse into one wake-up; work
// they enqueued is picked up by the drain of the next cycle.
type dedicatedBackend struct {
	wake chan struct{}
}

// NewDedicatedBackend returns a backend driving cycles on a dedicated
// goroutine. The goroutine is the backend's exclusively owned resource
// and is torn down on quit.
func NewDedicatedBackend() Backend {
	return &dedicatedBackend{wake: make(chan struct{}, 1)}
}

func (b *dedicatedBackend) Start(r Runner) {
	go b.loop(r)
}

func (b *dedicatedBackend) Wake() {
	select {
	case b.wake <- struct{}{}:
	default:
	}
}

func (b *dedicatedBackend) loop(r Runner) {
	defer r.Settle(nil)

	for r.Running() {
		if r.Stopping() {
			r.DrainAndStop()
			return
		}
		r.RunCycle()
		if r.Pending() || r.Stopping() || !r.Running() {
			// More work arrived during the cycle, or a quit wants the
			// loop's attention; skip the park.
			continue
		}
		<-b.wake
	}
}
