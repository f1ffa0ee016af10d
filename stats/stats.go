package stats

import (
	"sync"
	"time"

	"github.com/gyrelab/gyre/internal/clock"
)

// Delta represents an incremental counter change emitted by the scheduler.
// Fields are signed and can be either positive or negative.
type Delta struct {
	Spawned   int
	Completed int
	Panicked  int
	Switches  int
	Yields    int
}

// Snapshot is a read-only copy of the tracker counters.
type Snapshot struct {
	StartedAt time.Time

	// Spawned counts successful Spawn calls; Completed counts task bodies
	// that returned normally and Panicked those that did not.
	Spawned   int
	Completed int
	Panicked  int

	// Switches counts transfers of control into a task slot. Returns of
	// control to the scheduler slot are not switches in this sense, so a
	// pool of N slots whose N-1 tasks each run exactly once records N-1.
	Switches int

	// Yields counts explicit yield requests, whether or not another task
	// was ready to take over.
	Yields int
}

// Tracker keeps aggregated scheduler counters. It is safe for concurrent use,
// although the scheduler's single-task invariant means updates are in
// practice serialized.
type Tracker struct {
	mu        sync.Mutex
	startedAt time.Time
	snapshot  Snapshot
	onChange  func(Snapshot)
}

// New returns a tracker stamped with the current time.
func New() *Tracker {
	now := clock.Now()
	return &Tracker{startedAt: now, snapshot: Snapshot{StartedAt: now}}
}

// Update applies the supplied delta. If an onChange callback is registered it
// is invoked with a copy of the updated counters outside the critical section
// so the callback can perform slow work without blocking the scheduler.
func (t *Tracker) Update(d Delta) {
	if t == nil {
		return
	}

	t.mu.Lock()
	t.snapshot.Spawned += d.Spawned
	t.snapshot.Completed += d.Completed
	t.snapshot.Panicked += d.Panicked
	t.snapshot.Switches += d.Switches
	t.snapshot.Yields += d.Yields
	snapshot := t.snapshot
	cb := t.onChange
	t.mu.Unlock()

	if cb != nil {
		cb(snapshot)
	}
}

// Snapshot returns a copy of the counters suitable for read-only inspection.
func (t *Tracker) Snapshot() Snapshot {
	if t == nil {
		return Snapshot{}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshot
}

// OnChange registers a callback invoked after every Update. Passing nil
// disables the callback. Only one callback can be active; subsequent calls
// overwrite the previous value.
func (t *Tracker) OnChange(cb func(Snapshot)) {
	if t == nil {
		return
	}
	t.mu.Lock()
	t.onChange = cb
	t.mu.Unlock()
}
