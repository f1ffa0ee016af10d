package gyre

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/gyrelab/gyre/internal/fiber"
	"github.com/gyrelab/gyre/internal/idgen"
	"github.com/gyrelab/gyre/service/event"
	"github.com/gyrelab/gyre/service/messaging/memory"
	"github.com/gyrelab/gyre/stats"
	"github.com/gyrelab/gyre/tracing"
)

// osExit terminates the process when Run drains the pool. It is a package
// variable so tests can observe the exit status without ending the test
// binary.
var osExit = os.Exit

// slot is one entry of the fixed pool: an identity, the context holding the
// resumption state of its occupant, and a lifecycle state. Slots are created
// once at construction and live until process exit; a slot whose task has
// returned is re-armed in place by the next Spawn.
type slot struct {
	id     int
	state  SlotState
	ctx    *fiber.Context
	taskID string
	span   *tracing.Span
}

// Runtime owns the slot pool and the index of the currently running slot.
// All state is mutated by whichever flow of control is currently scheduled;
// the context-switch handoff serializes access, so no locking is needed.
type Runtime struct {
	config  *Config
	logger  *slog.Logger
	tracker *stats.Tracker
	events  *event.Service

	slots   []*slot
	current int
}

// New constructs a runtime with a fixed pool of config.Pool.Size slots.
// Slot 0 is pre-marked running: it represents the caller's own execution
// context, the one that will drive Run. The remaining slots start available.
func New(options ...Option) (*Runtime, error) {
	r := &Runtime{
		config:  DefaultConfig(),
		logger:  slog.Default(),
		tracker: stats.New(),
	}
	for _, opt := range options {
		opt(r)
	}
	if err := r.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid runtime config: %w", err)
	}
	if r.events == nil && r.config.Events.Enabled {
		queue := memory.NewQueue[event.Event](memory.Config{Buffer: r.config.Events.Buffer})
		r.events = event.New(event.WithQueue(queue))
	}

	r.slots = make([]*slot, r.config.Pool.Size)
	r.slots[0] = &slot{id: 0, state: StateRunning, ctx: fiber.New()}
	for i := 1; i < len(r.slots); i++ {
		r.slots[i] = &slot{id: i, state: StateAvailable, ctx: fiber.New()}
	}
	return r, nil
}

// Spawn arms an available slot with the task and marks it ready. The task
// does not execute until the scheduler switches to it.
//
// Spawn panics with ErrPoolExhausted when every slot is occupied; the panic
// fires before any slot is touched, so no partial state results. It may be
// called before Run starts or from inside a running task.
func (r *Runtime) Spawn(task func()) {
	target := r.findAvailable()
	if target == nil {
		panic(ErrPoolExhausted)
	}

	target.taskID = idgen.New()
	_, span := tracing.StartSpan(context.Background(), "task.run", "INTERNAL")
	span.WithAttributes(map[string]string{
		"slot.id": strconv.Itoa(target.id),
		"task.id": target.taskID,
	})
	target.span = span

	// Arm writes the synthetic first frame: the task entry on top, the
	// recycling guard beneath it. The guard reaches the scheduler through
	// the published handle, the same way Yield does.
	target.ctx.Arm(task, finishThroughHandle)
	target.state = StateReady

	r.tracker.Update(stats.Delta{Spawned: 1})
	r.publishEvent(event.TypeSpawned, target)
	r.logger.Debug("task spawned", "slot", target.id, "task", target.taskID)
}

// Run drives the scheduler until no slot is ready, then terminates the
// process with status 0. It must be called on the flow of control that
// constructed the runtime (slot 0) and does not return otherwise.
func (r *Runtime) Run() {
	r.logger.Debug("scheduler running", "pool", len(r.slots))
	for r.reschedule() {
	}
	snapshot := r.tracker.Snapshot()
	r.logger.Debug("scheduler drained",
		"spawned", snapshot.Spawned,
		"completed", snapshot.Completed,
		"switches", snapshot.Switches)
	osExit(0)
}

// Stats returns a copy of the scheduler counters.
func (r *Runtime) Stats() stats.Snapshot {
	return r.tracker.Snapshot()
}

// Events returns the lifecycle event bus, or nil when events are disabled.
// The caller owns the bus lifecycle: install a listener with SetListener and
// stop it with Shutdown.
func (r *Runtime) Events() *event.Service {
	return r.events
}

// findAvailable returns the first available slot or nil.
func (r *Runtime) findAvailable() *slot {
	for _, s := range r.slots {
		if s.state == StateAvailable {
			return s
		}
	}
	return nil
}

// reschedule is the core state machine step. Starting just past the current
// slot it scans circularly for the first ready slot. When the scan comes
// back around to the current index without a hit there is no more work and
// no switch happens: that is the termination signal Run depends on.
//
// Otherwise the current slot is demoted to ready - unless it is already
// available because its task just finished - the found slot is promoted to
// running, the current index moves, and control transfers. The return value
// reports whether a switch occurred.
func (r *Runtime) reschedule() bool {
	pos := r.current
	for {
		pos++
		if pos == len(r.slots) {
			pos = 0
		}
		if pos == r.current {
			return false
		}
		if r.slots[pos].state == StateReady {
			break
		}
	}

	prev := r.slots[r.current]
	finished := prev.state == StateAvailable
	if !finished {
		prev.state = StateReady
	}

	next := r.slots[pos]
	next.state = StateRunning
	r.current = pos

	if next.id != 0 {
		// Switches count transfers into a task slot; handing control back
		// to the scheduler slot is the tail end of the same transfer.
		r.tracker.Update(stats.Delta{Switches: 1})
	}
	r.publishEvent(event.TypeSwitched, next)

	if finished {
		// The previous occupant has returned: transfer one-way so its
		// goroutine can unwind and exit.
		fiber.Jump(next.ctx)
	} else {
		fiber.Switch(prev.ctx, next.ctx)
	}
	return true
}

// yield pauses the current occupant and reschedules. When no other slot is
// ready the scan finds nothing and the caller simply continues: the sole
// remaining task resumes itself.
func (r *Runtime) yield() {
	r.tracker.Update(stats.Delta{Yields: 1})
	if s := r.slots[r.current]; s.id != 0 {
		r.publishEvent(event.TypeYielded, s)
	}
	r.reschedule()
}

// finish recycles the slot whose task body has ended and hands control to
// the next ready slot. Invoked only by the trampoline guard; slot 0 never
// reaches this path. recovered carries the panic value when the task did not
// return normally.
func (r *Runtime) finish(recovered any) {
	s := r.slots[r.current]
	if s.id == 0 {
		return
	}

	if recovered != nil {
		r.logger.Error("task panicked", "slot", s.id, "task", s.taskID, "panic", recovered)
		r.tracker.Update(stats.Delta{Panicked: 1})
		tracing.EndSpan(s.span, fmt.Errorf("task panicked: %v", recovered))
		s.span = nil
		s.state = StateAvailable
		r.publishEvent(event.TypePanicked, s)
	} else {
		r.tracker.Update(stats.Delta{Completed: 1})
		tracing.EndSpan(s.span, nil)
		s.span = nil
		s.state = StateAvailable
		r.publishEvent(event.TypeCompleted, s)
	}
	s.taskID = ""

	// Slot 0 is always ready while the pool has active tasks, so the scan
	// cannot miss: control leaves this goroutine and it exits.
	r.reschedule()
}

func (r *Runtime) publishEvent(eventType string, s *slot) {
	if r.events == nil {
		return
	}
	r.events.Publish(event.NewEvent(&event.Context{
		SlotID:    s.id,
		TaskID:    s.taskID,
		EventType: eventType,
		State:     string(s.state),
	}))
}
