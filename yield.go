package gyre

// handle is the process-wide reference to the live runtime. Task bodies
// receive no runtime argument, yet Yield and the recycling guard must reach
// the scheduler; they do so through this handle. It is written once by
// Publish before any task can observe it and read only by the single
// logically-running flow of control, so no synchronization is required.
var handle *Runtime

// Publish stores the process-wide runtime handle. It must be called exactly
// once, before any Spawn or Yield; a second call panics with
// ErrAlreadyPublished.
func (r *Runtime) Publish() {
	if handle != nil {
		panic(ErrAlreadyPublished)
	}
	handle = r
}

// Yield pauses the calling task and lets the scheduler pick the next ready
// slot in round-robin order. It may only be called from within a running
// task body (or the Run loop itself) after Publish; otherwise it panics with
// ErrNotPublished.
//
// When no other slot is ready, Yield returns immediately and the caller
// keeps running.
func Yield() {
	published().yield()
}

// finishThroughHandle is the recycling guard armed beneath every task entry:
// whatever way the task body ends, the slot is recycled and the scheduler
// picks the next ready slot.
func finishThroughHandle(recovered any) {
	published().finish(recovered)
}

// published returns the handle or panics when none was published.
func published() *Runtime {
	if handle == nil {
		panic(ErrNotPublished)
	}
	return handle
}

// unpublish clears the handle. Tests only: a real process publishes once and
// keeps the handle until exit.
func unpublish() {
	handle = nil
}
