// Package fiber implements the context-switch primitive the scheduler is
// built on. A Context represents the resumption state of one paused flow of
// control: a parked goroutine plus a one-slot resume mailbox. Switching saves
// the outgoing flow by parking its goroutine and restores the incoming one by
// posting to its mailbox - or, for a context that has never run, by starting
// its bootstrap.
//
// The mailbox send/receive pair is the only synchronization between flows.
// It carries the same happens-before guarantee a register save/restore would:
// everything the outgoing flow wrote before the switch is visible to the
// incoming flow after it. Exactly one flow is logically live at any instant,
// so callers never need additional locking around state the flows share.
package fiber

// Context holds the resumption state of a single flow of control.
//
// A zero Context is not usable; create one with New. A Context that should
// run a not-yet-started task must be armed with Arm before it is switched to.
type Context struct {
	// resume is a one-slot mailbox. A send schedules the owning flow to
	// continue from its last park; buffering one token keeps dispatch from
	// blocking the sender.
	resume chan struct{}

	// entry and finish form the synthesized first frame of a context that
	// has never run. They are consumed by the first dispatch.
	entry  func()
	finish func(recovered any)
}

// New returns a Context bound to an already-live flow of control, typically
// the goroutine that owns the scheduler loop. Switching away from it parks
// the caller; switching back resumes it.
func New() *Context {
	return &Context{resume: make(chan struct{}, 1)}
}

// Arm writes the first frame of a fresh task into the context: entry is the
// task body, finish the guard that recycles the task's slot once the body
// returns. The mailbox is replaced so state left over from a previous
// occupant of the context cannot leak into the new one.
//
// Arm must only be called on a context that is not currently running or
// parked.
func (c *Context) Arm(entry func(), finish func(recovered any)) {
	c.resume = make(chan struct{}, 1)
	c.entry = entry
	c.finish = finish
}

// Switch transfers control from old to new: new is dispatched and old parks
// until some later switch targets it again. It must be called on the
// goroutine that owns old.
func Switch(old, new *Context) {
	new.dispatch()
	old.park()
}

// Jump transfers control to new without saving the caller. It is the final
// act of a finished task: after Jump returns the calling goroutine unwinds
// and exits, which is what releases the task's stack.
func Jump(new *Context) {
	new.dispatch()
}

// dispatch resumes the context, launching its bootstrap if it has never run.
func (c *Context) dispatch() {
	if c.entry != nil {
		entry, finish := c.entry, c.finish
		c.entry, c.finish = nil, nil
		go boot(entry, finish)
		return
	}
	c.resume <- struct{}{}
}

// park blocks the calling goroutine until the context is dispatched again.
func (c *Context) park() {
	<-c.resume
}

// boot is the trampoline for a first-ever launch. It bridges the gap between
// "dispatch a context that has no saved resume point" and "run a plain
// function": the entry runs immediately, and whatever way it ends - normal
// return or panic - the finish guard runs afterwards so the task's slot is
// always recycled.
func boot(entry func(), finish func(recovered any)) {
	finish(runEntry(entry))
}

// runEntry invokes the task body, converting a panic into a returned value so
// that boot can still run the finish guard.
func runEntry(entry func()) (recovered any) {
	defer func() {
		recovered = recover()
	}()
	entry()
	return nil
}
