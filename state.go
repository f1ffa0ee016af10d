package gyre

// SlotState represents the lifecycle state of a pool slot.
type SlotState string

const (
	// StateAvailable marks an idle slot whose context can host a new task.
	StateAvailable SlotState = "available"

	// StateReady marks a paused slot that can be resumed by the scheduler.
	StateReady SlotState = "ready"

	// StateRunning marks the slot currently executing. Exactly one slot is
	// running whenever the scheduler is active.
	StateRunning SlotState = "running"
)
