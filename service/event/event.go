// Package event carries scheduler lifecycle notifications over a messaging
// queue so that embedders can observe spawns, switches, yields and task
// completion without touching the scheduler hot path.
package event

import (
	"time"

	"github.com/gyrelab/gyre/internal/clock"
)

// Lifecycle event types emitted by the scheduler.
const (
	TypeSpawned   = "task.spawned"
	TypeSwitched  = "slot.switched"
	TypeYielded   = "task.yielded"
	TypeCompleted = "task.completed"
	TypePanicked  = "task.panicked"
)

// Context identifies the slot and task an event refers to.
type Context struct {
	SlotID    int    `json:"slotID"`
	TaskID    string `json:"taskID,omitempty"`
	EventType string `json:"eventType"`
	State     string `json:"state,omitempty"`
}

// Event is a single lifecycle notification.
type Event struct {
	Context   *Context       `json:"context"`
	CreatedAt time.Time      `json:"createdAt"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewEvent creates an event stamped with the current time.
func NewEvent(context *Context) *Event {
	return &Event{
		Context:   context,
		CreatedAt: clock.Now(),
	}
}
