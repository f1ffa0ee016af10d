package gyre

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/gyrelab/gyre/service/event"
)

// newRuntime builds a published runtime and arranges for the process-wide
// handle and exit hook to be restored after the test.
func newRuntime(t *testing.T, options ...Option) (*Runtime, *int) {
	t.Helper()

	r, err := New(options...)
	require.NoError(t, err)
	r.Publish()
	t.Cleanup(unpublish)

	exitCode := -1
	prevExit := osExit
	osExit = func(code int) { exitCode = code }
	t.Cleanup(func() { osExit = prevExit })

	return r, &exitCode
}

func TestRunExhaustion(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, exitCode := newRuntime(t, WithPoolSize(4))

	ran := 0
	for i := 0; i < 3; i++ {
		r.Spawn(func() { ran++ })
	}
	r.Run()

	assert.Equal(t, 0, *exitCode)
	assert.Equal(t, 3, ran)

	snapshot := r.Stats()
	assert.Equal(t, 3, snapshot.Spawned)
	assert.Equal(t, 3, snapshot.Completed)
	// One switch per task: each ran to completion without yielding.
	assert.Equal(t, 3, snapshot.Switches)
}

func TestRunRoundRobin(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, exitCode := newRuntime(t, WithPoolSize(4))

	var order []string
	for i := 1; i <= 3; i++ {
		id := i
		r.Spawn(func() {
			for j := 0; j < 3; j++ {
				order = append(order, fmt.Sprintf("%d.%d", id, j))
				Yield()
			}
		})
	}
	r.Run()

	assert.Equal(t, 0, *exitCode)
	assert.Equal(t, []string{
		"1.0", "2.0", "3.0",
		"1.1", "2.1", "3.1",
		"1.2", "2.2", "3.2",
	}, order)
}

func TestSlotReuse(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, exitCode := newRuntime(t, WithPoolSize(3))

	var order []string

	// The short task occupies slot 1 and returns immediately, freeing it.
	r.Spawn(func() { order = append(order, "short") })

	// The long task yields once so the short task has finished by the time
	// it respawns into the recycled slot.
	r.Spawn(func() {
		order = append(order, "A0")
		Yield()
		r.Spawn(func() { order = append(order, "C") })
		order = append(order, "A1")
	})

	r.Run()

	assert.Equal(t, 0, *exitCode)
	assert.Equal(t, []string{"short", "A0", "A1", "C"}, order)

	snapshot := r.Stats()
	assert.Equal(t, 3, snapshot.Spawned)
	assert.Equal(t, 3, snapshot.Completed)
}

func TestSpawnPoolExhausted(t *testing.T) {
	r, _ := newRuntime(t, WithPoolSize(2))

	r.Spawn(func() {})
	assert.PanicsWithValue(t, ErrPoolExhausted, func() {
		r.Spawn(func() {})
	})

	// The failed spawn must not have disturbed the armed slot.
	r.Run()
	assert.Equal(t, 1, r.Stats().Completed)
}

func TestYieldSelfResumption(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, exitCode := newRuntime(t, WithPoolSize(2))

	var order []int
	r.Spawn(func() {
		for i := 0; i < 3; i++ {
			order = append(order, i)
			// No other slot is ever ready, so each yield hands control to
			// the scheduler slot and comes straight back.
			Yield()
		}
	})
	r.Run()

	assert.Equal(t, 0, *exitCode)
	assert.Equal(t, []int{0, 1, 2}, order)
	snapshot := r.Stats()
	assert.Equal(t, 3, snapshot.Yields)
	assert.Equal(t, 1, snapshot.Completed)
}

func TestScenarioInterleave(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, exitCode := newRuntime(t, WithPoolSize(4))

	var lines []byte
	emit := func(s string) { lines = append(lines, (s + "\n")...) }

	r.Spawn(func() {
		emit("A0")
		Yield()
		emit("A1")
	})
	r.Spawn(func() {
		emit("B0")
	})
	r.Run()

	assert.Equal(t, 0, *exitCode)
	g := goldie.New(t)
	g.Assert(t, "scenario", lines)
}

func TestTaskPanicIsRecycled(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, exitCode := newRuntime(t, WithPoolSize(3))

	survived := false
	r.Spawn(func() { panic("boom") })
	r.Spawn(func() { survived = true })
	r.Run()

	assert.Equal(t, 0, *exitCode)
	assert.True(t, survived)

	snapshot := r.Stats()
	assert.Equal(t, 1, snapshot.Panicked)
	assert.Equal(t, 1, snapshot.Completed)
}

func TestPublishTwicePanics(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	r.Publish()
	t.Cleanup(unpublish)

	assert.PanicsWithValue(t, ErrAlreadyPublished, r.Publish)
}

func TestYieldWithoutPublishPanics(t *testing.T) {
	assert.PanicsWithValue(t, ErrNotPublished, Yield)
}

func TestRunWithEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	bus := event.New()
	r, exitCode := newRuntime(t, WithPoolSize(2), WithEventService(bus))

	var mu sync.Mutex
	var types []string
	bus.SetListener(func(e *event.Event) {
		mu.Lock()
		types = append(types, e.Context.EventType)
		mu.Unlock()
	})
	defer bus.Shutdown()

	r.Spawn(func() { Yield() })
	r.Run()

	assert.Equal(t, 0, *exitCode)
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return contains(types, event.TypeSpawned) &&
			contains(types, event.TypeYielded) &&
			contains(types, event.TypeCompleted)
	}, time.Second, 5*time.Millisecond)
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
