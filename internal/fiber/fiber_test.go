package fiber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestSwitchHandoff(t *testing.T) {
	defer goleak.VerifyNone(t)

	log := make(chan string, 16)

	root := New()
	worker := New()

	var recovered any
	worker.Arm(func() {
		log <- "worker enter"
		Switch(worker, root)
		log <- "worker resumed"
	}, func(r any) {
		recovered = r
		log <- "worker finished"
		Jump(root)
	})

	log <- "root before switch"
	Switch(root, worker)
	log <- "root resumed once"
	Switch(root, worker)
	log <- "root resumed twice"
	close(log)

	var lines []string
	for l := range log {
		lines = append(lines, l)
	}

	assert.Nil(t, recovered)
	assert.Equal(t, []string{
		"root before switch",
		"worker enter",
		"root resumed once",
		"worker resumed",
		"worker finished",
		"root resumed twice",
	}, lines)
}

func TestBootPanicReachesFinish(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := New()
	worker := New()

	var recovered any
	worker.Arm(func() {
		panic("boom")
	}, func(r any) {
		recovered = r
		Jump(root)
	})

	Switch(root, worker)

	assert.Equal(t, "boom", recovered)
}

func TestArmResetsMailbox(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := New()
	worker := New()

	first := false
	worker.Arm(func() { first = true }, func(any) { Jump(root) })
	Switch(root, worker)
	assert.True(t, first)

	// Reusing the same context for a second occupant must behave exactly as
	// a fresh one.
	second := false
	worker.Arm(func() {
		second = true
		Switch(worker, root)
	}, func(any) { Jump(root) })
	Switch(root, worker)
	assert.True(t, second)
	Switch(root, worker)
}
