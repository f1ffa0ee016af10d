// Package gyre provides a minimal cooperative green-thread runtime: a
// fixed-size pool of tasks scheduled round-robin, switched through an
// explicit context-switch primitive.
//
// A Runtime owns the slot pool. Slot 0 belongs to the caller that drives
// Run; the remaining slots host spawned tasks. A task runs until it calls
// Yield or returns; there is no preemption, no parallelism and no dynamic
// pool growth. Spawning into a full pool panics.
//
// Typical usage:
//
//	rt, _ := gyre.New(gyre.WithPoolSize(4))
//	rt.Publish()
//	rt.Spawn(func() {
//		fmt.Println("A0")
//		gyre.Yield()
//		fmt.Println("A1")
//	})
//	rt.Spawn(func() { fmt.Println("B0") })
//	rt.Run() // prints A0, B0, A1 and exits the process with status 0
//
// Publish stores the process-wide handle that Yield and the recycling guard
// use; it must be called exactly once, before any task runs.
package gyre
