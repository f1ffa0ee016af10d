// Package clock wraps time.Now behind a stubbable function so that event and
// counter timestamps stay deterministic in tests.
package clock

import "time"

// NowFunc returns the current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }
