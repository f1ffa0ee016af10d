package idgen

import "github.com/google/uuid"

// NewFunc produces a new globally unique identifier. It is a package variable
// so tests can substitute a deterministic generator.
var NewFunc = func() string { return uuid.New().String() }

// New returns a fresh identifier for a spawned task.
func New() string { return NewFunc() }
