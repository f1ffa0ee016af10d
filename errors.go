package gyre

import "errors"

var (
	// ErrPoolExhausted is the panic value of Spawn when no slot is
	// available. The pool has fixed capacity; there is no queuing.
	ErrPoolExhausted = errors.New("gyre: no available slot in pool")

	// ErrNotPublished is the panic value of Yield and the recycling guard
	// when no runtime handle has been published.
	ErrNotPublished = errors.New("gyre: runtime handle not published")

	// ErrAlreadyPublished is the panic value of Publish on a second call.
	ErrAlreadyPublished = errors.New("gyre: runtime handle already published")
)
