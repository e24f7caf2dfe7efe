// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asyncsleep

import (
	"sync"
	"sync/atomic"
)

// The process-wide coordinator. Started lazily by the first registration,
// never explicitly torn down, and replaced if found dead. The pointer is
// read lock-free on the hot path; the mutex only serializes (re)spawns.
var shared struct {
	mu sync.Mutex
	c  atomic.Pointer[coordinator]
}

// sharedCoordinator returns the current process-wide coordinator, starting
// one if necessary.
func sharedCoordinator() *coordinator {
	if c := shared.c.Load(); c != nil {
		return c
	}

	shared.mu.Lock()
	defer shared.mu.Unlock()

	if c := shared.c.Load(); c != nil {
		return c
	}
	c := startCoordinator()
	shared.c.Store(c)
	return c
}

// respawnShared replaces a dead coordinator, unless another caller already
// did. Returns the current coordinator either way.
func respawnShared(dead *coordinator) *coordinator {
	shared.mu.Lock()
	defer shared.mu.Unlock()

	if c := shared.c.Load(); c != dead {
		return c
	}

	c := startCoordinator()
	shared.c.Store(c)

	logger().Warning().
		Uint64("died", dead.id).
		Uint64("coordinator", c.id).
		Log("timer coordinator died, respawned")

	return c
}

// registerShared routes a sleep request to the process-wide coordinator,
// self-healing on failure. Registration cannot fail from the caller's
// perspective: a dead coordinator costs one respawn and a retry, nothing
// more.
func registerShared(st *sleepState) {
	c := sharedCoordinator()
	for !c.register(st) {
		c = respawnShared(c)
	}
}
