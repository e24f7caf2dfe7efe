// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asyncsleep

import (
	"sync"
	"sync/atomic"
	"time"
)

// sleepState is the per-request record shared between a [Sleeper] (which owns
// the only strong reference) and the coordinator (which holds a weak one).
//
// Lifecycle invariants:
//   - at most one of completed and stopped is ever set; the transition is
//     committed under mu, so cancellation and firing arbitrate cleanly
//   - the waker is invoked at most once, after completed is set, and never
//     with mu held
//   - once stopped is set, the waker is never invoked
type sleepState struct {
	// deadline is fixed at first poll and immutable thereafter.
	deadline time.Time

	// mu guards the waker slot and the completed/stopped transition; it is
	// scoped to this single record, so unrelated sleep requests never
	// contend. The flags stay atomics for lock-free reads elsewhere.
	mu    sync.Mutex
	waker func()

	completed atomic.Bool
	stopped   atomic.Bool
}

// setWaker replaces the stored wake callback. The latest stored callback is
// the only one that may ever be invoked.
func (st *sleepState) setWaker(wake func()) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.completed.Load() || st.stopped.Load() {
		// The slot has already been consumed (or will never be read);
		// storing would only pin the callback.
		return
	}
	st.waker = wake
}

// stop cancels the request. Returns true if it had not yet completed, in
// which case the waker will never be invoked: the completed check and the
// stopped commit happen under mu, so stop cannot report success after
// takeWaker has handed the waker out. Like time.Timer.Stop, a false return
// does not report whether the waker has finished running.
func (st *sleepState) stop() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.completed.Load() {
		return false
	}
	st.stopped.Store(true)
	st.waker = nil
	return true
}

// takeWaker marks the request complete and swaps out the wake callback,
// unless the request was stopped first, in which case it stays incomplete
// and nothing is returned. Called only by the coordinator goroutine, at
// most once per record.
func (st *sleepState) takeWaker() func() {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.stopped.Load() {
		return nil
	}
	st.completed.Store(true)
	w := st.waker
	st.waker = nil
	return w
}
