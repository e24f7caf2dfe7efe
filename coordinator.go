// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asyncsleep

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"time"
	"weak"
)

var coordinatorIDCounter atomic.Uint64

// coordinator is a single background goroutine tracking every outstanding
// deadline routed to it. It exclusively owns its deadline heap; the only
// cross-goroutine inputs are the registration queue and the stop channel.
//
// Registrations go through an unbounded queue rather than a bounded channel:
// admitting a request must never block the registering goroutine, no matter
// how far the run goroutine lags. wakec carries at most one pending token,
// which is enough because the run goroutine drains the whole queue every
// time it wakes.
//
// The coordinator performs no fallible I/O and is not expected to terminate.
// If its goroutine exits anyway, closed is set and done is closed, which is
// the death signal the process-wide singleton uses to respawn (see shared.go).
type coordinator struct {
	// mu guards ingress and closed.
	mu      sync.Mutex
	ingress registrationQueue
	closed  bool

	wakec chan struct{}
	stopc chan struct{}
	done  chan struct{}

	stopOnce sync.Once

	id uint64

	// Owned by the run goroutine. Not synchronized.
	timers deadlineHeap
	seq    uint64
}

// startCoordinator spawns a coordinator goroutine, ready to accept
// registrations.
func startCoordinator() *coordinator {
	c := &coordinator{
		wakec: make(chan struct{}, 1),
		stopc: make(chan struct{}),
		done:  make(chan struct{}),
		id:    coordinatorIDCounter.Add(1),
	}
	go c.run()
	return c
}

// register hands a sleep request to the coordinator. It never blocks: the
// request is queued and a wake token is posted unless one is already
// pending. Returns false if the coordinator is dead; the caller is expected
// to respawn and retry.
func (c *coordinator) register(st *sleepState) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.ingress.push(st)
	c.mu.Unlock()

	select {
	case c.wakec <- struct{}{}:
	default:
		// A wakeup is already pending; the queued request rides along.
	}
	return true
}

// stop terminates the coordinator and waits for its goroutine to exit.
// Used by tests to simulate an infrastructure-thread fault; there is no
// production shutdown, the coordinator lives for the process lifetime.
func (c *coordinator) stop() {
	c.stopOnce.Do(func() {
		close(c.stopc)
	})
	<-c.done
}

// run is the coordinator loop: admit queued registrations, fire everything
// due, then park until the next deadline or the next registration. An empty
// heap parks with no expiry channel, so an idle coordinator consumes
// nothing.
func (c *coordinator) run() {
	defer close(c.done)
	defer func() {
		// Ordered before the done closure by deferral, so register never
		// admits a request the loop will not drain.
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
	}()

	logger().Debug().
		Uint64("coordinator", c.id).
		Log("timer coordinator started")

	var tm *time.Timer
	for {
		c.admitRegistrations()
		next, ok := c.fireDue()

		var expiry <-chan time.Time
		if ok {
			// Reset without draining is safe; timer channels are unbuffered
			// as of Go 1.23, so no stale expiry can be observed.
			if tm == nil {
				tm = time.NewTimer(time.Until(next))
			} else {
				tm.Reset(time.Until(next))
			}
			expiry = tm.C
		} else if tm != nil {
			tm.Stop()
		}

		select {
		case <-c.wakec:
		case <-expiry:
			// Fall through; fireDue at the top of the loop handles it.
		case <-c.stopc:
			if tm != nil {
				tm.Stop()
			}
			logger().Debug().
				Uint64("coordinator", c.id).
				Int("pending", len(c.timers)).
				Log("timer coordinator stopped")
			return
		}
	}
}

// admitRegistrations drains the registration queue into the deadline heap.
func (c *coordinator) admitRegistrations() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		st, ok := c.ingress.pop()
		if !ok {
			return
		}
		c.seq++
		heap.Push(&c.timers, deadlineEntry{
			when: st.deadline,
			seq:  c.seq,
			ref:  weak.Make(st),
		})
	}
}

// fireDue resolves and fires every entry whose deadline has passed, discards
// entries whose request was abandoned or stopped, and reports the deadline of
// the next still-pending entry, if any.
//
// Pop order is non-decreasing deadline, ties FIFO, so wakes are delivered in
// deadline order as observed by this goroutine.
func (c *coordinator) fireDue() (time.Time, bool) {
	for len(c.timers) > 0 {
		head := c.timers[0]

		st := head.ref.Value()
		if st == nil || st.stopped.Load() {
			// Cancelled: either the handle was dropped (weak reference no
			// longer resolves) or explicitly stopped.
			heap.Pop(&c.timers)
			logger().Debug().
				Uint64("coordinator", c.id).
				Uint64("seq", head.seq).
				Log("discarded cancelled sleep entry")
			continue
		}

		if head.when.After(time.Now()) {
			return head.when, true
		}

		heap.Pop(&c.timers)
		c.fire(st)
	}
	return time.Time{}, false
}

// fire marks a request complete and invokes its wake callback, if one is
// set. The callback is user code: it runs outside the record's lock and a
// panic inside it is contained here so it cannot kill the coordinator.
func (c *coordinator) fire(st *sleepState) {
	w := st.takeWaker()
	if w == nil {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger().Err().
				Uint64("coordinator", c.id).
				Any("panic", r).
				Log("wake callback panicked")
		}
	}()

	w()
}
