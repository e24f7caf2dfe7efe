// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asyncsleep

import "time"

// A Sleeper is one in-flight sleep request: a suspension handle that a
// cooperative scheduler polls until complete.
//
// A Sleeper does nothing until its first [Sleeper.Poll]; in particular, the
// deadline is anchored to the first poll, not to [Sleep]. The handle is the
// sole owner of the request: keep it reachable until Poll reports
// completion. Dropping it earlier is a silent cancellation.
//
// The methods of a Sleeper must not be called concurrently. Schedulers
// serialize polls of a single suspension by construction; a new wake
// callback may be supplied on every poll, for example after migrating the
// task to another worker.
type Sleeper struct {
	d     time.Duration
	state *sleepState

	// set by Stop before the first poll, so a later poll never registers
	unpolled bool
}

// Sleep returns a suspension handle that completes no earlier than d after
// its first [Sleeper.Poll]. Negative durations behave as zero.
func Sleep(d time.Duration) *Sleeper {
	return &Sleeper{d: d}
}

// Poll checks the request for completion, supplying the wake callback the
// coordinator should invoke, once, when the deadline passes. Only the most
// recently supplied callback is ever invoked. wake may be nil if the caller
// intends to poll without being notified.
//
// The first call fixes the deadline at time.Now().Add(d), registers the
// request with the process-wide coordinator, and returns false; this holds
// even for zero and negative durations, which complete on the next check
// cycle. Subsequent calls replace the stored callback, then report
// completion. Once Poll returns true, it returns true forever, and no
// callback supplied afterwards is invoked.
//
// Poll never blocks and never fails: if the coordinator has died it is
// respawned transparently.
//
// The wake callback runs on the coordinator goroutine. It should only
// signal the scheduler and return; a callback that blocks stalls every
// other pending wake. A panic inside it is contained and logged.
func (s *Sleeper) Poll(wake func()) bool {
	st := s.state
	if st == nil {
		if s.unpolled {
			return false
		}
		st = &sleepState{deadline: time.Now().Add(s.d)}
		st.waker = wake // not yet shared, no lock needed
		s.state = st
		registerShared(st)
		return false
	}

	st.setWaker(wake)
	return st.completed.Load()
}

// Stop cancels the request. It returns true if the cancellation prevents the
// wake callback from running: that is, the request had neither completed nor
// been stopped already. After Stop, Poll returns false forever and no wake
// callback is ever invoked.
//
// Stop does not wait for a concurrently executing wake callback to return.
//
// The coordinator's bookkeeping for a stopped request is discarded lazily,
// at negligible cost, the next time the entry surfaces in its heap.
func (s *Sleeper) Stop() bool {
	st := s.state
	if st == nil {
		if s.unpolled {
			return false
		}
		s.unpolled = true
		return true
	}
	return st.stop()
}

// Deadline reports the absolute completion deadline. It returns false before
// the first [Sleeper.Poll], since the deadline is not yet anchored.
func (s *Sleeper) Deadline() (time.Time, bool) {
	if s.state == nil {
		return time.Time{}, false
	}
	return s.state.deadline, true
}
