// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asyncsleep

import (
	"context"
	"runtime"
	"sync"
	"time"
)

// Wait blocks the calling goroutine for at least d, using the shared
// coordinator rather than a per-call runtime timer. It returns nil once the
// deadline has passed, or ctx.Err() if ctx is done first, in which case the
// underlying request is stopped.
func Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s := Sleep(d)
	woken := make(chan struct{})
	s.Poll(func() { close(woken) })

	select {
	case <-woken:
		runtime.KeepAlive(s)
		return nil
	case <-ctx.Done():
		s.Stop()
		return ctx.Err()
	}
}

// afterPins keeps the request of each pending [After] channel strongly
// reachable until it fires. Without a live handle the coordinator's weak
// reference would let the collector reclaim the request before its deadline.
var afterPins sync.Map // *Sleeper -> struct{}

// After returns a channel that receives the current time once, no earlier
// than d from now, driven by the shared coordinator. It is the analogue of
// time.After for callers that want all timing routed through this package.
//
// The channel is buffered; the coordinator never blocks delivering to it.
func After(d time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	s := Sleep(d)
	afterPins.Store(s, struct{}{})
	s.Poll(func() {
		ch <- time.Now()
		afterPins.Delete(s)
	})
	return ch
}
