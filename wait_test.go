// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asyncsleep

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitElapses(t *testing.T) {
	const d = 60 * time.Millisecond

	start := time.Now()
	require.NoError(t, Wait(context.Background(), d))
	assert.GreaterOrEqual(t, time.Since(start), d)
}

func TestWaitContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	errc := make(chan error, 1)
	go func() {
		errc <- Wait(ctx, 10*time.Second)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after context cancellation")
	}
}

func TestWaitContextAlreadyDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Wait(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	// Must return without registering a one-hour timer wait.
	assert.Less(t, time.Since(start), time.Second)
}

func TestAfterDeliversAtDeadline(t *testing.T) {
	const d = 50 * time.Millisecond

	start := time.Now()
	ch := After(d)

	select {
	case ts := <-ch:
		require.GreaterOrEqual(t, time.Since(start), d)
		assert.False(t, ts.Before(start.Add(d)), "delivered timestamp %v before deadline", ts)
	case <-time.After(5 * time.Second):
		t.Fatal("After never delivered")
	}

	// Exactly one delivery.
	select {
	case <-ch:
		t.Fatal("After delivered a second value")
	case <-time.After(3 * d):
	}
}

// The After channel must survive the caller dropping every other reference:
// the pending request is pinned internally until it fires.
func TestAfterSurvivesGC(t *testing.T) {
	ch := After(100 * time.Millisecond)

	runtime.GC()
	runtime.GC()

	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("After never delivered following GC")
	}
}
