// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asyncsleep

import (
	"container/heap"
	"math/rand"
	"runtime"
	"testing"
	"time"
	"weak"
)

// Pop order is non-decreasing deadline regardless of push order.
func TestDeadlineHeapOrdering(t *testing.T) {
	base := time.Now()

	// Keep states alive so the weak references resolve for the duration of
	// the test.
	var states []*sleepState
	var h deadlineHeap

	rng := rand.New(rand.NewSource(7))
	for i, off := range rng.Perm(100) {
		st := &sleepState{deadline: base.Add(time.Duration(off) * time.Millisecond)}
		states = append(states, st)
		heap.Push(&h, deadlineEntry{
			when: st.deadline,
			seq:  uint64(i),
			ref:  weak.Make(st),
		})
	}

	prev := time.Time{}
	for h.Len() > 0 {
		e := heap.Pop(&h).(deadlineEntry)
		if e.when.Before(prev) {
			t.Fatalf("popped %v after %v", e.when, prev)
		}
		prev = e.when
	}

	runtime.KeepAlive(states)
}

// Entries with equal deadlines pop FIFO by registration sequence.
func TestDeadlineHeapTieBreakFIFO(t *testing.T) {
	when := time.Now().Add(time.Hour)

	var states []*sleepState
	var h deadlineHeap

	for i := 0; i < 10; i++ {
		st := &sleepState{deadline: when}
		states = append(states, st)
		heap.Push(&h, deadlineEntry{when: when, seq: uint64(i), ref: weak.Make(st)})
	}

	for i := 0; i < 10; i++ {
		e := heap.Pop(&h).(deadlineEntry)
		if e.seq != uint64(i) {
			t.Fatalf("pop %d returned seq %d", i, e.seq)
		}
	}

	runtime.KeepAlive(states)
}

// Mixed deadlines and ties together: order is (when, seq) lexicographic.
func TestDeadlineHeapMixed(t *testing.T) {
	base := time.Now()

	var states []*sleepState
	var h deadlineHeap

	push := func(offMs int, seq uint64) {
		st := &sleepState{deadline: base.Add(time.Duration(offMs) * time.Millisecond)}
		states = append(states, st)
		heap.Push(&h, deadlineEntry{when: st.deadline, seq: seq, ref: weak.Make(st)})
	}

	push(20, 0)
	push(10, 1)
	push(10, 2)
	push(30, 3)
	push(10, 4)

	wantSeq := []uint64{1, 2, 4, 0, 3}
	for i, want := range wantSeq {
		e := heap.Pop(&h).(deadlineEntry)
		if e.seq != want {
			t.Fatalf("pop %d returned seq %d, want %d", i, e.seq, want)
		}
	}

	runtime.KeepAlive(states)
}
