// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asyncsleep

import (
	"time"
	"weak"
)

// deadlineEntry is one outstanding sleep request as tracked by the
// coordinator. The reference is weak: if the caller abandons its handle, the
// entry resolves to nil and is discarded without ever firing.
type deadlineEntry struct {
	when time.Time
	seq  uint64
	ref  weak.Pointer[sleepState]
}

// deadlineHeap is a min-heap of deadline entries, ordered by deadline with
// ties broken FIFO by registration sequence.
type deadlineHeap []deadlineEntry

func (h deadlineHeap) Len() int { return len(h) }

func (h deadlineHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h deadlineHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *deadlineHeap) Push(x any) {
	*h = append(*h, x.(deadlineEntry))
}

func (h *deadlineHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = deadlineEntry{}
	*h = old[:n-1]
	return x
}
