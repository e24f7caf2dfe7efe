// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asyncsleep

import "sync"

// registrationChunkSize is the number of requests per node in the
// registration queue's linked list. 128 pointers plus overhead is about 1KB
// per chunk.
const registrationChunkSize = 128

// registrationQueue is an unbounded chunked linked-list queue of sleep
// requests awaiting admission to the coordinator's heap. Registering a
// request must never block the registering goroutine, however far the
// coordinator lags, so the queue grows without bound rather than applying
// backpressure.
//
// Not safe for concurrent use; the coordinator's mutex guards it.
type registrationQueue struct {
	head   *registrationChunk
	tail   *registrationChunk
	length int
}

var registrationChunkPool = sync.Pool{
	New: func() any {
		return &registrationChunk{}
	},
}

// registrationChunk is a fixed-size node with read/write cursors, so push
// and pop are O(1) with no shifting.
type registrationChunk struct {
	states  [registrationChunkSize]*sleepState
	next    *registrationChunk
	readPos int
	pos     int
}

func newRegistrationChunk() *registrationChunk {
	c := registrationChunkPool.Get().(*registrationChunk)
	c.pos = 0
	c.readPos = 0
	c.next = nil
	return c
}

// returnRegistrationChunk clears the state slots before pooling, so a
// recycled chunk cannot pin requests the collector should reclaim.
func returnRegistrationChunk(c *registrationChunk) {
	for i := 0; i < c.pos; i++ {
		c.states[i] = nil
	}
	c.pos = 0
	c.readPos = 0
	c.next = nil
	registrationChunkPool.Put(c)
}

func (q *registrationQueue) push(st *sleepState) {
	if q.tail == nil {
		q.tail = newRegistrationChunk()
		q.head = q.tail
	}

	if q.tail.pos == len(q.tail.states) {
		next := newRegistrationChunk()
		q.tail.next = next
		q.tail = next
	}

	q.tail.states[q.tail.pos] = st
	q.tail.pos++
	q.length++
}

func (q *registrationQueue) pop() (*sleepState, bool) {
	if q.head == nil {
		return nil, false
	}

	if q.head.readPos >= q.head.pos {
		// Exhausted head chunk: reset cursors if it is the only one, else
		// advance and recycle it.
		if q.head == q.tail {
			q.head.pos = 0
			q.head.readPos = 0
			return nil, false
		}
		old := q.head
		q.head = q.head.next
		returnRegistrationChunk(old)
	}

	if q.head.readPos >= q.head.pos {
		return nil, false
	}

	st := q.head.states[q.head.readPos]
	q.head.states[q.head.readPos] = nil
	q.head.readPos++
	q.length--

	if q.head.readPos >= q.head.pos {
		if q.head == q.tail {
			q.head.pos = 0
			q.head.readPos = 0
			return st, true
		}
		old := q.head
		q.head = q.head.next
		returnRegistrationChunk(old)
	}

	return st, true
}

func (q *registrationQueue) len() int { return q.length }
