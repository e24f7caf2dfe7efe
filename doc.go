// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

// Package asyncsleep provides a portable, scheduler-agnostic async sleep
// primitive: suspend the calling task for at least a given duration, under
// any cooperative scheduler, without depending on that scheduler's own timer
// facility.
//
// # Model
//
// The primitive is a [Sleeper], created by [Sleep] and driven by repeated
// calls to [Sleeper.Poll]. A scheduler polls the handle with a wake callback;
// the first poll registers the request with a process-wide background
// coordinator, and every poll refreshes the callback so that only the most
// recently supplied one is ever invoked. When the deadline passes, the
// coordinator marks the request complete and invokes the stored callback
// exactly once, signalling the scheduler to poll the handle again.
//
// # Coordinator
//
// The coordinator is a single background goroutine shared by the whole
// process, started lazily on first use and respawned transparently if it
// ever dies. It owns a min-heap of outstanding deadlines and parks until the
// next deadline or the next registration, so there is no periodic polling.
// It holds only weak references to in-flight requests: abandoning a handle
// before its deadline is a silent cancellation, reclaimed by the garbage
// collector with no coordinator-side bookkeeping. [Sleeper.Stop] offers the
// same as an explicit, deterministic operation.
//
// For callers that simply run in goroutines, [Wait] and [After] are small
// adapters over the same primitive.
//
// # Precision
//
// Completion is never early. It is best-effort prompt, bounded by Go timer
// and goroutine wake latency (typically low single-digit milliseconds), not
// by any real-time guarantee.
package asyncsleep
