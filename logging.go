// Copyright 2026 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package asyncsleep

import (
	"sync"

	"github.com/joeycumines/logiface"
)

// Package-level logger configuration. Logging is a cross-cutting
// infrastructure concern here: every coordinator shares one logger, and the
// default (nil) logger disables all output with near-zero overhead, since
// logiface builders no-op on a nil logger.
var pkgLogger struct {
	sync.RWMutex
	logger *logiface.Logger[logiface.Event]
}

// SetLogger configures the logger used for coordinator lifecycle events and
// contained wake-callback panics. Passing nil disables logging, which is the
// default. Safe to call at any time, from any goroutine.
func SetLogger(l *logiface.Logger[logiface.Event]) {
	pkgLogger.Lock()
	defer pkgLogger.Unlock()
	pkgLogger.logger = l
}

func logger() *logiface.Logger[logiface.Event] {
	pkgLogger.RLock()
	defer pkgLogger.RUnlock()
	return pkgLogger.logger
}
